package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// signCmd computes the signature headers a source would attach to a webhook
// body, for exercising a running gateway with curl during development.
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Compute webhook signature headers for a payload",
	Long: `Compute the signature headers a platform would attach to a webhook
delivery, so a local gateway can be exercised with curl.

Examples:
  gateway sign --source slack --secret s3cret --body @payload.json
  gateway sign --source github --secret s3cret --body '{"ref":"refs/heads/main"}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		secret, _ := cmd.Flags().GetString("secret")
		bodyArg, _ := cmd.Flags().GetString("body")

		if secret == "" {
			return fmt.Errorf("--secret is required")
		}

		body, err := readBodyArg(bodyArg)
		if err != nil {
			return err
		}

		switch source {
		case "slack":
			ts := strconv.FormatInt(time.Now().Unix(), 10)
			base := "v0:" + ts + ":" + string(body)
			fmt.Printf("X-Slack-Request-Timestamp: %s\n", ts)
			fmt.Printf("X-Slack-Signature: v0=%s\n", hmacHex([]byte(secret), []byte(base)))
		case "github":
			fmt.Printf("X-Hub-Signature-256: sha256=%s\n", hmacHex([]byte(secret), body))
		case "poe":
			fmt.Printf("X-Poe-Signature: %s\n", hmacHex([]byte(secret), body))
		default:
			return fmt.Errorf("unknown source %q (supported: slack, github, poe)", source)
		}
		return nil
	},
}

func init() {
	signCmd.Flags().String("source", "", "webhook source: slack, github, poe")
	signCmd.Flags().String("secret", "", "signing secret")
	signCmd.Flags().String("body", "", "payload body, or @file to read from a file")
}

func readBodyArg(arg string) ([]byte, error) {
	if len(arg) > 1 && arg[0] == '@' {
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}
		return data, nil
	}
	return []byte(arg), nil
}

func hmacHex(key, message []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}
