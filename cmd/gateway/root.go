package main

import (
	"github.com/spf13/cobra"

	"github.com/bl1nk-platform/edge-gateway/internal/forwarder"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "bl1nk edge webhook gateway",
	Long: `gateway is the ingress boundary of the bl1nk agent platform.

It receives webhooks from third-party platforms (Poe, Manus, Slack, GitHub),
verifies their signatures, rate-limits callers, normalizes payloads into the
canonical task-creation schema and forwards them to the downstream
orchestration worker.`,
	Version: forwarder.Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(signCmd)
}
