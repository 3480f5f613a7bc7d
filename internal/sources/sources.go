// Package sources binds each supported webhook source to its verifier and
// mapper variant. The registry is the single lookup the router consults;
// adding a source is a matter of registering one new variant here.
package sources

import (
	"github.com/bl1nk-platform/edge-gateway/internal/config"
	"github.com/bl1nk-platform/edge-gateway/internal/mapper"
	"github.com/bl1nk-platform/edge-gateway/internal/models"
	"github.com/bl1nk-platform/edge-gateway/internal/verify"
)

// Source is one registered webhook origin: its name plus its verification
// and normalization strategies.
type Source struct {
	Name     string
	Verifier verify.Verifier
	Mapper   mapper.Mapper
}

// Registry holds the closed set of supported sources keyed by name.
type Registry struct {
	items map[string]*Source
}

// NewRegistry constructs a registry with the provided sources.
func NewRegistry(items ...*Source) *Registry {
	r := &Registry{items: make(map[string]*Source, len(items))}
	for _, s := range items {
		r.items[s.Name] = s
	}
	return r
}

// Find returns the source registered under name, or nil.
func (r *Registry) Find(name string) *Source {
	if r == nil {
		return nil
	}
	return r.items[name]
}

// Names returns the registered source names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	return names
}

// Default builds the registry for all supported platforms, with secrets and
// verification policy taken from the webhook configuration.
func Default(cfg *config.WebhookConfig) *Registry {
	return NewRegistry(
		&Source{
			Name:     models.SourceSlack,
			Verifier: verify.NewSlackVerifier(cfg.SecretFor(models.SourceSlack)),
			Mapper:   mapper.SlackMapper{},
		},
		&Source{
			Name:     models.SourceGitHub,
			Verifier: verify.NewGitHubVerifier(cfg.SecretFor(models.SourceGitHub)),
			Mapper:   mapper.GitHubMapper{},
		},
		&Source{
			Name:     models.SourcePoe,
			Verifier: verify.NewPoeVerifier(cfg.SecretFor(models.SourcePoe)),
			Mapper:   mapper.PoeMapper{},
		},
		&Source{
			Name:     models.SourceManus,
			Verifier: verify.NewPassthroughVerifier(cfg.RequireVerification),
			Mapper:   mapper.ManusMapper{},
		},
		&Source{
			Name:     models.SourceInternal,
			Verifier: verify.NewBearerVerifier(cfg.JWTSecret),
			Mapper:   mapper.DirectMapper{Source: models.SourceInternal},
		},
	)
}
