package catalog

import (
	"fmt"
	"log/slog"

	"github.com/nsrpc/nsrpc/internal/adapter"
	"github.com/nsrpc/nsrpc/internal/domain"
)

// Source binds one provider to each console target
type Source struct {
	providers map[domain.ConsoleTarget]domain.CatalogProvider
}

// NewSource builds the providers described by the application config:
// Switch 1 reads games.json or the community list, Switch 2 uses the bundled list.
func NewSource(cfg *adapter.Config, logger *slog.Logger) (*Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	return NewStaticSource(map[domain.ConsoleTarget]domain.CatalogProvider{
		domain.ConsoleSwitch1: NewRemoteProvider(cfg.Catalog.Switch1File, cfg.Catalog.Switch1URL, cfg.Catalog.HTTPTimeout, logger),
		domain.ConsoleSwitch2: NewBuiltinProvider(nil),
	}), nil
}

// NewStaticSource wraps an explicit target → provider table
func NewStaticSource(providers map[domain.ConsoleTarget]domain.CatalogProvider) *Source {
	return &Source{providers: providers}
}

// Provider implements domain.CatalogSource
func (s *Source) Provider(target domain.ConsoleTarget) (domain.CatalogProvider, error) {
	p, ok := s.providers[target]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownConsole, target)
	}
	return p, nil
}
