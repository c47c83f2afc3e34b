package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/nsrpc/nsrpc/internal/domain"
)

//go:embed switch2.json
var switch2Catalog []byte

// BuiltinProvider serves a catalog compiled into the binary
type BuiltinProvider struct {
	data []byte
}

// NewBuiltinProvider serves data; nil selects the bundled Switch 2 list.
func NewBuiltinProvider(data []byte) *BuiltinProvider {
	if data == nil {
		data = switch2Catalog
	}
	return &BuiltinProvider{data: data}
}

// FetchCatalog implements domain.CatalogProvider
func (p *BuiltinProvider) FetchCatalog(ctx context.Context) ([]domain.Title, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return Decode(p.data)
}
