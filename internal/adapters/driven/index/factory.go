// Package index creates the configured driven.IndexStore.
package index

import (
	"fmt"
	"time"

	"github.com/custodia-labs/wikisearch/internal/adapters/driven/index/bleve"
	"github.com/custodia-labs/wikisearch/internal/adapters/driven/index/qdrant"
	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
)

// NewStore creates the index store selected by settings.
func NewStore(settings *domain.IndexSettings) (driven.IndexStore, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, domain.ErrIndexUnavailable
	}

	switch settings.Backend {
	case domain.IndexBackendQdrant:
		return qdrant.NewStore(qdrant.Config{
			Host:    settings.Host,
			APIKey:  settings.APIKey,
			Timeout: time.Duration(settings.TimeoutSeconds) * time.Second,
		}), nil

	case domain.IndexBackendBleve:
		return bleve.NewStore(), nil

	default:
		return nil, fmt.Errorf("index backend %q: %w", settings.Backend, domain.ErrUnsupportedType)
	}
}
