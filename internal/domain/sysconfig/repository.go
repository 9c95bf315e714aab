package sysconfig

import (
	"context"

	"github.com/shopx/backoffice/internal/domain/shared"
)

// ConfigRepository defines the persistence port for system configs
type ConfigRepository interface {
	shared.Repository[ConfigEntry]
	FindByGroupAndKey(ctx context.Context, group, key string) (*ConfigEntry, error)
	FindByGroup(ctx context.Context, group string) ([]*ConfigEntry, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ConfigEntry], error)
	// Upsert writes the entry, replacing any existing row with the same
	// group and key. Used by JSON import.
	Upsert(ctx context.Context, entry *ConfigEntry) error
}
