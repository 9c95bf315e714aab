package team

import (
	"context"

	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/team"
	"go.uber.org/zap"
)

// PerformanceCacheInvalidator drops a member's cached performance results
// when their role changes. The role selects the commission rate, so every
// cached period of that member is stale the moment it changes.
type PerformanceCacheInvalidator struct {
	cache  PerformanceCache
	logger *zap.Logger
}

// NewPerformanceCacheInvalidator creates a new invalidation handler
func NewPerformanceCacheInvalidator(cache PerformanceCache, logger *zap.Logger) *PerformanceCacheInvalidator {
	return &PerformanceCacheInvalidator{cache: cache, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *PerformanceCacheInvalidator) EventTypes() []string {
	return []string{team.EventTypeMemberRoleChanged}
}

// Handle evicts every cached period of the member whose role changed
func (h *PerformanceCacheInvalidator) Handle(_ context.Context, event shared.DomainEvent) error {
	evt, ok := event.(*team.MemberRoleChangedEvent)
	if !ok {
		return nil
	}

	h.cache.DeleteByPrefix(memberCachePrefix(evt.AggregateID()))
	h.logger.Debug("performance cache invalidated after role change",
		zap.String("member_id", evt.AggregateID().String()),
		zap.String("old_role", evt.OldRole.String()),
		zap.String("new_role", evt.NewRole.String()))
	return nil
}

// Ensure PerformanceCacheInvalidator implements EventHandler
var _ shared.EventHandler = (*PerformanceCacheInvalidator)(nil)
