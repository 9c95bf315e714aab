package team

import (
	"context"

	"github.com/shopx/backoffice/internal/domain/sysconfig"
	"github.com/shopx/backoffice/internal/domain/team"
	"go.uber.org/zap"
)

// TierConfigKey is the system config row holding the tier table override
const (
	TierConfigGroup = sysconfig.GroupTeam
	TierConfigKey   = "commission_tiers"
)

// ConfigTierProvider reads the commission ladder from system configuration,
// falling back to the compiled-in table when no valid override exists.
type ConfigTierProvider struct {
	configRepo sysconfig.ConfigRepository
	logger     *zap.Logger
}

// NewConfigTierProvider creates a config-backed tier provider
func NewConfigTierProvider(configRepo sysconfig.ConfigRepository, logger *zap.Logger) *ConfigTierProvider {
	return &ConfigTierProvider{configRepo: configRepo, logger: logger}
}

// TierTable returns the active commission ladder
func (p *ConfigTierProvider) TierTable(ctx context.Context) team.TierTable {
	entry, err := p.configRepo.FindByGroupAndKey(ctx, TierConfigGroup, TierConfigKey)
	if err != nil || entry == nil {
		return team.DefaultTierTable()
	}

	var table team.TierTable
	if err := entry.UnmarshalInto(&table); err != nil {
		p.logger.Warn("tier table config is not valid JSON, using defaults", zap.Error(err))
		return team.DefaultTierTable()
	}
	if err := table.Validate(); err != nil {
		p.logger.Warn("tier table config failed validation, using defaults", zap.Error(err))
		return team.DefaultTierTable()
	}
	return table
}

var _ TierProvider = (*ConfigTierProvider)(nil)
