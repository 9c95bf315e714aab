package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// WarehouseTier represents the level of a warehouse in the stock hierarchy
type WarehouseTier string

const (
	// TierPlatform is the central platform warehouse
	TierPlatform WarehouseTier = "PLATFORM"
	// TierCloud is a per-seller virtual warehouse
	TierCloud WarehouseTier = "CLOUD"
	// TierLocal is a per-shop physical warehouse
	TierLocal WarehouseTier = "LOCAL"
)

// IsValid returns true if the tier is a known value
func (t WarehouseTier) IsValid() bool {
	switch t {
	case TierPlatform, TierCloud, TierLocal:
		return true
	}
	return false
}

// String returns the string representation
func (t WarehouseTier) String() string {
	return string(t)
}

// CanTransferTo reports whether stock may move from this tier to the target tier.
// Downstream moves (PLATFORM->CLOUD->LOCAL) distribute stock; the reverse
// direction is allowed for returns. Same-tier transfers move stock between
// sibling warehouses.
func (t WarehouseTier) CanTransferTo(target WarehouseTier) bool {
	switch t {
	case TierPlatform:
		return target == TierCloud || target == TierPlatform
	case TierCloud:
		return target == TierLocal || target == TierPlatform || target == TierCloud
	case TierLocal:
		return target == TierCloud || target == TierLocal
	}
	return false
}

// WarehouseStatus represents the operational status of a warehouse
type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "ACTIVE"
	WarehouseStatusDisabled WarehouseStatus = "DISABLED"
)

// Warehouse represents a stock pool at a specific tier.
// CLOUD and LOCAL warehouses carry an owner reference (seller or shop).
type Warehouse struct {
	shared.AuditedAggregateRoot
	Name    string          `gorm:"size:128;not null"`
	Code    string          `gorm:"size:32;not null;uniqueIndex"`
	Tier    WarehouseTier   `gorm:"size:16;not null;index"`
	OwnerID *uuid.UUID      `gorm:"type:uuid;index"`
	Address string          `gorm:"size:255"`
	Status  WarehouseStatus `gorm:"size:16;not null;default:ACTIVE"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(name, code string, tier WarehouseTier, ownerID *uuid.UUID) (*Warehouse, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name is required")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code is required")
	}
	if !tier.IsValid() {
		return nil, shared.NewDomainError("INVALID_TIER", "Unknown warehouse tier")
	}
	// Platform warehouses are shared; lower tiers belong to a seller or shop
	if tier != TierPlatform && ownerID == nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Cloud and local warehouses require an owner")
	}

	return &Warehouse{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Name:                 name,
		Code:                 code,
		Tier:                 tier,
		OwnerID:              ownerID,
		Status:               WarehouseStatusActive,
	}, nil
}

// IsActive returns true if the warehouse accepts stock operations
func (w *Warehouse) IsActive() bool {
	return w.Status == WarehouseStatusActive
}

// Disable marks the warehouse as disabled
func (w *Warehouse) Disable() {
	w.Status = WarehouseStatusDisabled
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Enable marks the warehouse as active
func (w *Warehouse) Enable() {
	w.Status = WarehouseStatusActive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Rename updates the warehouse name
func (w *Warehouse) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name is required")
	}
	w.Name = name
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}
