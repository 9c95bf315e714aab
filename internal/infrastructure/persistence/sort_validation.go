package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// WarehouseSortFields contains allowed sort fields for warehouses
var WarehouseSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"tier":       true,
	"status":     true,
}

// StockSortFields contains allowed sort fields for stock rows
var StockSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"warehouse_id":      true,
	"product_id":        true,
	"quantity":          true,
	"reserved_quantity": true,
	"unit_cost":         true,
	"min_quantity":      true,
	"max_quantity":      true,
}

// InventoryLogSortFields contains allowed sort fields for movement logs
var InventoryLogSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"kind":         true,
	"warehouse_id": true,
	"product_id":   true,
	"quantity":     true,
	"batch_number": true,
	"reference":    true,
}

// InventoryAlertSortFields contains allowed sort fields for alerts
var InventoryAlertSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"type":         true,
	"status":       true,
	"warehouse_id": true,
	"product_id":   true,
}

// MemberSortFields contains allowed sort fields for team members
var MemberSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"nickname":   true,
	"role":       true,
	"status":     true,
	"joined_at":  true,
}

// CommissionSortFields contains allowed sort fields for commission records
var CommissionSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"period":      true,
	"status":      true,
	"amount":      true,
	"base_amount": true,
	"reviewed_at": true,
	"settled_at":  true,
}

// UserSortFields contains allowed sort fields for admin users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// AuditLogSortFields contains allowed sort fields for audit logs
var AuditLogSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"action":      true,
	"entity_type": true,
	"actor_id":    true,
}

// ConfigSortFields contains allowed sort fields for system configs
var ConfigSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"group":      true,
	"key":        true,
	"type":       true,
}
