package sysconfig

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopx/backoffice/internal/domain/shared"
)

// ValueType constrains how a config value string is interpreted
type ValueType string

const (
	ValueTypeString  ValueType = "STRING"
	ValueTypeNumber  ValueType = "NUMBER"
	ValueTypeBoolean ValueType = "BOOLEAN"
	ValueTypeJSON    ValueType = "JSON"
)

// IsValid returns true for a known value type
func (t ValueType) IsValid() bool {
	switch t {
	case ValueTypeString, ValueTypeNumber, ValueTypeBoolean, ValueTypeJSON:
		return true
	}
	return false
}

// Known config groups. Groups partition keys by the subsystem they tune.
const (
	GroupTeam      = "team"
	GroupInventory = "inventory"
	GroupGeneral   = "general"
)

var keyRegex = regexp.MustCompile(`^[a-z0-9_.\-]+$`)

// ConfigEntry is one typed key/value row of system configuration
type ConfigEntry struct {
	shared.AuditedAggregateRoot
	Group       string    `gorm:"size:64;not null;uniqueIndex:idx_config_group_key,priority:1"`
	Key         string    `gorm:"size:128;not null;uniqueIndex:idx_config_group_key,priority:2"`
	Value       string    `gorm:"type:text;not null"`
	Type        ValueType `gorm:"size:16;not null;default:STRING"`
	Description string    `gorm:"size:255"`
}

// TableName returns the table name for GORM
func (ConfigEntry) TableName() string {
	return "system_configs"
}

// NewConfigEntry creates a validated config row
func NewConfigEntry(group, key, value string, valueType ValueType) (*ConfigEntry, error) {
	group = strings.TrimSpace(strings.ToLower(group))
	key = strings.TrimSpace(strings.ToLower(key))
	if group == "" || !keyRegex.MatchString(group) {
		return nil, shared.NewDomainError("INVALID_CONFIG_GROUP", "Config group must be lowercase alphanumeric")
	}
	if key == "" || !keyRegex.MatchString(key) {
		return nil, shared.NewDomainError("INVALID_CONFIG_KEY", "Config key must be lowercase alphanumeric")
	}
	if !valueType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONFIG_TYPE", "Unknown config value type")
	}
	if err := validateValue(value, valueType); err != nil {
		return nil, err
	}

	return &ConfigEntry{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Group:                group,
		Key:                  key,
		Value:                value,
		Type:                 valueType,
	}, nil
}

// SetValue updates the value, keeping the declared type
func (c *ConfigEntry) SetValue(value string) error {
	if err := validateValue(value, c.Type); err != nil {
		return err
	}
	c.Value = value
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetDescription updates the human-readable note
func (c *ConfigEntry) SetDescription(desc string) {
	c.Description = desc
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// QualifiedKey returns "group.key" for logs and export
func (c *ConfigEntry) QualifiedKey() string {
	return c.Group + "." + c.Key
}

// AsBool interprets the value as a boolean
func (c *ConfigEntry) AsBool() (bool, error) {
	v, err := strconv.ParseBool(c.Value)
	if err != nil {
		return false, shared.NewDomainError("INVALID_CONFIG_VALUE", "Value is not a boolean")
	}
	return v, nil
}

// AsFloat interprets the value as a number
func (c *ConfigEntry) AsFloat() (float64, error) {
	v, err := strconv.ParseFloat(c.Value, 64)
	if err != nil {
		return 0, shared.NewDomainError("INVALID_CONFIG_VALUE", "Value is not a number")
	}
	return v, nil
}

// UnmarshalInto decodes a JSON-typed value into target
func (c *ConfigEntry) UnmarshalInto(target any) error {
	if c.Type != ValueTypeJSON {
		return shared.NewDomainError("INVALID_CONFIG_TYPE", "Value is not JSON typed")
	}
	if err := json.Unmarshal([]byte(c.Value), target); err != nil {
		return shared.NewDomainError("INVALID_CONFIG_VALUE", "Value is not valid JSON")
	}
	return nil
}

func validateValue(value string, valueType ValueType) error {
	switch valueType {
	case ValueTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return shared.NewDomainError("INVALID_CONFIG_VALUE", "Value is not a number")
		}
	case ValueTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return shared.NewDomainError("INVALID_CONFIG_VALUE", "Value is not a boolean")
		}
	case ValueTypeJSON:
		if !json.Valid([]byte(value)) {
			return shared.NewDomainError("INVALID_CONFIG_VALUE", "Value is not valid JSON")
		}
	}
	return nil
}
