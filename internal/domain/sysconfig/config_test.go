package sysconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigEntry(t *testing.T) {
	t.Run("normalizes group and key", func(t *testing.T) {
		c, err := NewConfigEntry(" Team ", "Commission_Tiers", `[]`, ValueTypeJSON)

		require.NoError(t, err)
		assert.Equal(t, "team", c.Group)
		assert.Equal(t, "commission_tiers", c.Key)
		assert.Equal(t, "team.commission_tiers", c.QualifiedKey())
	})

	t.Run("rejects malformed keys", func(t *testing.T) {
		_, err := NewConfigEntry("team", "has space", "x", ValueTypeString)
		require.Error(t, err)

		_, err = NewConfigEntry("", "key", "x", ValueTypeString)
		require.Error(t, err)
	})

	t.Run("validates value against declared type", func(t *testing.T) {
		_, err := NewConfigEntry("inventory", "expiry_window_days", "not-a-number", ValueTypeNumber)
		require.Error(t, err)

		_, err = NewConfigEntry("inventory", "alerts_enabled", "maybe", ValueTypeBoolean)
		require.Error(t, err)

		_, err = NewConfigEntry("team", "tiers", "{broken", ValueTypeJSON)
		require.Error(t, err)

		_, err = NewConfigEntry("inventory", "expiry_window_days", "30", ValueTypeNumber)
		require.NoError(t, err)
	})
}

func TestConfigEntry_SetValue(t *testing.T) {
	c, err := NewConfigEntry("inventory", "expiry_window_days", "30", ValueTypeNumber)
	require.NoError(t, err)
	version := c.GetVersion()

	require.Error(t, c.SetValue("abc"))
	assert.Equal(t, "30", c.Value)

	require.NoError(t, c.SetValue("14"))
	assert.Equal(t, "14", c.Value)
	assert.Equal(t, version+1, c.GetVersion())
}

func TestConfigEntry_TypedAccessors(t *testing.T) {
	t.Run("bool", func(t *testing.T) {
		c, err := NewConfigEntry("inventory", "alerts_enabled", "true", ValueTypeBoolean)
		require.NoError(t, err)

		v, err := c.AsBool()
		require.NoError(t, err)
		assert.True(t, v)
	})

	t.Run("number", func(t *testing.T) {
		c, err := NewConfigEntry("inventory", "expiry_window_days", "7.5", ValueTypeNumber)
		require.NoError(t, err)

		v, err := c.AsFloat()
		require.NoError(t, err)
		assert.Equal(t, 7.5, v)
	})

	t.Run("json decodes into target", func(t *testing.T) {
		c, err := NewConfigEntry("team", "level_weights", `{"1":1,"2":0.5}`, ValueTypeJSON)
		require.NoError(t, err)

		var weights map[string]float64
		require.NoError(t, c.UnmarshalInto(&weights))
		assert.Equal(t, 0.5, weights["2"])
	})

	t.Run("json accessor rejects non-json entries", func(t *testing.T) {
		c, err := NewConfigEntry("team", "greeting", "hello", ValueTypeString)
		require.NoError(t, err)

		var out any
		require.Error(t, c.UnmarshalInto(&out))
	})
}
