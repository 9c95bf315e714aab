package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryConfigArchiver(t *testing.T) {
	ctx := context.Background()

	t.Run("archives and returns a memory location", func(t *testing.T) {
		a := NewMemoryConfigArchiver()

		location, err := a.Archive(ctx, "config-exports/20260830T120000Z.json", []byte(`{"version":1}`))

		require.NoError(t, err)
		assert.Equal(t, "memory://config-exports/20260830T120000Z.json", location)

		data, ok := a.Get("config-exports/20260830T120000Z.json")
		assert.True(t, ok)
		assert.JSONEq(t, `{"version":1}`, string(data))
	})

	t.Run("rejects empty key", func(t *testing.T) {
		a := NewMemoryConfigArchiver()

		_, err := a.Archive(ctx, "", []byte("{}"))
		assert.Error(t, err)
	})

	t.Run("stores a copy of the document", func(t *testing.T) {
		a := NewMemoryConfigArchiver()
		doc := []byte(`{"version":1}`)

		_, err := a.Archive(ctx, "k", doc)
		require.NoError(t, err)

		doc[2] = 'x'
		data, _ := a.Get("k")
		assert.JSONEq(t, `{"version":1}`, string(data))
	})
}
