// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set("k", []byte("v"), time.Hour))

	got, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	m.Now = func() time.Time { return now }

	require.NoError(t, m.Set("k", []byte("v"), time.Minute))

	now = base.Add(time.Minute)
	_, ok := m.Get("k")
	assert.False(t, ok)
	assert.Zero(t, m.Len(), "expired entry is evicted on access")
}

func TestMemoryCopiesValue(t *testing.T) {
	m := NewMemory()
	src := []byte("original")
	require.NoError(t, m.Set("k", src, time.Hour))
	src[0] = 'X'

	got, _ := m.Get("k")
	assert.Equal(t, []byte("original"), got)
}
