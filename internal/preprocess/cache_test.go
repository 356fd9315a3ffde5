package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crashlens/internal/dataset"
)

func TestCache_MemoizesByContent(t *testing.T) {
	cache := NewCache()

	headers := []string{"Year", "Fatalities"}
	rows := [][]string{{"1990", "10"}, {"1990", ""}}

	a, err := dataset.New(headers, rows)
	require.NoError(t, err)
	b, err := dataset.New(headers, rows)
	require.NoError(t, err)

	first := cache.Run(a)
	second := cache.Run(b)
	assert.Same(t, first, second, "identical content hits the cache even from a distinct load")
	assert.Equal(t, 1, cache.Len())
}

func TestCache_DistinguishesContent(t *testing.T) {
	cache := NewCache()

	a, err := dataset.New([]string{"Year"}, [][]string{{"1990"}})
	require.NoError(t, err)
	b, err := dataset.New([]string{"Year"}, [][]string{{"2005"}})
	require.NoError(t, err)

	assert.NotSame(t, cache.Run(a), cache.Run(b))
	assert.Equal(t, 2, cache.Len())
}

func TestCache_IsolatedInstances(t *testing.T) {
	ds, err := dataset.New([]string{"Year"}, [][]string{{"1990"}})
	require.NoError(t, err)

	first := NewCache().Run(ds)
	second := NewCache().Run(ds)
	assert.NotSame(t, first, second, "caches share no hidden state")
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
}
