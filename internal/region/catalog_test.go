package region_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmstay-go/internal/region"
	"farmstay-go/internal/testutil"
)

func seededCatalog(t *testing.T) *region.Catalog {
	t.Helper()
	c := region.NewCatalog(testutil.OpenDB(t))
	n, err := c.Seed(context.Background())
	require.NoError(t, err)
	require.Equal(t, region.TotalPrefectures, n)
	return c
}

func TestResolveCode(t *testing.T) {
	c := seededCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		input  string
		code   string
		wantOK bool
	}{
		{"native name", "長野県", "20", true},
		{"romaji", "nagano", "20", true},
		{"romaji mixed case", "Nagano", "20", true},
		{"surrounding space", "  北海道 ", "01", true},
		{"unknown", "Atlantis", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok, err := c.ResolveCode(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestListActiveUsesDisplayOrder(t *testing.T) {
	c := seededCatalog(t)

	regions, err := c.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, regions, region.TotalPrefectures)

	for i, r := range regions {
		assert.Equal(t, i+1, r.DisplayOrder)
		assert.True(t, r.IsActive)
	}
	assert.Equal(t, "/uploads/stamps/prefectures/01_hokkaido.png", regions[0].ImageURL)
	assert.Equal(t, "kyushu", regions[46].Area)
}

func TestSeedIsRepeatable(t *testing.T) {
	c := seededCatalog(t)

	n, err := c.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, region.TotalPrefectures, n)

	regions, err := c.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, regions, region.TotalPrefectures)
}

func TestGet(t *testing.T) {
	c := seededCatalog(t)

	r, err := c.Get(context.Background(), "13")
	require.NoError(t, err)
	assert.Equal(t, "東京都", r.Name)

	_, err = c.Get(context.Background(), "99")
	assert.ErrorIs(t, err, region.ErrRegionNotFound)
}
