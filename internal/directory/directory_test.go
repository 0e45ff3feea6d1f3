package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wedding-planner-api/internal/collection"
)

func TestLocationTable_Provinces(t *testing.T) {
	provinces := SriLanka.Provinces()
	require.Len(t, provinces, 10)
	assert.Equal(t, collection.All, provinces[0])
	assert.Equal(t, "Western", provinces[1])
	assert.Equal(t, "Sabaragamuwa", provinces[9])
}

func TestLocationTable_Cities(t *testing.T) {
	tests := []struct {
		province string
		expected []string
	}{
		{"Western", []string{"All", "Colombo", "Gampaha", "Kalutara", "Moratuwa", "Negombo", "Panadura"}},
		{"Uva", []string{"All", "Badulla", "Monaragala"}},
		{collection.All, []string{"All"}},
		{"Atlantis", []string{"All"}},
	}

	for _, tt := range tests {
		t.Run(tt.province, func(t *testing.T) {
			assert.Equal(t, tt.expected, SriLanka.Cities(tt.province))
		})
	}
}

func TestLocationTable_CitiesDoesNotAlias(t *testing.T) {
	cities := SriLanka.Cities("Central")
	cities[1] = "Changed"
	assert.Equal(t, "Kandy", SriLanka.Cities("Central")[1])
}

func TestLocationTable_FacetOptions(t *testing.T) {
	cr := collection.Criteria{}.WithFacet(FacetProvince, "Central")

	cities, restricted := SriLanka.FacetOptions(FacetCity, cr)
	assert.True(t, restricted)
	assert.Contains(t, cities, "Kandy")
	assert.NotContains(t, cities, "Colombo")

	cats, restricted := SriLanka.FacetOptions(FacetCategory, cr)
	assert.True(t, restricted)
	assert.Equal(t, Categories, cats)

	_, restricted = SriLanka.FacetOptions("price", cr)
	assert.False(t, restricted)
}

func TestLocationTable_HasProvince(t *testing.T) {
	assert.True(t, SriLanka.HasProvince("North Central"))
	assert.False(t, SriLanka.HasProvince(collection.All))
}

func TestFavorites_Toggle(t *testing.T) {
	f := NewFavorites()

	assert.True(t, f.Toggle("2"))
	assert.True(t, f.Toggle("1"))
	assert.True(t, f.Has("2"))
	assert.Equal(t, []string{"1", "2"}, f.List())

	assert.False(t, f.Toggle("2"))
	assert.False(t, f.Has("2"))
	assert.Equal(t, []string{"1"}, f.List())
}
