// Package directory holds the lookup tables behind the consumer vendor
// directory: the category list, the province to city hierarchy, and the
// per-screen favorites set.
package directory

import (
	"slices"

	"github.com/wedding-planner-api/internal/collection"
)

// Facet names declared by the directory screen
const (
	FacetCategory = "category"
	FacetProvince = "province"
	FacetCity     = "city"
)

// Categories are the selectable vendor categories, All first
var Categories = []string{
	collection.All,
	"Venue",
	"Accommodation",
	"Catering",
	"Baker",
	"Photography",
	"Videography",
	"Florist",
	"Decor",
	"Attire",
	"Beauty",
	"Music",
	"Entertainment",
	"Transport",
	"Stationery",
	"Lighting",
	"Travel",
}

// Province is one top-level region with its cities
type Province struct {
	Name   string
	Cities []string
}

// LocationTable is an ordered province to city hierarchy
type LocationTable struct {
	provinces []Province
	index     map[string]int
}

// NewLocationTable builds a table from provinces in display order
func NewLocationTable(provinces []Province) *LocationTable {
	t := &LocationTable{
		provinces: slices.Clone(provinces),
		index:     make(map[string]int, len(provinces)),
	}
	for i, p := range t.provinces {
		t.index[p.Name] = i
	}
	return t
}

// SriLanka is the location table used by the directory
var SriLanka = NewLocationTable([]Province{
	{"Western", []string{"Colombo", "Gampaha", "Kalutara", "Moratuwa", "Negombo", "Panadura"}},
	{"Central", []string{"Kandy", "Matale", "Nuwara Eliya", "Gampola"}},
	{"Southern", []string{"Galle", "Matara", "Hambantota", "Weligama"}},
	{"Northern", []string{"Jaffna", "Vavuniya", "Mannar"}},
	{"Eastern", []string{"Trincomalee", "Batticaloa", "Ampara"}},
	{"North Western", []string{"Kurunegala", "Puttalam"}},
	{"North Central", []string{"Anuradhapura", "Polonnaruwa"}},
	{"Uva", []string{"Badulla", "Monaragala"}},
	{"Sabaragamuwa", []string{"Ratnapura", "Kegalle"}},
})

// Provinces lists the selectable provinces, All first
func (t *LocationTable) Provinces() []string {
	out := make([]string, 0, len(t.provinces)+1)
	out = append(out, collection.All)
	for _, p := range t.provinces {
		out = append(out, p.Name)
	}
	return out
}

// Cities lists the selectable cities of a province, All first. With province
// All, or one not in the table, only All can be chosen.
func (t *LocationTable) Cities(province string) []string {
	i, ok := t.index[province]
	if !ok {
		return []string{collection.All}
	}
	cities := t.provinces[i].Cities
	out := make([]string, 0, len(cities)+1)
	out = append(out, collection.All)
	return append(out, cities...)
}

// HasProvince reports whether the table declares province
func (t *LocationTable) HasProvince(province string) bool {
	_, ok := t.index[province]
	return ok
}

// FacetOptions returns the allowed values of a directory facet under the
// current criteria. The city options depend on the selected province.
func (t *LocationTable) FacetOptions(facet string, cr collection.Criteria) ([]string, bool) {
	switch facet {
	case FacetCategory:
		return Categories, true
	case FacetProvince:
		return t.Provinces(), true
	case FacetCity:
		return t.Cities(cr.Facet(FacetProvince)), true
	}
	return nil, false
}

// FacetDependents lists the facets reset when a directory facet changes
var FacetDependents = map[string][]string{
	FacetProvince: {FacetCity},
}
