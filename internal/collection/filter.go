package collection

import (
	"sort"
	"strings"
)

// All is the facet value meaning "impose no constraint for this facet"
const All = "All"

// Field extracts one string-valued field from a record
type Field[T any] func(T) string

// Schema is a screen's filter allowlist: which fields the search text is
// matched against and which categorical fields may be used as facets.
type Schema[T any] struct {
	Searchable []Field[T]
	Facets     map[string]Field[T]
}

// Criteria is the active filter state of a screen
type Criteria struct {
	Search string            `json:"search"`
	Facets map[string]string `json:"facets,omitempty"`
}

// WithFacet returns a copy of the criteria with facet name set to value
func (cr Criteria) WithFacet(name, value string) Criteria {
	facets := make(map[string]string, len(cr.Facets)+1)
	for k, v := range cr.Facets {
		facets[k] = v
	}
	facets[name] = value
	return Criteria{Search: cr.Search, Facets: facets}
}

// Facet returns the selected value for a facet, All when unset
func (cr Criteria) Facet(name string) string {
	if v, ok := cr.Facets[name]; ok && v != "" {
		return v
	}
	return All
}

// Unconstrained reports whether the criteria select every record
func (cr Criteria) Unconstrained() bool {
	if cr.Search != "" {
		return false
	}
	for _, v := range cr.Facets {
		if v != "" && v != All {
			return false
		}
	}
	return true
}

// HasFacet reports whether name is a declared facet
func (s Schema[T]) HasFacet(name string) bool {
	_, ok := s.Facets[name]
	return ok
}

// FacetNames returns the declared facet names in sorted order
func (s Schema[T]) FacetNames() []string {
	names := make([]string, 0, len(s.Facets))
	for name := range s.Facets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Match reports whether rec passes the criteria. Search is a case-insensitive
// substring match against any searchable field; every constrained facet must
// equal the record's field exactly. A constrained facet the schema does not
// declare matches nothing.
func (s Schema[T]) Match(rec T, cr Criteria) bool {
	if cr.Search != "" && !s.matchSearch(rec, strings.ToLower(cr.Search)) {
		return false
	}
	for name, want := range cr.Facets {
		if want == "" || want == All {
			continue
		}
		field, ok := s.Facets[name]
		if !ok || field(rec) != want {
			return false
		}
	}
	return true
}

func (s Schema[T]) matchSearch(rec T, needle string) bool {
	for _, field := range s.Searchable {
		if strings.Contains(strings.ToLower(field(rec)), needle) {
			return true
		}
	}
	return false
}

// Filter returns the records of c that match cr, in collection order
func Filter[K comparable, T Keyed[K, T]](c Collection[K, T], s Schema[T], cr Criteria) []T {
	if cr.Unconstrained() {
		return c.Items()
	}
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if s.Match(item, cr) {
			out = append(out, item)
		}
	}
	return out
}
