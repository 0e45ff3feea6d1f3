// Package listview implements the view state behind every management and
// planning screen: the screen's collection, its active filter criteria, and
// the mutation commands that replace the collection wholesale.
//
// A View is owned by exactly one screen and is not safe for concurrent use;
// callers that share one across goroutines must serialize access.
package listview

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/wedding-planner-api/internal/collection"
	"github.com/wedding-planner-api/internal/models"
)

var (
	// ErrNoToggle is returned by Toggle on screens without a two-state field
	ErrNoToggle = errors.New("screen has no toggle")
	// ErrUnknownFacet is returned when a filter names a facet the screen does not declare
	ErrUnknownFacet = errors.New("unknown facet")
	// ErrFacetValue is returned when a facet value is not among the allowed options
	ErrFacetValue = errors.New("facet value not allowed")
)

// Patch is a partial update merged over an existing record
type Patch[T any] interface {
	Apply(T) T
}

// PromptError is a validation failure surfaced to the user. The mutation that
// produced it was aborted and the collection is unchanged.
type PromptError struct {
	Prompt string
	Errors []models.ValidationError
}

func (e *PromptError) Error() string {
	return e.Prompt
}

// Observer receives one call per mutation command
type Observer interface {
	Mutation(screen, op, outcome string)
}

// Options configures a View
type Options[K comparable, T collection.Keyed[K, T]] struct {
	// Name is the singular record noun used in prompts and logs ("user")
	Name   string
	Schema collection.Schema[T]
	IDs    collection.IDSource[K]

	// Prepare fills defaults on a draft before validation
	Prepare func(T) T
	// Validate returns field errors for a draft or a patched record
	Validate func(T) []models.ValidationError
	// Prompt is the message shown when validation fails
	Prompt string

	// Toggle flips the screen's two-state field. Nil means no toggle.
	Toggle func(T) T
	// Order sorts the visible records. Nil keeps collection order.
	Order func(a, b T) int

	// FacetDependents lists facets reset to All when the key facet changes
	FacetDependents map[string][]string
	// FacetOptions returns the allowed values for a facet under the current
	// criteria. The second result is false when any value is allowed.
	FacetOptions func(facet string, cr collection.Criteria) ([]string, bool)

	Confirmer Confirmer
	Observer  Observer
	Log       zerolog.Logger
}

// View is the state of one mounted screen
type View[K comparable, T collection.Keyed[K, T]] struct {
	opts     Options[K, T]
	items    collection.Collection[K, T]
	criteria collection.Criteria
	log      zerolog.Logger
}

// New mounts a view over seed records
func New[K comparable, T collection.Keyed[K, T]](seed []T, opts Options[K, T]) (*View[K, T], error) {
	items, err := collection.New[K, T](seed)
	if err != nil {
		return nil, fmt.Errorf("failed to seed %s collection: %w", opts.Name, err)
	}
	if opts.IDs == nil {
		return nil, fmt.Errorf("%s view requires an id source", opts.Name)
	}
	if opts.Confirmer == nil {
		opts.Confirmer = AlwaysConfirm
	}
	if opts.Prompt == "" {
		opts.Prompt = fmt.Sprintf("Please fill in the required %s fields", opts.Name)
	}

	return &View[K, T]{
		opts:  opts,
		items: items,
		log:   opts.Log.With().Str("screen", opts.Name).Logger(),
	}, nil
}

// Name returns the record noun of the screen
func (v *View[K, T]) Name() string {
	return v.opts.Name
}

// Schema returns the screen's filter allowlist
func (v *View[K, T]) Schema() collection.Schema[T] {
	return v.opts.Schema
}

// Snapshot returns the current collection value
func (v *View[K, T]) Snapshot() collection.Collection[K, T] {
	return v.items
}

// Len returns the number of records in the collection
func (v *View[K, T]) Len() int {
	return v.items.Len()
}

// Get looks a record up by key
func (v *View[K, T]) Get(id K) (T, bool) {
	return v.items.Get(id)
}

// Criteria returns the active filter criteria
func (v *View[K, T]) Criteria() collection.Criteria {
	return v.criteria
}

// SetSearch replaces the search text
func (v *View[K, T]) SetSearch(text string) {
	v.criteria = collection.Criteria{Search: text, Facets: v.criteria.Facets}
}

// SetFacet selects a facet value. Dependent facets are reset to All.
func (v *View[K, T]) SetFacet(name, value string) error {
	if !v.opts.Schema.HasFacet(name) {
		return fmt.Errorf("%w: %s", ErrUnknownFacet, name)
	}
	if value == "" {
		value = collection.All
	}

	next := v.criteria.WithFacet(name, value)
	for _, dep := range v.opts.FacetDependents[name] {
		next = next.WithFacet(dep, collection.All)
	}

	if err := v.checkFacetValue(name, value, next); err != nil {
		return err
	}

	v.criteria = next
	return nil
}

// SetCriteria replaces the whole filter state. Facets are applied in
// dependency order so a parent selection never clears a child chosen in the
// same call.
func (v *View[K, T]) SetCriteria(cr collection.Criteria) error {
	for name := range cr.Facets {
		if !v.opts.Schema.HasFacet(name) {
			return fmt.Errorf("%w: %s", ErrUnknownFacet, name)
		}
	}

	next := collection.Criteria{Search: cr.Search}
	for _, name := range v.facetOrder(cr) {
		value := cr.Facet(name)
		next = next.WithFacet(name, value)
		if err := v.checkFacetValue(name, value, next); err != nil {
			return err
		}
	}

	v.criteria = next
	return nil
}

// ResetFilters clears search text and every facet
func (v *View[K, T]) ResetFilters() {
	v.criteria = collection.Criteria{}
}

// Visible returns the filtered, optionally ordered, view of the collection
func (v *View[K, T]) Visible() []T {
	out := collection.Filter(v.items, v.opts.Schema, v.criteria)
	if v.opts.Order != nil {
		slices.SortStableFunc(out, v.opts.Order)
	}
	return out
}

// Add validates a draft, assigns it an identity when it has none, and appends
// it to the end of the collection
func (v *View[K, T]) Add(draft T) (T, error) {
	if v.opts.Prepare != nil {
		draft = v.opts.Prepare(draft)
	}

	if err := v.validate(draft); err != nil {
		v.observe("add", "invalid")
		return draft, err
	}

	var zero K
	if draft.Key() == zero {
		draft = draft.WithKey(v.opts.IDs.Next(v.items.Keys()))
	}

	next, err := v.items.Append(draft)
	if err != nil {
		v.observe("add", "error")
		return draft, err
	}
	v.items = next

	v.observe("add", "ok")
	v.log.Debug().Interface("id", draft.Key()).Int("count", v.items.Len()).Msg("Record added")
	return draft, nil
}

// Update merges patch over the record keyed id, keeping its position. A
// missing id is a no-op and reports false.
func (v *View[K, T]) Update(id K, patch Patch[T]) (T, bool, error) {
	current, ok := v.items.Get(id)
	if !ok {
		v.observe("update", "not_found")
		return current, false, nil
	}

	patched := patch.Apply(current).WithKey(id)
	if err := v.validate(patched); err != nil {
		v.observe("update", "invalid")
		return current, true, err
	}

	v.items, _ = v.items.Replace(id, func(T) T { return patched })

	v.observe("update", "ok")
	v.log.Debug().Interface("id", id).Msg("Record updated")
	return patched, true, nil
}

// Delete removes the record keyed id once the confirmer accepts. It reports
// false when the record does not exist or the user declined.
func (v *View[K, T]) Delete(ctx context.Context, id K) (bool, error) {
	if !v.items.Contains(id) {
		v.observe("delete", "not_found")
		return false, nil
	}

	ok, err := v.opts.Confirmer.Confirm(ctx, v.DeletePrompt())
	if err != nil {
		v.observe("delete", "error")
		return false, err
	}
	if !ok {
		v.observe("delete", "declined")
		return false, nil
	}

	v.items, _ = v.items.Remove(id)

	v.observe("delete", "ok")
	v.log.Debug().Interface("id", id).Int("count", v.items.Len()).Msg("Record deleted")
	return true, nil
}

// DeletePrompt is the question asked before a delete
func (v *View[K, T]) DeletePrompt() string {
	return fmt.Sprintf("Are you sure you want to delete this %s?", v.opts.Name)
}

// Toggle flips the screen's two-state field on the record keyed id. No
// confirmation is asked.
func (v *View[K, T]) Toggle(id K) (T, bool, error) {
	var zero T
	if v.opts.Toggle == nil {
		return zero, false, ErrNoToggle
	}

	next, ok := v.items.Replace(id, v.opts.Toggle)
	if !ok {
		v.observe("toggle", "not_found")
		return zero, false, nil
	}
	v.items = next

	rec, _ := v.items.Get(id)
	v.observe("toggle", "ok")
	v.log.Debug().Interface("id", id).Msg("Record toggled")
	return rec, true, nil
}

// Restore replaces the whole collection with items once the confirmer accepts
// prompt. Filters are kept.
func (v *View[K, T]) Restore(ctx context.Context, items []T, prompt string) (bool, error) {
	next, err := collection.New[K, T](items)
	if err != nil {
		v.observe("restore", "error")
		return false, err
	}

	ok, err := v.opts.Confirmer.Confirm(ctx, prompt)
	if err != nil {
		v.observe("restore", "error")
		return false, err
	}
	if !ok {
		v.observe("restore", "declined")
		return false, nil
	}

	v.items = next
	v.observe("restore", "ok")
	v.log.Debug().Int("count", v.items.Len()).Msg("Collection restored")
	return true, nil
}

// HasToggle reports whether the screen declares a toggle
func (v *View[K, T]) HasToggle() bool {
	return v.opts.Toggle != nil
}

func (v *View[K, T]) validate(rec T) error {
	if v.opts.Validate == nil {
		return nil
	}
	if errs := v.opts.Validate(rec); len(errs) > 0 {
		return &PromptError{Prompt: v.opts.Prompt, Errors: errs}
	}
	return nil
}

func (v *View[K, T]) checkFacetValue(name, value string, cr collection.Criteria) error {
	if value == collection.All || v.opts.FacetOptions == nil {
		return nil
	}
	allowed, restricted := v.opts.FacetOptions(name, cr)
	if restricted && !slices.Contains(allowed, value) {
		return fmt.Errorf("%w: %s=%s", ErrFacetValue, name, value)
	}
	return nil
}

// facetOrder lists the facets of cr with parents ahead of their dependents
func (v *View[K, T]) facetOrder(cr collection.Criteria) []string {
	isDependent := make(map[string]bool)
	for _, deps := range v.opts.FacetDependents {
		for _, d := range deps {
			isDependent[d] = true
		}
	}

	names := make([]string, 0, len(cr.Facets))
	for name := range cr.Facets {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if isDependent[a] != isDependent[b] {
			if isDependent[a] {
				return 1
			}
			return -1
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	return names
}

func (v *View[K, T]) observe(op, outcome string) {
	if v.opts.Observer != nil {
		v.opts.Observer.Mutation(v.opts.Name, op, outcome)
	}
}
