package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/wedding-planner-api/internal/collection"
	"github.com/wedding-planner-api/internal/directory"
	"github.com/wedding-planner-api/internal/listview"
)

// Kind names a screen type
type Kind string

const (
	KindUsers     Kind = "users"
	KindVendors   Kind = "vendors"
	KindPackages  Kind = "packages"
	KindChecklist Kind = "checklist"
	KindGuests    Kind = "guests"
	KindBudget    Kind = "budget"
	KindTimeline  Kind = "timeline"
	KindDirectory Kind = "directory"
)

// Kinds lists every screen type in display order
var Kinds = []Kind{
	KindUsers, KindVendors, KindPackages,
	KindChecklist, KindGuests, KindBudget, KindTimeline,
	KindDirectory,
}

var (
	ErrUnknownKind     = errors.New("unknown screen kind")
	ErrScreenNotFound  = errors.New("screen not found")
	ErrTooManyScreens  = errors.New("too many mounted screens")
	ErrReadOnly        = errors.New("screen is read-only")
	ErrNoFavorites     = errors.New("screen has no favorites")
	ErrNoReset         = errors.New("screen has no defaults to reset to")
	ErrInvalidRecordID = errors.New("invalid record id")
	ErrInvalidBody     = errors.New("invalid request body")
	ErrRecordNotFound  = errors.New("record not found")
)

// Page is the rendered state of a screen: its filters, the visible records
// and the screen's derived figures
type Page struct {
	ID       string              `json:"id"`
	Kind     Kind                `json:"kind"`
	Criteria collection.Criteria `json:"criteria"`
	Total    int                 `json:"total"`
	Visible  int                 `json:"visible"`
	Records  any                 `json:"records"`
	Summary  any                 `json:"summary,omitempty"`
	Options  map[string][]string `json:"options,omitempty"`
}

// Table is the visible view of a screen flattened for export
type Table struct {
	Name    string
	Header  []string
	Rows    [][]string
	Records []any
}

// Screen is one mounted screen with its record type erased so the registry
// and the HTTP layer can treat every kind alike. Methods are safe for
// concurrent use.
type Screen interface {
	ID() string
	Kind() Kind
	LastUsed() time.Time

	Page() *Page
	Query(cr collection.Criteria) (*Page, error)
	SetFacet(name, value string) (*Page, error)
	ResetFilters() *Page

	Add(body []byte) (any, error)
	Update(id string, body []byte) (any, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeletePrompt() string
	Toggle(id string) (any, error)
	Favorite(id string) (bool, error)
	Reset(ctx context.Context) (bool, error)
	ResetPrompt() string

	Table() Table
}

// Column is one exported field of a record
type Column[T any] struct {
	Name  string
	Value func(T) string
}

// screenDef describes how one kind of screen behaves around its view
type screenDef[K comparable, T collection.Keyed[K, T], P listview.Patch[T]] struct {
	parseKey func(string) (K, error)
	columns  []Column[T]
	// summary derives the screen's figures from the full and visible records
	summary  func(all, visible []T) any
	readOnly bool
	// defaults are restored by Reset. Nil means the screen has no reset.
	defaults     func() []T
	resetPrompt  string
	favorites    bool
	facetOptions func(facet string, cr collection.Criteria) ([]string, bool)
}

type screen[K comparable, T collection.Keyed[K, T], P listview.Patch[T]] struct {
	mu        sync.Mutex
	id        string
	kind      Kind
	view      *listview.View[K, T]
	def       screenDef[K, T, P]
	favorites *directory.Favorites
	lastUsed  time.Time
	now       func() time.Time
}

func newScreen[K comparable, T collection.Keyed[K, T], P listview.Patch[T]](
	id string, kind Kind, view *listview.View[K, T], def screenDef[K, T, P], now func() time.Time,
) *screen[K, T, P] {
	s := &screen[K, T, P]{
		id:       id,
		kind:     kind,
		view:     view,
		def:      def,
		now:      now,
		lastUsed: now(),
	}
	if def.favorites {
		s.favorites = directory.NewFavorites()
	}
	return s
}

func (s *screen[K, T, P]) ID() string { return s.id }
func (s *screen[K, T, P]) Kind() Kind { return s.kind }

func (s *screen[K, T, P]) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// lock takes the screen lock and records the access
func (s *screen[K, T, P]) lock() {
	s.mu.Lock()
	s.lastUsed = s.now()
}

func (s *screen[K, T, P]) Page() *Page {
	s.lock()
	defer s.mu.Unlock()
	return s.page()
}

func (s *screen[K, T, P]) Query(cr collection.Criteria) (*Page, error) {
	s.lock()
	defer s.mu.Unlock()

	if err := s.view.SetCriteria(cr); err != nil {
		return nil, err
	}
	return s.page(), nil
}

func (s *screen[K, T, P]) SetFacet(name, value string) (*Page, error) {
	s.lock()
	defer s.mu.Unlock()

	if err := s.view.SetFacet(name, value); err != nil {
		return nil, err
	}
	return s.page(), nil
}

func (s *screen[K, T, P]) ResetFilters() *Page {
	s.lock()
	defer s.mu.Unlock()

	s.view.ResetFilters()
	return s.page()
}

func (s *screen[K, T, P]) Add(body []byte) (any, error) {
	if s.def.readOnly {
		return nil, ErrReadOnly
	}

	var draft T
	if err := json.Unmarshal(body, &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	s.lock()
	defer s.mu.Unlock()

	// identities are always assigned by the screen
	var zero K
	draft = draft.WithKey(zero)

	rec, err := s.view.Add(draft)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *screen[K, T, P]) Update(id string, body []byte) (any, error) {
	if s.def.readOnly {
		return nil, ErrReadOnly
	}
	key, err := s.def.parseKey(id)
	if err != nil {
		return nil, err
	}

	var patch P
	if err := json.Unmarshal(body, &patch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	s.lock()
	defer s.mu.Unlock()

	rec, found, err := s.view.Update(key, patch)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

func (s *screen[K, T, P]) Delete(ctx context.Context, id string) (bool, error) {
	if s.def.readOnly {
		return false, ErrReadOnly
	}
	key, err := s.def.parseKey(id)
	if err != nil {
		return false, err
	}

	s.lock()
	defer s.mu.Unlock()

	if !s.view.Snapshot().Contains(key) {
		return false, ErrRecordNotFound
	}
	return s.view.Delete(ctx, key)
}

func (s *screen[K, T, P]) DeletePrompt() string {
	return s.view.DeletePrompt()
}

func (s *screen[K, T, P]) Toggle(id string) (any, error) {
	key, err := s.def.parseKey(id)
	if err != nil {
		return nil, err
	}

	s.lock()
	defer s.mu.Unlock()

	rec, found, err := s.view.Toggle(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

func (s *screen[K, T, P]) Favorite(id string) (bool, error) {
	if s.favorites == nil {
		return false, ErrNoFavorites
	}
	key, err := s.def.parseKey(id)
	if err != nil {
		return false, err
	}

	s.lock()
	defer s.mu.Unlock()

	if !s.view.Snapshot().Contains(key) {
		return false, ErrRecordNotFound
	}
	return s.favorites.Toggle(id), nil
}

func (s *screen[K, T, P]) Reset(ctx context.Context) (bool, error) {
	if s.def.defaults == nil {
		return false, ErrNoReset
	}

	s.lock()
	defer s.mu.Unlock()

	return s.view.Restore(ctx, s.def.defaults(), s.def.resetPrompt)
}

func (s *screen[K, T, P]) ResetPrompt() string {
	return s.def.resetPrompt
}

func (s *screen[K, T, P]) Table() Table {
	s.lock()
	defer s.mu.Unlock()

	visible := s.view.Visible()
	t := Table{
		Name:    string(s.kind),
		Header:  make([]string, len(s.def.columns)),
		Rows:    make([][]string, 0, len(visible)),
		Records: make([]any, 0, len(visible)),
	}
	for i, col := range s.def.columns {
		t.Header[i] = col.Name
	}
	for _, rec := range visible {
		row := make([]string, len(s.def.columns))
		for i, col := range s.def.columns {
			row[i] = col.Value(rec)
		}
		t.Rows = append(t.Rows, row)
		t.Records = append(t.Records, rec)
	}
	return t
}

// page renders the screen. Callers hold the lock.
func (s *screen[K, T, P]) page() *Page {
	visible := s.view.Visible()
	p := &Page{
		ID:       s.id,
		Kind:     s.kind,
		Criteria: s.view.Criteria(),
		Total:    s.view.Len(),
		Visible:  len(visible),
		Records:  visible,
	}

	if s.def.summary != nil {
		p.Summary = s.def.summary(s.view.Snapshot().Items(), visible)
	}

	if s.def.facetOptions != nil {
		p.Options = make(map[string][]string)
		for _, name := range s.view.Schema().FacetNames() {
			if opts, ok := s.def.facetOptions(name, p.Criteria); ok {
				p.Options[name] = opts
			}
		}
	}

	if s.favorites != nil {
		p.Summary = directorySummary{Favorites: s.favorites.List()}
	}

	return p
}

type directorySummary struct {
	Favorites []string `json:"favorites"`
}

func intKey(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRecordID, s)
	}
	return id, nil
}

func stringKey(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidRecordID)
	}
	return s, nil
}
