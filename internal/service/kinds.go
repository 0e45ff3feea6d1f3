package service

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wedding-planner-api/internal/collection"
	"github.com/wedding-planner-api/internal/directory"
	"github.com/wedding-planner-api/internal/listview"
	"github.com/wedding-planner-api/internal/models"
	"github.com/wedding-planner-api/internal/planning"
	"github.com/wedding-planner-api/internal/seed"
	"github.com/wedding-planner-api/internal/validation"
)

const (
	guestPrompt     = "Please enter a guest name"
	budgetPrompt    = "Please enter category and allocated amount"
	timelinePrompt  = "Please enter an event title"
	checklistPrompt = "Please enter a task title"
	resetPrompt     = "This will reset all items to default and clear your progress. Continue?"

	defaultChecklistCategory = "Planning"
	defaultEventTime         = "12:00 PM"
)

// screenDeps is what every screen is built from
type screenDeps struct {
	seed      *seed.Data
	confirmer listview.Confirmer
	observer  listview.Observer
	log       zerolog.Logger
	now       func() time.Time
}

// buildScreen mounts a fresh, seeded screen of the given kind
func buildScreen(kind Kind, id string, deps screenDeps) (Screen, error) {
	tokens := collection.TimestampTokens{Now: deps.now}

	switch kind {
	case KindUsers:
		return mount(id, kind, deps, slices.Clone(deps.seed.Users), listview.Options[int, models.User]{
			Name: "user",
			Schema: collection.Schema[models.User]{
				Searchable: []collection.Field[models.User]{
					func(u models.User) string { return u.Name },
					func(u models.User) string { return u.Email },
				},
				Facets: map[string]collection.Field[models.User]{
					"role":   func(u models.User) string { return string(u.Role) },
					"status": func(u models.User) string { return string(u.Status) },
				},
			},
			IDs: collection.Sequential{},
			Prepare: func(u models.User) models.User {
				if u.Status == "" {
					u.Status = models.StatusActive
				}
				if u.JoinDate.IsZero() {
					u.JoinDate = models.Date{Time: deps.now().UTC().Truncate(24 * time.Hour)}
				}
				return u
			},
			Validate: validation.ValidateUser,
			Toggle:   func(u models.User) models.User { return u.WithStatus(u.Status.Toggled()) },
		}, screenDef[int, models.User, models.UserPatch]{
			parseKey: intKey,
			columns: []Column[models.User]{
				{"id", func(u models.User) string { return strconv.Itoa(u.ID) }},
				{"name", func(u models.User) string { return u.Name }},
				{"email", func(u models.User) string { return u.Email }},
				{"role", func(u models.User) string { return string(u.Role) }},
				{"status", func(u models.User) string { return string(u.Status) }},
				{"join_date", func(u models.User) string { return u.JoinDate.String() }},
			},
			summary: func(all, _ []models.User) any {
				return countStatuses(all, func(u models.User) models.Status { return u.Status })
			},
			facetOptions: enumOptions(map[string][]string{
				"role":   {string(models.RoleCustomer), string(models.RoleVendor), string(models.RoleAdmin)},
				"status": statusOptions,
			}),
		})

	case KindVendors:
		return mount(id, kind, deps, slices.Clone(deps.seed.Vendors), listview.Options[int, models.Vendor]{
			Name: "vendor",
			Schema: collection.Schema[models.Vendor]{
				Searchable: []collection.Field[models.Vendor]{
					func(v models.Vendor) string { return v.Name },
					func(v models.Vendor) string { return v.Email },
				},
				Facets: map[string]collection.Field[models.Vendor]{
					"category": func(v models.Vendor) string { return v.Category },
					"status":   func(v models.Vendor) string { return string(v.Status) },
				},
			},
			IDs: collection.Sequential{},
			Prepare: func(v models.Vendor) models.Vendor {
				if v.Status == "" {
					v.Status = models.StatusActive
				}
				return v
			},
			Validate: validation.ValidateVendor,
			Toggle:   func(v models.Vendor) models.Vendor { return v.WithStatus(v.Status.Toggled()) },
		}, screenDef[int, models.Vendor, models.VendorPatch]{
			parseKey: intKey,
			columns: []Column[models.Vendor]{
				{"id", func(v models.Vendor) string { return strconv.Itoa(v.ID) }},
				{"name", func(v models.Vendor) string { return v.Name }},
				{"category", func(v models.Vendor) string { return v.Category }},
				{"email", func(v models.Vendor) string { return v.Email }},
				{"phone", func(v models.Vendor) string { return v.Phone }},
				{"status", func(v models.Vendor) string { return string(v.Status) }},
				{"rating", func(v models.Vendor) string { return strconv.FormatFloat(v.Rating, 'f', -1, 64) }},
			},
			summary: func(all, _ []models.Vendor) any {
				return countStatuses(all, func(v models.Vendor) models.Status { return v.Status })
			},
			facetOptions: enumOptions(map[string][]string{"status": statusOptions}),
		})

	case KindPackages:
		return mount(id, kind, deps, slices.Clone(deps.seed.Packages), listview.Options[int, models.Package]{
			Name: "package",
			Schema: collection.Schema[models.Package]{
				Searchable: []collection.Field[models.Package]{
					func(p models.Package) string { return p.Name },
				},
				Facets: map[string]collection.Field[models.Package]{
					"category": func(p models.Package) string { return string(p.Category) },
					"status":   func(p models.Package) string { return string(p.Status) },
				},
			},
			IDs: collection.Sequential{},
			Prepare: func(p models.Package) models.Package {
				if p.Status == "" {
					p.Status = models.StatusActive
				}
				return p
			},
			Validate: validation.ValidatePackage,
			Toggle:   func(p models.Package) models.Package { return p.WithStatus(p.Status.Toggled()) },
		}, screenDef[int, models.Package, models.PackagePatch]{
			parseKey: intKey,
			columns: []Column[models.Package]{
				{"id", func(p models.Package) string { return strconv.Itoa(p.ID) }},
				{"name", func(p models.Package) string { return p.Name }},
				{"category", func(p models.Package) string { return string(p.Category) }},
				{"price", func(p models.Package) string { return strconv.Itoa(p.Price) }},
				{"status", func(p models.Package) string { return string(p.Status) }},
				{"vendor_count", func(p models.Package) string { return strconv.Itoa(p.VendorCount) }},
				{"booking_count", func(p models.Package) string { return strconv.Itoa(p.BookingCount) }},
			},
			summary: func(all, _ []models.Package) any {
				return countStatuses(all, func(p models.Package) models.Status { return p.Status })
			},
			facetOptions: enumOptions(map[string][]string{
				"category": {string(models.TierBudget), string(models.TierStandard), string(models.TierPremium)},
				"status":   statusOptions,
			}),
		})

	case KindChecklist:
		defaults := deps.seed.Checklist
		return mount(id, kind, deps, slices.Clone(defaults), listview.Options[string, models.ChecklistItem]{
			Name: "item",
			Schema: collection.Schema[models.ChecklistItem]{
				Searchable: []collection.Field[models.ChecklistItem]{
					func(c models.ChecklistItem) string { return c.Title },
				},
				Facets: map[string]collection.Field[models.ChecklistItem]{
					"category":  func(c models.ChecklistItem) string { return c.Category },
					"completed": func(c models.ChecklistItem) string { return strconv.FormatBool(c.Completed) },
				},
			},
			IDs: tokens,
			Prepare: func(c models.ChecklistItem) models.ChecklistItem {
				c.Title = strings.TrimSpace(c.Title)
				c.Completed = false
				if c.Category == "" {
					c.Category = defaultChecklistCategory
				}
				return c
			},
			Validate: validation.ValidateChecklistItem,
			Prompt:   checklistPrompt,
			Toggle: func(c models.ChecklistItem) models.ChecklistItem {
				c.Completed = !c.Completed
				return c
			},
		}, screenDef[string, models.ChecklistItem, models.ChecklistPatch]{
			parseKey: stringKey,
			columns: []Column[models.ChecklistItem]{
				{"id", func(c models.ChecklistItem) string { return c.ID }},
				{"title", func(c models.ChecklistItem) string { return c.Title }},
				{"category", func(c models.ChecklistItem) string { return c.Category }},
				{"completed", func(c models.ChecklistItem) string { return strconv.FormatBool(c.Completed) }},
			},
			summary: func(all, visible []models.ChecklistItem) any {
				return ChecklistSummary{
					Progress: planning.ChecklistProgress(all),
					Groups:   planning.GroupByCategory(visible),
				}
			},
			defaults:    func() []models.ChecklistItem { return planning.ResetChecklist(defaults) },
			resetPrompt: resetPrompt,
			facetOptions: enumOptions(map[string][]string{
				"completed": {"true", "false"},
			}),
		})

	case KindGuests:
		return mount(id, kind, deps, slices.Clone(deps.seed.Guests), listview.Options[string, models.Guest]{
			Name: "guest",
			Schema: collection.Schema[models.Guest]{
				Searchable: []collection.Field[models.Guest]{
					func(g models.Guest) string { return g.Name },
					func(g models.Guest) string { return g.Email },
				},
				Facets: map[string]collection.Field[models.Guest]{
					"side": func(g models.Guest) string { return string(g.Side) },
					"rsvp": func(g models.Guest) string { return string(g.RSVP) },
				},
			},
			IDs: tokens,
			Prepare: func(g models.Guest) models.Guest {
				g.RSVP = models.RSVPPending
				if g.Side == "" {
					g.Side = models.SideBride
				}
				return g
			},
			Validate: validation.ValidateGuest,
			Prompt:   guestPrompt,
		}, screenDef[string, models.Guest, models.GuestPatch]{
			parseKey: stringKey,
			columns: []Column[models.Guest]{
				{"id", func(g models.Guest) string { return g.ID }},
				{"name", func(g models.Guest) string { return g.Name }},
				{"email", func(g models.Guest) string { return g.Email }},
				{"side", func(g models.Guest) string { return string(g.Side) }},
				{"rsvp", func(g models.Guest) string { return string(g.RSVP) }},
			},
			summary: func(all, _ []models.Guest) any { return planning.CountRSVPs(all) },
			facetOptions: enumOptions(map[string][]string{
				"side": {string(models.SideBride), string(models.SideGroom)},
				"rsvp": {string(models.RSVPPending), string(models.RSVPConfirmed), string(models.RSVPDeclined)},
			}),
		})

	case KindBudget:
		return mount(id, kind, deps, slices.Clone(deps.seed.Budget), listview.Options[string, models.BudgetItem]{
			Name: "budget item",
			Schema: collection.Schema[models.BudgetItem]{
				Searchable: []collection.Field[models.BudgetItem]{
					func(b models.BudgetItem) string { return b.Category },
				},
			},
			IDs:      tokens,
			Validate: validation.ValidateBudgetItem,
			Prompt:   budgetPrompt,
		}, screenDef[string, models.BudgetItem, models.BudgetPatch]{
			parseKey: stringKey,
			columns: []Column[models.BudgetItem]{
				{"id", func(b models.BudgetItem) string { return b.ID }},
				{"category", func(b models.BudgetItem) string { return b.Category }},
				{"allocated", func(b models.BudgetItem) string { return planning.ParseAmount(b.Allocated).String() }},
				{"spent", func(b models.BudgetItem) string { return planning.ParseAmount(b.Spent).String() }},
			},
			summary: func(all, _ []models.BudgetItem) any { return planning.SummarizeBudget(all) },
		})

	case KindTimeline:
		return mount(id, kind, deps, slices.Clone(deps.seed.Timeline), listview.Options[string, models.TimelineEvent]{
			Name: "event",
			Schema: collection.Schema[models.TimelineEvent]{
				Searchable: []collection.Field[models.TimelineEvent]{
					func(e models.TimelineEvent) string { return e.Title },
					func(e models.TimelineEvent) string { return e.Description },
				},
			},
			IDs: tokens,
			Prepare: func(e models.TimelineEvent) models.TimelineEvent {
				if strings.TrimSpace(e.Time) == "" {
					e.Time = defaultEventTime
				}
				return e
			},
			Validate: validation.ValidateTimelineEvent,
			Prompt:   timelinePrompt,
			Order:    planning.CompareTimeline,
		}, screenDef[string, models.TimelineEvent, models.TimelinePatch]{
			parseKey: stringKey,
			columns: []Column[models.TimelineEvent]{
				{"id", func(e models.TimelineEvent) string { return e.ID }},
				{"time", func(e models.TimelineEvent) string { return e.Time }},
				{"title", func(e models.TimelineEvent) string { return e.Title }},
				{"description", func(e models.TimelineEvent) string { return e.Description }},
			},
		})

	case KindDirectory:
		return mount(id, kind, deps, slices.Clone(deps.seed.Directory), listview.Options[string, models.DirectoryVendor]{
			Name: "vendor",
			Schema: collection.Schema[models.DirectoryVendor]{
				Searchable: []collection.Field[models.DirectoryVendor]{
					func(v models.DirectoryVendor) string { return v.Name },
					func(v models.DirectoryVendor) string { return v.Category },
					func(v models.DirectoryVendor) string { return v.Description },
					func(v models.DirectoryVendor) string { return v.Location },
				},
				Facets: map[string]collection.Field[models.DirectoryVendor]{
					directory.FacetCategory: func(v models.DirectoryVendor) string { return v.Category },
					directory.FacetProvince: func(v models.DirectoryVendor) string { return v.Province },
					directory.FacetCity:     func(v models.DirectoryVendor) string { return v.City },
				},
			},
			IDs:             tokens,
			FacetDependents: directory.FacetDependents,
			FacetOptions:    directory.SriLanka.FacetOptions,
		}, screenDef[string, models.DirectoryVendor, directoryPatch]{
			parseKey: stringKey,
			columns: []Column[models.DirectoryVendor]{
				{"id", func(v models.DirectoryVendor) string { return v.ID }},
				{"name", func(v models.DirectoryVendor) string { return v.Name }},
				{"category", func(v models.DirectoryVendor) string { return v.Category }},
				{"rating", func(v models.DirectoryVendor) string { return strconv.FormatFloat(v.Rating, 'f', -1, 64) }},
				{"reviews", func(v models.DirectoryVendor) string { return strconv.Itoa(v.Reviews) }},
				{"location", func(v models.DirectoryVendor) string { return v.Location }},
				{"price_range", func(v models.DirectoryVendor) string { return v.PriceRange }},
				{"contact", func(v models.DirectoryVendor) string { return v.Contact }},
				{"city", func(v models.DirectoryVendor) string { return v.City }},
				{"province", func(v models.DirectoryVendor) string { return v.Province }},
			},
			readOnly:     true,
			favorites:    true,
			facetOptions: directory.SriLanka.FacetOptions,
		})
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

// mount seeds a view and wraps it as a Screen
func mount[K comparable, T collection.Keyed[K, T], P listview.Patch[T]](
	id string, kind Kind, deps screenDeps, items []T, opts listview.Options[K, T], def screenDef[K, T, P],
) (Screen, error) {
	opts.Confirmer = deps.confirmer
	opts.Observer = deps.observer
	opts.Log = deps.log.With().Str("screen_id", id).Logger()
	if opts.FacetOptions == nil && def.facetOptions != nil {
		opts.FacetOptions = def.facetOptions
	}

	view, err := listview.New(items, opts)
	if err != nil {
		return nil, err
	}
	return newScreen(id, kind, view, def, deps.now), nil
}

// directoryPatch is never applied; the directory is read-only
type directoryPatch struct{}

func (directoryPatch) Apply(v models.DirectoryVendor) models.DirectoryVendor { return v }

var statusOptions = []string{string(models.StatusActive), string(models.StatusInactive)}

// enumOptions restricts the listed facets to fixed values, All first
func enumOptions(values map[string][]string) func(string, collection.Criteria) ([]string, bool) {
	return func(facet string, _ collection.Criteria) ([]string, bool) {
		v, ok := values[facet]
		if !ok {
			return nil, false
		}
		return append([]string{collection.All}, v...), true
	}
}

type statusSummary struct {
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

func countStatuses[T any](items []T, status func(T) models.Status) statusSummary {
	var s statusSummary
	for _, item := range items {
		switch status(item) {
		case models.StatusActive:
			s.Active++
		case models.StatusInactive:
			s.Inactive++
		}
	}
	return s
}

// ChecklistSummary is the overall progress and the visible items by category
type ChecklistSummary struct {
	Progress planning.Progress       `json:"progress"`
	Groups   []planning.CategoryGroup `json:"groups"`
}
