package models

import "strings"

// ChecklistItem is one task on the couple's planning checklist
type ChecklistItem struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title" validate:"notblank"`
	Completed bool   `json:"completed" yaml:"completed"`
	Category  string `json:"category" yaml:"category" validate:"notblank"`
}

func (c ChecklistItem) Key() string { return c.ID }
func (c ChecklistItem) WithKey(id string) ChecklistItem { c.ID = id; return c }

// ChecklistPatch carries the editable fields of a ChecklistItem. Titles are
// trimmed on apply, matching the add form.
type ChecklistPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	Category  *string `json:"category,omitempty"`
}

// Apply merges the patch over c
func (p ChecklistPatch) Apply(c ChecklistItem) ChecklistItem {
	if p.Title != nil {
		c.Title = strings.TrimSpace(*p.Title)
	}
	if p.Completed != nil {
		c.Completed = *p.Completed
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	return c
}

// Guest represents a wedding guest
type Guest struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name" validate:"notblank"`
	Email string `json:"email" yaml:"email"`
	Side  Side   `json:"side" yaml:"side" validate:"oneof=Bride Groom"`
	RSVP  RSVP   `json:"rsvp" yaml:"rsvp" validate:"oneof=Pending Confirmed Declined"`
}

func (g Guest) Key() string { return g.ID }
func (g Guest) WithKey(id string) Guest { g.ID = id; return g }

// GuestPatch carries the mutable fields of a Guest
type GuestPatch struct {
	RSVP *RSVP `json:"rsvp,omitempty"`
}

// Apply merges the patch over g
func (p GuestPatch) Apply(g Guest) Guest {
	if p.RSVP != nil {
		g.RSVP = *p.RSVP
	}
	return g
}

// BudgetItem is one expense category in the budget tracker. Amounts are kept
// as the decimal strings the user typed; aggregation parses them.
type BudgetItem struct {
	ID        string `json:"id" yaml:"id"`
	Category  string `json:"category" yaml:"category" validate:"notblank"`
	Allocated string `json:"allocated" yaml:"allocated" validate:"notblank"`
	Spent     string `json:"spent" yaml:"spent"`
}

func (b BudgetItem) Key() string { return b.ID }
func (b BudgetItem) WithKey(id string) BudgetItem { b.ID = id; return b }

// BudgetPatch carries the editable fields of a BudgetItem
type BudgetPatch struct {
	Category  *string `json:"category,omitempty"`
	Allocated *string `json:"allocated,omitempty"`
	Spent     *string `json:"spent,omitempty"`
}

// Apply merges the patch over b
func (p BudgetPatch) Apply(b BudgetItem) BudgetItem {
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Allocated != nil {
		b.Allocated = *p.Allocated
	}
	if p.Spent != nil {
		b.Spent = *p.Spent
	}
	return b
}

// TimelineEvent is one entry of the wedding-day schedule. Time is free text
// in "H:MM AM/PM" form.
type TimelineEvent struct {
	ID          string `json:"id" yaml:"id"`
	Time        string `json:"time" yaml:"time"`
	Title       string `json:"title" yaml:"title" validate:"notblank"`
	Description string `json:"description" yaml:"description"`
}

func (e TimelineEvent) Key() string { return e.ID }
func (e TimelineEvent) WithKey(id string) TimelineEvent { e.ID = id; return e }

// TimelinePatch carries the editable fields of a TimelineEvent
type TimelinePatch struct {
	Time        *string `json:"time,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply merges the patch over e
func (p TimelinePatch) Apply(e TimelineEvent) TimelineEvent {
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	return e
}

// DirectoryVendor is a vendor card in the consumer vendor directory
type DirectoryVendor struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category" yaml:"category"`
	Rating      float64 `json:"rating" yaml:"rating"`
	Reviews     int     `json:"reviews" yaml:"reviews"`
	Location    string  `json:"location" yaml:"location"`
	PriceRange  string  `json:"price_range" yaml:"price_range"`
	Image       string  `json:"image,omitempty" yaml:"image"`
	Description string  `json:"description" yaml:"description"`
	Contact     string  `json:"contact" yaml:"contact"`
	City        string  `json:"city" yaml:"city"`
	Province    string  `json:"province" yaml:"province"`
}

func (v DirectoryVendor) Key() string { return v.ID }
func (v DirectoryVendor) WithKey(id string) DirectoryVendor { v.ID = id; return v }
