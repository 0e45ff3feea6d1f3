package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseDate(node.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// User represents a user in the admin dashboard
type User struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name" validate:"notblank"`
	Email    string `json:"email" yaml:"email" validate:"required,strict_email"`
	Role     Role   `json:"role" yaml:"role" validate:"required,oneof=Customer Vendor Admin"`
	Status   Status `json:"status" yaml:"status" validate:"required,oneof=Active Inactive"`
	JoinDate Date   `json:"join_date" yaml:"join_date"`
}

func (u User) Key() int { return u.ID }
func (u User) WithKey(id int) User { u.ID = id; return u }
func (u User) WithStatus(s Status) User { u.Status = s; return u }

// UserPatch carries the mutable fields of a User
type UserPatch struct {
	Status *Status `json:"status,omitempty"`
}

// Apply merges the patch over u
func (p UserPatch) Apply(u User) User {
	if p.Status != nil {
		u.Status = *p.Status
	}
	return u
}

// Vendor represents a vendor account in the admin dashboard
type Vendor struct {
	ID       int     `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name" validate:"notblank"`
	Category string  `json:"category" yaml:"category" validate:"notblank"`
	Email    string  `json:"email" yaml:"email" validate:"required,strict_email"`
	Phone    string  `json:"phone" yaml:"phone"`
	Status   Status  `json:"status" yaml:"status" validate:"required,oneof=Active Inactive"`
	Rating   float64 `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
}

func (v Vendor) Key() int { return v.ID }
func (v Vendor) WithKey(id int) Vendor { v.ID = id; return v }
func (v Vendor) WithStatus(s Status) Vendor { v.Status = s; return v }

// VendorPatch carries the mutable fields of a Vendor
type VendorPatch struct {
	Status *Status `json:"status,omitempty"`
}

// Apply merges the patch over v
func (p VendorPatch) Apply(v Vendor) Vendor {
	if p.Status != nil {
		v.Status = *p.Status
	}
	return v
}

// Package represents a wedding package offered on the platform
type Package struct {
	ID           int         `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"name" validate:"notblank"`
	Category     PackageTier `json:"category" yaml:"category" validate:"required,oneof=Budget Standard Premium"`
	Price        int         `json:"price" yaml:"price" validate:"gte=0"`
	Status       Status      `json:"status" yaml:"status" validate:"required,oneof=Active Inactive"`
	VendorCount  int         `json:"vendor_count" yaml:"vendor_count" validate:"gte=0"`
	BookingCount int         `json:"booking_count" yaml:"booking_count" validate:"gte=0"`
}

func (p Package) Key() int { return p.ID }
func (p Package) WithKey(id int) Package { p.ID = id; return p }
func (p Package) WithStatus(s Status) Package { p.Status = s; return p }

// PackagePatch carries the mutable fields of a Package
type PackagePatch struct {
	Status *Status `json:"status,omitempty"`
}

// Apply merges the patch over pkg
func (p PackagePatch) Apply(pkg Package) Package {
	if p.Status != nil {
		pkg.Status = *p.Status
	}
	return pkg
}
