package models

// Role is the account role of a managed user
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleVendor   Role = "Vendor"
	RoleAdmin    Role = "Admin"
)

// Status is the two-state lifecycle flag shared by users, vendors and packages
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Toggled flips Active and Inactive. Any other value becomes Active.
func (s Status) Toggled() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// PackageTier is the pricing category of a wedding package
type PackageTier string

const (
	TierBudget   PackageTier = "Budget"
	TierStandard PackageTier = "Standard"
	TierPremium  PackageTier = "Premium"
)

// Side is the side of the couple a guest is invited by
type Side string

const (
	SideBride Side = "Bride"
	SideGroom Side = "Groom"
)

// RSVP is a guest's attendance response
type RSVP string

const (
	RSVPPending   RSVP = "Pending"
	RSVPConfirmed RSVP = "Confirmed"
	RSVPDeclined  RSVP = "Declined"
)

