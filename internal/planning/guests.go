package planning

import "github.com/wedding-planner-api/internal/models"

// RSVPStats counts guests by response
type RSVPStats struct {
	Confirmed int `json:"confirmed"`
	Declined  int `json:"declined"`
	Pending   int `json:"pending"`
}

// CountRSVPs tallies the RSVP field of every guest
func CountRSVPs(guests []models.Guest) RSVPStats {
	var s RSVPStats
	for _, g := range guests {
		switch g.RSVP {
		case models.RSVPConfirmed:
			s.Confirmed++
		case models.RSVPDeclined:
			s.Declined++
		case models.RSVPPending:
			s.Pending++
		}
	}
	return s
}
