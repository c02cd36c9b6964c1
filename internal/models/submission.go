package models

import "time"

// Submission lifecycle: submitted → viewed → interviewed → won, or terminal declined.
const (
	StatusSubmitted   = "submitted"
	StatusViewed      = "viewed"
	StatusInterviewed = "interviewed"
	StatusWon         = "won"
	StatusDeclined    = "declined"
)

// Statuses lists the closed enumeration in lifecycle order.
var Statuses = []string{StatusSubmitted, StatusViewed, StatusInterviewed, StatusWon, StatusDeclined}

func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Submission struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Date      time.Time `json:"date"`
	JobLink   string    `json:"jobLink"`
	Status    string    `json:"status"`
	Price     float64   `json:"price"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
