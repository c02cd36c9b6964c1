package models

import "time"

const (
	RoleOperator = "operator" // owns and manages submissions
	RoleObserver = "observer" // read-only across all submissions
)

func ValidRole(r string) bool { return r == RoleOperator || r == RoleObserver }

// Settings is the per-account preferences sub-record.
type Settings struct {
	WeeklyTarget int    `json:"weeklyTarget"`
	DefaultView  string `json:"defaultView"` // list | grid
	Currency     string `json:"currency"`
}

func DefaultSettings() Settings {
	return Settings{WeeklyTarget: 10, DefaultView: "list", Currency: "USD"}
}

type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Settings  Settings  `json:"settings"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
