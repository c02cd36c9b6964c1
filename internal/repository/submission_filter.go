package repository

import "time"

type SubmissionFilter struct {
	OwnerID   string // empty = all owners
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
	MinPrice  *float64
	MaxPrice  *float64
	Search    string // matches job link or notes
	Limit     int
	Offset    int
}
