package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/models"
)

// ErrDuplicateEmail is returned by AccountRepository.Create when the
// case-normalized email is already registered.
var ErrDuplicateEmail = errors.New("email already in use")

// StatusAgg is a per-status rollup used by the dashboard.
type StatusAgg struct {
	Count      int     `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

// ProfileUpdate carries the optional fields of a settings/profile update.
// Nil means "leave unchanged".
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Settings *models.Settings
}

type AccountRepository interface {
	Create(ctx context.Context, email, name, role, passwordHash string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, string /*passwordHash*/, error)
	GetByID(ctx context.Context, id string) (*models.Account, string /*passwordHash*/, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*models.Account, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	// FirstOperator returns the earliest-created operator account, or nil.
	// Observers inherit their weekly target from it.
	FirstOperator(ctx context.Context) (*models.Account, error)
}

type SubmissionRepository interface {
	// List returns a page plus the total matching count. Limit <= 0 disables
	// paging (used by export).
	List(ctx context.Context, f SubmissionFilter) ([]models.Submission, int, error)
	Get(ctx context.Context, id string) (*models.Submission, error)
	Create(ctx context.Context, s *models.Submission) error
	Update(ctx context.Context, s *models.Submission) error
	Delete(ctx context.Context, id string) error

	// Aggregates. An empty ownerID means "all owners" (observer scope).
	CountSince(ctx context.Context, ownerID string, since time.Time) (int, error)
	StatusBreakdown(ctx context.Context, ownerID string) (map[string]StatusAgg, error)
	MonthlyCounts(ctx context.Context, ownerID string, year int) ([12]int, error)
	DailyCounts(ctx context.Context, ownerID string, from time.Time, days int) ([]int, error)
	Recent(ctx context.Context, ownerID string, n int) ([]models.Submission, error)
	ListByYear(ctx context.Context, ownerID string, year int) ([]models.Submission, error)
}
