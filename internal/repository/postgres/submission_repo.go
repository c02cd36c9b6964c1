package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/models"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/repository"
)

type SubmissionRepo struct{ db *pgxpool.Pool }

func NewSubmissionRepo(db *pgxpool.Pool) repository.SubmissionRepository {
	return &SubmissionRepo{db: db}
}

const submissionCols = `id, owner_id, date, job_link, status, price, COALESCE(notes, ''), created_at, updated_at`

func scanSubmissions(rows pgx.Rows) ([]models.Submission, error) {
	defer rows.Close()
	var out []models.Submission
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Date, &s.JobLink, &s.Status,
			&s.Price, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// buildSubmissionWhere composes a WHERE clause and args for the filter set.
func buildSubmissionWhere(f repository.SubmissionFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		clauses = append(clauses, "owner_id = $"+itoa(len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		clauses = append(clauses, "date >= $"+itoa(len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		clauses = append(clauses, "date <= $"+itoa(len(args)))
	}
	if s := strings.TrimSpace(f.Status); s != "" {
		args = append(args, s)
		clauses = append(clauses, "status = $"+itoa(len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		clauses = append(clauses, "price >= $"+itoa(len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		clauses = append(clauses, "price <= $"+itoa(len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := "%" + s + "%"
		args = append(args, p, p)
		clauses = append(clauses, "(job_link ILIKE $"+itoa(len(args)-1)+" OR notes ILIKE $"+itoa(len(args))+")")
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *SubmissionRepo) List(ctx context.Context, f repository.SubmissionFilter) ([]models.Submission, int, error) {
	whereSQL, args := buildSubmissionWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM submissions `+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql := `SELECT ` + submissionCols + ` FROM submissions ` + whereSQL + ` ORDER BY date DESC`
	if f.Limit > 0 {
		if f.Offset < 0 {
			f.Offset = 0
		}
		args = append(args, f.Limit, f.Offset)
		sql += ` LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := scanSubmissions(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *SubmissionRepo) Get(ctx context.Context, id string) (*models.Submission, error) {
	var s models.Submission
	err := r.db.QueryRow(ctx, `
		SELECT `+submissionCols+` FROM submissions WHERE id = $1`, id).
		Scan(&s.ID, &s.OwnerID, &s.Date, &s.JobLink, &s.Status,
			&s.Price, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepo) Create(ctx context.Context, s *models.Submission) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now()
	return r.db.QueryRow(ctx, `
		INSERT INTO submissions (id, owner_id, date, job_link, status, price, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		s.ID, s.OwnerID, s.Date, s.JobLink, s.Status, s.Price, s.Notes, now, now).
		Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *SubmissionRepo) Update(ctx context.Context, s *models.Submission) error {
	s.UpdatedAt = time.Now()
	ct, err := r.db.Exec(ctx, `
		UPDATE submissions SET
			date=$1, job_link=$2, status=$3, price=$4, notes=$5, updated_at=$6
		WHERE id=$7`,
		s.Date, s.JobLink, s.Status, s.Price, s.Notes, s.UpdatedAt, s.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *SubmissionRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// -----------------------------------------------------------------------------
// Aggregates for dashboard and reports. Empty ownerID = all owners.
// -----------------------------------------------------------------------------

func ownerClause(ownerID string, args *[]any) string {
	if ownerID == "" {
		return "1=1"
	}
	*args = append(*args, ownerID)
	return "owner_id = $" + itoa(len(*args))
}

func (r *SubmissionRepo) CountSince(ctx context.Context, ownerID string, since time.Time) (int, error) {
	args := []any{}
	where := ownerClause(ownerID, &args)
	if !since.IsZero() {
		args = append(args, since)
		where += " AND date >= $" + itoa(len(args))
	}
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM submissions WHERE `+where, args...).Scan(&n)
	return n, err
}

func (r *SubmissionRepo) StatusBreakdown(ctx context.Context, ownerID string) (map[string]repository.StatusAgg, error) {
	args := []any{}
	where := ownerClause(ownerID, &args)
	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(price), 0)
		FROM submissions
		WHERE `+where+`
		GROUP BY status`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]repository.StatusAgg{}
	for rows.Next() {
		var status string
		var agg repository.StatusAgg
		if err := rows.Scan(&status, &agg.Count, &agg.TotalValue); err != nil {
			return nil, err
		}
		out[status] = agg
	}
	return out, rows.Err()
}

func (r *SubmissionRepo) MonthlyCounts(ctx context.Context, ownerID string, year int) ([12]int, error) {
	var out [12]int
	args := []any{}
	where := ownerClause(ownerID, &args)
	args = append(args, year)
	rows, err := r.db.Query(ctx, `
		SELECT EXTRACT(MONTH FROM date)::int, COUNT(*)
		FROM submissions
		WHERE `+where+` AND EXTRACT(YEAR FROM date)::int = $`+itoa(len(args))+`
		GROUP BY 1 ORDER BY 1`, args...)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var month, count int
		if err := rows.Scan(&month, &count); err != nil {
			return out, err
		}
		if month >= 1 && month <= 12 {
			out[month-1] = count
		}
	}
	return out, rows.Err()
}

// DailyCounts returns one bucket per day starting at from (day 0) for days days.
func (r *SubmissionRepo) DailyCounts(ctx context.Context, ownerID string, from time.Time, days int) ([]int, error) {
	out := make([]int, days)
	args := []any{}
	where := ownerClause(ownerID, &args)
	args = append(args, from)
	rows, err := r.db.Query(ctx, `
		SELECT (date::date - $`+itoa(len(args))+`::date), COUNT(*)
		FROM submissions
		WHERE `+where+` AND date >= $`+itoa(len(args))+`
		GROUP BY 1`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var day, count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		if day >= 0 && day < days {
			out[day] = count
		}
	}
	return out, rows.Err()
}

func (r *SubmissionRepo) Recent(ctx context.Context, ownerID string, n int) ([]models.Submission, error) {
	args := []any{}
	where := ownerClause(ownerID, &args)
	args = append(args, n)
	rows, err := r.db.Query(ctx, `
		SELECT `+submissionCols+` FROM submissions
		WHERE `+where+`
		ORDER BY date DESC
		LIMIT $`+itoa(len(args)), args...)
	if err != nil {
		return nil, err
	}
	return scanSubmissions(rows)
}

func (r *SubmissionRepo) ListByYear(ctx context.Context, ownerID string, year int) ([]models.Submission, error) {
	args := []any{}
	where := ownerClause(ownerID, &args)
	args = append(args, year)
	rows, err := r.db.Query(ctx, `
		SELECT `+submissionCols+` FROM submissions
		WHERE `+where+` AND EXTRACT(YEAR FROM date)::int = $`+itoa(len(args))+`
		ORDER BY date ASC`, args...)
	if err != nil {
		return nil, err
	}
	return scanSubmissions(rows)
}

// small helper to avoid fmt in query building.
func itoa(i int) string { return strconv.Itoa(i) }
