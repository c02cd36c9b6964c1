package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/models"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/repository"
)

type AccountRepo struct{ db *pgxpool.Pool }

func NewAccountRepo(db *pgxpool.Pool) repository.AccountRepository { return &AccountRepo{db: db} }

const accountCols = `id, email, name, role, weekly_target, default_view, currency, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Role,
		&a.Settings.WeeklyTarget, &a.Settings.DefaultView, &a.Settings.Currency,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) Create(ctx context.Context, email, name, role, passwordHash string) (*models.Account, error) {
	s := models.DefaultSettings()
	a, err := scanAccount(r.db.QueryRow(ctx, `
		INSERT INTO accounts (id, email, name, role, password_h, weekly_target, default_view, currency)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8)
		RETURNING `+accountCols,
		uuid.NewString(), email, name, role, passwordHash,
		s.WeeklyTarget, s.DefaultView, s.Currency))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, err
	}
	return a, nil
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, string, error) {
	var a models.Account
	var ph string
	err := r.db.QueryRow(ctx, `
		SELECT `+accountCols+`, password_h
		FROM accounts WHERE email = lower($1)`, strings.TrimSpace(email)).
		Scan(&a.ID, &a.Email, &a.Name, &a.Role,
			&a.Settings.WeeklyTarget, &a.Settings.DefaultView, &a.Settings.Currency,
			&a.CreatedAt, &a.UpdatedAt, &ph)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &a, ph, nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (*models.Account, string, error) {
	var a models.Account
	var ph string
	err := r.db.QueryRow(ctx, `
		SELECT `+accountCols+`, password_h
		FROM accounts WHERE id = $1`, id).
		Scan(&a.ID, &a.Email, &a.Name, &a.Role,
			&a.Settings.WeeklyTarget, &a.Settings.DefaultView, &a.Settings.Currency,
			&a.CreatedAt, &a.UpdatedAt, &ph)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &a, ph, nil
}

func (r *AccountRepo) UpdateProfile(ctx context.Context, id string, upd repository.ProfileUpdate) (*models.Account, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	if upd.Name != nil {
		args = append(args, *upd.Name)
		sets = append(sets, "name = $"+itoa(len(args)))
	}
	if upd.Email != nil {
		args = append(args, *upd.Email)
		sets = append(sets, "email = lower($"+itoa(len(args))+")")
	}
	if upd.Settings != nil {
		args = append(args, upd.Settings.WeeklyTarget)
		sets = append(sets, "weekly_target = $"+itoa(len(args)))
		args = append(args, upd.Settings.DefaultView)
		sets = append(sets, "default_view = $"+itoa(len(args)))
		args = append(args, upd.Settings.Currency)
		sets = append(sets, "currency = $"+itoa(len(args)))
	}

	args = append(args, id)
	a, err := scanAccount(r.db.QueryRow(ctx, `
		UPDATE accounts SET `+strings.Join(sets, ", ")+`
		WHERE id = $`+itoa(len(args))+`
		RETURNING `+accountCols, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, err
	}
	return a, nil
}

func (r *AccountRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE accounts SET password_h = $1, updated_at = now() WHERE id = $2`,
		passwordHash, id)
	return err
}

func (r *AccountRepo) FirstOperator(ctx context.Context) (*models.Account, error) {
	return scanAccount(r.db.QueryRow(ctx, `
		SELECT `+accountCols+` FROM accounts
		WHERE role = $1
		ORDER BY created_at ASC
		LIMIT 1`, models.RoleOperator))
}
