package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/models"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/repository"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/token"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("email and password are required")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidRole        = errors.New("invalid role")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

const resetTokenTTL = time.Hour

type AuthService struct {
	accounts      repository.AccountRepository
	sessionSecret string
	sessionTTL    time.Duration
}

func NewAuthService(accounts repository.AccountRepository, sessionSecret string, sessionTTL time.Duration) *AuthService {
	return &AuthService{accounts: accounts, sessionSecret: sessionSecret, sessionTTL: sessionTTL}
}

func (a *AuthService) Register(ctx context.Context, email, name, password, role string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	// Unspecified role defaults to the read-only one.
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = models.RoleObserver
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return a.accounts.Create(ctx, email, name, role, hash)
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password fail identically so account existence never leaks.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, *models.Account, error) {
	acct, hash, err := a.accounts.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if acct == nil {
		return "", nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(hash, password) {
		return "", nil, ErrInvalidCredentials
	}
	tok, err := token.Issue(a.sessionSecret, acct.ID, acct.Email, acct.Role, a.sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return tok, acct, nil
}

func (a *AuthService) ChangePassword(ctx context.Context, id, current, next string) error {
	if current == "" || next == "" {
		return ErrInvalidInput
	}
	if len(next) < 8 {
		return ErrWeakPassword
	}
	acct, hash, err := a.accounts.GetByID(ctx, id)
	if err != nil || acct == nil {
		return ErrInvalidCredentials
	}
	if !utils.CheckPassword(hash, current) {
		return ErrWrongPassword
	}
	newHash, err := utils.HashPassword(next)
	if err != nil {
		return err
	}
	return a.accounts.UpdatePasswordHash(ctx, id, newHash)
}

// IssueResetToken returns a short-lived token for the account with the given
// email, or "" when no such account exists. The caller responds identically
// either way to avoid email enumeration.
func (a *AuthService) IssueResetToken(ctx context.Context, email string) (string, error) {
	acct, _, err := a.accounts.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if acct == nil {
		return "", nil
	}
	// Deliberately not a session token: Parse and the auth middleware
	// reject it for lack of identity fields.
	return token.IssueReset(a.sessionSecret, acct.ID, resetTokenTTL)
}

func (a *AuthService) ResetPassword(ctx context.Context, resetToken, password string) error {
	if resetToken == "" || password == "" {
		return ErrInvalidInput
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}
	claims, err := token.ParseReset(a.sessionSecret, resetToken)
	if err != nil {
		return ErrInvalidCredentials
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return a.accounts.UpdatePasswordHash(ctx, claims.UserID, hash)
}
