package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/middleware"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/models"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/repository"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/service"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/utils"
)

type UserHTTP struct {
	accounts repository.AccountRepository
	svc      *service.AuthService
}

func NewUserHTTP(accounts repository.AccountRepository, svc *service.AuthService) *UserHTTP {
	return &UserHTTP{accounts: accounts, svc: svc}
}

func userBody(a *models.Account) map[string]any {
	return map[string]any{
		"id":       a.ID,
		"email":    a.Email,
		"name":     a.Name,
		"role":     a.Role,
		"settings": a.Settings,
	}
}

// GET /api/user/settings
func (h *UserHTTP) GetSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		acct, _, err := h.accounts.GetByID(r.Context(), uid)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch user settings")
			return
		}
		if acct == nil {
			utils.Error(w, http.StatusNotFound, "User not found")
			return
		}

		// Observers track progress against the operator's target, not their own.
		if acct.Role == models.RoleObserver {
			if op, err := h.accounts.FirstOperator(r.Context()); err == nil && op != nil {
				acct.Settings.WeeklyTarget = op.Settings.WeeklyTarget
			}
		}

		utils.JSON(w, http.StatusOK, map[string]any{"user": userBody(acct)})
	}
}

// PUT /api/user/settings
func (h *UserHTTP) UpdateSettings() http.HandlerFunc {
	type inDTO struct {
		Name     *string          `json:"name"`
		Email    *string          `json:"email"`
		Settings *models.Settings `json:"settings"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		role, _ := utils.GetString(r.Context(), middleware.CtxRole)

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		// Per-field permission: the weekly target belongs to the operator;
		// observers keep whatever value is already stored.
		if in.Settings != nil && role == models.RoleObserver {
			current, _, err := h.accounts.GetByID(r.Context(), uid)
			if err != nil || current == nil {
				utils.Error(w, http.StatusNotFound, "User not found")
				return
			}
			in.Settings.WeeklyTarget = current.Settings.WeeklyTarget
		}

		acct, err := h.accounts.UpdateProfile(r.Context(), uid, repository.ProfileUpdate{
			Name:     in.Name,
			Email:    in.Email,
			Settings: in.Settings,
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				utils.Error(w, http.StatusBadRequest, "Email already in use")
				return
			}
			utils.Error(w, http.StatusInternalServerError, "Failed to update user settings")
			return
		}
		if acct == nil {
			utils.Error(w, http.StatusNotFound, "User not found")
			return
		}

		utils.JSON(w, http.StatusOK, map[string]any{
			"message": "User settings updated successfully",
			"user":    userBody(acct),
		})
	}
}

// POST /api/user/password
func (h *UserHTTP) UpdatePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)

		var in struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if in.CurrentPassword == "" || in.NewPassword == "" {
			utils.Error(w, http.StatusBadRequest, "Current password and new password are required")
			return
		}

		if err := h.svc.ChangePassword(r.Context(), uid, in.CurrentPassword, in.NewPassword); err != nil {
			switch {
			case errors.Is(err, service.ErrWrongPassword):
				utils.Error(w, http.StatusBadRequest, "Current password is incorrect")
			case errors.Is(err, service.ErrWeakPassword):
				utils.Error(w, http.StatusBadRequest, err.Error())
			default:
				utils.Error(w, http.StatusInternalServerError, "Failed to update password")
			}
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
	}
}
