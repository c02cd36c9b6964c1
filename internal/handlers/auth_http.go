package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/auth"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/config"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/middleware"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/repository"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/service"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/utils"
)

type AuthHTTP struct {
	svc *service.AuthService
	cfg config.Config
}

func NewAuthHTTP(s *service.AuthService, cfg config.Config) *AuthHTTP {
	return &AuthHTTP{svc: s, cfg: cfg}
}

func (h *AuthHTTP) setSessionCookies(w http.ResponseWriter, token string) {
	secure := h.cfg.Production()
	expires := time.Now().Add(h.cfg.SessionTTL)
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.cfg.CookieDomain,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		Expires:  expires,
	})
	// Non-sensitive marker a client can read to decide whether to even try
	// authenticated calls. Never a credential.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.StatusCookie,
		Value:    auth.StatusValue,
		Path:     "/",
		Domain:   h.cfg.CookieDomain,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		Expires:  expires,
	})
}

func (h *AuthHTTP) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{auth.SessionCookie, auth.StatusCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   h.cfg.CookieDomain,
			HttpOnly: name == auth.SessionCookie,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0), // for older browsers
		})
	}
}

func (h *AuthHTTP) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		acct, err := h.svc.Register(r.Context(), in.Email, in.Name, in.Password, in.Role)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicateEmail):
				utils.Error(w, http.StatusConflict, "Email already in use")
			case errors.Is(err, service.ErrInvalidInput),
				errors.Is(err, service.ErrWeakPassword),
				errors.Is(err, service.ErrInvalidRole):
				utils.Error(w, http.StatusBadRequest, err.Error())
			default:
				detail := ""
				if !h.cfg.Production() {
					detail = err.Error()
				}
				utils.ErrorDetail(w, http.StatusInternalServerError, "Internal server error", detail)
			}
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{
			"message": "User registered successfully",
			"user": map[string]any{
				"id":    acct.ID,
				"email": acct.Email,
				"role":  acct.Role,
			},
		})
	}
}

func (h *AuthHTTP) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if in.Email == "" || in.Password == "" {
			utils.Error(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		token, acct, err := h.svc.Login(r.Context(), in.Email, in.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				utils.Error(w, http.StatusUnauthorized, "Invalid email or password")
				return
			}
			detail := ""
			if !h.cfg.Production() {
				detail = err.Error()
			}
			utils.ErrorDetail(w, http.StatusInternalServerError, "Authentication failed", detail)
			return
		}

		h.setSessionCookies(w, token)
		utils.JSON(w, http.StatusOK, map[string]any{
			"success": true,
			"token":   token,
			"user": map[string]any{
				"id":    acct.ID,
				"email": acct.Email,
				"role":  acct.Role,
			},
		})
	}
}

func (h *AuthHTTP) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.clearSessionCookies(w)
		utils.JSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	}
}

// Me reports the identity resolved from the request's credential.
func (h *AuthHTTP) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		if uid == "" {
			utils.JSON(w, http.StatusUnauthorized, map[string]any{"authenticated": false})
			return
		}
		email, _ := utils.GetString(r.Context(), middleware.CtxEmail)
		role, _ := utils.GetString(r.Context(), middleware.CtxRole)
		utils.JSON(w, http.StatusOK, map[string]any{
			"authenticated": true,
			"user": map[string]any{
				"userId": uid,
				"email":  email,
				"role":   role,
			},
		})
	}
}

func (h *AuthHTTP) ForgotPassword() http.HandlerFunc {
	// One response shape regardless of account existence.
	const msg = "If your email exists in our system, you will receive a password reset link shortly."
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" {
			utils.Error(w, http.StatusBadRequest, "Email is required")
			return
		}
		resetToken, err := h.svc.IssueResetToken(r.Context(), in.Email)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		body := map[string]any{"message": msg}
		// Dev convenience only; production delivers the link out of band.
		if resetToken != "" && !h.cfg.Production() {
			body["resetToken"] = resetToken
		}
		utils.JSON(w, http.StatusOK, body)
	}
}

func (h *AuthHTTP) ResetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Token    string `json:"token"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Token == "" || in.Password == "" {
			utils.Error(w, http.StatusBadRequest, "Token and password are required")
			return
		}
		if err := h.svc.ResetPassword(r.Context(), in.Token, in.Password); err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				utils.Error(w, http.StatusBadRequest, "Invalid or expired token")
				return
			}
			if errors.Is(err, service.ErrWeakPassword) {
				utils.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
	}
}
