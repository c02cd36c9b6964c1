package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/middleware"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/models"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/repository"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/utils"
)

// SubmissionHTTP wires the submission CRUD endpoints to the repository.
type SubmissionHTTP struct {
	subs repository.SubmissionRepository
}

func NewSubmissionHTTP(subs repository.SubmissionRepository) *SubmissionHTTP {
	return &SubmissionHTTP{subs: subs}
}

// ownerScope maps the caller's role onto a repository owner filter:
// operators see only their own records, observers see everything.
func ownerScope(uid, role string) string {
	if role == models.RoleOperator {
		return uid
	}
	return ""
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return &f
	}
	return nil
}

func parseSubmissionFilter(qv url.Values, ownerID string) repository.SubmissionFilter {
	return repository.SubmissionFilter{
		OwnerID:   ownerID,
		StartDate: parseDate(qv.Get("startDate")),
		EndDate:   parseDate(qv.Get("endDate")),
		Status:    strings.TrimSpace(qv.Get("status")),
		MinPrice:  parseFloat(qv.Get("minPrice")),
		MaxPrice:  parseFloat(qv.Get("maxPrice")),
		Search:    strings.TrimSpace(qv.Get("search")),
	}
}

// GET /api/submissions?startDate=&endDate=&status=&minPrice=&maxPrice=&search=&page=&limit=
func (h *SubmissionHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		role, _ := utils.GetString(r.Context(), middleware.CtxRole)

		qv := r.URL.Query()
		f := parseSubmissionFilter(qv, ownerScope(uid, role))

		page := utils.QueryInt(qv, "page", 1)
		if page < 1 {
			page = 1
		}
		f.Limit = utils.QueryInt(qv, "limit", 10)
		if f.Limit <= 0 || f.Limit > 200 {
			f.Limit = 10
		}
		f.Offset = (page - 1) * f.Limit

		items, total, err := h.subs.List(r.Context(), f)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if items == nil {
			items = []models.Submission{}
		}
		pages := (total + f.Limit - 1) / f.Limit
		utils.JSON(w, http.StatusOK, map[string]any{
			"submissions": items,
			"pagination": map[string]int{
				"total": total,
				"page":  page,
				"limit": f.Limit,
				"pages": pages,
			},
		})
	}
}

// GET /api/submissions/{id}
func (h *SubmissionHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "missing id")
			return
		}
		s, err := h.subs.Get(r.Context(), id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if s == nil {
			utils.Error(w, http.StatusNotFound, "Submission not found")
			return
		}
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		role, _ := utils.GetString(r.Context(), middleware.CtxRole)
		if role == models.RoleOperator && s.OwnerID != uid {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		utils.JSON(w, http.StatusOK, s)
	}
}

// POST /api/submissions. Operators only (enforced by the route gate),
// recording a submission they own.
func (h *SubmissionHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Date    string  `json:"date"`
		JobLink string  `json:"jobLink"`
		Status  string  `json:"status"`
		Price   float64 `json:"price"`
		Notes   string  `json:"notes"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		date := parseDate(in.Date)
		in.JobLink = strings.TrimSpace(in.JobLink)
		if date == nil || in.JobLink == "" || in.Price <= 0 {
			utils.Error(w, http.StatusBadRequest, "Date, job link, and price are required")
			return
		}
		status := in.Status
		if status == "" {
			status = models.StatusSubmitted
		}
		if !models.ValidStatus(status) {
			utils.Error(w, http.StatusBadRequest, "invalid status")
			return
		}

		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		s := &models.Submission{
			OwnerID: uid,
			Date:    *date,
			JobLink: in.JobLink,
			Status:  status,
			Price:   in.Price,
			Notes:   strings.TrimSpace(in.Notes),
		}
		if err := h.subs.Create(r.Context(), s); err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		utils.JSON(w, http.StatusCreated, s)
	}
}

// PUT /api/submissions/{id}, owning operator only.
func (h *SubmissionHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Date    *string  `json:"date"`
		JobLink *string  `json:"jobLink"`
		Status  *string  `json:"status"`
		Price   *float64 `json:"price"`
		Notes   *string  `json:"notes"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := h.loadOwned(w, r)
		if !ok {
			return
		}

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if in.Date != nil {
			d := parseDate(*in.Date)
			if d == nil {
				utils.Error(w, http.StatusBadRequest, "invalid date")
				return
			}
			s.Date = *d
		}
		if in.JobLink != nil {
			if strings.TrimSpace(*in.JobLink) == "" {
				utils.Error(w, http.StatusBadRequest, "job link cannot be empty")
				return
			}
			s.JobLink = strings.TrimSpace(*in.JobLink)
		}
		if in.Status != nil {
			if !models.ValidStatus(*in.Status) {
				utils.Error(w, http.StatusBadRequest, "invalid status")
				return
			}
			s.Status = *in.Status
		}
		if in.Price != nil {
			if *in.Price <= 0 {
				utils.Error(w, http.StatusBadRequest, "invalid price")
				return
			}
			s.Price = *in.Price
		}
		if in.Notes != nil {
			s.Notes = strings.TrimSpace(*in.Notes)
		}

		if err := h.subs.Update(r.Context(), s); err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		utils.JSON(w, http.StatusOK, s)
	}
}

// DELETE /api/submissions/{id}, owning operator only.
func (h *SubmissionHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := h.loadOwned(w, r)
		if !ok {
			return
		}
		if err := h.subs.Delete(r.Context(), s.ID); err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"message": "Submission deleted successfully"})
	}
}

// loadOwned fetches the record and enforces ownership for mutations. Writes
// the error response itself when the check fails.
func (h *SubmissionHTTP) loadOwned(w http.ResponseWriter, r *http.Request) (*models.Submission, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.Error(w, http.StatusBadRequest, "missing id")
		return nil, false
	}
	s, err := h.subs.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	if s == nil {
		utils.Error(w, http.StatusNotFound, "Submission not found")
		return nil, false
	}
	uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
	if s.OwnerID != uid {
		utils.Error(w, http.StatusForbidden, "forbidden")
		return nil, false
	}
	return s, true
}
