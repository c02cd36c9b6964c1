package handlers

import (
	"net/http"
	"time"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/middleware"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/models"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/repository"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/utils"
)

type DashboardHTTP struct {
	subs     repository.SubmissionRepository
	accounts repository.AccountRepository
}

func NewDashboardHTTP(subs repository.SubmissionRepository, accounts repository.AccountRepository) *DashboardHTTP {
	return &DashboardHTTP{subs: subs, accounts: accounts}
}

// GET /api/submissions/dashboard
func (h *DashboardHTTP) Summary() http.HandlerFunc {
	type dayPoint struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		role, _ := utils.GetString(r.Context(), middleware.CtxRole)
		owner := ownerScope(uid, role)
		ctx := r.Context()

		now := time.Now()
		startOfWeek := time.Date(now.Year(), now.Month(), now.Day()-int(now.Weekday()), 0, 0, 0, 0, now.Location())
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		startOfYear := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

		total, err := h.subs.CountSince(ctx, owner, time.Time{})
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		weekly, err := h.subs.CountSince(ctx, owner, startOfWeek)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		monthly, err := h.subs.CountSince(ctx, owner, startOfMonth)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		yearly, err := h.subs.CountSince(ctx, owner, startOfYear)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		statusData, err := h.subs.StatusBreakdown(ctx, owner)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		monthData, err := h.subs.MonthlyCounts(ctx, owner, now.Year())
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		weekAgo := time.Date(now.Year(), now.Month(), now.Day()-6, 0, 0, 0, 0, now.Location())
		daily, err := h.subs.DailyCounts(ctx, owner, weekAgo, 7)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		dailyData := make([]dayPoint, len(daily))
		for i, n := range daily {
			dailyData[i] = dayPoint{Name: weekAgo.AddDate(0, 0, i).Format("Mon"), Value: n}
		}

		recent, err := h.subs.Recent(ctx, owner, 10)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if recent == nil {
			recent = []models.Submission{}
		}

		// Funnel rates: a record in a later stage counts for every earlier one.
		viewed := statusData[models.StatusViewed].Count +
			statusData[models.StatusInterviewed].Count +
			statusData[models.StatusWon].Count
		interviewed := statusData[models.StatusInterviewed].Count + statusData[models.StatusWon].Count
		won := statusData[models.StatusWon].Count
		rates := map[string]float64{"viewRate": 0, "interviewRate": 0, "hireRate": 0}
		if total > 0 {
			rates["viewRate"] = float64(viewed) / float64(total) * 100
			rates["interviewRate"] = float64(interviewed) / float64(total) * 100
			rates["hireRate"] = float64(won) / float64(total) * 100
		}

		avgValue := 0.0
		if agg, ok := statusData[models.StatusSubmitted]; ok && agg.Count > 0 {
			avgValue = agg.TotalValue / float64(agg.Count)
		}

		settings := models.DefaultSettings()
		if acct, _, err := h.accounts.GetByID(ctx, uid); err == nil && acct != nil {
			settings = acct.Settings
		}

		utils.JSON(w, http.StatusOK, map[string]any{
			"counts": map[string]int{
				"total":   total,
				"weekly":  weekly,
				"monthly": monthly,
				"yearly":  yearly,
			},
			"statusData":         statusData,
			"monthData":          monthData,
			"dailyData":          dailyData,
			"recentActivity":     recent,
			"responseRates":      rates,
			"avgSubmissionValue": avgValue,
			"userSettings":       settings,
		})
	}
}
