package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/middleware"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/models"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/repository"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/utils"
)

type ReportsHTTP struct {
	subs repository.SubmissionRepository
}

func NewReportsHTTP(subs repository.SubmissionRepository) *ReportsHTTP {
	return &ReportsHTTP{subs: subs}
}

// GET /api/reports?type=monthly|statusDistribution|priceAnalysis&year=
func (h *ReportsHTTP) Report() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		role, _ := utils.GetString(r.Context(), middleware.CtxRole)

		qv := r.URL.Query()
		reportType := qv.Get("type")
		if reportType == "" {
			reportType = "monthly"
		}
		year := utils.QueryInt(qv, "year", time.Now().Year())

		items, err := h.subs.ListByYear(r.Context(), ownerScope(uid, role), year)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to generate report")
			return
		}

		var data any
		switch reportType {
		case "monthly":
			data = monthlyReport(items, year)
		case "statusDistribution":
			data = statusDistribution(items)
		case "priceAnalysis":
			data = priceAnalysis(items, year)
		default:
			utils.Error(w, http.StatusBadRequest, "Invalid report type")
			return
		}

		utils.JSON(w, http.StatusOK, map[string]any{
			"reportType": reportType,
			"year":       year,
			"data":       data,
		})
	}
}

func monthName(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("Jan")
}

func monthlyReport(items []models.Submission, year int) []map[string]any {
	out := make([]map[string]any, 12)
	for i := range out {
		row := map[string]any{"month": monthName(year, i+1), "total": 0}
		for _, s := range models.Statuses {
			row[s] = 0
		}
		out[i] = row
	}
	for _, s := range items {
		m := int(s.Date.Month()) - 1
		out[m]["total"] = out[m]["total"].(int) + 1
		if _, ok := out[m][s.Status]; ok {
			out[m][s.Status] = out[m][s.Status].(int) + 1
		}
	}
	return out
}

func statusDistribution(items []models.Submission) []map[string]any {
	counts := map[string]int{}
	for _, s := range models.Statuses {
		counts[s] = 0
	}
	for _, s := range items {
		counts[s.Status]++
	}
	out := make([]map[string]any, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		out = append(out, map[string]any{"status": s, "count": counts[s]})
	}
	return out
}

func priceAnalysis(items []models.Submission, year int) []map[string]any {
	type bucket struct {
		sum   float64
		count int
	}
	months := [12]bucket{}
	for _, s := range items {
		m := int(s.Date.Month()) - 1
		months[m].sum += s.Price
		months[m].count++
	}
	out := make([]map[string]any, 12)
	for i, b := range months {
		avg := 0.0
		if b.count > 0 {
			avg = math.Round(b.sum / float64(b.count))
		}
		out[i] = map[string]any{
			"month":            monthName(year, i+1),
			"avgPrice":         avg,
			"totalSubmissions": b.count,
		}
	}
	return out
}
