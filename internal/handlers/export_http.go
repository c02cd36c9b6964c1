package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/middleware"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/models"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/repository"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/utils"
)

var exportFields = []string{"date", "jobLink", "status", "price", "notes", "createdAt", "updatedAt"}

type ExportHTTP struct {
	subs repository.SubmissionRepository
}

func NewExportHTTP(subs repository.SubmissionRepository) *ExportHTTP {
	return &ExportHTTP{subs: subs}
}

func fieldValue(s models.Submission, field string) any {
	switch field {
	case "id":
		return s.ID
	case "date":
		return s.Date.UTC().Format(time.RFC3339)
	case "jobLink":
		return s.JobLink
	case "status":
		return s.Status
	case "price":
		return s.Price
	case "notes":
		return s.Notes
	case "createdAt":
		return s.CreatedAt.UTC().Format(time.RFC3339)
	case "updatedAt":
		return s.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return nil
}

// GET /api/submissions/export?format=csv|json&fields=...&<list filters>
func (h *ExportHTTP) Export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		role, _ := utils.GetString(r.Context(), middleware.CtxRole)

		qv := r.URL.Query()
		f := parseSubmissionFilter(qv, ownerScope(uid, role))

		fields := exportFields
		if fp := strings.TrimSpace(qv.Get("fields")); fp != "" {
			fields = strings.Split(fp, ",")
		}

		items, _, err := h.subs.List(r.Context(), f) // Limit 0: unpaged
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if qv.Get("format") == "json" {
			rows := make([]map[string]any, 0, len(items))
			for _, s := range items {
				row := map[string]any{}
				for _, field := range fields {
					if v := fieldValue(s, field); v != nil {
						row[field] = v
					}
				}
				rows = append(rows, row)
			}
			utils.JSON(w, http.StatusOK, map[string]any{
				"submissions": rows,
				"count":       len(rows),
				"filters": map[string]string{
					"startDate": qv.Get("startDate"),
					"endDate":   qv.Get("endDate"),
					"status":    qv.Get("status"),
					"minPrice":  qv.Get("minPrice"),
					"maxPrice":  qv.Get("maxPrice"),
					"search":    qv.Get("search"),
				},
			})
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="submissions_%s.csv"`, time.Now().Format("2006-01-02")))

		cw := csv.NewWriter(w)
		cw.UseCRLF = true
		_ = cw.Write(fields)
		for _, s := range items {
			record := make([]string, len(fields))
			for i, field := range fields {
				switch v := fieldValue(s, field).(type) {
				case nil:
					record[i] = ""
				case float64:
					record[i] = strconv.FormatFloat(v, 'f', -1, 64)
				default:
					record[i] = fmt.Sprint(v)
				}
			}
			_ = cw.Write(record)
		}
		cw.Flush()
	}
}
