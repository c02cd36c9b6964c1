package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/models"
)

func TestReports_Monthly(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	op, opTok := e.register(t, "op@x.com", models.RoleOperator)

	seedSubmission(t, e, op.ID, models.StatusSubmitted, 50, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	seedSubmission(t, e, op.ID, models.StatusWon, 500, time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC))
	seedSubmission(t, e, op.ID, models.StatusDeclined, 80, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC))

	resp := e.request(t, http.MethodGet, "/api/reports?type=monthly&year=2026", opTok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "monthly", body["reportType"])
	assert.Equal(t, 2026.0, body["year"])

	data := body["data"].([]any)
	require.Len(t, data, 12)
	jan := data[0].(map[string]any)
	assert.Equal(t, "Jan", jan["month"])
	assert.Equal(t, 2.0, jan["total"])
	assert.Equal(t, 1.0, jan["submitted"])
	assert.Equal(t, 1.0, jan["won"])
	apr := data[3].(map[string]any)
	assert.Equal(t, 1.0, apr["declined"])
}

func TestReports_StatusDistribution(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	op, opTok := e.register(t, "op@x.com", models.RoleOperator)

	year := time.Now().Year()
	seedSubmission(t, e, op.ID, models.StatusSubmitted, 50, time.Date(year, 5, 1, 0, 0, 0, 0, time.UTC))
	seedSubmission(t, e, op.ID, models.StatusSubmitted, 60, time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC))
	seedSubmission(t, e, op.ID, models.StatusInterviewed, 70, time.Date(year, 7, 1, 0, 0, 0, 0, time.UTC))

	resp := e.request(t, http.MethodGet, "/api/reports?type=statusDistribution", opTok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)

	data := body["data"].([]any)
	require.Len(t, data, len(models.Statuses))
	counts := map[string]float64{}
	for _, row := range data {
		m := row.(map[string]any)
		counts[m["status"].(string)] = m["count"].(float64)
	}
	assert.Equal(t, 2.0, counts[models.StatusSubmitted])
	assert.Equal(t, 1.0, counts[models.StatusInterviewed])
	assert.Equal(t, 0.0, counts[models.StatusWon])
}

func TestReports_PriceAnalysis(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	op, opTok := e.register(t, "op@x.com", models.RoleOperator)

	seedSubmission(t, e, op.ID, models.StatusSubmitted, 100, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	seedSubmission(t, e, op.ID, models.StatusViewed, 200, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))

	resp := e.request(t, http.MethodGet, "/api/reports?type=priceAnalysis&year=2026", opTok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)

	data := body["data"].([]any)
	require.Len(t, data, 12)
	feb := data[1].(map[string]any)
	assert.Equal(t, 150.0, feb["avgPrice"])
	assert.Equal(t, 2.0, feb["totalSubmissions"])
}

func TestReports_InvalidType(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	_, opTok := e.register(t, "op@x.com", models.RoleOperator)

	resp := e.request(t, http.MethodGet, "/api/reports?type=quarterly", opTok, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestDashboard_Summary(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	op, opTok := e.register(t, "op@x.com", models.RoleOperator)

	now := time.Now()
	seedSubmission(t, e, op.ID, models.StatusSubmitted, 100, now)
	seedSubmission(t, e, op.ID, models.StatusWon, 400, now.Add(-24*time.Hour))

	resp := e.request(t, http.MethodGet, "/api/submissions/dashboard", opTok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)

	counts := body["counts"].(map[string]any)
	assert.Equal(t, 2.0, counts["total"])

	statusData := body["statusData"].(map[string]any)
	won := statusData[models.StatusWon].(map[string]any)
	assert.Equal(t, 1.0, won["count"])
	assert.Equal(t, 400.0, won["totalValue"])

	rates := body["responseRates"].(map[string]any)
	assert.Equal(t, 50.0, rates["hireRate"])

	settings := body["userSettings"].(map[string]any)
	assert.Equal(t, 10.0, settings["weeklyTarget"])

	assert.Len(t, body["dailyData"], 7)
	assert.Len(t, body["monthData"], 12)
}
