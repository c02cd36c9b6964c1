package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/config"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/handlers"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/middleware"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/models"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/repository"
	"github.com/hassan-suriya/upwork-proposal-tracker/internal/service"
)

// ----------------------------------------------------------------------------
// In-memory repositories
// ----------------------------------------------------------------------------

type fakeAccounts struct {
	mu     sync.Mutex
	byID   map[string]*models.Account
	hashes map[string]string

	createErr error // when set, Create fails with it
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: map[string]*models.Account{}, hashes: map[string]string{}}
}

func (f *fakeAccounts) Create(_ context.Context, email, name, role, passwordHash string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	email = strings.ToLower(email)
	for _, a := range f.byID {
		if a.Email == email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	now := time.Now()
	a := &models.Account{
		ID: uuid.NewString(), Email: email, Name: name, Role: role,
		Settings: models.DefaultSettings(), CreatedAt: now, UpdatedAt: now,
	}
	f.byID[a.ID] = a
	f.hashes[a.ID] = passwordHash
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range f.byID {
		if a.Email == email {
			cp := *a
			return &cp, f.hashes[a.ID], nil
		}
	}
	return nil, "", nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*models.Account, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, "", nil
	}
	cp := *a
	return &cp, f.hashes[id], nil
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, id string, upd repository.ProfileUpdate) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	if upd.Email != nil {
		email := strings.ToLower(*upd.Email)
		for oid, other := range f.byID {
			if oid != id && other.Email == email {
				return nil, repository.ErrDuplicateEmail
			}
		}
		a.Email = email
	}
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.Settings != nil {
		a.Settings = *upd.Settings
	}
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hashes[id] = passwordHash
	return nil
}

func (f *fakeAccounts) FirstOperator(_ context.Context) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var first *models.Account
	for _, a := range f.byID {
		if a.Role != models.RoleOperator {
			continue
		}
		if first == nil || a.CreatedAt.Before(first.CreatedAt) {
			first = a
		}
	}
	if first == nil {
		return nil, nil
	}
	cp := *first
	return &cp, nil
}

type fakeSubs struct {
	mu   sync.Mutex
	byID map[string]*models.Submission
}

func newFakeSubs() *fakeSubs { return &fakeSubs{byID: map[string]*models.Submission{}} }

func (f *fakeSubs) matches(s *models.Submission, flt repository.SubmissionFilter) bool {
	if flt.OwnerID != "" && s.OwnerID != flt.OwnerID {
		return false
	}
	if flt.StartDate != nil && s.Date.Before(*flt.StartDate) {
		return false
	}
	if flt.EndDate != nil && s.Date.After(*flt.EndDate) {
		return false
	}
	if flt.Status != "" && s.Status != flt.Status {
		return false
	}
	if flt.MinPrice != nil && s.Price < *flt.MinPrice {
		return false
	}
	if flt.MaxPrice != nil && s.Price > *flt.MaxPrice {
		return false
	}
	if flt.Search != "" {
		q := strings.ToLower(flt.Search)
		if !strings.Contains(strings.ToLower(s.JobLink), q) &&
			!strings.Contains(strings.ToLower(s.Notes), q) {
			return false
		}
	}
	return true
}

func (f *fakeSubs) all(flt repository.SubmissionFilter) []models.Submission {
	var out []models.Submission
	for _, s := range f.byID {
		if f.matches(s, flt) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (f *fakeSubs) List(_ context.Context, flt repository.SubmissionFilter) ([]models.Submission, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.all(flt)
	total := len(items)
	if flt.Limit > 0 {
		if flt.Offset >= len(items) {
			items = nil
		} else {
			end := flt.Offset + flt.Limit
			if end > len(items) {
				end = len(items)
			}
			items = items[flt.Offset:end]
		}
	}
	return items, total, nil
}

func (f *fakeSubs) Get(_ context.Context, id string) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubs) Create(_ context.Context, s *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSubs) Update(_ context.Context, s *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.UpdatedAt = time.Now()
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSubs) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

func (f *fakeSubs) CountSince(_ context.Context, ownerID string, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.byID {
		if ownerID != "" && s.OwnerID != ownerID {
			continue
		}
		if !since.IsZero() && s.Date.Before(since) {
			continue
		}
		n++
	}
	return n, nil
}

func (f *fakeSubs) StatusBreakdown(_ context.Context, ownerID string) (map[string]repository.StatusAgg, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]repository.StatusAgg{}
	for _, s := range f.byID {
		if ownerID != "" && s.OwnerID != ownerID {
			continue
		}
		agg := out[s.Status]
		agg.Count++
		agg.TotalValue += s.Price
		out[s.Status] = agg
	}
	return out, nil
}

func (f *fakeSubs) MonthlyCounts(_ context.Context, ownerID string, year int) ([12]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [12]int
	for _, s := range f.byID {
		if ownerID != "" && s.OwnerID != ownerID {
			continue
		}
		if s.Date.Year() == year {
			out[int(s.Date.Month())-1]++
		}
	}
	return out, nil
}

func (f *fakeSubs) DailyCounts(_ context.Context, ownerID string, from time.Time, days int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, days)
	for _, s := range f.byID {
		if ownerID != "" && s.OwnerID != ownerID {
			continue
		}
		day := int(s.Date.Sub(from).Hours() / 24)
		if day >= 0 && day < days {
			out[day]++
		}
	}
	return out, nil
}

func (f *fakeSubs) Recent(_ context.Context, ownerID string, n int) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.all(repository.SubmissionFilter{OwnerID: ownerID})
	if len(items) > n {
		items = items[:n]
	}
	return items, nil
}

func (f *fakeSubs) ListByYear(_ context.Context, ownerID string, year int) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Submission
	for _, s := range f.byID {
		if ownerID != "" && s.OwnerID != ownerID {
			continue
		}
		if s.Date.Year() == year {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ----------------------------------------------------------------------------
// Test server wiring, mirroring the real router
// ----------------------------------------------------------------------------

type testEnv struct {
	srv      *httptest.Server
	cfg      config.Config
	accounts *fakeAccounts
	subs     *fakeSubs
	svc      *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		Env:           "test",
		SessionSecret: "handler-test-secret",
		SessionTTL:    time.Hour,
	}
	accounts := newFakeAccounts()
	subs := newFakeSubs()
	svc := service.NewAuthService(accounts, cfg.SessionSecret, cfg.SessionTTL)

	ah := handlers.NewAuthHTTP(svc, cfg)
	uh := handlers.NewUserHTTP(accounts, svc)
	sh := handlers.NewSubmissionHTTP(subs)
	eh := handlers.NewExportHTTP(subs)
	dh := handlers.NewDashboardHTTP(subs, accounts)
	rh := handlers.NewReportsHTTP(subs)

	r := chi.NewRouter()
	r.Use(middleware.Gatekeeper)
	r.Use(middleware.WithAuth(zerolog.Nop(), cfg))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", ah.Register())
		r.Post("/login", ah.Login())
		r.Post("/logout", ah.Logout())
		r.Post("/forgot-password", ah.ForgotPassword())
		r.Post("/reset-password", ah.ResetPassword())
		r.Get("/me", ah.Me())
	})
	r.Route("/api/user", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/settings", uh.GetSettings())
		r.Put("/settings", uh.UpdateSettings())
		r.Post("/password", uh.UpdatePassword())
	})
	r.Route("/api/submissions", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", sh.List())
		r.Get("/export", eh.Export())
		r.Get("/dashboard", dh.Summary())
		r.With(middleware.RequireRoles(models.RoleOperator)).Post("/", sh.Create())
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sh.Get())
			r.With(middleware.RequireRoles(models.RoleOperator)).Put("/", sh.Update())
			r.With(middleware.RequireRoles(models.RoleOperator)).Delete("/", sh.Delete())
		})
	})
	r.With(middleware.RequireAuth).Get("/api/reports", rh.Report())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, cfg: cfg, accounts: accounts, subs: subs, svc: svc}
}

// register creates an account directly and returns it plus a bearer token.
func (e *testEnv) register(t *testing.T, email, role string) (*models.Account, string) {
	t.Helper()
	acct, err := e.svc.Register(context.Background(), email, "", "password123", role)
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	tok, _, err := e.svc.Login(context.Background(), email, "password123")
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return acct, tok
}

func (e *testEnv) request(t *testing.T, method, path, bearer string, body string) *http.Response {
	t.Helper()
	var rd *strings.Reader
	if body != "" {
		rd = strings.NewReader(body)
	} else {
		rd = strings.NewReader("")
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}
