package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/jobboard/internal/affiliate"
	"github.com/hitoshi/jobboard/internal/category"
	"github.com/hitoshi/jobboard/internal/middleware"
	"github.com/hitoshi/jobboard/internal/model"
)

// stubHealthChecker はHealthCheckerのスタブ。
type stubHealthChecker struct {
	err error
}

func (s *stubHealthChecker) PingContext(ctx context.Context) error { return s.err }

func testRouter(t *testing.T, health *stubHealthChecker) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	jobSvc := &mockJobService{
		getActiveFn: func(ctx context.Context, id string) (*model.Job, error) {
			return sampleJob(), nil
		},
		previewFn: func(ctx context.Context, token string) (*model.Job, error) {
			return sampleJob(), nil
		},
	}
	categorySvc := &mockCategoryService{
		withActiveJobsFn: func(ctx context.Context, max int) ([]category.CategoryJobs, error) {
			return nil, nil
		},
	}
	affiliateSvc := &mockAffiliateService{
		projectFeedFn: func(ctx context.Context, token string) (map[string]affiliate.JobSummary, error) {
			return nil, nil
		},
	}

	return NewRouter(&RouterDeps{
		HealthChecker:     health,
		CORSAllowedOrigin: "https://jobboard.example.com",
		RateLimiter:       rl,
		Logger:            slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)),

		JobService:       jobSvc,
		CategoryService:  categorySvc,
		AffiliateService: affiliateSvc,

		MaxJobsOnHomepage: 10,
		MaxJobsPerPage:    20,
	})
}

func TestRouter_HealthOK(t *testing.T) {
	router := testRouter(t, &stubHealthChecker{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_HealthUnavailable(t *testing.T) {
	router := testRouter(t, &stubHealthChecker{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestRouter_HomeRoute(t *testing.T) {
	router := testRouter(t, &stubHealthChecker{})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// TestRouter_TokenRouteBeforeID は/token/がID詳細より優先されることを検証する。
func TestRouter_TokenRouteBeforeID(t *testing.T) {
	router := testRouter(t, &stubHealthChecker{})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/token/tok-secret", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	// プレビューレスポンスにはトークンが含まれる
	if !bytes.Contains(w.Body.Bytes(), []byte(`"token"`)) {
		t.Error("expected owner response with token field")
	}
}

func TestRouter_SecurityHeadersApplied(t *testing.T) {
	router := testRouter(t, &stubHealthChecker{})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://jobboard.example.com" {
		t.Errorf("Allow-Origin = %q, want configured origin", got)
	}
}

func TestRouter_UnknownRouteReturns404(t *testing.T) {
	router := testRouter(t, &stubHealthChecker{})

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
