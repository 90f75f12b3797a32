package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/jobboard/internal/metrics"
	"github.com/hitoshi/jobboard/internal/middleware"
)

// HealthChecker はDB疎通確認のためのインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Collector         metrics.MetricsCollector
	Gatherer          prometheus.Gatherer

	// ドメインサービス
	JobService       JobServiceInterface
	CategoryService  CategoryServiceInterface
	AffiliateService AffiliateServiceInterface

	// 表示件数
	MaxJobsOnHomepage int
	MaxJobsPerPage    int
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → RateLimit(General)
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Collector))

	jobHandler := NewJobHandler(deps.JobService)
	categoryHandler := NewCategoryHandler(deps.CategoryService, deps.MaxJobsOnHomepage, deps.MaxJobsPerPage)
	feedHandler := NewFeedHandler(deps.AffiliateService)

	// --- 運用系のルート（レート制限なし） ---

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()

		if err := deps.HealthChecker.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- APIルート ---
	// ミドルウェアスタック: RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 求人ライフサイクル
		r.Route("/api/jobs", func(r chi.Router) {
			// GET /api/jobs - トップページ向けのカテゴリ別求人一覧
			r.Get("/", categoryHandler.Home)

			// POST /api/jobs - 求人投稿（投稿専用レート制限を追加）
			r.With(deps.RateLimiter.SubmitMiddleware()).Post("/", jobHandler.Create)

			// GET /api/jobs/types - 雇用形態一覧
			r.Get("/types", jobHandler.Types)

			// トークンを知る投稿者のみが使う管理ルート
			r.Route("/token/{token}", func(r chi.Router) {
				r.Get("/", jobHandler.Preview)
				r.Put("/", jobHandler.Update)
				r.Delete("/", jobHandler.Delete)
				r.Post("/publish", jobHandler.Publish)
				r.Post("/extend", jobHandler.Extend)
			})

			// GET /api/jobs/{id} - 掲載中求人の詳細
			r.Get("/{id}", jobHandler.Detail)
		})

		// カテゴリ閲覧
		r.Get("/api/categories/{slug}", categoryHandler.Show)

		// アフィリエイト向けフィード
		r.Get("/api/feed/{token}", feedHandler.Feed)
	})

	return r
}
