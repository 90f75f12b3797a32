package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/jobboard/internal/category"
	"github.com/hitoshi/jobboard/internal/model"
)

// CategoryServiceInterface はカテゴリハンドラーが必要とするサービスインターフェース。
type CategoryServiceInterface interface {
	// WithActiveJobs は掲載中求人を持つカテゴリをトップページ向けに集約する。
	WithActiveJobs(ctx context.Context, max int) ([]category.CategoryJobs, error)
	// Page はカテゴリの掲載中求人を1ページ分返す。
	Page(ctx context.Context, slug string, page, perPage int) (*category.CategoryPage, error)
}

// CategoryHandler はカテゴリ閲覧のHTTPハンドラー。
type CategoryHandler struct {
	service       CategoryServiceInterface
	maxOnHomepage int
	jobsPerPage   int
}

// NewCategoryHandler はCategoryHandlerを生成する。
func NewCategoryHandler(service CategoryServiceInterface, maxOnHomepage, jobsPerPage int) *CategoryHandler {
	return &CategoryHandler{
		service:       service,
		maxOnHomepage: maxOnHomepage,
		jobsPerPage:   jobsPerPage,
	}
}

// categoryResponse はカテゴリ情報のAPIレスポンス。
type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// categoryJobsResponse はトップページのカテゴリ別求人レスポンス。
type categoryJobsResponse struct {
	Category categoryResponse `json:"category"`
	Jobs     []jobResponse    `json:"jobs"`
	MoreJobs int              `json:"more_jobs"`
}

// categoryPageResponse はカテゴリ詳細ページのレスポンス。
type categoryPageResponse struct {
	Category     categoryResponse `json:"category"`
	Jobs         []jobResponse    `json:"jobs"`
	TotalJobs    int              `json:"total_jobs"`
	CurrentPage  int              `json:"current_page"`
	LastPage     int              `json:"last_page"`
	PreviousPage int              `json:"previous_page"`
	NextPage     int              `json:"next_page"`
}

// Home はトップページ向けに、掲載中求人を持つ全カテゴリと求人を返す。
// GET /api/jobs
func (h *CategoryHandler) Home(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.WithActiveJobs(r.Context(), h.maxOnHomepage)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]categoryJobsResponse, len(result))
	for i, cj := range result {
		resp[i] = categoryJobsResponse{
			Category: toCategoryResponse(cj.Category),
			Jobs:     toJobResponses(cj.Jobs),
			MoreJobs: cj.MoreJobs,
		}
	}

	writeJSON(w, http.StatusOK, map[string][]categoryJobsResponse{"categories": resp})
}

// Show はカテゴリの掲載中求人を1ページ分返す。
// GET /api/categories/:slug?page=N
func (h *CategoryHandler) Show(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
				Code:     "INVALID_PAGE",
				Message:  "ページ番号の形式が不正です。",
				Category: "validation",
				Action:   "pageには正の整数を指定してください。",
			})
			return
		}
		page = parsed
	}

	result, err := h.service.Page(r.Context(), slug, page, h.jobsPerPage)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, categoryPageResponse{
		Category:     toCategoryResponse(result.Category),
		Jobs:         toJobResponses(result.Jobs),
		TotalJobs:    result.TotalJobs,
		CurrentPage:  result.CurrentPage,
		LastPage:     result.LastPage,
		PreviousPage: result.PreviousPage,
		NextPage:     result.NextPage,
	})
}

// toCategoryResponse はカテゴリをAPIレスポンスに変換する。
func toCategoryResponse(c *model.Category) categoryResponse {
	return categoryResponse{
		ID:   c.ID,
		Name: c.Name,
		Slug: c.Slug,
	}
}

// toJobResponses は求人スライスを公開向けレスポンスに変換する。
func toJobResponses(jobs []*model.Job) []jobResponse {
	resp := make([]jobResponse, len(jobs))
	for i, j := range jobs {
		resp[i] = toJobResponse(j)
	}
	return resp
}
