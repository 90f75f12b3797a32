package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/jobboard/internal/job"
	"github.com/hitoshi/jobboard/internal/model"
)

// JobServiceInterface は求人ハンドラーが必要とするサービスインターフェース。
type JobServiceInterface interface {
	// Create は下書き状態の求人を作成する。
	Create(ctx context.Context, in job.Input) (*model.Job, error)
	// Edit はトークンで特定した下書き求人を更新する。
	Edit(ctx context.Context, token string, in job.Input) (*model.Job, error)
	// Publish はトークンで特定した求人を公開する。
	Publish(ctx context.Context, token string) (*model.Job, error)
	// Extend は掲載期限が近い求人の期限を延長する。
	Extend(ctx context.Context, token string) (*model.Job, error)
	// Delete はトークンで特定した求人を削除する。
	Delete(ctx context.Context, token string) error
	// Preview はトークンで特定した求人を状態を問わず返す。
	Preview(ctx context.Context, token string) (*model.Job, error)
	// GetActive は掲載中の求人をIDで返す。
	GetActive(ctx context.Context, id string) (*model.Job, error)
	// Types は許可される雇用形態の一覧を返す。
	Types() []model.JobType
}

// JobHandler は求人ライフサイクルのHTTPハンドラー。
type JobHandler struct {
	service JobServiceInterface
}

// NewJobHandler はJobHandlerを生成する。
func NewJobHandler(service JobServiceInterface) *JobHandler {
	return &JobHandler{service: service}
}

// jobRequest は求人の作成・更新リクエストのボディ。
type jobRequest struct {
	CategoryID  string `json:"category_id"`
	Type        string `json:"type"`
	Company     string `json:"company"`
	Logo        string `json:"logo"`
	URL         string `json:"url"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	Description string `json:"description"`
	HowToApply  string `json:"how_to_apply"`
	Email       string `json:"email"`
	IsPublic    *bool  `json:"is_public"`
}

// toInput はリクエストボディをサービス入力に変換する。
// is_public未指定時は公開扱いとする。
func (req jobRequest) toInput() job.Input {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	return job.Input{
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		Company:     req.Company,
		Logo:        req.Logo,
		URL:         req.URL,
		Position:    req.Position,
		Location:    req.Location,
		Description: req.Description,
		HowToApply:  req.HowToApply,
		Email:       req.Email,
		IsPublic:    isPublic,
	}
}

// jobResponse は公開向けの求人レスポンス。トークンは含めない。
type jobResponse struct {
	ID           string    `json:"id"`
	CategoryID   string    `json:"category_id"`
	Type         string    `json:"type"`
	Company      string    `json:"company"`
	Logo         string    `json:"logo,omitempty"`
	URL          string    `json:"url,omitempty"`
	Position     string    `json:"position"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	HowToApply   string    `json:"how_to_apply"`
	CompanySlug  string    `json:"company_slug"`
	LocationSlug string    `json:"location_slug"`
	PositionSlug string    `json:"position_slug"`
	IsPublic     bool      `json:"is_public"`
	IsActivated  bool      `json:"is_activated"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// ownerJobResponse は投稿者向けの求人レスポンス。管理用トークンを含む。
type ownerJobResponse struct {
	jobResponse
	Token string `json:"token"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// validationErrorResponse はバリデーション違反のレスポンス。
type validationErrorResponse struct {
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

// Create は求人の新規投稿を処理する。
// POST /api/jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	created, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOwnerJobResponse(created))
}

// Detail は掲載中の求人詳細を返す。
// GET /api/jobs/:id
func (h *JobHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := h.service.GetActive(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(found))
}

// Preview はトークンを知る投稿者に求人を状態を問わず返す。
// GET /api/jobs/token/:token
func (h *JobHandler) Preview(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	found, err := h.service.Preview(r.Context(), token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOwnerJobResponse(found))
}

// Update は下書き求人の更新を処理する。
// PUT /api/jobs/token/:token
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	updated, err := h.service.Edit(r.Context(), token, req.toInput())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOwnerJobResponse(updated))
}

// Publish は求人の公開を処理する。
// POST /api/jobs/token/:token/publish
func (h *JobHandler) Publish(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	published, err := h.service.Publish(r.Context(), token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOwnerJobResponse(published))
}

// Extend は掲載期限の延長を処理する。
// POST /api/jobs/token/:token/extend
func (h *JobHandler) Extend(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	extended, err := h.service.Extend(r.Context(), token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOwnerJobResponse(extended))
}

// Delete は求人の削除を処理する。
// DELETE /api/jobs/token/:token
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.service.Delete(r.Context(), token); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Types は許可される雇用形態の一覧を返す。
// GET /api/jobs/types
func (h *JobHandler) Types(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]model.JobType{"types": h.service.Types()})
}

// toJobResponse は公開向けレスポンスに変換する。
func toJobResponse(j *model.Job) jobResponse {
	return jobResponse{
		ID:           j.ID,
		CategoryID:   j.CategoryID,
		Type:         string(j.Type),
		Company:      j.Company,
		Logo:         j.Logo,
		URL:          j.URL,
		Position:     j.Position,
		Location:     j.Location,
		Description:  j.Description,
		HowToApply:   j.HowToApply,
		CompanySlug:  j.CompanySlug,
		LocationSlug: j.LocationSlug,
		PositionSlug: j.PositionSlug,
		IsPublic:     j.IsPublic,
		IsActivated:  j.IsActivated,
		ExpiresAt:    j.ExpiresAt,
		CreatedAt:    j.CreatedAt,
	}
}

// toOwnerJobResponse は投稿者向けレスポンスに変換する。
func toOwnerJobResponse(j *model.Job) ownerJobResponse {
	return ownerJobResponse{
		jobResponse: toJobResponse(j),
		Token:       j.Token,
	}
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeInvalidRequestBody はボディ解析失敗の400レスポンスを書き込む。
func writeInvalidRequestBody(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{
			Code:   model.ErrCodeValidationFailed,
			Fields: verr.Fields,
		})
		return
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeJobNotFound, model.ErrCodeCategoryNotFound, model.ErrCodeAffiliateNotFound:
		return http.StatusNotFound
	case model.ErrCodeJobAlreadyActive, model.ErrCodeJobNotExtendable:
		return http.StatusConflict
	case model.ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
