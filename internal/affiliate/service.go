// Package affiliate はアフィリエイトパートナー向けの求人フィード投影を提供する。
package affiliate

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// JobSummary はフィードに載せる求人1件分の投影。
type JobSummary struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	Company     string    `json:"company"`
	Logo        string    `json:"logo,omitempty"`
	URL         string    `json:"url,omitempty"`
	Position    string    `json:"position"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	HowToApply  string    `json:"how_to_apply"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service はアフィリエイト向けフィードのユースケースを提供する。
type Service struct {
	jobRepo       repository.JobRepository
	categoryRepo  repository.CategoryRepository
	affiliateRepo repository.AffiliateRepository
	baseURL       string
}

// NewService は新しいServiceを生成する。baseURLは正規URLの組み立てに使う。
func NewService(jobRepo repository.JobRepository, categoryRepo repository.CategoryRepository, affiliateRepo repository.AffiliateRepository, baseURL string) *Service {
	return &Service{
		jobRepo:       jobRepo,
		categoryRepo:  categoryRepo,
		affiliateRepo: affiliateRepo,
		baseURL:       baseURL,
	}
}

// ProjectFeed はトークンで認証したアフィリエイトに対し、契約カテゴリの
// 掲載中かつ公開フラグ付き求人を正規URLをキーとして返す。
// トークンが無効または無効化済みの場合はAffiliateNotFoundを返す。
func (s *Service) ProjectFeed(ctx context.Context, token string) (map[string]JobSummary, error) {
	aff, err := s.affiliateRepo.FindActiveByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("アフィリエイトの取得に失敗しました: %w", err)
	}
	if aff == nil {
		return nil, model.NewAffiliateNotFoundError()
	}

	jobs, err := s.jobRepo.GetActiveJobs(ctx, repository.ActiveJobsQuery{
		AffiliateID: aff.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("アフィリエイト向け求人の取得に失敗しました: %w", err)
	}

	// カテゴリ名はリクエスト内でキャッシュする
	categoryNames := make(map[string]string)
	feed := make(map[string]JobSummary, len(jobs))
	for _, job := range jobs {
		name, ok := categoryNames[job.CategoryID]
		if !ok {
			cat, err := s.categoryRepo.FindByID(ctx, job.CategoryID)
			if err != nil {
				return nil, fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
			}
			if cat != nil {
				name = cat.Name
			}
			categoryNames[job.CategoryID] = name
		}

		feed[s.CanonicalURL(job)] = JobSummary{
			ID:          job.ID,
			Category:    name,
			Type:        string(job.Type),
			Company:     job.Company,
			Logo:        job.Logo,
			URL:         job.URL,
			Position:    job.Position,
			Location:    job.Location,
			Description: job.Description,
			HowToApply:  job.HowToApply,
			ExpiresAt:   job.ExpiresAt,
		}
	}

	return feed, nil
}

// CanonicalURL は求人の正規URLを組み立てる。
// 形式は <base>/jobs/<会社スラッグ>/<勤務地スラッグ>/<ID>/<職種スラッグ>。
func (s *Service) CanonicalURL(job *model.Job) string {
	return fmt.Sprintf("%s/jobs/%s/%s/%s/%s", s.baseURL, job.CompanySlug, job.LocationSlug, job.ID, job.PositionSlug)
}
