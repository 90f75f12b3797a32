// Package category はカテゴリ別の掲載中求人の取得とページネーションを提供する。
package category

import (
	"context"
	"fmt"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// CategoryJobs はトップページ向けの、カテゴリとその掲載中求人の集約。
// MoreJobs は表示件数を超えて掲載されている求人の残数。
type CategoryJobs struct {
	Category *model.Category `json:"category"`
	Jobs     []*model.Job    `json:"jobs"`
	MoreJobs int             `json:"more_jobs"`
}

// CategoryPage はカテゴリ詳細ページのページネーション結果。
type CategoryPage struct {
	Category     *model.Category `json:"category"`
	Jobs         []*model.Job    `json:"jobs"`
	TotalJobs    int             `json:"total_jobs"`
	CurrentPage  int             `json:"current_page"`
	LastPage     int             `json:"last_page"`
	PreviousPage int             `json:"previous_page"`
	NextPage     int             `json:"next_page"`
}

// Service はカテゴリ参照のユースケースを提供する。
type Service struct {
	jobRepo      repository.JobRepository
	categoryRepo repository.CategoryRepository
}

// NewService は新しいServiceを生成する。
func NewService(jobRepo repository.JobRepository, categoryRepo repository.CategoryRepository) *Service {
	return &Service{
		jobRepo:      jobRepo,
		categoryRepo: categoryRepo,
	}
}

// WithActiveJobs は掲載中求人を持つ全カテゴリを、カテゴリごとに最大max件の
// 求人と残数を添えて返す。掲載中求人のないカテゴリは含まれない。
func (s *Service) WithActiveJobs(ctx context.Context, max int) ([]CategoryJobs, error) {
	categories, err := s.categoryRepo.ListWithActiveJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}

	result := make([]CategoryJobs, 0, len(categories))
	for _, cat := range categories {
		jobs, err := s.jobRepo.GetActiveJobs(ctx, repository.ActiveJobsQuery{
			CategoryID: cat.ID,
			Limit:      max,
		})
		if err != nil {
			return nil, fmt.Errorf("カテゴリ %s の求人取得に失敗しました: %w", cat.Slug, err)
		}

		total, err := s.jobRepo.CountActiveJobs(ctx, cat.ID)
		if err != nil {
			return nil, fmt.Errorf("カテゴリ %s の求人件数取得に失敗しました: %w", cat.Slug, err)
		}

		more := total - len(jobs)
		if more < 0 {
			more = 0
		}

		result = append(result, CategoryJobs{
			Category: cat,
			Jobs:     jobs,
			MoreJobs: more,
		})
	}

	return result, nil
}

// Page はスラッグで指定したカテゴリの掲載中求人を1ページ分返す。
// page が1未満のときは1ページ目として扱う。
func (s *Service) Page(ctx context.Context, slug string, page, perPage int) (*CategoryPage, error) {
	cat, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("カテゴリの取得に失敗しました: %w", err)
	}
	if cat == nil {
		return nil, model.NewCategoryNotFoundError(slug)
	}

	if page < 1 {
		page = 1
	}

	total, err := s.jobRepo.CountActiveJobs(ctx, cat.ID)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ %s の求人件数取得に失敗しました: %w", slug, err)
	}

	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	jobs, err := s.jobRepo.GetActiveJobs(ctx, repository.ActiveJobsQuery{
		CategoryID: cat.ID,
		Limit:      perPage,
		Offset:     (page - 1) * perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("カテゴリ %s の求人取得に失敗しました: %w", slug, err)
	}

	prev := page
	if page > 1 {
		prev = page - 1
	}
	next := lastPage
	if page < lastPage {
		next = page + 1
	}

	return &CategoryPage{
		Category:     cat,
		Jobs:         jobs,
		TotalJobs:    total,
		CurrentPage:  page,
		LastPage:     lastPage,
		PreviousPage: prev,
		NextPage:     next,
	}, nil
}
