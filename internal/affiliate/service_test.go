package affiliate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

type mockJobRepo struct {
	getActiveJobsFn func(ctx context.Context, q repository.ActiveJobsQuery) ([]*model.Job, error)
}

func (m *mockJobRepo) Create(ctx context.Context, job *model.Job) error { return nil }
func (m *mockJobRepo) Update(ctx context.Context, job *model.Job) error { return nil }
func (m *mockJobRepo) FindByToken(ctx context.Context, token string) (*model.Job, error) {
	return nil, nil
}
func (m *mockJobRepo) GetActiveJob(ctx context.Context, id string) (*model.Job, error) {
	return nil, nil
}
func (m *mockJobRepo) GetActiveJobs(ctx context.Context, q repository.ActiveJobsQuery) ([]*model.Job, error) {
	return m.getActiveJobsFn(ctx, q)
}
func (m *mockJobRepo) CountActiveJobs(ctx context.Context, categoryID string) (int, error) {
	return 0, nil
}
func (m *mockJobRepo) Publish(ctx context.Context, token string) (*model.Job, error) {
	return nil, nil
}
func (m *mockJobRepo) ExtendIfExpiring(ctx context.Context, token string, validityDays, graceDays int) (*model.Job, error) {
	return nil, nil
}
func (m *mockJobRepo) DeleteByToken(ctx context.Context, token string) (bool, error) {
	return false, nil
}
func (m *mockJobRepo) Cleanup(ctx context.Context, days int) (int64, error) { return 0, nil }

type mockCategoryRepo struct {
	findByIDCalls int
	findByIDFn    func(ctx context.Context, id string) (*model.Category, error)
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id string) (*model.Category, error) {
	m.findByIDCalls++
	return m.findByIDFn(ctx, id)
}
func (m *mockCategoryRepo) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return nil, nil
}
func (m *mockCategoryRepo) ListWithActiveJobs(ctx context.Context) ([]*model.Category, error) {
	return nil, nil
}

type mockAffiliateRepo struct {
	findActiveByTokenFn func(ctx context.Context, token string) (*model.Affiliate, error)
}

func (m *mockAffiliateRepo) FindActiveByToken(ctx context.Context, token string) (*model.Affiliate, error) {
	return m.findActiveByTokenFn(ctx, token)
}

// TestProjectFeed は正規URLキーの投影を検証する。
func TestProjectFeed(t *testing.T) {
	expires := time.Now().Add(10 * 24 * time.Hour)
	jobRepo := &mockJobRepo{
		getActiveJobsFn: func(ctx context.Context, q repository.ActiveJobsQuery) ([]*model.Job, error) {
			if q.AffiliateID != "aff-1" {
				t.Errorf("query AffiliateID = %q, want %q", q.AffiliateID, "aff-1")
			}
			return []*model.Job{
				{
					ID:           "job-1",
					CategoryID:   "cat-1",
					Type:         model.JobTypeFullTime,
					Company:      "Sensio Labs",
					CompanySlug:  "sensio-labs",
					Position:     "Web Developer",
					PositionSlug: "web-developer",
					Location:     "Paris, France",
					LocationSlug: "paris-france",
					Description:  "Backend work.",
					HowToApply:   "Send a resume.",
					ExpiresAt:    expires,
				},
				{
					ID:           "job-2",
					CategoryID:   "cat-1",
					Type:         model.JobTypeFreelance,
					Company:      "Extreme Sensio",
					CompanySlug:  "extreme-sensio",
					Position:     "Web Designer",
					PositionSlug: "web-designer",
					Location:     "Paris, France",
					LocationSlug: "paris-france",
					Description:  "Design work.",
					HowToApply:   "Send a portfolio.",
					ExpiresAt:    expires,
				},
			}, nil
		},
	}
	categoryRepo := &mockCategoryRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Category, error) {
			return &model.Category{ID: id, Name: "Programming", Slug: "programming"}, nil
		},
	}
	affiliateRepo := &mockAffiliateRepo{
		findActiveByTokenFn: func(ctx context.Context, token string) (*model.Affiliate, error) {
			return &model.Affiliate{ID: "aff-1", Token: token, IsActive: true}, nil
		},
	}

	svc := NewService(jobRepo, categoryRepo, affiliateRepo, "https://jobboard.example.com")
	feed, err := svc.ProjectFeed(context.Background(), "aff-token")
	if err != nil {
		t.Fatalf("ProjectFeed returned error: %v", err)
	}

	if len(feed) != 2 {
		t.Fatalf("len(feed) = %d, want 2", len(feed))
	}

	key := "https://jobboard.example.com/jobs/sensio-labs/paris-france/job-1/web-developer"
	summary, ok := feed[key]
	if !ok {
		t.Fatalf("feed missing key %q, keys = %v", key, keysOf(feed))
	}
	if summary.Category != "Programming" {
		t.Errorf("Category = %q, want %q", summary.Category, "Programming")
	}
	if summary.Type != "full-time" {
		t.Errorf("Type = %q, want %q", summary.Type, "full-time")
	}
	if !summary.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", summary.ExpiresAt, expires)
	}

	// 同一カテゴリの解決は1回で済むこと
	if categoryRepo.findByIDCalls != 1 {
		t.Errorf("FindByID calls = %d, want 1", categoryRepo.findByIDCalls)
	}
}

// TestProjectFeed_UnknownToken は無効なトークンでNotFoundを返すことを検証する。
func TestProjectFeed_UnknownToken(t *testing.T) {
	affiliateRepo := &mockAffiliateRepo{
		findActiveByTokenFn: func(ctx context.Context, token string) (*model.Affiliate, error) {
			return nil, nil
		},
	}
	svc := NewService(&mockJobRepo{}, &mockCategoryRepo{}, affiliateRepo, "https://jobboard.example.com")

	_, err := svc.ProjectFeed(context.Background(), "bad-token")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeAffiliateNotFound {
		t.Fatalf("expected AFFILIATE_NOT_FOUND, got %v", err)
	}
}

// TestProjectFeed_EmptyCategories は対象求人がない場合に空のフィードを返すことを検証する。
func TestProjectFeed_EmptyCategories(t *testing.T) {
	jobRepo := &mockJobRepo{
		getActiveJobsFn: func(ctx context.Context, q repository.ActiveJobsQuery) ([]*model.Job, error) {
			return nil, nil
		},
	}
	affiliateRepo := &mockAffiliateRepo{
		findActiveByTokenFn: func(ctx context.Context, token string) (*model.Affiliate, error) {
			return &model.Affiliate{ID: "aff-1", Token: token, IsActive: true}, nil
		},
	}
	svc := NewService(jobRepo, &mockCategoryRepo{}, affiliateRepo, "https://jobboard.example.com")

	feed, err := svc.ProjectFeed(context.Background(), "aff-token")
	if err != nil {
		t.Fatalf("ProjectFeed returned error: %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("len(feed) = %d, want 0", len(feed))
	}
}

func keysOf(m map[string]JobSummary) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
