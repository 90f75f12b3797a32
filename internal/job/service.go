// Package job は求人ライフサイクルのドメインロジックを提供する。
//
// 求人は下書き（未公開）として投稿され、公開操作でアクティブになり、
// 掲載期限の経過により暗黙的に失効する。失効は保存された状態ではなく
// 読み取りごとの時刻比較で判定される。所有権はユーザーアカウントではなく
// 投稿時に発行されるケイパビリティトークンで証明される。
package job

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/jobboard/internal/metrics"
	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
	"github.com/hitoshi/jobboard/internal/slug"
	"github.com/hitoshi/jobboard/internal/token"
)

// Input は求人の作成・編集で受け取るフィールドセット。
type Input struct {
	CategoryID  string
	Type        string
	Company     string
	Logo        string
	URL         string
	Position    string
	Location    string
	Description string
	HowToApply  string
	Email       string
	IsPublic    bool
}

// ServiceConfig はライフサイクルの時間設定を保持する。
type ServiceConfig struct {
	// ValidityDays は公開・延長時に設定される掲載有効日数。
	ValidityDays int
	// ExtendGraceDays は延長を許可する残り日数の上限。
	// 残りがこれより多い求人は延長できない。
	ExtendGraceDays int
}

// Service は求人ライフサイクルのサービス層。
// 作成、編集、公開、延長、削除の状態遷移と各遷移のビジネスルールを提供する。
// 状態はリクエストをまたいでキャッシュせず、毎回ストアから読み直す。
type Service struct {
	jobRepo      repository.JobRepository
	categoryRepo repository.CategoryRepository
	sanitizer    sanitizer
	collector    metrics.MetricsCollector
	config       ServiceConfig
}

// sanitizer はHTML入力フィールドのサニタイズに必要な最小インターフェース。
type sanitizer interface {
	Sanitize(rawHTML string) string
}

// NewService はServiceの新しいインスタンスを生成する。
// collectorはnilでもよい（メトリクスを記録しない）。
func NewService(
	jobRepo repository.JobRepository,
	categoryRepo repository.CategoryRepository,
	sanitizer sanitizer,
	collector metrics.MetricsCollector,
	config ServiceConfig,
) *Service {
	return &Service{
		jobRepo:      jobRepo,
		categoryRepo: categoryRepo,
		sanitizer:    sanitizer,
		collector:    collector,
		config:       config,
	}
}

// Create は求人を下書き状態で作成する。
// 全フィールドを検証し、違反があればすべてまとめてValidationErrorで返す。
// スラッグの導出とトークンの発行はここで1回だけ行う。
func (s *Service) Create(ctx context.Context, in Input) (*model.Job, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	tok, err := token.New()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job := &model.Job{
		ID:          uuid.New().String(),
		Token:       tok,
		IsActivated: false,
		ExpiresAt:   now.Add(time.Duration(s.config.ValidityDays) * 24 * time.Hour),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.applyInput(job, in)

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	if s.collector != nil {
		s.collector.RecordJobCreated()
	}

	return job, nil
}

// Edit は下書き状態の求人を更新し、スラッグを再導出する。
// 公開済みの求人は編集できない。
func (s *Service) Edit(ctx context.Context, tok string, in Input) (*model.Job, error) {
	job, err := s.jobRepo.FindByToken(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("求人の取得に失敗しました: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError()
	}
	if job.IsActivated {
		return nil, model.NewJobAlreadyActivatedError()
	}

	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	s.applyInput(job, in)
	job.UpdatedAt = time.Now()

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

// Publish は求人を公開状態にする。
// 冪等: すでに公開済みの求人への再公開は変更なしで成功する。
func (s *Service) Publish(ctx context.Context, tok string) (*model.Job, error) {
	job, err := s.jobRepo.Publish(ctx, tok)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, model.NewJobNotFoundError()
	}

	if s.collector != nil {
		s.collector.RecordJobPublished()
	}

	return job, nil
}

// Extend は掲載期限を呼び出し時点から有効期間ぶん延長する。
// 期限まで残りExtendGraceDays日以内の場合のみ許可される。
// 延長直後は残り日数が猶予を超えるため、同一サイクル内の再延長は失敗する。
func (s *Service) Extend(ctx context.Context, tok string) (*model.Job, error) {
	job, err := s.jobRepo.ExtendIfExpiring(ctx, tok, s.config.ValidityDays, s.config.ExtendGraceDays)
	if err != nil {
		return nil, err
	}
	if job == nil {
		// トークン不明か延長対象外かを区別する
		existing, err := s.jobRepo.FindByToken(ctx, tok)
		if err != nil {
			return nil, fmt.Errorf("求人の取得に失敗しました: %w", err)
		}
		if existing == nil {
			return nil, model.NewJobNotFoundError()
		}
		return nil, model.NewJobNotExtendableError()
	}

	if s.collector != nil {
		s.collector.RecordJobExtended()
	}

	return job, nil
}

// Delete は求人を公開状態に関わらず削除する。取り消しできない。
func (s *Service) Delete(ctx context.Context, tok string) error {
	deleted, err := s.jobRepo.DeleteByToken(ctx, tok)
	if err != nil {
		return err
	}
	if !deleted {
		return model.NewJobNotFoundError()
	}

	if s.collector != nil {
		s.collector.RecordJobDeleted()
	}

	return nil
}

// Preview はトークンで求人を取得する。公開状態・期限に関わらず返す。
// 投稿者向けのプレビュー・編集画面で使用する。
func (s *Service) Preview(ctx context.Context, tok string) (*model.Job, error) {
	job, err := s.jobRepo.FindByToken(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("求人の取得に失敗しました: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError()
	}
	return job, nil
}

// GetActive は指定IDのアクティブな求人を取得する。
// 未公開または期限切れの場合は行が存在してもNotFoundを返す。
func (s *Service) GetActive(ctx context.Context, id string) (*model.Job, error) {
	job, err := s.jobRepo.GetActiveJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, model.NewJobNotFoundError()
	}
	return job, nil
}

// Types は許可される雇用形態の一覧を返す。
func (s *Service) Types() []model.JobType {
	return model.JobTypes()
}

// applyInput は入力フィールドを求人に反映し、スラッグを再導出する。
// HTMLを含みうるフィールドはサニタイズする。
func (s *Service) applyInput(job *model.Job, in Input) {
	job.CategoryID = in.CategoryID
	job.Type = model.JobType(in.Type)
	job.Company = in.Company
	job.Logo = in.Logo
	job.URL = in.URL
	job.Position = in.Position
	job.Location = in.Location
	job.Description = s.sanitizer.Sanitize(in.Description)
	job.HowToApply = s.sanitizer.Sanitize(in.HowToApply)
	job.Email = in.Email
	job.IsPublic = in.IsPublic

	job.CompanySlug = slug.Make(job.Company)
	job.LocationSlug = slug.Make(job.Location)
	job.PositionSlug = slug.Make(job.Position)
}

// validate は入力フィールドを検証する。
// 最初の違反で打ち切らず、違反したフィールドすべてを返す。
func (s *Service) validate(ctx context.Context, in Input) error {
	verr := model.NewValidationError()

	if in.CategoryID == "" {
		verr.Add("category_id", "カテゴリは必須です。")
	} else {
		category, err := s.categoryRepo.FindByID(ctx, in.CategoryID)
		if err != nil {
			return fmt.Errorf("カテゴリの確認に失敗しました: %w", err)
		}
		if category == nil {
			verr.Add("category_id", "存在しないカテゴリです。")
		}
	}

	if !model.IsValidJobType(in.Type) {
		verr.Add("type", "雇用形態が不正です。")
	}
	if in.Company == "" {
		verr.Add("company", "会社名は必須です。")
	}
	if in.Position == "" {
		verr.Add("position", "職種は必須です。")
	}
	if in.Location == "" {
		verr.Add("location", "勤務地は必須です。")
	}
	if in.Description == "" {
		verr.Add("description", "説明は必須です。")
	}
	if in.HowToApply == "" {
		verr.Add("how_to_apply", "応募方法は必須です。")
	}

	if in.Email == "" {
		verr.Add("email", "メールアドレスは必須です。")
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		verr.Add("email", "メールアドレスの形式が不正です。")
	}

	if in.URL != "" {
		u, err := url.Parse(in.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			verr.Add("url", "URLの形式が不正です。")
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
