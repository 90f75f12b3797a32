// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/jobboard/internal/model"
)

// ActiveJobsQuery はアクティブ求人検索の条件を表す。
// ゼロ値はフィルタなし・ページネーションなしを意味する。
type ActiveJobsQuery struct {
	// CategoryID が空でない場合、そのカテゴリに限定する。
	CategoryID string
	// AffiliateID が空でない場合、そのアフィリエイトに許可された
	// カテゴリかつ公開フラグが立っている求人に限定する。
	AffiliateID string
	// Limit が0以下の場合は件数制限なし。
	Limit int
	// Offset はLimitが指定された場合のみ適用される。
	Offset int
}

// JobRepository は求人データの永続化インターフェース。
// 「アクティブ」の判定は is_activated AND expires_at > now() の
// 時刻比較のみで行い、全クエリで同一の述語を共有する。
type JobRepository interface {
	// Create は求人を作成する。
	Create(ctx context.Context, job *model.Job) error

	// Update は求人の内容フィールドとスラッグを更新する。
	Update(ctx context.Context, job *model.Job) error

	// FindByToken はトークンで求人を検索する。
	// 公開状態・期限に関わらず取得する。見つからない場合はnilを返す。
	FindByToken(ctx context.Context, token string) (*model.Job, error)

	// GetActiveJob は指定IDのアクティブな求人を取得する。
	// 未公開または期限切れの場合は行が存在してもnilを返す。
	GetActiveJob(ctx context.Context, id string) (*model.Job, error)

	// GetActiveJobs はアクティブな求人をcreated_at降順で返す。
	GetActiveJobs(ctx context.Context, q ActiveJobsQuery) ([]*model.Job, error)

	// CountActiveJobs はアクティブな求人数を返す。
	// categoryIDが空でない場合はそのカテゴリに限定する。
	CountActiveJobs(ctx context.Context, categoryID string) (int, error)

	// Publish は求人を公開状態にし、更新後の求人を返す。
	// 冪等: すでに公開済みでも同じ結果を返す。
	// トークンが見つからない場合はnilを返す。
	Publish(ctx context.Context, token string) (*model.Job, error)

	// ExtendIfExpiring は掲載期限まで残りgraceDays日以内の場合のみ、
	// 期限を now() + validityDays日 に延長する。単一の条件付きUPDATEで
	// 実行されるため、並行呼び出しで二重延長は起こらない。
	// 条件を満たさない場合（トークン不明または延長対象外）はnilを返す。
	ExtendIfExpiring(ctx context.Context, token string, validityDays, graceDays int) (*model.Job, error)

	// DeleteByToken は求人を削除する。削除した場合trueを返す。
	DeleteByToken(ctx context.Context, token string) (bool, error)

	// Cleanup は作成からdays日を超えた求人を公開状態に関わらず削除し、
	// 削除件数を返す。冪等で、並行実行しても安全。
	Cleanup(ctx context.Context, days int) (int64, error)
}

// CategoryRepository はカテゴリデータの永続化インターフェース。
type CategoryRepository interface {
	// FindByID は指定IDのカテゴリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Category, error)

	// FindBySlug はスラッグでカテゴリを検索する。見つからない場合はnilを返す。
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)

	// ListWithActiveJobs はアクティブな求人を1件以上持つカテゴリを
	// 名前順で返す。
	ListWithActiveJobs(ctx context.Context) ([]*model.Category, error)
}

// AffiliateRepository はアフィリエイトデータの永続化インターフェース。
type AffiliateRepository interface {
	// FindActiveByToken はトークンで有効なアフィリエイトを検索する。
	// トークンが存在しない場合と無効化されている場合はどちらもnilを返す。
	FindActiveByToken(ctx context.Context, token string) (*model.Affiliate, error)
}
