// Package model はドメインモデルを定義する。
package model

import "time"

// Job は求人掲載を表す。
// 公開クエリに現れるのは is_activated かつ expires_at が未来の場合のみ。
type Job struct {
	ID           string
	CategoryID   string
	Type         JobType
	Company      string
	Logo         string
	URL          string
	Position     string
	Location     string
	Description  string
	HowToApply   string
	Token        string
	IsPublic     bool
	IsActivated  bool
	Email        string
	CompanySlug  string
	LocationSlug string
	PositionSlug string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsExpired は基準時刻で掲載期限が切れているかを返す。
// 期限切れは保存された状態ではなく、時刻比較のみで判定される。
func (j *Job) IsExpired(now time.Time) bool {
	return !j.ExpiresAt.After(now)
}

// JobType は雇用形態を表す。
type JobType string

const (
	// JobTypeFullTime は正社員。
	JobTypeFullTime JobType = "full-time"
	// JobTypePartTime はパートタイム。
	JobTypePartTime JobType = "part-time"
	// JobTypeFreelance はフリーランス。
	JobTypeFreelance JobType = "freelance"
)

// JobTypes は許可される雇用形態の一覧を返す。閉じた集合。
func JobTypes() []JobType {
	return []JobType{JobTypeFullTime, JobTypePartTime, JobTypeFreelance}
}

// IsValidJobType は雇用形態として許可される値かを返す。
func IsValidJobType(s string) bool {
	switch JobType(s) {
	case JobTypeFullTime, JobTypePartTime, JobTypeFreelance:
		return true
	}
	return false
}

// Category は求人のカテゴリを表す。
type Category struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}

// Affiliate はアフィリエイトパートナーを表す。
// トークンで識別され、許可されたカテゴリの求人のみを取得できる。
type Affiliate struct {
	ID        string
	URL       string
	Email     string
	Token     string
	IsActive  bool
	CreatedAt time.Time
}
