// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"sort"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: job, category, affiliate, validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeJobNotFound       = "JOB_NOT_FOUND"
	ErrCodeJobAlreadyActive  = "JOB_ALREADY_ACTIVATED"
	ErrCodeJobNotExtendable  = "JOB_NOT_EXTENDABLE"
	ErrCodeCategoryNotFound  = "CATEGORY_NOT_FOUND"
	ErrCodeAffiliateNotFound = "AFFILIATE_NOT_FOUND"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
)

// NewJobNotFoundError は求人未検出エラーを生成する。
func NewJobNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeJobNotFound,
		Message:  "指定された求人が見つかりません。",
		Category: "job",
		Action:   "URLまたはトークンを確認してください。",
	}
}

// NewJobAlreadyActivatedError は公開済み求人の編集エラーを生成する。
func NewJobAlreadyActivatedError() *APIError {
	return &APIError{
		Code:     ErrCodeJobAlreadyActive,
		Message:  "公開済みの求人は編集できません。",
		Category: "job",
		Action:   "内容を変更する場合は掲載を削除して再投稿してください。",
	}
}

// NewJobNotExtendableError は延長不可エラーを生成する。
// 掲載期限が迫っている場合のみ延長できる。
func NewJobNotExtendableError() *APIError {
	return &APIError{
		Code:     ErrCodeJobNotExtendable,
		Message:  "この求人は現在延長できません。",
		Category: "job",
		Action:   "掲載期限が近づいてから再度お試しください。",
	}
}

// NewCategoryNotFoundError はカテゴリ未検出エラーを生成する。
func NewCategoryNotFoundError(slug string) *APIError {
	return &APIError{
		Code:     ErrCodeCategoryNotFound,
		Message:  fmt.Sprintf("指定されたカテゴリが見つかりません: %s", slug),
		Category: "category",
		Action:   "カテゴリのスラッグを確認してください。",
	}
}

// NewAffiliateNotFoundError はアフィリエイト未検出エラーを生成する。
// トークンが存在しない場合と無効化されている場合を区別しない。
func NewAffiliateNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeAffiliateNotFound,
		Message:  "このアフィリエイトアカウントは存在しません。",
		Category: "affiliate",
		Action:   "アフィリエイトトークンを確認してください。",
	}
}

// ValidationError は入力検証エラーを表す。
// 違反したフィールドすべてをまとめて保持し、呼び出し側が一括で提示できるようにする。
type ValidationError struct {
	Fields map[string]string // フィールド名 -> 違反メッセージ
}

// NewValidationError は空のValidationErrorを生成する。
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add はフィールドの違反を追加する。
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

// HasErrors は違反が1件以上あるかを返す。
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Error はerrorインターフェースを実装する。
// フィールド名順に違反を列挙する。
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %s", f, e.Fields[f])
	}
	return fmt.Sprintf("[%s] %s", ErrCodeValidationFailed, strings.Join(parts, "; "))
}
