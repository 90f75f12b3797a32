// Package token は求人ごとのケイパビリティトークンの発行を提供する。
//
// トークンは編集・公開・延長・削除の唯一の所有証明として機能する。
// ユーザーアカウントは存在しないため、推測不可能であることが
// セキュリティ上の前提となる。
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes はトークンの乱数バイト長。hex化後は64文字になる。
const tokenBytes = 32

// New は暗号学的に安全な乱数からトークンを生成する。
// 衝突確率は無視できるほど小さく、発行間の調整は不要。
func New() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("トークンの生成に失敗しました: %w", err)
	}
	return hex.EncodeToString(b), nil
}
