// Package slug はURL用スラッグの導出を提供する。
//
// 会社名・勤務地・職種名などの自由テキストから、ASCIIのみで構成される
// URL安全な識別子を導出する。スラッグは表示用の補助であり、
// 一意性は保証しない（主キーには使用しない）。
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback は正規化の結果が空になった場合に返すスラッグ。
const Fallback = "n-a"

var (
	nonAlnumRun  = regexp.MustCompile(`[^\pL\pN]+`)
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]`)
)

// Make はテキストからスラッグを導出する。
// Unicode文字はベストエフォートでASCIIに転写し、英数字以外の連続を
// 単一のハイフンに置換、小文字化した上で [a-z0-9-] 以外を除去する。
// 結果が空の場合はFallbackを返す。決定的で副作用を持たない。
func Make(text string) string {
	// 英数字以外の連続をハイフンに置換
	s := nonAlnumRun.ReplaceAllString(text, "-")
	s = strings.Trim(s, "-")

	// 合成文字を分解して結合記号を除去（é -> e など）
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	s = strings.ToLower(s)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = strings.Trim(s, "-")

	if strings.TrimSpace(s) == "" {
		return Fallback
	}

	return s
}
