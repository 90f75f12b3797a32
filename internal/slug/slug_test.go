package slug

import "testing"

// アクセント付き文字がASCIIに転写されることを検証
func TestMake_Transliteration(t *testing.T) {
	got := Make("Café Münster!!")
	want := "cafe-munster"
	if got != want {
		t.Errorf("Make(%q) = %q, want %q", "Café Münster!!", got, want)
	}
}

// 各種入力のスラッグ導出を検証
func TestMake_Normalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"単純な英字", "Sensio Labs", "sensio-labs"},
		{"記号の連続", "Paris, France", "paris-france"},
		{"前後の記号", "  --Web Developer--  ", "web-developer"},
		{"数字混在", "F001 Backend", "f001-backend"},
		{"大文字のみ", "ACME", "acme"},
		{"記号のみ", "!!!", Fallback},
		{"空白のみ", "   ", Fallback},
		{"空文字列", "", Fallback},
		{"転写不能な文字のみ", "日本語", Fallback},
		{"転写不能な文字の混在", "Tokyo 支社", "tokyo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.input); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// 同一入力に対して常に同一出力を返すことを検証
func TestMake_Deterministic(t *testing.T) {
	input := "Développeur Sénior"
	first := Make(input)
	for i := 0; i < 10; i++ {
		if got := Make(input); got != first {
			t.Fatalf("Make(%q) is not deterministic: %q != %q", input, got, first)
		}
	}
}
