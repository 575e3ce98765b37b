package domain

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPromptLimiter_Truncate(t *testing.T) {
	tests := []struct {
		name     string
		max      int
		prompt   string
		expected string
	}{
		{"無制限", 0, strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"制限以内", 10, "short", "short"},
		{"区切りなし", 10, strings.Repeat("a", 20), strings.Repeat("a", 10)},
		{"英語の文の区切り", 40, "First sentence is here. Second sentence goes on and on", "First sentence is here."},
		{"日本語の文の区切り", 20, "これは最初の文です。" + strings.Repeat("あ", 50), "これは最初の文です。"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewPromptLimiter(tt.max)
			got := limiter.Truncate(tt.prompt)
			if got != tt.expected {
				t.Errorf("期待値: %q, 実際: %q", tt.expected, got)
			}
			if tt.max > 0 && utf8.RuneCountInString(got) > tt.max {
				t.Errorf("最大長を超えています: %d", utf8.RuneCountInString(got))
			}
		})
	}
}

func TestPromptLimiter_IsTruncated(t *testing.T) {
	limiter := NewPromptLimiter(5)

	if limiter.IsTruncated("あいうえお") {
		t.Error("5文字のプロンプトが切り詰め対象と判定されました")
	}
	if !limiter.IsTruncated("あいうえおか") {
		t.Error("6文字のプロンプトが切り詰め対象と判定されませんでした")
	}
	if NewPromptLimiter(0).IsTruncated(strings.Repeat("a", 10000)) {
		t.Error("無制限の場合は切り詰め対象にならないはずです")
	}
}
