package domain

import (
	"strings"
	"unicode/utf8"
)

// PromptLimiter は、ユーザーが入力したプロンプトの長さを管理するドメインサービスです
type PromptLimiter struct {
	maxPromptLength int // 最大プロンプト長（文字数）
}

// NewPromptLimiter は新しいPromptLimiterインスタンスを作成します。0以下は無制限です
func NewPromptLimiter(maxPromptLength int) *PromptLimiter {
	return &PromptLimiter{maxPromptLength: maxPromptLength}
}

// Truncate は、プロンプトを最大長に制限します。
// 切り詰める場合、末尾近くに文の区切りがあればそこで終わるように調整します
func (pl *PromptLimiter) Truncate(prompt string) string {
	if pl.maxPromptLength <= 0 || utf8.RuneCountInString(prompt) <= pl.maxPromptLength {
		return prompt
	}

	runes := []rune(prompt)[:pl.maxPromptLength]
	truncated := string(runes)

	// 完全な文で終わるように調整
	for _, terminator := range []string{"。", ". "} {
		lastPeriod := strings.LastIndex(truncated, terminator)
		if lastPeriod <= 0 {
			continue
		}
		kept := truncated[:lastPeriod+len(strings.TrimSpace(terminator))]
		if utf8.RuneCountInString(kept) >= len(runes)-30 {
			return kept
		}
	}

	return truncated
}

// IsTruncated は、プロンプトが最大長を超えているかを返します
func (pl *PromptLimiter) IsTruncated(prompt string) bool {
	return pl.maxPromptLength > 0 && utf8.RuneCountInString(prompt) > pl.maxPromptLength
}
