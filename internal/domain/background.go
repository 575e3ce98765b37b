package domain

import (
	"math/rand/v2"
	"strings"
)

// RandomSource は、乱数の供給元です。*rand.Rand（math/rand/v2）はこのインターフェースを満たします
type RandomSource interface {
	IntN(n int) int
}

// globalRandom は、ゴルーチンセーフなパッケージレベルの乱数源を使うRandomSourceです
type globalRandom struct{}

func (globalRandom) IntN(n int) int {
	return rand.IntN(n)
}

// GradientBackground は、"gradient" キーワードに対応する背景です
const GradientBackground = "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"

// FallbackBackgroundColor は、候補が1つもない場合の背景色です
const FallbackBackgroundColor = "#667eea"

// colorKeywords は宣言順に照合されます。複数のキーワードを含むプロンプトでは先に宣言されたものが優先されます
var colorKeywords = []struct {
	keyword string
	color   string
}{
	{"red", "#FF6B6B"},
	{"blue", "#4ECDC4"},
	{"green", "#96CEB4"},
	{"purple", "#DDA0DD"},
	{"yellow", "#FFEAA7"},
	{"orange", "#F39C12"},
	{"pink", "#FF69B4"},
	{"black", "#2C3E50"},
	{"white", "#FFFFFF"},
	{"dark", "#34495E"},
	{"light", "#ECF0F1"},
	{"gradient", GradientBackground},
}

// ColorForKeyword は、プロンプトに含まれる最初の色キーワードに対応する色を返します
func ColorForKeyword(prompt string) (string, bool) {
	lowerPrompt := strings.ToLower(prompt)
	for _, entry := range colorKeywords {
		if strings.Contains(lowerPrompt, entry.keyword) {
			return entry.color, true
		}
	}
	return "", false
}

// ExtractBackgroundColor は、プロンプトから背景色を決定します。
// 色キーワードがなければ options から一様ランダムに1つ選びます。random が nil の場合はグローバルな乱数源を使います
func ExtractBackgroundColor(prompt string, options []string, random RandomSource) string {
	if color, ok := ColorForKeyword(prompt); ok {
		return color
	}

	if len(options) == 0 {
		return FallbackBackgroundColor
	}
	if random == nil {
		random = globalRandom{}
	}
	return options[random.IntN(len(options))]
}
