package domain

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestExtractBackgroundColor_Keyword(t *testing.T) {
	options := []string{"#111111", "#222222", "#333333", "#444444"}

	got := ExtractBackgroundColor("I want a red background", options, nil)
	if got != "#FF6B6B" {
		t.Errorf("赤のキーワードで %s が返されました", got)
	}

	// パレットの内容に関係なく同じ色になる
	if got := ExtractBackgroundColor("I want a RED background", nil, nil); got != "#FF6B6B" {
		t.Errorf("パレットなしで %s が返されました", got)
	}
}

func TestExtractBackgroundColor_DeclarationOrderWins(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{"a blue and red poster", "#FF6B6B"},
		{"dark green forest", "#96CEB4"},
		{"light gradient", "#ECF0F1"},
		{"smooth gradient", GradientBackground},
	}

	for _, tt := range tests {
		if got := ExtractBackgroundColor(tt.prompt, []string{"#000000"}, nil); got != tt.want {
			t.Errorf("ExtractBackgroundColor(%q) = %s, 期待値 %s", tt.prompt, got, tt.want)
		}
	}
}

func TestExtractBackgroundColor_RandomMembership(t *testing.T) {
	options := []string{"#4CC9F0", "#4361EE", "#3A0CA3", "#7209B7"}
	random := rand.New(rand.NewPCG(1, 2))
	counts := make(map[string]int)

	for i := 0; i < 1000; i++ {
		got := ExtractBackgroundColor("abstract shapes", options, random)
		if !slices.Contains(options, got) {
			t.Fatalf("パレット外の色 %s が返されました", got)
		}
		counts[got]++
	}

	for _, option := range options {
		if counts[option] == 0 {
			t.Errorf("色 %s が1000回の試行で一度も選ばれませんでした", option)
		}
	}
}

func TestExtractBackgroundColor_EmptyOptions(t *testing.T) {
	if got := ExtractBackgroundColor("abstract shapes", nil, nil); got != FallbackBackgroundColor {
		t.Errorf("候補が空の場合は %s であるべきです: %s", FallbackBackgroundColor, got)
	}
}
