package domain

import (
	"errors"
	"testing"
)

func TestResolveFormat_ExplicitFormatIsUnchanged(t *testing.T) {
	prompts := []string{"", "youtube video thumbnail", "instagram square post", "a famous quote", "red gradient"}

	for _, format := range AllFormats() {
		for _, prompt := range prompts {
			if got := ResolveFormat(prompt, format); got != format {
				t.Errorf("ResolveFormat(%q, %s) = %s, 期待値 %s", prompt, format, got, format)
			}
		}
	}
}

func TestResolveFormat_Auto(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   Format
	}{
		{"動画キーワード", "My new VIDEO about cats", FormatYouTube},
		{"サムネイル", "a thumbnail for gaming", FormatYouTube},
		{"youtubeがinstagramより優先", "instagram post for my youtube channel", FormatYouTube},
		{"instagram", "Square layout for a cafe", FormatInstagram},
		{"post", "a post about summer", FormatInstagram},
		{"instagramがquoteより優先", "post a quote", FormatInstagram},
		{"quote", "a motivational saying", FormatQuote},
		{"text", "some text here", FormatQuote},
		{"既定値", "abstract shapes", FormatInstagram},
		{"空", "", FormatInstagram},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveFormat(tt.prompt, FormatAuto); got != tt.want {
				t.Errorf("ResolveFormat(%q, auto) = %s, 期待値 %s", tt.prompt, got, tt.want)
			}
			if got := ResolveFormat(tt.prompt, ""); got != tt.want {
				t.Errorf("ResolveFormat(%q, \"\") = %s, 期待値 %s", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"youtube", FormatYouTube, false},
		{" Instagram ", FormatInstagram, false},
		{"QUOTE", FormatQuote, false},
		{"auto", FormatAuto, false},
		{"", FormatAuto, false},
		{"tiktok", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("ParseFormat(%q) のエラーが ErrInvalidFormat ではありません: %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) で予期しないエラー: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, 期待値 %s", tt.input, got, tt.want)
		}
	}
}

func TestFormat_Dimensions(t *testing.T) {
	if d := FormatYouTube.Dimensions(); d.Width != 1280 || d.Height != 720 {
		t.Errorf("youtubeのサイズが不正です: %+v", d)
	}
	if d := FormatInstagram.Dimensions(); d.Width != 1080 || d.Height != 1080 {
		t.Errorf("instagramのサイズが不正です: %+v", d)
	}
	if d := FormatQuote.Dimensions(); d.Width != 1080 || d.Height != 1080 {
		t.Errorf("quoteのサイズが不正です: %+v", d)
	}
	if FormatAuto.IsConcrete() {
		t.Error("autoは具体的な形式ではありません")
	}
}

func TestDimensions_Validate(t *testing.T) {
	tests := []struct {
		name       string
		dimensions Dimensions
		wantErr    bool
	}{
		{"youtube", FormatYouTube.Dimensions(), false},
		{"上限ちょうど", Dimensions{Width: MaxCanvasSize, Height: MaxCanvasSize}, false},
		{"幅が0", Dimensions{Width: 0, Height: 100}, true},
		{"高さが負", Dimensions{Width: 100, Height: -1}, true},
		{"幅が上限超過", Dimensions{Width: MaxCanvasSize + 1, Height: 100}, true},
		{"巨大なキャンバス", Dimensions{Width: 50000, Height: 50000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dimensions.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidCanvasSize) {
				t.Errorf("ErrInvalidCanvasSize を期待しましたが %v でした", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("予期しないエラー: %v", err)
			}
		})
	}
}
