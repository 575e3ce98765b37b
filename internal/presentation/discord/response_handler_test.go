package discord

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"posterforge/internal/domain"
)

func TestResponseHandler_IsTimeoutError(t *testing.T) {
	handler := NewResponseHandler()

	// タイムアウトエラーのテストケース
	timeoutErrors := []string{
		"context deadline exceeded",
		"timeout",
		"タイムアウト",
		"deadline exceeded",
		"request timeout",
		"TIMEOUT",
		"デザインの生成がタイムアウトしました",
	}

	for _, errMsg := range timeoutErrors {
		if !handler.isTimeoutError(errors.New(errMsg)) {
			t.Errorf("タイムアウトエラーとして認識されるべき: %s", errMsg)
		}
	}

	// 非タイムアウトエラーのテストケース
	nonTimeoutErrors := []string{
		"network error",
		"permission denied",
		"エラーが発生しました",
	}

	for _, errMsg := range nonTimeoutErrors {
		if handler.isTimeoutError(errors.New(errMsg)) {
			t.Errorf("タイムアウトエラーとして認識されるべきではない: %s", errMsg)
		}
	}

	// nilエラーのテスト
	if handler.isTimeoutError(nil) {
		t.Error("nilエラーはタイムアウトエラーとして認識されるべきではない")
	}
}

func TestResponseHandler_FormatError(t *testing.T) {
	handler := NewResponseHandler()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"タイムアウト", errors.New("context deadline exceeded"), "⏰ **タイムアウトしました**"},
		{"レート制限", ErrRateLimited, "⚠️ **レート制限を超過しました**"},
		{"編集セッションなし", fmt.Errorf("取得に失敗: %w", domain.ErrNoEditorSession), "`/design`"},
		{"デザインなし", fmt.Errorf("取得に失敗: %w", domain.ErrDesignNotFound), "🔍 **デザインが見つかりません**"},
		{"レイヤー範囲外", fmt.Errorf("%w: 5 (レイヤー数: 2)", domain.ErrLayerOutOfRange), "レイヤー数: 2"},
		{"無効な色", domain.ErrInvalidColor, "🎨 **無効な色です**"},
		{"無効なURL", domain.ErrInvalidYouTubeURL, "📺 **無効なYouTube URLです**"},
		{"無効なフォーマット", domain.ErrInvalidFormat, "📐 **無効なフォーマットです**"},
		{"一般的なエラー", errors.New("一般的なエラー"), "❌ **エラーが発生しました**"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatted := handler.formatError(tt.err)
			if !strings.Contains(formatted, tt.expected) {
				t.Errorf("メッセージに %q が含まれていません: %s", tt.expected, formatted)
			}
		})
	}
}

func TestResponseHandler_SplitMessage(t *testing.T) {
	handler := NewResponseHandler()

	t.Run("短いメッセージは分割しない", func(t *testing.T) {
		chunks := handler.splitMessage("hello")
		if len(chunks) != 1 || chunks[0] != "hello" {
			t.Errorf("分割結果が正しくありません: %v", chunks)
		}
	})

	t.Run("改行で分割", func(t *testing.T) {
		line := strings.Repeat("a", 999) + "\n"
		message := strings.Repeat(line, 3)
		chunks := handler.splitMessage(message)
		if len(chunks) != 2 {
			t.Fatalf("期待されるチャンク数: 2, 実際: %d", len(chunks))
		}
		for _, chunk := range chunks {
			if len(chunk) > DiscordMessageLimit {
				t.Errorf("チャンクが制限を超えています: %d", len(chunk))
			}
		}
	})

	t.Run("マルチバイト文字の途中で分割しない", func(t *testing.T) {
		message := strings.Repeat("あ", 1000)
		chunks := handler.splitMessage(message)
		if len(chunks) < 2 {
			t.Fatalf("分割されていません: %d", len(chunks))
		}
		total := 0
		for _, chunk := range chunks {
			if !utf8.ValidString(chunk) {
				t.Error("不正なUTF-8のチャンクがあります")
			}
			if len(chunk) > DiscordMessageLimit {
				t.Errorf("チャンクが制限を超えています: %d", len(chunk))
			}
			total += utf8.RuneCountInString(chunk)
		}
		if total != 1000 {
			t.Errorf("文字数が失われています: %d", total)
		}
	})
}

func TestResponseHandler_FormatLayout(t *testing.T) {
	handler := NewResponseHandler()

	layout := domain.Layout{
		Format:          domain.FormatYouTube,
		BackgroundColor: "#FF6B6B",
		Dimensions:      domain.FormatYouTube.Dimensions(),
		VariationIndex:  1,
		TextElements: []domain.TextElement{
			{Text: "BIG NEWS", FontSize: 72, FontWeight: "bold", Color: "#FFFFFF"},
		},
	}

	formatted := handler.formatLayout(layout)
	for _, expected := range []string{"YouTubeサムネイル", "1280x720", "バリエーション 2", "ヒューリスティック", "`#FF6B6B`", "1. BIG NEWS (72px, bold, #FFFFFF)"} {
		if !strings.Contains(formatted, expected) {
			t.Errorf("メッセージに %q が含まれていません: %s", expected, formatted)
		}
	}

	layout.Enhanced = true
	if !strings.Contains(handler.formatLayout(layout), "Gemini") {
		t.Error("拡張されたレイアウトの生成元が表示されていません")
	}
}

func TestResponseHandler_FormatScene(t *testing.T) {
	handler := NewResponseHandler()

	scene := &domain.Scene{
		Format:     domain.FormatInstagram,
		Background: "#000000",
		Objects: []domain.SceneObject{
			{Kind: domain.ObjectText, Text: "TITLE", Fill: "#FFFFFF"},
			{Kind: domain.ObjectCircle, Fill: "#4ECDC4"},
		},
	}
	session := &domain.EditorSession{Scene: scene, DesignID: "design-1"}

	formatted := handler.formatScene(session)

	// 最前面のレイヤーが先に表示される
	circle := strings.Index(formatted, "`2` 円")
	text := strings.Index(formatted, "`1` テキスト TITLE")
	if circle < 0 || text < 0 || circle > text {
		t.Errorf("レイヤーの表示順が正しくありません: %s", formatted)
	}
	if !strings.Contains(formatted, "design-1") {
		t.Error("保存先のIDが表示されていません")
	}

	session.Scene = &domain.Scene{Format: domain.FormatQuote}
	if !strings.Contains(handler.formatScene(session), "レイヤーはありません") {
		t.Error("空のシーンの表示が正しくありません")
	}
}

func TestResponseHandler_FormatDesignList(t *testing.T) {
	handler := NewResponseHandler()

	if !strings.Contains(handler.formatDesignList(nil), "保存済みのデザインはありません") {
		t.Error("空の一覧の表示が正しくありません")
	}

	designs := []domain.Design{
		{ID: "d1", Title: "Summer Sale", Format: domain.FormatInstagram, Downloads: 3, UpdatedAt: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)},
	}
	formatted := handler.formatDesignList(designs)
	for _, expected := range []string{"(1件)", "`d1`", "Summer Sale", "⬇️ 3", "2024-07-01 12:00"} {
		if !strings.Contains(formatted, expected) {
			t.Errorf("一覧に %q が含まれていません: %s", expected, formatted)
		}
	}
}

func TestResponseHandler_FormatThumbnails(t *testing.T) {
	handler := NewResponseHandler()

	formatted := handler.formatThumbnails("dQw4w9WgXcQ", domain.Thumbnails("dQw4w9WgXcQ"))
	if !strings.Contains(formatted, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg") {
		t.Errorf("サムネイルのURLが含まれていません: %s", formatted)
	}
}
