package discord

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"posterforge/internal/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// DiscordMessageLimit は、Discordのメッセージ文字数制限です
const DiscordMessageLimit = 2000

// designFilename は、添付するデザイン画像のファイル名です
const designFilename = "design.png"

// ResponseHandler は、Discordのレスポンス送信・フォーマット処理を担当するハンドラーです
type ResponseHandler struct{}

// NewResponseHandler は新しいResponseHandlerインスタンスを作成します
func NewResponseHandler() *ResponseHandler {
	return &ResponseHandler{}
}

// designFile は、PNG画像をDiscordの添付ファイルにします
func (h *ResponseHandler) designFile(image []byte, name string) *discordgo.File {
	if name == "" {
		name = designFilename
	}
	return &discordgo.File{
		Name:        name,
		ContentType: "image/png",
		Reader:      bytes.NewReader(image),
	}
}

// sendDesignReply は、デザインの説明と画像をリプライとして送信します
func (h *ResponseHandler) sendDesignReply(s *discordgo.Session, channelID string, reference *discordgo.MessageReference, content string, image []byte) {
	message := &discordgo.MessageSend{
		Content:   h.truncate(content),
		Reference: reference,
	}
	if len(image) > 0 {
		message.Files = []*discordgo.File{h.designFile(image, designFilename)}
	}

	if _, err := s.ChannelMessageSendComplex(channelID, message); err != nil {
		log.Error("デザインの送信に失敗", "channel", channelID, "err", err)
	}
}

// sendErrorReply は、エラーをフォーマットしてリプライとして送信します
func (h *ResponseHandler) sendErrorReply(s *discordgo.Session, channelID string, reference *discordgo.MessageReference, err error) {
	if _, sendErr := s.ChannelMessageSendReply(channelID, h.formatError(err), reference); sendErr != nil {
		log.Error("エラーメッセージの送信に失敗", "channel", channelID, "err", sendErr)
	}
}

// formatLayout は、レイアウトの概要をメッセージにします
func (h *ResponseHandler) formatLayout(layout domain.Layout) string {
	var builder strings.Builder

	source := "ヒューリスティック"
	if layout.Enhanced {
		source = "Gemini"
	}

	builder.WriteString(fmt.Sprintf("🎨 **%s** (%dx%d) / バリエーション %d / %s\n",
		layout.Format.DisplayName(), layout.Dimensions.Width, layout.Dimensions.Height, layout.VariationIndex+1, source))
	builder.WriteString(fmt.Sprintf("背景: `%s`\n", layout.BackgroundColor))
	for i, element := range layout.TextElements {
		builder.WriteString(fmt.Sprintf("%d. %s (%dpx, %s, %s)\n", i+1, element.Text, element.FontSize, element.FontWeight, element.Color))
	}
	return builder.String()
}

// formatScene は、編集中のシーンのレイヤー一覧をメッセージにします。番号は1始まりです
func (h *ResponseHandler) formatScene(session *domain.EditorSession) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("✏️ **編集中のデザイン** (%s)\n", session.Scene.Format.DisplayName()))
	if session.DesignID != "" {
		builder.WriteString(fmt.Sprintf("保存先: `%s`\n", session.DesignID))
	}
	builder.WriteString(fmt.Sprintf("背景: `%s`\n", session.Scene.Background))

	if len(session.Scene.Objects) == 0 {
		builder.WriteString("レイヤーはありません\n")
		return builder.String()
	}

	// 最前面から表示
	for i := len(session.Scene.Objects) - 1; i >= 0; i-- {
		object := session.Scene.Objects[i]
		builder.WriteString(fmt.Sprintf("`%d` %s %s `%s`\n", i+1, object.Kind.DisplayName(), object.Label(), object.Fill))
	}
	return builder.String()
}

// formatDesignList は、保存済みデザインの一覧をメッセージにします
func (h *ResponseHandler) formatDesignList(designs []domain.Design) string {
	if len(designs) == 0 {
		return "📂 保存済みのデザインはありません。"
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📂 **保存済みのデザイン** (%d件)\n", len(designs)))
	for _, design := range designs {
		builder.WriteString(fmt.Sprintf("• `%s` %s (%s, ⬇️ %d, %s)\n",
			design.ID, design.Title, design.Format.DisplayName(), design.Downloads, design.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return h.truncate(builder.String())
}

// formatThumbnails は、YouTubeサムネイルの一覧をメッセージにします
func (h *ResponseHandler) formatThumbnails(videoID string, thumbnails []domain.Thumbnail) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🖼️ **YouTubeサムネイル** (`%s`)\n", videoID))
	for _, thumbnail := range thumbnails {
		builder.WriteString(fmt.Sprintf("• %s: %s\n", thumbnail.Quality, thumbnail.URL))
	}
	return builder.String()
}

// truncate は、メッセージをDiscordの制限に収めます
func (h *ResponseHandler) truncate(message string) string {
	chunks := h.splitMessage(message)
	return chunks[0]
}

// splitMessage は、長いメッセージをDiscordの制限に合わせて分割します
func (h *ResponseHandler) splitMessage(message string) []string {
	if len(message) <= DiscordMessageLimit {
		return []string{message}
	}

	var chunks []string
	remaining := message

	for len(remaining) > 0 {
		if len(remaining) <= DiscordMessageLimit {
			chunks = append(chunks, remaining)
			break
		}

		// 2000バイト以内で最も近い改行位置を探す
		splitIndex := strings.LastIndexByte(remaining[:DiscordMessageLimit], '\n') + 1

		// 改行が見つからない場合は、単語の境界で分割
		if splitIndex <= 0 {
			splitIndex = strings.LastIndexByte(remaining[:DiscordMessageLimit], ' ') + 1
		}

		// それでも見つからない場合は文字の境界で強制的に分割
		if splitIndex <= 0 {
			splitIndex = DiscordMessageLimit
			for splitIndex > 0 && !isRuneStart(remaining[splitIndex]) {
				splitIndex--
			}
		}

		chunks = append(chunks, remaining[:splitIndex])
		remaining = strings.TrimLeft(remaining[splitIndex:], " \n")
	}

	return chunks
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// isTimeoutError は、エラーがタイムアウトエラーかどうかを判定します
func (h *ResponseHandler) isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	errorMsg := strings.ToLower(err.Error())
	timeoutKeywords := []string{
		"timeout",
		"タイムアウト",
		"deadline exceeded",
		"context deadline",
	}

	for _, keyword := range timeoutKeywords {
		if strings.Contains(errorMsg, keyword) {
			return true
		}
	}
	return false
}

// formatError は、エラーを適切なメッセージにフォーマットします
func (h *ResponseHandler) formatError(err error) string {
	if h.isTimeoutError(err) {
		return "⏰ **タイムアウトしました**\n\n処理に時間がかかりすぎました。以下の対処法をお試しください：\n\n" +
			"- プロンプトを短くしてみる\n" +
			"- しばらく待ってから再度お試しください"
	}

	switch {
	case errors.Is(err, ErrRateLimited):
		return "⚠️ **レート制限を超過しました**\nしばらく待ってから再度お試しください。"
	case errors.Is(err, domain.ErrNoEditorSession):
		return "📝 **編集中のデザインがありません**\n`/design` でデザインを生成するか、`/open` で保存済みのデザインを開いてください。"
	case errors.Is(err, domain.ErrDesignNotFound):
		return "🔍 **デザインが見つかりません**\n`/designs` で保存済みのデザインを確認してください。"
	case errors.Is(err, domain.ErrLayerOutOfRange):
		return fmt.Sprintf("🔢 **レイヤー番号が範囲外です**\n%s", err.Error())
	case errors.Is(err, domain.ErrInvalidColor):
		return "🎨 **無効な色です**\n`#FF6B6B` のような16進数の色を指定してください。"
	case errors.Is(err, domain.ErrInvalidYouTubeURL):
		return "📺 **無効なYouTube URLです**\n動画のURLを指定してください。"
	case errors.Is(err, domain.ErrInvalidFormat):
		return "📐 **無効なフォーマットです**\nyoutube, instagram, quote, auto から選んでください。"
	default:
		return fmt.Sprintf("❌ **エラーが発生しました**\n%s", err.Error())
	}
}
