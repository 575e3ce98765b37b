package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"posterforge/internal/application"
	"posterforge/internal/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// ReferencedMessageSource は、返信元メッセージの本文を取得するインターフェースです
type ReferencedMessageSource interface {
	ReferencedContent(ctx context.Context, msg *discordgo.Message) (string, error)
}

// mentionTimeout は、メンション1件の処理にかける最大時間です
const mentionTimeout = 2 * time.Minute

// MentionHandler は、Discordのメンション処理を担当するハンドラーです。
// メンションの本文（返信の場合は返信元の本文を前に付けたもの）をプロンプトとしてデザインを生成します
type MentionHandler struct {
	session         *discordgo.Session
	editorService   *application.EditorApplicationService
	designService   *application.DesignApplicationService
	messages        ReferencedMessageSource
	limiter         *UserRateLimiter
	botID           string
	botUsername     string
	responseHandler *ResponseHandler
}

// NewMentionHandler は新しいMentionHandlerインスタンスを作成します
func NewMentionHandler(
	session *discordgo.Session,
	editorService *application.EditorApplicationService,
	designService *application.DesignApplicationService,
	messages ReferencedMessageSource,
	limiter *UserRateLimiter,
	botID string,
	responseHandler *ResponseHandler,
) *MentionHandler {
	return &MentionHandler{
		session:         session,
		editorService:   editorService,
		designService:   designService,
		messages:        messages,
		limiter:         limiter,
		botID:           botID,
		responseHandler: responseHandler,
	}
}

// SetupHandlers は、メンション関連のイベントハンドラを設定します
func (h *MentionHandler) SetupHandlers() {
	h.session.AddHandler(h.handleMessageCreate)
	h.session.AddHandler(h.handleReady)
}

// handleReady は、Botが準備完了した際のイベントを処理します
func (h *MentionHandler) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Info("Botが準備完了しました", "user", event.User.Username)
	h.botUsername = event.User.Username
}

// handleMessageCreate は、メッセージ作成イベントを処理します
func (h *MentionHandler) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Bot自身のメッセージとBotのメッセージは無視
	if m.Author == nil || m.Author.ID == h.botID || m.Author.Bot {
		return
	}

	if !h.isMentioned(m) {
		return
	}

	log.Debug("Botへのメンションを検出", "user", m.Author.Username, "channel", m.ChannelID)

	if !h.limiter.Allow(m.Author.ID) {
		h.responseHandler.sendErrorReply(s, m.ChannelID, m.Reference(), ErrRateLimited)
		return
	}

	// 非同期でメンションを処理
	go h.processMentionAsync(s, m)
}

// isMentioned は、メッセージがBotへのメンションかどうかを判定します
func (h *MentionHandler) isMentioned(m *discordgo.MessageCreate) bool {
	for _, mention := range m.Mentions {
		if mention.ID == h.botID {
			return true
		}
	}

	// メンション配列が空の場合、コンテンツをチェック
	if len(m.Mentions) == 0 && h.botUsername != "" {
		content := strings.ToLower(m.Content)
		botMention := fmt.Sprintf("@%s", strings.ToLower(h.botUsername))
		return strings.Contains(content, botMention)
	}

	return false
}

// extractUserContent は、メンション部分を除去したユーザーのコンテンツを抽出します
func (h *MentionHandler) extractUserContent(m *discordgo.MessageCreate) string {
	content := m.Content

	for _, mention := range m.Mentions {
		content = strings.ReplaceAll(content, fmt.Sprintf("<@%s>", mention.ID), "")
		content = strings.ReplaceAll(content, fmt.Sprintf("<@!%s>", mention.ID), "")
	}
	if h.botUsername != "" {
		content = strings.ReplaceAll(content, "@"+h.botUsername, "")
	}

	return strings.TrimSpace(content)
}

// buildPrompt は、返信元の本文とメンションの本文からプロンプトを組み立てます
func (h *MentionHandler) buildPrompt(ctx context.Context, m *discordgo.MessageCreate) string {
	content := h.extractUserContent(m)
	if h.messages == nil {
		return content
	}

	referenced, err := h.messages.ReferencedContent(ctx, m.Message)
	if err != nil {
		log.Warn("返信元メッセージの取得に失敗しました", "err", err)
		return content
	}
	return strings.TrimSpace(referenced + " " + content)
}

// createDesignRequest は、Discordメッセージからデザイン依頼を作成します
func (h *MentionHandler) createDesignRequest(m *discordgo.MessageCreate, prompt string) domain.DesignRequest {
	user := domain.User{
		ID:          m.Author.ID,
		Username:    m.Author.Username,
		DisplayName: h.getDisplayName(m),
		IsBot:       m.Author.Bot,
	}
	return domain.NewDesignRequest(user, m.GuildID, m.ChannelID, prompt, "", 0)
}

// getDisplayName は、Discordメッセージから表示名を取得します
func (h *MentionHandler) getDisplayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	return m.Author.Username
}

// processMentionAsync は、メンションを非同期で処理します
func (h *MentionHandler) processMentionAsync(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), mentionTimeout)
	defer cancel()

	reference := m.Reference()
	prompt := h.buildPrompt(ctx, m)
	if prompt == "" {
		if _, err := s.ChannelMessageSendReply(m.ChannelID, "💡 デザインの内容を書いてメンションしてください。\n例: `@bot red youtube thumbnail \"BIG NEWS\"`", reference); err != nil {
			log.Error("使い方メッセージの送信に失敗", "err", err)
		}
		return
	}

	if err := s.ChannelTyping(m.ChannelID); err != nil {
		log.Debug("入力中表示に失敗", "err", err)
	}

	request := h.createDesignRequest(m, prompt)
	session, err := h.editorService.Generate(ctx, request)
	if err != nil {
		log.Error("メンションからのデザイン生成に失敗", "request", request, "err", err)
		h.responseHandler.sendErrorReply(s, m.ChannelID, reference, err)
		return
	}

	image, err := h.designService.RenderScene(session.Scene)
	if err != nil {
		log.Error("デザインの描画に失敗", "err", err)
		h.responseHandler.sendErrorReply(s, m.ChannelID, reference, err)
		return
	}

	content := h.responseHandler.formatLayout(session.Layout) + "\n`/edit` で編集、`/save` で保存できます。"
	h.responseHandler.sendDesignReply(s, m.ChannelID, reference, content, image)
}
