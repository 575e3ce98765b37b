package discord

import (
	"github.com/bwmarrin/discordgo"
)

// DiscordHandler は、Discordのイベントハンドラをまとめたものです
type DiscordHandler struct {
	session             *discordgo.Session
	mentionHandler      *MentionHandler
	slashCommandHandler *SlashCommandHandler
}

// NewDiscordHandler は新しいDiscordHandlerインスタンスを作成します
func NewDiscordHandler(
	session *discordgo.Session,
	mentionHandler *MentionHandler,
	slashCommandHandler *SlashCommandHandler,
) *DiscordHandler {
	return &DiscordHandler{
		session:             session,
		mentionHandler:      mentionHandler,
		slashCommandHandler: slashCommandHandler,
	}
}

// SetupHandlers は、Discordのイベントハンドラを設定します
func (h *DiscordHandler) SetupHandlers() {
	// メンションハンドラーを設定
	if h.mentionHandler != nil {
		h.mentionHandler.SetupHandlers()
	}

	// スラッシュコマンドハンドラーを設定
	if h.slashCommandHandler != nil {
		h.slashCommandHandler.SetupSlashCommandHandlers()
	}
}
