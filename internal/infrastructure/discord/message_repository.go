package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// DiscordMessageRepository は、Discord APIを使用して返信元のメッセージを取得します
type DiscordMessageRepository struct {
	session *discordgo.Session
}

// NewDiscordMessageRepository は新しいDiscordMessageRepositoryインスタンスを作成します
func NewDiscordMessageRepository(session *discordgo.Session) *DiscordMessageRepository {
	return &DiscordMessageRepository{
		session: session,
	}
}

// ReferencedContent は、メッセージが返信している元メッセージの本文を返します。
// 返信でない場合や本文が空の場合は空文字を返します
func (r *DiscordMessageRepository) ReferencedContent(ctx context.Context, msg *discordgo.Message) (string, error) {
	if msg.ReferencedMessage != nil {
		return strings.TrimSpace(msg.ReferencedMessage.Content), nil
	}
	if msg.MessageReference == nil || msg.MessageReference.MessageID == "" {
		return "", nil
	}

	channelID := msg.MessageReference.ChannelID
	if channelID == "" {
		channelID = msg.ChannelID
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	log.Debug("返信元のメッセージを取得中", "channel", channelID, "message", msg.MessageReference.MessageID)
	referenced, err := r.session.ChannelMessage(channelID, msg.MessageReference.MessageID)
	if err != nil {
		return "", fmt.Errorf("Discord APIからメッセージ取得に失敗: %w", err)
	}
	return strings.TrimSpace(referenced.Content), nil
}

// DisplayName は、Discordメッセージから表示名を取得します
func DisplayName(msg *discordgo.Message) string {
	// メンバー情報がある場合はニックネームを優先
	if msg.Member != nil && msg.Member.Nick != "" {
		return msg.Member.Nick
	}
	return msg.Author.Username
}
