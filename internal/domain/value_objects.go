package domain

import (
	"fmt"
	"strings"
)

// User は、デザインを依頼したユーザーの情報を表現する値オブジェクトです
type User struct {
	ID          string
	Username    string
	DisplayName string
	IsBot       bool
}

// GetDisplayName は、表示名が設定されていればそれを、なければユーザー名を返します
func (u User) GetDisplayName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Prompt は、外部のテキスト生成サービスに送信するために整形されたテキストを表現する値オブジェクトです
type Prompt struct {
	Content string
}

// NewPrompt は新しいPromptインスタンスを作成します
func NewPrompt(content string) Prompt {
	return Prompt{Content: content}
}

// IsEmpty は、プロンプトが空白のみかどうかを判定します
func (p Prompt) IsEmpty() bool {
	return strings.TrimSpace(p.Content) == ""
}

// DesignRequest は、フロントエンドから受け付けたデザイン生成の依頼を表現する値オブジェクトです。
// Format が空の場合は未指定を表し、ギルドの既定フォーマットまたは自動判定が使われます
type DesignRequest struct {
	User      User
	GuildID   string
	ChannelID string
	Prompt    string
	Format    Format
	Variation int
}

// NewDesignRequest は新しいDesignRequestインスタンスを作成します
func NewDesignRequest(user User, guildID, channelID, prompt string, format Format, variation int) DesignRequest {
	return DesignRequest{
		User:      user,
		GuildID:   guildID,
		ChannelID: channelID,
		Prompt:    strings.TrimSpace(prompt),
		Format:    format,
		Variation: variation,
	}
}

// String はDesignRequestの文字列表現を返します
func (r DesignRequest) String() string {
	return fmt.Sprintf("DesignRequest{User: %s, GuildID: %s, Format: %s, Variation: %d, Prompt: %s}",
		r.User.Username, r.GuildID, r.Format, r.Variation, r.Prompt)
}
