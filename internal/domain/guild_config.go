package domain

import (
	"context"
	"time"
)

// GuildConfig は、Discordサーバー（ギルド）固有の設定を表します
type GuildConfig struct {
	GuildID       string
	APIKey        string
	SetBy         string
	SetAt         time.Time
	Model         string
	DefaultFormat Format
}

// NewGuildConfig は新しいGuildConfigインスタンスを作成します
func NewGuildConfig(guildID, apiKey, setBy, model string) GuildConfig {
	return GuildConfig{
		GuildID:       guildID,
		APIKey:        apiKey,
		SetBy:         setBy,
		SetAt:         time.Now(),
		Model:         model,
		DefaultFormat: FormatAuto,
	}
}

// HasAPIKey は、ギルドにAPIキーが設定されているかを返します
func (c GuildConfig) HasAPIKey() bool {
	return c.APIKey != ""
}

// GuildConfigManager は、ギルド固有の設定の永続化を行うインターフェースです
type GuildConfigManager interface {
	// SetAPIKey は、指定されたギルドのAPIキーを設定します
	SetAPIKey(ctx context.Context, guildID string, apiKey string, setBy string) error

	// DeleteAPIKey は、指定されたギルドのAPIキーを削除します
	DeleteAPIKey(ctx context.Context, guildID string) error

	// GetGuildConfig は、指定されたギルドの設定を取得します。未設定の場合はゼロ値の設定を返します
	GetGuildConfig(ctx context.Context, guildID string) (GuildConfig, error)

	// SetGuildModel は、指定されたギルドのAIモデルを設定します
	SetGuildModel(ctx context.Context, guildID string, model string) error

	// SetDefaultFormat は、指定されたギルドの既定フォーマットを設定します
	SetDefaultFormat(ctx context.Context, guildID string, format Format) error
}
