package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"posterforge/internal/domain"
)

// DiscordGuildConfigManager は、Discord用のギルド設定リポジトリのインメモリ実装です
type DiscordGuildConfigManager struct {
	configs map[string]domain.GuildConfig
	mutex   sync.RWMutex
}

// NewDiscordGuildConfigManager は新しいDiscordGuildConfigManagerインスタンスを作成します
func NewDiscordGuildConfigManager() *DiscordGuildConfigManager {
	return &DiscordGuildConfigManager{
		configs: make(map[string]domain.GuildConfig),
	}
}

// update は、ギルドの設定を取得（なければ作成）して変更を適用します
func (r *DiscordGuildConfigManager) update(ctx context.Context, guildID string, apply func(*domain.GuildConfig)) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	config, exists := r.configs[guildID]
	if !exists {
		config = domain.NewGuildConfig(guildID, "", "", "")
	}
	apply(&config)
	r.configs[guildID] = config
	return nil
}

// SetAPIKey は、指定されたギルドのAPIキーを設定します。モデルと既定フォーマットの設定は保持されます
func (r *DiscordGuildConfigManager) SetAPIKey(ctx context.Context, guildID, apiKey, setBy string) error {
	return r.update(ctx, guildID, func(config *domain.GuildConfig) {
		config.APIKey = apiKey
		config.SetBy = setBy
		config.SetAt = time.Now()
	})
}

// DeleteAPIKey は、指定されたギルドのAPIキーを削除します
func (r *DiscordGuildConfigManager) DeleteAPIKey(ctx context.Context, guildID string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	config, exists := r.configs[guildID]
	if !exists || !config.HasAPIKey() {
		return fmt.Errorf("ギルド %s のAPIキーが設定されていません", guildID)
	}

	config.APIKey = ""
	config.SetBy = ""
	r.configs[guildID] = config
	return nil
}

// GetGuildConfig は、指定されたギルドの設定を取得します。未設定の場合は既定値を返します
func (r *DiscordGuildConfigManager) GetGuildConfig(ctx context.Context, guildID string) (domain.GuildConfig, error) {
	if ctx.Err() != nil {
		return domain.GuildConfig{}, ctx.Err()
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	config, exists := r.configs[guildID]
	if !exists {
		return domain.GuildConfig{GuildID: guildID, DefaultFormat: domain.FormatAuto}, nil
	}
	return config, nil
}

// SetGuildModel は、指定されたギルドのAIモデルを設定します
func (r *DiscordGuildConfigManager) SetGuildModel(ctx context.Context, guildID string, model string) error {
	return r.update(ctx, guildID, func(config *domain.GuildConfig) {
		config.Model = model
	})
}

// SetDefaultFormat は、指定されたギルドの既定フォーマットを設定します
func (r *DiscordGuildConfigManager) SetDefaultFormat(ctx context.Context, guildID string, format domain.Format) error {
	return r.update(ctx, guildID, func(config *domain.GuildConfig) {
		config.DefaultFormat = format
	})
}
