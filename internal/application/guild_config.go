package application

import (
	"context"
	"fmt"
	"slices"

	"posterforge/internal/domain"
)

// validModels は、ギルドごとに設定できるGeminiのモデルです
var validModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash",
}

// GuildConfigApplicationService は、ギルド固有の設定の管理を行うアプリケーションサービスです
type GuildConfigApplicationService struct {
	repo domain.GuildConfigManager
}

// NewGuildConfigApplicationService は新しいGuildConfigApplicationServiceインスタンスを作成します
func NewGuildConfigApplicationService(repo domain.GuildConfigManager) *GuildConfigApplicationService {
	return &GuildConfigApplicationService{
		repo: repo,
	}
}

// SetGuildAPIKey は、指定されたギルドのAPIキーを設定します
func (s *GuildConfigApplicationService) SetGuildAPIKey(ctx context.Context, guildID, apiKey, setBy string) error {
	// APIキーの形式を検証（基本的な検証）
	if apiKey == "" {
		return fmt.Errorf("APIキーが空です")
	}

	if len(apiKey) < 10 {
		return fmt.Errorf("APIキーが短すぎます")
	}

	return s.repo.SetAPIKey(ctx, guildID, apiKey, setBy)
}

// DeleteGuildAPIKey は、指定されたギルドのAPIキーを削除します
func (s *GuildConfigApplicationService) DeleteGuildAPIKey(ctx context.Context, guildID string) error {
	return s.repo.DeleteAPIKey(ctx, guildID)
}

// GetGuildConfig は、指定されたギルドの設定を取得します
func (s *GuildConfigApplicationService) GetGuildConfig(ctx context.Context, guildID string) (domain.GuildConfig, error) {
	return s.repo.GetGuildConfig(ctx, guildID)
}

// SetGuildModel は、指定されたギルドのAIモデルを設定します
func (s *GuildConfigApplicationService) SetGuildModel(ctx context.Context, guildID string, model string) error {
	if !IsValidModel(model) {
		return fmt.Errorf("無効なモデルです: %s", model)
	}

	return s.repo.SetGuildModel(ctx, guildID, model)
}

// SetDefaultFormat は、指定されたギルドの既定フォーマットを設定します。auto は既定値の解除を表します
func (s *GuildConfigApplicationService) SetDefaultFormat(ctx context.Context, guildID string, format domain.Format) error {
	if format != domain.FormatAuto && !format.IsConcrete() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidFormat, format)
	}

	return s.repo.SetDefaultFormat(ctx, guildID, format)
}

// IsValidModel は、指定されたモデルが有効かどうかを検証します
func IsValidModel(model string) bool {
	return slices.Contains(validModels, model)
}

// ValidModels は、設定できるモデルの一覧を返します
func ValidModels() []string {
	return slices.Clone(validModels)
}
