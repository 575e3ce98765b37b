package gemini

import (
	"context"
	"time"

	"posterforge/internal/application"
	"posterforge/internal/domain"
	"posterforge/internal/infrastructure/config"
)

// textGenerationOptions は、設定からテキスト生成オプションを作成します
func textGenerationOptions(geminiConfig *config.GeminiConfig, model string) application.TextGenerationOptions {
	if model == "" {
		model = geminiConfig.ModelName
	}
	return application.TextGenerationOptions{
		MaxTokens:   int(geminiConfig.MaxTokens),
		Temperature: float64(geminiConfig.Temperature),
		TopP:        float64(geminiConfig.TopP),
		TopK:        int(geminiConfig.TopK),
		Model:       model,
	}
}

// NewLayoutEnhancer は、既定のAPIキーを使うLayoutEnhancerを作成します。
// 拡張が無効、またはAPIキーが空の場合は domain.NoopEnhancer を返します
func NewLayoutEnhancer(ctx context.Context, geminiConfig *config.GeminiConfig, systemPrompt string, timeout time.Duration) (domain.LayoutEnhancer, error) {
	if geminiConfig == nil || !geminiConfig.EnableEnhancement || geminiConfig.APIKey == "" {
		return domain.NoopEnhancer{}, nil
	}

	client, err := NewGeminiAPIClient(ctx, geminiConfig.APIKey, geminiConfig)
	if err != nil {
		return nil, err
	}
	return application.NewGeminiLayoutEnhancer(client, systemPrompt, textGenerationOptions(geminiConfig, ""), timeout), nil
}

// NewEnhancerFactory は、ギルドごとのAPIキーとモデルでLayoutEnhancerを作成するファクトリーを返します
func NewEnhancerFactory(geminiConfig *config.GeminiConfig, systemPrompt string, timeout time.Duration) application.EnhancerFactory {
	if geminiConfig == nil {
		geminiConfig = DefaultGeminiConfig()
	}
	return func(apiKey, model string) (domain.LayoutEnhancer, error) {
		client, err := NewGeminiAPIClient(context.Background(), apiKey, geminiConfig)
		if err != nil {
			return nil, err
		}
		return application.NewGeminiLayoutEnhancer(client, systemPrompt, textGenerationOptions(geminiConfig, model), timeout), nil
	}
}
