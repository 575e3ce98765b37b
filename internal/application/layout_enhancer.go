package application

import (
	"context"
	"time"

	"posterforge/internal/domain"

	"github.com/charmbracelet/log"
)

// GeminiLayoutEnhancer は、GeminiClientを使ってレイアウトを取得するdomain.LayoutEnhancerの実装です。
// 通信エラーや不正な応答はすべてログに記録して nil を返します
type GeminiLayoutEnhancer struct {
	client  GeminiClient
	builder *domain.EnhancementPromptBuilder
	options TextGenerationOptions
	timeout time.Duration
}

// NewGeminiLayoutEnhancer は新しいGeminiLayoutEnhancerインスタンスを作成します。timeout が0以下の場合は制限しません
func NewGeminiLayoutEnhancer(client GeminiClient, systemPrompt string, options TextGenerationOptions, timeout time.Duration) *GeminiLayoutEnhancer {
	return &GeminiLayoutEnhancer{
		client:  client,
		builder: domain.NewEnhancementPromptBuilder(systemPrompt),
		options: LayoutGenerationOptions(options),
		timeout: timeout,
	}
}

// Enhance は、Geminiに1回だけ問い合わせ、応答から取り出したレイアウトを返します
func (e *GeminiLayoutEnhancer) Enhance(ctx context.Context, prompt string, format domain.Format) *domain.Layout {
	if e.client == nil {
		return nil
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	response, err := e.client.GenerateText(ctx, e.builder.Build(prompt, format), e.options)
	if err != nil {
		log.Warn("レイアウト拡張に失敗しました。ヒューリスティックを使用します", "err", err)
		return nil
	}

	layout, ok := domain.ParseEnhancedLayout(response, format)
	if !ok {
		log.Warn("レイアウト拡張の応答を解析できませんでした。ヒューリスティックを使用します", "length", len(response))
		return nil
	}

	log.Debug("レイアウト拡張を使用します", "format", format, "elements", len(layout.TextElements))
	return layout
}
