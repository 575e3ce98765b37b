package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"posterforge/internal/application"
	"posterforge/internal/domain"
	"posterforge/internal/infrastructure/config"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

// GeminiAPIClient は、Gemini APIとの通信を行うクライアントです
type GeminiAPIClient struct {
	client *genai.Client
	config *config.GeminiConfig
}

// DefaultGeminiConfig は、既定のGemini設定を返します
func DefaultGeminiConfig() *config.GeminiConfig {
	return &config.GeminiConfig{
		ModelName:         "gemini-2.5-flash",
		MaxTokens:         1024,
		Temperature:       0.7,
		TopP:              0.9,
		TopK:              40,
		EnableEnhancement: true,
	}
}

// NewGeminiAPIClient は新しいGeminiAPIClientインスタンスを作成します
func NewGeminiAPIClient(ctx context.Context, apiKey string, geminiConfig *config.GeminiConfig) (*GeminiAPIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("Gemini APIキーが指定されていません")
	}
	if geminiConfig == nil {
		geminiConfig = DefaultGeminiConfig()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini APIクライアントの作成に失敗: %w", err)
	}

	return &GeminiAPIClient{
		client: client,
		config: geminiConfig,
	}, nil
}

// safetySettings は、安全フィルターの設定です（中程度の制限）
var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
}

// createGenerateConfig は、オプションから生成設定を作成します。0の項目は設定値で補います
func (g *GeminiAPIClient) createGenerateConfig(options application.TextGenerationOptions) *genai.GenerateContentConfig {
	maxTokens := g.config.MaxTokens
	if options.MaxTokens > 0 {
		maxTokens = int32(options.MaxTokens)
	}
	temperature := g.config.Temperature
	if options.Temperature > 0 {
		temperature = float32(options.Temperature)
	}
	topP := g.config.TopP
	if options.TopP > 0 {
		topP = float32(options.TopP)
	}
	topK := float32(g.config.TopK)
	if options.TopK > 0 {
		topK = float32(options.TopK)
	}

	generateConfig := &genai.GenerateContentConfig{
		MaxOutputTokens:  maxTokens,
		Temperature:      &temperature,
		TopP:             &topP,
		ResponseMIMEType: options.ResponseMIMEType,
		SafetySettings:   safetySettings,
	}
	if topK > 0 {
		generateConfig.TopK = &topK
	}
	return generateConfig
}

// modelName は、オプションで指定されたモデル、なければ設定のモデルを返します
func (g *GeminiAPIClient) modelName(options application.TextGenerationOptions) string {
	if options.Model != "" {
		return options.Model
	}
	return g.config.ModelName
}

// GenerateText は、オプション付きでテキストを生成します
func (g *GeminiAPIClient) GenerateText(ctx context.Context, prompt domain.Prompt, options application.TextGenerationOptions) (string, error) {
	model := g.modelName(options)
	log.Debug("Gemini APIにテキスト生成をリクエスト中", "model", model, "length", len(prompt.Content), "mime", options.ResponseMIMEType)

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt.Content), g.createGenerateConfig(options))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("Gemini APIへのリクエストがタイムアウトしました: %w", err)
		}
		return "", fmt.Errorf("Gemini APIからの応答取得に失敗: %w", err)
	}

	return processResponse(resp)
}

// processResponse は、Gemini APIのレスポンスからテキストを取り出します
func processResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("Gemini APIから有効な応答が得られませんでした")
	}

	candidate := resp.Candidates[0]

	// FinishReasonをチェックして安全フィルターによるブロックを検出
	switch candidate.FinishReason {
	case genai.FinishReasonSafety:
		return "", fmt.Errorf("Gemini APIの安全フィルターによって応答がブロックされました")
	case genai.FinishReasonRecitation:
		return "", fmt.Errorf("Gemini APIが著作権保護された内容を検出しました")
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini APIの応答にコンテンツが含まれていません")
	}

	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			builder.WriteString(part.Text)
		}
	}

	result := builder.String()
	log.Debug("Gemini APIから応答を取得", "length", len(result), "finishReason", candidate.FinishReason)
	return result, nil
}

// Close は、Gemini APIクライアントを閉じます
func (g *GeminiAPIClient) Close() error {
	// genai.ClientにはCloseメソッドがないため、何もしない
	return nil
}
