package application

import (
	"context"

	"posterforge/internal/domain"
)

// GeminiClient は、Gemini APIとの通信を行うクライアントのインターフェースです
type GeminiClient interface {
	// GenerateText は、オプションに従ってGemini APIからテキストを生成します。
	// options.Model が空の場合はクライアントの既定モデルを使用します
	GenerateText(ctx context.Context, prompt domain.Prompt, options TextGenerationOptions) (string, error)
}

// TextGenerationOptions は、テキスト生成時のオプションを定義します
type TextGenerationOptions struct {
	MaxTokens        int     `json:"max_tokens,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"`
	TopP             float64 `json:"top_p,omitempty"`
	TopK             int     `json:"top_k,omitempty"`
	Model            string  `json:"model,omitempty"`
	ResponseMIMEType string  `json:"response_mime_type,omitempty"`
}

// DefaultTextGenerationOptions は、デフォルトのテキスト生成オプションを返します
func DefaultTextGenerationOptions() TextGenerationOptions {
	return TextGenerationOptions{
		MaxTokens:   1024,
		Temperature: 0.7,
		TopP:        0.9,
		TopK:        40,
		Model:       "gemini-2.5-flash",
	}
}

// LayoutGenerationOptions は、レイアウト拡張用にJSONでの応答を要求するオプションを返します
func LayoutGenerationOptions(base TextGenerationOptions) TextGenerationOptions {
	base.ResponseMIMEType = "application/json"
	return base
}
