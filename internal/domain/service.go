package domain

import (
	"fmt"
	"strings"
)

// EnhancementPromptBuilder は、ユーザーのプロンプトとフォーマットから
// 外部のテキスト生成サービスに送るPromptを組み立てるビジネスロジックを担当します
type EnhancementPromptBuilder struct {
	systemPrompt string
}

// NewEnhancementPromptBuilder は新しいEnhancementPromptBuilderインスタンスを作成します
func NewEnhancementPromptBuilder(systemPrompt string) *EnhancementPromptBuilder {
	if systemPrompt == "" {
		systemPrompt = "You are a graphic designer. Create a layout for a design based on the user's request and reply with JSON only."
	}

	return &EnhancementPromptBuilder{
		systemPrompt: systemPrompt,
	}
}

// Build は、プロンプトと解決済みフォーマットからPromptを生成します
func (b *EnhancementPromptBuilder) Build(userPrompt string, format Format) Prompt {
	var builder strings.Builder
	dimensions := format.Dimensions()
	centerX, centerY := format.Center()

	builder.WriteString(b.systemPrompt)
	builder.WriteString("\n\n")

	builder.WriteString("## Canvas\n")
	builder.WriteString(fmt.Sprintf("format: %s (%dx%d pixels, center %d,%d)\n", format, dimensions.Width, dimensions.Height, centerX, centerY))
	builder.WriteString(fmt.Sprintf("default font family: %s\n", format.DefaultFontFamily()))
	builder.WriteString("\n")

	builder.WriteString("## Output\n")
	builder.WriteString(`{"backgroundColor": "#RRGGBB", "textElements": [{"text": "...", "x": 0, "y": 0, "fontSize": 48, "fontFamily": "Arial", "fontWeight": "bold", "color": "#FFFFFF", "align": "center"}]}`)
	builder.WriteString("\n")
	builder.WriteString("x and y are the anchor point of each text in pixels. align is one of left, center, right.\n\n")

	builder.WriteString("## Request\n")
	builder.WriteString(userPrompt)

	return NewPrompt(builder.String())
}
