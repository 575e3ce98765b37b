package domain

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LayoutEnhancer は、外部のテキスト生成サービスからレイアウトを取得するインターフェースです。
// 利用できない場合や応答が不正な場合は nil を返し、エラーは呼び出し元に伝えません
type LayoutEnhancer interface {
	Enhance(ctx context.Context, prompt string, format Format) *Layout
}

// NoopEnhancer は、常に nil を返すLayoutEnhancerです。拡張を無効にする場合に使用します
type NoopEnhancer struct{}

// Enhance は常に nil を返します
func (NoopEnhancer) Enhance(context.Context, string, Format) *Layout {
	return nil
}

// 拡張レイアウトの正規化に使う既定値
const (
	enhancedFontSizeYouTube = 64
	enhancedFontSizeDefault = 48
	enhancedFontWeight      = "bold"
	enhancedColor           = "#FFFFFF"
)

// enhancedCandidate は、外部サービスの応答に埋め込まれたJSONオブジェクトの候補です
type enhancedCandidate struct {
	BackgroundColor *string           `json:"backgroundColor"`
	TextElements    []enhancedElement `json:"textElements"`
}

type enhancedElement struct {
	Text       string   `json:"text"`
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	FontSize   *float64 `json:"fontSize"`
	FontFamily string   `json:"fontFamily"`
	FontWeight any      `json:"fontWeight"`
	Color      string   `json:"color"`
	Align      string   `json:"align"`
}

// ParseEnhancedLayout は、前後に説明文やコードフェンスを含みうる応答本文から
// backgroundColor と空でない textElements を持つ最初のJSONオブジェクトを探し、正規化したLayoutを返します。
// format は解決済みの具体的な形式である必要があります
func ParseEnhancedLayout(body string, format Format) (*Layout, bool) {
	if !format.IsConcrete() {
		return nil, false
	}

	for offset := 0; offset < len(body); {
		start := strings.IndexByte(body[offset:], '{')
		if start < 0 {
			break
		}
		start += offset

		var candidate enhancedCandidate
		decoder := json.NewDecoder(strings.NewReader(body[start:]))
		if err := decoder.Decode(&candidate); err == nil {
			if layout, ok := normalizeCandidate(candidate, format); ok {
				return layout, true
			}
		}
		offset = start + 1
	}
	return nil, false
}

func normalizeCandidate(candidate enhancedCandidate, format Format) (*Layout, bool) {
	if candidate.BackgroundColor == nil || strings.TrimSpace(*candidate.BackgroundColor) == "" {
		return nil, false
	}

	elements := make([]TextElement, 0, len(candidate.TextElements))
	for _, raw := range candidate.TextElements {
		if strings.TrimSpace(raw.Text) == "" {
			continue
		}
		elements = append(elements, normalizeElement(raw, format))
	}
	if len(elements) == 0 {
		return nil, false
	}

	return &Layout{
		Format:          format,
		BackgroundColor: strings.TrimSpace(*candidate.BackgroundColor),
		TextElements:    elements,
		Dimensions:      format.Dimensions(),
		Enhanced:        true,
	}, true
}

func normalizeElement(raw enhancedElement, format Format) TextElement {
	dimensions := format.Dimensions()
	centerX, centerY := format.Center()

	fontSize := enhancedFontSizeDefault
	if format == FormatYouTube {
		fontSize = enhancedFontSizeYouTube
	}
	if raw.FontSize != nil && *raw.FontSize >= 1 {
		fontSize = int(math.Round(*raw.FontSize))
	}

	element := TextElement{
		Text:       raw.Text,
		X:          coordinate(raw.X, centerX, dimensions.Width),
		Y:          coordinate(raw.Y, centerY, dimensions.Height),
		FontSize:   fontSize,
		FontFamily: FontFamilySans,
		FontWeight: fontWeightToken(raw.FontWeight),
		Color:      enhancedColor,
		Align:      AlignCenter,
	}
	if raw.FontFamily != "" {
		element.FontFamily = raw.FontFamily
	}
	if raw.Color != "" {
		element.Color = raw.Color
	}
	if align := Align(strings.ToLower(raw.Align)); align.IsValid() {
		element.Align = align
	}
	return element
}

// coordinate は座標を丸め、キャンバス内に収めます。未指定の場合は既定値を返します
func coordinate(value *float64, fallback, limit int) int {
	if value == nil || math.IsNaN(*value) {
		return fallback
	}
	return max(0, min(limit, int(math.Round(*value))))
}

// fontWeightToken は、文字列または数値のフォントウェイトをトークン文字列に変換します
func fontWeightToken(value any) string {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	case float64:
		if v > 0 {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return enhancedFontWeight
}
