package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// doubleQuotedPattern と singleQuotedPattern はエスケープや入れ子を扱いません
	doubleQuotedPattern = regexp.MustCompile(`"([^"]*)"`)
	singleQuotedPattern = regexp.MustCompile(`'([^']*)'`)

	quoteCharReplacer = strings.NewReplacer(`"`, "", `'`, "")
)

// stopWords は、キーワード抽出で除外する語です（小文字で比較）
var stopWords = map[string]struct{}{
	"with": {}, "and": {}, "the": {}, "for": {}, "this": {},
	"that": {}, "from": {}, "have": {}, "design": {},
}

const (
	minKeywordLength = 4
	titleWordCount   = 3
	subtitleEnd      = 6
)

// anchor は、テキスト要素の配置とパレット上のスタイル番号を表します
type anchor struct {
	x, y        int
	sizeIndex   int
	weightIndex int
	colorIndex  int
}

// keywordStyle は、キーワード抽出時のフォーマット別の配置ルールです
type keywordStyle struct {
	title          anchor
	subtitle       anchor
	fallback       string
	wrapTitle      bool
	subtitlePrefix string
}

var keywordStyles = map[Format]keywordStyle{
	FormatYouTube: {
		title:    anchor{x: 640, y: 200, sizeIndex: 0, weightIndex: 0, colorIndex: 0},
		subtitle: anchor{x: 640, y: 400, sizeIndex: 2, weightIndex: 1, colorIndex: 1},
		fallback: "AWESOME VIDEO",
	},
	FormatInstagram: {
		title:    anchor{x: 540, y: 400, sizeIndex: 1, weightIndex: 0, colorIndex: 0},
		subtitle: anchor{x: 540, y: 500, sizeIndex: 3, weightIndex: 1, colorIndex: 1},
		fallback: "INSTAGRAM POST",
	},
	FormatQuote: {
		title:          anchor{x: 540, y: 400, sizeIndex: 1, weightIndex: 1, colorIndex: 0},
		subtitle:       anchor{x: 540, y: 500, sizeIndex: 3, weightIndex: 2, colorIndex: 1},
		fallback:       "INSPIRATIONAL QUOTE",
		wrapTitle:      true,
		subtitlePrefix: "- ",
	},
}

// ExtractTextElements は、プロンプトからテキスト要素を抽出します。
// 引用符で囲まれた部分があればそれぞれを要素にし、なければキーワードからタイトルとサブタイトルを作ります。
// 戻り値は常に1要素以上です
func ExtractTextElements(prompt string, format Format, palette VariationPalette) []TextElement {
	if spans := extractQuotedSpans(prompt); len(spans) > 0 {
		return quotedTextElements(spans, format, palette)
	}
	return keywordTextElements(prompt, format, palette)
}

// extractQuotedSpans は、二重引用符の部分を優先し、なければ単一引用符の部分を返します。
// 各部分からは引用符文字がすべて取り除かれ、空になった部分は捨てられます
func extractQuotedSpans(prompt string) []string {
	matches := doubleQuotedPattern.FindAllString(prompt, -1)
	if len(matches) == 0 {
		matches = singleQuotedPattern.FindAllString(prompt, -1)
	}

	spans := make([]string, 0, len(matches))
	for _, match := range matches {
		if cleaned := quoteCharReplacer.Replace(match); cleaned != "" {
			spans = append(spans, cleaned)
		}
	}
	return spans
}

// quotedAnchor は、引用テキストのindex番目の配置を返します
func quotedAnchor(format Format, index int) anchor {
	if format == FormatYouTube {
		if index == 0 {
			return anchor{x: 640, y: 180, sizeIndex: 0}
		}
		return anchor{x: 640, y: 360 + (index-1)*100, sizeIndex: 2}
	}
	if index == 0 {
		return anchor{x: 540, y: 400, sizeIndex: 1}
	}
	return anchor{x: 540, y: 500 + (index-1)*80, sizeIndex: 3}
}

func quotedTextElements(spans []string, format Format, palette VariationPalette) []TextElement {
	elements := make([]TextElement, 0, len(spans))
	for i, text := range spans {
		a := quotedAnchor(format, i)
		elements = append(elements, TextElement{
			Text:       text,
			X:          a.x,
			Y:          a.y,
			FontSize:   palette.FontSizes[a.sizeIndex],
			FontFamily: format.DefaultFontFamily(),
			FontWeight: palette.FontWeights[i%len(palette.FontWeights)],
			Color:      palette.TextColors[i%len(palette.TextColors)],
			Align:      AlignCenter,
		})
	}
	return elements
}

// ExtractKeywords は、空白で区切った語から4文字以上かつストップワードでない語を順序を保って返します
func ExtractKeywords(prompt string) []string {
	var keywords []string
	for _, word := range strings.Fields(prompt) {
		if utf8.RuneCountInString(word) < minKeywordLength {
			continue
		}
		if _, stop := stopWords[strings.ToLower(word)]; stop {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

func keywordTextElements(prompt string, format Format, palette VariationPalette) []TextElement {
	style, ok := keywordStyles[format]
	if !ok {
		style = keywordStyles[FormatInstagram]
	}
	family := format.DefaultFontFamily()
	keywords := ExtractKeywords(prompt)

	title := strings.ToUpper(strings.Join(keywords[:min(len(keywords), titleWordCount)], " "))
	if title == "" {
		title = style.fallback
	}
	if style.wrapTitle {
		title = `"` + title + `"`
	}

	elements := []TextElement{newStyledElement(title, style.title, family, palette)}

	if len(keywords) > titleWordCount {
		subtitle := strings.Join(keywords[titleWordCount:min(len(keywords), subtitleEnd)], " ")
		elements = append(elements, newStyledElement(style.subtitlePrefix+subtitle, style.subtitle, family, palette))
	}
	return elements
}

func newStyledElement(text string, a anchor, family string, palette VariationPalette) TextElement {
	return TextElement{
		Text:       text,
		X:          a.x,
		Y:          a.y,
		FontSize:   palette.FontSizes[a.sizeIndex],
		FontFamily: family,
		FontWeight: palette.FontWeights[a.weightIndex],
		Color:      palette.TextColors[a.colorIndex],
		Align:      AlignCenter,
	}
}
