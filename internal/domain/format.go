package domain

import (
	"fmt"
	"strings"
)

// Format は、デザインの出力形式（アスペクト）を表します
type Format string

const (
	FormatYouTube   Format = "youtube"
	FormatInstagram Format = "instagram"
	FormatQuote     Format = "quote"
	// FormatAuto は、プロンプトから形式を判定することを表します。解決後のLayoutには現れません
	FormatAuto Format = "auto"
)

// DefaultFormat は、プロンプトから形式を判定できなかった場合に使われる形式です
const DefaultFormat = FormatInstagram

// formatData は各Formatの固定データを保持します
type formatData struct {
	Dimensions  Dimensions
	DisplayName string
}

var formats = map[Format]formatData{
	FormatYouTube:   {Dimensions{Width: 1280, Height: 720}, "YouTubeサムネイル"},
	FormatInstagram: {Dimensions{Width: 1080, Height: 1080}, "Instagram投稿"},
	FormatQuote:     {Dimensions{Width: 1080, Height: 1080}, "引用カード"},
}

// formatKeywords は自動判定で使うキーワードです。先に一致したカテゴリが優先されます
var formatKeywords = []struct {
	format   Format
	keywords []string
}{
	{FormatYouTube, []string{"youtube", "thumbnail", "video"}},
	{FormatInstagram, []string{"instagram", "post", "square"}},
	{FormatQuote, []string{"quote", "text", "saying"}},
}

// ParseFormat は、ユーザー入力の文字列をFormatに変換します。空文字はFormatAutoとして扱います
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" || f == FormatAuto {
		return FormatAuto, nil
	}
	if _, ok := formats[f]; !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidFormat, s)
	}
	return f, nil
}

// IsConcrete は、Formatが解決済みの具体的な形式かどうかを返します
func (f Format) IsConcrete() bool {
	_, ok := formats[f]
	return ok
}

// Dimensions は、Formatに対応するキャンバスサイズを返します。未知の形式ではゼロ値を返します
func (f Format) Dimensions() Dimensions {
	return formats[f].Dimensions
}

// Center は、キャンバスの中心座標を返します
func (f Format) Center() (int, int) {
	d := f.Dimensions()
	return d.Width / 2, d.Height / 2
}

// DefaultFontFamily は、Formatの既定フォントを返します
func (f Format) DefaultFontFamily() string {
	if f == FormatQuote {
		return FontFamilySerif
	}
	return FontFamilySans
}

// DisplayName は、Formatの日本語名を返します
func (f Format) DisplayName() string {
	if data, ok := formats[f]; ok {
		return data.DisplayName
	}
	return "自動判定"
}

// AllFormats は、すべての具体的なFormatを返します
func AllFormats() []Format {
	return []Format{FormatYouTube, FormatInstagram, FormatQuote}
}

// ResolveFormat は、要求された形式を解決します。
// FormatAuto（または空）の場合のみプロンプトを大文字小文字を区別せずに検査し、
// youtube → instagram → quote の順で最初に一致したカテゴリを返します
func ResolveFormat(prompt string, requested Format) Format {
	if requested != FormatAuto && requested != "" {
		return requested
	}

	lowerPrompt := strings.ToLower(prompt)
	for _, category := range formatKeywords {
		for _, keyword := range category.keywords {
			if strings.Contains(lowerPrompt, keyword) {
				return category.format
			}
		}
	}
	return DefaultFormat
}
