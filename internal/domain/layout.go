package domain

import (
	"fmt"
	"strings"
)

// フォントファミリーの既定値
const (
	FontFamilySans  = "Arial"
	FontFamilySerif = "Georgia"
)

// Align は、アンカー点に対するテキストの水平方向の揃えを表します
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// IsValid は、Alignが既知の値かどうかを返します
func (a Align) IsValid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	}
	return false
}

// MaxCanvasSize は、描画できるキャンバスの幅と高さの上限です
const MaxCanvasSize = 4096

// Dimensions は、キャンバスのピクセルサイズを表す値オブジェクトです
type Dimensions struct {
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
}

// Validate は、幅と高さがどちらも1以上 MaxCanvasSize 以下かを検証します
func (d Dimensions) Validate() error {
	if d.Width <= 0 || d.Height <= 0 || d.Width > MaxCanvasSize || d.Height > MaxCanvasSize {
		return fmt.Errorf("%w: %dx%d (上限 %dx%d)", ErrInvalidCanvasSize, d.Width, d.Height, MaxCanvasSize, MaxCanvasSize)
	}
	return nil
}

// TextElement は、レイアウト上の1つのテキスト要素を表す値オブジェクトです。
// X, Y はアンカー点で、Alignに従ってその周囲にテキストが配置されます
type TextElement struct {
	Text       string `json:"text" bson:"text"`
	X          int    `json:"x" bson:"x"`
	Y          int    `json:"y" bson:"y"`
	FontSize   int    `json:"fontSize" bson:"font_size"`
	FontFamily string `json:"fontFamily" bson:"font_family"`
	FontWeight string `json:"fontWeight" bson:"font_weight"`
	Color      string `json:"color" bson:"color"`
	Align      Align  `json:"align" bson:"align"`
}

// Layout は、ジェネレーターが生成するデザインの構造化された記述です。
// TextElements の順序は描画順（先頭が最背面）です
type Layout struct {
	Format          Format        `json:"format" bson:"format"`
	BackgroundColor string        `json:"backgroundColor" bson:"background_color"`
	TextElements    []TextElement `json:"textElements" bson:"text_elements"`
	Dimensions      Dimensions    `json:"dimensions" bson:"dimensions"`
	VariationIndex  int           `json:"variationIndex" bson:"variation_index"`
	Enhanced        bool          `json:"enhanced" bson:"enhanced"`
}

// Clone は、TextElementsを複製したLayoutを返します
func (l Layout) Clone() Layout {
	clone := l
	clone.TextElements = append([]TextElement(nil), l.TextElements...)
	return clone
}

// Validate は、Layoutが不変条件を満たしているかを検証します。
// 外部から受け取ったLayout（保存データやAPI入力）に対して使用します
func (l Layout) Validate() error {
	if !l.Format.IsConcrete() {
		return fmt.Errorf("%w: フォーマット %q は具体的な形式ではありません", ErrInvalidLayout, l.Format)
	}
	if l.Dimensions != l.Format.Dimensions() {
		return fmt.Errorf("%w: サイズ %dx%d がフォーマット %s と一致しません",
			ErrInvalidLayout, l.Dimensions.Width, l.Dimensions.Height, l.Format)
	}
	if strings.TrimSpace(l.BackgroundColor) == "" {
		return fmt.Errorf("%w: 背景色が空です", ErrInvalidLayout)
	}
	if len(l.TextElements) == 0 {
		return fmt.Errorf("%w: テキスト要素がありません", ErrInvalidLayout)
	}
	if l.VariationIndex < 0 {
		return fmt.Errorf("%w: バリエーション番号が負です", ErrInvalidLayout)
	}
	for i, element := range l.TextElements {
		if element.Text == "" {
			return fmt.Errorf("%w: テキスト要素 %d のテキストが空です", ErrInvalidLayout, i)
		}
		if element.FontSize <= 0 {
			return fmt.Errorf("%w: テキスト要素 %d のフォントサイズが不正です", ErrInvalidLayout, i)
		}
		if !element.Align.IsValid() {
			return fmt.Errorf("%w: テキスト要素 %d の揃え %q が不正です", ErrInvalidLayout, i, element.Align)
		}
	}
	return nil
}
