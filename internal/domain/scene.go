package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// 追加するオブジェクトの既定値
const (
	newObjectX        = 100
	newObjectY        = 100
	defaultNewText    = "Your Text Here"
	newTextFontSize   = 32
	newTextColor      = "#000000"
	newTextFontWeight = "bold"
	duplicateOffset   = 10
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// SceneObject は、エディターのキャンバス上の1つのオブジェクト（レイヤー）です。
// テキストでは X, Y がアンカー点、図形では左上の座標です
type SceneObject struct {
	Kind       ObjectKind `json:"kind" bson:"kind"`
	X          int        `json:"x" bson:"x"`
	Y          int        `json:"y" bson:"y"`
	Width      int        `json:"width,omitempty" bson:"width,omitempty"`
	Height     int        `json:"height,omitempty" bson:"height,omitempty"`
	Radius     int        `json:"radius,omitempty" bson:"radius,omitempty"`
	Fill       string     `json:"fill" bson:"fill"`
	Text       string     `json:"text,omitempty" bson:"text,omitempty"`
	FontSize   int        `json:"fontSize,omitempty" bson:"font_size,omitempty"`
	FontFamily string     `json:"fontFamily,omitempty" bson:"font_family,omitempty"`
	FontWeight string     `json:"fontWeight,omitempty" bson:"font_weight,omitempty"`
	Align      Align      `json:"align,omitempty" bson:"align,omitempty"`
}

// Label は、レイヤー一覧に表示する短い名前を返します
func (o SceneObject) Label() string {
	if o.Kind != ObjectText {
		return o.Kind.DisplayName()
	}
	runes := []rune(o.Text)
	if len(runes) > 20 {
		return string(runes[:20])
	}
	return o.Text
}

// Scene は、Layoutから作られる編集可能なキャンバスの状態です。
// Objects の順序は描画順（先頭が最背面）です
type Scene struct {
	Format     Format        `json:"format" bson:"format"`
	Dimensions Dimensions    `json:"dimensions" bson:"dimensions"`
	Background string        `json:"background" bson:"background"`
	Objects    []SceneObject `json:"objects" bson:"objects"`
}

// NewSceneFromLayout は、Layoutのテキスト要素からSceneを作成します
func NewSceneFromLayout(layout Layout) *Scene {
	scene := &Scene{
		Format:     layout.Format,
		Dimensions: layout.Dimensions,
		Background: layout.BackgroundColor,
		Objects:    make([]SceneObject, 0, len(layout.TextElements)),
	}
	for _, element := range layout.TextElements {
		scene.Objects = append(scene.Objects, SceneObject{
			Kind:       ObjectText,
			X:          element.X,
			Y:          element.Y,
			Fill:       element.Color,
			Text:       element.Text,
			FontSize:   element.FontSize,
			FontFamily: element.FontFamily,
			FontWeight: element.FontWeight,
			Align:      element.Align,
		})
	}
	return scene
}

// Clone は、Objectsを複製したSceneを返します
func (s *Scene) Clone() *Scene {
	clone := *s
	clone.Objects = append([]SceneObject(nil), s.Objects...)
	return &clone
}

// AddText は、テキストオブジェクトを最前面に追加し、その番号を返します
func (s *Scene) AddText(text string) int {
	if strings.TrimSpace(text) == "" {
		text = defaultNewText
	}
	s.Objects = append(s.Objects, SceneObject{
		Kind:       ObjectText,
		X:          newObjectX,
		Y:          newObjectY,
		Fill:       newTextColor,
		Text:       text,
		FontSize:   newTextFontSize,
		FontFamily: FontFamilySans,
		FontWeight: newTextFontWeight,
		Align:      AlignLeft,
	})
	return len(s.Objects) - 1
}

// AddShape は、図形オブジェクトを最前面に追加し、その番号を返します
func (s *Scene) AddShape(kind ObjectKind) (int, error) {
	object := SceneObject{Kind: kind, X: newObjectX, Y: newObjectY}
	switch kind {
	case ObjectRectangle:
		object.Width, object.Height, object.Fill = 200, 100, "#FF6B6B"
	case ObjectCircle:
		object.Radius, object.Fill = 50, "#4ECDC4"
	case ObjectTriangle:
		object.Width, object.Height, object.Fill = 100, 100, "#45B7D1"
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidShape, kind)
	}
	s.Objects = append(s.Objects, object)
	return len(s.Objects) - 1, nil
}

// Recolor は、指定したレイヤーの塗りつぶし色を変更します
func (s *Scene) Recolor(layer int, color string) error {
	if err := s.checkLayer(layer); err != nil {
		return err
	}
	if !IsHexColor(color) {
		return fmt.Errorf("%w: %s", ErrInvalidColor, color)
	}
	s.Objects[layer].Fill = color
	return nil
}

// SetFontFamily は、指定したテキストレイヤーのフォントを変更します
func (s *Scene) SetFontFamily(layer int, family string) error {
	if err := s.checkLayer(layer); err != nil {
		return err
	}
	if s.Objects[layer].Kind != ObjectText {
		return fmt.Errorf("%w: レイヤー %d", ErrNotTextLayer, layer+1)
	}
	if !isFontFamily(family) {
		return fmt.Errorf("%w: %s", ErrInvalidFontFamily, family)
	}
	s.Objects[layer].FontFamily = family
	return nil
}

// SetBackground は、背景色を変更します。"gradient" はグラデーション背景として扱います
func (s *Scene) SetBackground(color string) error {
	if strings.EqualFold(color, "gradient") {
		s.Background = GradientBackground
		return nil
	}
	if !IsHexColor(color) {
		return fmt.Errorf("%w: %s", ErrInvalidColor, color)
	}
	s.Background = color
	return nil
}

// Duplicate は、指定したレイヤーを少しずらして最前面に複製し、複製の番号を返します
func (s *Scene) Duplicate(layer int) (int, error) {
	if err := s.checkLayer(layer); err != nil {
		return 0, err
	}
	copied := s.Objects[layer]
	copied.X += duplicateOffset
	copied.Y += duplicateOffset
	s.Objects = append(s.Objects, copied)
	return len(s.Objects) - 1, nil
}

// Delete は、指定したレイヤーを削除します
func (s *Scene) Delete(layer int) error {
	if err := s.checkLayer(layer); err != nil {
		return err
	}
	s.Objects = append(s.Objects[:layer], s.Objects[layer+1:]...)
	return nil
}

// BringForward は、指定したレイヤーを1つ前面に移動し、移動後の番号を返します
func (s *Scene) BringForward(layer int) (int, error) {
	return s.move(layer, layer+1)
}

// SendBackward は、指定したレイヤーを1つ背面に移動し、移動後の番号を返します
func (s *Scene) SendBackward(layer int) (int, error) {
	return s.move(layer, layer-1)
}

// BringToFront は、指定したレイヤーを最前面に移動し、移動後の番号を返します
func (s *Scene) BringToFront(layer int) (int, error) {
	return s.move(layer, len(s.Objects)-1)
}

// SendToBack は、指定したレイヤーを最背面に移動し、移動後の番号を返します
func (s *Scene) SendToBack(layer int) (int, error) {
	return s.move(layer, 0)
}

// move は、レイヤーを to の位置に移動します。to は範囲内に丸められます
func (s *Scene) move(layer, to int) (int, error) {
	if err := s.checkLayer(layer); err != nil {
		return 0, err
	}
	to = max(0, min(len(s.Objects)-1, to))
	if to == layer {
		return layer, nil
	}

	object := s.Objects[layer]
	s.Objects = append(s.Objects[:layer], s.Objects[layer+1:]...)
	s.Objects = append(s.Objects[:to], append([]SceneObject{object}, s.Objects[to:]...)...)
	return to, nil
}

func (s *Scene) checkLayer(layer int) error {
	if layer < 0 || layer >= len(s.Objects) {
		return fmt.Errorf("%w: %d (レイヤー数: %d)", ErrLayerOutOfRange, layer+1, len(s.Objects))
	}
	return nil
}

// IsHexColor は、色が #rgb または #rrggbb 形式かどうかを返します
func IsHexColor(color string) bool {
	return hexColorPattern.MatchString(color)
}
