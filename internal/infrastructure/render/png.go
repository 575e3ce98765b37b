package render

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"posterforge/internal/domain"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	gradientPattern  = regexp.MustCompile(`(?i)^linear-gradient\(\s*(-?[\d.]+)deg\s*,(.+)\)$`)
	colorStopPattern = regexp.MustCompile(`(#[0-9a-fA-F]{3,6})\s*(?:([\d.]+)%)?`)
)

// fontSet は、描画に使うGoフォントです
type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
}

var loadFonts = sync.OnceValues(func() (fontSet, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fontSet{}, fmt.Errorf("フォントの読み込みに失敗: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return fontSet{}, fmt.Errorf("フォントの読み込みに失敗: %w", err)
	}
	return fontSet{regular: regular, bold: bold}, nil
})

// PNGRenderer は、Sceneをラスター画像に描画します。
// フォントファミリーはGoフォントで代替し、ウェイトのみ反映します
type PNGRenderer struct{}

// NewPNGRenderer は新しいPNGRendererインスタンスを作成します
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{}
}

// RenderPNG は、シーンをPNG形式の画像にします
func (r *PNGRenderer) RenderPNG(scene *domain.Scene) ([]byte, error) {
	dc, err := r.draw(scene)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("PNGのエンコードに失敗: %w", err)
	}
	return buf.Bytes(), nil
}

// Render は、シーンを画像にします
func (r *PNGRenderer) Render(scene *domain.Scene) (image.Image, error) {
	dc, err := r.draw(scene)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func (r *PNGRenderer) draw(scene *domain.Scene) (*gg.Context, error) {
	if scene == nil {
		return nil, fmt.Errorf("シーンが指定されていません")
	}
	if err := scene.Dimensions.Validate(); err != nil {
		return nil, err
	}
	width, height := scene.Dimensions.Width, scene.Dimensions.Height

	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(width, height)
	drawBackground(dc, scene.Background, width, height)

	faces := make(map[faceKey]font.Face)
	for _, object := range scene.Objects {
		switch object.Kind {
		case domain.ObjectText:
			drawText(dc, object, fonts, faces)
		case domain.ObjectRectangle:
			dc.DrawRectangle(float64(object.X), float64(object.Y), float64(object.Width), float64(object.Height))
			fill(dc, object.Fill)
		case domain.ObjectCircle:
			radius := float64(object.Radius)
			dc.DrawCircle(float64(object.X)+radius, float64(object.Y)+radius, radius)
			fill(dc, object.Fill)
		case domain.ObjectTriangle:
			x, y := float64(object.X), float64(object.Y)
			w, h := float64(object.Width), float64(object.Height)
			dc.MoveTo(x+w/2, y)
			dc.LineTo(x+w, y+h)
			dc.LineTo(x, y+h)
			dc.ClosePath()
			fill(dc, object.Fill)
		}
	}
	return dc, nil
}

// drawBackground は、単色またはCSSのlinear-gradient形式の背景を描画します。
// 解釈できない背景は既定の背景色で塗ります
func drawBackground(dc *gg.Context, background string, width, height int) {
	dc.DrawRectangle(0, 0, float64(width), float64(height))

	if gradient, ok := parseGradient(background, float64(width), float64(height)); ok {
		dc.SetFillStyle(gradient)
		dc.Fill()
		return
	}

	c, err := colorful.Hex(strings.TrimSpace(background))
	if err != nil {
		c, _ = colorful.Hex(domain.FallbackBackgroundColor)
	}
	dc.SetColor(c)
	dc.Fill()
}

// parseGradient は、linear-gradient(角度deg, 色 位置%, ...) を解釈します。
// 角度はCSSと同じく0degが上向きで時計回りです
func parseGradient(background string, width, height float64) (gg.Gradient, bool) {
	match := gradientPattern.FindStringSubmatch(strings.TrimSpace(background))
	if match == nil {
		return nil, false
	}
	angle, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil, false
	}

	stops := colorStopPattern.FindAllStringSubmatch(match[2], -1)
	if len(stops) < 2 {
		return nil, false
	}

	radians := angle * math.Pi / 180
	dx, dy := math.Sin(radians), -math.Cos(radians)
	half := (math.Abs(width*dx) + math.Abs(height*dy)) / 2
	cx, cy := width/2, height/2
	gradient := gg.NewLinearGradient(cx-dx*half, cy-dy*half, cx+dx*half, cy+dy*half)

	for i, stop := range stops {
		c, err := colorful.Hex(stop[1])
		if err != nil {
			return nil, false
		}
		offset := float64(i) / float64(len(stops)-1)
		if stop[2] != "" {
			if percent, err := strconv.ParseFloat(stop[2], 64); err == nil {
				offset = percent / 100
			}
		}
		gradient.AddColorStop(max(0, min(1, offset)), c)
	}
	return gradient, true
}

// fill は、現在のパスを指定色で塗ります。不正な色は黒として扱います
func fill(dc *gg.Context, hex string) {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = colorful.Color{}
	}
	dc.SetColor(c)
	dc.Fill()
}

type faceKey struct {
	bold bool
	size int
}

// drawText は、テキストをアンカー点を基準に配置して描画します
func drawText(dc *gg.Context, object domain.SceneObject, fonts fontSet, faces map[faceKey]font.Face) {
	if object.Text == "" || object.FontSize <= 0 {
		return
	}

	key := faceKey{bold: isBold(object.FontWeight), size: object.FontSize}
	face, ok := faces[key]
	if !ok {
		ttf := fonts.regular
		if key.bold {
			ttf = fonts.bold
		}
		face = truetype.NewFace(ttf, &truetype.Options{Size: float64(object.FontSize)})
		faces[key] = face
	}
	dc.SetFontFace(face)

	c, err := colorful.Hex(object.Fill)
	if err != nil {
		c = colorful.Color{R: 1, G: 1, B: 1}
	}
	dc.SetColor(c)

	dc.DrawStringAnchored(object.Text, float64(object.X), float64(object.Y), anchorX(object.Align), 0.5)
}

func anchorX(align domain.Align) float64 {
	switch align {
	case domain.AlignLeft:
		return 0
	case domain.AlignRight:
		return 1
	default:
		return 0.5
	}
}

// isBold は、フォントウェイトのトークンが太字かどうかを返します
func isBold(weight string) bool {
	switch strings.ToLower(strings.TrimSpace(weight)) {
	case "bold", "bolder":
		return true
	}
	n, err := strconv.Atoi(strings.TrimSpace(weight))
	return err == nil && n >= 600
}
