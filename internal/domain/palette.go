package domain

// PaletteCount は、バリエーションパレットの数です
const PaletteCount = 4

// VariationPalette は、デザインのスタイルプリセットを表します。
// FontSizes と FontWeights は視覚的に強いものから順に並びます
type VariationPalette struct {
	Name             string
	DisplayName      string
	BackgroundColors [4]string
	TextColors       [4]string
	FontSizes        [4]int
	FontWeights      [4]string
}

var variationPalettes = [PaletteCount]VariationPalette{
	{
		Name:             "bold",
		DisplayName:      "大胆・ビビッド",
		BackgroundColors: [4]string{"#FF6B6B", "#6B66FF", "#66FFB8", "#FFD166"},
		TextColors:       [4]string{"#FFFFFF", "#F8F9FA", "#E9ECEF", "#DEE2E6"},
		FontSizes:        [4]int{72, 64, 56, 48},
		FontWeights:      [4]string{"bold", "900", "800", "700"},
	},
	{
		Name:             "elegant",
		DisplayName:      "エレガント・ミニマル",
		BackgroundColors: [4]string{"#212529", "#343A40", "#495057", "#6C757D"},
		TextColors:       [4]string{"#F8F9FA", "#E9ECEF", "#DEE2E6", "#CED4DA"},
		FontSizes:        [4]int{56, 48, 40, 36},
		FontWeights:      [4]string{"500", "400", "300", "200"},
	},
	{
		Name:             "colorful",
		DisplayName:      "カラフル・ポップ",
		BackgroundColors: [4]string{"#4CC9F0", "#4361EE", "#3A0CA3", "#7209B7"},
		TextColors:       [4]string{"#FFFFFF", "#F8F9FA", "#F0F0F0", "#E8E8E8"},
		FontSizes:        [4]int{64, 56, 48, 42},
		FontWeights:      [4]string{"bold", "800", "700", "600"},
	},
	{
		Name:             "professional",
		DisplayName:      "プロフェッショナル・クリーン",
		BackgroundColors: [4]string{"#FFFFFF", "#F8F9FA", "#E9ECEF", "#DEE2E6"},
		TextColors:       [4]string{"#212529", "#343A40", "#495057", "#6C757D"},
		FontSizes:        [4]int{48, 42, 36, 32},
		FontWeights:      [4]string{"600", "500", "400", "300"},
	},
}

// PaletteIndex は、任意の整数のバリエーション番号を [0, PaletteCount) に正規化します。
// 負の値も同じ剰余類のパレットに対応します
func PaletteIndex(variation int) int {
	index := variation % PaletteCount
	if index < 0 {
		index += PaletteCount
	}
	return index
}

// PaletteFor は、バリエーション番号に対応するパレットを返します
func PaletteFor(variation int) VariationPalette {
	return variationPalettes[PaletteIndex(variation)]
}

// AllPalettes は、すべてのパレットを番号順に返します
func AllPalettes() []VariationPalette {
	palettes := make([]VariationPalette, PaletteCount)
	copy(palettes, variationPalettes[:])
	return palettes
}
