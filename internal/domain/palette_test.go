package domain

import (
	"strconv"
	"testing"
)

func TestPaletteFor_Modulo(t *testing.T) {
	for v := -9; v <= 9; v++ {
		if PaletteFor(v) != PaletteFor(v+PaletteCount) {
			t.Errorf("バリエーション %d と %d のパレットが異なります", v, v+PaletteCount)
		}
		index := PaletteIndex(v)
		if index < 0 || index >= PaletteCount {
			t.Errorf("PaletteIndex(%d) = %d が範囲外です", v, index)
		}
	}

	if PaletteFor(-1).Name != "professional" {
		t.Errorf("バリエーション -1 は professional であるべきです: %s", PaletteFor(-1).Name)
	}
}

func TestPalettes_DescendingOrder(t *testing.T) {
	palettes := AllPalettes()
	if len(palettes) != PaletteCount {
		t.Fatalf("パレット数が不正です: %d", len(palettes))
	}

	for _, p := range palettes {
		for i := 1; i < len(p.FontSizes); i++ {
			if p.FontSizes[i] >= p.FontSizes[i-1] {
				t.Errorf("%s のフォントサイズが降順ではありません: %v", p.Name, p.FontSizes)
			}
		}
		// 先頭の "bold" は数値のウェイトより強調として扱われるため、数値部分のみ比較します
		previous := 0
		for _, token := range p.FontWeights {
			v, err := strconv.Atoi(token)
			if err != nil {
				continue
			}
			if previous != 0 && v >= previous {
				t.Errorf("%s のフォントウェイトが降順ではありません: %v", p.Name, p.FontWeights)
			}
			previous = v
		}
	}
}
