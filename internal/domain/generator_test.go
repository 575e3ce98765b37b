package domain

import (
	"context"
	"errors"
	"math/rand/v2"
	"reflect"
	"sync"
	"testing"
	"time"
)

// fakeEnhancer は、テスト用のLayoutEnhancerです
type fakeEnhancer struct {
	body  string
	calls int
	mu    sync.Mutex
}

func (f *fakeEnhancer) Enhance(_ context.Context, _ string, format Format) *Layout {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	layout, ok := ParseEnhancedLayout(f.body, format)
	if !ok {
		return nil
	}
	return layout
}

func TestLayoutGenerator_EmptyPrompt(t *testing.T) {
	generator := NewLayoutGenerator()

	layout, err := generator.Generate(context.Background(), "", FormatAuto, 0)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	if layout.Format != FormatInstagram {
		t.Errorf("既定のフォーマットは instagram であるべきです: %s", layout.Format)
	}
	if len(layout.TextElements) == 0 {
		t.Error("テキスト要素が空です")
	}
	if layout.Enhanced {
		t.Error("ヒューリスティックの結果に enhanced が設定されています")
	}
	if err := layout.Validate(); err != nil {
		t.Errorf("レイアウトが不変条件を満たしていません: %v", err)
	}
}

func TestLayoutGenerator_IdempotentWithColorKeyword(t *testing.T) {
	generator := NewLayoutGenerator()

	first := generator.GenerateHeuristic(`a blue "Weekend Sale" banner`, FormatAuto, 6)
	second := generator.GenerateHeuristic(`a blue "Weekend Sale" banner`, FormatAuto, 6)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("色キーワードがある場合は同一の結果になるべきです:\n%+v\n%+v", first, second)
	}
	if first.BackgroundColor != "#4ECDC4" {
		t.Errorf("背景色が不正です: %s", first.BackgroundColor)
	}
	if first.VariationIndex != 2 {
		t.Errorf("バリエーション番号が正規化されていません: %d", first.VariationIndex)
	}
}

func TestLayoutGenerator_OnlyBackgroundVariesWithoutKeyword(t *testing.T) {
	generator := NewLayoutGenerator(WithRandomSource(rand.New(rand.NewPCG(7, 7))))

	first := generator.GenerateHeuristic("abstract shapes poster", FormatYouTube, 1)
	second := generator.GenerateHeuristic("abstract shapes poster", FormatYouTube, 1)

	if !reflect.DeepEqual(first.TextElements, second.TextElements) {
		t.Errorf("テキスト要素が一致しません:\n%+v\n%+v", first.TextElements, second.TextElements)
	}
}

func TestLayoutGenerator_VariationModulo(t *testing.T) {
	generator := NewLayoutGenerator()

	for v := -4; v < 4; v++ {
		a := generator.GenerateHeuristic("red gradient poster", FormatInstagram, v)
		b := generator.GenerateHeuristic("red gradient poster", FormatInstagram, v+4)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("バリエーション %d と %d の結果が異なります", v, v+4)
		}
	}
}

func TestLayoutGenerator_UsesEnhancer(t *testing.T) {
	enhancer := &fakeEnhancer{body: `{"backgroundColor": "#101010", "textElements": [{"text": "AI"}]}`}
	generator := NewLayoutGenerator(WithEnhancer(enhancer))

	layout, err := generator.Generate(context.Background(), "a youtube thumbnail", FormatAuto, 5)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	if !layout.Enhanced {
		t.Error("拡張結果が使われていません")
	}
	if layout.Format != FormatYouTube || layout.BackgroundColor != "#101010" {
		t.Errorf("レイアウトが不正です: %+v", layout)
	}
	if layout.VariationIndex != 1 {
		t.Errorf("バリエーション番号が不正です: %d", layout.VariationIndex)
	}
	if enhancer.calls != 1 {
		t.Errorf("拡張の呼び出しは1回であるべきです: %d", enhancer.calls)
	}
}

func TestLayoutGenerator_FallsBackOnMalformedResponse(t *testing.T) {
	enhancer := &fakeEnhancer{body: "```json\n{\"backgroundColor\": \"#fff\", \"textElements\": [oops\n```"}
	generator := NewLayoutGenerator(WithEnhancer(enhancer))

	layout, err := generator.Generate(context.Background(), `a red "FALLBACK" card`, FormatInstagram, 0)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	if layout.Enhanced {
		t.Error("不正な応答なのに enhanced が設定されています")
	}
	if layout.BackgroundColor != "#FF6B6B" || layout.TextElements[0].Text != "FALLBACK" {
		t.Errorf("ヒューリスティックの結果ではありません: %+v", layout)
	}
	if enhancer.calls != 1 {
		t.Errorf("再試行は行われないはずです: %d", enhancer.calls)
	}
}

func TestLayoutGenerator_WithEnhancerDoesNotModifyOriginal(t *testing.T) {
	base := NewLayoutGenerator()
	enhancer := &fakeEnhancer{body: `{"backgroundColor": "#101010", "textElements": [{"text": "AI"}]}`}

	derived := base.WithEnhancer(enhancer)

	if layout, _ := base.Generate(context.Background(), "post", FormatAuto, 0); layout.Enhanced {
		t.Error("元のジェネレーターが変更されています")
	}
	if layout, _ := derived.Generate(context.Background(), "post", FormatAuto, 0); !layout.Enhanced {
		t.Error("派生したジェネレーターで拡張が使われていません")
	}
}

func TestLayoutGenerator_UnknownFormatTreatedAsAuto(t *testing.T) {
	generator := NewLayoutGenerator()

	layout := generator.GenerateHeuristic("video intro", Format("tiktok"), 0)
	if layout.Format != FormatYouTube {
		t.Errorf("未知のフォーマットは自動判定されるべきです: %s", layout.Format)
	}
}

func TestLayoutGenerator_CancelledDuringDelay(t *testing.T) {
	generator := NewLayoutGenerator(WithSimulatedDelay(time.Hour, time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := generator.Generate(ctx, "prompt", FormatAuto, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("キャンセルエラーが返されるべきです: %v", err)
	}
}

func TestLayoutGenerator_SimulatedDelay(t *testing.T) {
	generator := NewLayoutGenerator(WithSimulatedDelay(10*time.Millisecond, 20*time.Millisecond))

	start := time.Now()
	if _, err := generator.Generate(context.Background(), "prompt", FormatAuto, 0); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("待機時間が短すぎます: %v", elapsed)
	}
}

func TestLayoutGenerator_ConcurrentVariations(t *testing.T) {
	generator := NewLayoutGenerator()
	layouts := make([]Layout, 8)

	var wg sync.WaitGroup
	for i := range layouts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			layouts[i], _ = generator.Generate(context.Background(), "abstract shapes", FormatQuote, i)
		}(i)
	}
	wg.Wait()

	for i, layout := range layouts {
		if layout.VariationIndex != i%PaletteCount {
			t.Errorf("バリエーション %d の番号が不正です: %d", i, layout.VariationIndex)
		}
		palette := PaletteFor(i)
		if !containsString(palette.BackgroundColors[:], layout.BackgroundColor) {
			t.Errorf("バリエーション %d の背景色がパレット外です: %s", i, layout.BackgroundColor)
		}
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
