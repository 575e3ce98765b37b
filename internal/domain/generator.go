package domain

import (
	"context"
	"time"
)

// LayoutGenerator は、プロンプトからデザインのレイアウトを生成するドメインサービスです。
// 内部に可変状態を持たないため、複数のゴルーチンから同時に利用できます
type LayoutGenerator struct {
	enhancer LayoutEnhancer
	random   RandomSource
	delayMin time.Duration
	delayMax time.Duration
}

// GeneratorOption は、LayoutGeneratorの設定を変更する関数です
type GeneratorOption func(*LayoutGenerator)

// WithEnhancer は、生成前に問い合わせるLayoutEnhancerを設定します
func WithEnhancer(enhancer LayoutEnhancer) GeneratorOption {
	return func(g *LayoutGenerator) {
		if enhancer != nil {
			g.enhancer = enhancer
		}
	}
}

// WithRandomSource は、背景色の選択に使う乱数源を設定します。
// *rand.Rand はゴルーチンセーフではないため、並行生成する場合は共有しないでください
func WithRandomSource(random RandomSource) GeneratorOption {
	return func(g *LayoutGenerator) {
		g.random = random
	}
}

// WithSimulatedDelay は、生成前に待機する時間の範囲を設定します。max が 0 の場合は待機しません
func WithSimulatedDelay(minDelay, maxDelay time.Duration) GeneratorOption {
	return func(g *LayoutGenerator) {
		if maxDelay < minDelay {
			maxDelay = minDelay
		}
		g.delayMin = minDelay
		g.delayMax = maxDelay
	}
}

// NewLayoutGenerator は新しいLayoutGeneratorを作成します
func NewLayoutGenerator(opts ...GeneratorOption) *LayoutGenerator {
	g := &LayoutGenerator{
		enhancer: NoopEnhancer{},
		random:   globalRandom{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.random == nil {
		g.random = globalRandom{}
	}
	return g
}

// WithEnhancer は、設定を共有しつつ別のLayoutEnhancerを使う新しいLayoutGeneratorを返します
func (g *LayoutGenerator) WithEnhancer(enhancer LayoutEnhancer) *LayoutGenerator {
	clone := *g
	if enhancer == nil {
		enhancer = NoopEnhancer{}
	}
	clone.enhancer = enhancer
	return &clone
}

// Generate は、プロンプトからレイアウトを生成します。
// 形式を解決した後、LayoutEnhancerが結果を返せばそれを使い、返さなければローカルのヒューリスティックで生成します。
// エラーを返すのは待機中に ctx がキャンセルされた場合のみです
func (g *LayoutGenerator) Generate(ctx context.Context, prompt string, format Format, variation int) (Layout, error) {
	resolved := g.resolve(prompt, format)

	if err := g.wait(ctx); err != nil {
		return Layout{}, err
	}

	if enhanced := g.enhancer.Enhance(ctx, prompt, resolved); enhanced != nil && enhanced.Format == resolved {
		layout := enhanced.Clone()
		layout.Dimensions = resolved.Dimensions()
		layout.VariationIndex = PaletteIndex(variation)
		layout.Enhanced = true
		if layout.Validate() == nil {
			return layout, nil
		}
	}

	return g.heuristic(prompt, resolved, variation), nil
}

// GenerateHeuristic は、外部サービスや待機を使わずにローカルのヒューリスティックのみでレイアウトを生成します
func (g *LayoutGenerator) GenerateHeuristic(prompt string, format Format, variation int) Layout {
	return g.heuristic(prompt, g.resolve(prompt, format), variation)
}

func (g *LayoutGenerator) resolve(prompt string, format Format) Format {
	if !format.IsConcrete() {
		format = FormatAuto
	}
	return ResolveFormat(prompt, format)
}

func (g *LayoutGenerator) heuristic(prompt string, format Format, variation int) Layout {
	palette := PaletteFor(variation)
	return Layout{
		Format:          format,
		BackgroundColor: ExtractBackgroundColor(prompt, palette.BackgroundColors[:], g.random),
		TextElements:    ExtractTextElements(prompt, format, palette),
		Dimensions:      format.Dimensions(),
		VariationIndex:  PaletteIndex(variation),
	}
}

// wait は、設定された範囲で一様にばらついた時間だけ待機します
func (g *LayoutGenerator) wait(ctx context.Context) error {
	if g.delayMax <= 0 {
		return nil
	}

	delay := g.delayMin
	if spread := g.delayMax - g.delayMin; spread > 0 {
		delay += time.Duration(g.random.IntN(int(spread) + 1))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
