package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"posterforge/internal/domain"
	"posterforge/internal/infrastructure/config"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// MaxVariations は、一度に生成できるバリエーションの最大数です
const MaxVariations = domain.PaletteCount

// Renderer は、シーンを画像に変換するインターフェースです
type Renderer interface {
	// RenderPNG は、シーンをPNG形式の画像にします
	RenderPNG(scene *domain.Scene) ([]byte, error)
}

// EnhancerFactory は、APIキーとモデル名からLayoutEnhancerを作成する関数です
type EnhancerFactory func(apiKey, model string) (domain.LayoutEnhancer, error)

// DesignApplicationService は、デザインの生成と保存済みデザインの管理を制御するアプリケーションサービスです
type DesignApplicationService struct {
	generator           *domain.LayoutGenerator
	limiter             *domain.PromptLimiter
	designs             domain.DesignRepository
	renderer            Renderer
	config              *config.BotConfig
	guildConfigService  *GuildConfigApplicationService
	defaultGeminiConfig *config.GeminiConfig
	enhancerFactory     EnhancerFactory
}

// NewDesignApplicationService は新しいDesignApplicationServiceインスタンスを作成します。
// guildConfigService と enhancerFactory が nil の場合、ギルド別の設定は使用しません
func NewDesignApplicationService(
	generator *domain.LayoutGenerator,
	designs domain.DesignRepository,
	renderer Renderer,
	botConfig *config.BotConfig,
	guildConfigService *GuildConfigApplicationService,
	defaultGeminiConfig *config.GeminiConfig,
	enhancerFactory EnhancerFactory,
) (*DesignApplicationService, error) {
	if botConfig == nil {
		return nil, fmt.Errorf("BotConfigが指定されていません")
	}
	if generator == nil {
		return nil, fmt.Errorf("LayoutGeneratorが指定されていません")
	}

	return &DesignApplicationService{
		generator:           generator,
		limiter:             domain.NewPromptLimiter(botConfig.MaxPromptLength),
		designs:             designs,
		renderer:            renderer,
		config:              botConfig,
		guildConfigService:  guildConfigService,
		defaultGeminiConfig: defaultGeminiConfig,
		enhancerFactory:     enhancerFactory,
	}, nil
}

// Generate は、依頼からレイアウトを1つ生成します
func (s *DesignApplicationService) Generate(ctx context.Context, request domain.DesignRequest) (domain.Layout, error) {
	log.Info("デザインを生成中", "user", request.User.Username, "guild", request.GuildID, "format", request.Format, "variation", request.Variation)

	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	generator, format := s.resolveGuildSettings(ctx, request)
	if s.limiter.IsTruncated(request.Prompt) {
		log.Debug("プロンプトを切り詰めました", "length", len([]rune(request.Prompt)), "max", s.config.MaxPromptLength)
	}
	prompt := s.limiter.Truncate(request.Prompt)

	layout, err := generator.Generate(ctx, prompt, format, request.Variation)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Layout{}, fmt.Errorf("デザインの生成がタイムアウトしました: %w", err)
		}
		return domain.Layout{}, fmt.Errorf("デザインの生成が中断されました: %w", err)
	}

	log.Info("デザインを生成しました", "format", layout.Format, "elements", len(layout.TextElements), "enhanced", layout.Enhanced)
	return layout, nil
}

// GenerateVariations は、依頼のバリエーション番号から連続する count 個のレイアウトを並行して生成します。
// 結果はバリエーション番号の順に並びます
func (s *DesignApplicationService) GenerateVariations(ctx context.Context, request domain.DesignRequest, count int) ([]domain.Layout, error) {
	if count <= 0 || count > MaxVariations {
		return nil, fmt.Errorf("バリエーション数は1以上%d以下である必要があります: %d", MaxVariations, count)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	generator, format := s.resolveGuildSettings(ctx, request)
	prompt := s.limiter.Truncate(request.Prompt)

	layouts := make([]domain.Layout, count)
	g, gctx := errgroup.WithContext(ctx)
	for i := range layouts {
		g.Go(func() error {
			layout, err := generator.Generate(gctx, prompt, format, request.Variation+i)
			if err != nil {
				return fmt.Errorf("バリエーション %d の生成に失敗: %w", request.Variation+i, err)
			}
			layouts[i] = layout
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("バリエーションを生成しました", "count", count, "format", layouts[0].Format)
	return layouts, nil
}

// resolveGuildSettings は、ギルドの設定に応じたジェネレーターとフォーマットを返します。
// 設定の取得やクライアントの作成に失敗した場合は既定のジェネレーターを使用します
func (s *DesignApplicationService) resolveGuildSettings(ctx context.Context, request domain.DesignRequest) (*domain.LayoutGenerator, domain.Format) {
	format := request.Format
	if request.GuildID == "" || s.guildConfigService == nil {
		return s.generator, defaultFormat(format, "")
	}

	guildConfig, err := s.guildConfigService.GetGuildConfig(ctx, request.GuildID)
	if err != nil {
		log.Warn("ギルド設定の取得に失敗しました。既定の設定を使用します", "guild", request.GuildID, "err", err)
		return s.generator, defaultFormat(format, "")
	}
	format = defaultFormat(format, guildConfig.DefaultFormat)

	if s.enhancerFactory == nil {
		return s.generator, format
	}

	apiKey, model := s.guildCredentials(guildConfig)
	if apiKey == "" {
		return s.generator, format
	}

	enhancer, err := s.enhancerFactory(apiKey, model)
	if err != nil {
		log.Warn("ギルド用のGeminiクライアント作成に失敗しました。既定の設定を使用します", "guild", request.GuildID, "err", err)
		return s.generator, format
	}

	log.Debug("ギルド用の設定を使用します", "guild", request.GuildID, "model", model, "customKey", guildConfig.HasAPIKey())
	return s.generator.WithEnhancer(enhancer), format
}

// guildCredentials は、ギルド設定に応じたAPIキーとモデルを返します。
// ギルドのAPIキーもモデルも設定されていない場合は空文字を返し、既定のジェネレーターを使わせます
func (s *DesignApplicationService) guildCredentials(guildConfig domain.GuildConfig) (string, string) {
	defaultModel := ""
	defaultAPIKey := ""
	if s.defaultGeminiConfig != nil {
		defaultModel = s.defaultGeminiConfig.ModelName
		if s.defaultGeminiConfig.EnableEnhancement {
			defaultAPIKey = s.defaultGeminiConfig.APIKey
		}
	}

	model := guildConfig.Model
	if model == "" {
		model = defaultModel
	}

	if guildConfig.HasAPIKey() {
		return guildConfig.APIKey, model
	}
	if guildConfig.Model != "" && guildConfig.Model != defaultModel {
		return defaultAPIKey, model
	}
	return "", ""
}

// defaultFormat は、未指定のフォーマットをギルドの既定値または自動判定にします
func defaultFormat(requested, guildDefault domain.Format) domain.Format {
	if requested != "" {
		return requested
	}
	if guildDefault.IsConcrete() {
		return guildDefault
	}
	return domain.FormatAuto
}

// SaveDesign は、レイアウトとシーンを保存します。designID が指定されていれば既存のデザインを更新します
func (s *DesignApplicationService) SaveDesign(ctx context.Context, userID, designID, prompt string, layout domain.Layout, scene *domain.Scene) (domain.Design, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Design{}, domain.ErrInvalidUserID
	}
	if err := layout.Validate(); err != nil {
		return domain.Design{}, fmt.Errorf("デザインの保存に失敗: %w", err)
	}

	var design domain.Design
	if designID != "" {
		existing, err := s.designs.Load(ctx, userID, designID)
		if err != nil {
			return domain.Design{}, fmt.Errorf("保存済みデザインの取得に失敗: %w", err)
		}
		existing.Update(prompt, layout, scene)
		design = existing
	} else {
		design = domain.NewDesign(userID, prompt, layout, scene)
	}

	if err := s.designs.Save(ctx, design); err != nil {
		return domain.Design{}, fmt.Errorf("デザインの保存に失敗: %w", err)
	}

	log.Info("デザインを保存しました", "user", userID, "design", design.ID, "title", design.Title)
	return design, nil
}

// LoadDesign は、保存済みのデザインを取得します
func (s *DesignApplicationService) LoadDesign(ctx context.Context, userID, designID string) (domain.Design, error) {
	design, err := s.designs.Load(ctx, userID, designID)
	if err != nil {
		return domain.Design{}, fmt.Errorf("デザインの取得に失敗: %w", err)
	}
	return design, nil
}

// ListDesigns は、ユーザーの保存済みデザインを新しい順に返します
func (s *DesignApplicationService) ListDesigns(ctx context.Context, userID string) ([]domain.Design, error) {
	designs, err := s.designs.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("デザイン一覧の取得に失敗: %w", err)
	}
	return designs, nil
}

// DeleteDesign は、保存済みのデザインを削除します
func (s *DesignApplicationService) DeleteDesign(ctx context.Context, userID, designID string) error {
	if err := s.designs.Delete(ctx, userID, designID); err != nil {
		return fmt.Errorf("デザインの削除に失敗: %w", err)
	}

	log.Info("デザインを削除しました", "user", userID, "design", designID)
	return nil
}

// ExportDesign は、保存済みのデザインをPNG画像にし、ダウンロード数を1増やします
func (s *DesignApplicationService) ExportDesign(ctx context.Context, userID, designID string) ([]byte, domain.Design, error) {
	design, err := s.LoadDesign(ctx, userID, designID)
	if err != nil {
		return nil, domain.Design{}, err
	}

	image, err := s.RenderScene(design.EditableScene())
	if err != nil {
		return nil, domain.Design{}, err
	}

	if downloads, ok := s.recordDownload(ctx, userID, designID); ok {
		design.Downloads = downloads
	}
	return image, design, nil
}

// recordDownload は、ダウンロード数を1増やします。失敗はログに記録するのみで、画像の出力は妨げません
func (s *DesignApplicationService) recordDownload(ctx context.Context, userID, designID string) (int, bool) {
	downloads, err := s.designs.IncrementDownloads(ctx, userID, designID)
	if err != nil {
		log.Warn("ダウンロード数の更新に失敗しました", "design", designID, "err", err)
		return 0, false
	}
	return downloads, true
}

// RenderScene は、シーンをPNG画像にします
func (s *DesignApplicationService) RenderScene(scene *domain.Scene) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("画像の出力機能が設定されていません")
	}

	image, err := s.renderer.RenderPNG(scene)
	if err != nil {
		return nil, fmt.Errorf("画像の出力に失敗: %w", err)
	}
	return image, nil
}

// RenderLayout は、レイアウトをPNG画像にします
func (s *DesignApplicationService) RenderLayout(layout domain.Layout) ([]byte, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("画像の出力に失敗: %w", err)
	}
	return s.RenderScene(domain.NewSceneFromLayout(layout))
}
