package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"posterforge/configs"
	"posterforge/internal/application"
	"posterforge/internal/domain"
	discordInfra "posterforge/internal/infrastructure/discord"
	"posterforge/internal/infrastructure/gemini"
	"posterforge/internal/infrastructure/logging"
	"posterforge/internal/infrastructure/render"
	"posterforge/internal/infrastructure/store"
	discordPres "posterforge/internal/presentation/discord"
	"posterforge/internal/presentation/httpapi"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// services は、フロントエンドから利用するアプリケーションサービスの組です
type services struct {
	design      *application.DesignApplicationService
	editor      *application.EditorApplicationService
	thumbnail   *application.ThumbnailApplicationService
	guildConfig *application.GuildConfigApplicationService
	limiter     *discordPres.UserRateLimiter
}

func main() {
	// 設定を読み込み
	config, err := configs.LoadConfig()
	if err != nil {
		log.Fatal("設定の読み込みに失敗", "err", err)
	}
	logging.Setup(os.Stderr, config.Log.Level)

	if config.ValidateDiscord() != nil && config.HTTP.Addr == "" {
		log.Fatal("DISCORD_BOT_TOKEN と HTTP_ADDR のどちらも設定されていません")
	}

	log.Info("posterforgeを起動中...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 保存先を作成
	stores, err := store.Open(ctx, config.Store, config.Bot.SessionTTL)
	if err != nil {
		log.Fatal("保存先の作成に失敗", "err", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			log.Error("保存先のクローズに失敗", "err", err)
		}
	}()

	svc, err := newServices(ctx, config, stores)
	if err != nil {
		log.Fatal("アプリケーションサービスの作成に失敗", "err", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if config.ValidateDiscord() == nil {
		g.Go(func() error {
			return runDiscord(gctx, config, svc)
		})
	} else {
		log.Warn("DISCORD_BOT_TOKEN が設定されていないため、Discord Botは起動しません")
	}

	if config.HTTP.Addr != "" {
		server := httpapi.NewServer(svc.design, svc.thumbnail, svc.limiter)
		g.Go(func() error {
			return server.ListenAndServe(gctx, config.HTTP.Addr)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("posterforgeが異常終了しました", "err", err)
		os.Exit(1)
	}
	log.Info("posterforgeが正常に停止しました。")
}

// newServices は、設定に従ってアプリケーションサービスを組み立てます
func newServices(ctx context.Context, config *configs.Config, stores *store.Stores) (*services, error) {
	// 既定のLayoutEnhancerを作成
	enhancer, err := gemini.NewLayoutEnhancer(ctx, &config.Gemini, config.Bot.SystemPrompt, config.Bot.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの作成に失敗: %w", err)
	}
	if config.EnhancementEnabled() {
		log.Info("Geminiによるレイアウト拡張を有効にしました", "model", config.Gemini.ModelName)
	}

	generator := domain.NewLayoutGenerator(
		domain.WithEnhancer(enhancer),
		domain.WithSimulatedDelay(config.Bot.GenerationDelayMin, config.Bot.GenerationDelayMax),
	)

	guildConfigService := application.NewGuildConfigApplicationService(discordInfra.NewDiscordGuildConfigManager())

	designService, err := application.NewDesignApplicationService(
		generator,
		stores.Backend,
		render.NewPNGRenderer(),
		&config.Bot,
		guildConfigService,
		&config.Gemini,
		gemini.NewEnhancerFactory(&config.Gemini, config.Bot.SystemPrompt, config.Bot.RequestTimeout),
	)
	if err != nil {
		return nil, err
	}

	return &services{
		design:      designService,
		editor:      application.NewEditorApplicationService(stores.Sessions, designService),
		thumbnail:   application.NewThumbnailApplicationService(stores.Backend),
		guildConfig: guildConfigService,
		limiter:     discordPres.NewUserRateLimiter(config.Bot.RateLimitInterval, config.Bot.RateLimitBurst),
	}, nil
}

// runDiscord は、ctx がキャンセルされるまでDiscord Botを動かします
func runDiscord(ctx context.Context, config *configs.Config, svc *services) error {
	// Discordセッションを作成
	session, err := discordgo.New("Bot " + config.Discord.BotToken)
	if err != nil {
		return fmt.Errorf("Discordセッションの作成に失敗: %w", err)
	}

	// Botの情報を取得
	user, err := session.User("@me")
	if err != nil {
		return fmt.Errorf("Bot情報の取得に失敗: %w", err)
	}
	log.Info("Bot情報", "name", user.Username, "id", user.ID)

	responseHandler := discordPres.NewResponseHandler()

	mentionHandler := discordPres.NewMentionHandler(
		session,
		svc.editor,
		svc.design,
		discordInfra.NewDiscordMessageRepository(session),
		svc.limiter,
		user.ID,
		responseHandler,
	)
	slashCommandHandler := discordPres.NewSlashCommandHandler(
		session,
		svc.design,
		svc.editor,
		svc.thumbnail,
		svc.guildConfig,
		svc.limiter,
		responseHandler,
		config.Gemini.ModelName,
	)

	// スラッシュコマンドを設定
	if err := slashCommandHandler.SetupSlashCommands(); err != nil {
		return err
	}

	// Discordハンドラを設定
	handler := discordPres.NewDiscordHandler(session, mentionHandler, slashCommandHandler)
	handler.SetupHandlers()

	// Discordに接続
	if err := session.Open(); err != nil {
		return fmt.Errorf("Discordへの接続に失敗: %w", err)
	}
	log.Info("Discordに接続しました。Botが準備完了しました！")

	// 終了シグナルを待機
	<-ctx.Done()
	log.Info("終了シグナルを受信しました。Botを停止中...")

	// クリーンアップ
	if err := session.Close(); err != nil {
		return fmt.Errorf("Discordセッションのクローズに失敗: %w", err)
	}
	return nil
}
