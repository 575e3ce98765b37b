// Package cli は、posterforgeのコマンドラインインターフェースを提供します
package cli

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"posterforge/internal/application"
	"posterforge/internal/domain"
	"posterforge/internal/infrastructure/config"
	"posterforge/internal/infrastructure/gemini"
	"posterforge/internal/infrastructure/logging"
	"posterforge/internal/infrastructure/render"
	"posterforge/internal/infrastructure/store"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	appName = "posterforge"

	// defaultTimeout は、1回の生成にかける最大時間です
	defaultTimeout = 30 * time.Second
)

// CLI は、すべてのコマンドで共有する状態を保持します
type CLI struct {
	Logger  *log.Logger
	offline bool
	model   string
	timeout time.Duration
}

// New は、指定したレベルのロガーを持つCLIを作成します
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:  logging.NewLogger(w, level),
		timeout: defaultTimeout,
	}
}

// RootCommand は、すべてのサブコマンドを登録したルートコマンドを作成します
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "プロンプトからポスターやサムネイルのデザインを生成します",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetDefault(c.Logger)
		},
	}

	root.PersistentFlags().BoolVar(&c.offline, "offline", false, "Geminiを使わずヒューリスティックのみで生成する")
	root.PersistentFlags().StringVar(&c.model, "model", "", "使用するGeminiモデル（既定は GEMINI_MODEL_NAME または gemini-2.5-flash）")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", defaultTimeout, "1回の生成にかける最大時間")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.variationsCommand())
	root.AddCommand(c.thumbnailsCommand())

	return root
}

// geminiConfig は、環境変数とフラグからGeminiの設定を作成します
func (c *CLI) geminiConfig() *config.GeminiConfig {
	geminiConfig := gemini.DefaultGeminiConfig()
	geminiConfig.APIKey = os.Getenv("GEMINI_API_KEY")
	if model := os.Getenv("GEMINI_MODEL_NAME"); model != "" {
		geminiConfig.ModelName = model
	}
	if c.model != "" {
		geminiConfig.ModelName = c.model
	}
	geminiConfig.EnableEnhancement = !c.offline && geminiConfig.APIKey != ""
	return geminiConfig
}

// newDesignService は、CLI用のDesignApplicationServiceを作成します。保存先はメモリです
func (c *CLI) newDesignService(ctx context.Context) (*application.DesignApplicationService, error) {
	geminiConfig := c.geminiConfig()

	enhancer, err := gemini.NewLayoutEnhancer(ctx, geminiConfig, "", c.timeout)
	if err != nil {
		return nil, err
	}
	if geminiConfig.EnableEnhancement {
		c.Logger.Debug("Geminiによるレイアウト拡張を使用します", "model", geminiConfig.ModelName)
	}

	botConfig := &config.BotConfig{
		MaxPromptLength: 1000,
		RequestTimeout:  c.timeout,
	}
	return application.NewDesignApplicationService(
		domain.NewLayoutGenerator(domain.WithEnhancer(enhancer)),
		store.NewMemoryStore(),
		render.NewPNGRenderer(),
		botConfig,
		nil,
		geminiConfig,
		nil,
	)
}

// parseFormatFlag は、--format の値を変換します。空の場合は未指定のままにします
func parseFormatFlag(value string) (domain.Format, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return domain.ParseFormat(value)
}
