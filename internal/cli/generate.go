package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"posterforge/internal/application"
	"posterforge/internal/domain"

	"github.com/spf13/cobra"
)

// generateCommand は、デザインを1つ生成するコマンドを作成します
func (c *CLI) generateCommand() *cobra.Command {
	var (
		format    string
		variation int
		output    string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "プロンプトからデザインを1つ生成します",
		Long: `プロンプトからデザインのレイアウトを生成し、PNG画像またはJSONで出力します。

"引用符" で囲んだ部分はそのままテキストになります。
youtube / instagram / quote などの語でフォーマットが自動判定されます。`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseFormatFlag(format)
			if err != nil {
				return err
			}
			if variation < 1 {
				return fmt.Errorf("--variation は1以上である必要があります: %d", variation)
			}
			request := domain.NewDesignRequest(domain.User{}, "", "", strings.Join(args, " "), parsed, variation-1)
			return c.runGenerate(cmd.Context(), cmd.OutOrStdout(), request, output, asJSON)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "フォーマット: youtube, instagram, quote, auto")
	cmd.Flags().IntVar(&variation, "variation", 1, "配色のバリエーション番号（1始まり）")
	cmd.Flags().StringVarP(&output, "output", "o", "design.png", "出力するPNGファイル")
	cmd.Flags().BoolVar(&asJSON, "json", false, "画像の代わりにレイアウトのJSONを標準出力に書き出す")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, out io.Writer, request domain.DesignRequest, output string, asJSON bool) error {
	designService, err := c.newDesignService(ctx)
	if err != nil {
		return err
	}

	layout, err := designService.Generate(ctx, request)
	if err != nil {
		return err
	}

	if asJSON {
		return writeLayoutJSON(out, layout)
	}

	if err := writePNG(designService, layout, output); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%dx%d) -> %s\n", layout.Format.DisplayName(), layout.Dimensions.Width, layout.Dimensions.Height, output)
	return nil
}

// variationsCommand は、複数のバリエーションを生成するコマンドを作成します
func (c *CLI) variationsCommand() *cobra.Command {
	var (
		format string
		count  int
		outDir string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "variations [prompt]",
		Short: "同じプロンプトから複数のバリエーションを生成します",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseFormatFlag(format)
			if err != nil {
				return err
			}
			request := domain.NewDesignRequest(domain.User{}, "", "", strings.Join(args, " "), parsed, 0)
			return c.runVariations(cmd.Context(), cmd.OutOrStdout(), request, count, outDir, asJSON)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "フォーマット: youtube, instagram, quote, auto")
	cmd.Flags().IntVarP(&count, "count", "n", application.MaxVariations, fmt.Sprintf("生成する数（1〜%d）", application.MaxVariations))
	cmd.Flags().StringVarP(&outDir, "out-dir", "d", ".", "PNGファイルを書き出すディレクトリ")
	cmd.Flags().BoolVar(&asJSON, "json", false, "画像の代わりにレイアウトのJSONを標準出力に書き出す")

	return cmd
}

func (c *CLI) runVariations(ctx context.Context, out io.Writer, request domain.DesignRequest, count int, outDir string, asJSON bool) error {
	designService, err := c.newDesignService(ctx)
	if err != nil {
		return err
	}

	layouts, err := designService.GenerateVariations(ctx, request, count)
	if err != nil {
		return err
	}

	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(layouts)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("出力先ディレクトリの作成に失敗: %w", err)
	}
	for i, layout := range layouts {
		path := filepath.Join(outDir, fmt.Sprintf("variation_%d.png", i+1))
		if err := writePNG(designService, layout, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d: %s -> %s\n", i+1, layout.BackgroundColor, path)
	}
	return nil
}

func writeLayoutJSON(out io.Writer, layout domain.Layout) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(layout)
}

func writePNG(designService *application.DesignApplicationService, layout domain.Layout, path string) error {
	image, err := designService.RenderLayout(layout)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, image, 0o644); err != nil {
		return fmt.Errorf("%s の書き込みに失敗: %w", path, err)
	}
	return nil
}
