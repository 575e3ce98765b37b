package discord

import (
	"fmt"

	"posterforge/internal/application"
	"posterforge/internal/domain"

	"github.com/bwmarrin/discordgo"
)

// slashCommands は、登録するスラッシュコマンドの定義を返します
func slashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "design",
			Description: "プロンプトからデザインを生成します",
			Options:     designOptions(true),
		},
		{
			Name:        "variations",
			Description: "同じプロンプトから複数のバリエーションを生成します",
			Options: append(designOptions(false), &discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "count",
				Description: fmt.Sprintf("生成する数（1〜%d）", application.MaxVariations),
				Required:    false,
				Choices:     countChoices(),
			}),
		},
		{
			Name:        "edit",
			Description: "編集中のデザインを変更します",
			Options:     editSubcommands(),
		},
		{
			Name:        "save",
			Description: "編集中のデザインを保存します",
		},
		{
			Name:        "designs",
			Description: "保存済みのデザインを一覧表示します",
		},
		{
			Name:        "open",
			Description: "保存済みのデザインを開いて編集します",
			Options:     []*discordgo.ApplicationCommandOption{designIDOption(true)},
		},
		{
			Name:        "export",
			Description: "デザインをPNG画像で出力します",
			Options:     []*discordgo.ApplicationCommandOption{designIDOption(false)},
		},
		{
			Name:        "delete-design",
			Description: "保存済みのデザインを削除します",
			Options:     []*discordgo.ApplicationCommandOption{designIDOption(true)},
		},
		{
			Name:        "thumbnail",
			Description: "YouTube動画のサムネイルを取得します",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "url",
					Description: "YouTube動画のURL",
					Required:    true,
				},
			},
		},
		{
			Name:        "set-api",
			Description: "このサーバー用のGemini APIキーを設定します",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "api-key",
					Description: "Gemini APIキー",
					Required:    true,
				},
			},
		},
		{
			Name:        "del-api",
			Description: "このサーバー用のGemini APIキーを削除します",
		},
		{
			Name:        "set-model",
			Description: "このサーバーで使用するAIモデルを設定します",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "model",
					Description: "使用するAIモデル",
					Required:    true,
					Choices:     modelChoices(),
				},
			},
		},
		{
			Name:        "set-format",
			Description: "このサーバーの既定のデザインフォーマットを設定します",
			Options:     []*discordgo.ApplicationCommandOption{formatOption(true)},
		},
		{
			Name:        "status",
			Description: "このサーバーの設定状況を確認します",
		},
	}
}

func designOptions(withVariation bool) []*discordgo.ApplicationCommandOption {
	options := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "prompt",
			Description: "デザインの内容（\"引用符\" で囲んだ部分はそのまま文字になります）",
			Required:    true,
		},
		formatOption(false),
	}
	if withVariation {
		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "variation",
			Description: "配色のバリエーション番号",
			Required:    false,
			Choices:     countChoices(),
		})
	}
	return options
}

func formatOption(required bool) *discordgo.ApplicationCommandOption {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(domain.AllFormats())+1)
	for _, format := range domain.AllFormats() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  format.DisplayName(),
			Value: string(format),
		})
	}
	choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
		Name:  domain.FormatAuto.DisplayName(),
		Value: string(domain.FormatAuto),
	})

	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "format",
		Description: "デザインのフォーマット",
		Required:    required,
		Choices:     choices,
	}
}

func designIDOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "id",
		Description: "デザインのID（/designs で確認できます）",
		Required:    required,
	}
}

func countChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, application.MaxVariations)
	for n := 1; n <= application.MaxVariations; n++ {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprint(n),
			Value: n,
		})
	}
	return choices
}

func modelChoices() []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, model := range application.ValidModels() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  model,
			Value: model,
		})
	}
	return choices
}

func layerOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "layer",
		Description: "レイヤー番号（/edit show で確認できます）",
		Required:    true,
	}
}

func colorOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "color",
		Description: description,
		Required:    true,
	}
}

// editSubcommands は、/editのサブコマンドを返します
func editSubcommands() []*discordgo.ApplicationCommandOption {
	shapeChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(domain.AllShapeKinds()))
	for _, kind := range domain.AllShapeKinds() {
		shapeChoices = append(shapeChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  kind.DisplayName(),
			Value: kind.String(),
		})
	}

	fontChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(domain.AllFontFamilies()))
	for _, family := range domain.AllFontFamilies() {
		fontChoices = append(fontChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  family,
			Value: family,
		})
	}

	subcommand := func(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        name,
			Description: description,
			Options:     options,
		}
	}

	return []*discordgo.ApplicationCommandOption{
		subcommand("show", "編集中のデザインとレイヤー一覧を表示します"),
		subcommand("add-text", "テキストを追加します", &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "text",
			Description: "追加するテキスト",
			Required:    false,
		}),
		subcommand("add-shape", "図形を追加します", &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "shape",
			Description: "追加する図形",
			Required:    true,
			Choices:     shapeChoices,
		}),
		subcommand("color", "レイヤーの色を変更します", layerOption(), colorOption("#RRGGBB 形式の色")),
		subcommand("font", "テキストのフォントを変更します", layerOption(), &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "family",
			Description: "フォント",
			Required:    true,
			Choices:     fontChoices,
		}),
		subcommand("background", "背景を変更します", colorOption("#RRGGBB 形式の色、または gradient")),
		subcommand("duplicate", "レイヤーを複製します", layerOption()),
		subcommand("delete", "レイヤーを削除します", layerOption()),
		subcommand("forward", "レイヤーを1つ前面に移動します", layerOption()),
		subcommand("backward", "レイヤーを1つ背面に移動します", layerOption()),
		subcommand("front", "レイヤーを最前面に移動します", layerOption()),
		subcommand("back", "レイヤーを最背面に移動します", layerOption()),
		subcommand("close", "編集を終了します"),
	}
}
