package discord

import (
	"context"
	"fmt"
	"strings"

	"posterforge/internal/application"
	"posterforge/internal/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// editFooter は、デザインを生成した後に表示する案内です
const editFooter = "\n`/edit` で編集、`/save` で保存できます。"

// handleDesignCommand は、/designコマンドを処理します
func (h *SlashCommandHandler) handleDesignCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	request, err := h.designRequestFromOptions(i)
	if err != nil {
		h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
		return
	}
	if !h.limiter.Allow(request.User.ID) {
		h.respondToInteraction(s, i, h.responseHandler.formatError(ErrRateLimited), true)
		return
	}
	if !h.deferResponse(s, i, false) {
		return
	}

	session, err := h.editorService.Generate(ctx, request)
	if err != nil {
		log.Error("デザインの生成に失敗", "user", request.User.ID, "err", err)
		h.editErrorResponse(s, i, err)
		return
	}

	image, err := h.designService.RenderScene(session.Scene)
	if err != nil {
		h.editErrorResponse(s, i, err)
		return
	}

	h.editResponse(s, i, h.responseHandler.formatLayout(session.Layout)+editFooter, h.responseHandler.designFile(image, designFilename))
}

// handleVariationsCommand は、/variationsコマンドを処理します。
// 生成したバリエーションはすべて画像で返し、先頭のバリエーションを編集セッションに反映します
func (h *SlashCommandHandler) handleVariationsCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	request, err := h.designRequestFromOptions(i)
	if err != nil {
		h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
		return
	}
	if !h.limiter.Allow(request.User.ID) {
		h.respondToInteraction(s, i, h.responseHandler.formatError(ErrRateLimited), true)
		return
	}
	if !h.deferResponse(s, i, false) {
		return
	}

	count := intOption(i.ApplicationCommandData().Options, "count", application.MaxVariations)
	layouts, err := h.designService.GenerateVariations(ctx, request, count)
	if err != nil {
		log.Error("バリエーションの生成に失敗", "user", request.User.ID, "err", err)
		h.editErrorResponse(s, i, err)
		return
	}

	var builder strings.Builder
	files := make([]*discordgo.File, 0, len(layouts))
	for n, layout := range layouts {
		image, err := h.designService.RenderLayout(layout)
		if err != nil {
			h.editErrorResponse(s, i, err)
			return
		}
		files = append(files, h.responseHandler.designFile(image, fmt.Sprintf("variation_%d.png", n+1)))
		builder.WriteString(h.responseHandler.formatLayout(layout))
	}

	if _, err := h.editorService.Apply(ctx, request.User.ID, request.Prompt, layouts[0]); err != nil {
		log.Warn("編集セッションへの反映に失敗しました", "user", request.User.ID, "err", err)
	}

	builder.WriteString("\n1つ目のバリエーションを編集中です。別のバリエーションは `/design variation:<番号>` で選べます。")
	h.editResponse(s, i, builder.String(), files...)
}

// designRequestFromOptions は、/design と /variations のオプションからデザインの依頼を作成します。
// フォーマットが指定されていない場合は空のままにし、ギルドの既定値に任せます
func (h *SlashCommandHandler) designRequestFromOptions(i *discordgo.InteractionCreate) (domain.DesignRequest, error) {
	options := i.ApplicationCommandData().Options

	var format domain.Format
	if raw := stringOption(options, "format"); raw != "" {
		parsed, err := domain.ParseFormat(raw)
		if err != nil {
			return domain.DesignRequest{}, err
		}
		format = parsed
	}

	// バリエーション番号は1始まりで受け付ける
	variation := max(intOption(options, "variation", 1)-1, 0)

	return domain.NewDesignRequest(interactionUser(i), i.GuildID, i.ChannelID, stringOption(options, "prompt"), format, variation), nil
}

// handleEditCommand は、/editコマンドのサブコマンドを処理します
func (h *SlashCommandHandler) handleEditCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		h.respondToInteraction(s, i, "❌ サブコマンドが指定されていません。", true)
		return
	}
	userID := interactionUser(i).ID
	subcommand := options[0]

	switch subcommand.Name {
	case "show":
		session, err := h.editorService.Session(ctx, userID)
		if err != nil {
			h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
			return
		}
		h.respondWithScene(ctx, s, i, session)
	case "close":
		if err := h.editorService.Close(ctx, userID); err != nil {
			h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
			return
		}
		h.respondToInteraction(s, i, "👋 編集を終了しました。", true)
	default:
		edit, err := sceneEditFromOption(subcommand)
		if err != nil {
			h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
			return
		}
		session, err := h.editorService.Edit(ctx, userID, edit)
		if err != nil {
			h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
			return
		}
		h.respondWithScene(ctx, s, i, session)
	}
}

// respondWithScene は、編集中のシーンを画像とレイヤー一覧で応答します
func (h *SlashCommandHandler) respondWithScene(_ context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, session *domain.EditorSession) {
	if !h.deferResponse(s, i, false) {
		return
	}

	image, err := h.designService.RenderScene(session.Scene)
	if err != nil {
		h.editErrorResponse(s, i, err)
		return
	}
	h.editResponse(s, i, h.responseHandler.formatScene(session), h.responseHandler.designFile(image, designFilename))
}

// sceneEditFromOption は、/editのサブコマンドをシーンへの編集操作に変換します。
// レイヤー番号は画面上の表示と同じ1始まりで受け付けます
func sceneEditFromOption(subcommand *discordgo.ApplicationCommandInteractionDataOption) (application.SceneEdit, error) {
	options := subcommand.Options
	layer := intOption(options, "layer", 0) - 1

	switch subcommand.Name {
	case "add-text":
		text := stringOption(options, "text")
		return func(scene *domain.Scene) error {
			scene.AddText(text)
			return nil
		}, nil
	case "add-shape":
		kind := domain.ObjectKind(stringOption(options, "shape"))
		return func(scene *domain.Scene) error {
			_, err := scene.AddShape(kind)
			return err
		}, nil
	case "color":
		color := normalizeColor(stringOption(options, "color"))
		return func(scene *domain.Scene) error {
			return scene.Recolor(layer, color)
		}, nil
	case "font":
		family := stringOption(options, "family")
		return func(scene *domain.Scene) error {
			return scene.SetFontFamily(layer, family)
		}, nil
	case "background":
		color := normalizeColor(stringOption(options, "color"))
		return func(scene *domain.Scene) error {
			return scene.SetBackground(color)
		}, nil
	case "duplicate":
		return func(scene *domain.Scene) error {
			_, err := scene.Duplicate(layer)
			return err
		}, nil
	case "delete":
		return func(scene *domain.Scene) error {
			return scene.Delete(layer)
		}, nil
	case "forward":
		return layerMove(layer, (*domain.Scene).BringForward), nil
	case "backward":
		return layerMove(layer, (*domain.Scene).SendBackward), nil
	case "front":
		return layerMove(layer, (*domain.Scene).BringToFront), nil
	case "back":
		return layerMove(layer, (*domain.Scene).SendToBack), nil
	default:
		return nil, fmt.Errorf("未知の編集操作です: %s", subcommand.Name)
	}
}

func layerMove(layer int, move func(*domain.Scene, int) (int, error)) application.SceneEdit {
	return func(scene *domain.Scene) error {
		_, err := move(scene, layer)
		return err
	}
}

// normalizeColor は、先頭の # を省略した色指定を補います
func normalizeColor(color string) string {
	color = strings.TrimSpace(color)
	if color == "" || strings.HasPrefix(color, "#") || strings.EqualFold(color, "gradient") {
		return color
	}
	return "#" + color
}

// handleSaveCommand は、/saveコマンドを処理します
func (h *SlashCommandHandler) handleSaveCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	design, err := h.editorService.Save(ctx, interactionUser(i).ID)
	if err != nil {
		log.Error("デザインの保存に失敗", "user", interactionUser(i).ID, "err", err)
		h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
		return
	}

	h.respondToInteraction(s, i, fmt.Sprintf("💾 デザインを保存しました。\nID: `%s`\nタイトル: %s", design.ID, design.Title), true)
}

// handleDesignsCommand は、/designsコマンドを処理します
func (h *SlashCommandHandler) handleDesignsCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	designs, err := h.designService.ListDesigns(ctx, interactionUser(i).ID)
	if err != nil {
		log.Error("デザイン一覧の取得に失敗", "user", interactionUser(i).ID, "err", err)
		h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
		return
	}

	h.respondToInteraction(s, i, h.responseHandler.formatDesignList(designs), true)
}

// handleOpenCommand は、/openコマンドを処理します
func (h *SlashCommandHandler) handleOpenCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	designID := stringOption(i.ApplicationCommandData().Options, "id")
	session, err := h.editorService.Open(ctx, interactionUser(i).ID, designID)
	if err != nil {
		h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
		return
	}

	h.respondWithScene(ctx, s, i, session)
}

// handleExportCommand は、/exportコマンドを処理します。IDが指定されていなければ編集中のデザインを出力します
func (h *SlashCommandHandler) handleExportCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUser(i).ID
	designID := stringOption(i.ApplicationCommandData().Options, "id")

	if !h.deferResponse(s, i, false) {
		return
	}

	var (
		image []byte
		title string
		err   error
	)
	if designID != "" {
		var design domain.Design
		image, design, err = h.designService.ExportDesign(ctx, userID, designID)
		title = design.Title
	} else {
		var session *domain.EditorSession
		image, session, err = h.editorService.Export(ctx, userID)
		if session != nil {
			title = domain.DesignTitle(session.Prompt)
		}
	}
	if err != nil {
		log.Error("デザインの出力に失敗", "user", userID, "design", designID, "err", err)
		h.editErrorResponse(s, i, err)
		return
	}

	h.editResponse(s, i, fmt.Sprintf("📥 **%s**", title), h.responseHandler.designFile(image, designFilename))
}

// handleDeleteDesignCommand は、/delete-designコマンドを処理します
func (h *SlashCommandHandler) handleDeleteDesignCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	designID := stringOption(i.ApplicationCommandData().Options, "id")
	if err := h.designService.DeleteDesign(ctx, interactionUser(i).ID, designID); err != nil {
		h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
		return
	}

	h.respondToInteraction(s, i, fmt.Sprintf("🗑️ デザイン `%s` を削除しました。", designID), true)
}

// handleThumbnailCommand は、/thumbnailコマンドを処理します
func (h *SlashCommandHandler) handleThumbnailCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	videoID, thumbnails, err := h.thumbnailService.Lookup(stringOption(i.ApplicationCommandData().Options, "url"))
	if err != nil {
		h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
		return
	}

	best := thumbnails[0]
	if err := h.thumbnailService.RecordDownload(ctx, interactionUser(i).ID, videoID, best.URL); err != nil {
		log.Warn("サムネイル取得の記録に失敗しました", "video", videoID, "err", err)
	}

	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: h.responseHandler.formatThumbnails(videoID, thumbnails),
			Embeds: []*discordgo.MessageEmbed{{
				Title: best.Quality,
				URL:   best.URL,
				Image: &discordgo.MessageEmbedImage{URL: best.URL},
			}},
		},
	}
	if err := s.InteractionRespond(i.Interaction, response); err != nil {
		log.Error("インタラクションへの応答に失敗", "err", err)
	}
}
