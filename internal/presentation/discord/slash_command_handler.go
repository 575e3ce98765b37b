package discord

import (
	"context"
	"fmt"
	"time"

	"posterforge/internal/application"
	"posterforge/internal/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// commandTimeout は、スラッシュコマンド1件の処理にかける最大時間です
const commandTimeout = 2 * time.Minute

// SlashCommandHandler は、Discordのスラッシュコマンドを処理するハンドラーです
type SlashCommandHandler struct {
	session            *discordgo.Session
	designService      *application.DesignApplicationService
	editorService      *application.EditorApplicationService
	thumbnailService   *application.ThumbnailApplicationService
	guildConfigService *application.GuildConfigApplicationService
	limiter            *UserRateLimiter
	responseHandler    *ResponseHandler
	defaultModel       string
}

// NewSlashCommandHandler は新しいSlashCommandHandlerインスタンスを作成します
func NewSlashCommandHandler(
	session *discordgo.Session,
	designService *application.DesignApplicationService,
	editorService *application.EditorApplicationService,
	thumbnailService *application.ThumbnailApplicationService,
	guildConfigService *application.GuildConfigApplicationService,
	limiter *UserRateLimiter,
	responseHandler *ResponseHandler,
	defaultModel string,
) *SlashCommandHandler {
	return &SlashCommandHandler{
		session:            session,
		designService:      designService,
		editorService:      editorService,
		thumbnailService:   thumbnailService,
		guildConfigService: guildConfigService,
		limiter:            limiter,
		responseHandler:    responseHandler,
		defaultModel:       defaultModel,
	}
}

// SetupSlashCommands は、スラッシュコマンドをグローバルコマンドとして登録します
func (h *SlashCommandHandler) SetupSlashCommands() error {
	// BotのユーザーIDを取得
	user, err := h.session.User("@me")
	if err != nil {
		return fmt.Errorf("Botユーザー情報の取得に失敗: %w", err)
	}

	for _, command := range slashCommands() {
		if _, err := h.session.ApplicationCommandCreate(user.ID, "", command); err != nil {
			return fmt.Errorf("スラッシュコマンド %s の登録に失敗: %w", command.Name, err)
		}
		log.Debug("スラッシュコマンドを登録しました", "command", command.Name)
	}

	log.Info("スラッシュコマンドを登録しました", "count", len(slashCommands()))
	return nil
}

// SetupSlashCommandHandlers は、スラッシュコマンドのハンドラーを設定します
func (h *SlashCommandHandler) SetupSlashCommandHandlers() {
	h.session.AddHandler(h.handleInteractionCreate)
}

// handleInteractionCreate は、インタラクション作成イベントを処理します
func (h *SlashCommandHandler) handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	data := i.ApplicationCommandData()
	log.Debug("スラッシュコマンドを受信", "command", data.Name, "guild", i.GuildID)

	switch data.Name {
	case "design":
		h.handleDesignCommand(ctx, s, i)
	case "variations":
		h.handleVariationsCommand(ctx, s, i)
	case "edit":
		h.handleEditCommand(ctx, s, i)
	case "save":
		h.handleSaveCommand(ctx, s, i)
	case "designs":
		h.handleDesignsCommand(ctx, s, i)
	case "open":
		h.handleOpenCommand(ctx, s, i)
	case "export":
		h.handleExportCommand(ctx, s, i)
	case "delete-design":
		h.handleDeleteDesignCommand(ctx, s, i)
	case "thumbnail":
		h.handleThumbnailCommand(ctx, s, i)
	case "set-api":
		h.handleSetAPICommand(ctx, s, i)
	case "del-api":
		h.handleDelAPICommand(ctx, s, i)
	case "set-model":
		h.handleSetModelCommand(ctx, s, i)
	case "set-format":
		h.handleSetFormatCommand(ctx, s, i)
	case "status":
		h.handleStatusCommand(ctx, s, i)
	default:
		log.Warn("未知のスラッシュコマンド", "command", data.Name)
	}
}

// handleSetAPICommand は、/set-apiコマンドを処理します
func (h *SlashCommandHandler) handleSetAPICommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireAdmin(s, i) {
		return
	}

	apiKey := stringOption(i.ApplicationCommandData().Options, "api-key")
	if apiKey == "" {
		h.respondToInteraction(s, i, "❌ APIキーが指定されていません。", true)
		return
	}

	setBy := interactionUser(i).Username
	if err := h.guildConfigService.SetGuildAPIKey(ctx, i.GuildID, apiKey, setBy); err != nil {
		log.Error("APIキーの設定に失敗", "guild", i.GuildID, "err", err)
		h.respondToInteraction(s, i, fmt.Sprintf("❌ APIキーの設定に失敗しました: %v", err), true)
		return
	}

	h.respondToInteraction(s, i, fmt.Sprintf("✅ このサーバー用のGemini APIキーを設定しました。\n設定者: %s", setBy), true)
}

// handleDelAPICommand は、/del-apiコマンドを処理します
func (h *SlashCommandHandler) handleDelAPICommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireAdmin(s, i) {
		return
	}

	if err := h.guildConfigService.DeleteGuildAPIKey(ctx, i.GuildID); err != nil {
		log.Error("APIキーの削除に失敗", "guild", i.GuildID, "err", err)
		h.respondToInteraction(s, i, fmt.Sprintf("❌ APIキーの削除に失敗しました: %v", err), true)
		return
	}

	h.respondToInteraction(s, i, "✅ このサーバー用のGemini APIキーを削除しました。\n今後はデフォルトのAPIキーを使用します。", false)
}

// handleSetModelCommand は、/set-modelコマンドを処理します
func (h *SlashCommandHandler) handleSetModelCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireAdmin(s, i) {
		return
	}

	model := stringOption(i.ApplicationCommandData().Options, "model")
	if err := h.guildConfigService.SetGuildModel(ctx, i.GuildID, model); err != nil {
		log.Error("モデルの設定に失敗", "guild", i.GuildID, "err", err)
		h.respondToInteraction(s, i, fmt.Sprintf("❌ モデルの設定に失敗しました: %v", err), true)
		return
	}

	h.respondToInteraction(s, i, fmt.Sprintf("✅ このサーバーで使用するAIモデルを %s に設定しました。\n設定者: %s", model, interactionUser(i).Username), false)
}

// handleSetFormatCommand は、/set-formatコマンドを処理します
func (h *SlashCommandHandler) handleSetFormatCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireAdmin(s, i) {
		return
	}

	format, err := domain.ParseFormat(stringOption(i.ApplicationCommandData().Options, "format"))
	if err == nil {
		err = h.guildConfigService.SetDefaultFormat(ctx, i.GuildID, format)
	}
	if err != nil {
		log.Error("既定フォーマットの設定に失敗", "guild", i.GuildID, "err", err)
		h.respondToInteraction(s, i, h.responseHandler.formatError(err), true)
		return
	}

	h.respondToInteraction(s, i, fmt.Sprintf("✅ このサーバーの既定フォーマットを %s に設定しました。", format.DisplayName()), false)
}

// handleStatusCommand は、/statusコマンドを処理します
func (h *SlashCommandHandler) handleStatusCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		h.respondToInteraction(s, i, "❌ このコマンドはサーバー内でのみ使用できます。", true)
		return
	}

	config, err := h.guildConfigService.GetGuildConfig(ctx, i.GuildID)
	if err != nil {
		log.Error("ギルド設定の取得に失敗", "guild", i.GuildID, "err", err)
		h.respondToInteraction(s, i, "❌ 設定状況の確認に失敗しました。", true)
		return
	}

	h.respondToInteraction(s, i, h.formatStatus(config), false)
}

// formatStatus は、ギルド設定の状況をメッセージにします
func (h *SlashCommandHandler) formatStatus(config domain.GuildConfig) string {
	model := config.Model
	if model == "" {
		model = h.defaultModel + "（デフォルト）"
	}

	format := config.DefaultFormat
	if format == "" {
		format = domain.FormatAuto
	}

	if config.HasAPIKey() {
		return fmt.Sprintf(`📊 **サーバー設定状況**

✅ **APIキー**: 設定済み
👤 **設定者**: %s
📅 **設定日**: %s
🤖 **使用モデル**: %s
📐 **既定フォーマット**: %s`,
			config.SetBy,
			config.SetAt.Format("2006年1月2日 15:04"),
			model,
			format.DisplayName())
	}

	return fmt.Sprintf(`📊 **サーバー設定状況**

❌ **APIキー**: 未設定（デフォルトを使用）
🤖 **使用モデル**: %s
📐 **既定フォーマット**: %s`, model, format.DisplayName())
}

// requireAdmin は、サーバーの管理者でなければエラーを応答して false を返します
func (h *SlashCommandHandler) requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.GuildID == "" {
		h.respondToInteraction(s, i, "❌ このコマンドはサーバー内でのみ使用できます。", true)
		return false
	}
	if !h.hasAdminPermission(i.Member) {
		h.respondToInteraction(s, i, "❌ このコマンドを実行するには管理者権限が必要です。", true)
		return false
	}
	return true
}

// hasAdminPermission は、メンバーが管理者権限を持っているかをチェックします
func (h *SlashCommandHandler) hasAdminPermission(member *discordgo.Member) bool {
	if member == nil {
		return false
	}

	// 管理者権限をチェック（Permissionsはint64のビットフラグ）
	return member.Permissions&discordgo.PermissionAdministrator != 0
}

// respondToInteraction は、インタラクションに即座に応答します
func (h *SlashCommandHandler) respondToInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: h.responseHandler.truncate(content),
		},
	}
	if ephemeral {
		response.Data.Flags = discordgo.MessageFlagsEphemeral
	}

	if err := s.InteractionRespond(i.Interaction, response); err != nil {
		log.Error("インタラクションへの応答に失敗", "err", err)
	}
}

// deferResponse は、時間のかかる処理の前に応答を保留します
func (h *SlashCommandHandler) deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) bool {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{},
	}
	if ephemeral {
		response.Data.Flags = discordgo.MessageFlagsEphemeral
	}

	if err := s.InteractionRespond(i.Interaction, response); err != nil {
		log.Error("インタラクションの保留に失敗", "err", err)
		return false
	}
	return true
}

// editResponse は、保留した応答を本文と添付ファイルで更新します
func (h *SlashCommandHandler) editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string, files ...*discordgo.File) {
	content = h.responseHandler.truncate(content)
	edit := &discordgo.WebhookEdit{
		Content: &content,
		Files:   files,
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		log.Error("インタラクションの応答の更新に失敗", "err", err)
	}
}

// editErrorResponse は、保留した応答をエラーメッセージで更新します
func (h *SlashCommandHandler) editErrorResponse(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	h.editResponse(s, i, h.responseHandler.formatError(err))
}

// interactionUser は、インタラクションを実行したユーザーを返します。サーバー内ではニックネームを表示名にします
func interactionUser(i *discordgo.InteractionCreate) domain.User {
	if i.Member != nil && i.Member.User != nil {
		return domain.User{
			ID:          i.Member.User.ID,
			Username:    i.Member.User.Username,
			DisplayName: i.Member.Nick,
			IsBot:       i.Member.User.Bot,
		}
	}
	if i.User != nil {
		return domain.User{ID: i.User.ID, Username: i.User.Username, IsBot: i.User.Bot}
	}
	return domain.User{}
}

// findOption は、名前でオプションを探します
func findOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, option := range options {
		if option.Name == name {
			return option
		}
	}
	return nil
}

// stringOption は、文字列オプションの値を返します。指定されていない場合は空文字を返します
func stringOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if option := findOption(options, name); option != nil {
		return option.StringValue()
	}
	return ""
}

// intOption は、整数オプションの値を返します。指定されていない場合は fallback を返します
func intOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string, fallback int) int {
	if option := findOption(options, name); option != nil {
		return int(option.IntValue())
	}
	return fallback
}
