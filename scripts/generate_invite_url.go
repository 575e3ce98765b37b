package main

import (
	"fmt"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// botPermissions は、Botに必要な権限の合計です
const botPermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionEmbedLinks |
	discordgo.PermissionAttachFiles |
	discordgo.PermissionReadMessageHistory

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Warn(".envファイルの読み込みに失敗しました", "err", err)
	}

	// Bot Tokenを取得
	botToken := os.Getenv("DISCORD_BOT_TOKEN")
	if botToken == "" {
		log.Fatal("DISCORD_BOT_TOKEN が設定されていません")
	}

	// Discordセッションを作成
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		log.Fatal("Discordセッションの作成に失敗", "err", err)
	}
	defer session.Close()

	// Botの情報を取得
	user, err := session.User("@me")
	if err != nil {
		log.Fatal("Bot情報の取得に失敗", "err", err)
	}

	fmt.Printf("🤖 Bot情報:\n")
	fmt.Printf("   名前: %s\n", user.Username)
	fmt.Printf("   Client ID: %s\n", user.ID)
	fmt.Println()

	// 招待URLを生成（スラッシュコマンドを使うため applications.commands も要求する）
	inviteURL := fmt.Sprintf("https://discord.com/api/oauth2/authorize?client_id=%s&permissions=%d&scope=bot%%20applications.commands", user.ID, botPermissions)

	fmt.Printf("🔗 Bot招待URL:\n")
	fmt.Printf("   %s\n", inviteURL)
	fmt.Println()

	fmt.Printf("📋 必要な権限:\n")
	fmt.Printf("   - View Channels (%d)\n", discordgo.PermissionViewChannel)
	fmt.Printf("   - Send Messages (%d)\n", discordgo.PermissionSendMessages)
	fmt.Printf("   - Embed Links (%d)\n", discordgo.PermissionEmbedLinks)
	fmt.Printf("   - Attach Files (%d)\n", discordgo.PermissionAttachFiles)
	fmt.Printf("   - Read Message History (%d)\n", discordgo.PermissionReadMessageHistory)
	fmt.Printf("   - 合計: %d\n", botPermissions)
	fmt.Println()

	fmt.Printf("🎯 Botの使い方:\n")
	fmt.Printf("   1. チャンネルでBotをメンション: @%s youtube thumbnail \"BIG NEWS\"\n", user.Username)
	fmt.Printf("   2. /design でフォーマットやバリエーションを指定して生成\n")
	fmt.Printf("   3. /edit で編集し、/save で保存、/export でPNGを出力\n")
}
