package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestNewDiscordHandler(t *testing.T) {
	session := &discordgo.Session{}
	mentionHandler := NewMentionHandler(session, nil, nil, nil, nil, "bot123", NewResponseHandler())

	handler := NewDiscordHandler(session, mentionHandler, nil)

	if handler.session != session {
		t.Error("セッションが正しく設定されていません")
	}
	if handler.mentionHandler != mentionHandler {
		t.Error("MentionHandlerが正しく設定されていません")
	}
}

func TestMentionHandler_IsMentioned_WithMentions(t *testing.T) {
	handler := &MentionHandler{
		botID:       "bot123",
		botUsername: "TestBot",
	}

	// メンション配列がある場合
	message := &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content: "<@bot123> red youtube thumbnail",
			Mentions: []*discordgo.User{
				{ID: "bot123"},
			},
		},
	}

	if !handler.isMentioned(message) {
		t.Error("メンション配列での判定が失敗しました")
	}
}

func TestMentionHandler_IsMentioned_WithUsername(t *testing.T) {
	handler := &MentionHandler{
		botID:       "bot123",
		botUsername: "TestBot",
	}

	// メンション配列が空で、ユーザー名でのメンション
	message := &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content:  "@testbot blue quote",
			Mentions: []*discordgo.User{},
		},
	}

	if !handler.isMentioned(message) {
		t.Error("ユーザー名でのメンション判定が失敗しました")
	}
}

func TestMentionHandler_IsMentioned_NotMentioned(t *testing.T) {
	handler := &MentionHandler{
		botID:       "bot123",
		botUsername: "TestBot",
	}

	// メンションされていない場合
	message := &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content:  "こんにちは",
			Mentions: []*discordgo.User{},
		},
	}

	if handler.isMentioned(message) {
		t.Error("メンションされていないのに判定されました")
	}
}

func TestMentionHandler_IsMentioned_BeforeReady(t *testing.T) {
	// Readyイベント前はユーザー名が分からないため、ユーザー名でのメンションは判定しない
	handler := &MentionHandler{botID: "bot123"}

	message := &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content:  "@ こんにちは",
			Mentions: []*discordgo.User{},
		},
	}

	if handler.isMentioned(message) {
		t.Error("ユーザー名が未設定なのにメンションと判定されました")
	}
}

func TestMentionHandler_IsMentioned_DifferentBot(t *testing.T) {
	handler := &MentionHandler{
		botID:       "bot123",
		botUsername: "TestBot",
	}

	// 別のBotへのメンション
	message := &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content: "<@otherbot> こんにちは",
			Mentions: []*discordgo.User{
				{ID: "otherbot"},
			},
		},
	}

	if handler.isMentioned(message) {
		t.Error("別のBotへのメンションが誤って判定されました")
	}
}

func TestMentionHandler_ExtractUserContent(t *testing.T) {
	handler := &MentionHandler{
		botID:       "bot123",
		botUsername: "TestBot",
	}

	tests := []struct {
		name     string
		content  string
		mentions []*discordgo.User
		expected string
	}{
		{
			name:     "メンション付き",
			content:  `<@bot123> red youtube thumbnail "BIG NEWS"`,
			mentions: []*discordgo.User{{ID: "bot123"}},
			expected: `red youtube thumbnail "BIG NEWS"`,
		},
		{
			name:     "ニックネーム形式のメンション",
			content:  "<@!bot123> ocean quote",
			mentions: []*discordgo.User{{ID: "bot123"}},
			expected: "ocean quote",
		},
		{
			name:     "ユーザー名でのメンション",
			content:  "@TestBot sunset post",
			mentions: []*discordgo.User{},
			expected: "sunset post",
		},
		{
			name:     "メンションなし",
			content:  "こんにちは",
			mentions: []*discordgo.User{},
			expected: "こんにちは",
		},
		{
			name:     "前後の空白",
			content:  "  <@bot123>  こんにちは  ",
			mentions: []*discordgo.User{{ID: "bot123"}},
			expected: "こんにちは",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := &discordgo.MessageCreate{
				Message: &discordgo.Message{Content: tt.content, Mentions: tt.mentions},
			}
			if got := handler.extractUserContent(message); got != tt.expected {
				t.Errorf("期待されるコンテンツ: %s, 実際: %s", tt.expected, got)
			}
		})
	}
}

func TestMentionHandler_HandleReady(t *testing.T) {
	handler := &MentionHandler{
		botID: "bot123",
	}

	event := &discordgo.Ready{
		User: &discordgo.User{
			Username:      "TestBot",
			Discriminator: "1234",
		},
	}

	handler.handleReady(nil, event)

	if handler.botUsername != "TestBot" {
		t.Errorf("期待されるBotUsername: TestBot, 実際: %s", handler.botUsername)
	}
}

// stubMessageSource は、返信元の本文を固定で返すテスト用の実装です
type stubMessageSource struct {
	content string
	err     error
}

func (s stubMessageSource) ReferencedContent(context.Context, *discordgo.Message) (string, error) {
	return s.content, s.err
}

func TestMentionHandler_BuildPrompt(t *testing.T) {
	message := &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content:  `<@bot123> youtube thumbnail`,
			Mentions: []*discordgo.User{{ID: "bot123"}},
		},
	}

	tests := []struct {
		name     string
		source   ReferencedMessageSource
		expected string
	}{
		{"返信元なし", nil, "youtube thumbnail"},
		{"返信元あり", stubMessageSource{content: `"BIG NEWS"`}, `"BIG NEWS" youtube thumbnail`},
		{"返信元が空", stubMessageSource{}, "youtube thumbnail"},
		{"返信元の取得に失敗", stubMessageSource{err: errors.New("not found")}, "youtube thumbnail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &MentionHandler{botID: "bot123", messages: tt.source}
			if got := handler.buildPrompt(context.Background(), message); got != tt.expected {
				t.Errorf("期待されるプロンプト: %s, 実際: %s", tt.expected, got)
			}
		})
	}
}

func TestMentionHandler_CreateDesignRequest(t *testing.T) {
	handler := &MentionHandler{botID: "bot123"}

	message := &discordgo.MessageCreate{
		Message: &discordgo.Message{
			GuildID:   "guild1",
			ChannelID: "channel1",
			Author:    &discordgo.User{ID: "user1", Username: "alice"},
			Member:    &discordgo.Member{Nick: "Alice"},
		},
	}

	request := handler.createDesignRequest(message, "  red poster  ")

	if request.User.ID != "user1" || request.User.GetDisplayName() != "Alice" {
		t.Errorf("ユーザー情報が正しくありません: %+v", request.User)
	}
	if request.GuildID != "guild1" || request.ChannelID != "channel1" {
		t.Errorf("ギルドまたはチャンネルが正しくありません: %+v", request)
	}
	if request.Prompt != "red poster" {
		t.Errorf("プロンプトが正しくありません: %q", request.Prompt)
	}
	if request.Format != "" {
		t.Errorf("メンションではフォーマットを指定しないはずです: %s", request.Format)
	}
}
