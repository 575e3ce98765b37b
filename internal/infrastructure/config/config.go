package config

import "time"

// GeminiConfig は、Gemini API関連の設定を定義します
type GeminiConfig struct {
	APIKey            string // 空の場合はレイアウト拡張を行いません
	ModelName         string
	MaxTokens         int32
	Temperature       float32
	TopP              float32
	TopK              int32
	EnableEnhancement bool // レイアウト拡張の有効/無効
}

// BotConfig は、デザイン生成とBotの動作に関する設定を定義します
type BotConfig struct {
	MaxPromptLength    int // 最大プロンプト長（文字数）
	RequestTimeout     time.Duration
	GenerationDelayMin time.Duration
	GenerationDelayMax time.Duration
	RateLimitInterval  time.Duration // ユーザーごとのリクエスト間隔
	RateLimitBurst     int
	SessionTTL         time.Duration // 編集セッションの保持期間
	SystemPrompt       string
}

// DiscordConfig は、Discord関連の設定を定義します
type DiscordConfig struct {
	BotToken string
}

// StoreConfig は、デザインの保存先に関する設定を定義します
type StoreConfig struct {
	Backend       string // memory, redis, mongo
	RedisURL      string
	MongoURI      string
	MongoDatabase string
}

// HTTPConfig は、HTTP APIに関する設定を定義します
type HTTPConfig struct {
	Addr string // 空の場合はHTTP APIを起動しません
}

// LogConfig は、ログ出力に関する設定を定義します
type LogConfig struct {
	Level string
}

// 保存先のバックエンド
const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
	StoreBackendMongo  = "mongo"
)
