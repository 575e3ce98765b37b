package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"posterforge/internal/infrastructure/config"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config は、アプリケーション全体の設定を定義します
type Config struct {
	Discord config.DiscordConfig
	Gemini  config.GeminiConfig
	Bot     config.BotConfig
	Store   config.StoreConfig
	HTTP    config.HTTPConfig
	Log     config.LogConfig
}

// LoadConfig は、環境変数から設定を読み込みます
func LoadConfig() (*Config, error) {
	// .envファイルを読み込み（ファイルが存在しない場合は無視）
	if err := godotenv.Load(); err != nil {
		log.Warn(".envファイルの読み込みに失敗しました", "err", err)
	}

	config := &Config{
		Discord: config.DiscordConfig{
			BotToken: getEnvOrDefault("DISCORD_BOT_TOKEN", ""),
		},
		Gemini: config.GeminiConfig{
			APIKey:            getEnvOrDefault("GEMINI_API_KEY", ""),
			ModelName:         getEnvOrDefault("GEMINI_MODEL_NAME", "gemini-2.5-flash"),
			MaxTokens:         int32(getEnvAsIntOrDefault("GEMINI_MAX_TOKENS", 1024)),
			Temperature:       float32(getEnvAsFloatOrDefault("GEMINI_TEMPERATURE", 0.7)),
			TopP:              float32(getEnvAsFloatOrDefault("GEMINI_TOP_P", 0.9)),
			TopK:              int32(getEnvAsIntOrDefault("GEMINI_TOP_K", 40)),
			EnableEnhancement: getEnvAsBoolOrDefault("ENABLE_ENHANCEMENT", true),
		},
		Bot: config.BotConfig{
			MaxPromptLength:    getEnvAsIntOrDefault("MAX_PROMPT_LENGTH", 1000),
			RequestTimeout:     getEnvAsDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
			GenerationDelayMin: getEnvAsDurationOrDefault("GENERATION_DELAY_MIN", 0),
			GenerationDelayMax: getEnvAsDurationOrDefault("GENERATION_DELAY_MAX", 0),
			RateLimitInterval:  getEnvAsDurationOrDefault("RATE_LIMIT_INTERVAL", 5*time.Second),
			RateLimitBurst:     getEnvAsIntOrDefault("RATE_LIMIT_BURST", 3),
			SessionTTL:         getEnvAsDurationOrDefault("SESSION_TTL", time.Hour),
			SystemPrompt:       getEnvOrDefault("SYSTEM_PROMPT", ""),
		},
		Store: config.StoreConfig{
			Backend:       strings.ToLower(getEnvOrDefault("STORE_BACKEND", config.StoreBackendMemory)),
			RedisURL:      getEnvOrDefault("REDIS_URL", ""),
			MongoURI:      getEnvOrDefault("MONGO_URI", ""),
			MongoDatabase: getEnvOrDefault("MONGO_DATABASE", "posterforge"),
		},
		HTTP: config.HTTPConfig{
			Addr: getEnvOrDefault("HTTP_ADDR", ""),
		},
		Log: config.LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}

	// 必須設定の検証
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate は、設定の妥当性を検証します
func (c *Config) Validate() error {
	if c.Gemini.MaxTokens <= 0 {
		return fmt.Errorf("GEMINI_MAX_TOKENS は正の整数である必要があります")
	}

	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("GEMINI_TEMPERATURE は0以上2以下の値である必要があります")
	}

	if c.Gemini.TopP < 0 || c.Gemini.TopP > 1 {
		return fmt.Errorf("GEMINI_TOP_P は0以上1以下の値である必要があります")
	}

	if c.Gemini.TopK < 0 {
		return fmt.Errorf("GEMINI_TOP_K は0以上の整数である必要があります")
	}

	if c.Bot.MaxPromptLength <= 0 {
		return fmt.Errorf("MAX_PROMPT_LENGTH は正の整数である必要があります")
	}

	if c.Bot.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT は正の値である必要があります")
	}

	if c.Bot.GenerationDelayMin < 0 || c.Bot.GenerationDelayMin > c.Bot.GenerationDelayMax {
		return fmt.Errorf("GENERATION_DELAY_MIN は0以上 GENERATION_DELAY_MAX 以下である必要があります")
	}

	if c.Bot.RateLimitInterval <= 0 || c.Bot.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_INTERVAL と RATE_LIMIT_BURST は正の値である必要があります")
	}

	if c.Bot.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL は正の値である必要があります")
	}

	switch c.Store.Backend {
	case config.StoreBackendMemory:
	case config.StoreBackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("STORE_BACKEND が redis の場合は REDIS_URL が必要です")
		}
	case config.StoreBackendMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("STORE_BACKEND が mongo の場合は MONGO_URI が必要です")
		}
	default:
		return fmt.Errorf("STORE_BACKEND は memory, redis, mongo のいずれかである必要があります: %s", c.Store.Backend)
	}

	return nil
}

// ValidateDiscord は、Discord Botの起動に必要な設定を検証します
func (c *Config) ValidateDiscord() error {
	if c.Discord.BotToken == "" {
		return fmt.Errorf("DISCORD_BOT_TOKEN が設定されていません")
	}
	return nil
}

// EnhancementEnabled は、Geminiによるレイアウト拡張を行うかどうかを返します
func (c *Config) EnhancementEnabled() bool {
	return c.Gemini.EnableEnhancement && c.Gemini.APIKey != ""
}

// getEnvOrDefault は、環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は、環境変数を整数として取得し、存在しない場合はデフォルト値を返します
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault は、環境変数を浮動小数点数として取得し、存在しない場合はデフォルト値を返します
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault は、環境変数を時間として取得し、存在しない場合はデフォルト値を返します
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault は、環境変数を真偽値として取得し、存在しない場合はデフォルト値を返します
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
