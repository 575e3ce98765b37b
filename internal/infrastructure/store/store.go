// Package store は、デザイン、サムネイル取得記録、編集セッションの保存先を提供します
package store

import (
	"context"
	"fmt"
	"time"

	"posterforge/internal/domain"
	"posterforge/internal/infrastructure/config"

	"github.com/charmbracelet/log"
)

// Backend は、デザインとサムネイル取得記録の両方を保存できる保存先です
type Backend interface {
	domain.DesignRepository
	domain.ThumbnailDownloadRepository
	Close(ctx context.Context) error
}

// Stores は、設定に従って作成した保存先の組です
type Stores struct {
	Backend  Backend
	Sessions domain.SessionStore
}

// Open は、設定されたバックエンドに接続して保存先を作成します。
// 編集セッションはRedisバックエンドではRedisに、それ以外ではメモリに保存します
func Open(ctx context.Context, storeConfig config.StoreConfig, sessionTTL time.Duration) (*Stores, error) {
	switch storeConfig.Backend {
	case config.StoreBackendMemory, "":
		log.Info("インメモリの保存先を使用します")
		return &Stores{
			Backend:  NewMemoryStore(),
			Sessions: NewMemorySessionStore(sessionTTL),
		}, nil

	case config.StoreBackendRedis:
		redisStore, err := NewRedisStore(ctx, storeConfig.RedisURL)
		if err != nil {
			return nil, err
		}
		log.Info("Redisの保存先を使用します")
		return &Stores{
			Backend:  redisStore,
			Sessions: NewRedisSessionStore(redisStore, sessionTTL),
		}, nil

	case config.StoreBackendMongo:
		mongoStore, err := NewMongoStore(ctx, storeConfig.MongoURI, storeConfig.MongoDatabase)
		if err != nil {
			return nil, err
		}
		log.Info("MongoDBの保存先を使用します", "database", storeConfig.MongoDatabase)
		return &Stores{
			Backend:  mongoStore,
			Sessions: NewMemorySessionStore(sessionTTL),
		}, nil

	default:
		return nil, fmt.Errorf("未対応の保存先です: %s", storeConfig.Backend)
	}
}

// Close は、保存先との接続を閉じます
func (s *Stores) Close(ctx context.Context) error {
	return s.Backend.Close(ctx)
}
