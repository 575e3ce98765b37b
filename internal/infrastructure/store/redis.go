package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"posterforge/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix        = "posterforge:"
	redisIncrementRetries = 5
)

// RedisStore は、Redisを使ったデザインとサムネイル取得記録の実装です。
// デザインはJSON文字列で保存し、ユーザーごとの一覧は作成日時をスコアとするソート済みセットで管理します
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore は、URLからRedisに接続したRedisStoreを作成します
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL の解析に失敗: %w", err)
	}

	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redisへの接続に失敗: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) designKey(userID, designID string) string {
	return redisKeyPrefix + "design:" + userID + ":" + designID
}

func (s *RedisStore) designIndexKey(userID string) string {
	return redisKeyPrefix + "designs:" + userID
}

func (s *RedisStore) thumbnailKey(userID string) string {
	return redisKeyPrefix + "thumbnails:" + userID
}

// Save は、デザインを新規作成または更新します
func (s *RedisStore) Save(ctx context.Context, design domain.Design) error {
	data, err := json.Marshal(design)
	if err != nil {
		return fmt.Errorf("デザインのエンコードに失敗: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.designKey(design.UserID, design.ID), data, 0)
		pipe.ZAdd(ctx, s.designIndexKey(design.UserID), redis.Z{
			Score:  float64(design.CreatedAt.UnixNano()),
			Member: design.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("Redisへの保存に失敗: %w", err)
	}
	return nil
}

// Load は、指定されたユーザーのデザインを取得します
func (s *RedisStore) Load(ctx context.Context, userID, designID string) (domain.Design, error) {
	data, err := s.client.Get(ctx, s.designKey(userID, designID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Design{}, domain.ErrDesignNotFound
	}
	if err != nil {
		return domain.Design{}, fmt.Errorf("Redisからの取得に失敗: %w", err)
	}
	return decodeDesign(data)
}

func decodeDesign(data []byte) (domain.Design, error) {
	var design domain.Design
	if err := json.Unmarshal(data, &design); err != nil {
		return domain.Design{}, fmt.Errorf("デザインのデコードに失敗: %w", err)
	}
	return design, nil
}

// List は、指定されたユーザーのデザインを新しい順に取得します
func (s *RedisStore) List(ctx context.Context, userID string) ([]domain.Design, error) {
	ids, err := s.client.ZRevRange(ctx, s.designIndexKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("Redisからの一覧取得に失敗: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Design{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.designKey(userID, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("Redisからの一覧取得に失敗: %w", err)
	}

	designs := make([]domain.Design, 0, len(values))
	for _, value := range values {
		data, ok := value.(string)
		if !ok {
			continue
		}
		design, err := decodeDesign([]byte(data))
		if err != nil {
			return nil, err
		}
		designs = append(designs, design)
	}
	return designs, nil
}

// Delete は、指定されたユーザーのデザインを削除します
func (s *RedisStore) Delete(ctx context.Context, userID, designID string) error {
	var deleted *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, s.designKey(userID, designID))
		pipe.ZRem(ctx, s.designIndexKey(userID), designID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("Redisからの削除に失敗: %w", err)
	}
	if deleted.Val() == 0 {
		return domain.ErrDesignNotFound
	}
	return nil
}

// IncrementDownloads は、楽観的ロックでデザインのダウンロード数を1増やします
func (s *RedisStore) IncrementDownloads(ctx context.Context, userID, designID string) (int, error) {
	key := s.designKey(userID, designID)
	var downloads int

	increment := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrDesignNotFound
		}
		if err != nil {
			return err
		}
		design, err := decodeDesign(data)
		if err != nil {
			return err
		}
		design.Downloads++
		updated, err := json.Marshal(design)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		downloads = design.Downloads
		return err
	}

	for range redisIncrementRetries {
		err := s.client.Watch(ctx, increment, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, domain.ErrDesignNotFound) {
			return 0, err
		}
		if err != nil {
			return 0, fmt.Errorf("ダウンロード数の更新に失敗: %w", err)
		}
		return downloads, nil
	}
	return 0, fmt.Errorf("ダウンロード数の更新に失敗: 競合が解消しませんでした")
}

// RecordDownload は、サムネイルの取得を記録します
func (s *RedisStore) RecordDownload(ctx context.Context, download domain.ThumbnailDownload) error {
	data, err := json.Marshal(download)
	if err != nil {
		return fmt.Errorf("取得記録のエンコードに失敗: %w", err)
	}
	if err := s.client.LPush(ctx, s.thumbnailKey(download.UserID), data).Err(); err != nil {
		return fmt.Errorf("Redisへの保存に失敗: %w", err)
	}
	return nil
}

// ListDownloads は、指定されたユーザーの取得記録を新しい順に返します
func (s *RedisStore) ListDownloads(ctx context.Context, userID string) ([]domain.ThumbnailDownload, error) {
	values, err := s.client.LRange(ctx, s.thumbnailKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("Redisからの取得に失敗: %w", err)
	}

	downloads := make([]domain.ThumbnailDownload, 0, len(values))
	for _, value := range values {
		var download domain.ThumbnailDownload
		if err := json.Unmarshal([]byte(value), &download); err != nil {
			return nil, fmt.Errorf("取得記録のデコードに失敗: %w", err)
		}
		downloads = append(downloads, download)
	}
	return downloads, nil
}

// Close は、Redisとの接続を閉じます
func (s *RedisStore) Close(ctx context.Context) error {
	return s.client.Close()
}

// RedisSessionStore は、Redisを使った編集セッションの実装です。セッションはTTL付きで保存されます
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore は、RedisStoreと接続を共有するRedisSessionStoreを作成します
func NewRedisSessionStore(store *RedisStore, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: store.client, ttl: ttl}
}

func (s *RedisSessionStore) key(userID string) string {
	return redisKeyPrefix + "session:" + userID
}

// Get は、ユーザーのセッションを取得します
func (s *RedisSessionStore) Get(ctx context.Context, userID string) (*domain.EditorSession, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNoEditorSession
	}
	if err != nil {
		return nil, fmt.Errorf("Redisからの取得に失敗: %w", err)
	}

	var session domain.EditorSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("セッションのデコードに失敗: %w", err)
	}
	return &session, nil
}

// Put は、ユーザーのセッションを保存し、有効期限を延長します
func (s *RedisSessionStore) Put(ctx context.Context, session *domain.EditorSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("セッションのエンコードに失敗: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("Redisへの保存に失敗: %w", err)
	}
	return nil
}

// Delete は、ユーザーのセッションを削除します
func (s *RedisSessionStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}
