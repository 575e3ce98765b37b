package store

import (
	"context"
	"errors"
	"fmt"

	"posterforge/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// コレクション名
const (
	designsCollection   = "designs"
	downloadsCollection = "youtube_downloads"
)

// MongoStore は、MongoDBを使ったデザインとサムネイル取得記録の実装です
type MongoStore struct {
	client    *mongo.Client
	designs   *mongo.Collection
	downloads *mongo.Collection
}

// NewMongoStore は、URIからMongoDBに接続したMongoStoreを作成し、必要なインデックスを作成します
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("MongoDBへの接続に失敗: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("MongoDBへの接続に失敗: %w", err)
	}

	db := client.Database(database)
	store := &MongoStore{
		client:    client,
		designs:   db.Collection(designsCollection),
		downloads: db.Collection(downloadsCollection),
	}
	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return store, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	byUser := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}
	if _, err := s.designs.Indexes().CreateOne(ctx, byUser); err != nil {
		return fmt.Errorf("インデックスの作成に失敗: %w", err)
	}
	if _, err := s.downloads.Indexes().CreateOne(ctx, byUser); err != nil {
		return fmt.Errorf("インデックスの作成に失敗: %w", err)
	}
	return nil
}

func designFilter(userID, designID string) bson.D {
	return bson.D{{Key: "_id", Value: designID}, {Key: "user_id", Value: userID}}
}

// Save は、デザインを新規作成または更新します
func (s *MongoStore) Save(ctx context.Context, design domain.Design) error {
	_, err := s.designs.ReplaceOne(ctx, designFilter(design.UserID, design.ID), design, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("MongoDBへの保存に失敗: %w", err)
	}
	return nil
}

// Load は、指定されたユーザーのデザインを取得します
func (s *MongoStore) Load(ctx context.Context, userID, designID string) (domain.Design, error) {
	var design domain.Design
	err := s.designs.FindOne(ctx, designFilter(userID, designID)).Decode(&design)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Design{}, domain.ErrDesignNotFound
	}
	if err != nil {
		return domain.Design{}, fmt.Errorf("MongoDBからの取得に失敗: %w", err)
	}
	return design, nil
}

// List は、指定されたユーザーのデザインを新しい順に取得します
func (s *MongoStore) List(ctx context.Context, userID string) ([]domain.Design, error) {
	cursor, err := s.designs.Find(ctx, bson.D{{Key: "user_id", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("MongoDBからの一覧取得に失敗: %w", err)
	}

	designs := []domain.Design{}
	if err := cursor.All(ctx, &designs); err != nil {
		return nil, fmt.Errorf("MongoDBからの一覧取得に失敗: %w", err)
	}
	return designs, nil
}

// Delete は、指定されたユーザーのデザインを削除します
func (s *MongoStore) Delete(ctx context.Context, userID, designID string) error {
	result, err := s.designs.DeleteOne(ctx, designFilter(userID, designID))
	if err != nil {
		return fmt.Errorf("MongoDBからの削除に失敗: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrDesignNotFound
	}
	return nil
}

// IncrementDownloads は、デザインのダウンロード数を1増やします
func (s *MongoStore) IncrementDownloads(ctx context.Context, userID, designID string) (int, error) {
	var design domain.Design
	err := s.designs.FindOneAndUpdate(ctx,
		designFilter(userID, designID),
		bson.D{{Key: "$inc", Value: bson.D{{Key: "downloads", Value: 1}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&design)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, domain.ErrDesignNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("ダウンロード数の更新に失敗: %w", err)
	}
	return design.Downloads, nil
}

// RecordDownload は、サムネイルの取得を記録します
func (s *MongoStore) RecordDownload(ctx context.Context, download domain.ThumbnailDownload) error {
	if _, err := s.downloads.InsertOne(ctx, download); err != nil {
		return fmt.Errorf("MongoDBへの保存に失敗: %w", err)
	}
	return nil
}

// ListDownloads は、指定されたユーザーの取得記録を新しい順に返します
func (s *MongoStore) ListDownloads(ctx context.Context, userID string) ([]domain.ThumbnailDownload, error) {
	cursor, err := s.downloads.Find(ctx, bson.D{{Key: "user_id", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("MongoDBからの取得に失敗: %w", err)
	}

	downloads := []domain.ThumbnailDownload{}
	if err := cursor.All(ctx, &downloads); err != nil {
		return nil, fmt.Errorf("MongoDBからの取得に失敗: %w", err)
	}
	return downloads, nil
}

// Close は、MongoDBとの接続を閉じます
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
