package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"posterforge/internal/domain"
	"posterforge/internal/infrastructure/config"

	"github.com/google/uuid"
)

func newTestDesign(userID, prompt string, createdAt time.Time) domain.Design {
	layout := domain.NewLayoutGenerator().GenerateHeuristic(prompt, domain.FormatInstagram, 0)
	design := domain.NewDesign(userID, prompt, layout, nil)
	design.CreatedAt = createdAt.UTC().Truncate(time.Millisecond)
	design.UpdatedAt = design.CreatedAt
	return design
}

// testBackend は、すべての保存先に共通する振る舞いを検証します
func testBackend(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()
	userID := "user-" + uuid.NewString()
	base := time.Now()

	older := newTestDesign(userID, "red poster", base.Add(-time.Hour))
	newer := newTestDesign(userID, `blue "SALE"`, base)
	for _, design := range []domain.Design{older, newer} {
		if err := backend.Save(ctx, design); err != nil {
			t.Fatalf("保存に失敗しました: %v", err)
		}
	}

	loaded, err := backend.Load(ctx, userID, newer.ID)
	if err != nil {
		t.Fatalf("取得に失敗しました: %v", err)
	}
	if loaded.Title != newer.Title || loaded.Layout.TextElements[0].Text != "SALE" || loaded.Scene == nil {
		t.Errorf("取得したデザインが不正です: %+v", loaded)
	}

	if _, err := backend.Load(ctx, "someone-else", newer.ID); !errors.Is(err, domain.ErrDesignNotFound) {
		t.Errorf("他のユーザーのデザインは取得できないはずです: %v", err)
	}

	designs, err := backend.List(ctx, userID)
	if err != nil {
		t.Fatalf("一覧の取得に失敗しました: %v", err)
	}
	if len(designs) != 2 || designs[0].ID != newer.ID || designs[1].ID != older.ID {
		t.Errorf("一覧が新しい順になっていません: %+v", designs)
	}

	older.Title = "updated"
	if err := backend.Save(ctx, older); err != nil {
		t.Fatalf("更新に失敗しました: %v", err)
	}
	if designs, _ := backend.List(ctx, userID); len(designs) != 2 {
		t.Errorf("更新で件数が変わっています: %d", len(designs))
	}

	for want := 1; want <= 2; want++ {
		downloads, err := backend.IncrementDownloads(ctx, userID, newer.ID)
		if err != nil || downloads != want {
			t.Errorf("IncrementDownloads() = %d, %v, 期待値 %d", downloads, err, want)
		}
	}
	if _, err := backend.IncrementDownloads(ctx, userID, "missing"); !errors.Is(err, domain.ErrDesignNotFound) {
		t.Errorf("存在しないデザインでは ErrDesignNotFound になるべきです: %v", err)
	}

	if err := backend.Delete(ctx, userID, older.ID); err != nil {
		t.Fatalf("削除に失敗しました: %v", err)
	}
	if err := backend.Delete(ctx, userID, older.ID); !errors.Is(err, domain.ErrDesignNotFound) {
		t.Errorf("削除済みのデザインでは ErrDesignNotFound になるべきです: %v", err)
	}
	if designs, _ := backend.List(ctx, userID); len(designs) != 1 {
		t.Errorf("削除後の件数が不正です: %d", len(designs))
	}

	first := domain.ThumbnailDownload{UserID: userID, VideoID: "aaaaaaaaaaa", ThumbnailURL: "first", CreatedAt: base.Add(-time.Minute).UTC().Truncate(time.Millisecond)}
	second := domain.ThumbnailDownload{UserID: userID, VideoID: "bbbbbbbbbbb", ThumbnailURL: "second", CreatedAt: base.UTC().Truncate(time.Millisecond)}
	for _, download := range []domain.ThumbnailDownload{first, second} {
		if err := backend.RecordDownload(ctx, download); err != nil {
			t.Fatalf("取得記録の保存に失敗しました: %v", err)
		}
	}
	downloads, err := backend.ListDownloads(ctx, userID)
	if err != nil {
		t.Fatalf("取得記録の一覧に失敗しました: %v", err)
	}
	if len(downloads) != 2 || downloads[0].ThumbnailURL != "second" {
		t.Errorf("取得記録が新しい順になっていません: %+v", downloads)
	}
}

// testSessionStore は、すべてのセッションストアに共通する振る舞いを検証します
func testSessionStore(t *testing.T, sessions domain.SessionStore) {
	t.Helper()
	ctx := context.Background()
	userID := "user-" + uuid.NewString()

	if _, err := sessions.Get(ctx, userID); !errors.Is(err, domain.ErrNoEditorSession) {
		t.Errorf("ErrNoEditorSession が返されるべきです: %v", err)
	}

	layout := domain.NewLayoutGenerator().GenerateHeuristic(`"HELLO"`, domain.FormatYouTube, 1)
	session := domain.NewEditorSession(userID, `"HELLO"`, layout)
	if err := sessions.Put(ctx, session); err != nil {
		t.Fatalf("保存に失敗しました: %v", err)
	}

	got, err := sessions.Get(ctx, userID)
	if err != nil {
		t.Fatalf("取得に失敗しました: %v", err)
	}
	if got.Format != domain.FormatYouTube || len(got.Scene.Objects) != 1 || len(got.History) != 1 {
		t.Errorf("取得したセッションが不正です: %+v", got)
	}

	if err := sessions.Delete(ctx, userID); err != nil {
		t.Fatalf("削除に失敗しました: %v", err)
	}
	if _, err := sessions.Get(ctx, userID); !errors.Is(err, domain.ErrNoEditorSession) {
		t.Errorf("削除後は ErrNoEditorSession が返されるべきです: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testBackend(t, NewMemoryStore())
}

func TestMemoryStore_ContextCanceled(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Save(ctx, newTestDesign("u1", "red", time.Now())); !errors.Is(err, context.Canceled) {
		t.Errorf("キャンセル済みのコンテキストではエラーになるべきです: %v", err)
	}
}

func TestMemorySessionStore(t *testing.T) {
	testSessionStore(t, NewMemorySessionStore(time.Hour))
}

func TestMemorySessionStore_Expiration(t *testing.T) {
	sessions := NewMemorySessionStore(50 * time.Millisecond)
	ctx := context.Background()
	layout := domain.NewLayoutGenerator().GenerateHeuristic("red", domain.FormatQuote, 0)

	if err := sessions.Put(ctx, domain.NewEditorSession("u1", "red", layout)); err != nil {
		t.Fatalf("保存に失敗しました: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if _, err := sessions.Get(ctx, "u1"); !errors.Is(err, domain.ErrNoEditorSession) {
		t.Errorf("期限切れのセッションは取得できないはずです: %v", err)
	}
}

func TestOpen_Memory(t *testing.T) {
	stores, err := Open(context.Background(), config.StoreConfig{Backend: config.StoreBackendMemory}, time.Hour)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	defer stores.Close(context.Background())

	if _, ok := stores.Backend.(*MemoryStore); !ok {
		t.Errorf("MemoryStore が使われるべきです: %T", stores.Backend)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), config.StoreConfig{Backend: "sqlite"}, time.Hour); err == nil {
		t.Error("未対応の保存先ではエラーになるべきです")
	}
}

func TestRedisStore_Integration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL が設定されていないため、スキップします")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisStore, err := NewRedisStore(ctx, url)
	if err != nil {
		t.Fatalf("Redisへの接続に失敗: %v", err)
	}
	defer redisStore.Close(ctx)

	testBackend(t, redisStore)
	testSessionStore(t, NewRedisSessionStore(redisStore, time.Minute))
}

func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI が設定されていないため、スキップします")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoStore, err := NewMongoStore(ctx, uri, "posterforge_test")
	if err != nil {
		t.Fatalf("MongoDBへの接続に失敗: %v", err)
	}
	defer mongoStore.Close(ctx)

	testBackend(t, mongoStore)
}
