package application

import (
	"context"
	"errors"
	"testing"

	"posterforge/internal/domain"
)

func TestThumbnailApplicationService_Lookup(t *testing.T) {
	service := NewThumbnailApplicationService(nil)

	videoID, thumbnails, err := service.Lookup("https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if videoID != "dQw4w9WgXcQ" || len(thumbnails) != 5 {
		t.Errorf("結果が不正です: %s %d", videoID, len(thumbnails))
	}

	for _, url := range []string{"", "   ", "https://example.com/watch?v=abc"} {
		if _, _, err := service.Lookup(url); !errors.Is(err, domain.ErrInvalidYouTubeURL) {
			t.Errorf("URL %q では ErrInvalidYouTubeURL が返されるべきです: %v", url, err)
		}
	}
}

func TestThumbnailApplicationService_RecordDownload(t *testing.T) {
	repo := &MockThumbnailDownloadRepository{}
	service := NewThumbnailApplicationService(repo)
	ctx := context.Background()

	if err := service.RecordDownload(ctx, "u1", "abc", "https://img.youtube.com/vi/abc/default.jpg"); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if err := service.RecordDownload(ctx, "", "abc", "https://img.youtube.com/vi/abc/default.jpg"); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	downloads, err := service.ListDownloads(ctx, "u1")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if len(downloads) != 1 || downloads[0].VideoID != "abc" || downloads[0].CreatedAt.IsZero() {
		t.Errorf("取得履歴が不正です: %+v", downloads)
	}
}

func TestThumbnailApplicationService_WithoutRepository(t *testing.T) {
	service := NewThumbnailApplicationService(nil)

	if err := service.RecordDownload(context.Background(), "u1", "abc", "url"); err != nil {
		t.Errorf("リポジトリがない場合は記録を省略するべきです: %v", err)
	}
	downloads, err := service.ListDownloads(context.Background(), "u1")
	if err != nil || len(downloads) != 0 {
		t.Errorf("空の履歴が返されるべきです: %v %v", downloads, err)
	}
}
