package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"posterforge/internal/domain"

	"github.com/charmbracelet/log"
)

// ThumbnailApplicationService は、YouTubeサムネイルの取得と記録を行うアプリケーションサービスです
type ThumbnailApplicationService struct {
	downloads domain.ThumbnailDownloadRepository
}

// NewThumbnailApplicationService は新しいThumbnailApplicationServiceインスタンスを作成します。
// downloads が nil の場合は取得を記録しません
func NewThumbnailApplicationService(downloads domain.ThumbnailDownloadRepository) *ThumbnailApplicationService {
	return &ThumbnailApplicationService{downloads: downloads}
}

// Lookup は、YouTubeのURLから動画IDとサムネイルの一覧を返します
func (s *ThumbnailApplicationService) Lookup(url string) (string, []domain.Thumbnail, error) {
	if strings.TrimSpace(url) == "" {
		return "", nil, fmt.Errorf("%w: URLが空です", domain.ErrInvalidYouTubeURL)
	}

	videoID, ok := domain.ParseYouTubeURL(url)
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", domain.ErrInvalidYouTubeURL, url)
	}
	return videoID, domain.Thumbnails(videoID), nil
}

// RecordDownload は、ユーザーがサムネイルを取得したことを記録します。ユーザーIDが空の場合は記録しません
func (s *ThumbnailApplicationService) RecordDownload(ctx context.Context, userID, videoID, thumbnailURL string) error {
	if s.downloads == nil || userID == "" {
		return nil
	}

	download := domain.ThumbnailDownload{
		UserID:       userID,
		VideoID:      videoID,
		ThumbnailURL: thumbnailURL,
		CreatedAt:    time.Now(),
	}
	if err := s.downloads.RecordDownload(ctx, download); err != nil {
		return fmt.Errorf("サムネイル取得の記録に失敗: %w", err)
	}

	log.Info("サムネイルの取得を記録しました", "user", userID, "video", videoID)
	return nil
}

// ListDownloads は、ユーザーのサムネイル取得履歴を返します
func (s *ThumbnailApplicationService) ListDownloads(ctx context.Context, userID string) ([]domain.ThumbnailDownload, error) {
	if s.downloads == nil {
		return []domain.ThumbnailDownload{}, nil
	}
	downloads, err := s.downloads.ListDownloads(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("サムネイル取得履歴の取得に失敗: %w", err)
	}
	return downloads, nil
}
