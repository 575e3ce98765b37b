package domain

import "context"

// DesignRepository は、ユーザーごとのデザインの永続化を行うインターフェースです
type DesignRepository interface {
	// Save は、デザインを新規作成または更新します
	Save(ctx context.Context, design Design) error

	// Load は、指定されたユーザーのデザインを取得します。存在しない場合は ErrDesignNotFound を返します
	Load(ctx context.Context, userID, designID string) (Design, error)

	// List は、指定されたユーザーのデザインを新しい順に取得します
	List(ctx context.Context, userID string) ([]Design, error)

	// Delete は、指定されたユーザーのデザインを削除します。存在しない場合は ErrDesignNotFound を返します
	Delete(ctx context.Context, userID, designID string) error

	// IncrementDownloads は、デザインのダウンロード数を1増やし、更新後の値を返します
	IncrementDownloads(ctx context.Context, userID, designID string) (int, error)
}

// ThumbnailDownloadRepository は、サムネイル取得の記録を永続化するインターフェースです
type ThumbnailDownloadRepository interface {
	// RecordDownload は、サムネイルの取得を記録します
	RecordDownload(ctx context.Context, download ThumbnailDownload) error

	// ListDownloads は、指定されたユーザーの取得記録を新しい順に返します
	ListDownloads(ctx context.Context, userID string) ([]ThumbnailDownload, error)
}
