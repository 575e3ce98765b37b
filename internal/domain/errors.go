package domain

import "errors"

// ドメイン固有のエラー型を定義
var (
	// ErrInvalidFormat は、未知のデザインフォーマットが指定された場合のエラーです
	ErrInvalidFormat = errors.New("無効なフォーマットです")

	// ErrInvalidLayout は、レイアウトが不変条件を満たしていない場合のエラーです
	ErrInvalidLayout = errors.New("無効なレイアウトです")

	// ErrDesignNotFound は、保存済みデザインが見つからない場合のエラーです
	ErrDesignNotFound = errors.New("デザインが見つかりません")

	// ErrInvalidYouTubeURL は、YouTubeの動画IDを抽出できないURLの場合のエラーです
	ErrInvalidYouTubeURL = errors.New("無効なYouTube URLです")

	// ErrLayerOutOfRange は、存在しないレイヤー番号が指定された場合のエラーです
	ErrLayerOutOfRange = errors.New("レイヤー番号が範囲外です")

	// ErrInvalidShape は、未対応の図形が指定された場合のエラーです
	ErrInvalidShape = errors.New("未対応の図形です")

	// ErrInvalidColor は、色の形式が不正な場合のエラーです
	ErrInvalidColor = errors.New("無効な色です")

	// ErrNotTextLayer は、テキスト専用の操作を図形レイヤーに適用した場合のエラーです
	ErrNotTextLayer = errors.New("テキストレイヤーではありません")

	// ErrInvalidFontFamily は、未対応のフォントが指定された場合のエラーです
	ErrInvalidFontFamily = errors.New("未対応のフォントです")

	// ErrNoEditorSession は、編集中のデザインが存在しない場合のエラーです
	ErrNoEditorSession = errors.New("編集中のデザインがありません")

	// ErrInvalidUserID は、無効なユーザーIDの場合のエラーです
	ErrInvalidUserID = errors.New("無効なユーザーIDです")

	// ErrInvalidCanvasSize は、キャンバスのサイズが0以下または上限を超える場合のエラーです
	ErrInvalidCanvasSize = errors.New("キャンバスサイズが不正です")
)
