package domain

import (
	"fmt"
	"regexp"
	"time"
)

var youtubeURLPattern = regexp.MustCompile(`(?i)(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// thumbnailQualities は、サムネイルの画質を高い順に並べたものです
var thumbnailQualities = []optionData{
	{"maxresdefault", "HD"},
	{"sddefault", "SD"},
	{"hqdefault", "HQ"},
	{"mqdefault", "MQ"},
	{"default", "Default"},
}

// Thumbnail は、YouTube動画のサムネイル画像1枚を表します
type Thumbnail struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// ParseYouTubeURL は、YouTubeのURLから11文字の動画IDを抽出します
func ParseYouTubeURL(url string) (string, bool) {
	match := youtubeURLPattern.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// ThumbnailURLs は、動画IDのサムネイルURLを画質の高い順に返します。IDが空の場合は空のスライスを返します
func ThumbnailURLs(videoID string) []string {
	thumbnails := Thumbnails(videoID)
	urls := make([]string, 0, len(thumbnails))
	for _, thumbnail := range thumbnails {
		urls = append(urls, thumbnail.URL)
	}
	return urls
}

// Thumbnails は、動画IDのサムネイルを画質名付きで返します
func Thumbnails(videoID string) []Thumbnail {
	if videoID == "" {
		return []Thumbnail{}
	}
	thumbnails := make([]Thumbnail, 0, len(thumbnailQualities))
	for _, quality := range thumbnailQualities {
		thumbnails = append(thumbnails, Thumbnail{
			Quality: quality.DisplayName,
			URL:     fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", videoID, quality.Value),
		})
	}
	return thumbnails
}

// ThumbnailDownload は、ユーザーがサムネイルを取得した記録です
type ThumbnailDownload struct {
	UserID       string    `json:"userId" bson:"user_id"`
	VideoID      string    `json:"youtubeId" bson:"youtube_id"`
	ThumbnailURL string    `json:"thumbnailUrl" bson:"thumbnail_url"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}
