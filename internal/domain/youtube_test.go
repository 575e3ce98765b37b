package domain

import "testing"

func TestParseYouTubeURL(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=10", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/v/dQw4w9WgXcQ?version=3", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"HTTPS://YOUTU.BE/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://vimeo.com/123456789", "", false},
		{"https://youtu.be/short", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseYouTubeURL(tt.url)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseYouTubeURL(%q) = %q, %v, 期待値 %q, %v", tt.url, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestThumbnailURLs(t *testing.T) {
	urls := ThumbnailURLs("dQw4w9WgXcQ")
	want := []string{
		"https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
		"https://img.youtube.com/vi/dQw4w9WgXcQ/sddefault.jpg",
		"https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		"https://img.youtube.com/vi/dQw4w9WgXcQ/mqdefault.jpg",
		"https://img.youtube.com/vi/dQw4w9WgXcQ/default.jpg",
	}

	if len(urls) != len(want) {
		t.Fatalf("URL数が不正です: %d", len(urls))
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("URL %d = %s, 期待値 %s", i, urls[i], want[i])
		}
	}

	if empty := ThumbnailURLs(""); len(empty) != 0 {
		t.Errorf("空のIDでは空のスライスを返すべきです: %v", empty)
	}
}
