package discord

import (
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ErrRateLimited は、ユーザーのリクエストがレート制限を超えた場合のエラーです
var ErrRateLimited = errors.New("レート制限を超過しました")

// UserRateLimiter は、ユーザーごとにトークンバケットでリクエスト数を制限します。
// バケットが満杯に戻るまで使われなかったユーザーのリミッターは破棄されます
type UserRateLimiter struct {
	limiters *cache.Cache
	interval time.Duration
	burst    int
	mutex    sync.Mutex
}

// NewUserRateLimiter は新しいUserRateLimiterインスタンスを作成します。interval が0以下の場合は制限しません
func NewUserRateLimiter(interval time.Duration, burst int) *UserRateLimiter {
	burst = max(burst, 1)
	ttl := max(interval*time.Duration(burst), time.Millisecond)
	return &UserRateLimiter{
		limiters: cache.New(ttl, max(ttl, time.Minute)),
		interval: interval,
		burst:    burst,
	}
}

// Allow は、ユーザーのリクエストを受け付けてよいかを返します
func (l *UserRateLimiter) Allow(userID string) bool {
	if l == nil || l.interval <= 0 {
		return true
	}

	l.mutex.Lock()
	var limiter *rate.Limiter
	if cached, ok := l.limiters.Get(userID); ok {
		limiter = cached.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rate.Every(l.interval), l.burst)
	}
	// アクセスのたびに有効期限を延ばす
	l.limiters.SetDefault(userID, limiter)
	l.mutex.Unlock()

	return limiter.Allow()
}

// Len は、保持しているリミッターの数を返します
func (l *UserRateLimiter) Len() int {
	return l.limiters.ItemCount()
}
