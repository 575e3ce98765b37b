package discord

import (
	"fmt"
	"testing"
	"time"
)

func TestUserRateLimiter_Allow(t *testing.T) {
	limiter := NewUserRateLimiter(time.Hour, 2)

	if !limiter.Allow("u1") || !limiter.Allow("u1") {
		t.Fatal("バースト数までは許可されるべきです")
	}
	if limiter.Allow("u1") {
		t.Error("バースト数を超えたリクエストは拒否されるべきです")
	}
	if !limiter.Allow("u2") {
		t.Error("他のユーザーには影響しないはずです")
	}
}

func TestUserRateLimiter_Disabled(t *testing.T) {
	limiter := NewUserRateLimiter(0, 1)
	for range 10 {
		if !limiter.Allow("u1") {
			t.Fatal("間隔が0の場合は制限しないはずです")
		}
	}

	var nilLimiter *UserRateLimiter
	if !nilLimiter.Allow("u1") {
		t.Error("nil の場合は制限しないはずです")
	}
}

func TestUserRateLimiter_ExpiresIdleUsers(t *testing.T) {
	limiter := NewUserRateLimiter(10*time.Millisecond, 1)

	for i := range 100 {
		limiter.Allow(fmt.Sprintf("user-%d", i))
	}
	if limiter.Len() != 100 {
		t.Fatalf("期待されるリミッター数: 100, 実際: %d", limiter.Len())
	}

	time.Sleep(50 * time.Millisecond)
	limiter.limiters.DeleteExpired()

	if limiter.Len() != 0 {
		t.Errorf("使われていないリミッターが破棄されていません: %d", limiter.Len())
	}
	if !limiter.Allow("user-0") {
		t.Error("破棄後の最初のリクエストは許可されるべきです")
	}
}

func TestUserRateLimiter_KeepsActiveUsers(t *testing.T) {
	limiter := NewUserRateLimiter(time.Hour, 1)

	limiter.Allow("u1")
	limiter.limiters.DeleteExpired()

	if limiter.Allow("u1") {
		t.Error("有効期限内のリミッターは保持され、2回目は拒否されるべきです")
	}
}
