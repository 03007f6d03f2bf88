package photoengine

import (
	"testing"
	"time"
)

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewLoginLimiter(2, 200*time.Millisecond)
	defer limiter.Stop()
	ip := "203.0.113.10"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if !limiter.Allow(ip) {
		t.Fatalf("expected second attempt to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected third attempt to be blocked")
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewLoginLimiter(1, 150*time.Millisecond)
	defer limiter.Stop()
	ip := "203.0.113.20"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected second attempt to be blocked")
	}

	time.Sleep(200 * time.Millisecond)
	if !limiter.Allow(ip) {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	limiter := NewLoginLimiter(1, 200*time.Millisecond)
	defer limiter.Stop()

	if !limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !limiter.Allow("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestVisitorLimiterBurst(t *testing.T) {
	limiter := NewVisitorLimiter(0.001, 3, time.Minute)
	defer limiter.Stop()
	ip := "203.0.113.40"

	for i := 0; i < 3; i++ {
		if !limiter.Allow(ip) {
			t.Fatalf("request %d within burst was blocked", i+1)
		}
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected request past burst to be blocked")
	}
	if !limiter.Allow("203.0.113.41") {
		t.Fatalf("expected other ip to have its own bucket")
	}
}

func TestLoginLimiterPruneAndStop(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Hour)
	limiter.Allow("203.0.113.50")
	limiter.prune(time.Now().Add(time.Minute))
	if n := len(limiter.attempts); n != 0 {
		t.Fatalf("attempts after prune = %d, want 0", n)
	}

	limiter.Stop()
	limiter.Stop()
	if !limiter.Allow("203.0.113.50") {
		t.Fatalf("expected Allow to keep working after Stop")
	}
}

func TestVisitorLimiterPruneAndStop(t *testing.T) {
	limiter := NewVisitorLimiter(1, 1, time.Hour)
	limiter.Allow("203.0.113.60")
	limiter.prune(time.Now().Add(time.Minute))
	if n := len(limiter.visitors); n != 0 {
		t.Fatalf("visitors after prune = %d, want 0", n)
	}

	limiter.Stop()
	limiter.Stop()
	select {
	case <-limiter.done:
	default:
		t.Fatalf("Stop did not signal the cleanup loop")
	}
}
