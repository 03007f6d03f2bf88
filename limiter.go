package photoengine

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter rate-limits admin login attempts per IP address with a
// sliding window.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewLoginLimiter creates a LoginLimiter that allows max attempts per window.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		done:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Stop ends the background cleanup. Allow keeps working afterwards.
func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *LoginLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case now := <-ticker.C:
			l.prune(now.Add(-l.window))
		}
	}
}

func (l *LoginLimiter) prune(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, hits := range l.attempts {
		if kept := pruneBefore(hits, cutoff); len(kept) == 0 {
			delete(l.attempts, ip)
		} else {
			l.attempts[ip] = kept
		}
	}
}

func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Allow reports whether ip is still under the limit and records the attempt.
func (l *LoginLimiter) Allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := pruneBefore(l.attempts[ip], now.Add(-l.window))
	if len(kept) >= l.max {
		l.attempts[ip] = kept
		return false
	}
	l.attempts[ip] = append(kept, now)
	return true
}

// VisitorLimiter is a per-IP token bucket for the grid fragment route, which
// scrolling clients hit repeatedly.
type VisitorLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewVisitorLimiter allows perSecond requests per IP with the given burst.
// Visitors unseen for idle are forgotten.
func NewVisitorLimiter(perSecond float64, burst int, idle time.Duration) *VisitorLimiter {
	v := &VisitorLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idle:     idle,
		done:     make(chan struct{}),
	}
	go v.cleanup()
	return v
}

// Allow reports whether ip may make a request now.
func (v *VisitorLimiter) Allow(ip string) bool {
	v.mu.Lock()
	vis, ok := v.visitors[ip]
	if !ok {
		vis = &visitor{limiter: rate.NewLimiter(v.limit, v.burst)}
		v.visitors[ip] = vis
	}
	vis.lastSeen = time.Now()
	v.mu.Unlock()
	return vis.limiter.Allow()
}

// Stop ends the background cleanup. Allow keeps working afterwards.
func (v *VisitorLimiter) Stop() {
	v.stopOnce.Do(func() { close(v.done) })
}

func (v *VisitorLimiter) cleanup() {
	ticker := time.NewTicker(v.idle)
	defer ticker.Stop()
	for {
		select {
		case <-v.done:
			return
		case now := <-ticker.C:
			v.prune(now.Add(-v.idle))
		}
	}
}

func (v *VisitorLimiter) prune(cutoff time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for ip, vis := range v.visitors {
		if vis.lastSeen.Before(cutoff) {
			delete(v.visitors, ip)
		}
	}
}
