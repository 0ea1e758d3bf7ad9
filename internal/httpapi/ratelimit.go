package httpapi

import (
	"sync"
	"time"
)

// RateLimiter ограничивает количество запросов на ключ (кошелёк или IP).
// Использует алгоритм скользящего окна.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	ipLimit  int // Лимит на IP, общий для всех кошельков с него
	window   time.Duration
	now      func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter: limit — на кошелёк, ipLimit — на IP (<= 0 значит равен limit).
func NewRateLimiter(limit, ipLimit int, window time.Duration) *RateLimiter {
	if ipLimit <= 0 {
		ipLimit = limit
	}
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		ipLimit:  ipLimit,
		window:   window,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Close останавливает фоновую горутину очистки.
// Его надо вызывать на shutdown (иначе cleanup будет жить вечно).
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.allow(key, rl.limit)
}

// AllowIP учитывает запрос в корзине IP.
func (rl *RateLimiter) AllowIP(ip string) bool {
	return rl.allow("ip:"+ip, rl.ipLimit)
}

func (rl *RateLimiter) allow(key string, limit int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := rl.recent(key, now.Add(-rl.window))

	if len(recent) >= limit {
		rl.requests[key] = recent
		return false
	}

	rl.requests[key] = append(recent, now)
	return true
}

func (rl *RateLimiter) recent(key string, cutoff time.Time) []time.Time {
	var recent []time.Time
	for _, t := range rl.requests[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := rl.now().Add(-rl.window)
			for key := range rl.requests {
				if recent := rl.recent(key, cutoff); len(recent) == 0 {
					delete(rl.requests, key)
				} else {
					rl.requests[key] = recent
				}
			}
			rl.mu.Unlock()
		}
	}
}
