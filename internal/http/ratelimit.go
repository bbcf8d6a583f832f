package http

import (
	"sync"
	"time"
)

const (
	// generalLimit caps mutating requests per client per minute.
	generalLimit = 60
	// loginLimit caps PIN submissions per client per minute.
	loginLimit = 10
)

// rateLimiter is a simple in-memory per-client counter with a one minute
// window. Login attempts are counted separately and more strictly, since
// the PIN space is tiny.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
	logins      int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// allow records one request from clientIP and reports whether it is
// within budget. login marks PIN submissions.
func (rl *rateLimiter) allow(clientIP string, login bool) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists || now.Sub(client.lastRequest) > time.Minute {
		client = &clientInfo{lastRequest: now}
		rl.clients[clientIP] = client
	}

	client.lastRequest = now
	client.requests++
	if login {
		client.logins++
		if client.logins > loginLimit {
			return false
		}
	}
	return client.requests <= generalLimit
}

// startCleanup runs periodic cleanup to remove stale client entries.
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes.
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop shuts down the cleanup goroutine.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
