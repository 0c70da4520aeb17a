package middleware

import (
	"net/http"
	"sync"
	"time"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
)

// MemberRateLimiter is a sliding-window limiter keyed by member id.
type MemberRateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
	log      *logger.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMemberRateLimiter(limit int, window time.Duration, log *logger.Logger) *MemberRateLimiter {
	limiter := &MemberRateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
		log:      log,
		stopCh:   make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *MemberRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := rl.now()
			rl.mu.Lock()
			for member, timestamps := range rl.requests {
				if len(timestamps) == 0 || now.Sub(timestamps[len(timestamps)-1]) >= rl.window {
					delete(rl.requests, member)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *MemberRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *MemberRateLimiter) Allow(memberID string) bool {
	if memberID == "" {
		return true
	}

	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	timestamps := rl.requests[memberID]
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[memberID] = valid
		return false
	}

	rl.requests[memberID] = append(valid, now)
	return true
}

// MemberRateLimit rejects requests from a member who exceeded the limit.
// It reads the principal set by Authenticate.
func MemberRateLimit(limiter *MemberRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || limiter.Allow(principal.MemberID) {
				next.ServeHTTP(w, r)
				return
			}

			limiter.log.Warn("Rate limit exceeded",
				"request_id", RequestID(r.Context()),
				"member_id", principal.MemberID,
				"path", r.URL.Path,
			)
			writeRejection(w, limiter.log, "MemberRateLimit", apperrors.RateLimited("Rate limit exceeded"))
		})
	}
}
