package service

import (
	"context"
	"pyfibot/internal/core/domain"
	"pyfibot/internal/core/port"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// InvocationLimiter is a per-user token bucket gate.
type InvocationLimiter struct {
	users map[string]*visitor
	limit rate.Limit
	burst int
	idle  time.Duration
	mutex sync.Mutex
	now   func() time.Time
}

const sweepInterval = 5 * time.Minute

// NewInvocationLimiter allows perMinute invocations per user with the given
// burst. Buckets idle for longer than a sweep interval are dropped until ctx
// is done.
func NewInvocationLimiter(ctx context.Context, perMinute float64, burst int) *InvocationLimiter {
	l := &InvocationLimiter{
		users: make(map[string]*visitor),
		limit: rate.Limit(perMinute / 60),
		burst: burst,
		idle:  sweepInterval,
		now:   time.Now,
	}

	go l.Sweep(ctx, sweepInterval)

	return l
}

// Allow consumes one token of the caller's bucket.
func (l *InvocationLimiter) Allow(user string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.now()

	v, ok := l.users[user]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.users[user] = v
	}

	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

func (l *InvocationLimiter) Admit(ctx context.Context, invocation *domain.Invocation, reply port.ReplyChannel) bool {
	if l.Allow(invocation.CallerKey()) {
		return true
	}

	log.Info().Str("user", invocation.User).Str("command", invocation.Command).Msg("rate limit exceeded")

	if err := reply.Send(ctx, domain.Private(domain.MsgRateLimited)); err != nil {
		log.Warn().Err(err).Msg("failed to send rate limit warning")
	}

	return false
}

// Sweep periodically drops idle buckets until ctx is done.
func (l *InvocationLimiter) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := l.removeIdle()
			log.Debug().Int("removed", removed).Msg("swept idle rate limiters")
		case <-ctx.Done():
			log.Debug().Msg("stopping rate limiter sweep")
			return
		}
	}
}

func (l *InvocationLimiter) removeIdle() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.now()
	removed := 0

	for user, v := range l.users {
		if now.Sub(v.lastSeen) > l.idle {
			delete(l.users, user)
			removed++
		}
	}

	return removed
}
