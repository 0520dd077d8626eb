package service

import (
	"context"
	"pyfibot/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func newTestLimiter(perMinute float64, burst int, now func() time.Time) *InvocationLimiter {
	return &InvocationLimiter{
		users: make(map[string]*visitor),
		limit: rate.Limit(perMinute / 60),
		burst: burst,
		idle:  time.Minute,
		now:   now,
	}
}

func TestInvocationLimiter_Allow(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	l := newTestLimiter(60, 2, func() time.Time { return now })

	assert.True(t, l.Allow("alice"))
	assert.True(t, l.Allow("alice"))
	assert.False(t, l.Allow("alice"), "burst exhausted")
	assert.True(t, l.Allow("bob"), "buckets are per user")

	now = start.Add(time.Second)
	assert.True(t, l.Allow("alice"), "one token refilled after a second")
}

func TestInvocationLimiter_Admit(t *testing.T) {
	now := time.Now()
	l := newTestLimiter(1, 1, func() time.Time { return now })
	inv := domain.NewInvocation("ping", nil, "alice")

	first := &fakeReply{}
	assert.True(t, l.Admit(t.Context(), inv, first))
	assert.Empty(t, first.sent)

	second := &fakeReply{}
	assert.False(t, l.Admit(t.Context(), inv, second))
	assert.Equal(t, domain.Private(domain.MsgRateLimited), second.terminal(t))
}

func TestInvocationLimiter_RemoveIdle(t *testing.T) {
	start := time.Now()
	now := start
	l := newTestLimiter(60, 1, func() time.Time { return now })

	l.Allow("alice")
	now = start.Add(30 * time.Second)
	l.Allow("bob")

	now = start.Add(75 * time.Second)
	assert.Equal(t, 1, l.removeIdle())
	assert.NotContains(t, l.users, "alice")
	assert.Contains(t, l.users, "bob")
}

func TestInvocationLimiter_SweepStops(t *testing.T) {
	l := newTestLimiter(60, 1, time.Now)
	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan struct{})
	go func() {
		l.Sweep(ctx, time.Millisecond)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep did not stop after cancel")
	}
}

func TestGuildAuthorizer(t *testing.T) {
	tests := []struct {
		name      string
		allowlist []string
		guildID   string
		want      bool
	}{
		{name: "empty allowlist admits everything", allowlist: nil, guildID: "1", want: true},
		{name: "listed guild", allowlist: []string{"1", "2"}, guildID: "2", want: true},
		{name: "unlisted guild", allowlist: []string{"1"}, guildID: "3", want: false},
		{name: "direct message", allowlist: []string{"1"}, guildID: "", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := NewGuildAuthorizer(tc.allowlist)
			inv := domain.NewInvocation("ping", nil, "alice")
			inv.GuildID = tc.guildID

			reply := &fakeReply{}
			got := a.Admit(t.Context(), inv, reply)

			assert.Equal(t, tc.want, got)
			if tc.want {
				assert.False(t, reply.Replied())
			} else {
				assert.Equal(t, domain.Private(domain.MsgGuildNotAllowed), reply.terminal(t))
			}
		})
	}
}

func TestInvocationLimiter_AdmitKeysOnUserID(t *testing.T) {
	now := time.Now()
	l := newTestLimiter(1, 1, func() time.Time { return now })

	first := domain.NewInvocation("ping", nil, "Alex")
	first.UserID = "100"
	second := domain.NewInvocation("ping", nil, "Alex")
	second.UserID = "200"

	assert.True(t, l.Admit(t.Context(), first, &fakeReply{}))
	assert.True(t, l.Admit(t.Context(), second, &fakeReply{}), "same display name, different user")
	assert.False(t, l.Admit(t.Context(), first, &fakeReply{}))
}
