package service

import (
	"context"
	"errors"
	"pyfibot/internal/core/domain"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errNothingToEdit = errors.New("nothing to edit")

// fakeReply behaves like a platform reply: once something was sent, further
// sends turn into edits.
type fakeReply struct {
	mu       sync.Mutex
	deferred bool
	sent     []domain.Reply
	edits    []domain.Reply
	deferErr error
	sendErr  error
}

func (f *fakeReply) Defer(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deferErr != nil {
		return f.deferErr
	}
	f.deferred = true
	return nil
}

func (f *fakeReply) Send(_ context.Context, reply domain.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return f.sendErr
	}
	if f.deferred || len(f.sent) > 0 {
		f.edits = append(f.edits, reply)
		return nil
	}
	f.sent = append(f.sent, reply)
	return nil
}

func (f *fakeReply) Edit(_ context.Context, reply domain.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.deferred && len(f.sent) == 0 {
		return errNothingToEdit
	}
	f.edits = append(f.edits, reply)
	return nil
}

func (f *fakeReply) Replied() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.deferred || len(f.sent) > 0
}

// terminal asserts that exactly one terminal reply was produced and returns it.
func (f *fakeReply) terminal(t *testing.T) domain.Reply {
	t.Helper()

	if f.deferred {
		require.Empty(t, f.sent, "no initial send after a deferred reply")
		require.Len(t, f.edits, 1, "deferred reply must be edited exactly once")
		return f.edits[0]
	}

	require.Len(t, f.sent, 1, "exactly one initial reply")
	require.Empty(t, f.edits)
	return f.sent[0]
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockResolver) Resolve(ctx context.Context, command, args, user string) domain.RemoteResult {
	a := m.Called(ctx, command, args, user)
	return a.Get(0).(domain.RemoteResult)
}
