package handler

import (
	"context"
	"pyfibot/internal/core/domain"
	"pyfibot/internal/core/port"
	"testing"
	"time"
)

type dispatched struct {
	invocation *domain.Invocation
	reply      port.ReplyChannel
}

// MockDispatcher records dispatched invocations on a channel, since handlers
// dispatch in their own goroutine.
type MockDispatcher struct {
	calls chan dispatched
}

func newMockDispatcher() *MockDispatcher {
	return &MockDispatcher{calls: make(chan dispatched, 1)}
}

func (m *MockDispatcher) Dispatch(_ context.Context, invocation *domain.Invocation, reply port.ReplyChannel) {
	m.calls <- dispatched{invocation: invocation, reply: reply}
}

func (m *MockDispatcher) wait(t *testing.T) dispatched {
	t.Helper()

	select {
	case d := <-m.calls:
		return d
	case <-time.After(time.Second):
		t.Fatal("dispatch was not called")
		return dispatched{}
	}
}

func (m *MockDispatcher) assertNotCalled(t *testing.T) {
	t.Helper()

	select {
	case d := <-m.calls:
		t.Fatalf("unexpected dispatch of %q", d.invocation.Command)
	case <-time.After(100 * time.Millisecond):
	}
}
