package command

import (
	"context"
	"pyfibot/internal/core/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	enabled bool
}

func (s stubResolver) Enabled() bool {
	return s.enabled
}

func (s stubResolver) Resolve(_ context.Context, _, _, _ string) domain.RemoteResult {
	return domain.RemoteFailure(domain.KindNotConfigured, domain.ErrNotConfigured)
}

func newTestDebug(t *testing.T, enabled bool, remote []string) *Debug {
	t.Helper()

	cr := &Registry{}
	require.NoError(t, cr.Register(NewPing()))

	d := NewDebug(cr, stubResolver{enabled: enabled}, remote)
	require.NoError(t, cr.Register(d))

	d.now = func() time.Time { return d.started.Add(90*time.Second + 300*time.Millisecond) }

	return d
}

func TestDebug_Report(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		remote     []string
		wantRemote string
	}{
		{name: "backend enabled", enabled: true, remote: []string{"weather", "joke"},
			wantRemote: "remote commands: weather, joke (backend enabled)"},
		{name: "backend disabled", enabled: false, remote: []string{"weather"},
			wantRemote: "remote commands: weather (backend disabled)"},
		{name: "no remote commands", enabled: true, remote: nil,
			wantRemote: "remote commands: none (backend enabled)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lines := strings.Split(newTestDebug(t, tc.enabled, tc.remote).Report(), "\n")

			require.Len(t, lines, 6)
			assert.Equal(t, "uptime: 1m30s", lines[0])
			assert.Equal(t, "local commands: debug, ping", lines[1])
			assert.Equal(t, tc.wantRemote, lines[2])
			assert.True(t, strings.HasPrefix(lines[3], "goroutines: "))
			assert.Contains(t, lines[4], "KB heap")
			assert.True(t, strings.HasPrefix(lines[5], "runtime: go"))
		})
	}
}

func TestDebug_Respond_IsPrivate(t *testing.T) {
	reply := new(MockReply)
	d := newTestDebug(t, false, []string{"weather"})

	reply.On("Send", mock.Anything, mock.MatchedBy(func(r domain.Reply) bool {
		return r.Ephemeral && strings.Contains(r.Text, "local commands: debug, ping")
	})).Return(nil).Once()

	require.NoError(t, d.Respond(t.Context(), domain.NewInvocation("debug", nil, "bob"), reply))
	reply.AssertExpectations(t)
}
