package command

import (
	"context"
	"pyfibot/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockReply struct {
	mock.Mock
}

func (m *MockReply) Defer(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReply) Send(ctx context.Context, reply domain.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *MockReply) Edit(ctx context.Context, reply domain.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *MockReply) Replied() bool {
	args := m.Called()
	return args.Bool(0)
}
