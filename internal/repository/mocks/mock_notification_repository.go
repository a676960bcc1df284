package mocks

import (
	"context"

	"medvault/internal/model"
	"medvault/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, q repository.Querier, n *model.Notification) (*model.Notification, error) {
	args := m.Called(ctx, q, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListByDocument(ctx context.Context, q repository.Querier, documentID string) ([]model.Notification, error) {
	args := m.Called(ctx, q, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) DeleteByDocument(ctx context.Context, q repository.Querier, documentID string) error {
	args := m.Called(ctx, q, documentID)
	return args.Error(0)
}
