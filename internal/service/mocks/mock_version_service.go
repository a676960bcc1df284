package mocks

import (
	"context"

	"medvault/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockVersionService struct {
	mock.Mock
}

func (m *MockVersionService) List(ctx context.Context, documentID string) ([]model.Version, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Version), args.Error(1)
}

func (m *MockVersionService) Revert(ctx context.Context, documentID string, versionNumber int) (*model.RevertResult, error) {
	args := m.Called(ctx, documentID, versionNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RevertResult), args.Error(1)
}

func (m *MockVersionService) Notifications(ctx context.Context, documentID string) ([]model.Notification, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}
