package mocks

import (
	"context"

	"medvault/internal/model"
	"medvault/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockVersionRepository struct {
	mock.Mock
}

func (m *MockVersionRepository) Create(ctx context.Context, q repository.Querier, v *model.Version) (*model.Version, error) {
	args := m.Called(ctx, q, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Version), args.Error(1)
}

func (m *MockVersionRepository) LatestNumber(ctx context.Context, q repository.Querier, documentID string) (int, error) {
	args := m.Called(ctx, q, documentID)
	return args.Int(0), args.Error(1)
}

func (m *MockVersionRepository) FindByNumber(ctx context.Context, q repository.Querier, documentID string, number int) (*model.Version, error) {
	args := m.Called(ctx, q, documentID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Version), args.Error(1)
}

func (m *MockVersionRepository) ListByDocument(ctx context.Context, q repository.Querier, documentID string) ([]model.Version, error) {
	args := m.Called(ctx, q, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Version), args.Error(1)
}

func (m *MockVersionRepository) PathsByDocument(ctx context.Context, q repository.Querier, documentID string) ([]string, error) {
	args := m.Called(ctx, q, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVersionRepository) DeleteByDocument(ctx context.Context, q repository.Querier, documentID string) error {
	args := m.Called(ctx, q, documentID)
	return args.Error(0)
}
