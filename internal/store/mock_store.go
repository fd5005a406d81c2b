package store

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, q Query, result any) (string, error) {
	args := m.Called(ctx, q, result)
	return args.String(0), args.Error(1)
}

func (m *MockStore) List(ctx context.Context) ([]QuerySummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]QuerySummary), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, hash string) (Saved, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(Saved), args.Error(1)
}
