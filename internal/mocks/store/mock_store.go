// Package mockstore provides a testify mock of store.Store.
package mockstore

import (
	"context"

	"github.com/andy/caterbook/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock type for the store.Store interface
type MockStore struct {
	mock.Mock
}

var _ store.Store = (*MockStore)(nil)

// NewMockStore creates a MockStore whose expectations are asserted on cleanup
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	m := &MockStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStore) SetItem(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStore) Update(ctx context.Context, key string, fn store.UpdateFunc) error {
	args := m.Called(ctx, key, fn)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	return m.Called().Error(0)
}
