package iocache

import (
	"github.com/stretchr/testify/mock"

	"github.com/finscore/finscore/internal/contract"
	"github.com/finscore/finscore/schema"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetStatementStore implements the StoreManager interface.
func (m *MockStoreManager) GetStatementStore() contract.StatementStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.StatementStore)
	return store
}

// MockStatementStore is a mock implementation of StatementStore for testing.
type MockStatementStore struct {
	mock.Mock
}

var _ contract.StatementStore = &MockStatementStore{} // Compile-time check

// Get implements the StatementStore interface.
func (m *MockStatementStore) Get(ticker string) ([]byte, int, int64, error) {
	args := m.Called(ticker)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the StatementStore interface.
func (m *MockStatementStore) Set(ticker string, data []byte, version int, ts int64) error {
	args := m.Called(ticker, data, version, ts)
	return args.Error(0)
}

// List implements the StatementStore interface.
func (m *MockStatementStore) List() ([]string, error) {
	args := m.Called()
	tickers, _ := args.Get(0).([]string)
	return tickers, args.Error(1)
}

// GetStatus implements the StatementStore interface.
func (m *MockStatementStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the StatementStore interface.
func (m *MockStatementStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
