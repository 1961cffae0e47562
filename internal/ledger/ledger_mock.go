package ledger

import (
	"time"

	"github.com/huangsam/scorecard/internal/contract"
	"github.com/huangsam/scorecard/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetLedgerStore implements the StoreManager interface.
func (m *MockStoreManager) GetLedgerStore() contract.LedgerStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.LedgerStore)
	return store
}

// MockLedgerStore is a mock implementation of LedgerStore for testing.
type MockLedgerStore struct {
	mock.Mock
}

var _ contract.LedgerStore = &MockLedgerStore{} // Compile-time check

// BeginRun implements the LedgerStore interface.
func (m *MockLedgerStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordOutcome implements the LedgerStore interface.
func (m *MockLedgerStore) RecordOutcome(runID int64, outcome schema.PartnerOutcome) error {
	args := m.Called(runID, outcome)
	return args.Error(0)
}

// EndRun implements the LedgerStore interface.
func (m *MockLedgerStore) EndRun(runID int64, endTime time.Time, requested, succeeded int) error {
	args := m.Called(runID, endTime, requested, succeeded)
	return args.Error(0)
}

// GetStatus implements the LedgerStore interface.
func (m *MockLedgerStore) GetStatus() (schema.LedgerStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.LedgerStatus), args.Error(1)
}

// GetAllRuns implements the LedgerStore interface.
func (m *MockLedgerStore) GetAllRuns() ([]schema.ReportRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.ReportRunRecord)
	return runs, args.Error(1)
}

// GetAllOutcomes implements the LedgerStore interface.
func (m *MockLedgerStore) GetAllOutcomes() ([]schema.PartnerOutcomeRecord, error) {
	args := m.Called()
	outcomes, _ := args.Get(0).([]schema.PartnerOutcomeRecord)
	return outcomes, args.Error(1)
}

// Close implements the LedgerStore interface.
func (m *MockLedgerStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
