package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/luckyskyman/warehouse-inventory-system/internal/transactions"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

type MockMutator struct {
	mock.Mock
}

func (m *MockMutator) Process(ctx context.Context, in transactions.Intent) (*models.Transaction, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

type MockItemWriter struct {
	mock.Mock
}

func (m *MockItemWriter) DeleteAll(tx *goqu.TxDatabase) error {
	args := m.Called(tx)
	return args.Error(0)
}

func (m *MockItemWriter) Create(tx *goqu.TxDatabase, item *models.InventoryItem) error {
	args := m.Called(tx, item)
	return args.Error(0)
}

type MockLedgerWriter struct {
	mock.Mock
}

func (m *MockLedgerWriter) Append(tx *goqu.TxDatabase, t *models.Transaction) (*models.Transaction, error) {
	args := m.Called(tx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedgerWriter) SumSignedInTx(tx *goqu.TxDatabase, code, location string) (int, error) {
	args := m.Called(tx, code, location)
	return args.Int(0), args.Error(1)
}

func newTestService(stocks *MockMutator, items *MockItemWriter, ledger *MockLedgerWriter) *Service {
	return &Service{
		stocks: stocks,
		items:  items,
		ledger: ledger,
		runTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return fn(nil)
		},
		log: zap.NewNop(),
	}
}

func TestBulkInboundReportsPerRow(t *testing.T) {
	stocks := new(MockMutator)
	service := newTestService(stocks, new(MockItemWriter), new(MockLedgerWriter))

	stocks.On("Process", mock.Anything, mock.MatchedBy(func(in transactions.Intent) bool {
		return in.ItemCode == "SCR-100" && in.Type == models.TransactionInbound
	})).Return(&models.Transaction{ID: 1}, nil).Once()
	stocks.On("Process", mock.Anything, mock.MatchedBy(func(in transactions.Intent) bool {
		return in.ItemCode == "BAD-1"
	})).Return(nil, custom_error.NewInvalidLocationError("nowhere", "not in warehouse layout")).Once()

	result := service.BulkInbound(context.Background(), []Row{
		{Code: "SCR-100", Quantity: 10, Location: "A-01-1층"},
		{Code: "BAD-1", Quantity: 5, Location: "nowhere"},
	}, nil)

	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Rows, 2)
	assert.Empty(t, result.Rows[0].Error)
	assert.NotEmpty(t, result.Rows[1].Error)
	stocks.AssertExpectations(t)
}

func TestSyncReplaceAllBackfillsDelta(t *testing.T) {
	items := new(MockItemWriter)
	ledger := new(MockLedgerWriter)
	service := newTestService(new(MockMutator), items, ledger)

	items.On("DeleteAll", mock.Anything).Return(nil).Once()
	items.On("Create", mock.Anything, mock.Anything).Return(nil).Times(3)

	// Surviving history already sums to 30; the sync declares 25, so the
	// synthesized entry must book 5 out.
	ledger.On("SumSignedInTx", mock.Anything, "SCR-100", "A-01-1층").Return(30, nil).Once()
	ledger.On("Append", mock.Anything, mock.MatchedBy(func(tr *models.Transaction) bool {
		return tr.Type == models.TransactionAdjustment &&
			tr.Quantity == 5 &&
			tr.Reason == ReasonBulkSync &&
			models.LocationValue(tr.FromLocation) == "A-01-1층" &&
			tr.ToLocation == nil
	})).Return(&models.Transaction{ID: 1}, nil).Once()

	// Fresh code: delta equals the declared stock, booked in.
	ledger.On("SumSignedInTx", mock.Anything, "PLT-200", "").Return(0, nil).Once()
	ledger.On("Append", mock.Anything, mock.MatchedBy(func(tr *models.Transaction) bool {
		return tr.Quantity == 12 && models.LocationValue(tr.ToLocation) == ""
	})).Return(&models.Transaction{ID: 2}, nil).Once()

	// History already matches: no entry at all.
	ledger.On("SumSignedInTx", mock.Anything, "NUT-300", "B-02-1층").Return(8, nil).Once()

	result, err := service.SyncReplaceAll(context.Background(), []Row{
		{Code: "SCR-100", Name: "Screw M4", Quantity: 25, Location: "A-01-1층"},
		{Code: "PLT-200", Name: "Plate", Quantity: 12},
		{Code: "NUT-300", Name: "Nut", Quantity: 8, Location: "B-02-1층"},
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, 3, result.Succeeded)
	items.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestSyncReplaceAllValidatesUpFront(t *testing.T) {
	items := new(MockItemWriter)
	service := newTestService(new(MockMutator), items, new(MockLedgerWriter))

	_, err := service.SyncReplaceAll(context.Background(), []Row{
		{Code: "SCR-100", Quantity: 10},
		{Code: "", Quantity: 5},
	}, nil)

	var validation *custom_error.ValidationError
	assert.ErrorAs(t, err, &validation)
	// Nothing may be wiped when the payload is rejected.
	items.AssertNotCalled(t, "DeleteAll", mock.Anything)
}

func TestSyncReplaceAllAbortsOnCreateFailure(t *testing.T) {
	items := new(MockItemWriter)
	ledger := new(MockLedgerWriter)
	service := newTestService(new(MockMutator), items, ledger)

	items.On("DeleteAll", mock.Anything).Return(nil).Once()
	items.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()

	_, err := service.SyncReplaceAll(context.Background(), []Row{
		{Code: "SCR-100", Quantity: 10},
	}, nil)

	assert.Error(t, err)
}
