package transactions

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/luckyskyman/warehouse-inventory-system/internal/keylock"
	"github.com/luckyskyman/warehouse-inventory-system/internal/locations"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

// fakeStore backs ItemStore, LedgerStore and ExchangeStore with in-memory
// maps. Its run method snapshots state and restores it when the closure
// fails, mirroring a rolled-back database transaction.
type fakeStore struct {
	mu     sync.Mutex
	items  map[string]*models.InventoryItem
	ledger []models.Transaction
	queue  []models.ExchangeQueueEntry
	nextID int

	appendErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[string]*models.InventoryItem)}
}

func (f *fakeStore) put(item models.InventoryItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	item.ID = f.nextID
	f.items[keylock.Key(item.Code, item.LocationKey())] = &item
}

func (f *fakeStore) stockAt(code, location string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item, ok := f.items[keylock.Key(code, location)]; ok {
		return item.Stock
	}
	return -1
}

func (f *fakeStore) FindInTx(_ *goqu.TxDatabase, code, location string) (*models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[keylock.Key(code, location)]
	if !ok {
		return nil, custom_error.NewNotFoundError("inventory item", code)
	}
	copied := *item
	return &copied, nil
}

func (f *fakeStore) FindFirstByCode(code string) (*models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if f.items[k].Code == code {
			copied := *f.items[k]
			return &copied, nil
		}
	}
	return nil, custom_error.NewNotFoundError("inventory item", code)
}

func (f *fakeStore) FindWithStock(code string, quantity int) (*models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var best *models.InventoryItem
	for _, item := range f.items {
		if item.Code != code || item.Stock < quantity {
			continue
		}
		if best == nil || item.Stock > best.Stock {
			best = item
		}
	}
	if best == nil {
		return nil, custom_error.NewNotFoundError("inventory item", code)
	}
	copied := *best
	return &copied, nil
}

func (f *fakeStore) Create(_ *goqu.TxDatabase, item *models.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := keylock.Key(item.Code, item.LocationKey())
	if _, exists := f.items[key]; exists {
		return custom_error.NewDuplicateKeyError("item %s already exists", item.Code)
	}
	f.nextID++
	item.ID = f.nextID
	copied := *item
	f.items[key] = &copied
	return nil
}

func (f *fakeStore) ApplyDelta(_ *goqu.TxDatabase, code, location string, delta int) (*models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[keylock.Key(code, location)]
	if !ok {
		return nil, custom_error.NewNotFoundError("inventory item", code)
	}
	item.Stock += delta
	copied := *item
	return &copied, nil
}

func (f *fakeStore) Append(_ *goqu.TxDatabase, t *models.Transaction) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.appendErr != nil {
		return nil, f.appendErr
	}
	f.nextID++
	t.ID = f.nextID
	t.CreatedAt = time.Now()
	f.ledger = append(f.ledger, *t)
	copied := *t
	return &copied, nil
}

func (f *fakeStore) Enqueue(_ *goqu.TxDatabase, entry *models.ExchangeQueueEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	entry.ID = f.nextID
	f.queue = append(f.queue, *entry)
	return nil
}

func (f *fakeStore) snapshot() *fakeStore {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := &fakeStore{
		items:  make(map[string]*models.InventoryItem, len(f.items)),
		ledger: append([]models.Transaction(nil), f.ledger...),
		queue:  append([]models.ExchangeQueueEntry(nil), f.queue...),
		nextID: f.nextID,
	}
	for k, v := range f.items {
		item := *v
		copied.items[k] = &item
	}
	return copied
}

func (f *fakeStore) restore(from *fakeStore) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = from.items
	f.ledger = from.ledger
	f.queue = from.queue
	f.nextID = from.nextID
}

// fakeResolver accepts any syntactically valid location string.
type fakeResolver struct{}

func (fakeResolver) Resolve(value string) (locations.Location, error) {
	return locations.Parse(value)
}

func newTestService(store *fakeStore) *Service {
	var txMu sync.Mutex
	return &Service{
		items:    store,
		ledger:   store,
		exchange: store,
		resolver: fakeResolver{},
		locks:    keylock.NewManager(2 * time.Second),
		runTx: func(fn func(tx *goqu.TxDatabase) error) error {
			txMu.Lock()
			defer txMu.Unlock()
			before := store.snapshot()
			if err := fn(nil); err != nil {
				store.restore(before)
				return err
			}
			return nil
		},
		log: zap.NewNop(),
	}
}

func TestProcessInboundCreatesRecord(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	entry, err := svc.Process(context.Background(), Intent{
		Type:       models.TransactionInbound,
		ItemCode:   "SCR-100",
		ItemName:   "Screw M4",
		Quantity:   50,
		ToLocation: "A-01-1층",
		Unit:       "EA",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.TransactionInbound, entry.Type)
	assert.Equal(t, 50, entry.Quantity)
	assert.Equal(t, "A-01-1층", models.LocationValue(entry.ToLocation))
	assert.Equal(t, 50, store.stockAt("SCR-100", "A-01-1층"))
	assert.Len(t, store.ledger, 1)
}

func TestProcessInboundIncrementsExisting(t *testing.T) {
	store := newFakeStore()
	store.put(models.InventoryItem{
		Code: "SCR-100", Name: "Screw M4", Stock: 20,
		Location: models.LocationPtr("A-01-1층"),
	})
	svc := newTestService(store)

	_, err := svc.Process(context.Background(), Intent{
		Type:       models.TransactionInbound,
		ItemCode:   "SCR-100",
		Quantity:   30,
		ToLocation: "A-01-1층",
	})

	assert.NoError(t, err)
	assert.Equal(t, 50, store.stockAt("SCR-100", "A-01-1층"))
}

func TestProcessInboundCopiesDescriptiveFields(t *testing.T) {
	store := newFakeStore()
	boxSize := 100
	store.put(models.InventoryItem{
		Code: "SCR-100", Name: "Screw M4", Category: "Fasteners",
		Manufacturer: "ACME", Stock: 20, MinStock: 5, Unit: "EA",
		Location: models.LocationPtr("A-01-1층"), BoxSize: &boxSize,
	})
	svc := newTestService(store)

	// New location, no descriptive fields supplied.
	_, err := svc.Process(context.Background(), Intent{
		Type:       models.TransactionInbound,
		ItemCode:   "SCR-100",
		Quantity:   10,
		ToLocation: "B-02-1층",
	})
	assert.NoError(t, err)

	created, err := store.FindInTx(nil, "SCR-100", "B-02-1층")
	assert.NoError(t, err)
	assert.Equal(t, "Screw M4", created.Name)
	assert.Equal(t, "Fasteners", created.Category)
	assert.Equal(t, "ACME", created.Manufacturer)
	assert.Equal(t, "EA", created.Unit)
	assert.Equal(t, 5, created.MinStock)
	assert.NotNil(t, created.BoxSize)
	assert.Equal(t, 10, created.Stock)
}

func TestProcessInboundRejectsMalformedLocation(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Process(context.Background(), Intent{
		Type:       models.TransactionInbound,
		ItemCode:   "SCR-100",
		Quantity:   10,
		ToLocation: "not a location",
	})

	var invalid *custom_error.InvalidLocationError
	assert.True(t, errors.As(err, &invalid))
	assert.Empty(t, store.ledger)
}

func TestProcessOutbound(t *testing.T) {
	store := newFakeStore()
	store.put(models.InventoryItem{
		Code: "SCR-100", Name: "Screw M4", Stock: 30,
		Location: models.LocationPtr("A-01-1층"),
	})
	svc := newTestService(store)

	entry, err := svc.Process(context.Background(), Intent{
		Type:         models.TransactionOutbound,
		ItemCode:     "SCR-100",
		Quantity:     10,
		FromLocation: "A-01-1층",
		Reason:       "주문 출고",
	})

	assert.NoError(t, err)
	assert.Equal(t, "A-01-1층", models.LocationValue(entry.FromLocation))
	assert.Nil(t, entry.ToLocation)
	assert.Equal(t, 20, store.stockAt("SCR-100", "A-01-1층"))
	assert.Empty(t, store.queue)
}

func TestProcessOutboundInsufficientStock(t *testing.T) {
	store := newFakeStore()
	store.put(models.InventoryItem{
		Code: "SCR-100", Stock: 5,
		Location: models.LocationPtr("A-01-1층"),
	})
	svc := newTestService(store)

	_, err := svc.Process(context.Background(), Intent{
		Type:         models.TransactionOutbound,
		ItemCode:     "SCR-100",
		Quantity:     10,
		FromLocation: "A-01-1층",
		Reason:       "주문 출고",
	})

	var insufficient *custom_error.InsufficientStockError
	assert.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 5, insufficient.Available)
	assert.Equal(t, 10, insufficient.Requested)

	// Rejection leaves no trace.
	assert.Equal(t, 5, store.stockAt("SCR-100", "A-01-1층"))
	assert.Empty(t, store.ledger)
}

func TestProcessOutboundAutoSelectsFullestRecord(t *testing.T) {
	store := newFakeStore()
	store.put(models.InventoryItem{Code: "SCR-100", Stock: 3, Location: models.LocationPtr("A-01-1층")})
	store.put(models.InventoryItem{Code: "SCR-100", Stock: 40, Location: models.LocationPtr("B-02-1층")})
	svc := newTestService(store)

	entry, err := svc.Process(context.Background(), Intent{
		Type:     models.TransactionOutbound,
		ItemCode: "SCR-100",
		Quantity: 10,
		Reason:   "주문 출고",
	})

	assert.NoError(t, err)
	assert.Equal(t, "B-02-1층", models.LocationValue(entry.FromLocation))
	assert.Equal(t, 30, store.stockAt("SCR-100", "B-02-1층"))
	assert.Equal(t, 3, store.stockAt("SCR-100", "A-01-1층"))
}

func TestProcessOutboundDefectiveExchangeEnqueues(t *testing.T) {
	store := newFakeStore()
	store.put(models.InventoryItem{
		Code: "SCR-100", Name: "Screw M4", Stock: 30,
		Location: models.LocationPtr("A-01-1층"),
	})
	svc := newTestService(store)

	_, err := svc.Process(context.Background(), Intent{
		Type:         models.TransactionOutbound,
		ItemCode:     "SCR-100",
		Quantity:     4,
		FromLocation: "A-01-1층",
		Reason:       models.ReasonDefectiveExchange,
	})

	assert.NoError(t, err)
	assert.Len(t, store.queue, 1)
	assert.Equal(t, "SCR-100", store.queue[0].ItemCode)
	assert.Equal(t, 4, store.queue[0].Quantity)
	assert.False(t, store.queue[0].Processed)
}

func TestProcessMove(t *testing.T) {
	store := newFakeStore()
	store.put(models.InventoryItem{
		Code: "SCR-100", Name: "Screw M4", Category: "Fasteners",
		Stock: 30, MinStock: 5, Unit: "EA",
		Location: models.LocationPtr("A-01-1층"),
	})
	svc := newTestService(store)

	entry, err := svc.Process(context.Background(), Intent{
		Type:         models.TransactionMove,
		ItemCode:     "SCR-100",
		Quantity:     12,
		FromLocation: "A-01-1층",
		ToLocation:   "B-02-1층",
	})

	assert.NoError(t, err)
	assert.Equal(t, 18, store.stockAt("SCR-100", "A-01-1층"))
	assert.Equal(t, 12, store.stockAt("SCR-100", "B-02-1층"))

	// One entry carrying both sides, not a debit plus a credit.
	assert.Len(t, store.ledger, 1)
	assert.Equal(t, "A-01-1층", models.LocationValue(entry.FromLocation))
	assert.Equal(t, "B-02-1층", models.LocationValue(entry.ToLocation))

	// Destination copies descriptive fields from the source record.
	dest, err := store.FindInTx(nil, "SCR-100", "B-02-1층")
	assert.NoError(t, err)
	assert.Equal(t, "Fasteners", dest.Category)
	assert.Equal(t, 5, dest.MinStock)
}

func TestProcessMoveSameLocation(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Process(context.Background(), Intent{
		Type:         models.TransactionMove,
		ItemCode:     "SCR-100",
		Quantity:     5,
		FromLocation: "A-01-1층",
		ToLocation:   "A-01-1층",
	})

	var same *custom_error.SameLocationError
	assert.True(t, errors.As(err, &same))
}

func TestProcessMoveRollsBackOnAppendFailure(t *testing.T) {
	store := newFakeStore()
	store.put(models.InventoryItem{
		Code: "SCR-100", Stock: 30,
		Location: models.LocationPtr("A-01-1층"),
	})
	store.appendErr = errors.New("ledger write failed")
	svc := newTestService(store)

	_, err := svc.Process(context.Background(), Intent{
		Type:         models.TransactionMove,
		ItemCode:     "SCR-100",
		Quantity:     12,
		FromLocation: "A-01-1층",
		ToLocation:   "B-02-1층",
	})

	assert.Error(t, err)
	assert.Equal(t, 30, store.stockAt("SCR-100", "A-01-1층"))
	assert.Equal(t, -1, store.stockAt("SCR-100", "B-02-1층"))
	assert.Empty(t, store.ledger)
}

func TestProcessAdjustment(t *testing.T) {
	tests := []struct {
		name         string
		current      int
		newStock     int
		wantQuantity int
		wantSide     string
	}{
		{name: "Decrease 30 to 25", current: 30, newStock: 25, wantQuantity: 5, wantSide: "from"},
		{name: "Increase 30 to 42", current: 30, newStock: 42, wantQuantity: 12, wantSide: "to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.put(models.InventoryItem{
				Code: "SCR-100", Stock: tt.current,
				Location: models.LocationPtr("A-01-1층"),
			})
			svc := newTestService(store)

			entry, err := svc.Process(context.Background(), Intent{
				Type:     models.TransactionAdjustment,
				ItemCode: "SCR-100",
				NewStock: &tt.newStock,
				Location: "A-01-1층",
				Reason:   "실사 조정",
			})

			assert.NoError(t, err)
			assert.Equal(t, tt.newStock, store.stockAt("SCR-100", "A-01-1층"))
			assert.Equal(t, tt.wantQuantity, entry.Quantity)
			if tt.wantSide == "from" {
				assert.Equal(t, "A-01-1층", models.LocationValue(entry.FromLocation))
				assert.Nil(t, entry.ToLocation)
			} else {
				assert.Equal(t, "A-01-1층", models.LocationValue(entry.ToLocation))
				assert.Nil(t, entry.FromLocation)
			}
		})
	}
}

func TestProcessAdjustmentNoChange(t *testing.T) {
	store := newFakeStore()
	store.put(models.InventoryItem{
		Code: "SCR-100", Stock: 30,
		Location: models.LocationPtr("A-01-1층"),
	})
	svc := newTestService(store)

	newStock := 30
	_, err := svc.Process(context.Background(), Intent{
		Type:     models.TransactionAdjustment,
		ItemCode: "SCR-100",
		NewStock: &newStock,
		Location: "A-01-1층",
		Reason:   "실사 조정",
	})

	var validation *custom_error.ValidationError
	assert.True(t, errors.As(err, &validation))
	assert.Empty(t, store.ledger)
}

func TestProcessRejectsUnknownType(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Process(context.Background(), Intent{
		Type:     "teleport",
		ItemCode: "SCR-100",
		Quantity: 1,
	})

	var validation *custom_error.ValidationError
	assert.True(t, errors.As(err, &validation))
}

// Ten workers race to take 3 units each from a stock of 10. Exactly three
// outbounds may succeed and the record must end at 1, never below zero.
func TestProcessConcurrentOutbounds(t *testing.T) {
	store := newFakeStore()
	store.put(models.InventoryItem{
		Code: "SCR-100", Stock: 10,
		Location: models.LocationPtr("A-01-1층"),
	})
	svc := newTestService(store)

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Process(context.Background(), Intent{
				Type:         models.TransactionOutbound,
				ItemCode:     "SCR-100",
				Quantity:     3,
				FromLocation: "A-01-1층",
				Reason:       "주문 출고",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, rejected := 0, 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var insufficient *custom_error.InsufficientStockError
		assert.True(t, errors.As(err, &insufficient))
		rejected++
	}

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 7, rejected)
	assert.Equal(t, 1, store.stockAt("SCR-100", "A-01-1층"))
	assert.Len(t, store.ledger, 3)
}
