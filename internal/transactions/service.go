package transactions

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/luckyskyman/warehouse-inventory-system/internal/keylock"
	"github.com/luckyskyman/warehouse-inventory-system/internal/locations"
	"github.com/luckyskyman/warehouse-inventory-system/internal/repository"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

// ItemStore is the registry slice the mutator drives. All stock writes flow
// through Create/ApplyDelta inside the mutator's key lock.
type ItemStore interface {
	FindInTx(tx *goqu.TxDatabase, code, location string) (*models.InventoryItem, error)
	FindFirstByCode(code string) (*models.InventoryItem, error)
	FindWithStock(code string, quantity int) (*models.InventoryItem, error)
	Create(tx *goqu.TxDatabase, item *models.InventoryItem) error
	ApplyDelta(tx *goqu.TxDatabase, code, location string, delta int) (*models.InventoryItem, error)
}

type LedgerStore interface {
	Append(tx *goqu.TxDatabase, t *models.Transaction) (*models.Transaction, error)
}

type ExchangeStore interface {
	Enqueue(tx *goqu.TxDatabase, entry *models.ExchangeQueueEntry) error
}

type LocationResolver interface {
	Resolve(value string) (locations.Location, error)
}

// TxRunner runs fn as one database transaction. Substituted in tests.
type TxRunner func(fn func(tx *goqu.TxDatabase) error) error

// Service translates transaction intents into a validated ledger append plus
// registry update, as a single logical unit. Per (code, location) key the
// whole load-validate-mutate-append sequence is exclusive; failures leave no
// partial state.
type Service struct {
	items    ItemStore
	ledger   LedgerStore
	exchange ExchangeStore
	resolver LocationResolver
	locks    *keylock.Manager
	runTx    TxRunner
	log      *zap.Logger
}

func NewService(
	r *repository.Repository,
	items ItemStore,
	ledger LedgerStore,
	exchange ExchangeStore,
	resolver LocationResolver,
	locks *keylock.Manager,
	log *zap.Logger,
) *Service {
	return &Service{
		items:    items,
		ledger:   ledger,
		exchange: exchange,
		resolver: resolver,
		locks:    locks,
		runTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(r.GoquDBWrapper, fn)
		},
		log: log,
	}
}

// Process applies one transaction intent and returns the stored ledger
// entry. Every rejection is a typed business error surfaced synchronously;
// nothing is retried here.
func (s *Service) Process(ctx context.Context, in Intent) (*models.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	switch in.Type {
	case models.TransactionInbound:
		return s.inbound(ctx, in)
	case models.TransactionOutbound:
		return s.outbound(ctx, in)
	case models.TransactionMove:
		return s.move(ctx, in)
	default:
		return s.adjust(ctx, in)
	}
}

func (s *Service) inbound(ctx context.Context, in Intent) (*models.Transaction, error) {
	if _, err := s.resolver.Resolve(in.ToLocation); err != nil {
		return nil, err
	}

	release, err := s.locks.Acquire(ctx, keylock.Key(in.ItemCode, in.ToLocation))
	if err != nil {
		return nil, err
	}
	defer release()

	var stored *models.Transaction
	err = s.runTx(func(tx *goqu.TxDatabase) error {
		item, err := s.items.FindInTx(tx, in.ItemCode, in.ToLocation)
		switch {
		case err == nil:
			if item, err = s.items.ApplyDelta(tx, in.ItemCode, in.ToLocation, in.Quantity); err != nil {
				return err
			}
		case isNotFound(err):
			item, err = s.createFromIntent(tx, in)
			if err != nil {
				return err
			}
		default:
			return err
		}

		stored, err = s.ledger.Append(tx, &models.Transaction{
			Type:       models.TransactionInbound,
			ItemCode:   in.ItemCode,
			ItemName:   snapshotName(in.ItemName, item),
			Quantity:   in.Quantity,
			ToLocation: models.LocationPtr(in.ToLocation),
			Reason:     in.Reason,
			Memo:       in.Memo,
			UserID:     in.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("inbound applied",
		zap.String("code", in.ItemCode),
		zap.Int("quantity", in.Quantity),
		zap.String("location", in.ToLocation),
	)
	return stored, nil
}

// createFromIntent builds the new record for an inbound at a fresh
// (code, location) pair. Descriptive fields fall back to an existing record
// of the same code at another location, keeping category and unit coherent
// across locations of one product.
func (s *Service) createFromIntent(tx *goqu.TxDatabase, in Intent) (*models.InventoryItem, error) {
	item := &models.InventoryItem{
		Code:         in.ItemCode,
		Name:         in.ItemName,
		Category:     in.Category,
		Manufacturer: in.Manufacturer,
		Stock:        in.Quantity,
		MinStock:     in.MinStock,
		Unit:         in.Unit,
		Location:     models.LocationPtr(in.ToLocation),
		BoxSize:      in.BoxSize,
	}

	if known, err := s.items.FindFirstByCode(in.ItemCode); err == nil {
		if item.Name == "" {
			item.Name = known.Name
		}
		if item.Category == "" {
			item.Category = known.Category
		}
		if item.Manufacturer == "" {
			item.Manufacturer = known.Manufacturer
		}
		if item.Unit == "" {
			item.Unit = known.Unit
		}
		if item.MinStock == 0 {
			item.MinStock = known.MinStock
		}
		if item.BoxSize == nil {
			item.BoxSize = known.BoxSize
		}
	} else if !isNotFound(err) {
		return nil, err
	}

	if err := s.items.Create(tx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) outbound(ctx context.Context, in Intent) (*models.Transaction, error) {
	fromLocation, err := s.resolveSource(in)
	if err != nil {
		return nil, err
	}

	release, err := s.locks.Acquire(ctx, keylock.Key(in.ItemCode, fromLocation))
	if err != nil {
		return nil, err
	}
	defer release()

	var stored *models.Transaction
	err = s.runTx(func(tx *goqu.TxDatabase) error {
		item, err := s.items.FindInTx(tx, in.ItemCode, fromLocation)
		if err != nil {
			return err
		}
		if item.Stock < in.Quantity {
			return &custom_error.InsufficientStockError{
				Code:      in.ItemCode,
				Location:  fromLocation,
				Available: item.Stock,
				Requested: in.Quantity,
			}
		}

		if _, err = s.items.ApplyDelta(tx, in.ItemCode, fromLocation, -in.Quantity); err != nil {
			return err
		}

		name := snapshotName(in.ItemName, item)
		// An unassigned source still records its (empty) location side so
		// the entry's direction stays reconstructable.
		fromPtr := &fromLocation
		stored, err = s.ledger.Append(tx, &models.Transaction{
			Type:         models.TransactionOutbound,
			ItemCode:     in.ItemCode,
			ItemName:     name,
			Quantity:     in.Quantity,
			FromLocation: fromPtr,
			Reason:       in.Reason,
			Memo:         in.Memo,
			UserID:       in.UserID,
		})
		if err != nil {
			return err
		}

		// Defective goods leave pending a compensating inbound.
		if in.Reason == models.ReasonDefectiveExchange {
			return s.exchange.Enqueue(tx, &models.ExchangeQueueEntry{
				ItemCode:     in.ItemCode,
				ItemName:     name,
				Quantity:     in.Quantity,
				OutboundDate: time.Now(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("outbound applied",
		zap.String("code", in.ItemCode),
		zap.Int("quantity", in.Quantity),
		zap.String("location", fromLocation),
		zap.String("reason", in.Reason),
	)
	return stored, nil
}

// resolveSource pins the record an outbound debits. With an explicit source
// location that record is used as-is; otherwise the fullest record holding
// enough stock wins, falling back to any record of the code so the shortage
// is reported against real state instead of as a missing item.
func (s *Service) resolveSource(in Intent) (string, error) {
	if in.FromLocation != "" {
		return in.FromLocation, nil
	}

	item, err := s.items.FindWithStock(in.ItemCode, in.Quantity)
	if err == nil {
		return item.LocationKey(), nil
	}
	if !isNotFound(err) {
		return "", err
	}

	item, err = s.items.FindFirstByCode(in.ItemCode)
	if err != nil {
		return "", err
	}
	return item.LocationKey(), nil
}

func (s *Service) move(ctx context.Context, in Intent) (*models.Transaction, error) {
	if _, err := s.resolver.Resolve(in.ToLocation); err != nil {
		return nil, err
	}

	// Both keys at once; Acquire orders them so opposing moves cannot
	// deadlock.
	release, err := s.locks.Acquire(ctx,
		keylock.Key(in.ItemCode, in.FromLocation),
		keylock.Key(in.ItemCode, in.ToLocation),
	)
	if err != nil {
		return nil, err
	}
	defer release()

	var stored *models.Transaction
	err = s.runTx(func(tx *goqu.TxDatabase) error {
		source, err := s.items.FindInTx(tx, in.ItemCode, in.FromLocation)
		if err != nil {
			return err
		}
		if source.Stock < in.Quantity {
			return &custom_error.InsufficientStockError{
				Code:      in.ItemCode,
				Location:  in.FromLocation,
				Available: source.Stock,
				Requested: in.Quantity,
			}
		}

		if _, err = s.items.ApplyDelta(tx, in.ItemCode, in.FromLocation, -in.Quantity); err != nil {
			return err
		}

		_, err = s.items.FindInTx(tx, in.ItemCode, in.ToLocation)
		switch {
		case err == nil:
			if _, err = s.items.ApplyDelta(tx, in.ItemCode, in.ToLocation, in.Quantity); err != nil {
				return err
			}
		case isNotFound(err):
			dest := &models.InventoryItem{
				Code:         source.Code,
				Name:         source.Name,
				Category:     source.Category,
				Manufacturer: source.Manufacturer,
				Stock:        in.Quantity,
				MinStock:     source.MinStock,
				Unit:         source.Unit,
				Location:     models.LocationPtr(in.ToLocation),
				BoxSize:      source.BoxSize,
			}
			if err = s.items.Create(tx, dest); err != nil {
				return err
			}
		default:
			return err
		}

		stored, err = s.ledger.Append(tx, &models.Transaction{
			Type:         models.TransactionMove,
			ItemCode:     in.ItemCode,
			ItemName:     snapshotName(in.ItemName, source),
			Quantity:     in.Quantity,
			FromLocation: models.LocationPtr(in.FromLocation),
			ToLocation:   models.LocationPtr(in.ToLocation),
			Reason:       in.Reason,
			Memo:         in.Memo,
			UserID:       in.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("move applied",
		zap.String("code", in.ItemCode),
		zap.Int("quantity", in.Quantity),
		zap.String("from", in.FromLocation),
		zap.String("to", in.ToLocation),
	)
	return stored, nil
}

// adjust corrects a record to an absolute stock value. The ledger entry
// records |delta| and encodes the direction by which location side is set,
// so before/after reconstructs from the entry alone.
func (s *Service) adjust(ctx context.Context, in Intent) (*models.Transaction, error) {
	release, err := s.locks.Acquire(ctx, keylock.Key(in.ItemCode, in.Location))
	if err != nil {
		return nil, err
	}
	defer release()

	var stored *models.Transaction
	err = s.runTx(func(tx *goqu.TxDatabase) error {
		item, err := s.items.FindInTx(tx, in.ItemCode, in.Location)
		if err != nil {
			return err
		}

		delta := *in.NewStock - item.Stock
		if delta == 0 {
			return custom_error.NewValidationError("stock of %s is already %d", in.ItemCode, item.Stock)
		}

		if _, err = s.items.ApplyDelta(tx, in.ItemCode, in.Location, delta); err != nil {
			return err
		}

		entry := &models.Transaction{
			Type:     models.TransactionAdjustment,
			ItemCode: in.ItemCode,
			ItemName: snapshotName(in.ItemName, item),
			Reason:   in.Reason,
			Memo:     in.Memo,
			UserID:   in.UserID,
		}
		if delta > 0 {
			entry.Quantity = delta
			entry.ToLocation = models.LocationPtr(in.Location)
		} else {
			entry.Quantity = -delta
			entry.FromLocation = models.LocationPtr(in.Location)
		}
		if entry.FromLocation == nil && entry.ToLocation == nil {
			// Unassigned record: keep the direction visible through the
			// location side even though the location itself is empty.
			unassigned := ""
			if delta > 0 {
				entry.ToLocation = &unassigned
			} else {
				entry.FromLocation = &unassigned
			}
		}

		stored, err = s.ledger.Append(tx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("adjustment applied",
		zap.String("code", in.ItemCode),
		zap.Int("new_stock", *in.NewStock),
		zap.String("reason", in.Reason),
	)
	return stored, nil
}

func snapshotName(requested string, item *models.InventoryItem) string {
	if requested != "" {
		return requested
	}
	if item != nil {
		return item.Name
	}
	return ""
}

func isNotFound(err error) bool {
	_, ok := err.(*custom_error.NotFoundError)
	return ok
}
