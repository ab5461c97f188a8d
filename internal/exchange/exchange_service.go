package exchange

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/luckyskyman/warehouse-inventory-system/internal/transactions"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

// ReasonExchangeInbound marks the compensating inbound booked when a
// pending exchange entry is processed.
const ReasonExchangeInbound = "교환품 입고"

type QueueStore interface {
	GetEntry(id int) (*models.ExchangeQueueEntry, error)
	MarkProcessed(id int) error
	MarkPending(id int) error
	GetPending() ([]models.ExchangeQueueEntry, error)
	Enqueue(tx *goqu.TxDatabase, entry *models.ExchangeQueueEntry) error
}

type Mutator interface {
	Process(ctx context.Context, in transactions.Intent) (*models.Transaction, error)
}

type ItemLocator interface {
	FindFirstByCode(code string) (*models.InventoryItem, error)
}

// Service consumes pending exchange entries: flipping the processed flag and
// booking the replacement goods back in as an inbound transaction.
type Service struct {
	queue  QueueStore
	stocks Mutator
	items  ItemLocator
	log    *zap.Logger
}

func NewService(queue QueueStore, stocks Mutator, items ItemLocator, log *zap.Logger) *Service {
	return &Service{queue: queue, stocks: stocks, items: items, log: log}
}

// ProcessEntry handles one pending entry. The flag flips first under its
// pending-state guard so two concurrent calls cannot both book the inbound;
// if the inbound is then rejected the flag is restored.
func (s *Service) ProcessEntry(ctx context.Context, id int, toLocation string, userID *int) (*models.Transaction, error) {
	entry, err := s.queue.GetEntry(id)
	if err != nil {
		return nil, err
	}
	if entry.Processed {
		return nil, custom_error.NewConflictError("exchange queue entry %d is already processed", id)
	}

	if toLocation == "" {
		item, err := s.items.FindFirstByCode(entry.ItemCode)
		if err != nil {
			return nil, err
		}
		toLocation = item.LocationKey()
		if toLocation == "" {
			return nil, custom_error.NewValidationError("item %s has no location, a target location is required", entry.ItemCode)
		}
	}

	if err := s.queue.MarkProcessed(id); err != nil {
		return nil, err
	}

	stored, err := s.stocks.Process(ctx, transactions.Intent{
		Type:       models.TransactionInbound,
		ItemCode:   entry.ItemCode,
		ItemName:   entry.ItemName,
		Quantity:   entry.Quantity,
		ToLocation: toLocation,
		Reason:     ReasonExchangeInbound,
		UserID:     userID,
	})
	if err != nil {
		if revertErr := s.queue.MarkPending(id); revertErr != nil {
			s.log.Error("failed to restore exchange entry after rejected inbound",
				zap.Int("entry_id", id),
				zap.Error(revertErr),
			)
		}
		return nil, err
	}

	s.log.Info("exchange entry processed",
		zap.Int("entry_id", id),
		zap.String("code", entry.ItemCode),
		zap.Int("quantity", entry.Quantity),
	)
	return stored, nil
}

func (s *Service) Pending() ([]models.ExchangeQueueEntry, error) {
	return s.queue.GetPending()
}
