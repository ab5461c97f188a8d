package items

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/luckyskyman/warehouse-inventory-system/internal/cache"
	"github.com/luckyskyman/warehouse-inventory-system/internal/repository"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

const (
	statsCacheKey = "inventory:stats"
	statsCacheTTL = 30 * time.Second

	// ReasonInitialStock tags the ledger entry synthesized when an item is
	// created administratively with non-zero stock, keeping the
	// stock-equals-ledger-sum invariant intact from birth.
	ReasonInitialStock = "초기 재고 등록"
)

type LedgerSource interface {
	Append(tx *goqu.TxDatabase, t *models.Transaction) (*models.Transaction, error)
	SumSigned(code, location string) (int, error)
	SumSignedInTx(tx *goqu.TxDatabase, code, location string) (int, error)
}

type ZoneCounter interface {
	CountZones() (int, error)
}

// RegistryStore is the repository slice the service drives.
type RegistryStore interface {
	Create(tx *goqu.TxDatabase, item *models.InventoryItem) error
	GetItem(id int) (*models.InventoryItem, error)
	DeleteItem(id int) error
	Find(code, location string) (*models.InventoryItem, error)
	FindFirstByCode(code string) (*models.InventoryItem, error)
	AggregateStock(code string) (total int, name string, err error)
	Stats() (*models.InventoryStats, error)
}

type ItemService struct {
	items  RegistryStore
	ledger LedgerSource
	zones  ZoneCounter
	cache  cache.Client
	runTx  func(fn func(tx *goqu.TxDatabase) error) error
	log    *zap.Logger
}

func NewService(
	r *repository.Repository,
	items RegistryStore,
	ledger LedgerSource,
	zones ZoneCounter,
	cacheClient cache.Client,
	log *zap.Logger,
) *ItemService {
	return &ItemService{
		items:  items,
		ledger: ledger,
		zones:  zones,
		cache:  cacheClient,
		runTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(r.GoquDBWrapper, fn)
		},
		log: log,
	}
}

// CreateItem registers a record explicitly, outside the inbound flow. A
// non-zero initial stock is backed by a synthesized adjustment entry so the
// ledger accounts for every unit the registry reports.
func (s *ItemService) CreateItem(req *CreateItemRequest, userID *int) (*models.InventoryItem, error) {
	item := &models.InventoryItem{
		Code:         req.Code,
		Name:         req.Name,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		Stock:        req.Stock,
		MinStock:     req.MinStock,
		Unit:         req.Unit,
		Location:     req.Location,
		BoxSize:      req.BoxSize,
	}

	err := s.runTx(func(tx *goqu.TxDatabase) error {
		if err := s.items.Create(tx, item); err != nil {
			return err
		}

		// A deleted record's ledger history survives; the backfill entry
		// must land the full history on the declared stock, not assume a
		// blank slate.
		location := item.LocationKey()
		priorSum, err := s.ledger.SumSignedInTx(tx, item.Code, location)
		if err != nil {
			return err
		}
		delta := item.Stock - priorSum
		if delta == 0 {
			return nil
		}

		entry := &models.Transaction{
			Type:     models.TransactionAdjustment,
			ItemCode: item.Code,
			ItemName: item.Name,
			Reason:   ReasonInitialStock,
			UserID:   userID,
		}
		if delta > 0 {
			entry.Quantity = delta
			entry.ToLocation = &location
		} else {
			entry.Quantity = -delta
			entry.FromLocation = &location
		}
		_, err = s.ledger.Append(tx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteItem removes a record. Non-zero stock blocks the delete unless the
// caller forces it, because the remaining units would silently vanish from
// the registry while their ledger history stays behind.
func (s *ItemService) DeleteItem(id int, force bool) error {
	item, err := s.items.GetItem(id)
	if err != nil {
		return err
	}

	if item.Stock != 0 && !force {
		return custom_error.NewConflictError(
			"item %s still holds %d %s; adjust to zero or pass force=true",
			item.Code, item.Stock, item.Unit,
		)
	}

	return s.items.DeleteItem(id)
}

// VerifyItem recomputes a record's stock from its full ledger history and
// reports both values. At any quiescent point they must be equal.
func (s *ItemService) VerifyItem(id int) (map[string]interface{}, error) {
	item, err := s.items.GetItem(id)
	if err != nil {
		return nil, err
	}

	ledgerSum, err := s.ledger.SumSigned(item.Code, item.LocationKey())
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"code":       item.Code,
		"location":   item.Location,
		"stock":      item.Stock,
		"ledgerSum":  ledgerSum,
		"consistent": item.Stock == ledgerSum,
	}, nil
}

// Stats serves the dashboard summary through a short-lived redis cache.
// Staleness here is benign: the stats view is advisory, never an input to a
// mutation.
func (s *ItemService) Stats(ctx context.Context) (*models.InventoryStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsCacheKey); err == nil {
			var stats models.InventoryStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		} else if err != cache.ErrCacheMiss {
			s.log.Warn("stats cache read failed", zap.Error(err))
		}
	}

	stats, err := s.items.Stats()
	if err != nil {
		return nil, err
	}

	zones, err := s.zones.CountZones()
	if err != nil {
		return nil, err
	}
	stats.WarehouseZones = zones

	if s.cache != nil {
		payload, err := json.Marshal(stats)
		if err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, string(payload), statsCacheTTL); err != nil {
				s.log.Warn("stats cache write failed", zap.Error(err))
			}
		}
	}

	return stats, nil
}

func (s *ItemService) Find(code, location string) (*models.InventoryItem, error) {
	if location != "" {
		return s.items.Find(code, location)
	}
	return s.items.FindFirstByCode(code)
}

func (s *ItemService) AggregateStock(code string) (int, error) {
	total, _, err := s.items.AggregateStock(code)
	if err != nil {
		return 0, fmt.Errorf("aggregate stock lookup failed: %w", err)
	}
	return total, nil
}
