package importer

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luckyskyman/warehouse-inventory-system/internal/repository"
	"github.com/luckyskyman/warehouse-inventory-system/internal/transactions"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

// ReasonBulkSync tags the ledger entries synthesized by a full-overwrite
// sync, one per recreated record, so the stock-equals-ledger-sum invariant
// survives the overwrite.
const ReasonBulkSync = "전체 재고 동기화"

// Row is one normalized record handed in by the external file producer.
// Whatever parsed the file (Excel adapter, JSON body) has already flattened
// it to this shape; the importer treats rows as independent intents.
type Row struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Manufacturer string `json:"manufacturer"`
	Quantity     int    `json:"quantity"`
	MinStock     int    `json:"minStock"`
	Unit         string `json:"unit"`
	Location     string `json:"location"`
	BoxSize      *int   `json:"boxSize"`
	Memo         string `json:"memo"`
}

// RowResult reports the outcome of one row of a bulk operation.
type RowResult struct {
	Code  string `json:"code"`
	Error string `json:"error,omitempty"`
}

// BatchResult summarizes a bulk operation under its batch id.
type BatchResult struct {
	BatchID   string      `json:"batchId"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Rows      []RowResult `json:"rows"`
}

type ItemWriter interface {
	DeleteAll(tx *goqu.TxDatabase) error
	Create(tx *goqu.TxDatabase, item *models.InventoryItem) error
}

type LedgerWriter interface {
	Append(tx *goqu.TxDatabase, t *models.Transaction) (*models.Transaction, error)
	SumSignedInTx(tx *goqu.TxDatabase, code, location string) (int, error)
}

type Mutator interface {
	Process(ctx context.Context, in transactions.Intent) (*models.Transaction, error)
}

// Service is the boundary for already-normalized file imports.
type Service struct {
	stocks Mutator
	items  ItemWriter
	ledger LedgerWriter
	runTx  func(fn func(tx *goqu.TxDatabase) error) error
	log    *zap.Logger
}

func NewService(
	r *repository.Repository,
	stocks Mutator,
	items ItemWriter,
	ledger LedgerWriter,
	log *zap.Logger,
) *Service {
	return &Service{
		stocks: stocks,
		items:  items,
		ledger: ledger,
		runTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(r.GoquDBWrapper, fn)
		},
		log: log,
	}
}

// BulkInbound books each row as an independent inbound transaction. A
// rejected row does not stop the batch; the per-row outcome is reported.
func (s *Service) BulkInbound(ctx context.Context, rows []Row, userID *int) *BatchResult {
	result := &BatchResult{
		BatchID: uuid.NewString(),
		Rows:    make([]RowResult, 0, len(rows)),
	}

	for _, row := range rows {
		_, err := s.stocks.Process(ctx, transactions.Intent{
			Type:         models.TransactionInbound,
			ItemCode:     row.Code,
			ItemName:     row.Name,
			Quantity:     row.Quantity,
			ToLocation:   row.Location,
			Category:     row.Category,
			Manufacturer: row.Manufacturer,
			Unit:         row.Unit,
			MinStock:     row.MinStock,
			BoxSize:      row.BoxSize,
			Memo:         row.Memo,
			Reason:       "대량 입고 (" + result.BatchID + ")",
			UserID:       userID,
		})

		rowResult := RowResult{Code: row.Code}
		if err != nil {
			rowResult.Error = err.Error()
			result.Failed++
		} else {
			result.Succeeded++
		}
		result.Rows = append(result.Rows, rowResult)
	}

	s.log.Info("bulk inbound finished",
		zap.String("batch_id", result.BatchID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result
}

// SyncReplaceAll overwrites the whole registry with the supplied rows in one
// database transaction: delete everything, recreate each record with its
// given stock, and synthesize an adjustment entry per record so the ledger
// still accounts for every unit the registry reports.
func (s *Service) SyncReplaceAll(ctx context.Context, rows []Row, userID *int) (*BatchResult, error) {
	for _, row := range rows {
		if row.Code == "" {
			return nil, custom_error.NewValidationError("sync row without product code")
		}
		if row.Quantity < 0 {
			return nil, custom_error.NewValidationError("sync row %s has negative stock %d", row.Code, row.Quantity)
		}
	}

	result := &BatchResult{BatchID: uuid.NewString()}

	err := s.runTx(func(tx *goqu.TxDatabase) error {
		if err := s.items.DeleteAll(tx); err != nil {
			return err
		}

		for _, row := range rows {
			item := &models.InventoryItem{
				Code:         row.Code,
				Name:         row.Name,
				Category:     row.Category,
				Manufacturer: row.Manufacturer,
				Stock:        row.Quantity,
				MinStock:     row.MinStock,
				Unit:         row.Unit,
				Location:     models.LocationPtr(row.Location),
				BoxSize:      row.BoxSize,
			}
			if err := s.items.Create(tx, item); err != nil {
				return err
			}

			// Ledger entries of the pre-sync history survive the overwrite,
			// so the synthesized entry records the delta that lands the
			// history exactly on the supplied stock value.
			priorSum, err := s.ledger.SumSignedInTx(tx, row.Code, row.Location)
			if err != nil {
				return err
			}
			if delta := row.Quantity - priorSum; delta != 0 {
				location := row.Location
				entry := &models.Transaction{
					Type:     models.TransactionAdjustment,
					ItemCode: row.Code,
					ItemName: row.Name,
					Reason:   ReasonBulkSync,
					Memo:     result.BatchID,
					UserID:   userID,
				}
				if delta > 0 {
					entry.Quantity = delta
					entry.ToLocation = &location
				} else {
					entry.Quantity = -delta
					entry.FromLocation = &location
				}
				if _, err := s.ledger.Append(tx, entry); err != nil {
					return err
				}
			}
			result.Succeeded++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("full inventory sync finished",
		zap.String("batch_id", result.BatchID),
		zap.Int("records", result.Succeeded),
	)
	return result, nil
}
