package exchange

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/luckyskyman/warehouse-inventory-system/internal/repository"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

type ExchangeRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ExchangeRepository {
	return &ExchangeRepository{repository: r}
}

// Enqueue inserts a pending entry inside the outbound's own transaction, so
// the queue entry exists exactly when the defective outbound is recorded.
func (r *ExchangeRepository) Enqueue(tx *goqu.TxDatabase, entry *models.ExchangeQueueEntry) error {
	query := tx.Insert("exchange_queue").
		Rows(goqu.Record{
			"item_code":     entry.ItemCode,
			"item_name":     entry.ItemName,
			"quantity":      entry.Quantity,
			"outbound_date": entry.OutboundDate,
			"processed":     false,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&entry.ID); err != nil {
		return fmt.Errorf("failed to insert exchange queue entry: %w", err)
	}

	return nil
}

func (r *ExchangeRepository) GetPending() ([]models.ExchangeQueueEntry, error) {
	var entries = []models.ExchangeQueueEntry{}
	query := r.repository.GoquDBWrapper.
		Select("id", "item_code", "item_name", "quantity", "outbound_date", "processed").
		From("exchange_queue").
		Where(goqu.Ex{"processed": false}).
		Order(goqu.I("outbound_date").Asc())

	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return entries, nil
}

func (r *ExchangeRepository) GetEntry(id int) (*models.ExchangeQueueEntry, error) {
	var entry models.ExchangeQueueEntry
	found, err := r.repository.GoquDBWrapper.
		Select("id", "item_code", "item_name", "quantity", "outbound_date", "processed").
		From("exchange_queue").
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&entry)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("exchange queue entry", fmt.Sprint(id))
	}

	return &entry, nil
}

// MarkProcessed flips the entry from pending to processed. The guard on the
// previous state makes processing idempotence-safe: a second attempt finds
// no pending row and reports NotFound.
func (r *ExchangeRepository) MarkProcessed(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Update("exchange_queue").
		Set(goqu.Record{"processed": true}).
		Where(goqu.Ex{"id": id, "processed": false}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to mark exchange entry processed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFoundError("pending exchange queue entry", fmt.Sprint(id))
	}

	return nil
}

// MarkPending restores an entry after its compensating inbound was rejected.
func (r *ExchangeRepository) MarkPending(id int) error {
	if _, err := r.repository.GoquDBWrapper.
		Update("exchange_queue").
		Set(goqu.Record{"processed": false}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec(); err != nil {
		return fmt.Errorf("failed to restore exchange entry: %w", err)
	}

	return nil
}
