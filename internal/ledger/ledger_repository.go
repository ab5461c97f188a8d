package ledger

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/luckyskyman/warehouse-inventory-system/internal/repository"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

var transactionColumns = []interface{}{
	"id", "type", "item_code", "item_name", "quantity",
	"from_location", "to_location", "reason", "memo", "user_id", "created_at",
}

// LedgerRepository owns the append-only transaction log. There is no update
// and no delete: a stored entry is immutable and survives item deletion.
type LedgerRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *LedgerRepository {
	return &LedgerRepository{repository: r}
}

// Append stores a new entry, assigning id and createdAt, and returns the
// stored record. The only failure mode besides infrastructure faults is
// malformed input.
func (r *LedgerRepository) Append(tx *goqu.TxDatabase, t *models.Transaction) (*models.Transaction, error) {
	if err := validate(t); err != nil {
		return nil, err
	}

	query := tx.Insert("transactions").
		Rows(goqu.Record{
			"type":          t.Type,
			"item_code":     t.ItemCode,
			"item_name":     t.ItemName,
			"quantity":      t.Quantity,
			"from_location": t.FromLocation,
			"to_location":   t.ToLocation,
			"reason":        t.Reason,
			"memo":          t.Memo,
			"user_id":       t.UserID,
		}).
		Returning("id", "created_at")

	var assigned struct {
		ID        int       `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	found, err := query.Executor().ScanStruct(&assigned)
	if err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("ledger append for %s returned no row", t.ItemCode)
	}

	stored := *t
	stored.ID = assigned.ID
	stored.CreatedAt = assigned.CreatedAt
	return &stored, nil
}

func validate(t *models.Transaction) error {
	if !t.IsValidType() {
		return custom_error.NewValidationError("unknown transaction type %q", t.Type)
	}
	if t.ItemCode == "" {
		return custom_error.NewValidationError("item code is required")
	}
	if t.Quantity <= 0 {
		return custom_error.NewValidationError("quantity must be positive, got %d", t.Quantity)
	}
	if t.FromLocation == nil && t.ToLocation == nil {
		return custom_error.NewValidationError("at least one of fromLocation/toLocation must be set")
	}
	return nil
}

// QueryFilter narrows a ledger read. Zero values mean no constraint.
type QueryFilter struct {
	ItemCode string
	From     *time.Time
	To       *time.Time
	Type     string
	Limit    uint
}

// Query returns matching entries ordered by createdAt descending. It is a
// pure read: calling it twice with no intervening appends yields identical
// results.
func (r *LedgerRepository) Query(filter QueryFilter) ([]models.Transaction, error) {
	query := r.repository.GoquDBWrapper.
		Select(transactionColumns...).
		From("transactions").
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc())

	if filter.ItemCode != "" {
		query = query.Where(goqu.Ex{"item_code": filter.ItemCode})
	}
	if filter.Type != "" {
		query = query.Where(goqu.Ex{"type": filter.Type})
	}
	if filter.From != nil {
		query = query.Where(goqu.C("created_at").Gte(*filter.From))
	}
	if filter.To != nil {
		query = query.Where(goqu.C("created_at").Lte(*filter.To))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var found = []models.Transaction{}
	if err := query.Executor().ScanStructs(&found); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return found, nil
}

// SumSigned folds the full history of a (code, location) pair into its net
// stock contribution. At any quiescent point this equals the registry's
// stock field for the pair.
func (r *LedgerRepository) SumSigned(code, location string) (int, error) {
	return sumSigned(r.repository.GoquDBWrapper.From("transactions"), code, location)
}

// SumSignedInTx is SumSigned inside a mutating transaction, used when
// synthesizing backfill entries that must land the history exactly on a
// target stock value.
func (r *LedgerRepository) SumSignedInTx(tx *goqu.TxDatabase, code, location string) (int, error) {
	return sumSigned(tx.From("transactions"), code, location)
}

func sumSigned(dataset *goqu.SelectDataset, code, location string) (int, error) {
	var total int
	query := dataset.
		Select(goqu.L(`COALESCE(SUM(CASE
			WHEN type = 'inbound' AND COALESCE(to_location, '') = ? THEN quantity
			WHEN type = 'outbound' AND COALESCE(from_location, '') = ? THEN -quantity
			WHEN type = 'move' AND COALESCE(from_location, '') = ? THEN -quantity
			WHEN type = 'move' AND COALESCE(to_location, '') = ? THEN quantity
			WHEN type = 'adjustment' AND COALESCE(to_location, '') = ? THEN quantity
			WHEN type = 'adjustment' AND COALESCE(from_location, '') = ? THEN -quantity
			ELSE 0 END), 0)`,
			location, location, location, location, location, location)).
		Where(goqu.Ex{"item_code": code})

	if _, err := query.Executor().ScanVal(&total); err != nil {
		return 0, fmt.Errorf("unable to sum ledger entries for %s: %w", code, err)
	}

	return total, nil
}
