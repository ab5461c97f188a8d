package items

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/luckyskyman/warehouse-inventory-system/internal/repository"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

var itemColumns = []interface{}{
	"id", "code", "name", "category", "manufacturer", "stock",
	"min_stock", "unit", "location", "box_size", "created_at", "updated_at",
}

// ItemRepository owns the canonical inventory records. Stock is only ever
// written through Create/ApplyDelta inside a mutator-held key lock; nothing
// else in the codebase touches the stock column.
type ItemRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ItemRepository {
	return &ItemRepository{repository: r}
}

func locationMatch(location string) goqu.Expression {
	return goqu.L("COALESCE(location, '') = ?", location)
}

// Find is the exact (code, location) lookup.
func (r *ItemRepository) Find(code, location string) (*models.InventoryItem, error) {
	return scanItem(r.repository.GoquDBWrapper.
		Select(itemColumns...).
		From("inventory_items").
		Where(goqu.Ex{"code": code}).
		Where(locationMatch(location)),
		code,
	)
}

// FindInTx re-reads the record inside the mutator's database transaction.
func (r *ItemRepository) FindInTx(tx *goqu.TxDatabase, code, location string) (*models.InventoryItem, error) {
	return scanItem(tx.
		Select(itemColumns...).
		From("inventory_items").
		Where(goqu.Ex{"code": code}).
		Where(locationMatch(location)),
		code,
	)
}

// FindFirstByCode returns any record carrying the code, used to auto-fill
// descriptive fields when an inbound creates the code at a new location.
func (r *ItemRepository) FindFirstByCode(code string) (*models.InventoryItem, error) {
	return scanItem(r.repository.GoquDBWrapper.
		Select(itemColumns...).
		From("inventory_items").
		Where(goqu.Ex{"code": code}).
		Order(goqu.I("id").Asc()).
		Limit(1),
		code,
	)
}

// FindWithStock picks the record of the code holding at least the requested
// quantity, preferring the fullest one. Used by outbound intents that do not
// pin a source location.
func (r *ItemRepository) FindWithStock(code string, quantity int) (*models.InventoryItem, error) {
	return scanItem(r.repository.GoquDBWrapper.
		Select(itemColumns...).
		From("inventory_items").
		Where(goqu.Ex{"code": code}).
		Where(goqu.C("stock").Gte(quantity)).
		Order(goqu.I("stock").Desc()).
		Limit(1),
		code,
	)
}

func scanItem(query *goqu.SelectDataset, code string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("inventory item", code)
	}
	return &item, nil
}

// Create inserts a new (code, location) record. Colliding with an existing
// pair yields DuplicateKeyError.
func (r *ItemRepository) Create(tx *goqu.TxDatabase, item *models.InventoryItem) error {
	query := tx.Insert("inventory_items").
		Rows(goqu.Record{
			"code":         item.Code,
			"name":         item.Name,
			"category":     item.Category,
			"manufacturer": item.Manufacturer,
			"stock":        item.Stock,
			"min_stock":    item.MinStock,
			"unit":         item.Unit,
			"location":     item.Location,
			"box_size":     item.BoxSize,
		}).
		Returning("id", "created_at", "updated_at")

	found, err := query.Executor().ScanStruct(item)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError(
				fmt.Sprintf("item %s already exists at %q", item.Code, item.LocationKey()),
				string(pqErr.Code),
			)
		}
		return fmt.Errorf("failed to insert inventory item record: %w", err)
	}
	if !found {
		return fmt.Errorf("insert of inventory item %s returned no row", item.Code)
	}

	return nil
}

// ApplyDelta atomically increments or decrements the stock of an existing
// record and returns its new state. NotFound when no record matches.
func (r *ItemRepository) ApplyDelta(tx *goqu.TxDatabase, code, location string, delta int) (*models.InventoryItem, error) {
	query := tx.Update("inventory_items").
		Set(goqu.Record{
			"stock":      goqu.L("stock + ?", delta),
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"code": code}).
		Where(locationMatch(location)).
		Returning(itemColumns...)

	var item models.InventoryItem
	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("failed to apply stock delta for %s: %w", code, err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("inventory item", code)
	}

	return &item, nil
}

func (r *ItemRepository) GetItem(id int) (*models.InventoryItem, error) {
	var item models.InventoryItem
	found, err := r.repository.GoquDBWrapper.
		Select(itemColumns...).
		From("inventory_items").
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("inventory item", fmt.Sprint(id))
	}

	return &item, nil
}

func (r *ItemRepository) GetItemsBy(conditions *ItemQuery) ([]models.InventoryItem, error) {
	query := r.repository.GoquDBWrapper.
		Select(itemColumns...).
		From("inventory_items").
		Order(goqu.I("code").Asc(), goqu.I("location").Asc())

	if conditions != nil {
		if conditions.Code != "" {
			query = query.Where(goqu.Ex{"code": conditions.Code})
		}
		if conditions.Category != "" {
			query = query.Where(goqu.Ex{"category": conditions.Category})
		}
		if conditions.Location != "" {
			query = query.Where(locationMatch(conditions.Location))
		}
		if conditions.Search != "" {
			pattern := "%" + conditions.Search + "%"
			query = query.Where(goqu.Or(
				goqu.I("code").ILike(pattern),
				goqu.I("name").ILike(pattern),
				goqu.I("manufacturer").ILike(pattern),
			))
		}
		if conditions.ShortageOnly {
			query = query.Where(goqu.L("stock < min_stock"))
		}
	}

	var found = []models.InventoryItem{}
	if err := query.Executor().ScanStructs(&found); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return found, nil
}

// AggregateStock sums live stock across every location holding the code.
// The second return value is the item name snapshot, empty when the code is
// unknown to the registry.
func (r *ItemRepository) AggregateStock(code string) (int, string, error) {
	var row struct {
		Total int    `db:"total"`
		Name  string `db:"name"`
	}

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.L("COALESCE(SUM(stock), 0)").As("total"),
			goqu.L("COALESCE(MAX(name), '')").As("name"),
		).
		From("inventory_items").
		Where(goqu.Ex{"code": code})

	if _, err := query.Executor().ScanStruct(&row); err != nil {
		return 0, "", fmt.Errorf("unable to aggregate stock for %s: %w", code, err)
	}

	return row.Total, row.Name, nil
}

func (r *ItemRepository) UpdateItem(id int, req *PatchItemRequest) (*models.InventoryItem, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Manufacturer != nil {
		updates["manufacturer"] = *req.Manufacturer
	}
	if req.MinStock != nil {
		updates["min_stock"] = *req.MinStock
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.BoxSize != nil {
		updates["box_size"] = *req.BoxSize
	}
	if len(updates) == 0 {
		return nil, custom_error.NewValidationError("no fields to update")
	}
	updates["updated_at"] = goqu.L("NOW()")

	query := r.repository.GoquDBWrapper.
		Update("inventory_items").
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Returning(itemColumns...)

	var item models.InventoryItem
	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("inventory item", fmt.Sprint(id))
	}

	return &item, nil
}

// SetLocation reassigns a record to a new location slot. The ledger keeps no
// entry for this: it is an administrative correction of the record, not a
// stock movement. Use a move transaction to relocate quantity.
func (r *ItemRepository) SetLocation(id int, newLocation *string) (*models.InventoryItem, error) {
	query := r.repository.GoquDBWrapper.
		Update("inventory_items").
		Set(goqu.Record{
			"location":   newLocation,
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": id}).
		Returning(itemColumns...)

	var item models.InventoryItem
	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError(
				fmt.Sprintf("item already exists at %q", models.LocationValue(newLocation)),
				string(pqErr.Code),
			)
		}
		return nil, fmt.Errorf("failed to relocate inventory item: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("inventory item", fmt.Sprint(id))
	}

	return &item, nil
}

func (r *ItemRepository) DeleteItem(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("inventory_items").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFoundError("inventory item", fmt.Sprint(id))
	}

	return nil
}

// DeleteAll clears the registry inside a sync-replace transaction.
func (r *ItemRepository) DeleteAll(tx *goqu.TxDatabase) error {
	if _, err := tx.Delete("inventory_items").Executor().Exec(); err != nil {
		return fmt.Errorf("failed to clear inventory items: %w", err)
	}
	return nil
}

func (r *ItemRepository) Stats() (*models.InventoryStats, error) {
	var row struct {
		TotalItems    int `db:"total_items"`
		TotalStock    int `db:"total_stock"`
		ShortageItems int `db:"shortage_items"`
	}

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.L("COUNT(*)").As("total_items"),
			goqu.L("COALESCE(SUM(stock), 0)").As("total_stock"),
			goqu.L("COUNT(*) FILTER (WHERE stock < min_stock)").As("shortage_items"),
		).
		From("inventory_items")

	if _, err := query.Executor().ScanStruct(&row); err != nil {
		return nil, fmt.Errorf("unable to compute inventory stats: %w", err)
	}

	return &models.InventoryStats{
		TotalItems:    row.TotalItems,
		TotalStock:    row.TotalStock,
		ShortageItems: row.ShortageItems,
	}, nil
}
