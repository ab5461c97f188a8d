package bom

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/luckyskyman/warehouse-inventory-system/internal/repository"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

type BomRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *BomRepository {
	return &BomRepository{repository: r}
}

// GetGuide returns all component rows of a guide. An unknown guide name is
// an empty slice, not an error.
func (r *BomRepository) GetGuide(guideName string) ([]models.BomGuide, error) {
	var rows = []models.BomGuide{}
	query := r.repository.GoquDBWrapper.
		Select("id", "guide_name", "item_code", "required_quantity", "created_at").
		From("bom_guides").
		Where(goqu.Ex{"guide_name": guideName}).
		Order(goqu.I("item_code").Asc())

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return rows, nil
}

func (r *BomRepository) GetGuideNames() ([]string, error) {
	var names = []string{}
	query := r.repository.GoquDBWrapper.
		Select("guide_name").
		From("bom_guides").
		GroupBy("guide_name").
		Order(goqu.I("guide_name").Asc())

	if err := query.Executor().ScanVals(&names); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return names, nil
}

func (r *BomRepository) PersistRow(row *models.BomGuide) error {
	query := r.repository.GoquDBWrapper.Insert("bom_guides").
		Rows(goqu.Record{
			"guide_name":        row.GuideName,
			"item_code":         row.ItemCode,
			"required_quantity": row.RequiredQuantity,
		}).
		Returning("id", "created_at")

	if _, err := query.Executor().ScanStruct(row); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError(
				fmt.Sprintf("component %s already listed in guide %s", row.ItemCode, row.GuideName),
				string(pqErr.Code),
			)
		}
		return fmt.Errorf("failed to insert BOM guide row: %w", err)
	}

	return nil
}

// DeleteGuide removes every component row of the guide.
func (r *BomRepository) DeleteGuide(guideName string) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("bom_guides").
		Where(goqu.Ex{"guide_name": guideName}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete BOM guide: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFoundError("BOM guide", guideName)
	}

	return nil
}
