package locations

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/luckyskyman/warehouse-inventory-system/internal/repository"
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

type LayoutRepository struct {
	Repository *repository.Repository
}

func NewLayoutRepository(r *repository.Repository) *LayoutRepository {
	return &LayoutRepository{Repository: r}
}

func (r *LayoutRepository) GetZones() ([]models.WarehouseZone, error) {
	var zones = []models.WarehouseZone{}
	query := r.Repository.GoquDBWrapper.
		Select("id", "zone_name", "sub_zone_name", "floors", "created_at").
		From("warehouse_layout").
		Order(goqu.I("zone_name").Asc(), goqu.I("sub_zone_name").Asc())

	if err := query.Executor().ScanStructs(&zones); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return zones, nil
}

func (r *LayoutRepository) GetZone(zoneName, subZoneName string) (*models.WarehouseZone, error) {
	var zone models.WarehouseZone
	query := r.Repository.GoquDBWrapper.
		Select("id", "zone_name", "sub_zone_name", "floors", "created_at").
		From("warehouse_layout").
		Where(goqu.Ex{"zone_name": zoneName, "sub_zone_name": subZoneName})

	found, err := query.Executor().ScanStruct(&zone)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFoundError("warehouse zone", zoneName+"/"+subZoneName)
	}

	return &zone, nil
}

func (r *LayoutRepository) PersistZone(zone *models.WarehouseZone) error {
	query := r.Repository.GoquDBWrapper.Insert("warehouse_layout").
		Rows(goqu.Record{
			"zone_name":     zone.ZoneName,
			"sub_zone_name": zone.SubZoneName,
			"floors":        zone.Floors,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&zone.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError(
				fmt.Sprintf("zone %s/%s already declared", zone.ZoneName, zone.SubZoneName),
				string(pqErr.Code),
			)
		}
		return fmt.Errorf("failed to insert warehouse zone record: %w", err)
	}

	return nil
}

func (r *LayoutRepository) UpdateZone(zoneID int, req UpdateZoneRequest) (models.WarehouseZone, error) {
	updates := make(map[string]interface{})

	if req.ZoneName != nil {
		updates["zone_name"] = *req.ZoneName
	}
	if req.SubZoneName != nil {
		updates["sub_zone_name"] = *req.SubZoneName
	}
	if req.Floors != nil {
		updates["floors"] = pq.StringArray(req.Floors)
	}
	if len(updates) == 0 {
		return models.WarehouseZone{}, custom_error.NewValidationError("no fields to update")
	}

	query := r.Repository.GoquDBWrapper.
		Update("warehouse_layout").
		Set(updates).
		Where(goqu.Ex{"id": zoneID}).
		Returning("id", "zone_name", "sub_zone_name", "floors", "created_at")

	var zone models.WarehouseZone
	found, err := query.Executor().ScanStruct(&zone)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return models.WarehouseZone{}, custom_error.WrapDBError("zone with same name already declared", string(pqErr.Code))
		}
		return models.WarehouseZone{}, fmt.Errorf("failed to update warehouse zone: %w", err)
	}
	if !found {
		return models.WarehouseZone{}, custom_error.NewNotFoundError("warehouse zone", fmt.Sprint(zoneID))
	}

	return zone, nil
}

func (r *LayoutRepository) RemoveZone(zoneID int) error {
	result, err := r.Repository.GoquDBWrapper.
		Delete("warehouse_layout").
		Where(goqu.Ex{"id": zoneID}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete warehouse zone: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFoundError("warehouse zone", fmt.Sprint(zoneID))
	}

	return nil
}

func (r *LayoutRepository) CountZones() (int, error) {
	var count int
	query := r.Repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From("warehouse_layout")

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("unable to count warehouse zones: %w", err)
	}

	return count, nil
}
