package locations

import (
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

// ZoneSource is the slice of the layout repository the resolver needs.
type ZoneSource interface {
	GetZone(zoneName, subZoneName string) (*models.WarehouseZone, error)
}

// Resolver validates location strings against the declared warehouse layout.
type Resolver struct {
	layout ZoneSource
}

func NewResolver(layout ZoneSource) *Resolver {
	return &Resolver{layout: layout}
}

// Resolve parses the location string and checks the triple exists in the
// current layout.
func (r *Resolver) Resolve(value string) (Location, error) {
	loc, err := Parse(value)
	if err != nil {
		return Location{}, err
	}

	zone, err := r.layout.GetZone(loc.ZoneName, loc.SubZoneName)
	if err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			return Location{}, custom_error.NewInvalidLocationError(value, "zone is not declared in the warehouse layout")
		}
		return Location{}, err
	}

	if !zone.HasFloor(loc.Floor) {
		return Location{}, custom_error.NewInvalidLocationError(value, "floor is not declared for this zone")
	}

	return loc, nil
}
