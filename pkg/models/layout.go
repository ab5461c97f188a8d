package models

import (
	"time"

	"github.com/lib/pq"
)

// WarehouseZone is one declared (zone, sub-zone) slot of the warehouse layout
// with its ordered floor labels. Locations are validated against these rows.
type WarehouseZone struct {
	ID          int            `json:"id" db:"id"`
	ZoneName    string         `json:"zoneName" db:"zone_name"`
	SubZoneName string         `json:"subZoneName" db:"sub_zone_name"`
	Floors      pq.StringArray `json:"floors" db:"floors"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
}

func (z *WarehouseZone) HasFloor(floor string) bool {
	for _, f := range z.Floors {
		if f == floor {
			return true
		}
	}
	return false
}

func (z *WarehouseZone) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   z.ID,
		ResourceType: "warehouse_zone",
	}
}
