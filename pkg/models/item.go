package models

import "time"

// InventoryItem is one stock record. The same product code may appear at
// several locations as distinct records; uniqueness is (code, location).
type InventoryItem struct {
	ID           int       `json:"id" db:"id"`
	Code         string    `json:"code" db:"code"`
	Name         string    `json:"name" db:"name"`
	Category     string    `json:"category" db:"category"`
	Manufacturer string    `json:"manufacturer,omitempty" db:"manufacturer"`
	Stock        int       `json:"stock" db:"stock"`
	MinStock     int       `json:"minStock" db:"min_stock"`
	Unit         string    `json:"unit" db:"unit"`
	Location     *string   `json:"location" db:"location"`
	BoxSize      *int      `json:"boxSize,omitempty" db:"box_size"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// IsShortage reports whether the record sits below its minimum threshold.
// Negative stock (oversold) is allowed and always counts as shortage.
func (i *InventoryItem) IsShortage() bool {
	return i.Stock < i.MinStock
}

func (i *InventoryItem) LocationKey() string {
	return LocationValue(i.Location)
}

// LocationValue normalizes a nullable location to its string form,
// empty string meaning unassigned.
func LocationValue(location *string) string {
	if location == nil {
		return ""
	}
	return *location
}

// LocationPtr is the inverse of LocationValue.
func LocationPtr(location string) *string {
	if location == "" {
		return nil
	}
	return &location
}

func (i *InventoryItem) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   i.ID,
		ResourceType: "inventory_item",
	}
}

// InventoryStats is the dashboard summary over the whole registry.
type InventoryStats struct {
	TotalItems     int `json:"totalItems"`
	TotalStock     int `json:"totalStock"`
	ShortageItems  int `json:"shortageItems"`
	WarehouseZones int `json:"warehouseZones"`
}
