package models

import "time"

// BomGuide is one required-component row. All rows sharing a GuideName make
// up "the guide": the set of (itemCode, requiredQuantity) pairs needed to
// assemble one unit of it.
type BomGuide struct {
	ID               int       `json:"id" db:"id"`
	GuideName        string    `json:"guideName" db:"guide_name"`
	ItemCode         string    `json:"itemCode" db:"item_code"`
	RequiredQuantity int       `json:"requiredQuantity" db:"required_quantity"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

const (
	BomStatusOK       = "ok"
	BomStatusShortage = "shortage"
)

// BomCheckResult is one line of a guide sufficiency report: required quantity
// against aggregate live stock across every location holding the code.
type BomCheckResult struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Needed  int    `json:"needed"`
	Current int    `json:"current"`
	Status  string `json:"status"`
}
