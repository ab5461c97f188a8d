package transactions

import (
	custom_error "github.com/luckyskyman/warehouse-inventory-system/pkg/errors"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

// Intent is a requested stock mutation before any validation or state touch.
// One schema covers the four transaction types; Validate enforces the
// per-type shape so nothing malformed reaches the mutator.
type Intent struct {
	Type         string `json:"type" binding:"required"`
	ItemCode     string `json:"itemCode" binding:"required"`
	ItemName     string `json:"itemName"`
	Quantity     int    `json:"quantity"`
	FromLocation string `json:"fromLocation"`
	ToLocation   string `json:"toLocation"`
	Reason       string `json:"reason"`
	Memo         string `json:"memo"`

	// adjustment only: the absolute stock value to correct the record to,
	// and the location of the record being corrected.
	NewStock *int   `json:"newStock"`
	Location string `json:"location"`

	// descriptive fields applied when an inbound creates a new record.
	Category     string `json:"category"`
	Manufacturer string `json:"manufacturer"`
	Unit         string `json:"unit"`
	MinStock     int    `json:"minStock"`
	BoxSize      *int   `json:"boxSize"`

	// stamped from the authenticated caller, never trusted from the body.
	UserID *int `json:"-"`
}

func (in *Intent) Validate() error {
	if in.ItemCode == "" {
		return custom_error.NewValidationError("item code is required")
	}

	switch in.Type {
	case models.TransactionInbound:
		if in.Quantity <= 0 {
			return custom_error.NewValidationError("inbound quantity must be positive, got %d", in.Quantity)
		}
		if in.ToLocation == "" {
			return custom_error.NewValidationError("inbound requires a target location")
		}
	case models.TransactionOutbound:
		if in.Quantity <= 0 {
			return custom_error.NewValidationError("outbound quantity must be positive, got %d", in.Quantity)
		}
		if in.Reason == "" {
			return custom_error.NewValidationError("outbound requires a reason")
		}
	case models.TransactionMove:
		if in.Quantity <= 0 {
			return custom_error.NewValidationError("move quantity must be positive, got %d", in.Quantity)
		}
		if in.FromLocation == "" || in.ToLocation == "" {
			return custom_error.NewValidationError("move requires both source and target locations")
		}
		if in.FromLocation == in.ToLocation {
			return &custom_error.SameLocationError{Location: in.ToLocation}
		}
	case models.TransactionAdjustment:
		if in.NewStock == nil {
			return custom_error.NewValidationError("adjustment requires the target stock value")
		}
		if in.Reason == "" {
			return custom_error.NewValidationError("adjustment requires a reason")
		}
	default:
		return custom_error.NewValidationError("unknown transaction type %q", in.Type)
	}

	return nil
}
