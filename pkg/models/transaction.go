package models

import "time"

const (
	TransactionInbound    = "inbound"
	TransactionOutbound   = "outbound"
	TransactionMove       = "move"
	TransactionAdjustment = "adjustment"
)

// ReasonDefectiveExchange marks an outbound of defective goods that will be
// exchanged by the supplier. Outbounds with this reason enqueue a pending
// compensating inbound on the exchange queue.
const ReasonDefectiveExchange = "불량품 교환 출고"

// Transaction is one append-only ledger entry. Quantity is always a positive
// magnitude; the direction is implied by Type, and for adjustments by which
// location side is populated (to = increase, from = decrease).
type Transaction struct {
	ID           int       `json:"id" db:"id"`
	Type         string    `json:"type" db:"type"`
	ItemCode     string    `json:"itemCode" db:"item_code"`
	ItemName     string    `json:"itemName" db:"item_name"`
	Quantity     int       `json:"quantity" db:"quantity"`
	FromLocation *string   `json:"fromLocation" db:"from_location"`
	ToLocation   *string   `json:"toLocation" db:"to_location"`
	Reason       string    `json:"reason,omitempty" db:"reason"`
	Memo         string    `json:"memo,omitempty" db:"memo"`
	UserID       *int      `json:"userId,omitempty" db:"user_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

func (t *Transaction) IsValidType() bool {
	switch t.Type {
	case TransactionInbound, TransactionOutbound, TransactionMove, TransactionAdjustment:
		return true
	default:
		return false
	}
}

// SignedQuantityAt resolves this entry's contribution to the stock of the
// (itemCode, location) pair. A move contributes twice, once per side.
func (t *Transaction) SignedQuantityAt(location string) int {
	from := LocationValue(t.FromLocation)
	to := LocationValue(t.ToLocation)

	switch t.Type {
	case TransactionInbound:
		if to == location {
			return t.Quantity
		}
	case TransactionOutbound:
		if from == location {
			return -t.Quantity
		}
	case TransactionMove:
		if from == location {
			return -t.Quantity
		}
		if to == location {
			return t.Quantity
		}
	case TransactionAdjustment:
		if to == location {
			return t.Quantity
		}
		if from == location {
			return -t.Quantity
		}
	}

	return 0
}
