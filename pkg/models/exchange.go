package models

import "time"

// ExchangeQueueEntry is a pending compensating inbound created by an outbound
// with the defective-exchange reason. Processing it flips the flag and books
// the replacement goods back in.
type ExchangeQueueEntry struct {
	ID           int       `json:"id" db:"id"`
	ItemCode     string    `json:"itemCode" db:"item_code"`
	ItemName     string    `json:"itemName" db:"item_name"`
	Quantity     int       `json:"quantity" db:"quantity"`
	OutboundDate time.Time `json:"outboundDate" db:"outbound_date"`
	Processed    bool      `json:"processed" db:"processed"`
}
