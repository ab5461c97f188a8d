package models

import (
	"encoding/json"
	"time"
)

// AuditLog records administrative CRUD actions on items, layout zones and
// users. Stock movements are NOT logged here; the transaction ledger is
// their audit trail.
type AuditLog struct {
	ID           int                    `json:"id" db:"id"`
	ResourceID   int                    `json:"resourceId" db:"resource_id"`
	ResourceType string                 `json:"resourceType" db:"resource_type"`
	Action       string                 `json:"action" db:"action"`
	DataRaw      string                 `json:"-" db:"data"`
	Data         map[string]interface{} `json:"data" db:"-"`
	CreatedAt    time.Time              `json:"createdAt" db:"created_at"`
	UserID       *int                   `json:"userId,omitempty" db:"user_id"`
}

func (a *AuditLog) LoadFromDB() {
	if a.DataRaw != "" {
		_ = json.Unmarshal([]byte(a.DataRaw), &a.Data)
	}
}
