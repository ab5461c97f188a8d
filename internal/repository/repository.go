package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New("postgres", db),
	}
}

// WithTransaction runs fn inside a single database transaction, rolling back
// on error or panic. Every multi-statement stock mutation goes through here.
func WithTransaction(db *goqu.Database, fn func(tx *goqu.TxDatabase) error) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)
	return
}

func (r *Repository) PersistLog(auditLog models.AuditLog, data interface{}) error {
	serialized, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize audit payload: %w", err)
	}

	query := r.GoquDBWrapper.Insert("audit_logs").Rows(goqu.Record{
		"resource_id":   auditLog.ResourceID,
		"resource_type": auditLog.ResourceType,
		"action":        auditLog.Action,
		"data":          string(serialized),
		"user_id":       auditLog.UserID,
	})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert audit log record: %w", err)
	}

	return nil
}
