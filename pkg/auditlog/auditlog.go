package auditlog

import (
	"go.uber.org/zap"

	"github.com/luckyskyman/warehouse-inventory-system/internal/repository"
	"github.com/luckyskyman/warehouse-inventory-system/pkg/models"
)

// Auditlog persists administrative audit entries. Logging is fire-and-forget
// from the handlers; a failed entry never fails the operation it describes.
type Auditlog struct {
	r   *repository.Repository
	log *zap.Logger
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

func NewAuditLog(repository *repository.Repository, log *zap.Logger) *Auditlog {
	return &Auditlog{r: repository, log: log}
}

func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	if err := a.r.PersistLog(auditLog, data); err != nil {
		a.log.Warn("unable to create audit log entry",
			zap.Int("resource_id", auditLog.ResourceID),
			zap.String("resource_type", auditLog.ResourceType),
			zap.Error(err),
		)
		return
	}

	a.log.Debug("created audit log entry",
		zap.Int("resource_id", auditLog.ResourceID),
		zap.String("action", action),
	)
}
