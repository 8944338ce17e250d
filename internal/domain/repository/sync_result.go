package repository

import (
	"context"

	"github.com/jhoicas/crm-sync/internal/domain/entity"
)

// SyncStatus resultado de la propagación al Secondary Mirror.
type SyncStatus string

const (
	SyncSynced  SyncStatus = "synced"  // la fila quedó escrita en el mirror
	SyncFailed  SyncStatus = "failed"  // el Primary Store confirmó pero el mirror falló
	SyncSkipped SyncStatus = "skipped" // mirror desactivado
)

// SyncResult resultado compuesto de una escritura sincronizada.
// El Primary Store ya confirmó cuando se construye; Err solo describe el fallo del mirror.
type SyncResult struct {
	Status SyncStatus
	Err    error
}

// OK indica que no hay divergencia pendiente entre Primary Store y mirror.
func (r SyncResult) OK() bool {
	return r.Status != SyncFailed
}

// SyncingCRMRepository CRMRepository que además informa el resultado de la propagación
// al mirror en cada escritura. Lo implementa el facade hybrid.
type SyncingCRMRepository interface {
	CRMRepository

	CreateLeadSynced(ctx context.Context, lead *entity.Lead) (*entity.Lead, SyncResult, error)
	UpdateLeadSynced(ctx context.Context, id int64, patch entity.LeadPatch) (*entity.Lead, SyncResult, error)
	CreateManufacturerSynced(ctx context.Context, m *entity.Manufacturer) (*entity.Manufacturer, SyncResult, error)
	CreateOrderSynced(ctx context.Context, order *entity.Order) (*entity.Order, SyncResult, error)
	UpdateOrderSynced(ctx context.Context, id int64, patch entity.OrderPatch) (*entity.Order, SyncResult, error)
	CreateTaskSynced(ctx context.Context, task *entity.Task) (*entity.Task, SyncResult, error)
	UpdateTaskSynced(ctx context.Context, id int64, patch entity.TaskPatch) (*entity.Task, SyncResult, error)
}
