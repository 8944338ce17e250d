package repository

import (
	"context"

	"github.com/jhoicas/crm-sync/internal/domain/entity"
)

// UserRepository puerto de persistencia para cuentas. Solo lo implementa el Primary Store.
type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	// CreateUser asigna ID y persiste. Devuelve domain.ErrEmailAlreadyExists si el email existe.
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
}

// LeadRepository puerto de persistencia para Lead.
type LeadRepository interface {
	GetLead(ctx context.Context, id int64) (*entity.Lead, error)
	GetLeads(ctx context.Context) ([]*entity.Lead, error)
	CreateLead(ctx context.Context, lead *entity.Lead) (*entity.Lead, error)
	UpdateLead(ctx context.Context, id int64, patch entity.LeadPatch) (*entity.Lead, error)
}

// ManufacturerRepository puerto de persistencia para Manufacturer.
type ManufacturerRepository interface {
	GetManufacturer(ctx context.Context, id int64) (*entity.Manufacturer, error)
	GetManufacturers(ctx context.Context) ([]*entity.Manufacturer, error)
	CreateManufacturer(ctx context.Context, m *entity.Manufacturer) (*entity.Manufacturer, error)
}

// OrderRepository puerto de persistencia para Order.
type OrderRepository interface {
	GetOrder(ctx context.Context, id int64) (*entity.Order, error)
	GetOrders(ctx context.Context) ([]*entity.Order, error)
	CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error)
	UpdateOrder(ctx context.Context, id int64, patch entity.OrderPatch) (*entity.Order, error)
}

// TaskRepository puerto de persistencia para Task.
type TaskRepository interface {
	GetTask(ctx context.Context, id int64) (*entity.Task, error)
	GetTasks(ctx context.Context) ([]*entity.Task, error)
	CreateTask(ctx context.Context, task *entity.Task) (*entity.Task, error)
	UpdateTask(ctx context.Context, id int64, patch entity.TaskPatch) (*entity.Task, error)
}

// CRMRepository contrato completo que consume la capa de rutas.
// Lo implementan los Primary Stores (memory, postgres, sqlite) y el facade hybrid.
//
// Convenciones:
//   - Get* devuelve (nil, nil) si el ID no existe; nunca un error por ausencia.
//   - Update* devuelve domain.ErrNotFound si el ID no existe.
//   - Create* devuelve la entidad con el ID asignado por el Primary Store.
type CRMRepository interface {
	UserRepository
	LeadRepository
	ManufacturerRepository
	OrderRepository
	TaskRepository
}
