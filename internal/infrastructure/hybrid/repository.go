// Package hybrid implementa el facade de sincronización: escribe primero en el Primary Store
// (que asigna el ID) y luego, si el mirror está activo, propaga el registro completo a Sheets.
// Las lecturas salen del mirror cuando está activo y del Primary Store cuando no.
package hybrid

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/domain/repository"
	"github.com/jhoicas/crm-sync/internal/infrastructure/metrics"
	"github.com/jhoicas/crm-sync/internal/infrastructure/sheets"
)

// Mirror puerto del Secondary Mirror. Lo implementa *sheets.Mirror.
type Mirror interface {
	GetLead(ctx context.Context, id int64) (*entity.Lead, error)
	GetLeads(ctx context.Context) ([]*entity.Lead, error)
	SaveLead(ctx context.Context, l *entity.Lead) error

	GetManufacturer(ctx context.Context, id int64) (*entity.Manufacturer, error)
	GetManufacturers(ctx context.Context) ([]*entity.Manufacturer, error)
	SaveManufacturer(ctx context.Context, m *entity.Manufacturer) error

	GetOrder(ctx context.Context, id int64) (*entity.Order, error)
	GetOrders(ctx context.Context) ([]*entity.Order, error)
	SaveOrder(ctx context.Context, o *entity.Order) error

	GetTask(ctx context.Context, id int64) (*entity.Task, error)
	GetTasks(ctx context.Context) ([]*entity.Task, error)
	SaveTask(ctx context.Context, t *entity.Task) error
}

var (
	_ Mirror                          = (*sheets.Mirror)(nil)
	_ repository.SyncingCRMRepository = (*Repository)(nil)
)

// ErrMirrorRequired el mirror está activo pero no se inyectó un adaptador.
var ErrMirrorRequired = errors.New("hybrid: mirror activo sin adaptador")

// Config se fija al construir; no cambia por llamada.
type Config struct {
	MirrorEnabled bool
}

// Repository facade sobre Primary Store y Secondary Mirror.
type Repository struct {
	primary repository.CRMRepository
	mirror  Mirror
	cfg     Config
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// Option configura el Repository.
type Option func(*Repository)

// WithLogger asigna el logger del componente.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Repository) { r.log = l }
}

// WithMetrics cuenta resultados de sincronización y escrituras al Primary Store.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Repository) { r.metrics = m }
}

// New construye el facade. mirror puede ser nil solo si el mirror está desactivado.
func New(primary repository.CRMRepository, mirror Mirror, cfg Config, opts ...Option) (*Repository, error) {
	if cfg.MirrorEnabled && mirror == nil {
		return nil, ErrMirrorRequired
	}
	r := &Repository{primary: primary, mirror: mirror, cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MirrorEnabled indica si lecturas y escrituras pasan por el mirror.
func (r *Repository) MirrorEnabled() bool {
	return r.cfg.MirrorEnabled
}

// propagate ejecuta la escritura al mirror y traduce su resultado. Nunca deshace el Primary Store.
func (r *Repository) propagate(entityName string, id int64, save func() error) repository.SyncResult {
	if !r.cfg.MirrorEnabled {
		r.metrics.RecordSync(entityName, string(repository.SyncSkipped))
		return repository.SyncResult{Status: repository.SyncSkipped}
	}
	if err := save(); err != nil {
		r.metrics.RecordSync(entityName, string(repository.SyncFailed))
		r.log.Warn().
			Err(err).
			Str("entity", entityName).
			Int64("id", id).
			Msg("Primary Store confirmado pero el mirror no se actualizó; quedan divergentes")
		return repository.SyncResult{Status: repository.SyncFailed, Err: err}
	}
	r.metrics.RecordSync(entityName, string(repository.SyncSynced))
	return repository.SyncResult{Status: repository.SyncSynced}
}

// ── Users: solo Primary Store ────────────────────────────────────────────────

// GetUser siempre en el Primary Store; las credenciales nunca se replican.
func (r *Repository) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	return r.primary.GetUser(ctx, id)
}

// GetUserByEmail siempre en el Primary Store.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.primary.GetUserByEmail(ctx, email)
}

// CreateUser siempre en el Primary Store.
func (r *Repository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	u, err := r.primary.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordStoreWrite("user", "create")
	return u, nil
}

// ── Leads ────────────────────────────────────────────────────────────────────

// GetLead lee del mirror (búsqueda lineal) o del Primary Store.
func (r *Repository) GetLead(ctx context.Context, id int64) (*entity.Lead, error) {
	if r.cfg.MirrorEnabled {
		return r.mirror.GetLead(ctx, id)
	}
	return r.primary.GetLead(ctx, id)
}

// GetLeads lista desde el backend activo, en el orden que éste devuelva.
func (r *Repository) GetLeads(ctx context.Context) ([]*entity.Lead, error) {
	if r.cfg.MirrorEnabled {
		return r.mirror.GetLeads(ctx)
	}
	return r.primary.GetLeads(ctx)
}

// CreateLead crea y propaga; un fallo del mirror solo se registra.
func (r *Repository) CreateLead(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
	l, _, err := r.CreateLeadSynced(ctx, lead)
	return l, err
}

// CreateLeadSynced igual que CreateLead pero devuelve el resultado de la propagación.
func (r *Repository) CreateLeadSynced(ctx context.Context, lead *entity.Lead) (*entity.Lead, repository.SyncResult, error) {
	l, err := r.primary.CreateLead(ctx, lead)
	if err != nil {
		return nil, repository.SyncResult{}, err
	}
	r.metrics.RecordStoreWrite("lead", "create")
	res := r.propagate("lead", l.ID, func() error { return r.mirror.SaveLead(ctx, l) })
	return l, res, nil
}

// UpdateLead actualiza y propaga el registro completo.
func (r *Repository) UpdateLead(ctx context.Context, id int64, patch entity.LeadPatch) (*entity.Lead, error) {
	l, _, err := r.UpdateLeadSynced(ctx, id, patch)
	return l, err
}

// UpdateLeadSynced devuelve además el resultado de la propagación.
func (r *Repository) UpdateLeadSynced(ctx context.Context, id int64, patch entity.LeadPatch) (*entity.Lead, repository.SyncResult, error) {
	l, err := r.primary.UpdateLead(ctx, id, patch)
	if err != nil {
		return nil, repository.SyncResult{}, err
	}
	r.metrics.RecordStoreWrite("lead", "update")
	res := r.propagate("lead", l.ID, func() error { return r.mirror.SaveLead(ctx, l) })
	return l, res, nil
}

// ── Manufacturers ────────────────────────────────────────────────────────────

// GetManufacturer lee del backend activo.
func (r *Repository) GetManufacturer(ctx context.Context, id int64) (*entity.Manufacturer, error) {
	if r.cfg.MirrorEnabled {
		return r.mirror.GetManufacturer(ctx, id)
	}
	return r.primary.GetManufacturer(ctx, id)
}

// GetManufacturers lista desde el backend activo.
func (r *Repository) GetManufacturers(ctx context.Context) ([]*entity.Manufacturer, error) {
	if r.cfg.MirrorEnabled {
		return r.mirror.GetManufacturers(ctx)
	}
	return r.primary.GetManufacturers(ctx)
}

// CreateManufacturer crea y propaga.
func (r *Repository) CreateManufacturer(ctx context.Context, m *entity.Manufacturer) (*entity.Manufacturer, error) {
	out, _, err := r.CreateManufacturerSynced(ctx, m)
	return out, err
}

// CreateManufacturerSynced devuelve además el resultado de la propagación.
func (r *Repository) CreateManufacturerSynced(ctx context.Context, m *entity.Manufacturer) (*entity.Manufacturer, repository.SyncResult, error) {
	out, err := r.primary.CreateManufacturer(ctx, m)
	if err != nil {
		return nil, repository.SyncResult{}, err
	}
	r.metrics.RecordStoreWrite("manufacturer", "create")
	res := r.propagate("manufacturer", out.ID, func() error { return r.mirror.SaveManufacturer(ctx, out) })
	return out, res, nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

// GetOrder lee del backend activo.
func (r *Repository) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	if r.cfg.MirrorEnabled {
		return r.mirror.GetOrder(ctx, id)
	}
	return r.primary.GetOrder(ctx, id)
}

// GetOrders lista desde el backend activo.
func (r *Repository) GetOrders(ctx context.Context) ([]*entity.Order, error) {
	if r.cfg.MirrorEnabled {
		return r.mirror.GetOrders(ctx)
	}
	return r.primary.GetOrders(ctx)
}

// CreateOrder crea y propaga.
func (r *Repository) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	o, _, err := r.CreateOrderSynced(ctx, order)
	return o, err
}

// CreateOrderSynced devuelve además el resultado de la propagación.
func (r *Repository) CreateOrderSynced(ctx context.Context, order *entity.Order) (*entity.Order, repository.SyncResult, error) {
	o, err := r.primary.CreateOrder(ctx, order)
	if err != nil {
		return nil, repository.SyncResult{}, err
	}
	r.metrics.RecordStoreWrite("order", "create")
	res := r.propagate("order", o.ID, func() error { return r.mirror.SaveOrder(ctx, o) })
	return o, res, nil
}

// UpdateOrder actualiza y propaga.
func (r *Repository) UpdateOrder(ctx context.Context, id int64, patch entity.OrderPatch) (*entity.Order, error) {
	o, _, err := r.UpdateOrderSynced(ctx, id, patch)
	return o, err
}

// UpdateOrderSynced devuelve además el resultado de la propagación.
func (r *Repository) UpdateOrderSynced(ctx context.Context, id int64, patch entity.OrderPatch) (*entity.Order, repository.SyncResult, error) {
	o, err := r.primary.UpdateOrder(ctx, id, patch)
	if err != nil {
		return nil, repository.SyncResult{}, err
	}
	r.metrics.RecordStoreWrite("order", "update")
	res := r.propagate("order", o.ID, func() error { return r.mirror.SaveOrder(ctx, o) })
	return o, res, nil
}

// ── Tasks ────────────────────────────────────────────────────────────────────

// GetTask lee del backend activo.
func (r *Repository) GetTask(ctx context.Context, id int64) (*entity.Task, error) {
	if r.cfg.MirrorEnabled {
		return r.mirror.GetTask(ctx, id)
	}
	return r.primary.GetTask(ctx, id)
}

// GetTasks lista desde el backend activo.
func (r *Repository) GetTasks(ctx context.Context) ([]*entity.Task, error) {
	if r.cfg.MirrorEnabled {
		return r.mirror.GetTasks(ctx)
	}
	return r.primary.GetTasks(ctx)
}

// CreateTask crea y propaga.
func (r *Repository) CreateTask(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	t, _, err := r.CreateTaskSynced(ctx, task)
	return t, err
}

// CreateTaskSynced devuelve además el resultado de la propagación.
func (r *Repository) CreateTaskSynced(ctx context.Context, task *entity.Task) (*entity.Task, repository.SyncResult, error) {
	t, err := r.primary.CreateTask(ctx, task)
	if err != nil {
		return nil, repository.SyncResult{}, err
	}
	r.metrics.RecordStoreWrite("task", "create")
	res := r.propagate("task", t.ID, func() error { return r.mirror.SaveTask(ctx, t) })
	return t, res, nil
}

// UpdateTask actualiza y propaga.
func (r *Repository) UpdateTask(ctx context.Context, id int64, patch entity.TaskPatch) (*entity.Task, error) {
	t, _, err := r.UpdateTaskSynced(ctx, id, patch)
	return t, err
}

// UpdateTaskSynced devuelve además el resultado de la propagación.
func (r *Repository) UpdateTaskSynced(ctx context.Context, id int64, patch entity.TaskPatch) (*entity.Task, repository.SyncResult, error) {
	t, err := r.primary.UpdateTask(ctx, id, patch)
	if err != nil {
		return nil, repository.SyncResult{}, err
	}
	r.metrics.RecordStoreWrite("task", "update")
	res := r.propagate("task", t.ID, func() error { return r.mirror.SaveTask(ctx, t) })
	return t, res, nil
}
