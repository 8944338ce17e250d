// Package memory implementa el Primary Store en memoria: mismo contrato que PostgreSQL,
// sin dependencias externas. Se usa en desarrollo local y en tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/crm-sync/internal/domain"
	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/domain/repository"
)

var _ repository.CRMRepository = (*Store)(nil)

// Store Primary Store en memoria. Un único contador compartido por todos los tipos de entidad
// asigna los IDs, de modo que ningún par de entidades comparte identificador.
type Store struct {
	lastID atomic.Int64
	now    func() time.Time

	mu            sync.RWMutex
	users         map[int64]*entity.User
	leads         map[int64]*entity.Lead
	manufacturers map[int64]*entity.Manufacturer
	orders        map[int64]*entity.Order
	tasks         map[int64]*entity.Task

	// orden de inserción por tipo, para que los listados sean estables
	leadIDs, manufacturerIDs, orderIDs, taskIDs []int64
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore construye un Store vacío; el primer ID asignado es 1.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:           time.Now,
		users:         make(map[int64]*entity.User),
		leads:         make(map[int64]*entity.Lead),
		manufacturers: make(map[int64]*entity.Manufacturer),
		orders:        make(map[int64]*entity.Order),
		tasks:         make(map[int64]*entity.Task),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) nextID() int64 {
	return s.lastID.Add(1)
}

func (s *Store) stamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// ── Users ────────────────────────────────────────────────────────────────────

// GetUser obtiene un usuario por ID.
func (s *Store) GetUser(_ context.Context, id int64) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

// GetUserByEmail busca por email sin distinguir mayúsculas.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// CreateUser persiste un usuario nuevo. El email debe ser único.
func (s *Store) CreateUser(_ context.Context, user *entity.User) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrEmailAlreadyExists
		}
	}
	c := *user
	c.ID = s.nextID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.stamp()
	}
	s.users[c.ID] = &c
	out := c
	return &out, nil
}

// ── Leads ────────────────────────────────────────────────────────────────────

// GetLead obtiene un lead por ID.
func (s *Store) GetLead(_ context.Context, id int64) (*entity.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leads[id].Clone(), nil
}

// GetLeads lista los leads en orden de creación.
func (s *Store) GetLeads(_ context.Context) ([]*entity.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*entity.Lead, 0, len(s.leadIDs))
	for _, id := range s.leadIDs {
		list = append(list, s.leads[id].Clone())
	}
	return list, nil
}

// CreateLead asigna ID y timestamps y persiste.
func (s *Store) CreateLead(_ context.Context, lead *entity.Lead) (*entity.Lead, error) {
	c := lead.Clone()
	now := s.stamp()
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	s.leads[c.ID] = c
	s.leadIDs = append(s.leadIDs, c.ID)
	return c.Clone(), nil
}

// UpdateLead aplica el patch sobre el lead existente.
func (s *Store) UpdateLead(_ context.Context, id int64, patch entity.LeadPatch) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.leads[id]
	if !ok {
		return nil, fmt.Errorf("lead %d: %w", id, domain.ErrNotFound)
	}
	updated := existing.Clone()
	patch.Apply(updated)
	updated.UpdatedAt = s.stamp()
	s.leads[id] = updated
	return updated.Clone(), nil
}

// ── Manufacturers ────────────────────────────────────────────────────────────

// GetManufacturer obtiene un fabricante por ID.
func (s *Store) GetManufacturer(_ context.Context, id int64) (*entity.Manufacturer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manufacturers[id].Clone(), nil
}

// GetManufacturers lista los fabricantes en orden de creación.
func (s *Store) GetManufacturers(_ context.Context) ([]*entity.Manufacturer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*entity.Manufacturer, 0, len(s.manufacturerIDs))
	for _, id := range s.manufacturerIDs {
		list = append(list, s.manufacturers[id].Clone())
	}
	return list, nil
}

// CreateManufacturer asigna ID y persiste.
func (s *Store) CreateManufacturer(_ context.Context, m *entity.Manufacturer) (*entity.Manufacturer, error) {
	c := m.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID()
	s.manufacturers[c.ID] = c
	s.manufacturerIDs = append(s.manufacturerIDs, c.ID)
	return c.Clone(), nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

// GetOrder obtiene una orden por ID.
func (s *Store) GetOrder(_ context.Context, id int64) (*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orders[id].Clone(), nil
}

// GetOrders lista las órdenes en orden de creación.
func (s *Store) GetOrders(_ context.Context) ([]*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*entity.Order, 0, len(s.orderIDs))
	for _, id := range s.orderIDs {
		list = append(list, s.orders[id].Clone())
	}
	return list, nil
}

// CreateOrder asigna ID; CreatedAt toma la hora actual si viene vacío.
func (s *Store) CreateOrder(_ context.Context, order *entity.Order) (*entity.Order, error) {
	c := order.Clone()
	now := s.stamp()
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	s.orders[c.ID] = c
	s.orderIDs = append(s.orderIDs, c.ID)
	return c.Clone(), nil
}

// UpdateOrder aplica el patch sobre la orden existente.
func (s *Store) UpdateOrder(_ context.Context, id int64, patch entity.OrderPatch) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	updated := existing.Clone()
	patch.Apply(updated)
	updated.UpdatedAt = s.stamp()
	s.orders[id] = updated
	return updated.Clone(), nil
}

// ── Tasks ────────────────────────────────────────────────────────────────────

// GetTask obtiene una tarea por ID.
func (s *Store) GetTask(_ context.Context, id int64) (*entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks[id].Clone(), nil
}

// GetTasks lista las tareas en orden de creación.
func (s *Store) GetTasks(_ context.Context) ([]*entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*entity.Task, 0, len(s.taskIDs))
	for _, id := range s.taskIDs {
		list = append(list, s.tasks[id].Clone())
	}
	return list, nil
}

// CreateTask asigna ID y timestamps y persiste.
func (s *Store) CreateTask(_ context.Context, task *entity.Task) (*entity.Task, error) {
	c := task.Clone()
	now := s.stamp()
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	s.tasks[c.ID] = c
	s.taskIDs = append(s.taskIDs, c.ID)
	return c.Clone(), nil
}

// UpdateTask aplica el patch sobre la tarea existente.
func (s *Store) UpdateTask(_ context.Context, id int64, patch entity.TaskPatch) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
	}
	updated := existing.Clone()
	patch.Apply(updated)
	updated.UpdatedAt = s.stamp()
	s.tasks[id] = updated
	return updated.Clone(), nil
}
