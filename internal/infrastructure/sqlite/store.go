package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-sync/internal/domain"
	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/domain/repository"
)

var _ repository.CRMRepository = (*Store)(nil)

// Store Primary Store sobre SQLite. Los IDs salen de la fila 'entity' de id_counter,
// incrementada dentro de la misma transacción que el INSERT.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore construye el store sobre una base ya migrada.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// withTx ejecuta fn en una transacción y hace Commit o Rollback.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func nextID(ctx context.Context, q execer) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `UPDATE id_counter SET value = value + 1 WHERE name = 'entity' RETURNING value`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("next id: %w", err)
	}
	return id, nil
}

func (s *Store) stamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// ── Users ────────────────────────────────────────────────────────────────────

const userColumns = `id, email, name, role, password_hash, created_at`

// CreateUser persiste un usuario; el índice NOCASE sobre email garantiza unicidad.
func (s *Store) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	u := *user
	u.CreatedAt = s.stamp()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := nextID(ctx, tx)
		if err != nil {
			return err
		}
		u.ID = id
		_, err = tx.ExecContext(ctx,
			`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			u.ID, u.Email, u.Name, u.Role, u.PasswordHash, formatTime(u.CreatedAt))
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrEmailAlreadyExists
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser obtiene un usuario por ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	return s.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetUserByEmail obtiene un usuario por email sin distinguir mayúsculas.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE LIMIT 1`, email)
}

func (s *Store) findUser(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}

// ── Leads ────────────────────────────────────────────────────────────────────

const leadColumns = `id, name, contact, email, phone, company, status, notes, assigned_to, created_at, updated_at`

// CreateLead persiste un lead nuevo.
func (s *Store) CreateLead(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
	l := lead.Clone()
	now := s.stamp()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := nextID(ctx, tx)
		if err != nil {
			return err
		}
		l.ID = id
		return writeLead(ctx, tx, l, true)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetLead obtiene un lead por ID.
func (s *Store) GetLead(ctx context.Context, id int64) (*entity.Lead, error) {
	return getLead(ctx, s.db, id)
}

// GetLeads lista los leads por ID ascendente.
func (s *Store) GetLeads(ctx context.Context) ([]*entity.Lead, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// UpdateLead aplica el patch y reescribe la fila completa.
func (s *Store) UpdateLead(ctx context.Context, id int64, patch entity.LeadPatch) (*entity.Lead, error) {
	var out *entity.Lead
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getLead(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("lead %d: %w", id, domain.ErrNotFound)
		}
		patch.Apply(current)
		current.UpdatedAt = s.stamp()
		out = current
		return writeLead(ctx, tx, current, false)
	})
	return out, err
}

func writeLead(ctx context.Context, q execer, l *entity.Lead, insert bool) error {
	query := `UPDATE leads SET name = ?, contact = ?, email = ?, phone = ?, company = ?, status = ?,
		notes = ?, assigned_to = ?, created_at = ?, updated_at = ? WHERE id = ?`
	if insert {
		query = `INSERT INTO leads (name, contact, email, phone, company, status, notes, assigned_to,
			created_at, updated_at, id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	}
	_, err := q.ExecContext(ctx, query, l.Name, l.Contact, l.Email, l.Phone, l.Company, l.Status, l.Notes,
		l.AssignedTo, formatTime(l.CreatedAt), formatTime(l.UpdatedAt), l.ID)
	if err != nil {
		return fmt.Errorf("write lead: %w", err)
	}
	return nil
}

func getLead(ctx context.Context, q execer, id int64) (*entity.Lead, error) {
	l, err := scanLead(q.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	var assigned sql.NullInt64
	var createdAt, updatedAt string
	err := row.Scan(&l.ID, &l.Name, &l.Contact, &l.Email, &l.Phone, &l.Company, &l.Status, &l.Notes,
		&assigned, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	l.AssignedTo = int64Ptr(assigned)
	l.CreatedAt = parseTime(createdAt)
	l.UpdatedAt = parseTime(updatedAt)
	return &l, nil
}

// ── Manufacturers ────────────────────────────────────────────────────────────

const manufacturerColumns = `id, name, contact, email, phone, production_capacity`

// CreateManufacturer persiste un fabricante.
func (s *Store) CreateManufacturer(ctx context.Context, m *entity.Manufacturer) (*entity.Manufacturer, error) {
	out := m.Clone()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := nextID(ctx, tx)
		if err != nil {
			return err
		}
		out.ID = id
		_, err = tx.ExecContext(ctx,
			`INSERT INTO manufacturers (`+manufacturerColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			out.ID, out.Name, out.Contact, out.Email, out.Phone, out.ProductionCapacity)
		if err != nil {
			return fmt.Errorf("insert manufacturer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetManufacturer obtiene un fabricante por ID.
func (s *Store) GetManufacturer(ctx context.Context, id int64) (*entity.Manufacturer, error) {
	m, err := scanManufacturer(s.db.QueryRowContext(ctx, `SELECT `+manufacturerColumns+` FROM manufacturers WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get manufacturer: %w", err)
	}
	return m, nil
}

// GetManufacturers lista los fabricantes por ID ascendente.
func (s *Store) GetManufacturers(ctx context.Context) ([]*entity.Manufacturer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+manufacturerColumns+` FROM manufacturers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list manufacturers: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Manufacturer, 0)
	for rows.Next() {
		m, err := scanManufacturer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manufacturer: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanManufacturer(row rowScanner) (*entity.Manufacturer, error) {
	var m entity.Manufacturer
	var capacity sql.NullInt64
	if err := row.Scan(&m.ID, &m.Name, &m.Contact, &m.Email, &m.Phone, &capacity); err != nil {
		return nil, err
	}
	if capacity.Valid {
		v := int(capacity.Int64)
		m.ProductionCapacity = &v
	}
	return &m, nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

const orderColumns = `id, buyer_id, manufacturer_id, product_details, status, amount, notes, items, created_at, updated_at`

// CreateOrder persiste una orden; CreatedAt toma la hora actual si viene vacío.
func (s *Store) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	o := order.Clone()
	now := s.stamp()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := nextID(ctx, tx)
		if err != nil {
			return err
		}
		o.ID = id
		return writeOrder(ctx, tx, o, true)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrder obtiene una orden por ID.
func (s *Store) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	return getOrder(ctx, s.db, id)
}

// GetOrders lista las órdenes por ID ascendente.
func (s *Store) GetOrders(ctx context.Context) ([]*entity.Order, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateOrder aplica el patch y reescribe la fila completa.
func (s *Store) UpdateOrder(ctx context.Context, id int64, patch entity.OrderPatch) (*entity.Order, error) {
	var out *entity.Order
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		patch.Apply(current)
		current.UpdatedAt = s.stamp()
		out = current
		return writeOrder(ctx, tx, current, false)
	})
	return out, err
}

func writeOrder(ctx context.Context, q execer, o *entity.Order, insert bool) error {
	items, err := json.Marshal(itemsOrEmpty(o.Items))
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	query := `UPDATE orders SET buyer_id = ?, manufacturer_id = ?, product_details = ?, status = ?, amount = ?,
		notes = ?, items = ?, created_at = ?, updated_at = ? WHERE id = ?`
	if insert {
		query = `INSERT INTO orders (buyer_id, manufacturer_id, product_details, status, amount, notes, items,
			created_at, updated_at, id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	}
	_, err = q.ExecContext(ctx, query, o.BuyerID, o.ManufacturerID, o.ProductDetails, o.Status, o.Amount.String(),
		o.Notes, string(items), formatTime(o.CreatedAt), formatTime(o.UpdatedAt), o.ID)
	if err != nil {
		return fmt.Errorf("write order: %w", err)
	}
	return nil
}

func getOrder(ctx context.Context, q execer, id int64) (*entity.Order, error) {
	o, err := scanOrder(q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var o entity.Order
	var buyer, manufacturer sql.NullInt64
	var amount, items, createdAt, updatedAt string
	err := row.Scan(&o.ID, &buyer, &manufacturer, &o.ProductDetails, &o.Status, &amount, &o.Notes, &items,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	o.BuyerID = int64Ptr(buyer)
	o.ManufacturerID = int64Ptr(manufacturer)
	if o.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("amount %q: %w", amount, err)
	}
	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}
	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTime(updatedAt)
	return &o, nil
}

// ── Tasks ────────────────────────────────────────────────────────────────────

const taskColumns = `id, title, description, status, assigned_to, due_date, created_at, updated_at`

// CreateTask persiste una tarea nueva.
func (s *Store) CreateTask(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	t := task.Clone()
	now := s.stamp()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := nextID(ctx, tx)
		if err != nil {
			return err
		}
		t.ID = id
		return writeTask(ctx, tx, t, true)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTask obtiene una tarea por ID.
func (s *Store) GetTask(ctx context.Context, id int64) (*entity.Task, error) {
	return getTask(ctx, s.db, id)
}

// GetTasks lista las tareas por ID ascendente.
func (s *Store) GetTasks(ctx context.Context) ([]*entity.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// UpdateTask aplica el patch y reescribe la fila completa.
func (s *Store) UpdateTask(ctx context.Context, id int64, patch entity.TaskPatch) (*entity.Task, error) {
	var out *entity.Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
		}
		patch.Apply(current)
		current.UpdatedAt = s.stamp()
		out = current
		return writeTask(ctx, tx, current, false)
	})
	return out, err
}

func writeTask(ctx context.Context, q execer, t *entity.Task, insert bool) error {
	var due any
	if t.DueDate != nil {
		due = formatTime(*t.DueDate)
	}
	query := `UPDATE tasks SET title = ?, description = ?, status = ?, assigned_to = ?, due_date = ?,
		created_at = ?, updated_at = ? WHERE id = ?`
	if insert {
		query = `INSERT INTO tasks (title, description, status, assigned_to, due_date, created_at, updated_at, id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	}
	_, err := q.ExecContext(ctx, query, t.Title, t.Description, t.Status, t.AssignedTo, due,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt), t.ID)
	if err != nil {
		return fmt.Errorf("write task: %w", err)
	}
	return nil
}

func getTask(ctx context.Context, q execer, id int64) (*entity.Task, error) {
	t, err := scanTask(q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func scanTask(row rowScanner) (*entity.Task, error) {
	var t entity.Task
	var assigned sql.NullInt64
	var due sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &assigned, &due, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.AssignedTo = int64Ptr(assigned)
	if due.Valid && due.String != "" {
		d := parseTime(due.String)
		t.DueDate = &d
	}
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func itemsOrEmpty(items []entity.OrderItem) []entity.OrderItem {
	if items == nil {
		return []entity.OrderItem{}
	}
	return items
}

// isUniqueViolation detecta SQLITE_CONSTRAINT_UNIQUE por el mensaje del driver.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
