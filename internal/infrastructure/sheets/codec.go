package sheets

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-sync/internal/domain/entity"
)

// Nombres de hoja. Deben existir en el spreadsheet (SetupSheets).
const (
	SheetLeads         = "Leads"
	SheetManufacturers = "Manufacturers"
	SheetOrders        = "Orders"
	SheetTasks         = "Tasks"
)

// AllSheets en el orden en que se crean.
var AllSheets = []string{SheetLeads, SheetManufacturers, SheetOrders, SheetTasks}

// layout ubicación de una entidad: hoja y última columna. Los datos empiezan en la fila 2.
type layout struct {
	sheet   string
	lastCol string
}

func (l layout) dataRange() string   { return l.sheet + "!A2:" + l.lastCol }
func (l layout) appendRange() string { return l.sheet + "!A:" + l.lastCol }

// rowRange rango de la fila n (1-based, incluye el encabezado).
func (l layout) rowRange(n int) string {
	return fmt.Sprintf("%s!A%d:%s%d", l.sheet, n, l.lastCol, n)
}

// codec traduce entre una fila posicional y la entidad. El orden de columnas es contrato.
type codec[T any] struct {
	layout
	entity string
	encode func(T) []string
	decode func(row) T
	id     func(T) int64
}

var (
	leadLayout         = layout{sheet: SheetLeads, lastCol: "K"}
	manufacturerLayout = layout{sheet: SheetManufacturers, lastCol: "F"}
	orderLayout        = layout{sheet: SheetOrders, lastCol: "J"}
	taskLayout         = layout{sheet: SheetTasks, lastCol: "H"}
)

// Leads: id, name, email, phone, company, status, notes, createdAt, updatedAt, assignedTo, contact
var leadCodec = codec[*entity.Lead]{
	layout: leadLayout,
	entity: "lead",
	id:     func(l *entity.Lead) int64 { return l.ID },
	encode: func(l *entity.Lead) []string {
		return []string{
			formatID(l.ID), l.Name, l.Email, l.Phone, l.Company, l.Status, l.Notes,
			formatTime(l.CreatedAt), formatTime(l.UpdatedAt), formatOptionalID(l.AssignedTo), l.Contact,
		}
	},
	decode: func(r row) *entity.Lead {
		return &entity.Lead{
			Name:       r.cell(1),
			Email:      r.cell(2),
			Phone:      r.cell(3),
			Company:    r.cell(4),
			Status:     r.cell(5),
			Notes:      r.cell(6),
			CreatedAt:  r.time(7),
			UpdatedAt:  r.time(8),
			AssignedTo: r.optionalID(9),
			Contact:    r.cell(10),
		}
	},
}

// Manufacturers: id, name, contact, email, phone, productionCapacity
var manufacturerCodec = codec[*entity.Manufacturer]{
	layout: manufacturerLayout,
	entity: "manufacturer",
	id:     func(m *entity.Manufacturer) int64 { return m.ID },
	encode: func(m *entity.Manufacturer) []string {
		capacity := ""
		if m.ProductionCapacity != nil {
			capacity = strconv.Itoa(*m.ProductionCapacity)
		}
		return []string{formatID(m.ID), m.Name, m.Contact, m.Email, m.Phone, capacity}
	},
	decode: func(r row) *entity.Manufacturer {
		m := &entity.Manufacturer{
			Name:    r.cell(1),
			Contact: r.cell(2),
			Email:   r.cell(3),
			Phone:   r.cell(4),
		}
		if v, err := strconv.Atoi(r.cell(5)); err == nil {
			m.ProductionCapacity = &v
		}
		return m
	},
}

// Orders: id, buyerId, manufacturerId, status, amount, notes, createdAt, updatedAt, items, productDetails
var orderCodec = codec[*entity.Order]{
	layout: orderLayout,
	entity: "order",
	id:     func(o *entity.Order) int64 { return o.ID },
	encode: func(o *entity.Order) []string {
		return []string{
			formatID(o.ID), formatOptionalID(o.BuyerID), formatOptionalID(o.ManufacturerID), o.Status,
			o.Amount.String(), o.Notes, formatTime(o.CreatedAt), formatTime(o.UpdatedAt),
			formatItems(o.Items), o.ProductDetails,
		}
	},
	decode: func(r row) *entity.Order {
		return &entity.Order{
			BuyerID:        r.optionalID(1),
			ManufacturerID: r.optionalID(2),
			Status:         r.cell(3),
			Amount:         r.decimal(4),
			Notes:          r.cell(5),
			CreatedAt:      r.time(6),
			UpdatedAt:      r.time(7),
			Items:          r.items(8),
			ProductDetails: r.cell(9),
		}
	},
}

// Tasks: id, title, description, dueDate, status, assignedTo, createdAt, updatedAt
var taskCodec = codec[*entity.Task]{
	layout: taskLayout,
	entity: "task",
	id:     func(t *entity.Task) int64 { return t.ID },
	encode: func(t *entity.Task) []string {
		due := ""
		if t.DueDate != nil {
			due = formatTime(*t.DueDate)
		}
		return []string{
			formatID(t.ID), t.Title, t.Description, due, t.Status, formatOptionalID(t.AssignedTo),
			formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
		}
	},
	decode: func(r row) *entity.Task {
		t := &entity.Task{
			Title:       r.cell(1),
			Description: r.cell(2),
			Status:      r.cell(4),
			AssignedTo:  r.optionalID(5),
			CreatedAt:   r.time(6),
			UpdatedAt:   r.time(7),
		}
		if due := r.time(3); !due.IsZero() {
			t.DueDate = &due
		}
		return t
	},
}

// row fila cruda de la hoja. La API omite las celdas vacías finales.
type row []string

func (r row) cell(i int) string {
	if i < len(r) {
		return r[i]
	}
	return ""
}

// id lee la columna A. Una fila sin id numérico no es un registro.
func (r row) id() (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(r.cell(0)), 10, 64)
}

func (r row) optionalID(i int) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(r.cell(i)), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (r row) decimal(i int) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(r.cell(i)))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// time sin valor o ilegible -> tiempo cero. No se inventa una fecha.
func (r row) time(i int) time.Time {
	s := strings.TrimSpace(r.cell(i))
	if s == "" {
		return time.Time{}
	}
	for _, f := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(f, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func (r row) items(i int) []entity.OrderItem {
	s := strings.TrimSpace(r.cell(i))
	if s == "" {
		return nil
	}
	var items []entity.OrderItem
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil
	}
	return items
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatOptionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return formatID(*id)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func formatItems(items []entity.OrderItem) string {
	if items == nil {
		return ""
	}
	b, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return string(b)
}
