package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden. La progresión documentada es hacia adelante, pero no se
// impone un grafo de transiciones: cualquier estado puede asignarse desde cualquier otro.
const (
	OrderStatusPending      = "Pending"
	OrderStatusApproved     = "Approved"
	OrderStatusInProduction = "In Production"
	OrderStatusDispatched   = "Dispatched"
	OrderStatusDelivered    = "Delivered"
)

// OrderStatuses en orden de progresión.
var OrderStatuses = []string{
	OrderStatusPending, OrderStatusApproved, OrderStatusInProduction, OrderStatusDispatched, OrderStatusDelivered,
}

// OrderItem línea de una orden de compra.
type OrderItem struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Order orden de compra hacia un fabricante.
type Order struct {
	ID             int64
	BuyerID        *int64 // referencia a User, opcional
	ManufacturerID *int64
	ProductDetails string
	Status         string
	Amount         decimal.Decimal
	Notes          string
	Items          []OrderItem
	CreatedAt      time.Time // se asigna al insertar si viene vacío
	UpdatedAt      time.Time
}

// OrderPatch actualización parcial de una orden.
type OrderPatch struct {
	BuyerID        Optional[int64]
	ManufacturerID Optional[int64]
	ProductDetails *string
	Status         *string
	Amount         *decimal.Decimal
	Notes          *string
	Items          *[]OrderItem
}

// Apply mezcla los campos presentes sobre o.
func (p OrderPatch) Apply(o *Order) {
	p.BuyerID.applyTo(&o.BuyerID)
	p.ManufacturerID.applyTo(&o.ManufacturerID)
	setString(&o.ProductDetails, p.ProductDetails)
	setString(&o.Status, p.Status)
	if p.Amount != nil {
		o.Amount = *p.Amount
	}
	setString(&o.Notes, p.Notes)
	if p.Items != nil {
		o.Items = append([]OrderItem(nil), (*p.Items)...)
	}
}

// Clone devuelve una copia profunda.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.BuyerID = cloneInt64(o.BuyerID)
	c.ManufacturerID = cloneInt64(o.ManufacturerID)
	if o.Items != nil {
		c.Items = append([]OrderItem(nil), o.Items...)
	}
	return &c
}

// ValidOrderStatus indica si s pertenece al conjunto de estados de Order.
func ValidOrderStatus(s string) bool {
	return contains(OrderStatuses, s)
}
