package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemDTO línea de una orden de compra.
type OrderItemDTO struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest entrada para crear una orden.
// Si Amount no viene y hay ítems, se calcula como la suma de cantidad * precio.
type CreateOrderRequest struct {
	BuyerID        *int64           `json:"buyer_id"`
	ManufacturerID *int64           `json:"manufacturer_id"`
	ProductDetails string           `json:"product_details"`
	Status         string           `json:"status"` // por defecto Pending
	Amount         *decimal.Decimal `json:"amount"`
	Notes          string           `json:"notes"`
	Items          []OrderItemDTO   `json:"items"`
}

// UpdateOrderRequest actualización parcial de una orden. buyer_id y manufacturer_id aceptan null.
type UpdateOrderRequest struct {
	BuyerID        Nullable[int64]  `json:"buyer_id" swaggertype:"integer"`
	ManufacturerID Nullable[int64]  `json:"manufacturer_id" swaggertype:"integer"`
	ProductDetails *string          `json:"product_details"`
	Status         *string          `json:"status"`
	Amount         *decimal.Decimal `json:"amount"`
	Notes          *string          `json:"notes"`
	Items          *[]OrderItemDTO  `json:"items"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID             int64           `json:"id"`
	BuyerID        *int64          `json:"buyer_id"`
	ManufacturerID *int64          `json:"manufacturer_id"`
	ProductDetails string          `json:"product_details"`
	Status         string          `json:"status"`
	Amount         decimal.Decimal `json:"amount"`
	Notes          string          `json:"notes"`
	Items          []OrderItemDTO  `json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Sync           *SyncInfo       `json:"sync,omitempty"`
}
