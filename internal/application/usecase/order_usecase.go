package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-sync/internal/application/dto"
	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/domain/repository"
)

// OrderUseCase casos de uso de órdenes de compra.
type OrderUseCase struct {
	repo repository.SyncingCRMRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(repo repository.SyncingCRMRepository) *OrderUseCase {
	return &OrderUseCase{repo: repo}
}

// Create crea una orden. Estado por defecto Pending; sin monto explícito se suma el de los ítems.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	items, err := toOrderItems(in.Items)
	if err != nil {
		return nil, err
	}
	order := &entity.Order{
		BuyerID:        in.BuyerID,
		ManufacturerID: in.ManufacturerID,
		ProductDetails: strings.TrimSpace(in.ProductDetails),
		Status:         in.Status,
		Notes:          in.Notes,
		Items:          items,
	}
	if order.Status == "" {
		order.Status = entity.OrderStatusPending
	}
	if !entity.ValidOrderStatus(order.Status) {
		return nil, invalid("status %q no válido", order.Status)
	}
	if err := validRef(order.BuyerID, "buyer_id"); err != nil {
		return nil, err
	}
	if err := validRef(order.ManufacturerID, "manufacturer_id"); err != nil {
		return nil, err
	}
	switch {
	case in.Amount != nil:
		if in.Amount.IsNegative() {
			return nil, invalid("amount no puede ser negativo")
		}
		order.Amount = *in.Amount
	default:
		order.Amount = itemsTotal(items)
	}

	created, res, err := uc.repo.CreateOrderSynced(ctx, order)
	if err != nil {
		return nil, err
	}
	out := toOrderResponse(created)
	out.Sync = toSyncInfo(res)
	return out, nil
}

// GetByID obtiene una orden; (nil, nil) si no existe.
func (uc *OrderUseCase) GetByID(ctx context.Context, id int64) (*dto.OrderResponse, error) {
	o, err := uc.repo.GetOrder(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// List devuelve todas las órdenes.
func (uc *OrderUseCase) List(ctx context.Context) ([]dto.OrderResponse, error) {
	list, err := uc.repo.GetOrders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o))
	}
	return out, nil
}

// Update aplica una actualización parcial. Cualquier estado válido puede asignarse desde cualquier otro.
func (uc *OrderUseCase) Update(ctx context.Context, id int64, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	patch := entity.OrderPatch{
		BuyerID:        in.BuyerID.Patch(),
		ManufacturerID: in.ManufacturerID.Patch(),
		ProductDetails: trimPtr(in.ProductDetails),
		Status:         in.Status,
		Amount:         in.Amount,
		Notes:          in.Notes,
	}
	if patch.Status != nil && !entity.ValidOrderStatus(*patch.Status) {
		return nil, invalid("status %q no válido", *patch.Status)
	}
	if patch.Amount != nil && patch.Amount.IsNegative() {
		return nil, invalid("amount no puede ser negativo")
	}
	if err := validRef(patch.BuyerID.Value, "buyer_id"); err != nil {
		return nil, err
	}
	if err := validRef(patch.ManufacturerID.Value, "manufacturer_id"); err != nil {
		return nil, err
	}
	if in.Items != nil {
		items, err := toOrderItems(*in.Items)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []entity.OrderItem{}
		}
		patch.Items = &items
	}

	updated, res, err := uc.repo.UpdateOrderSynced(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	out := toOrderResponse(updated)
	out.Sync = toSyncInfo(res)
	return out, nil
}

func toOrderItems(in []dto.OrderItemDTO) ([]entity.OrderItem, error) {
	if len(in) == 0 {
		return nil, nil
	}
	items := make([]entity.OrderItem, 0, len(in))
	for i, it := range in {
		product := strings.TrimSpace(it.Product)
		if product == "" {
			return nil, invalid("items[%d].product es requerido", i)
		}
		if it.Quantity <= 0 {
			return nil, invalid("items[%d].quantity debe ser mayor que cero", i)
		}
		if it.UnitPrice.IsNegative() {
			return nil, invalid("items[%d].unit_price no puede ser negativo", i)
		}
		items = append(items, entity.OrderItem{Product: product, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return items, nil
}

func itemsTotal(items []entity.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemDTO{Product: it.Product, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return &dto.OrderResponse{
		ID:             o.ID,
		BuyerID:        o.BuyerID,
		ManufacturerID: o.ManufacturerID,
		ProductDetails: o.ProductDetails,
		Status:         o.Status,
		Amount:         o.Amount,
		Notes:          o.Notes,
		Items:          items,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}
