package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-sync/internal/domain"
	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository. Los ítems se guardan como JSONB y el monto como NUMERIC.
type OrderRepo struct {
	q  Querier
	tx *TxRunner
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(q Querier, tx *TxRunner) *OrderRepo {
	return &OrderRepo{q: q, tx: tx}
}

const orderColumns = `id, buyer_id, manufacturer_id, product_details, status, amount, notes, items, created_at, updated_at`

// CreateOrder persiste una orden. Si CreatedAt viene vacío lo fija la base.
func (r *OrderRepo) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	query := `
		INSERT INTO orders (buyer_id, manufacturer_id, product_details, status, amount, notes, items, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
		RETURNING ` + orderColumns
	var createdAt any
	if !order.CreatedAt.IsZero() {
		createdAt = order.CreatedAt
	}
	out, err := scanOrder(r.q.QueryRow(ctx, query,
		order.BuyerID, order.ManufacturerID, order.ProductDetails, order.Status, order.Amount, order.Notes,
		itemsOrEmpty(order.Items), createdAt,
	))
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return out, nil
}

// GetOrder obtiene una orden por ID.
func (r *OrderRepo) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	return getOrder(ctx, r.q, id, false)
}

// GetOrders lista las órdenes por ID ascendente.
func (r *OrderRepo) GetOrders(ctx context.Context) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
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

// UpdateOrder bloquea la fila, aplica el patch y persiste el registro completo.
func (r *OrderRepo) UpdateOrder(ctx context.Context, id int64, patch entity.OrderPatch) (*entity.Order, error) {
	var out *entity.Order
	err := runInTx(ctx, r.q, r.tx, func(q Querier) error {
		current, err := getOrder(ctx, q, id, true)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		patch.Apply(current)
		query := `
			UPDATE orders SET buyer_id = $2, manufacturer_id = $3, product_details = $4, status = $5,
				amount = $6, notes = $7, items = $8, updated_at = now()
			WHERE id = $1
			RETURNING ` + orderColumns
		out, err = scanOrder(q.QueryRow(ctx, query, id,
			current.BuyerID, current.ManufacturerID, current.ProductDetails, current.Status,
			current.Amount, current.Notes, itemsOrEmpty(current.Items),
		))
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return nil
	})
	return out, err
}

func getOrder(ctx context.Context, q Querier, id int64, forUpdate bool) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	o, err := scanOrder(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.BuyerID, &o.ManufacturerID, &o.ProductDetails, &o.Status, &o.Amount,
		&o.Notes, &o.Items, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// itemsOrEmpty evita escribir NULL en la columna items (NOT NULL DEFAULT '[]').
func itemsOrEmpty(items []entity.OrderItem) []entity.OrderItem {
	if items == nil {
		return []entity.OrderItem{}
	}
	return items
}
