package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/domain/repository"
)

var _ repository.ManufacturerRepository = (*ManufacturerRepo)(nil)

// ManufacturerRepo implementación de ManufacturerRepository.
type ManufacturerRepo struct {
	q Querier
}

// NewManufacturerRepository construye el adaptador.
func NewManufacturerRepository(q Querier) *ManufacturerRepo {
	return &ManufacturerRepo{q: q}
}

const manufacturerColumns = `id, name, contact, email, phone, production_capacity`

// CreateManufacturer persiste un fabricante nuevo.
func (r *ManufacturerRepo) CreateManufacturer(ctx context.Context, m *entity.Manufacturer) (*entity.Manufacturer, error) {
	query := `
		INSERT INTO manufacturers (name, contact, email, phone, production_capacity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + manufacturerColumns
	out, err := scanManufacturer(r.q.QueryRow(ctx, query, m.Name, m.Contact, m.Email, m.Phone, m.ProductionCapacity))
	if err != nil {
		return nil, fmt.Errorf("insert manufacturer: %w", err)
	}
	return out, nil
}

// GetManufacturer obtiene un fabricante por ID.
func (r *ManufacturerRepo) GetManufacturer(ctx context.Context, id int64) (*entity.Manufacturer, error) {
	m, err := scanManufacturer(r.q.QueryRow(ctx, `SELECT `+manufacturerColumns+` FROM manufacturers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get manufacturer: %w", err)
	}
	return m, nil
}

// GetManufacturers lista los fabricantes por ID ascendente.
func (r *ManufacturerRepo) GetManufacturers(ctx context.Context) ([]*entity.Manufacturer, error) {
	rows, err := r.q.Query(ctx, `SELECT `+manufacturerColumns+` FROM manufacturers ORDER BY id`)
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

func scanManufacturer(row pgx.Row) (*entity.Manufacturer, error) {
	var m entity.Manufacturer
	if err := row.Scan(&m.ID, &m.Name, &m.Contact, &m.Email, &m.Phone, &m.ProductionCapacity); err != nil {
		return nil, err
	}
	return &m, nil
}
