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

var _ repository.LeadRepository = (*LeadRepo)(nil)

// LeadRepo implementación de LeadRepository (usable con pool o tx).
type LeadRepo struct {
	q  Querier
	tx *TxRunner
}

// NewLeadRepository construye el adaptador. tx se usa para el read-merge-write de UpdateLead;
// si es nil, UpdateLead corre sobre q sin transacción propia (q ya es una tx).
func NewLeadRepository(q Querier, tx *TxRunner) *LeadRepo {
	return &LeadRepo{q: q, tx: tx}
}

const leadColumns = `id, name, contact, email, phone, company, status, notes, assigned_to, created_at, updated_at`

// CreateLead persiste un lead nuevo.
func (r *LeadRepo) CreateLead(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
	query := `
		INSERT INTO leads (name, contact, email, phone, company, status, notes, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + leadColumns
	l, err := scanLead(r.q.QueryRow(ctx, query,
		lead.Name, lead.Contact, lead.Email, lead.Phone, lead.Company, lead.Status, lead.Notes, lead.AssignedTo,
	))
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return l, nil
}

// GetLead obtiene un lead por ID.
func (r *LeadRepo) GetLead(ctx context.Context, id int64) (*entity.Lead, error) {
	return getLead(ctx, r.q, id, false)
}

// GetLeads lista los leads por ID ascendente.
func (r *LeadRepo) GetLeads(ctx context.Context) ([]*entity.Lead, error) {
	rows, err := r.q.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY id`)
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

// UpdateLead bloquea la fila, aplica el patch y persiste el registro completo.
func (r *LeadRepo) UpdateLead(ctx context.Context, id int64, patch entity.LeadPatch) (*entity.Lead, error) {
	var out *entity.Lead
	err := runInTx(ctx, r.q, r.tx, func(q Querier) error {
		current, err := getLead(ctx, q, id, true)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("lead %d: %w", id, domain.ErrNotFound)
		}
		patch.Apply(current)
		query := `
			UPDATE leads SET name = $2, contact = $3, email = $4, phone = $5, company = $6,
				status = $7, notes = $8, assigned_to = $9, updated_at = now()
			WHERE id = $1
			RETURNING ` + leadColumns
		out, err = scanLead(q.QueryRow(ctx, query, id,
			current.Name, current.Contact, current.Email, current.Phone, current.Company,
			current.Status, current.Notes, current.AssignedTo,
		))
		if err != nil {
			return fmt.Errorf("update lead: %w", err)
		}
		return nil
	})
	return out, err
}

func getLead(ctx context.Context, q Querier, id int64, forUpdate bool) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	l, err := scanLead(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(&l.ID, &l.Name, &l.Contact, &l.Email, &l.Phone, &l.Company, &l.Status, &l.Notes,
		&l.AssignedTo, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
