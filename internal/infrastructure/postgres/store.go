package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/crm-sync/internal/domain/repository"
)

var _ repository.CRMRepository = (*Store)(nil)

// Store Primary Store sobre PostgreSQL: agrupa los repos por entidad sobre un mismo pool.
type Store struct {
	*UserRepo
	*LeadRepo
	*ManufacturerRepo
	*OrderRepo
	*TaskRepo
}

// NewStore construye el Primary Store. El esquema debe estar migrado (RunMigrations).
func NewStore(pool *pgxpool.Pool) *Store {
	tx := NewTxRunner(pool)
	return &Store{
		UserRepo:         NewUserRepository(pool),
		LeadRepo:         NewLeadRepository(pool, tx),
		ManufacturerRepo: NewManufacturerRepository(pool),
		OrderRepo:        NewOrderRepository(pool, tx),
		TaskRepo:         NewTaskRepository(pool, tx),
	}
}
