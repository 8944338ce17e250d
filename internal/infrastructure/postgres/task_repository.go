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

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo implementación de TaskRepository.
type TaskRepo struct {
	q  Querier
	tx *TxRunner
}

// NewTaskRepository construye el adaptador.
func NewTaskRepository(q Querier, tx *TxRunner) *TaskRepo {
	return &TaskRepo{q: q, tx: tx}
}

const taskColumns = `id, title, description, status, assigned_to, due_date, created_at, updated_at`

// CreateTask persiste una tarea nueva.
func (r *TaskRepo) CreateTask(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	query := `
		INSERT INTO tasks (title, description, status, assigned_to, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + taskColumns
	out, err := scanTask(r.q.QueryRow(ctx, query, task.Title, task.Description, task.Status, task.AssignedTo, task.DueDate))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return out, nil
}

// GetTask obtiene una tarea por ID.
func (r *TaskRepo) GetTask(ctx context.Context, id int64) (*entity.Task, error) {
	return getTask(ctx, r.q, id, false)
}

// GetTasks lista las tareas por ID ascendente.
func (r *TaskRepo) GetTasks(ctx context.Context) ([]*entity.Task, error) {
	rows, err := r.q.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
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

// UpdateTask bloquea la fila, aplica el patch y persiste el registro completo.
func (r *TaskRepo) UpdateTask(ctx context.Context, id int64, patch entity.TaskPatch) (*entity.Task, error) {
	var out *entity.Task
	err := runInTx(ctx, r.q, r.tx, func(q Querier) error {
		current, err := getTask(ctx, q, id, true)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
		}
		patch.Apply(current)
		query := `
			UPDATE tasks SET title = $2, description = $3, status = $4, assigned_to = $5,
				due_date = $6, updated_at = now()
			WHERE id = $1
			RETURNING ` + taskColumns
		out, err = scanTask(q.QueryRow(ctx, query, id,
			current.Title, current.Description, current.Status, current.AssignedTo, current.DueDate,
		))
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		return nil
	})
	return out, err
}

func getTask(ctx context.Context, q Querier, id int64, forUpdate bool) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	t, err := scanTask(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.AssignedTo, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
