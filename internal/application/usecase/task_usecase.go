package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/crm-sync/internal/application/dto"
	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/domain/repository"
)

// TaskUseCase casos de uso de tareas del equipo.
type TaskUseCase struct {
	repo repository.SyncingCRMRepository
}

// NewTaskUseCase construye el caso de uso.
func NewTaskUseCase(repo repository.SyncingCRMRepository) *TaskUseCase {
	return &TaskUseCase{repo: repo}
}

// Create crea una tarea; estado por defecto Pending.
func (uc *TaskUseCase) Create(ctx context.Context, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	task := &entity.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      in.Status,
		AssignedTo:  in.AssignedTo,
		DueDate:     in.DueDate,
	}
	if task.Status == "" {
		task.Status = entity.TaskStatusPending
	}
	if task.Title == "" {
		return nil, invalid("title es requerido")
	}
	if !entity.ValidTaskStatus(task.Status) {
		return nil, invalid("status %q no válido", task.Status)
	}
	if err := validRef(task.AssignedTo, "assigned_to"); err != nil {
		return nil, err
	}
	created, res, err := uc.repo.CreateTaskSynced(ctx, task)
	if err != nil {
		return nil, err
	}
	out := toTaskResponse(created)
	out.Sync = toSyncInfo(res)
	return out, nil
}

// GetByID obtiene una tarea; (nil, nil) si no existe.
func (uc *TaskUseCase) GetByID(ctx context.Context, id int64) (*dto.TaskResponse, error) {
	t, err := uc.repo.GetTask(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	return toTaskResponse(t), nil
}

// List devuelve todas las tareas.
func (uc *TaskUseCase) List(ctx context.Context) ([]dto.TaskResponse, error) {
	list, err := uc.repo.GetTasks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toTaskResponse(t))
	}
	return out, nil
}

// Update aplica una actualización parcial. domain.ErrNotFound si la tarea no existe.
func (uc *TaskUseCase) Update(ctx context.Context, id int64, in dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	patch := entity.TaskPatch{
		Title:       trimPtr(in.Title),
		Description: in.Description,
		Status:      in.Status,
		AssignedTo:  in.AssignedTo.Patch(),
		DueDate:     in.DueDate.Patch(),
	}
	if patch.Title != nil && *patch.Title == "" {
		return nil, invalid("title no puede quedar vacío")
	}
	if patch.Status != nil && !entity.ValidTaskStatus(*patch.Status) {
		return nil, invalid("status %q no válido", *patch.Status)
	}
	if err := validRef(patch.AssignedTo.Value, "assigned_to"); err != nil {
		return nil, err
	}
	updated, res, err := uc.repo.UpdateTaskSynced(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	out := toTaskResponse(updated)
	out.Sync = toSyncInfo(res)
	return out, nil
}

func toTaskResponse(t *entity.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		AssignedTo:  t.AssignedTo,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
