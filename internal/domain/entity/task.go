package entity

import "time"

// Estados de una tarea.
const (
	TaskStatusPending    = "Pending"
	TaskStatusInProgress = "In Progress"
	TaskStatusCompleted  = "Completed"
)

// TaskStatuses conjunto de estados válidos.
var TaskStatuses = []string{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

// Task tarea asignada a un usuario del equipo.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      string
	AssignedTo  *int64
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch actualización parcial de una tarea. AssignedTo y DueDate admiten null.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	AssignedTo  Optional[int64]
	DueDate     Optional[time.Time]
}

// Apply mezcla los campos presentes sobre t.
func (p TaskPatch) Apply(t *Task) {
	setString(&t.Title, p.Title)
	setString(&t.Description, p.Description)
	setString(&t.Status, p.Status)
	p.AssignedTo.applyTo(&t.AssignedTo)
	p.DueDate.applyTo(&t.DueDate)
}

// Clone devuelve una copia profunda.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.AssignedTo = cloneInt64(t.AssignedTo)
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

// ValidTaskStatus indica si s pertenece al conjunto de estados de Task.
func ValidTaskStatus(s string) bool {
	return contains(TaskStatuses, s)
}
