package dto

import "time"

// CreateLeadRequest entrada del formulario de ingreso de prospectos.
type CreateLeadRequest struct {
	Name       string `json:"name"`
	Contact    string `json:"contact"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Company    string `json:"company"`
	Status     string `json:"status"` // por defecto New
	Notes      string `json:"notes"`
	AssignedTo *int64 `json:"assigned_to"`
}

// UpdateLeadRequest actualización parcial: los campos ausentes no se modifican.
// assigned_to: null desasigna el lead.
type UpdateLeadRequest struct {
	Name       *string `json:"name"`
	Contact    *string `json:"contact"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Company    *string `json:"company"`
	Status     *string `json:"status"`
	Notes      *string `json:"notes"`
	AssignedTo Nullable[int64] `json:"assigned_to" swaggertype:"integer"`
}

// LeadResponse salida de un lead.
type LeadResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Contact    string    `json:"contact"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Company    string    `json:"company"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes"`
	AssignedTo *int64    `json:"assigned_to"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Sync       *SyncInfo `json:"sync,omitempty"`
}
