package dto

// CreateManufacturerRequest entrada para registrar un fabricante.
type CreateManufacturerRequest struct {
	Name               string `json:"name"`
	Contact            string `json:"contact"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	ProductionCapacity *int   `json:"production_capacity"`
}

// ManufacturerResponse salida de un fabricante.
type ManufacturerResponse struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Contact            string    `json:"contact"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	ProductionCapacity *int      `json:"production_capacity"`
	Sync               *SyncInfo `json:"sync,omitempty"`
}
