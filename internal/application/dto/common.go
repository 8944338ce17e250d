package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SyncInfo resultado de la propagación al mirror en respuestas de escritura.
// Status: synced, failed o skipped. Error solo viene cuando Status es failed.
type SyncInfo struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
