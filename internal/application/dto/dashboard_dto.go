package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
// Los conteos por estado incluyen todos los estados válidos, aunque valgan cero.
type DashboardSummaryDTO struct {
	Leads         StatusCountDTO `json:"leads"`
	Orders        StatusCountDTO `json:"orders"`
	Tasks         StatusCountDTO `json:"tasks"`
	Manufacturers int            `json:"manufacturers"`

	OpenOrdersAmount decimal.Decimal `json:"open_orders_amount"` // suma de órdenes no entregadas
	OverdueTasks     int             `json:"overdue_tasks"`      // vencidas y no completadas
}

// StatusCountDTO total y desglose por estado.
type StatusCountDTO struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// Add suma un registro al total y a su estado. Estados fuera del conjunto
// (filas editadas a mano en la hoja) también se cuentan.
func (c *StatusCountDTO) Add(status string) {
	c.Total++
	c.ByStatus[status]++
}
