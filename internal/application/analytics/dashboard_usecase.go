// Package analytics contiene los casos de uso de reportes del CRM.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-sync/internal/application/dto"
	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/domain/repository"
)

// DashboardUseCase genera el resumen del pipeline comercial.
//
// Lee a través del mismo contrato que las rutas: con el mirror activo los conteos
// reflejan lo que ve el equipo en la hoja.
type DashboardUseCase struct {
	repo repository.CRMRepository
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.CRMRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, now: time.Now}
}

// WithClock reemplaza el reloj usado para calcular tareas vencidas.
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro lecturas en paralelo: leads, órdenes, tareas y fabricantes.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type leadsResult struct {
		list []*entity.Lead
		err  error
	}
	type ordersResult struct {
		list []*entity.Order
		err  error
	}
	type tasksResult struct {
		list []*entity.Task
		err  error
	}
	type manufacturersResult struct {
		list []*entity.Manufacturer
		err  error
	}

	leadsCh := make(chan leadsResult, 1)
	ordersCh := make(chan ordersResult, 1)
	tasksCh := make(chan tasksResult, 1)
	mfrCh := make(chan manufacturersResult, 1)

	go func() {
		list, err := uc.repo.GetLeads(ctx)
		leadsCh <- leadsResult{list, err}
	}()
	go func() {
		list, err := uc.repo.GetOrders(ctx)
		ordersCh <- ordersResult{list, err}
	}()
	go func() {
		list, err := uc.repo.GetTasks(ctx)
		tasksCh <- tasksResult{list, err}
	}()
	go func() {
		list, err := uc.repo.GetManufacturers(ctx)
		mfrCh <- manufacturersResult{list, err}
	}()

	leads := <-leadsCh
	orders := <-ordersCh
	tasks := <-tasksCh
	mfrs := <-mfrCh

	if leads.err != nil {
		return nil, fmt.Errorf("dashboard: leads: %w", leads.err)
	}
	if orders.err != nil {
		return nil, fmt.Errorf("dashboard: órdenes: %w", orders.err)
	}
	if tasks.err != nil {
		return nil, fmt.Errorf("dashboard: tareas: %w", tasks.err)
	}
	if mfrs.err != nil {
		return nil, fmt.Errorf("dashboard: fabricantes: %w", mfrs.err)
	}

	out := &dto.DashboardSummaryDTO{
		Leads:            newStatusCount(entity.LeadStatuses),
		Orders:           newStatusCount(entity.OrderStatuses),
		Tasks:            newStatusCount(entity.TaskStatuses),
		Manufacturers:    len(mfrs.list),
		OpenOrdersAmount: decimal.Zero,
	}
	for _, l := range leads.list {
		out.Leads.Add(l.Status)
	}
	for _, o := range orders.list {
		out.Orders.Add(o.Status)
		if o.Status != entity.OrderStatusDelivered {
			out.OpenOrdersAmount = out.OpenOrdersAmount.Add(o.Amount)
		}
	}
	now := uc.now()
	for _, t := range tasks.list {
		out.Tasks.Add(t.Status)
		if t.DueDate != nil && t.DueDate.Before(now) && t.Status != entity.TaskStatusCompleted {
			out.OverdueTasks++
		}
	}
	out.OpenOrdersAmount = out.OpenOrdersAmount.Round(2)
	return out, nil
}

func newStatusCount(statuses []string) dto.StatusCountDTO {
	by := make(map[string]int, len(statuses))
	for _, s := range statuses {
		by[s] = 0
	}
	return dto.StatusCountDTO{ByStatus: by}
}
