package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-sync/internal/application/analytics"
	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/infrastructure/hybrid"
	"github.com/jhoicas/crm-sync/internal/infrastructure/memory"
	"github.com/jhoicas/crm-sync/internal/infrastructure/sheets"
	"github.com/jhoicas/crm-sync/internal/infrastructure/sheets/sheetstest"
)

var now = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func TestGetSummary_ConteosPorEstado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := analytics.NewDashboardUseCase(store).WithClock(func() time.Time { return now })

	for _, s := range []string{entity.LeadStatusNew, entity.LeadStatusNew, entity.LeadStatusLost} {
		_, err := store.CreateLead(ctx, &entity.Lead{Name: "L", Status: s})
		require.NoError(t, err)
	}
	_, err := store.CreateOrder(ctx, &entity.Order{Status: entity.OrderStatusPending, Amount: decimal.RequireFromString("100.25")})
	require.NoError(t, err)
	_, err = store.CreateOrder(ctx, &entity.Order{Status: entity.OrderStatusInProduction, Amount: decimal.RequireFromString("50")})
	require.NoError(t, err)
	_, err = store.CreateOrder(ctx, &entity.Order{Status: entity.OrderStatusDelivered, Amount: decimal.RequireFromString("999")})
	require.NoError(t, err)

	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)
	_, err = store.CreateTask(ctx, &entity.Task{Title: "vencida", Status: entity.TaskStatusPending, DueDate: &past})
	require.NoError(t, err)
	_, err = store.CreateTask(ctx, &entity.Task{Title: "cerrada", Status: entity.TaskStatusCompleted, DueDate: &past})
	require.NoError(t, err)
	_, err = store.CreateTask(ctx, &entity.Task{Title: "a tiempo", Status: entity.TaskStatusInProgress, DueDate: &future})
	require.NoError(t, err)
	_, err = store.CreateManufacturer(ctx, &entity.Manufacturer{Name: "Fab"})
	require.NoError(t, err)

	out, err := uc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, out.Leads.Total)
	assert.Equal(t, 2, out.Leads.ByStatus[entity.LeadStatusNew])
	assert.Equal(t, 0, out.Leads.ByStatus[entity.LeadStatusConverted])
	assert.Equal(t, 3, out.Orders.Total)
	assert.Len(t, out.Orders.ByStatus, len(entity.OrderStatuses))
	assert.True(t, decimal.RequireFromString("150.25").Equal(out.OpenOrdersAmount), "open = %s", out.OpenOrdersAmount)
	assert.Equal(t, 1, out.OverdueTasks)
	assert.Equal(t, 1, out.Manufacturers)
}

func TestGetSummary_LeeDelMirrorYPropagaErrores(t *testing.T) {
	ctx := context.Background()
	fake := sheetstest.NewFake(sheets.AllSheets...)
	fake.SetRows(sheets.SheetLeads, []string{"7", "Editado a mano", "", "", "", "Archivado"})
	repo, err := hybrid.New(memory.NewStore(), sheets.NewMirror(fake), hybrid.Config{MirrorEnabled: true})
	require.NoError(t, err)
	uc := analytics.NewDashboardUseCase(repo)

	out, err := uc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Leads.Total)
	assert.Equal(t, 1, out.Leads.ByStatus["Archivado"])

	fake.Fail(sheetstest.OpGet, errors.New("sin red"))
	_, err = uc.GetSummary(ctx)
	assert.Error(t, err)
}
