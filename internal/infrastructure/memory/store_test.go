package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-sync/internal/domain"
	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/infrastructure/memory"
)

func strPtr(s string) *string { return &s }

// ─── Leads ────────────────────────────────────────────────────────────────────

func TestLead_CrearYActualizarEstado(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	created, err := s.CreateLead(ctx, &entity.Lead{Name: "Acme", Contact: "a@x.com", Status: entity.LeadStatusNew})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, entity.LeadStatusNew, created.Status)

	_, err = s.UpdateLead(ctx, 1, entity.LeadPatch{Status: strPtr(entity.LeadStatusContacted)})
	require.NoError(t, err)

	got, err := s.GetLead(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.LeadStatusContacted, got.Status)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "a@x.com", got.Contact)
}

func TestGetLead_Inexistente_DevuelveNilSinError(t *testing.T) {
	got, err := memory.NewStore().GetLead(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateLead_Inexistente_ErrNotFound(t *testing.T) {
	_, err := memory.NewStore().UpdateLead(context.Background(), 42, entity.LeadPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLead_NoCompartePunteros(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	assigned := int64(5)
	in := &entity.Lead{Name: "Acme", AssignedTo: &assigned}

	created, err := s.CreateLead(ctx, in)
	require.NoError(t, err)
	in.Name = "mutado"
	*in.AssignedTo = 99
	created.Name = "mutado también"

	got, err := s.GetLead(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, int64(5), *got.AssignedTo)
}

// ─── IDs compartidos ──────────────────────────────────────────────────────────

func TestIDs_UnicosEntreTipos(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seen := map[int64]bool{}
	add := func(id int64) {
		assert.False(t, seen[id], "id %d repetido", id)
		seen[id] = true
	}

	u, err := s.CreateUser(ctx, &entity.User{Email: "a@x.com", Name: "Ana", Role: entity.RoleStaff})
	require.NoError(t, err)
	add(u.ID)
	l, err := s.CreateLead(ctx, &entity.Lead{Name: "Acme"})
	require.NoError(t, err)
	add(l.ID)
	m, err := s.CreateManufacturer(ctx, &entity.Manufacturer{Name: "Fab"})
	require.NoError(t, err)
	add(m.ID)
	o, err := s.CreateOrder(ctx, &entity.Order{Status: entity.OrderStatusPending})
	require.NoError(t, err)
	add(o.ID)
	tk, err := s.CreateTask(ctx, &entity.Task{Title: "Llamar"})
	require.NoError(t, err)
	add(tk.ID)

	assert.Len(t, seen, 5)
}

func TestIDs_ConcurrentesSinColision(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	const n = 50

	var wg sync.WaitGroup
	ids := make(chan int64, 2*n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l, err := s.CreateLead(ctx, &entity.Lead{Name: "L"})
			if err == nil {
				ids <- l.ID
			}
		}()
		go func() {
			defer wg.Done()
			tk, err := s.CreateTask(ctx, &entity.Task{Title: "T"})
			if err == nil {
				ids <- tk.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Len(t, seen, 2*n)
}

// ─── Users ────────────────────────────────────────────────────────────────────

func TestCreateUser_EmailDuplicado(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := s.CreateUser(ctx, &entity.User{Email: "ana@x.com", Name: "Ana"})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, &entity.User{Email: "ANA@x.com", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	got, err := s.GetUserByEmail(ctx, "Ana@X.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana", got.Name)
}

// ─── Orders / Tasks ───────────────────────────────────────────────────────────

func TestOrder_CreatedAtPorDefectoYPatch(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s := memory.NewStore(memory.WithClock(func() time.Time { return fixed }))

	o, err := s.CreateOrder(ctx, &entity.Order{
		Status: entity.OrderStatusPending,
		Amount: decimal.RequireFromString("150.50"),
		Items:  []entity.OrderItem{{Product: "Tela", Quantity: 3, UnitPrice: decimal.RequireFromString("50.1666")}},
	})
	require.NoError(t, err)
	assert.Equal(t, fixed, o.CreatedAt)

	updated, err := s.UpdateOrder(ctx, o.ID, entity.OrderPatch{Status: strPtr(entity.OrderStatusDelivered)})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDelivered, updated.Status)
	assert.True(t, updated.Amount.Equal(decimal.RequireFromString("150.5")))
	assert.Len(t, updated.Items, 1)

	// Cualquier estado puede asignarse desde cualquier otro.
	back, err := s.UpdateOrder(ctx, o.ID, entity.OrderPatch{Status: strPtr(entity.OrderStatusPending)})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, back.Status)
}

func TestTasks_ListaEnOrdenDeCreacion(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	for _, title := range []string{"a", "b", "c"} {
		_, err := s.CreateTask(ctx, &entity.Task{Title: title})
		require.NoError(t, err)
	}
	list, err := s.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Title)
	assert.Equal(t, "c", list[2].Title)

	_, err = s.UpdateTask(ctx, 100, entity.TaskPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
