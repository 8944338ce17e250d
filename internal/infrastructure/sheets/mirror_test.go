package sheets_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/infrastructure/sheets"
	"github.com/jhoicas/crm-sync/internal/infrastructure/sheets/sheetstest"
)

func newMirror(t *testing.T) (*sheets.Mirror, *sheetstest.Fake) {
	t.Helper()
	fake := sheetstest.NewFake(sheets.AllSheets...)
	return sheets.NewMirror(fake), fake
}

// ─── SetupSheets ──────────────────────────────────────────────────────────────

func TestSetupSheets_CreaSoloLasQueFaltan(t *testing.T) {
	fake := sheetstest.NewFake(sheets.SheetLeads)
	m := sheets.NewMirror(fake)

	require.NoError(t, m.SetupSheets(context.Background()))
	assert.Equal(t, 1, fake.Calls(sheetstest.OpAddSheets))

	titles, err := fake.SheetTitles(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, sheets.AllSheets, titles)

	// Segunda vez: nada que crear.
	require.NoError(t, m.SetupSheets(context.Background()))
	assert.Equal(t, 1, fake.Calls(sheetstest.OpAddSheets))
}

// ─── Save ─────────────────────────────────────────────────────────────────────

func TestSaveLead_AgregaYLuegoSobrescribe(t *testing.T) {
	ctx := context.Background()
	m, fake := newMirror(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	lead := &entity.Lead{ID: 1, Name: "Acme", Contact: "a@x.com", Status: entity.LeadStatusNew, CreatedAt: created, UpdatedAt: created}

	require.NoError(t, m.SaveLead(ctx, lead))
	assert.Equal(t, 1, fake.Calls(sheetstest.OpAppend))

	lead.Status = entity.LeadStatusContacted
	require.NoError(t, m.SaveLead(ctx, lead))
	require.NoError(t, m.SaveLead(ctx, lead))

	assert.Equal(t, 1, fake.Calls(sheetstest.OpAppend), "no se duplica la fila")
	assert.Equal(t, 2, fake.Calls(sheetstest.OpUpdate))
	rows := fake.Rows(sheets.SheetLeads)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		"1", "Acme", "", "", "", "Contacted", "", "2024-05-01T12:00:00Z", "2024-05-01T12:00:00Z", "", "a@x.com",
	}, rows[0])
}

func TestSaveLead_ActualizaLaFilaCorrecta(t *testing.T) {
	ctx := context.Background()
	m, fake := newMirror(t)
	fake.SetRows(sheets.SheetLeads,
		[]string{"3", "Uno"},
		[]string{"7", "Dos"},
		[]string{"9", "Tres"},
	)

	require.NoError(t, m.SaveLead(ctx, &entity.Lead{ID: 7, Name: "Dos editado"}))

	rows := fake.Rows(sheets.SheetLeads)
	require.Len(t, rows, 3)
	assert.Equal(t, "Uno", rows[0][1])
	assert.Equal(t, "Dos editado", rows[1][1])
	assert.Equal(t, "Tres", rows[2][1])
}

func TestSave_ConcurrenteMismoID_SinDuplicados(t *testing.T) {
	ctx := context.Background()
	m, fake := newMirror(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, m.SaveTask(ctx, &entity.Task{ID: 4, Title: "Llamar"}))
		}()
	}
	wg.Wait()

	assert.Len(t, fake.Rows(sheets.SheetTasks), 1)
	assert.Equal(t, 1, fake.Calls(sheetstest.OpAppend))
}

func TestSave_ErrorDelTransporteSePropaga(t *testing.T) {
	m, fake := newMirror(t)
	boom := errors.New("quota exceeded")
	fake.Fail(sheetstest.OpAppend, boom)

	err := m.SaveManufacturer(context.Background(), &entity.Manufacturer{ID: 2, Name: "Fab"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, fake.Rows(sheets.SheetManufacturers))
}

// ─── Lectura / decodificación ─────────────────────────────────────────────────

func TestGetOrders_DecodificaTiposYConservaFilasPrevias(t *testing.T) {
	ctx := context.Background()
	m, fake := newMirror(t)
	fake.SetRows(sheets.SheetOrders,
		[]string{"10", "", "2", "Approved", "1200", "previa", "2024-01-02T03:04:05Z", "2024-01-02T03:04:05Z", "", "Tela"},
	)
	buyer := int64(1)
	order := &entity.Order{
		ID:             11,
		BuyerID:        &buyer,
		Status:         entity.OrderStatusPending,
		Amount:         decimal.RequireFromString("99.5"),
		Items:          []entity.OrderItem{{Product: "Botón", Quantity: 100, UnitPrice: decimal.RequireFromString("0.995")}},
		ProductDetails: "Botones",
		CreatedAt:      time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, m.SaveOrder(ctx, order))

	rows := fake.Rows(sheets.SheetOrders)
	require.Len(t, rows, 2)
	assert.Equal(t, "10", rows[0][0], "la fila existente no se toca")
	assert.Equal(t, "previa", rows[0][5])

	list, err := m.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	prev := list[0]
	assert.Equal(t, int64(10), prev.ID)
	assert.Nil(t, prev.BuyerID)
	require.NotNil(t, prev.ManufacturerID)
	assert.Equal(t, int64(2), *prev.ManufacturerID)
	assert.True(t, prev.Amount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), prev.CreatedAt)

	got := list[1]
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, int64(1), *got.BuyerID)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("99.5")))
	require.Len(t, got.Items, 1)
	assert.Equal(t, 100, got.Items[0].Quantity)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("0.995")))
	assert.Equal(t, order.CreatedAt, got.CreatedAt)
	assert.Equal(t, "Botones", got.ProductDetails)
}

func TestGetLeads_FilaSinIDSeIgnora(t *testing.T) {
	m, fake := newMirror(t)
	fake.SetRows(sheets.SheetLeads,
		[]string{"1", "Acme"},
		[]string{"", "sin id"},
		[]string{"abc", "basura"},
		[]string{"2", "Beta"},
	)

	list, err := m.GetLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme", list[0].Name)
	assert.Equal(t, "Beta", list[1].Name)
}

func TestGetLead_TimestampAusente_EsTiempoCero(t *testing.T) {
	m, fake := newMirror(t)
	fake.SetRows(sheets.SheetLeads, []string{"5", "Corta"}) // la API omite celdas vacías finales

	got, err := m.GetLead(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.CreatedAt.IsZero())
	assert.True(t, got.UpdatedAt.IsZero())
	assert.Nil(t, got.AssignedTo)
	assert.Empty(t, got.Contact)
}

func TestGetLead_Inexistente_NilSinError(t *testing.T) {
	m, _ := newMirror(t)
	got, err := m.GetLead(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestTask_RoundTripConFechaLimite(t *testing.T) {
	ctx := context.Background()
	m, _ := newMirror(t)
	due := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	assigned := int64(3)
	in := &entity.Task{ID: 8, Title: "Visitar", Description: "planta", Status: entity.TaskStatusInProgress, AssignedTo: &assigned, DueDate: &due}
	require.NoError(t, m.SaveTask(ctx, in))

	got, err := m.GetTask(ctx, 8)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, in.Description, got.Description)
	assert.Equal(t, in.Status, got.Status)
	assert.Equal(t, assigned, *got.AssignedTo)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))
}

func TestManufacturer_FechaCortaYCapacidad(t *testing.T) {
	m, fake := newMirror(t)
	fake.SetRows(sheets.SheetManufacturers, []string{"4", "Fab", "Luis", "l@f.com", "555", "1200"})

	got, err := m.GetManufacturer(context.Background(), 4)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.ProductionCapacity)
	assert.Equal(t, 1200, *got.ProductionCapacity)
	assert.Equal(t, "Luis", got.Contact)
}

// ─── Lecturas compartidas ─────────────────────────────────────────────────────

// heldValues retiene la primera lectura: toma la foto de la hoja, avisa en entered
// y espera release (o la cancelación de su ctx) antes de devolverla.
type heldValues struct {
	*sheetstest.Fake
	hold    atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newHeldValues() *heldValues {
	h := &heldValues{
		Fake:    sheetstest.NewFake(sheets.AllSheets...),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	h.hold.Store(true)
	return h
}

func (h *heldValues) Get(ctx context.Context, rng string) ([][]string, error) {
	rows, err := h.Fake.Get(ctx, rng)
	if !h.hold.CompareAndSwap(true, false) {
		return rows, err
	}
	close(h.entered)
	select {
	case <-h.release:
		return rows, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestGetLeads_CancelarAlIniciadorNoAfectaAOtros(t *testing.T) {
	values := newHeldValues()
	values.SetRows(sheets.SheetLeads, []string{"1", "Acme"})
	m := sheets.NewMirror(values)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := m.GetLeads(first)
		firstErr <- err
	}()
	<-values.entered

	type result struct {
		leads []*entity.Lead
		err   error
	}
	second := make(chan result, 1)
	go func() {
		leads, err := m.GetLeads(context.Background())
		second <- result{leads, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(values.release)
	select {
	case res := <-second:
		require.NoError(t, res.err)
		require.Len(t, res.leads, 1)
		assert.Equal(t, "Acme", res.leads[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("la lectura compartida no terminó")
	}
}

func TestGetLeads_DespuesDeSaveNoReusaLecturaPrevia(t *testing.T) {
	ctx := context.Background()
	values := newHeldValues()
	m := sheets.NewMirror(values)

	stale := make(chan []*entity.Lead, 1)
	go func() {
		leads, _ := m.GetLeads(ctx)
		stale <- leads
	}()
	<-values.entered

	require.NoError(t, m.SaveLead(ctx, &entity.Lead{ID: 1, Name: "Acme", Status: entity.LeadStatusNew}))

	fresh := make(chan []*entity.Lead, 1)
	go func() {
		leads, err := m.GetLeads(ctx)
		assert.NoError(t, err)
		fresh <- leads
	}()
	select {
	case leads := <-fresh:
		require.Len(t, leads, 1)
		assert.Equal(t, "Acme", leads[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("la lectura posterior al save quedó unida a la lectura previa")
	}

	close(values.release)
	assert.Empty(t, <-stale)
}
