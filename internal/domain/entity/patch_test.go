package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/crm-sync/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func TestLeadPatch_SoloCamposPresentes(t *testing.T) {
	assigned := int64(3)
	l := &entity.Lead{ID: 1, Name: "Acme", Contact: "a@x.com", Status: entity.LeadStatusNew}

	entity.LeadPatch{Status: strPtr(entity.LeadStatusLost), AssignedTo: entity.Some(assigned)}.Apply(l)

	assert.Equal(t, entity.LeadStatusLost, l.Status)
	assert.Equal(t, "Acme", l.Name)
	assert.Equal(t, "a@x.com", l.Contact)
	assert.Equal(t, int64(3), *l.AssignedTo)

	assigned = 9
	assert.Equal(t, int64(3), *l.AssignedTo, "el patch no comparte punteros")
}

func TestLeadPatch_StringVacioSeAplica(t *testing.T) {
	l := &entity.Lead{Notes: "nota"}
	entity.LeadPatch{Notes: strPtr("")}.Apply(l)
	assert.Empty(t, l.Notes)
}

func TestLeadPatch_NullDesasigna(t *testing.T) {
	assigned := int64(7)
	l := &entity.Lead{Name: "Acme", AssignedTo: &assigned}

	entity.LeadPatch{Name: strPtr("Acme SA")}.Apply(l)
	assert.Equal(t, int64(7), *l.AssignedTo, "campo ausente no cambia")

	entity.LeadPatch{AssignedTo: entity.Null[int64]()}.Apply(l)
	assert.Nil(t, l.AssignedTo)
	assert.Equal(t, "Acme SA", l.Name)
}

func TestTaskPatch_NullLimpiaFechaYResponsable(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assigned := int64(2)
	tk := &entity.Task{Title: "T", DueDate: &due, AssignedTo: &assigned}

	entity.TaskPatch{DueDate: entity.Null[time.Time]()}.Apply(tk)
	assert.Nil(t, tk.DueDate)
	assert.Equal(t, int64(2), *tk.AssignedTo)

	entity.TaskPatch{AssignedTo: entity.Null[int64](), DueDate: entity.Some(due)}.Apply(tk)
	assert.Nil(t, tk.AssignedTo)
	assert.Equal(t, due, *tk.DueDate)
}

func TestOrderPatch_NullLimpiaReferencias(t *testing.T) {
	buyer, maker := int64(1), int64(2)
	o := &entity.Order{BuyerID: &buyer, ManufacturerID: &maker}

	entity.OrderPatch{ManufacturerID: entity.Null[int64]()}.Apply(o)
	assert.Nil(t, o.ManufacturerID)
	assert.Equal(t, int64(1), *o.BuyerID)

	entity.OrderPatch{BuyerID: entity.Some(int64(5))}.Apply(o)
	assert.Equal(t, int64(5), *o.BuyerID)
}

func TestOrderPatch_MontoEItems(t *testing.T) {
	amount := decimal.RequireFromString("10.00")
	items := []entity.OrderItem{{Product: "Tela", Quantity: 1, UnitPrice: amount}}
	o := &entity.Order{Status: entity.OrderStatusDelivered, Notes: "x"}

	entity.OrderPatch{Amount: &amount, Items: &items, Status: strPtr(entity.OrderStatusPending)}.Apply(o)

	assert.True(t, o.Amount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, entity.OrderStatusPending, o.Status, "sin grafo de transiciones")
	assert.Equal(t, "x", o.Notes)
	items[0].Product = "cambiado"
	assert.Equal(t, "Tela", o.Items[0].Product)
}

func TestTaskClone_CopiaProfunda(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assigned := int64(2)
	orig := &entity.Task{Title: "T", DueDate: &due, AssignedTo: &assigned}

	c := orig.Clone()
	*c.DueDate = due.AddDate(0, 1, 0)
	*c.AssignedTo = 7

	assert.Equal(t, due, *orig.DueDate)
	assert.Equal(t, int64(2), *orig.AssignedTo)
	assert.Nil(t, (*entity.Task)(nil).Clone())
}

func TestValidStatuses(t *testing.T) {
	assert.True(t, entity.ValidLeadStatus("Converted"))
	assert.False(t, entity.ValidLeadStatus("converted"))
	assert.True(t, entity.ValidOrderStatus("In Production"))
	assert.False(t, entity.ValidOrderStatus("Shipped"))
	assert.True(t, entity.ValidTaskStatus("In Progress"))
	assert.True(t, entity.ValidRole(entity.RoleStaff))
	assert.False(t, entity.ValidRole("owner"))
}
