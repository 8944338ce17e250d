package entity

import "time"

// Estados de un Lead.
const (
	LeadStatusNew       = "New"
	LeadStatusContacted = "Contacted"
	LeadStatusConverted = "Converted"
	LeadStatusLost      = "Lost"
)

// LeadStatuses en el orden en que se muestran en el dashboard.
var LeadStatuses = []string{LeadStatusNew, LeadStatusContacted, LeadStatusConverted, LeadStatusLost}

// Lead representa un prospecto captado por el formulario de ingreso. Nunca se elimina.
type Lead struct {
	ID         int64
	Name       string
	Contact    string
	Email      string
	Phone      string
	Company    string
	Status     string
	Notes      string
	AssignedTo *int64 // referencia a User, opcional
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LeadPatch actualización parcial: los campos nil no se modifican. AssignedTo admite null.
type LeadPatch struct {
	Name       *string
	Contact    *string
	Email      *string
	Phone      *string
	Company    *string
	Status     *string
	Notes      *string
	AssignedTo Optional[int64]
}

// Apply mezcla (shallow merge) los campos presentes sobre l.
func (p LeadPatch) Apply(l *Lead) {
	setString(&l.Name, p.Name)
	setString(&l.Contact, p.Contact)
	setString(&l.Email, p.Email)
	setString(&l.Phone, p.Phone)
	setString(&l.Company, p.Company)
	setString(&l.Status, p.Status)
	setString(&l.Notes, p.Notes)
	p.AssignedTo.applyTo(&l.AssignedTo)
}

// Clone devuelve una copia profunda (los stores no comparten punteros con el caller).
func (l *Lead) Clone() *Lead {
	if l == nil {
		return nil
	}
	c := *l
	c.AssignedTo = cloneInt64(l.AssignedTo)
	return &c
}

// ValidLeadStatus indica si s pertenece al conjunto de estados de Lead.
func ValidLeadStatus(s string) bool {
	return contains(LeadStatuses, s)
}
