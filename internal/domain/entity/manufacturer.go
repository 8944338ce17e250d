package entity

// Manufacturer fabricante al que se colocan órdenes de compra. Se crea una vez y casi no cambia.
type Manufacturer struct {
	ID                 int64
	Name               string
	Contact            string
	Email              string
	Phone              string
	ProductionCapacity *int
}

// Clone devuelve una copia profunda.
func (m *Manufacturer) Clone() *Manufacturer {
	if m == nil {
		return nil
	}
	c := *m
	if m.ProductionCapacity != nil {
		v := *m.ProductionCapacity
		c.ProductionCapacity = &v
	}
	return &c
}
