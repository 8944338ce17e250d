package dto

import (
	"encoding/json"

	"github.com/jhoicas/crm-sync/internal/domain/entity"
)

// Nullable campo de un PATCH que distingue ausente, null y valor.
// Ausente: Set=false. null: Set=true con Value nil.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON solo se invoca cuando la clave viene en el cuerpo.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// MarshalJSON escribe el valor o null.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// Patch convierte al tipo del dominio.
func (n Nullable[T]) Patch() entity.Optional[T] {
	return entity.Optional[T]{Set: n.Set, Value: n.Value}
}

// Of construye un Nullable con valor (tests y clientes en Go).
func Of[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null construye un Nullable que limpia el campo.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}
