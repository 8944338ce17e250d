package entity

// Optional campo anulable de un patch. Set=false deja el valor actual;
// Set=true con Value nil lo limpia.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some asigna v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null limpia el campo.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// Present indica si el patch trae un valor no nulo.
func (o Optional[T]) Present() bool {
	return o.Set && o.Value != nil
}

func (o Optional[T]) applyTo(dst **T) {
	if !o.Set {
		return
	}
	if o.Value == nil {
		*dst = nil
		return
	}
	v := *o.Value
	*dst = &v
}
