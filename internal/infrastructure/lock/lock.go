// Package lock serializa las escrituras read-modify-write sobre una misma fila del mirror.
package lock

import "context"

// Locker adquiere un lock exclusivo por clave. unlock es idempotente.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
