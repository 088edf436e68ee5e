package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrWindowClosed la ventana de tiempo que habilita la acción no está abierta.
	ErrWindowClosed = errors.New("ventana de registro cerrada")
	// ErrDuplicateIdentity el email ya está registrado. El mensaje es genérico a propósito:
	// no revela si la cuenta está activa o inactiva.
	ErrDuplicateIdentity = errors.New("el email ya está registrado")
	// ErrPoolExhausted no queda ningún identificador libre en el rango configurado.
	ErrPoolExhausted = errors.New("rango de identificadores agotado")
	// ErrCapacityExceeded se alcanzó el máximo de vendedores activos.
	ErrCapacityExceeded = errors.New("máximo de vendedores activos alcanzado")
	// ErrAllocationConflict dos asignaciones concurrentes eligieron el mismo identificador.
	ErrAllocationConflict = errors.New("conflicto al asignar identificador, intente de nuevo")
)

// WindowClosedError indica qué ventana está cerrada. errors.Is(err, ErrWindowClosed) es true.
type WindowClosedError struct {
	Window string
}

func (e *WindowClosedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrWindowClosed.Error(), e.Window)
}

func (e *WindowClosedError) Unwrap() error { return ErrWindowClosed }
