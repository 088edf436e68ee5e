package ports

import "context"

// RegistrationNotice datos del correo de bienvenida tras un registro.
type RegistrationNotice struct {
	Email     string
	FirstName string
	LastName  string
	PublicID  int
	Role      string
}

// Notifier puerto de salida hacia el correo. Sus fallos nunca invalidan un registro:
// el llamador sólo los registra en el log.
type Notifier interface {
	NotifyRegistration(ctx context.Context, notice RegistrationNotice) error
}
