package repository

import "context"

// SettingsRepository puerto para la tabla clave/valor de configuración editable.
type SettingsRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	// Upsert guarda todas las claves de forma atómica. Un valor vacío borra la clave.
	Upsert(ctx context.Context, values map[string]string) error
}
