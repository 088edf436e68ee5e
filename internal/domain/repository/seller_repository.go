package repository

import (
	"context"

	"github.com/jhoicas/basar-api/internal/domain/entity"
)

// SellerRepository define el puerto de persistencia para Seller.
// Usable con pool o dentro de una transacción (ver ports.SellerTxRunner).
type SellerRepository interface {
	// Create persiste el registro. Una colisión de public_id devuelve domain.ErrAllocationConflict
	// y una de email domain.ErrDuplicateIdentity.
	Create(ctx context.Context, seller *entity.Seller) error
	// GetByPublicID devuelve nil, nil si no existe.
	GetByPublicID(ctx context.Context, publicID int) (*entity.Seller, error)
	// GetByPublicIDForUpdate igual que GetByPublicID pero bloquea la fila (SELECT FOR UPDATE).
	GetByPublicIDForUpdate(ctx context.Context, publicID int) (*entity.Seller, error)
	// ExistsByEmail compara sobre el email normalizado (sin distinguir mayúsculas).
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// UsedPublicIDs identificadores ocupados dentro de [min, max].
	UsedPublicIDs(ctx context.Context, min, max int) ([]int, error)
	CountInRange(ctx context.Context, min, max int) (int, error)
	// LockAllocation serializa la asignación de public_id entre procesos hasta el fin de la transacción.
	LockAllocation(ctx context.Context) error
	// LockCapacity serializa las activaciones entre procesos hasta el fin de la transacción.
	LockCapacity(ctx context.Context) error
	CountActive(ctx context.Context) (int, error)
	SetActive(ctx context.Context, publicID int, active bool) error
	// ResetAllActive pone active=false en todos los registros; devuelve filas modificadas.
	ResetAllActive(ctx context.Context) (int64, error)
	SetRole(ctx context.Context, publicID int, role string) error
}
