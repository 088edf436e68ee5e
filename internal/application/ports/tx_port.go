package ports

import (
	"context"

	"github.com/jhoicas/basar-api/internal/domain/repository"
)

// SellerTxRunner ejecuta fn dentro de una transacción con un repositorio atado a esa tx.
// Si fn devuelve error se hace Rollback y nada queda aplicado.
type SellerTxRunner interface {
	RunSellers(ctx context.Context, fn func(repo repository.SellerRepository) error) error
}
