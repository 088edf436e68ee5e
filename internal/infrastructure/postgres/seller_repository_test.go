package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/basar-api/internal/domain"
)

func TestMapSellerWriteError_SegunConstraint(t *testing.T) {
	idErr := fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505", ConstraintName: constraintPublicID})
	assert.True(t, errors.Is(mapSellerWriteError(idErr), domain.ErrAllocationConflict))

	emailErr := &pgconn.PgError{Code: "23505", ConstraintName: constraintEmail}
	assert.True(t, errors.Is(mapSellerWriteError(emailErr), domain.ErrDuplicateIdentity))

	otherErr := &pgconn.PgError{Code: "23505", ConstraintName: "sellers_pkey"}
	assert.True(t, errors.Is(mapSellerWriteError(otherErr), domain.ErrConflict))
}

func TestMapSellerWriteError_OtrosErrores(t *testing.T) {
	err := mapSellerWriteError(&pgconn.PgError{Code: "23514", ConstraintName: "sellers_role_check"})
	assert.False(t, errors.Is(err, domain.ErrConflict))
	assert.False(t, errors.Is(err, domain.ErrAllocationConflict))

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr), "conserva el error original")
}

func TestMigraciones_Embebidas(t *testing.T) {
	entries, err := migrationFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)

	raw, err := migrationFS.ReadFile("migrations/001_sellers.sql")
	assert.NoError(t, err)
	assert.Contains(t, string(raw), constraintPublicID)
	assert.Contains(t, string(raw), constraintEmail)
}

// execRecorder Querier que sólo anota los Exec.
type execRecorder struct {
	sql  []string
	args [][]any
}

func (r *execRecorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql = append(r.sql, sql)
	r.args = append(r.args, args)
	return pgconn.CommandTag{}, nil
}

func (r *execRecorder) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("no usado")
}

func (r *execRecorder) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestLocks_ClavesDeAsesoriaDistintas(t *testing.T) {
	q := &execRecorder{}
	repo := NewSellerRepository(q)

	assert.NoError(t, repo.LockAllocation(context.Background()))
	assert.NoError(t, repo.LockCapacity(context.Background()))

	assert.Equal(t, []string{"SELECT pg_advisory_xact_lock($1)", "SELECT pg_advisory_xact_lock($1)"}, q.sql)
	assert.Equal(t, []any{allocationLockKey}, q.args[0])
	assert.Equal(t, []any{capacityLockKey}, q.args[1])
	assert.NotEqual(t, allocationLockKey, capacityLockKey)
}
