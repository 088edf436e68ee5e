package identity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/basar-api/internal/domain"
	"github.com/jhoicas/basar-api/internal/domain/identity"
)

func TestAllocate_MenorHuecoLibre(t *testing.T) {
	id, err := identity.Allocate(identity.UsedSet(nil), 1000, 9999)
	require.NoError(t, err)
	assert.Equal(t, 1000, id)

	id, err = identity.Allocate(identity.UsedSet([]int{1000, 1001, 1003}), 1000, 9999)
	require.NoError(t, err)
	assert.Equal(t, 1002, id, "reutiliza el primer hueco")
}

// Rango [1000,1002] con 1000 y 1001 usados → 1002; con 1002 también usado → agotado.
func TestAllocate_EscenarioAgotamiento(t *testing.T) {
	used := identity.UsedSet([]int{1000, 1001})
	id, err := identity.Allocate(used, 1000, 1002)
	require.NoError(t, err)
	assert.Equal(t, 1002, id)

	used[1002] = struct{}{}
	_, err = identity.Allocate(used, 1000, 1002)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPoolExhausted))

	var exhausted *identity.PoolExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 1000, exhausted.Min)
	assert.Equal(t, 1002, exhausted.Max)
}

func TestAllocate_IgnoraIdsFueraDeRango(t *testing.T) {
	id, err := identity.Allocate(identity.UsedSet([]int{1, 2, 10000}), 1000, 1001)
	require.NoError(t, err)
	assert.Equal(t, 1000, id)
}

func TestAllocate_RangoInvalido(t *testing.T) {
	_, err := identity.Allocate(nil, 10, 5)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = identity.Allocate(nil, -1, 5)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAllocate_RangoDeUnSoloValor(t *testing.T) {
	id, err := identity.Allocate(nil, 7, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	_, err = identity.Allocate(identity.UsedSet([]int{7}), 7, 7)
	assert.True(t, errors.Is(err, domain.ErrPoolExhausted))
}

func TestNewUsage(t *testing.T) {
	u := identity.NewUsage(10, 1000, 9999)
	assert.Equal(t, 9000, u.Total)
	assert.Equal(t, 8990, u.Free)
	assert.False(t, u.Exhausted)

	u = identity.NewUsage(9000, 1000, 9999)
	assert.True(t, u.Exhausted)
	assert.Equal(t, 0, u.Free)
}
