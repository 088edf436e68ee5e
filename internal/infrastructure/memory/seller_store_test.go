package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/basar-api/internal/domain/entity"
	"github.com/jhoicas/basar-api/internal/domain/repository"
	"github.com/jhoicas/basar-api/internal/infrastructure/memory"
)

func TestCommit_SoloEscribeColumnasModificadas(t *testing.T) {
	store := memory.NewSellerStore()
	store.Seed(&entity.Seller{ID: "a", PublicID: 1000, Email: "a@example.de", Role: entity.RoleSeller})
	ctx := context.Background()

	err := store.RunSellers(ctx, func(repo repository.SellerRepository) error {
		s, err := repo.GetByPublicIDForUpdate(ctx, 1000)
		require.NoError(t, err)
		require.NotNil(t, s)

		// Otra tx cambia el rol y confirma antes que ésta.
		require.NoError(t, store.RunSellers(ctx, func(other repository.SellerRepository) error {
			return other.SetRole(ctx, 1000, entity.RoleEmployee)
		}))

		return repo.SetActive(ctx, 1000, true)
	})
	require.NoError(t, err)

	s, err := store.GetByPublicID(ctx, 1000)
	require.NoError(t, err)
	assert.True(t, s.Active)
	assert.Equal(t, entity.RoleEmployee, s.Role, "el cambio de rol ajeno se conserva")
}

func TestLockAllocation_SerializaHastaElFinDeLaTx(t *testing.T) {
	store := memory.NewSellerStore()
	ctx := context.Background()

	firstHolds := make(chan struct{})
	var order []string
	var mu sync.Mutex
	mark := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, s)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = store.RunSellers(ctx, func(repo repository.SellerRepository) error {
			assert.NoError(t, repo.LockAllocation(ctx))
			close(firstHolds)
			time.Sleep(20 * time.Millisecond)
			mark("primera")
			return nil
		})
	}()

	<-firstHolds
	err := store.RunSellers(ctx, func(repo repository.SellerRepository) error {
		if err := repo.LockAllocation(ctx); err != nil {
			return err
		}
		// Repetir el lock en la misma tx no bloquea.
		if err := repo.LockAllocation(ctx); err != nil {
			return err
		}
		mark("segunda")
		return nil
	})
	require.NoError(t, err)
	wg.Wait()

	assert.Equal(t, []string{"primera", "segunda"}, order)
}

func TestLockAllocation_NoEsperaAlLockDeCapacidad(t *testing.T) {
	store := memory.NewSellerStore()
	ctx := context.Background()

	err := store.RunSellers(ctx, func(repo repository.SellerRepository) error {
		require.NoError(t, repo.LockCapacity(ctx))
		done := make(chan error, 1)
		go func() {
			done <- store.RunSellers(ctx, func(other repository.SellerRepository) error {
				return other.LockAllocation(ctx)
			})
		}()
		select {
		case err := <-done:
			return err
		case <-time.After(time.Second):
			t.Fatal("el lock de asignación esperó al de capacidad")
			return nil
		}
	})
	require.NoError(t, err)
}
