package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(productID, branchID, ref string, qty int64, onHandAfter int64) *entity.StockMovement {
	return &entity.StockMovement{
		ProductID:   productID,
		BranchID:    branchID,
		Type:        entity.MovementTypeReceive,
		Quantity:    decimal.NewFromInt(qty),
		Ref:         ref,
		OnHandAfter: decimal.NewFromInt(onHandAfter),
		CreatedAt:   time.Now().UTC(),
	}
}

// ── Transacciones ─────────────────────────────────────────────────────────────

func TestTxRunner_ConfirmaCambios(t *testing.T) {
	s := NewStore(time.Second)
	ctx := context.Background()

	err := s.TxRunner().Run(ctx, func(items repository.InventoryItemRepository, movs repository.StockMovementRepository) error {
		it, err := items.LockForUpdate(ctx, "p1", "b1")
		require.NoError(t, err)
		it.OnHand = decimal.NewFromInt(10)
		require.NoError(t, items.Save(ctx, it))
		id, err := movs.Append(ctx, receive("p1", "b1", "r1", 10, 10))
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		// aún no visible fuera de la tx
		outside, _ := s.Items().Get(ctx, "p1", "b1")
		assert.Nil(t, outside)
		return nil
	})
	require.NoError(t, err)

	it, err := s.Items().Get(ctx, "p1", "b1")
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.True(t, it.OnHand.Equal(decimal.NewFromInt(10)))

	exists, err := s.Movements().ExistsFor(ctx, "p1", "b1", entity.MovementTypeReceive, "r1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTxRunner_ErrorDescartaTodo(t *testing.T) {
	s := NewStore(time.Second)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.TxRunner().Run(ctx, func(items repository.InventoryItemRepository, movs repository.StockMovementRepository) error {
		it, _ := items.LockForUpdate(ctx, "p1", "b1")
		it.OnHand = decimal.NewFromInt(5)
		_ = items.Save(ctx, it)
		_, _ = movs.Append(ctx, receive("p1", "b1", "r1", 5, 5))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	it, _ := s.Items().Get(ctx, "p1", "b1")
	assert.Nil(t, it)
	all, _ := s.Movements().ListAll(ctx, "p1", "b1")
	assert.Empty(t, all)

	// el bloqueo quedó liberado
	err = s.TxRunner().Run(ctx, func(items repository.InventoryItemRepository, _ repository.StockMovementRepository) error {
		_, err := items.LockForUpdate(ctx, "p1", "b1")
		return err
	})
	assert.NoError(t, err)
}

func TestTxRunner_TimeoutDeBloqueoEsConflicto(t *testing.T) {
	s := NewStore(50 * time.Millisecond)
	ctx := context.Background()

	holding := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = s.TxRunner().Run(ctx, func(items repository.InventoryItemRepository, _ repository.StockMovementRepository) error {
			_, err := items.LockForUpdate(ctx, "p1", "b1")
			close(holding)
			<-done
			return err
		})
	}()
	<-holding

	err := s.TxRunner().Run(ctx, func(items repository.InventoryItemRepository, _ repository.StockMovementRepository) error {
		_, err := items.LockForUpdate(ctx, "p1", "b1")
		return err
	})
	close(done)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ── Libro de movimientos ──────────────────────────────────────────────────────

func TestMovementRepository_RefDuplicada(t *testing.T) {
	s := NewStore(time.Second)
	ctx := context.Background()

	run := func() error {
		return s.TxRunner().Run(ctx, func(_ repository.InventoryItemRepository, movs repository.StockMovementRepository) error {
			_, err := movs.Append(ctx, receive("p1", "b1", "r1", 1, 1))
			return err
		})
	}
	require.NoError(t, run())
	assert.ErrorIs(t, run(), domain.ErrDuplicateMovement)
}

func TestMovementRepository_RechazaCantidadCero(t *testing.T) {
	s := NewStore(time.Second)
	ctx := context.Background()
	err := s.TxRunner().Run(ctx, func(_ repository.InventoryItemRepository, movs repository.StockMovementRepository) error {
		_, err := movs.Append(ctx, receive("p1", "b1", "", 0, 0))
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
}

func TestMovementRepository_ListFiltraYPagina(t *testing.T) {
	s := NewStore(time.Second)
	ctx := context.Background()
	err := s.TxRunner().Run(ctx, func(_ repository.InventoryItemRepository, movs repository.StockMovementRepository) error {
		for i, ref := range []string{"a", "b", "c"} {
			if _, err := movs.Append(ctx, receive("p1", "b1", ref, 1, int64(i+1))); err != nil {
				return err
			}
		}
		_, err := movs.Append(ctx, receive("p2", "b1", "z", 1, 1))
		return err
	})
	require.NoError(t, err)

	list, err := s.Movements().List(ctx, repository.MovementFilter{ProductID: "p1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].Ref)
	assert.Equal(t, "b", list[1].Ref)

	list, err = s.Movements().List(ctx, repository.MovementFilter{ProductID: "p1", Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Ref)

	n, err := s.Movements().Count(ctx, repository.MovementFilter{ProductID: "p1", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := s.Movements().ListAll(ctx, "p1", "b1")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Ref)
}

func TestItemRepository_FueraDeTx(t *testing.T) {
	s := NewStore(time.Second)
	ctx := context.Background()

	_, err := s.Items().LockForUpdate(ctx, "p1", "b1")
	assert.Error(t, err)

	it, err := s.Items().GetOrCreate(ctx, "p1", "b1")
	require.NoError(t, err)
	assert.True(t, it.OnHand.IsZero())
}

func TestCatalog(t *testing.T) {
	s := NewStore(time.Second)
	ctx := context.Background()
	s.PutProduct(entity.Product{ID: "p1", SKU: "SKU-1", Active: true})
	s.PutBranch(entity.Branch{ID: "b1", Active: true})

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.Active)
	require.NoError(t, s.SetProductActive("p1", false))
	p, _ = s.Products().GetByID(ctx, "p1")
	assert.False(t, p.Active)

	missing, err := s.Branches().GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.ErrorIs(t, s.SetProductActive("nope", true), domain.ErrNotFound)
}
