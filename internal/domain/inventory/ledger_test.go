package inventory_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mov(t entity.MovementType, qty string) *entity.StockMovement {
	return &entity.StockMovement{ProductID: "p1", BranchID: "b1", Type: t, Quantity: d(qty)}
}

func TestCheckInvariants(t *testing.T) {
	cases := []struct {
		name     string
		onHand   string
		reserved string
		want     error
	}{
		{"saldo válido", "10", "4", nil},
		{"reservado igual a on_hand", "10", "10", nil},
		{"ceros", "0", "0", nil},
		{"on_hand negativo", "-1", "0", domain.ErrNegativeStockResult},
		{"reservado negativo", "5", "-1", domain.ErrInsufficientStock},
		{"reservado mayor que on_hand", "5", "6", domain.ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := &entity.InventoryItem{ProductID: "p1", BranchID: "b1", OnHand: d(tc.onHand), Reserved: d(tc.reserved)}
			err := inventory.CheckInvariants(item)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidateMovement(t *testing.T) {
	assert.NoError(t, inventory.ValidateMovement(mov(entity.MovementTypeReceive, "1")))
	assert.ErrorIs(t, inventory.ValidateMovement(mov(entity.MovementTypeReceive, "0")), domain.ErrInvalidMovement)
	assert.ErrorIs(t, inventory.ValidateMovement(mov("LOST", "1")), domain.ErrInvalidMovement)

	long := mov(entity.MovementTypeIssue, "-1")
	long.Ref = strings.Repeat("x", entity.MaxRefLength+1)
	assert.ErrorIs(t, inventory.ValidateMovement(long), domain.ErrInvalidMovement)

	long.Ref = strings.Repeat("x", entity.MaxRefLength)
	assert.NoError(t, inventory.ValidateMovement(long))
}

func TestReplay_ReconstruyeSaldos(t *testing.T) {
	movements := []*entity.StockMovement{
		mov(entity.MovementTypeOpening, "50"),
		mov(entity.MovementTypeReceive, "100"),
		mov(entity.MovementTypeReserve, "30"),
		mov(entity.MovementTypeUnreserve, "-10"),
		mov(entity.MovementTypeIssue, "-20"),
		mov(entity.MovementTypeTransferOut, "-40"),
		mov(entity.MovementTypeTransferIn, "5"),
		mov(entity.MovementTypeAdjust, "-2.5"),
	}
	onHand, reserved := inventory.Replay(movements)
	assert.True(t, onHand.Equal(d("92.5")), "on_hand=%s", onHand)
	assert.True(t, reserved.Equal(d("20")), "reserved=%s", reserved)
}

func TestReconcile(t *testing.T) {
	movements := []*entity.StockMovement{
		mov(entity.MovementTypeReceive, "100"),
		mov(entity.MovementTypeReserve, "10"),
	}

	ok := inventory.Reconcile(&entity.InventoryItem{OnHand: d("100"), Reserved: d("10")}, movements)
	assert.True(t, ok.IsZero())

	drift := inventory.Reconcile(&entity.InventoryItem{OnHand: d("97"), Reserved: d("10")}, movements)
	require.False(t, drift.IsZero())
	assert.True(t, drift.OnHand.Equal(d("-3")))
	assert.True(t, drift.Reserved.IsZero())

	empty := inventory.Reconcile(nil, nil)
	assert.True(t, empty.IsZero())
}
