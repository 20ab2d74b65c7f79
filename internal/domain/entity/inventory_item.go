package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa el stock de un producto en una sucursal (clave compuesta producto+sucursal).
// Solo el motor de operaciones la modifica; Available nunca se persiste.
// Version crece en uno con cada escritura confirmada.
type InventoryItem struct {
	ProductID string
	BranchID  string
	OnHand    decimal.Decimal
	Reserved  decimal.Decimal
	Version   int64
	UpdatedAt time.Time
}

// NewInventoryItem crea un ítem en cero para la pareja producto+sucursal.
func NewInventoryItem(productID, branchID string) *InventoryItem {
	return &InventoryItem{
		ProductID: productID,
		BranchID:  branchID,
		OnHand:    decimal.Zero,
		Reserved:  decimal.Zero,
	}
}

// Available = OnHand - Reserved, recalculado en cada consulta.
func (i *InventoryItem) Available() decimal.Decimal {
	return i.OnHand.Sub(i.Reserved)
}

// Key devuelve la clave compuesta del ítem.
func (i *InventoryItem) Key() ItemKey {
	return ItemKey{ProductID: i.ProductID, BranchID: i.BranchID}
}

// Clone copia el ítem (los decimales son inmutables).
func (i *InventoryItem) Clone() *InventoryItem {
	c := *i
	return &c
}

// ItemKey identifica un InventoryItem.
type ItemKey struct {
	ProductID string
	BranchID  string
}

// Less define el orden determinista de bloqueo: producto y luego sucursal.
func (k ItemKey) Less(o ItemKey) bool {
	if k.ProductID != o.ProductID {
		return k.ProductID < o.ProductID
	}
	return k.BranchID < o.BranchID
}

func (k ItemKey) String() string {
	return k.ProductID + "/" + k.BranchID
}
