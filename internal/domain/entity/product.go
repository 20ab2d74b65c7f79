package entity

import "time"

// Product representa un producto del catálogo. El motor solo lo lee para validar existencia y estado.
type Product struct {
	ID        string
	SKU       string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
