package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx). Solo inserción.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, product_id, branch_id, type, quantity, ref, meta, on_hand_after, reserved_after, created_at, created_by`

// Append inserta el movimiento. La unicidad (producto, sucursal, tipo, ref) la garantiza un índice único parcial.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) (string, error) {
	if err := inventory.ValidateMovement(m); err != nil {
		return "", err
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	meta := m.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.BranchID, string(m.Type), m.Quantity, nullable(m.Ref), meta,
		m.OnHandAfter, m.ReservedAfter, m.CreatedAt, nullable(m.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: %s %s ref=%s", domain.ErrDuplicateMovement, m.Key(), m.Type, m.Ref)
		}
		return "", fmt.Errorf("append stock movement: %w", err)
	}
	return m.ID, nil
}

func (r *StockMovementRepo) ExistsFor(ctx context.Context, productID, branchID string, movementType entity.MovementType, ref string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM stock_movements
			WHERE product_id = $1 AND branch_id = $2 AND type = $3 AND ref = $4
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, productID, branchID, string(movementType), ref).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists stock movement: %w", err)
	}
	return exists, nil
}

// List consulta el libro con filtros opcionales, más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	where, args := movementWhere(f)
	pos := len(args) + 1
	query := `SELECT ` + movementColumns + ` FROM stock_movements` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, seq DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	return scanMovements(rows)
}

// Count total de movimientos que cumplen el filtro.
func (r *StockMovementRepo) Count(ctx context.Context, f repository.MovementFilter) (int, error) {
	where, args := movementWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_movements`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock movements: %w", err)
	}
	return n, nil
}

// movementWhere arma la cláusula WHERE con placeholders numerados desde $1.
func movementWhere(f repository.MovementFilter) (string, []any) {
	where := ` WHERE 1=1`
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.BranchID != "" {
		add("branch_id = $%d", f.BranchID)
	}
	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.Ref != "" {
		add("ref = $%d", f.Ref)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	return where, args
}

// ListAll historia completa del ítem en orden de inserción.
func (r *StockMovementRepo) ListAll(ctx context.Context, productID, branchID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE product_id = $1 AND branch_id = $2 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, productID, branchID)
	if err != nil {
		return nil, fmt.Errorf("list all stock movements: %w", err)
	}
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m         entity.StockMovement
			typ       string
			ref       *string
			createdBy *string
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &m.BranchID, &typ, &m.Quantity, &ref, &m.Meta,
			&m.OnHandAfter, &m.ReservedAfter, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Type = entity.MovementType(typ)
		if ref != nil {
			m.Ref = *ref
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
