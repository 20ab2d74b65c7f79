package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Dobles de prueba ──────────────────────────────────────────────────────────

type recordedEvent struct {
	eventType string
	subject   entity.MovementRef
	actor     string
	context   map[string]any
}

type fakeAudit struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (f *fakeAudit) Record(_ context.Context, eventType string, subject entity.MovementRef, actor string, c map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{eventType, subject, actor, c})
	return f.err
}

func (f *fakeAudit) all() []recordedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedEvent(nil), f.events...)
}

type fakePosting struct {
	mu       sync.Mutex
	postings []inventory.StockPosting
}

func (f *fakePosting) OnStockPosted(_ context.Context, p inventory.StockPosting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postings = append(f.postings, p)
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	data        map[entity.ItemKey]dto.ItemSnapshot
	invalidated []entity.ItemKey
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[entity.ItemKey]dto.ItemSnapshot)}
}

func (f *fakeCache) Get(_ context.Context, productID, branchID string) (*dto.ItemSnapshot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.data[entity.ItemKey{ProductID: productID, BranchID: branchID}]
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

// Set ignora snapshots más viejos que el guardado, igual que la caché de Redis.
func (f *fakeCache) Set(_ context.Context, s dto.ItemSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := entity.ItemKey{ProductID: s.ProductID, BranchID: s.BranchID}
	if cur, ok := f.data[key]; ok && cur.Version > s.Version {
		return nil
	}
	f.data[key] = s
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, keys ...entity.ItemKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
		f.invalidated = append(f.invalidated, k)
	}
	return nil
}

type fixture struct {
	store   *memory.Store
	engine  *inventory.Engine
	audit   *fakeAudit
	posting *fakePosting
	cache   *fakeCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, nil)
}

// newFixtureWith permite reemplazar dependencias del motor antes de construirlo.
func newFixtureWith(t *testing.T, customize func(*inventory.EngineDeps)) *fixture {
	t.Helper()
	store := memory.NewStore(2 * time.Second)
	store.PutProduct(entity.Product{ID: "p1", SKU: "SKU-1", Name: "Tornillo", Active: true})
	store.PutProduct(entity.Product{ID: "p2", SKU: "SKU-2", Name: "Tuerca", Active: true})
	store.PutBranch(entity.Branch{ID: "b1", Name: "Centro", Active: true})
	store.PutBranch(entity.Branch{ID: "b2", Name: "Norte", Active: true})

	f := &fixture{store: store, audit: &fakeAudit{}, posting: &fakePosting{}, cache: newFakeCache()}
	deps := inventory.EngineDeps{
		TxRunner:  store.TxRunner(),
		Items:     store.Items(),
		Movements: store.Movements(),
		Products:  store.Products(),
		Branches:  store.Branches(),
		Audit:     f.audit,
		Posting:   f.posting,
		Cache:     f.cache,
	}
	if customize != nil {
		customize(&deps)
	}
	f.engine = inventory.NewEngine(deps)
	return f
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func in(productID, branchID, qty, ref string) inventory.MovementInput {
	return inventory.MovementInput{Actor: "user-1", ProductID: productID, BranchID: branchID, Quantity: d(qty), Ref: ref}
}

func assertSnapshot(t *testing.T, s *dto.ItemSnapshot, onHand, reserved, available string) {
	t.Helper()
	require.NotNil(t, s)
	assert.True(t, s.OnHand.Equal(d(onHand)), "on_hand=%s, esperado %s", s.OnHand, onHand)
	assert.True(t, s.Reserved.Equal(d(reserved)), "reserved=%s, esperado %s", s.Reserved, reserved)
	assert.True(t, s.Available.Equal(d(available)), "available=%s, esperado %s", s.Available, available)
}

func (f *fixture) assertConsistent(t *testing.T, productID, branchID string) {
	t.Helper()
	rep, err := inventory.NewReconcileUseCase(f.store.Items(), f.store.Movements(), nil).Check(context.Background(), productID, branchID)
	require.NoError(t, err)
	assert.True(t, rep.Consistent, "ítem %s/%s descuadrado: %+v", productID, branchID, rep)
}

// ── Flujos principales ────────────────────────────────────────────────────────

func TestEngine_RecibirReservarSalir(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.engine.OpeningBalance(ctx, in("p1", "b1", "100", "open-1"))
	require.NoError(t, err)
	assertSnapshot(t, s, "100", "0", "100")

	s, err = f.engine.Reserve(ctx, in("p1", "b1", "30", "ord-1"))
	require.NoError(t, err)
	assertSnapshot(t, s, "100", "30", "70")

	_, err = f.engine.Issue(ctx, in("p1", "b1", "80", "ship-1"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))

	s, err = f.engine.Issue(ctx, in("p1", "b1", "70", "ship-2"))
	require.NoError(t, err)
	assertSnapshot(t, s, "30", "30", "0")

	s, err = f.engine.Unreserve(ctx, in("p1", "b1", "30", "ord-1-cancel"))
	require.NoError(t, err)
	assertSnapshot(t, s, "30", "0", "30")

	f.assertConsistent(t, "p1", "b1")
}

func TestEngine_Traslado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Receive(ctx, in("p1", "b1", "50", "rc-1"))
	require.NoError(t, err)

	res, err := f.engine.Transfer(ctx, inventory.TransferInput{MovementInput: in("p1", "b1", "20", "tr-1"), ToBranchID: "b2"})
	require.NoError(t, err)
	assertSnapshot(t, &res.From, "30", "0", "30")
	assertSnapshot(t, &res.To, "20", "0", "20")

	movs, err := f.engine.ListMovements(ctx, repository.MovementFilter{ProductID: "p1", Ref: "tr-1"})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	types := []string{movs[0].Type, movs[1].Type}
	assert.ElementsMatch(t, []string{"TRANSFER_OUT", "TRANSFER_IN"}, types)

	f.assertConsistent(t, "p1", "b1")
	f.assertConsistent(t, "p1", "b2")
}

func TestEngine_TrasladoInvalido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.engine.Receive(ctx, in("p1", "b1", "10", ""))

	_, err := f.engine.Transfer(ctx, inventory.TransferInput{MovementInput: in("p1", "b1", "5", ""), ToBranchID: "b1"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)

	_, err = f.engine.Transfer(ctx, inventory.TransferInput{MovementInput: in("p1", "b1", "11", ""), ToBranchID: "b2"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.engine.Transfer(ctx, inventory.TransferInput{MovementInput: in("p1", "b1", "1", ""), ToBranchID: "b9"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// nada cambió
	s, err := f.engine.GetItem(ctx, "p1", "b2")
	require.NoError(t, err)
	assertSnapshot(t, s, "0", "0", "0")
}

func TestEngine_AjusteConMotivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.engine.Receive(ctx, in("p1", "b1", "10", ""))
	_, _ = f.engine.Reserve(ctx, in("p1", "b1", "4", ""))

	s, err := f.engine.Adjust(ctx, inventory.AdjustInput{MovementInput: in("p1", "b1", "-3", "cnt-1"), Reason: "merma"})
	require.NoError(t, err)
	assertSnapshot(t, s, "7", "4", "3")

	movs, err := f.engine.ListMovements(ctx, repository.MovementFilter{Ref: "cnt-1"})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "merma", movs[0].Meta["reason"])
	assert.True(t, movs[0].Quantity.Equal(d("-3")))

	_, err = f.engine.Adjust(ctx, inventory.AdjustInput{MovementInput: in("p1", "b1", "-8", ""), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrNegativeStockResult)

	_, err = f.engine.Adjust(ctx, inventory.AdjustInput{MovementInput: in("p1", "b1", "-4", ""), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.engine.Adjust(ctx, inventory.AdjustInput{MovementInput: in("p1", "b1", "0", ""), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	f.assertConsistent(t, "p1", "b1")
}

// ── Bordes ────────────────────────────────────────────────────────────────────

func TestEngine_CantidadesInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for name, call := range map[string]func() error{
		"receive cero": func() error { _, err := f.engine.Receive(ctx, in("p1", "b1", "0", "")); return err },
		"reserve negativo": func() error {
			_, err := f.engine.Reserve(ctx, in("p1", "b1", "-1", ""))
			return err
		},
		"issue cero":     func() error { _, err := f.engine.Issue(ctx, in("p1", "b1", "0", "")); return err },
		"unreserve cero": func() error { _, err := f.engine.Unreserve(ctx, in("p1", "b1", "0", "")); return err },
		"opening negativo": func() error {
			_, err := f.engine.OpeningBalance(ctx, in("p1", "b1", "-5", ""))
			return err
		},
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), domain.ErrInvalidQuantity)
		})
	}
}

func TestEngine_ReservaJustoPorEncimaDelDisponible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.engine.Receive(ctx, in("p1", "b1", "10", ""))

	_, err := f.engine.Reserve(ctx, in("p1", "b1", "10.001", ""))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	s, err := f.engine.Reserve(ctx, in("p1", "b1", "10", ""))
	require.NoError(t, err)
	assertSnapshot(t, s, "10", "10", "0")
}

func TestEngine_LiberarMasDeLoReservado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.engine.Receive(ctx, in("p1", "b1", "10", ""))
	_, _ = f.engine.Reserve(ctx, in("p1", "b1", "2", ""))

	_, err := f.engine.Unreserve(ctx, in("p1", "b1", "3", ""))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestEngine_SaldoInicial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.engine.OpeningBalance(ctx, in("p1", "b1", "0", ""))
	require.NoError(t, err)
	assertSnapshot(t, s, "0", "0", "0")
	all, _ := f.store.Movements().ListAll(ctx, "p1", "b1")
	assert.Empty(t, all, "saldo inicial cero no genera movimiento")

	_, err = f.engine.OpeningBalance(ctx, in("p1", "b1", "12.5", ""))
	require.NoError(t, err)

	_, err = f.engine.OpeningBalance(ctx, in("p1", "b1", "3", ""))
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)
	assert.Equal(t, domain.KindAlreadyInitialized, domain.KindOf(err))
}

func TestEngine_ProductoInactivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.engine.Receive(ctx, in("p1", "b1", "10", ""))
	require.NoError(t, f.store.SetProductActive("p1", false))

	_, err := f.engine.Reserve(ctx, in("p1", "b1", "1", ""))
	assert.ErrorIs(t, err, domain.ErrInactiveProduct)
	_, err = f.engine.Issue(ctx, in("p1", "b1", "1", ""))
	assert.ErrorIs(t, err, domain.ErrInactiveProduct)

	s, err := f.engine.GetItem(ctx, "p1", "b1")
	require.NoError(t, err)
	assertSnapshot(t, s, "10", "0", "10")
}

func TestEngine_NoEncontrado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Receive(ctx, in("nope", "b1", "1", ""))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.engine.Receive(ctx, in("p1", "nope", "1", ""))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.engine.GetItem(ctx, "nope", "b1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEngine_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Receive(ctx, in("", "b1", "1", ""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	long := make([]byte, entity.MaxRefLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = f.engine.Receive(ctx, in("p1", "b1", "1", string(long)))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.engine.ListMovements(ctx, repository.MovementFilter{Type: "LOST"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Idempotencia ──────────────────────────────────────────────────────────────

func TestEngine_ReintentoConMismaRef(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.engine.Receive(ctx, in("p1", "b1", "10", "po-1"))
	require.NoError(t, err)
	again, err := f.engine.Receive(ctx, in("p1", "b1", "10", "po-1"))
	require.NoError(t, err)
	assert.Equal(t, first.OnHand.String(), again.OnHand.String())

	all, _ := f.store.Movements().ListAll(ctx, "p1", "b1")
	assert.Len(t, all, 1)

	// misma ref con otro tipo es otra operación
	_, err = f.engine.Reserve(ctx, in("p1", "b1", "4", "po-1"))
	require.NoError(t, err)
	_, err = f.engine.Reserve(ctx, in("p1", "b1", "4", "po-1"))
	require.NoError(t, err)
	s, err := f.engine.GetItem(ctx, "p1", "b1")
	require.NoError(t, err)
	assertSnapshot(t, s, "10", "4", "6")
}

func TestEngine_TrasladoIdempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.engine.Receive(ctx, in("p1", "b1", "10", ""))

	tr := inventory.TransferInput{MovementInput: in("p1", "b1", "4", "tr-9"), ToBranchID: "b2"}
	_, err := f.engine.Transfer(ctx, tr)
	require.NoError(t, err)
	res, err := f.engine.Transfer(ctx, tr)
	require.NoError(t, err)
	assertSnapshot(t, &res.From, "6", "0", "6")
	assertSnapshot(t, &res.To, "4", "0", "4")
}

// ── Concurrencia ──────────────────────────────────────────────────────────────

func TestEngine_ReservasConcurrentesNoSobrevenden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.engine.Receive(ctx, in("p1", "b1", "10", ""))
	require.NoError(t, err)

	const workers = 25
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		errs []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Reserve(ctx, in("p1", "b1", "1", ""))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	for _, err := range errs {
		k := domain.KindOf(err)
		assert.True(t, k == domain.KindInsufficientStock || k == domain.KindConflict, "error inesperado: %v", err)
	}
	s, err := f.engine.GetItem(ctx, "p1", "b1")
	require.NoError(t, err)
	assertSnapshot(t, s, "10", "10", "0")
	f.assertConsistent(t, "p1", "b1")
}

func TestEngine_TrasladosCruzadosSinDeadlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.engine.Receive(ctx, in("p1", "b1", "100", ""))
	_, _ = f.engine.Receive(ctx, in("p1", "b2", "100", ""))

	var wg sync.WaitGroup
	errCh := make(chan error, 40)
	for i := 0; i < 40; i++ {
		from, to := "b1", "b2"
		if i%2 == 1 {
			from, to = "b2", "b1"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Transfer(ctx, inventory.TransferInput{MovementInput: in("p1", from, "1", ""), ToBranchID: to})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		assert.NoError(t, err)
	}

	a, _ := f.engine.GetItem(ctx, "p1", "b1")
	b, _ := f.engine.GetItem(ctx, "p1", "b2")
	assert.True(t, a.OnHand.Add(b.OnHand).Equal(d("200")))
	f.assertConsistent(t, "p1", "b1")
	f.assertConsistent(t, "p1", "b2")
}

// ── Lotes ─────────────────────────────────────────────────────────────────────

func TestEngine_LoteAtomico(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.engine.Receive(ctx, in("p1", "b1", "5", ""))

	_, err := f.engine.ApplyBatch(ctx, inventory.BatchInput{Actor: "user-1", Lines: []inventory.BatchLine{
		{Op: inventory.BatchOpReceive, ProductID: "p2", BranchID: "b1", Quantity: d("10")},
		{Op: inventory.BatchOpIssue, ProductID: "p1", BranchID: "b1", Quantity: d("6")},
	}})
	require.Error(t, err)
	var lineErr *inventory.BatchLineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 1, lineErr.Line)
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))

	s, _ := f.engine.GetItem(ctx, "p2", "b1")
	assertSnapshot(t, s, "0", "0", "0")

	snaps, err := f.engine.ApplyBatch(ctx, inventory.BatchInput{Actor: "user-1", Lines: []inventory.BatchLine{
		{Op: inventory.BatchOpReceive, ProductID: "p2", BranchID: "b1", Quantity: d("10"), Ref: "l-1"},
		{Op: inventory.BatchOpReserve, ProductID: "p2", BranchID: "b1", Quantity: d("3"), Ref: "l-2"},
		{Op: inventory.BatchOpIssue, ProductID: "p1", BranchID: "b1", Quantity: d("5")},
	}})
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assertSnapshot(t, &snaps[0], "0", "0", "0")
	assertSnapshot(t, &snaps[1], "10", "3", "7")

	// reintento: las líneas con ref ya aplicada se omiten
	_, err = f.engine.ApplyBatch(ctx, inventory.BatchInput{Lines: []inventory.BatchLine{
		{Op: inventory.BatchOpReceive, ProductID: "p2", BranchID: "b1", Quantity: d("10"), Ref: "l-1"},
	}})
	require.NoError(t, err)
	s, _ = f.engine.GetItem(ctx, "p2", "b1")
	assertSnapshot(t, s, "10", "3", "7")
}

func TestEngine_LoteVacioYOperacionDesconocida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.ApplyBatch(ctx, inventory.BatchInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.engine.ApplyBatch(ctx, inventory.BatchInput{Lines: []inventory.BatchLine{
		{Op: "steal", ProductID: "p1", BranchID: "b1", Quantity: d("1")},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Colaboradores ─────────────────────────────────────────────────────────────

func TestEngine_AuditoriaYGanchoContable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rc := in("p1", "b1", "10", "po-7")
	rc.Context = map[string]any{"request_id": "req-1"}
	_, err := f.engine.Receive(ctx, rc)
	require.NoError(t, err)
	_, err = f.engine.Transfer(ctx, inventory.TransferInput{MovementInput: in("p1", "b1", "2", "tr-7"), ToBranchID: "b2"})
	require.NoError(t, err)

	events := f.audit.all()
	require.Len(t, events, 3)
	assert.Equal(t, entity.AuditEventReceive, events[0].eventType)
	assert.Equal(t, "user-1", events[0].actor)
	assert.Equal(t, "req-1", events[0].context["request_id"])
	assert.Equal(t, "10", events[0].context["on_hand_after"])
	assert.NotEmpty(t, events[0].subject.MovementID)
	assert.Equal(t, entity.AuditEventTransferOut, events[1].eventType)
	assert.Equal(t, entity.AuditEventTransferIn, events[2].eventType)

	assert.Len(t, f.posting.postings, 3)

	// un reintento no vuelve a auditar
	_, err = f.engine.Receive(ctx, rc)
	require.NoError(t, err)
	assert.Len(t, f.audit.all(), 3)
}

func TestEngine_FalloDeAuditoriaNoRevierte(t *testing.T) {
	f := newFixture(t)
	f.audit.err = errors.New("audit caído")
	ctx := context.Background()

	s, err := f.engine.Receive(ctx, in("p1", "b1", "10", ""))
	require.NoError(t, err)
	assertSnapshot(t, s, "10", "0", "10")

	all, _ := f.store.Movements().ListAll(ctx, "p1", "b1")
	assert.Len(t, all, 1)
}

func TestEngine_CacheRecibeEstadoConfirmado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.engine.Receive(ctx, in("p1", "b1", "10", ""))

	s, err := f.engine.GetItem(ctx, "p1", "b1")
	require.NoError(t, err)
	assertSnapshot(t, s, "10", "0", "10")
	assert.Equal(t, int64(1), s.Version)

	_, err = f.engine.Reserve(ctx, in("p1", "b1", "3", ""))
	require.NoError(t, err)
	cached, ok, _ := f.cache.Get(ctx, "p1", "b1")
	require.True(t, ok)
	assertSnapshot(t, cached, "10", "3", "7")
	assert.Equal(t, int64(2), cached.Version)
	assert.Empty(t, f.cache.invalidated)

	s, err = f.engine.GetItem(ctx, "p1", "b1")
	require.NoError(t, err)
	assertSnapshot(t, s, "10", "3", "7")
}

// ── Conciliación ──────────────────────────────────────────────────────────────

func TestReconcile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := inventory.NewReconcileUseCase(f.store.Items(), f.store.Movements(), nil)

	_, err := uc.Check(ctx, "p1", "b1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _ = f.engine.OpeningBalance(ctx, in("p1", "b1", "20", ""))
	_, _ = f.engine.Reserve(ctx, in("p1", "b1", "5", ""))
	_, _ = f.engine.Issue(ctx, in("p1", "b1", "3", ""))
	_, _ = f.engine.Adjust(ctx, inventory.AdjustInput{MovementInput: in("p1", "b1", "1.5", ""), Reason: "conteo"})

	rep, err := uc.Check(ctx, "p1", "b1")
	require.NoError(t, err)
	assert.True(t, rep.Consistent)
	assert.Equal(t, 4, rep.Movements)
	assert.True(t, rep.LedgerOnHand.Equal(d("18.5")))
	assert.True(t, rep.LedgerReserved.Equal(d("5")))
}
