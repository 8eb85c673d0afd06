package ledger_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/carniceria-stock/internal/application/ledger"
	"github.com/tu-usuario/carniceria-stock/internal/domain"
	"github.com/tu-usuario/carniceria-stock/internal/domain/entity"
	"github.com/tu-usuario/carniceria-stock/internal/domain/inventory"
	"github.com/tu-usuario/carniceria-stock/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// Reproducen la semántica de los adaptadores de PostgreSQL que importa al motor:
// el Credit hace upsert (la procedencia de la primera entrada prevalece, los
// disponibles se suman) y el Debit recorta en cero devolviendo los disponibles
// previos.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products  map[string]*entity.Product
	locations map[string]*entity.Location
	movements []*entity.Movement
	lots      map[string]*entity.Lot // clave productID + "/" + code
	seq       int
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[string]*entity.Product{},
		locations: map[string]*entity.Location{},
		lots:      map[string]*entity.Lot{},
	}
}

func (s *memStore) nextID() string {
	s.seq++
	return fmt.Sprintf("id-%d", s.seq)
}

type memProductRepo struct{ s *memStore }

func (r memProductRepo) Create(p *entity.Product) error {
	if p.ID == "" {
		p.ID = r.s.nextID()
	}
	r.s.products[p.ID] = p
	return nil
}

func (r memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r memProductRepo) GetByName(name string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (r memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, nil
}

type memLocationRepo struct{ s *memStore }

func (r memLocationRepo) Create(l *entity.Location) error {
	if l.ID == "" {
		l.ID = r.s.nextID()
	}
	r.s.locations[l.ID] = l
	return nil
}

func (r memLocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.s.locations[id], nil
}

func (r memLocationRepo) List(limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.s.locations {
		out = append(out, l)
	}
	return out, nil
}

type memMovementRepo struct{ s *memStore }

func (r memMovementRepo) Create(m *entity.Movement) error {
	m.ID = r.s.nextID()
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r memMovementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r memMovementRepo) List(f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if f.LocationID != "" && m.LocationID != f.LocationID {
			continue
		}
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.LotCode != "" && m.LotCode != f.LotCode {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r memMovementRepo) ListByTransfer(transferID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if m.TransferID == transferID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memMovementRepo) ExistsForOrder(orderID, productID, kind string, qty decimal.Decimal) (bool, error) {
	for _, m := range r.s.movements {
		if m.OrderID == orderID && m.ProductID == productID && m.Kind == kind &&
			m.Quantity.Abs().Equal(qty.Abs()) {
			return true, nil
		}
	}
	return false, nil
}

type memLotRepo struct{ s *memStore }

func lotKey(productID, code string) string { return productID + "/" + code }

func (r memLotRepo) Credit(productID, lotCode string, qty, weight decimal.Decimal, prov repository.LotProvenance) error {
	key := lotKey(productID, lotCode)
	if lot, ok := r.s.lots[key]; ok {
		lot.AvailableQty = lot.AvailableQty.Add(qty)
		lot.AvailableWeight = lot.AvailableWeight.Add(weight)
		return nil
	}
	r.s.lots[key] = &entity.Lot{
		ID:              r.s.nextID(),
		ProductID:       productID,
		Code:            lotCode,
		InitialQty:      qty,
		InitialWeight:   weight,
		AvailableQty:    qty,
		AvailableWeight: weight,
		EntryDate:       prov.EntryDate,
		SupplierRef:     prov.SupplierRef,
		UnitCost:        prov.UnitCost,
		SourceDoc:       prov.SourceDoc,
		Notes:           prov.Notes,
	}
	return nil
}

func (r memLotRepo) Debit(productID, lotCode string, qty, weight decimal.Decimal) (repository.DebitResult, error) {
	lot, ok := r.s.lots[lotKey(productID, lotCode)]
	if !ok {
		return repository.DebitResult{Found: false}, nil
	}
	res := repository.DebitResult{Found: true, PrevQty: lot.AvailableQty, PrevWeight: lot.AvailableWeight}
	lot.AvailableQty = decimal.Max(decimal.Zero, lot.AvailableQty.Sub(qty))
	lot.AvailableWeight = decimal.Max(decimal.Zero, lot.AvailableWeight.Sub(weight))
	return res, nil
}

func (r memLotRepo) GetByProductAndCode(productID, lotCode string) (*entity.Lot, error) {
	return r.s.lots[lotKey(productID, lotCode)], nil
}

func (r memLotRepo) ListAvailableByProduct(productID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, lot := range r.s.lots {
		if lot.ProductID == productID && !lot.Exhausted() {
			out = append(out, lot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.Before(out[j].EntryDate) })
	return out, nil
}

func (r memLotRepo) ListByProduct(productID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, lot := range r.s.lots {
		if lot.ProductID == productID {
			out = append(out, lot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.Before(out[j].EntryDate) })
	return out, nil
}

// memTxRunner no hay transacción real: pasa los repos del mismo store.
type memTxRunner struct{ s *memStore }

func (r memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
) error) error {
	return fn(memMovementRepo{r.s}, memLotRepo{r.s})
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID  = "prod-solomillo"
	testLocationID = "loc-tienda-centro"
)

func newTestEngine(t *testing.T) (*ledger.Engine, *memStore) {
	t.Helper()
	s := newMemStore()
	s.products[testProductID] = &entity.Product{
		ID: testProductID, Name: "Solomillo de ternera", Unit: "kg",
	}
	s.locations[testLocationID] = &entity.Location{
		ID: testLocationID, Name: "Tienda Centro", Kind: entity.LocationKindStore,
	}
	engine := ledger.NewEngine(
		memTxRunner{s},
		memProductRepo{s},
		memLocationRepo{s},
		memMovementRepo{s},
		memLotRepo{s},
	)
	return engine, s
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func entryInput(lotCode string, qty, weight int64) ledger.MovementInput {
	return ledger.MovementInput{
		LocationID: testLocationID,
		ProductID:  testProductID,
		Kind:       inventory.KindEntry,
		Quantity:   d(qty),
		Weight:     d(weight),
		LotCode:    lotCode,
		Reason:     "recepción de proveedor",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación: una entrada rechazada no deja rastro en el libro
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_TipoInvalido_SinEfectos(t *testing.T) {
	engine, s := newTestEngine(t)

	input := entryInput("L-001", 10, 4)
	input.Kind = "venta" // fuera del conjunto cerrado

	_, err := engine.RecordMovement(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "un tipo desconocido debe rechazarse")
	assert.Empty(t, s.movements, "una entrada rechazada no debe registrar movimientos")
	assert.Empty(t, s.lots, "una entrada rechazada no debe tocar lotes")
}

func TestRecordMovement_CantidadCero_Rechazada(t *testing.T) {
	engine, s := newTestEngine(t)

	input := entryInput("L-001", 0, 0)
	_, err := engine.RecordMovement(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, s.movements)
}

func TestRecordMovement_ProductoInexistente_NotFound(t *testing.T) {
	engine, _ := newTestEngine(t)

	input := entryInput("L-001", 10, 4)
	input.ProductID = "prod-fantasma"
	_, err := engine.RecordMovement(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordMovement_UbicacionInexistente_NotFound(t *testing.T) {
	engine, _ := newTestEngine(t)

	input := entryInput("L-001", 10, 4)
	input.LocationID = "loc-fantasma"
	_, err := engine.RecordMovement(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas y lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaCreaLote(t *testing.T) {
	engine, s := newTestEngine(t)

	cost := decimal.NewFromFloat(12.50)
	input := entryInput("L-2024-001", 50, 20)
	input.SupplierRef = "Cárnicas del Norte"
	input.UnitCost = &cost
	input.SourceDoc = "albarán 7741"

	result, err := engine.RecordMovement(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, result.Movement)
	assert.Empty(t, result.Warnings, "una entrada limpia no produce avisos")

	assert.True(t, result.Movement.Quantity.Equal(d(50)),
		"la entrada debe quedar con cantidad positiva")
	assert.Equal(t, "kg", result.Movement.Unit, "sin unidad explícita se usa la del producto")

	lot := s.lots[lotKey(testProductID, "L-2024-001")]
	require.NotNil(t, lot, "la entrada con código de lote debe crear el lote")
	assert.True(t, lot.InitialQty.Equal(d(50)))
	assert.True(t, lot.AvailableQty.Equal(d(50)))
	assert.True(t, lot.AvailableWeight.Equal(d(20)))
	assert.Equal(t, "Cárnicas del Norte", lot.SupplierRef, "la procedencia se captura al crear")
	require.NotNil(t, lot.UnitCost)
	assert.True(t, lot.UnitCost.Equal(cost))
}

func TestRecordMovement_SegundaEntradaMismoLote_SumaDisponibles(t *testing.T) {
	engine, s := newTestEngine(t)
	ctx := context.Background()

	first := entryInput("L-001", 50, 20)
	first.SupplierRef = "Proveedor A"
	_, err := engine.RecordMovement(ctx, first)
	require.NoError(t, err)

	second := entryInput("L-001", 10, 4)
	second.SupplierRef = "Proveedor B"
	_, err = engine.RecordMovement(ctx, second)
	require.NoError(t, err)

	lot := s.lots[lotKey(testProductID, "L-001")]
	require.NotNil(t, lot)
	assert.True(t, lot.AvailableQty.Equal(d(60)), "los disponibles se suman")
	assert.True(t, lot.InitialQty.Equal(d(50)), "el inicial queda fijado por la primera entrada")
	assert.Equal(t, "Proveedor A", lot.SupplierRef,
		"la procedencia de la primera entrada prevalece")
}

func TestRecordMovement_EntradaSinLote_NoCreaLote(t *testing.T) {
	engine, s := newTestEngine(t)

	_, err := engine.RecordMovement(context.Background(), entryInput("", 10, 0))
	require.NoError(t, err)
	assert.Len(t, s.movements, 1)
	assert.Empty(t, s.lots, "sin código de lote no hay efecto sobre lotes")
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas: recorte en cero y lote inexistente como avisos, nunca errores
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_SalidaRecortadaEnCero(t *testing.T) {
	engine, s := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.RecordMovement(ctx, entryInput("L-001", 10, 4))
	require.NoError(t, err)

	exit := entryInput("L-001", 15, 6)
	exit.Kind = inventory.KindExit
	result, err := engine.RecordMovement(ctx, exit)
	require.NoError(t, err, "el recorte en cero es una condición de calidad de datos, no un error")

	assert.True(t, result.Movement.Quantity.Equal(d(-15)),
		"el movimiento se registra con la magnitud solicitada, no con la recortada")
	require.NotEmpty(t, result.Warnings, "el recorte debe devolver un aviso")
	assert.Contains(t, result.Warnings[0], "recortada en cero")

	lot := s.lots[lotKey(testProductID, "L-001")]
	assert.True(t, lot.AvailableQty.IsZero(), "el disponible nunca baja de cero")
	assert.True(t, lot.AvailableWeight.IsZero())
}

func TestRecordMovement_SalidaLoteInexistente_RegistraConAviso(t *testing.T) {
	engine, s := newTestEngine(t)

	exit := entryInput("L-NO-EXISTE", 5, 2)
	exit.Kind = inventory.KindExit
	result, err := engine.RecordMovement(context.Background(), exit)
	require.NoError(t, err, "el lote inexistente no debe impedir registrar el movimiento")

	assert.Len(t, s.movements, 1, "el apunte en el libro se registra igualmente")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "inexistente")
	assert.Empty(t, s.lots, "una salida nunca crea lotes")
}

func TestRecordMovement_SalidaParcial_SinAvisos(t *testing.T) {
	engine, s := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.RecordMovement(ctx, entryInput("L-001", 50, 20))
	require.NoError(t, err)

	exit := entryInput("L-001", 10, 4)
	exit.Kind = inventory.KindExit
	result, err := engine.RecordMovement(ctx, exit)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings, "una salida cubierta por el disponible no avisa")

	lot := s.lots[lotKey(testProductID, "L-001")]
	assert.True(t, lot.AvailableQty.Equal(d(40)))
	assert.True(t, lot.AvailableWeight.Equal(d(16)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad: el stock de la ubicación es la suma de cantidades con signo
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_SumaConSigno(t *testing.T) {
	engine, s := newTestEngine(t)
	ctx := context.Background()

	steps := []struct {
		kind string
		qty  int64
	}{
		{inventory.KindEntry, 50},
		{inventory.KindExit, 10},
		{inventory.KindAdjustment, 3},
		{inventory.KindFabrication, 5},
		{inventory.KindReturnIn, 2},
	}
	for _, step := range steps {
		input := entryInput("", step.qty, 0)
		input.Kind = step.kind
		_, err := engine.RecordMovement(ctx, input)
		require.NoError(t, err)
	}

	total := decimal.Zero
	for _, m := range s.movements {
		total = total.Add(m.Quantity)
	}
	// 50 - 10 + 3 - 5 + 2 = 40
	assert.True(t, total.Equal(d(40)),
		"el stock debe ser la suma de cantidades con signo; obtenido %s", total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestListAvailableLots_ExcluyeAgotados(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.RecordMovement(ctx, entryInput("L-001", 10, 0))
	require.NoError(t, err)
	_, err = engine.RecordMovement(ctx, entryInput("L-002", 20, 0))
	require.NoError(t, err)

	exit := entryInput("L-001", 10, 0)
	exit.Kind = inventory.KindExit
	_, err = engine.RecordMovement(ctx, exit)
	require.NoError(t, err)

	available, err := engine.ListAvailableLots(ctx, testProductID)
	require.NoError(t, err)
	require.Len(t, available, 1, "el lote agotado no debe listarse como disponible")
	assert.Equal(t, "L-002", available[0].Code)

	history, err := engine.ListLotHistory(ctx, testProductID)
	require.NoError(t, err)
	assert.Len(t, history, 2, "el historial incluye lotes agotados")
}

func TestListAvailableLots_ProductoInexistente(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.ListAvailableLots(context.Background(), "prod-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListMovements_FiltroPorProducto(t *testing.T) {
	engine, s := newTestEngine(t)
	ctx := context.Background()

	otherID := "prod-chorizo"
	s.products[otherID] = &entity.Product{ID: otherID, Name: "Chorizo casero", Unit: "ud"}

	_, err := engine.RecordMovement(ctx, entryInput("", 5, 0))
	require.NoError(t, err)

	other := entryInput("", 3, 0)
	other.ProductID = otherID
	_, err = engine.RecordMovement(ctx, other)
	require.NoError(t, err)

	list, err := engine.ListMovements(ctx, repository.MovementFilter{ProductID: otherID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, otherID, list[0].ProductID)
}

// El motor estampa la fecha una sola vez por llamada; ambos lados de un traslado
// grabados en la misma transacción comparten instante (ver coordinator).
func TestRecordInTx_FechaDelLlamador(t *testing.T) {
	engine, s := newTestEngine(t)

	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	_, err := engine.RecordInTx(memMovementRepo{s}, memLotRepo{s}, entryInput("", 5, 0), at)
	require.NoError(t, err)

	require.Len(t, s.movements, 1)
	assert.True(t, s.movements[0].Date.Equal(at), "la fecha debe ser la proporcionada por el caller")
}
