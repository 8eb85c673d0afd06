package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/carniceria-stock/internal/application/dto"
	"github.com/tu-usuario/carniceria-stock/internal/application/ledger"
	"github.com/tu-usuario/carniceria-stock/internal/domain/entity"
	"github.com/tu-usuario/carniceria-stock/internal/domain/repository"
	apphttp "github.com/tu-usuario/carniceria-stock/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test: app Fiber mínima con el handler de movimientos sobre un
// motor respaldado por repositorios en memoria.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID  = "00000000-0000-0000-0000-00000000000a"
	testLocationID = "00000000-0000-0000-0000-00000000000b"
)

type memStore struct {
	products  map[string]*entity.Product
	locations map[string]*entity.Location
	movements []*entity.Movement
	lots      map[string]*entity.Lot
	seq       int
}

func (s *memStore) nextID() string {
	s.seq++
	return fmt.Sprintf("id-%d", s.seq)
}

func lotKey(productID, code string) string { return productID + "/" + code }

type memProductRepo struct{ s *memStore }

func (r memProductRepo) Create(p *entity.Product) error             { r.s.products[p.ID] = p; return nil }
func (r memProductRepo) GetByID(id string) (*entity.Product, error) { return r.s.products[id], nil }
func (r memProductRepo) GetByName(name string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}
func (r memProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }

type memLocationRepo struct{ s *memStore }

func (r memLocationRepo) Create(l *entity.Location) error { r.s.locations[l.ID] = l; return nil }
func (r memLocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.s.locations[id], nil
}
func (r memLocationRepo) List(limit, offset int) ([]*entity.Location, error) { return nil, nil }

type memMovementRepo struct{ s *memStore }

func (r memMovementRepo) Create(m *entity.Movement) error {
	m.ID = r.s.nextID()
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r memMovementRepo) GetByID(id string) (*entity.Movement, error) { return nil, nil }
func (r memMovementRepo) List(f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.s.movements {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
func (r memMovementRepo) ListByTransfer(transferID string) ([]*entity.Movement, error) {
	return nil, nil
}
func (r memMovementRepo) ExistsForOrder(orderID, productID, kind string, qty decimal.Decimal) (bool, error) {
	return false, nil
}

type memLotRepo struct{ s *memStore }

func (r memLotRepo) Credit(productID, lotCode string, qty, weight decimal.Decimal, prov repository.LotProvenance) error {
	key := lotKey(productID, lotCode)
	if lot, ok := r.s.lots[key]; ok {
		lot.AvailableQty = lot.AvailableQty.Add(qty)
		lot.AvailableWeight = lot.AvailableWeight.Add(weight)
		return nil
	}
	r.s.lots[key] = &entity.Lot{
		ID: r.s.nextID(), ProductID: productID, Code: lotCode,
		InitialQty: qty, InitialWeight: weight,
		AvailableQty: qty, AvailableWeight: weight,
		EntryDate: prov.EntryDate,
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
	return out, nil
}
func (r memLotRepo) ListByProduct(productID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, lot := range r.s.lots {
		if lot.ProductID == productID {
			out = append(out, lot)
		}
	}
	return out, nil
}

type memTxRunner struct{ s *memStore }

func (r memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
) error) error {
	return fn(memMovementRepo{r.s}, memLotRepo{r.s})
}

// buildTestApp monta las rutas de inventario sobre un motor con stores en memoria.
func buildTestApp(t *testing.T) (*fiber.App, *memStore) {
	t.Helper()
	s := &memStore{
		products:  map[string]*entity.Product{},
		locations: map[string]*entity.Location{},
		lots:      map[string]*entity.Lot{},
	}
	s.products[testProductID] = &entity.Product{ID: testProductID, Name: "Lomo embuchado", Unit: "ud"}
	s.locations[testLocationID] = &entity.Location{ID: testLocationID, Name: "Tienda Centro", Kind: entity.LocationKindStore}

	engine := ledger.NewEngine(memTxRunner{s}, memProductRepo{s}, memLocationRepo{s}, memMovementRepo{s}, memLotRepo{s})

	app := fiber.New()
	handler := apphttp.NewMovementHandler(engine)
	app.Post("/api/inventory/movements", handler.RecordMovement)
	app.Get("/api/inventory/movements", handler.ListMovements)
	app.Get("/api/inventory/products/:id/lots", handler.ListAvailableLots)
	return app, s
}

func postMovement(t *testing.T, app *fiber.App, body dto.RecordMovementRequest) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/movements", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/inventory/movements
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_Entrada_201(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := postMovement(t, app, dto.RecordMovementRequest{
		LocationID: testLocationID,
		ProductID:  testProductID,
		Kind:       "entry",
		Quantity:   decimal.NewFromInt(50),
		Weight:     decimal.NewFromInt(20),
		LotCode:    "L-001",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body dto.RecordMovementResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "entry", body.Movement.Kind)
	assert.True(t, body.Movement.Quantity.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "ud", body.Movement.Unit, "sin unidad explícita se usa la del producto")
	assert.Empty(t, body.Warnings)
}

// El recorte en cero responde 201 con el movimiento registrado y los avisos en
// el cuerpo: es calidad de datos, no un error del cliente.
func TestRecordMovement_RecorteEnCero_201ConAvisos(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := postMovement(t, app, dto.RecordMovementRequest{
		LocationID: testLocationID,
		ProductID:  testProductID,
		Kind:       "entry",
		Quantity:   decimal.NewFromInt(10),
		LotCode:    "L-001",
	})
	resp.Body.Close()

	resp = postMovement(t, app, dto.RecordMovementRequest{
		LocationID: testLocationID,
		ProductID:  testProductID,
		Kind:       "exit",
		Quantity:   decimal.NewFromInt(15),
		LotCode:    "L-001",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode,
		"el recorte en cero no es error: el apunte queda registrado")

	var body dto.RecordMovementResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Warnings, "los avisos de calidad de datos van en la respuesta")
	assert.Contains(t, body.Warnings[0], "recortada en cero")
	assert.True(t, body.Movement.Quantity.Equal(decimal.NewFromInt(-15)))
}

func TestRecordMovement_TipoDesconocido_400(t *testing.T) {
	app, s := buildTestApp(t)

	resp := postMovement(t, app, dto.RecordMovementRequest{
		LocationID: testLocationID,
		ProductID:  testProductID,
		Kind:       "venta",
		Quantity:   decimal.NewFromInt(5),
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, s.movements, "una petición rechazada no registra nada")
}

func TestRecordMovement_ProductoInexistente_404(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := postMovement(t, app, dto.RecordMovementRequest{
		LocationID: testLocationID,
		ProductID:  "prod-fantasma",
		Kind:       "entry",
		Quantity:   decimal.NewFromInt(5),
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/inventory/products/:id/lots
// ──────────────────────────────────────────────────────────────────────────────

func TestListAvailableLots_200(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := postMovement(t, app, dto.RecordMovementRequest{
		LocationID: testLocationID,
		ProductID:  testProductID,
		Kind:       "entry",
		Quantity:   decimal.NewFromInt(30),
		LotCode:    "L-001",
	})
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/products/"+testProductID+"/lots", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var lots []dto.LotResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lots))
	require.Len(t, lots, 1)
	assert.Equal(t, "L-001", lots[0].Code)
	assert.True(t, lots[0].AvailableQty.Equal(decimal.NewFromInt(30)))
}

func TestListAvailableLots_ProductoInexistente_404(t *testing.T) {
	app, _ := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/products/prod-fantasma/lots", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
