package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/importer"
	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	apphttp "github.com/jhoicas/warehouse-api/internal/interfaces/http"
)

// ── stubs ─────────────────────────────────────────────────────────────────────

type stubLedger struct {
	gotUserID int64
	gotMove   dto.StockMovementRequest
	gotFilter repository.TransactionFilter
	moveErr   error
	list      []*entity.Transaction
	check     *inventory.LedgerCheck
}

func (s *stubLedger) ApplyStockChangeFromRequest(_ context.Context, userID int64, in dto.StockMovementRequest) (*dto.TransactionResponse, error) {
	s.gotUserID, s.gotMove = userID, in
	if s.moveErr != nil {
		return nil, s.moveErr
	}
	return &dto.TransactionResponse{ID: 99, ItemID: in.ItemID, UserID: userID, Action: in.Action, QuantityChange: -in.Quantity}, nil
}

func (s *stubLedger) ListTransactions(_ context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	s.gotFilter = f
	return s.list, nil
}

func (s *stubLedger) ReconcileItem(_ context.Context, itemID int64) (*inventory.LedgerCheck, error) {
	if s.check == nil {
		return nil, domain.ErrItemNotFound
	}
	return s.check, nil
}

type stubReports struct{ gotFilter repository.TransactionFilter }

func (s *stubReports) TransactionsPDF(_ context.Context, f repository.TransactionFilter) ([]byte, string, error) {
	s.gotFilter = f
	return []byte("%PDF-1.3 test"), "movimientos.pdf", nil
}

type stubImporter struct {
	gotUserID int64
	gotReq    importer.ImportRequest
	gotBody   string
}

func (s *stubImporter) ImportItems(_ context.Context, userID int64, req importer.ImportRequest) (*dto.ImportResult, error) {
	s.gotUserID, s.gotReq = userID, req
	b, _ := io.ReadAll(req.Source)
	s.gotBody = string(b)
	return &dto.ImportResult{Created: 2, Skipped: 1, Errors: []dto.RowError{}}, nil
}

type stubUsers struct{ created bool }

func (s *stubUsers) Create(_ context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	s.created = true
	return &dto.UserResponse{ID: 3, Username: in.Username, Role: in.Role}, nil
}
func (s *stubUsers) GetByID(_ context.Context, id int64) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: id, Username: "bodega"}, nil
}
func (s *stubUsers) List(context.Context, dto.PageRequest) (*dto.UserListResponse, error) {
	return &dto.UserListResponse{}, nil
}

type stubReplenishment struct{}

func (stubReplenishment) GenerateReplenishmentList(context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	return []dto.ReplenishmentSuggestionDTO{{ItemID: 1, Code: "BR-6", SuggestedQty: 5, Priority: 1}}, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

type testDeps struct {
	ledger   *stubLedger
	reports  *stubReports
	importer *stubImporter
	users    *stubUsers
}

func newRouterApp(t *testing.T) (*fiber.App, *testDeps) {
	t.Helper()
	d := &testDeps{
		ledger:   &stubLedger{},
		reports:  &stubReports{},
		importer: &stubImporter{},
		users:    &stubUsers{},
	}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Users:          d.users,
		Importer:       d.importer,
		Ledger:         d.ledger,
		Replenishment:  stubReplenishment{},
		Reports:        d.reports,
		JWTSecret:      testJWTSecret,
		MaxUploadBytes: 1 << 20,
	})
	return app, d
}

func send(t *testing.T, app *fiber.App, method, path, role string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ── movimientos ───────────────────────────────────────────────────────────────

func TestRegisterMovement_UsaElUsuarioDelToken(t *testing.T) {
	app, d := newRouterApp(t)
	resp := send(t, app, http.MethodPost, "/api/inventory/movements", "User",
		strings.NewReader(`{"item_id":5,"action":"Withdraw","quantity":3,"user_id":1}`), fiber.MIMEApplicationJSON)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, testUserID, d.ledger.gotUserID, "el usuario sale del token, no del body")
	assert.Equal(t, int64(5), d.ledger.gotMove.ItemID)
	assert.Equal(t, "Withdraw", d.ledger.gotMove.Action)

	var out dto.TransactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, int64(99), out.ID)
	assert.Equal(t, -3, out.QuantityChange)
}

func TestRegisterMovement_SinToken_Retorna401(t *testing.T) {
	app, _ := newRouterApp(t)
	resp := send(t, app, http.MethodPost, "/api/inventory/movements", "",
		strings.NewReader(`{}`), fiber.MIMEApplicationJSON)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterMovement_MapeoDeErrores(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"stock insuficiente", domain.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"cantidad inválida", domain.ErrInvalidQuantity, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"acción inválida", domain.ErrInvalidAction, http.StatusBadRequest, "INVALID_ACTION"},
		{"artículo inexistente", domain.ErrItemNotFound, http.StatusNotFound, "ITEM_NOT_FOUND"},
		{"usuario inexistente", domain.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"clave repetida", domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{"persistencia", &domain.PersistenceError{Op: "insert transaction", Transient: true, Err: errors.New("lock timeout")}, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
		{"no tipado", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, d := newRouterApp(t)
			d.ledger.moveErr = tc.err
			resp := send(t, app, http.MethodPost, "/api/inventory/movements", "User",
				strings.NewReader(`{"item_id":1,"action":"Withdraw","quantity":1}`), fiber.MIMEApplicationJSON)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, resp).Code)
		})
	}
}

func TestRegisterMovement_ErrorDeValidacionIncluyeCampos(t *testing.T) {
	app, d := newRouterApp(t)
	d.ledger.moveErr = &dto.ValidationError{Fields: []dto.FieldError{{Field: "quantity", Rule: "gt"}}}
	resp := send(t, app, http.MethodPost, "/api/inventory/movements", "User",
		strings.NewReader(`{"item_id":1,"action":"Add","quantity":0}`), fiber.MIMEApplicationJSON)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", out.Code)
	require.Len(t, out.Fields, 1)
	assert.Equal(t, "quantity", out.Fields[0].Field)
}

func TestRegisterMovement_CuerpoInvalido_Retorna400(t *testing.T) {
	app, _ := newRouterApp(t)
	resp := send(t, app, http.MethodPost, "/api/inventory/movements", "User",
		strings.NewReader(`{"item_id":`), fiber.MIMEApplicationJSON)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Code)
}

// ── ledger ────────────────────────────────────────────────────────────────────

func TestListTransactions_TraduceLaQueryAlFiltro(t *testing.T) {
	app, d := newRouterApp(t)
	d.ledger.list = []*entity.Transaction{
		{ID: 2, ItemID: 5, Action: entity.ActionWithdraw, QuantityChange: -2, ItemCode: "BR-6"},
		{ID: 1, ItemID: 5, Action: entity.ActionAdd, QuantityChange: 10, ItemCode: "BR-6"},
	}
	resp := send(t, app, http.MethodGet,
		"/api/inventory/transactions?action=Withdraw&from=2026-01-01&to=2026-01-31&search=broca&item_id=5&limit=10", "User", nil, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	f := d.ledger.gotFilter
	assert.Equal(t, "Withdraw", f.Action)
	assert.Equal(t, "broca", f.Search)
	assert.Equal(t, int64(5), f.ItemID)
	assert.Equal(t, 10, f.Limit)
	require.NotNil(t, f.From)
	require.NotNil(t, f.To)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *f.From)
	assert.Equal(t, time.Date(2026, 1, 31, 23, 59, 59, 999999999, time.UTC), *f.To, "to sin hora cubre el día completo")

	var out dto.TransactionListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Items, 2)
	assert.Equal(t, int64(2), out.Items[0].ID)
	assert.Equal(t, 10, out.Page.Limit)
}

func TestListTransactions_FechaInvalida_Retorna400(t *testing.T) {
	app, _ := newRouterApp(t)
	resp := send(t, app, http.MethodGet, "/api/inventory/transactions?from=ayer", "User", nil, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransactionsReport_DevuelvePDF(t *testing.T) {
	app, d := newRouterApp(t)
	resp := send(t, app, http.MethodGet, "/api/inventory/transactions/report.pdf?action=Add", "User", nil, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "movimientos.pdf")
	assert.Equal(t, "Add", d.reports.gotFilter.Action)

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestGetLowStock_DevuelveTotalEItems(t *testing.T) {
	app, _ := newRouterApp(t)
	resp := send(t, app, http.MethodGet, "/api/inventory/low-stock", "User", nil, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Total int                              `json:"total"`
		Items []dto.ReplenishmentSuggestionDTO `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, "BR-6", out.Items[0].Code)
}

func TestReconcile_IDInvalido_Retorna400YNoEncontrado404(t *testing.T) {
	app, _ := newRouterApp(t)

	resp := send(t, app, http.MethodGet, "/api/inventory/items/abc/reconcile", "User", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = send(t, app, http.MethodGet, "/api/inventory/items/42/reconcile", "User", nil, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReconcile_DevuelveLaConciliacion(t *testing.T) {
	app, d := newRouterApp(t)
	d.ledger.check = &inventory.LedgerCheck{ItemID: 5, OpeningStock: 10, CurrentStock: 8, LedgerSum: -2, Consistent: true}

	resp := send(t, app, http.MethodGet, "/api/inventory/items/5/reconcile", "User", nil, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LedgerCheckResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Consistent)
	assert.Equal(t, -2, out.LedgerSum)
}

// ── roles ─────────────────────────────────────────────────────────────────────

func TestCreateUser_SoloAdmin(t *testing.T) {
	app, d := newRouterApp(t)
	body := `{"username":"bodega2","password":"secreta123","role":"User"}`

	resp := send(t, app, http.MethodPost, "/api/users", "Manager", strings.NewReader(body), fiber.MIMEApplicationJSON)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, d.users.created)

	resp = send(t, app, http.MethodPost, "/api/users", "Admin", strings.NewReader(body), fiber.MIMEApplicationJSON)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, d.users.created)
}

func TestImport_RolUserNoPuedeImportar(t *testing.T) {
	app, _ := newRouterApp(t)
	resp := send(t, app, http.MethodPost, "/api/items/import", "User", strings.NewReader(""), fiber.MIMEApplicationJSON)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ── importación ───────────────────────────────────────────────────────────────

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestImport_FormatoDesdeExtensionYOpciones(t *testing.T) {
	app, d := newRouterApp(t)
	csv := "code,name,category\nBR-6,Broca 6mm,Brocas\n"
	body, ct := multipartBody(t, "Articulos.CSV", csv, map[string]string{
		"encoding":                  "windows-1256",
		"create_missing_categories": "true",
	})

	resp := send(t, app, http.MethodPost, "/api/items/import", "Supervisor", body, ct)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testUserID, d.importer.gotUserID)
	assert.Equal(t, "csv", d.importer.gotReq.Format)
	assert.Equal(t, "windows-1256", d.importer.gotReq.Encoding)
	assert.True(t, d.importer.gotReq.CreateMissingCategories)
	assert.Equal(t, csv, d.importer.gotBody)

	var out dto.ImportResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 2, out.Created)
	assert.Equal(t, 1, out.Skipped)
}

func TestImport_SinArchivo_Retorna400(t *testing.T) {
	app, _ := newRouterApp(t)
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("format", "csv"))
	require.NoError(t, w.Close())

	resp := send(t, app, http.MethodPost, "/api/items/import", "Admin", &buf, w.FormDataContentType())
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_FILE", decodeError(t, resp).Code)
}

func TestImport_ArchivoDemasiadoGrande_Retorna413(t *testing.T) {
	app, _ := newRouterApp(t)
	body, ct := multipartBody(t, "grande.csv", strings.Repeat("x", (1<<20)+1), nil)

	resp := send(t, app, http.MethodPost, "/api/items/import", "Admin", body, ct)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
