package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/crm-sync/internal/application/analytics"
	"github.com/jhoicas/crm-sync/internal/application/auth"
	"github.com/jhoicas/crm-sync/internal/application/dto"
	"github.com/jhoicas/crm-sync/internal/application/usecase"
	"github.com/jhoicas/crm-sync/internal/infrastructure/hybrid"
	"github.com/jhoicas/crm-sync/internal/infrastructure/memory"
	"github.com/jhoicas/crm-sync/internal/infrastructure/sheets"
	"github.com/jhoicas/crm-sync/internal/infrastructure/sheets/sheetstest"
	apphttp "github.com/jhoicas/crm-sync/internal/interfaces/http"
)

type apiFixture struct {
	app  *fiber.App
	fake *sheetstest.Fake
}

func newAPI(t *testing.T) apiFixture {
	t.Helper()
	store := memory.NewStore()
	fake := sheetstest.NewFake(sheets.AllSheets...)
	repo, err := hybrid.New(store, sheets.NewMirror(fake), hybrid.Config{MirrorEnabled: true})
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		LeadUC:         usecase.NewLeadUseCase(repo),
		ManufacturerUC: usecase.NewManufacturerUseCase(repo),
		OrderUC:        usecase.NewOrderUseCase(repo),
		TaskUC:         usecase.NewTaskUseCase(repo),
		DashboardUC:    appanalytics.NewDashboardUseCase(repo),
		Mirror:         repo,
		JWTSecret:      testJWTSecret,
		Session:        apphttp.SessionConfig{TTL: time.Hour},
		Log:            zerolog.Nop(),
	})
	return apiFixture{app: app, fake: fake}
}

func (f apiFixture) do(t *testing.T, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (f apiFixture) register(t *testing.T, email, role string) string {
	t.Helper()
	resp, raw := f.do(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{Email: email, Password: "secreto123", Role: role}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	return e.Code
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

func TestAuth_RegistroLoginYMe(t *testing.T) {
	f := newAPI(t)
	f.register(t, "ana@example.com", "")

	resp, raw := f.do(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{Email: "ANA@example.com", Password: "secreto123"}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", errorCode(t, raw))

	resp, raw = f.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "ana@example.com", Password: "incorrecto"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, raw))

	resp, raw = f.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "ana@example.com", Password: "secreto123"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == apphttp.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "el login debe emitir la cookie de sesión")
	assert.True(t, cookie.HttpOnly)

	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &login))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: apphttp.SessionCookie, Value: cookie.Value})
	meResp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer meResp.Body.Close()
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
	var me dto.UserResponse
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	assert.Equal(t, login.User.ID, me.ID)
}

func TestAuth_PasswordCortoEsValidacion(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.do(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{Email: "a@b.com", Password: "corto"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))
}

// ─── Leads ────────────────────────────────────────────────────────────────────

func TestLeads_CicloCompleto(t *testing.T) {
	f := newAPI(t)
	token := f.register(t, "ana@example.com", "")

	resp, raw := f.do(t, http.MethodPost, "/api/leads", dto.CreateLeadRequest{Name: "Acme", Email: "info@acme.com"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created dto.LeadResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "New", created.Status)
	require.NotNil(t, created.Sync)
	assert.Equal(t, "synced", created.Sync.Status)

	path := "/api/leads/" + strconv.FormatInt(created.ID, 10)
	resp, raw = f.do(t, http.MethodPatch, path, `{"status":"Contacted"}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = f.do(t, http.MethodGet, path, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.LeadResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Contacted", got.Status)
	assert.Equal(t, "info@acme.com", got.Email)

	resp, raw = f.do(t, http.MethodGet, "/api/leads", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.LeadResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 1)
	assert.Len(t, f.fake.Rows(sheets.SheetLeads), 1)
}

func TestLeads_PatchNullDesasigna(t *testing.T) {
	f := newAPI(t)
	token := f.register(t, "ana@example.com", "")

	resp, raw := f.do(t, http.MethodPost, "/api/leads", `{"name":"Acme","assigned_to":7}`, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created dto.LeadResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	require.NotNil(t, created.AssignedTo)

	path := "/api/leads/" + strconv.FormatInt(created.ID, 10)
	resp, raw = f.do(t, http.MethodPatch, path, `{"assigned_to":null}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = f.do(t, http.MethodGet, path, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.LeadResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Nil(t, got.AssignedTo)
	assert.Equal(t, "Acme", got.Name)
}

func TestLeads_Errores(t *testing.T) {
	f := newAPI(t)
	token := f.register(t, "ana@example.com", "")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"id no numérico", http.MethodGet, "/api/leads/abc", nil, http.StatusBadRequest, "INVALID_ID"},
		{"id cero", http.MethodGet, "/api/leads/0", nil, http.StatusBadRequest, "INVALID_ID"},
		{"id negativo", http.MethodPatch, "/api/leads/-4", `{}`, http.StatusBadRequest, "INVALID_ID"},
		{"get inexistente", http.MethodGet, "/api/leads/999", nil, http.StatusNotFound, "NOT_FOUND"},
		{"update inexistente", http.MethodPatch, "/api/leads/999", `{"notes":"x"}`, http.StatusNotFound, "NOT_FOUND"},
		{"estado inválido", http.MethodPost, "/api/leads", `{"name":"Acme","status":"Ganado"}`, http.StatusBadRequest, "VALIDATION"},
		{"cuerpo inválido", http.MethodPost, "/api/leads", `{"name":`, http.StatusBadRequest, "INVALID_BODY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := f.do(t, tt.method, tt.path, tt.body, token)
			assert.Equal(t, tt.status, resp.StatusCode, string(raw))
			assert.Equal(t, tt.code, errorCode(t, raw))
		})
	}
}

func TestLeads_SinTokenRetorna401(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.do(t, http.MethodGet, "/api/leads", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, raw))
}

// ─── Fabricantes y órdenes ────────────────────────────────────────────────────

func TestManufacturers_SoloAdminCrea(t *testing.T) {
	f := newAPI(t)
	staff := f.register(t, "staff@example.com", "staff")
	admin := f.register(t, "jefe@example.com", "admin")

	resp, _ := f.do(t, http.MethodPost, "/api/manufacturers", dto.CreateManufacturerRequest{Name: "Fab"}, staff)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := f.do(t, http.MethodPost, "/api/manufacturers", `{"name":"Fab","production_capacity":300}`, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var m dto.ManufacturerResponse
	require.NoError(t, json.Unmarshal(raw, &m))

	resp, raw = f.do(t, http.MethodGet, "/api/manufacturers/"+strconv.FormatInt(m.ID, 10), nil, staff)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.ManufacturerResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	require.NotNil(t, got.ProductionCapacity)
	assert.Equal(t, 300, *got.ProductionCapacity)
}

func TestOrders_CreateYUpdate(t *testing.T) {
	f := newAPI(t)
	token := f.register(t, "ana@example.com", "")

	body := `{"product_details":"Camisas","items":[{"product":"Camisa","quantity":4,"unit_price":"12.5"}]}`
	resp, raw := f.do(t, http.MethodPost, "/api/orders", body, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created dto.OrderResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.True(t, decimal.NewFromInt(50).Equal(created.Amount), "amount = %s", created.Amount)
	assert.Equal(t, "Pending", created.Status)

	resp, raw = f.do(t, http.MethodPatch, "/api/orders/"+strconv.FormatInt(created.ID, 10), `{"status":"In Production"}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var updated dto.OrderResponse
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "In Production", updated.Status)
	assert.Len(t, updated.Items, 1)
	assert.Len(t, f.fake.Rows(sheets.SheetOrders), 1)
}

// ─── Tareas, dashboard y mirror ───────────────────────────────────────────────

func TestTasksYDashboard(t *testing.T) {
	f := newAPI(t)
	token := f.register(t, "ana@example.com", "")

	resp, raw := f.do(t, http.MethodPost, "/api/tasks", `{"title":"Llamar","due_date":"2020-01-01T00:00:00Z"}`, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = f.do(t, http.MethodGet, "/api/tasks/12345", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))

	resp, raw = f.do(t, http.MethodGet, "/api/dashboard", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var summary dto.DashboardSummaryDTO
	require.NoError(t, json.Unmarshal(raw, &summary))
	assert.Equal(t, 1, summary.Tasks.Total)
	assert.Equal(t, 1, summary.OverdueTasks)
}

func TestMirrorBackfill_SoloAdmin(t *testing.T) {
	f := newAPI(t)
	staff := f.register(t, "staff@example.com", "staff")
	admin := f.register(t, "jefe@example.com", "admin")

	resp, _ := f.do(t, http.MethodPost, "/api/leads", dto.CreateLeadRequest{Name: "Acme"}, staff)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	f.fake.SetRows(sheets.SheetLeads)

	resp, _ = f.do(t, http.MethodPost, "/api/admin/mirror/backfill", nil, staff)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := f.do(t, http.MethodPost, "/api/admin/mirror/backfill", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var report hybrid.BackfillReport
	require.NoError(t, json.Unmarshal(raw, &report))
	require.Contains(t, report, "lead")
	assert.Equal(t, 1, report["lead"].Synced)
	assert.Len(t, f.fake.Rows(sheets.SheetLeads), 1)
}
