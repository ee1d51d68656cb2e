package stubapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/stocktake/internal/auth"
	"github.com/mmynk/stocktake/internal/storage/sqlite"
)

const (
	testEmail    = "test_user@gmail.com"
	testPassword = "Test600!"
)

type harness struct {
	t      *testing.T
	server *Server
	token  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlite.New(filepath.Join(t.TempDir(), "stub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s := New(Options{
		Store:         store,
		Issuer:        auth.NewTokenIssuer("test-secret", time.Hour),
		Authenticator: auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, s.Seed(t.Context(), testEmail, testPassword))
	return &harness{t: t, server: s}
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	w := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(w, req)
	return w
}

func (h *harness) login() {
	h.t.Helper()
	w := h.do(http.MethodPost, "/auth/login", gin.H{"email": testEmail, "password": testPassword})
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())

	var resp loginResponse
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(h.t, resp.AccessToken)
	assert.Equal(h.t, "bearer", resp.TokenType)
	h.token = resp.AccessToken
}

func (h *harness) newID(path string, body any) string {
	h.t.Helper()
	w := h.do(http.MethodPost, path, body)
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		NewID string `json:"new_id"`
	}
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(h.t, resp.NewID)
	return resp.NewID
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	t.Run("invalid password", func(t *testing.T) {
		w := h.do(http.MethodPost, "/auth/login", gin.H{"email": testEmail, "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := h.do(http.MethodPost, "/auth/login", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("items require a token", func(t *testing.T) {
		w := h.do(http.MethodPost, "/items/product-types", gin.H{"name": "x"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid credentials", func(t *testing.T) {
		h.login()
	})
}

func TestCatalogAndPurchases(t *testing.T) {
	h := newHarness(t)
	h.login()

	typeID := h.newID("/items/product-types", gin.H{"name": "Test_type_100001", "description": "d"})
	unitID := h.newID("/items/product-units", gin.H{"name": "Test_unit_100001", "yield_amount": 3.0})
	groupID := h.newID("/items/product-groups", gin.H{"name": "Test_group_100001"})
	supplierID := h.newID("/items/suppliers", gin.H{"name": "Test_supplier_100001", "email": "s@gmail.com"})

	product := func(name string) string {
		return h.newID("/items/products", gin.H{
			"name": name, "type_id": typeID, "unit_id": unitID, "group_id": groupID, "supplier_id": supplierID,
		})
	}
	flour := product("Flour")
	sugar := product("Sugar")

	t.Run("product is resolved", func(t *testing.T) {
		w := h.do(http.MethodGet, "/items/products/"+flour, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp productResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Flour", resp.Name)
		assert.Equal(t, "Test_unit_100001", resp.Unit.Name)
		assert.Equal(t, "Test_supplier_100001", resp.Supplier.Name)
	})

	t.Run("references are listed", func(t *testing.T) {
		w := h.do(http.MethodGet, "/items/suppliers", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var refs []referenceJSON
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refs))
		require.Len(t, refs, 1)
		assert.Equal(t, supplierID, refs[0].ID)
	})

	t.Run("unknown product", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/items/products/missing", nil).Code)
	})

	t.Run("unknown catalog reference", func(t *testing.T) {
		w := h.do(http.MethodPost, "/items/products", gin.H{
			"name": "X", "type_id": "missing", "unit_id": unitID, "group_id": groupID, "supplier_id": supplierID,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	order := gin.H{
		"supplier_id":   supplierID,
		"purchase_date": "2026-03-04",
		"type":          "invoice",
		"reference":     "INV_12345",
		"items": []gin.H{
			{"product_id": flour, "quantity": 3, "cost": "2.50"},
			{"product_id": sugar, "quantity": 1, "cost": 12.34},
		},
	}

	t.Run("purchase total", func(t *testing.T) {
		w := h.do(http.MethodPost, "/items/purchases", order)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp purchaseResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "19.84", resp.Total)
		assert.Equal(t, "Invoice", resp.Type)
		assert.Equal(t, "2026-03-04", resp.PurchaseDate)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, "7.50", resp.Items[0].Total)
	})

	t.Run("draft is listed separately", func(t *testing.T) {
		draft := gin.H{}
		for k, v := range order {
			draft[k] = v
		}
		draft["draft"] = true
		draft["reference"] = "DRAFT_1"
		h.newID("/items/purchases", draft)

		var history, drafts []purchaseResponse
		w := h.do(http.MethodGet, "/items/purchases", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
		w = h.do(http.MethodGet, "/items/purchases?draft=true", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &drafts))

		require.Len(t, history, 1)
		require.Len(t, drafts, 1)
		assert.Equal(t, "INV_12345", history[0].Reference)
		assert.Equal(t, "DRAFT_1", drafts[0].Reference)
		assert.Empty(t, drafts[0].Type)
	})

	t.Run("rejected purchases", func(t *testing.T) {
		for name, body := range map[string]gin.H{
			"bad date":         {"supplier_id": supplierID, "purchase_date": "04/03/2026", "reference": "R", "items": order["items"]},
			"bad type":         {"supplier_id": supplierID, "type": "receipt", "reference": "R", "items": order["items"]},
			"unknown supplier": {"supplier_id": "missing", "reference": "R", "items": order["items"]},
			"no reference":     {"supplier_id": supplierID, "items": order["items"]},
		} {
			t.Run(name, func(t *testing.T) {
				assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/items/purchases", body).Code)
			})
		}
	})
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/healthz", nil).Code)

	w := h.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `stocktake_stub_requests_total{method="GET",route="/healthz",status="200"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
