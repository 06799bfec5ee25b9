package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/http/api"
	"storefront/internal/repos"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return api.NewApp(db)
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestProductsCRUD(t *testing.T) {
	app := newTestApp(t)

	code, body := call(t, app, http.MethodPost, "/products", `{"name":"Pen","category":"Stationery","description":"Blue","price":10,"quantity":5}`)
	require.Equal(t, http.StatusCreated, code, body)
	var created domain.Product
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, domain.ProductID("1"), created.ID)
	// numeric ids go out as JSON numbers
	assert.Contains(t, body, `"id":1`)

	code, body = call(t, app, http.MethodGet, "/products/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"name":"Pen"`)

	code, _ = call(t, app, http.MethodPut, "/products/1", `{"name":"Pen","category":"Stationery","description":"Black","price":12,"quantity":4}`)
	require.Equal(t, http.StatusOK, code)

	code, body = call(t, app, http.MethodPatch, "/products/1", `{"quantity":2}`)
	require.Equal(t, http.StatusOK, code)
	var patched domain.Product
	require.NoError(t, json.Unmarshal([]byte(body), &patched))
	assert.Equal(t, 2, patched.Quantity)
	assert.Equal(t, "Black", patched.Description)
	assert.Equal(t, float64(12), patched.Price)

	code, body = call(t, app, http.MethodPatch, "/products/1", `{"description":"Red"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"description":"Red"`)
	assert.Contains(t, body, `"quantity":2`)

	code, body = call(t, app, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, code)
	var list []domain.Product
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Len(t, list, 1)

	code, _ = call(t, app, http.MethodDelete, "/products/1", "")
	require.Equal(t, http.StatusOK, code)
	code, _ = call(t, app, http.MethodGet, "/products/1", "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = call(t, app, http.MethodDelete, "/products/1", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestProductsRejectInvalid(t *testing.T) {
	app := newTestApp(t)
	call(t, app, http.MethodPost, "/products", `{"name":"Pen","price":10,"quantity":5}`)

	cases := []struct {
		name, method, path, body string
		want                     int
	}{
		{"bad json", http.MethodPost, "/products", `{`, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/products", `{"price":1,"quantity":1}`, http.StatusBadRequest},
		{"negative price", http.MethodPost, "/products", `{"name":"X","price":-1,"quantity":1}`, http.StatusBadRequest},
		{"negative stock patch", http.MethodPatch, "/products/1", `{"quantity":-1}`, http.StatusBadRequest},
		{"patch unknown", http.MethodPatch, "/products/99", `{"quantity":1}`, http.StatusNotFound},
		{"replace unknown", http.MethodPut, "/products/99", `{"name":"X","price":1,"quantity":1}`, http.StatusNotFound},
		{"bad id", http.MethodGet, "/products/a.b", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := call(t, app, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, code, body)
		})
	}
}

func TestOrders(t *testing.T) {
	app := newTestApp(t)

	code, body := call(t, app, http.MethodPost, "/orders", `{"productId":3,"name":"Pen","quantity":2,"price":10,"date":"2026-01-02T03:04:05Z"}`)
	require.Equal(t, http.StatusCreated, code, body)
	var o domain.OrderRecord
	require.NoError(t, json.Unmarshal([]byte(body), &o))
	assert.Equal(t, domain.ProductID("3"), o.ProductID)
	assert.NotEmpty(t, o.ID)

	code, _ = call(t, app, http.MethodPost, "/orders", `{"productId":3,"name":"Pen","quantity":0,"price":10,"date":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = call(t, app, http.MethodGet, "/orders", "")
	require.Equal(t, http.StatusOK, code)
	var list []domain.OrderRecord
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Len(t, list, 1)
}
