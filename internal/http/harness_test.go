package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/http/api"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
	"storefront/internal/productapi"
	"storefront/internal/repos"
)

const adminCode = "letmein-42"

// storefront is the full app wired to a real product API served over httptest.
type storefront struct {
	t        *testing.T
	app      *fiber.App
	products *repos.ProductRepo
	orders   *repos.OrderRepo
	reg      *prometheus.Registry
	ids      map[string]domain.ProductID
	csrf     string
}

func newStorefront(t *testing.T) *storefront {
	t.Helper()
	apiDB, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = apiDB.Close() })

	products := repos.NewProductRepo(apiDB)
	ids := map[string]domain.ProductID{}
	for _, p := range []domain.Product{
		{Name: "Pen", Category: "Stationery", Description: "Blue ink", Price: 10, Quantity: 5, Image: "pen.jpg"},
		{Name: "Mug", Category: "Home", Description: "Ceramic", Price: 249, Quantity: 0},
		{Name: "Lamp", Category: "Home", Description: "Warm LED", Price: 99.5, Quantity: 2},
	} {
		created, err := products.Create(context.Background(), p)
		require.NoError(t, err)
		ids[p.Name] = created.ID
	}

	apiSrv := httptest.NewServer(adaptor.FiberApp(api.NewApp(apiDB)))
	t.Cleanup(apiSrv.Close)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	client, err := productapi.NewClient(apiSrv.URL, productapi.WithMetrics(m))
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminCode), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := config.Config{AdminCodeHash: string(hash)}

	s := &storefront{
		t:        t,
		app:      newApp(handlers.NewDeps(client, repos.NewMemoryState(), m, cfg)),
		products: products,
		orders:   repos.NewOrderRepo(apiDB),
		reg:      reg,
		ids:      ids,
	}
	return s
}

func newApp(deps *handlers.Deps) *fiber.App {
	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine, ErrorHandler: handlers.ErrorHandler})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(handlers.CSRF(false))
	app.Use(handlers.CSRFLocals)
	handlers.Routes(app, deps)
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})
	return app
}

// counter sums the samples of a counter family whose labels include value.
func (s *storefront) counter(name, value string) float64 {
	s.t.Helper()
	families, err := s.reg.Gather()
	require.NoError(s.t, err)
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetValue() == value {
					total += m.GetCounter().GetValue()
				}
			}
		}
	}
	return total
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (s *storefront) do(req *http.Request) *http.Response {
	s.t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	return resp
}

func (s *storefront) get(path, sid string) *http.Response {
	s.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return s.do(req)
}

func (s *storefront) body(path, sid string) string {
	s.t.Helper()
	resp := s.get(path, sid)
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

// token fetches a CSRF token once; later posts reuse it.
func (s *storefront) token() string {
	s.t.Helper()
	if s.csrf == "" {
		resp := s.get("/admin/login", "csrf-bootstrap")
		s.csrf = extractCookie(resp, "csrf_")
		require.NotEmpty(s.t, s.csrf, "csrf token missing")
	}
	return s.csrf
}

func newFormRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func (s *storefront) post(path, sid string, form url.Values) *http.Response {
	s.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	tok := s.token()
	form.Set("csrf", tok)
	req := newFormRequest(path, form)
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	return s.do(req)
}

func (s *storefront) add(sid, name string, qty string) *http.Response {
	s.t.Helper()
	return s.post("/cart", sid, url.Values{"productId": {string(s.ids[name])}, "qty": {qty}})
}

func (s *storefront) cartCount(sid string) int {
	s.t.Helper()
	var out struct {
		Count int `json:"count"`
	}
	resp := s.get("/api/v1/cart/count", sid)
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Count
}

func (s *storefront) stock(name string) int {
	s.t.Helper()
	p, err := s.products.Get(context.Background(), s.ids[name])
	require.NoError(s.t, err)
	return p.Quantity
}

func (s *storefront) unlock(sid string) {
	s.t.Helper()
	resp := s.post("/admin/login", sid, url.Values{"code": {adminCode}})
	require.Equal(s.t, http.StatusFound, resp.StatusCode)
	require.Equal(s.t, "/admin/inventory", resp.Header.Get("Location"))
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	restore := applog.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	defer restore()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
