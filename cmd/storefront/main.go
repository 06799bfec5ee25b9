package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
	"storefront/internal/productapi"
	"storefront/internal/repos"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
			log.SetOutput(out)
		}
	}
	applog.Setup(out, cfg.LogLevel)

	state, closeState := openState(cfg)
	defer closeState()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	products, err := productapi.NewClient(cfg.ProductAPIURL,
		productapi.WithTimeout(cfg.ProductAPITimeout),
		productapi.WithMetrics(m),
	)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.AdminCodeHash == "" {
		log.Printf("[warn] ADMIN_CODE_HASH not set; inventory editor stays locked")
	}

	// Templates & app
	engine := html.New(cfg.TemplateDir, ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: out}))
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next:       handlers.StaticSkip,
	}))
	app.Use(handlers.CSRF(false)) // set true behind HTTPS
	app.Use(handlers.CSRFLocals)

	// ---------- Static assets ----------
	log.Printf("[static] /static -> %s", cfg.StaticDir)
	app.Static("/static", cfg.StaticDir)

	// ---------- App handlers ----------
	deps := handlers.NewDeps(products, state, m, cfg)
	handlers.Routes(app, deps)

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}

// openState picks the session state backend named by STATE_DRIVER.
func openState(cfg config.Config) (repos.StateStore, func()) {
	switch cfg.StateDriver {
	case config.StateRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rdb, err := repos.DialRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("[state] redis %s db=%d ttl=%s", cfg.RedisAddr, cfg.RedisDB, cfg.StateTTL)
		return repos.NewRedisState(rdb, cfg.StateTTL), func() { _ = rdb.Close() }
	case config.StateMemory:
		log.Printf("[state] in-memory (lost on restart)")
		return repos.NewMemoryState(), func() {}
	default:
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("[state] sqlite %s", cfg.DBDSN)
		return repos.NewStateRepo(db), func() { _ = db.Close() }
	}
}
