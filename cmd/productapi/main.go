package main

import (
	"io"
	"log"
	"os"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"storefront/internal/config"
	"storefront/internal/http/api"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

// productapi serves the products/orders REST API the storefront consumes, backed by sqlite.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatal(err)
	}

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
	applog.Setup(out, "info")

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := repos.SeedIfEmpty(db); err != nil {
		log.Fatal(err)
	}

	app := api.NewApp(db, logger.New(logger.Config{Output: out}))

	log.Fatal(app.Listen(":" + cfg.Port))
}
