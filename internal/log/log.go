package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var (
	mu        sync.RWMutex
	out       io.Writer = os.Stdout
	threshold           = zerolog.InfoLevel
	base                = newBase(out)
)

func init() {
	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = time.RFC3339
}

func newBase(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// Setup points the logger at w with the given minimum level (debug, info, warn, error).
func Setup(w io.Writer, level string) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	base = newBase(w)
	threshold = ParseLevel(level)
}

// SetOutput swaps the sink and returns a func restoring the previous one.
func SetOutput(w io.Writer) func() {
	mu.Lock()
	prev := out
	out = w
	base = newBase(w)
	mu.Unlock()
	return func() {
		mu.Lock()
		out = prev
		base = newBase(prev)
		mu.Unlock()
	}
}

func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func write(level string, lvl zerolog.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	mu.RLock()
	logger, min := base, threshold
	mu.RUnlock()
	if lvl < min {
		return
	}

	e := logger.Log().Str("level", level).Str("action", action)
	if c != nil {
		e = e.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path())
		if status := c.Response().StatusCode(); status != 0 {
			e = e.Int("status", status)
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e = e.Str("req_id", rid)
		}
	}
	if err != nil {
		e = e.Str("err", err.Error())
	}
	if len(fields) > 0 {
		e = e.Interface("fields", fields)
	}
	e.Send()
}

func Debug(c *fiber.Ctx, action string, fields map[string]any) {
	write("debug", zerolog.DebugLevel, c, action, nil, fields)
}
func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write("info", zerolog.InfoLevel, c, action, nil, fields)
}
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write("audit", zerolog.InfoLevel, c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write("warn", zerolog.WarnLevel, c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("error", zerolog.ErrorLevel, c, action, err, fields)
}
