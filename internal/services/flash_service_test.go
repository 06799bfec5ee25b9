package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
)

// undeletable keeps every value it is given.
type undeletable struct {
	*repos.MemoryState
}

func (undeletable) Delete(context.Context, string, string) error {
	return errors.New("read-only replica")
}

func TestFlashPopIsOneShot(t *testing.T) {
	ctx := context.Background()
	flash := services.NewFlashService(repos.NewMemoryState())

	assert.Equal(t, "", flash.Pop(ctx, "s1"))
	flash.Set(ctx, "s1", "Saved")
	assert.Equal(t, "Saved", flash.Pop(ctx, "s1"))
	assert.Equal(t, "", flash.Pop(ctx, "s1"))
}

func TestFlashPopLogsFailedClear(t *testing.T) {
	var buf bytes.Buffer
	restore := applog.SetOutput(&buf)
	defer restore()

	ctx := context.Background()
	flash := services.NewFlashService(undeletable{repos.NewMemoryState()})
	flash.Set(ctx, "s1", "Saved")

	assert.Equal(t, "Saved", flash.Pop(ctx, "s1"))
	assert.Contains(t, buf.String(), `"action":"flash.clear.fail"`)
	assert.Contains(t, buf.String(), "read-only replica")
}
