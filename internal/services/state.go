package services

import (
	"context"
	"encoding/json"
	"errors"

	"storefront/internal/repos"
)

// Keys under which per-session state is persisted.
const (
	KeyCart          = "cart"
	KeyLastOrder     = "lastOrder"
	KeyCheckoutStage = "checkoutStage"
	KeyFlash         = "flash"
	KeyAdmin         = "admin"
)

// loadJSON decodes the value stored under key into v. found is false when nothing is stored.
func loadJSON(ctx context.Context, st repos.StateStore, sid, key string, v any) (found bool, err error) {
	raw, err := st.Get(ctx, sid, key)
	if errors.Is(err, repos.ErrStateNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return true, nil
}

func saveJSON(ctx context.Context, st repos.StateStore, sid, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return st.Set(ctx, sid, key, raw)
}
