package services

import (
	"context"
	"errors"

	applog "storefront/internal/log"
	"storefront/internal/repos"
)

// FlashService holds one-shot messages shown on the next rendered page.
type FlashService struct {
	State repos.StateStore
}

func NewFlashService(st repos.StateStore) *FlashService { return &FlashService{State: st} }

func (s *FlashService) Set(ctx context.Context, sid, msg string) {
	if err := s.State.Set(ctx, sid, KeyFlash, []byte(msg)); err != nil {
		applog.Error(nil, "flash.set.fail", err, nil)
	}
}

// Pop returns the pending message, if any, and clears it.
func (s *FlashService) Pop(ctx context.Context, sid string) string {
	raw, err := s.State.Get(ctx, sid, KeyFlash)
	if err != nil {
		return ""
	}
	if err := s.State.Delete(ctx, sid, KeyFlash); err != nil && !errors.Is(err, repos.ErrStateNotFound) {
		applog.Error(nil, "flash.clear.fail", err, nil)
	}
	return string(raw)
}
