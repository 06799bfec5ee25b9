package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/repos"
)

// AdminService is the inventory editor's access gate: one shared code, compared
// against a bcrypt hash, unlocking the editor for the session. It is not an
// authentication system.
type AdminService struct {
	CodeHash []byte
	State    repos.StateStore
}

func NewAdminService(codeHash string, st repos.StateStore) *AdminService {
	return &AdminService{CodeHash: []byte(codeHash), State: st}
}

func (s *AdminService) Configured() bool { return len(s.CodeHash) > 0 }

func (s *AdminService) Unlock(ctx context.Context, sid, code string) error {
	if !s.Configured() {
		return ErrBadAdminCode
	}
	if bcrypt.CompareHashAndPassword(s.CodeHash, []byte(code)) != nil {
		return ErrBadAdminCode
	}
	return s.State.Set(ctx, sid, KeyAdmin, []byte("1"))
}

func (s *AdminService) IsUnlocked(ctx context.Context, sid string) bool {
	if sid == "" {
		return false
	}
	v, err := s.State.Get(ctx, sid, KeyAdmin)
	return err == nil && string(v) == "1"
}

func (s *AdminService) Lock(ctx context.Context, sid string) error {
	return s.State.Delete(ctx, sid, KeyAdmin)
}
