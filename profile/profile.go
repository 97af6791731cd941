// Package profile reads and edits packer profile records.
package profile

import (
	"context"
	"fmt"

	"github.com/promodeagro/packer-cli/store"
)

// Packer is a decoded packers-table record.
type Packer struct {
	ID       string
	Username string
	Email    string
	Raw      store.Record
}

// Service provides packer profile operations.
type Service struct {
	store  store.Adapter
	config store.Config
}

// NewService creates a profile service over the given adapter.
func NewService(adapter store.Adapter, config store.Config) *Service {
	return &Service{
		store:  adapter,
		config: config,
	}
}

// Get fetches one packer, or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, packerID string) (Packer, error) {
	rec, err := s.store.Get(ctx, s.config.PackersTable, store.PK{"packer_id": store.S(packerID)})
	if err != nil {
		return Packer{}, fmt.Errorf("packer %s: %w", packerID, err)
	}
	return decode(rec), nil
}

// Update patches only the provided fields; empty arguments leave the
// stored value alone. With nothing to change it degrades to a read.
func (s *Service) Update(ctx context.Context, packerID, username, email string) (Packer, error) {
	set := store.Record{}
	if username != "" {
		set["username"] = store.S(username)
	}
	if email != "" {
		set["email"] = store.S(email)
	}
	if len(set) == 0 {
		return s.Get(ctx, packerID)
	}

	err := s.store.Update(ctx, s.config.PackersTable, store.PK{"packer_id": store.S(packerID)}, store.Patch{Set: set})
	if err != nil {
		return Packer{}, fmt.Errorf("packer %s: %w", packerID, err)
	}
	return s.Get(ctx, packerID)
}

func decode(rec store.Record) Packer {
	return Packer{
		ID:       rec.String("packer_id"),
		Username: rec.String("username"),
		Email:    rec.String("email"),
		Raw:      rec,
	}
}
