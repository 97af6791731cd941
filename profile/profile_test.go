package profile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/promodeagro/packer-cli/internal/memstore"
	"github.com/promodeagro/packer-cli/profile"
	"github.com/promodeagro/packer-cli/store"
)

func newService() (*memstore.Store, *profile.Service, store.Config) {
	cfg := store.DefaultConfig()
	s := memstore.New()
	s.CreateTable(cfg.PackersTable, "packer_id")
	s.Put(cfg.PackersTable, store.Record{
		"packer_id": store.S("P1"),
		"username":  store.S("sohail"),
		"email":     store.S("sohail@example.com"),
	})
	return s, profile.NewService(s, cfg), cfg
}

func TestGet(t *testing.T) {
	_, svc, _ := newService()

	p, err := svc.Get(context.Background(), "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Username != "sohail" || p.Email != "sohail@example.com" {
		t.Errorf("unexpected packer %+v", p)
	}
}

func TestGet_NotFound(t *testing.T) {
	_, svc, _ := newService()

	_, err := svc.Get(context.Background(), "P999")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_PartialPatch(t *testing.T) {
	_, svc, _ := newService()

	p, err := svc.Update(context.Background(), "P1", "sohail.k", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Username != "sohail.k" {
		t.Errorf("expected username updated, got %q", p.Username)
	}
	if p.Email != "sohail@example.com" {
		t.Errorf("blank email must keep stored value, got %q", p.Email)
	}
}

func TestUpdate_NothingToChange(t *testing.T) {
	_, svc, _ := newService()

	p, err := svc.Update(context.Background(), "P1", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Username != "sohail" || p.Email != "sohail@example.com" {
		t.Errorf("no-op update changed the record: %+v", p)
	}
}
