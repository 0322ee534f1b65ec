package repository

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"safio/internal/domain"
	"safio/internal/storage"
)

func TestCredentialsStore_DefaultsAndSave(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := NewCredentialsStore(kv, zap.NewNop())

	c, err := s.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c != domain.DefaultCredentials {
		t.Fatalf("expected defaults, got %+v", c)
	}

	if err := s.Save(ctx, domain.Credentials{Username: "root", Password: "toor"}); err != nil {
		t.Fatal(err)
	}
	raw, _ := kv.Get(ctx, storage.KeyCredentials)
	if string(raw) != `{"username":"root","password":"toor"}` {
		t.Fatalf("unexpected payload %s", raw)
	}
	c, _ = s.Get(ctx)
	if c.Username != "root" || c.Password != "toor" {
		t.Fatalf("saved pair not returned: %+v", c)
	}
}

func TestCredentialsStore_MalformedFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	_ = kv.Set(ctx, storage.KeyCredentials, []byte("oops"))
	c, err := NewCredentialsStore(kv, zap.NewNop()).Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c != domain.DefaultCredentials {
		t.Fatalf("expected defaults, got %+v", c)
	}
}
