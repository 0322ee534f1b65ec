package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"safio/internal/domain"
	"safio/internal/storage"
)

// CredentialsStore reads the admin pair on every call so a change takes
// effect for the next login.
type CredentialsStore struct {
	kv  storage.KV
	log *zap.Logger
}

var _ CredentialsRepository = (*CredentialsStore)(nil)

func NewCredentialsStore(kv storage.KV, log *zap.Logger) *CredentialsStore {
	return &CredentialsStore{kv: kv, log: log}
}

// Get returns the stored pair, or the demo defaults when none is stored.
func (s *CredentialsStore) Get(ctx context.Context) (domain.Credentials, error) {
	raw, err := s.kv.Get(ctx, storage.KeyCredentials)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.DefaultCredentials, nil
	}
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("failed to load credentials: %w", err)
	}
	var c domain.Credentials
	if err := json.Unmarshal(raw, &c); err != nil {
		s.log.Warn("Stored credentials are unreadable, using defaults", zap.Error(err))
		return domain.DefaultCredentials, nil
	}
	return c, nil
}

func (s *CredentialsStore) Save(ctx context.Context, c domain.Credentials) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := s.kv.Set(ctx, storage.KeyCredentials, payload); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}
	return nil
}
