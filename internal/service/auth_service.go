package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"safio/internal/domain"
	"safio/internal/repository"
)

// AuthService is the admin gate. Credentials are compared exactly; with
// hashing enabled new passwords are stored as bcrypt hashes instead.
type AuthService struct {
	creds repository.CredentialsRepository
	hash  bool
}

func NewAuthService(creds repository.CredentialsRepository, hashPasswords bool) *AuthService {
	return &AuthService{creds: creds, hash: hashPasswords}
}

// Login checks the pair and marks sess as admin on success. A failed attempt
// leaves sess untouched.
func (s *AuthService) Login(ctx context.Context, sess *Session, username, password string) (bool, error) {
	c, err := s.creds.Get(ctx)
	if err != nil {
		return false, err
	}
	if !equal(username, c.Username) || !s.matchPassword(c.Password, password) {
		return false, nil
	}
	sess.setAdmin(true)
	return true, nil
}

// Logout clears the admin flag.
func (s *AuthService) Logout(sess *Session) {
	sess.setAdmin(false)
}

// UpdateCredentials replaces the stored pair. The next login uses it.
func (s *AuthService) UpdateCredentials(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrInvalidInput
	}
	stored := password
	if s.hash {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		stored = string(h)
	}
	return s.creds.Save(ctx, domain.Credentials{Username: username, Password: stored})
}

// matchPassword tries an exact match first when hashing is off. In hash mode
// a stored bcrypt hash is only checked with bcrypt.
func (s *AuthService) matchPassword(stored, given string) bool {
	if !s.hash && equal(given, stored) {
		return true
	}
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return s.hash && equal(given, stored)
}

func isBcrypt(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
