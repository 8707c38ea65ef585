// Package auth implements the demo login that grants a device a role.
// Credentials are plaintext and compared exactly; it is not a security
// boundary.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ashureev/mechanics-site/internal/domain"
	"github.com/ashureev/mechanics-site/internal/store"
)

// ErrInvalidCredentials is returned for any failed login. It does not
// say whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("Invalid credentials.") //nolint:staticcheck // shown to users verbatim

// Service checks credentials and records the granted role per device.
type Service struct {
	store store.Store
	creds map[string]domain.Credential
}

// NewService creates a login service over the given credential table.
func NewService(s store.Store, creds []domain.Credential) *Service {
	table := make(map[string]domain.Credential, len(creds))
	for _, c := range creds {
		table[c.Username] = c
	}
	return &Service{store: s, creds: table}
}

// Login checks username and password and, on success, stores the
// granted role for the device. A failed login leaves the stored role
// unchanged.
func (s *Service) Login(ctx context.Context, deviceID, username, password string) (domain.Role, error) {
	cred, ok := s.creds[username]
	if !ok || subtle.ConstantTimeCompare([]byte(cred.Password), []byte(password)) != 1 {
		slog.Info("Login rejected", "device_id", deviceID)
		return "", ErrInvalidCredentials
	}

	if err := s.store.Set(ctx, deviceID, store.KeyRole, string(cred.Role)); err != nil {
		return "", fmt.Errorf("store role: %w", err)
	}
	slog.Info("Login accepted", "device_id", deviceID, "role", cred.Role)
	return cred.Role, nil
}

// CurrentRole returns the role stored for the device. Absent or
// unreadable state is reported as guest.
func (s *Service) CurrentRole(ctx context.Context, deviceID string) domain.Role {
	v, found, err := s.store.Get(ctx, deviceID, store.KeyRole)
	if err != nil {
		slog.Warn("Failed to read role, using guest", "device_id", deviceID, "error", err)
		return domain.RoleGuest
	}
	if !found {
		return domain.RoleGuest
	}
	return domain.ParseRole(v)
}
