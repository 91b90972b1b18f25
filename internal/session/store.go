// Package session persists the UI-continuity part of a signed-in session:
// the identity record and its role. Nothing here is an access-control
// decision; the integrity token and validity flags are never written.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/hongminglow/vault-console/internal/models"
	"github.com/hongminglow/vault-console/internal/storage"
)

const (
	UserKey = "user"
	RoleKey = "userRole"
)

// Stored is the pair restored on boot.
type Stored struct {
	User models.User
	Role models.RoleID
}

// Store reads and writes the two session entries through a storage.KV.
// The entries are independent writes, not an atomic unit.
type Store struct {
	kv     storage.KV
	prefix string
	log    *zap.Logger
}

// NewStore scopes both keys under origin. An empty origin leaves keys bare.
func NewStore(kv storage.KV, origin string, log *zap.Logger) *Store {
	prefix := ""
	if origin != "" {
		prefix = origin + ":"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, prefix: prefix, log: log.Named("session")}
}

func (s *Store) userKey() string { return s.prefix + UserKey }
func (s *Store) roleKey() string { return s.prefix + RoleKey }

// Load returns the stored pair, or nil when nothing usable is stored.
// A partial or malformed pair is purged before returning nil.
// Errors are only returned for backend failures.
func (s *Store) Load(ctx context.Context) (*Stored, error) {
	rawUser, userErr := s.get(ctx, s.userKey())
	if userErr != nil && !errors.Is(userErr, storage.ErrNotFound) {
		return nil, userErr
	}
	rawRole, roleErr := s.get(ctx, s.roleKey())
	if roleErr != nil && !errors.Is(roleErr, storage.ErrNotFound) {
		return nil, roleErr
	}
	if userErr != nil && roleErr != nil {
		return nil, nil
	}
	if userErr != nil || roleErr != nil {
		s.log.Warn("inconsistent stored session; purging",
			zap.Bool("user_present", userErr == nil),
			zap.Bool("role_present", roleErr == nil))
		return nil, s.Clear(ctx)
	}

	var user *models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || user == nil {
		s.log.Error("failed to parse stored user", zap.Error(err))
		return nil, s.Clear(ctx)
	}
	role, err := strconv.Atoi(rawRole)
	if err != nil {
		s.log.Error("failed to parse stored role", zap.String("raw", rawRole), zap.Error(err))
		return nil, s.Clear(ctx)
	}

	return &Stored{User: *user, Role: models.RoleID(role)}, nil
}

// Save writes both entries, overwriting prior values.
func (s *Store) Save(ctx context.Context, user models.User, role models.RoleID) error {
	if err := s.SaveUser(ctx, user); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.roleKey(), strconv.Itoa(int(role))); err != nil {
		return fmt.Errorf("save role: %w", err)
	}
	return nil
}

// SaveUser overwrites the user entry only.
func (s *Store) SaveUser(ctx context.Context, user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.kv.Set(ctx, s.userKey(), string(data)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Clear removes both entries.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.userKey(), s.roleKey()); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return v, err
}
