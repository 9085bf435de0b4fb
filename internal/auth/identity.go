package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/solvesmart/storefront/internal/redisx"
)

// Identity adalah profil terverifikasi dari identity provider eksternal.
// Flag Admin diturunkan dari allow-list email di konfigurasi, bukan dari
// provider.
type Identity struct {
	UID      string `json:"uid"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL,omitempty"`
	Admin    bool   `json:"admin"`
}

var (
	ErrNoSession  = errors.New("session not found or expired")
	ErrBadProfile = errors.New("profile needs uid and email")
)

// Sessions menukar bearer token <-> identity lewat Redis.
type Sessions struct {
	RDB         *redis.Client
	adminEmails map[string]bool
}

func NewSessions(rdb *redis.Client, adminEmails []string) *Sessions {
	m := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		m[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &Sessions{RDB: rdb, adminEmails: m}
}

func (s *Sessions) IsAdmin(email string) bool {
	return s.adminEmails[strings.ToLower(strings.TrimSpace(email))]
}

// Issue membuat sesi baru utk profil yang sudah diverifikasi provider dan
// mengembalikan token opaque-nya.
func (s *Sessions) Issue(ctx context.Context, id Identity) (string, error) {
	if id.UID == "" || id.Email == "" {
		return "", ErrBadProfile
	}
	id.Admin = s.IsAdmin(id.Email)
	b, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	key := fmt.Sprintf(redisx.KeySession, token)
	if err := s.RDB.Set(ctx, key, b, redisx.TTLSession).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve memvalidasi token dan mengembalikan identitasnya.
func (s *Sessions) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrNoSession
	}
	key := fmt.Sprintf(redisx.KeySession, token)
	b, err := s.RDB.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, ErrNoSession
	}
	if err != nil {
		return Identity{}, err
	}
	var id Identity
	if err := json.Unmarshal(b, &id); err != nil {
		// sesi korup diperlakukan seperti tidak ada
		_ = s.RDB.Del(ctx, key).Err()
		return Identity{}, ErrNoSession
	}
	// allow-list bisa berubah; evaluasi ulang tiap resolve
	id.Admin = s.IsAdmin(id.Email)
	return id, nil
}

func (s *Sessions) Revoke(ctx context.Context, token string) error {
	key := fmt.Sprintf(redisx.KeySession, token)
	return s.RDB.Del(ctx, key).Err()
}
