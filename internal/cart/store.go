package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/solvesmart/storefront/internal/redisx"
)

// Store menyimpan keranjang per user sebagai satu dokumen JSON di Redis,
// padanan server-side dari local storage di klien.
type Store struct {
	RDB *redis.Client
}

func (s *Store) key(userID string) string {
	return fmt.Sprintf(redisx.KeyCart, userID)
}

// Load membaca keranjang. Dokumen korup dibuang seluruhnya (bukan di-merge)
// dan user mulai dari keranjang kosong.
func (s *Store) Load(ctx context.Context, userID string) (Items, error) {
	b, err := s.RDB.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	items, derr := Decode(b)
	if derr != nil {
		log.WithError(derr).WithField("user_id", userID).Warn("discarding corrupt cart")
		_ = s.RDB.Del(ctx, s.key(userID)).Err()
		return nil, nil
	}
	return items, nil
}

func (s *Store) Save(ctx context.Context, userID string, items Items) error {
	b, err := Encode(items)
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, s.key(userID), b, redisx.TTLCart).Err()
}

func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.RDB.Del(ctx, s.key(userID)).Err()
}
