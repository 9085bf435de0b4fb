package products

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/solvesmart/storefront/internal/redisx"
)

// Service membungkus store + notifikasi perubahan. Setiap tulisan mem-publish
// id produk ke channel Redis; katalog yang subscribe akan re-read. Ini
// padanan live subscription di sisi produk (orders sengaja tidak live).
type Service struct {
	Store *Store
	RDB   *redis.Client
}

func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := s.Store.Insert(ctx, p); err != nil {
		return err
	}
	s.notify(ctx, p.ID)
	return nil
}

func (s *Service) Update(ctx context.Context, p *Product) (*Product, error) {
	saved, err := s.Store.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, saved.ID)
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, id)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) notify(ctx context.Context, id string) {
	if err := s.RDB.Publish(ctx, redisx.ChannelProductUpdates, id).Err(); err != nil {
		log.WithError(err).WithField("product_id", id).Warn("product update notify failed")
	}
}

// Catalog adalah cache katalog sisi baca yang tetap segar lewat pub/sub.
type Catalog struct {
	store *Store
	rdb   *redis.Client

	mu   sync.RWMutex
	byID map[string]Product
}

func NewCatalog(store *Store, rdb *redis.Client) *Catalog {
	return &Catalog{store: store, rdb: rdb, byID: make(map[string]Product)}
}

func (c *Catalog) Reload(ctx context.Context) error {
	list, err := c.store.List(ctx, false)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = make(map[string]Product, len(list))
	for _, p := range list {
		c.byID[p.ID] = p
	}
	return nil
}

// Listen memblokir sampai ctx selesai; satu pesan = satu product id yang
// berubah, re-read per dokumen (delete berarti id hilang dari store).
func (c *Catalog) Listen(ctx context.Context) {
	sub := c.rdb.Subscribe(ctx, redisx.ChannelProductUpdates)
	defer sub.Close()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			c.refreshOne(ctx, msg.Payload)
		}
	}
}

func (c *Catalog) refreshOne(ctx context.Context, id string) {
	p, err := c.store.Get(ctx, id)
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err == nil:
		c.byID[id] = *p
	case err == ErrNotFound:
		delete(c.byID, id)
	default:
		log.WithError(err).WithField("product_id", id).Warn("catalog refresh failed")
	}
}

func (c *Catalog) Get(id string) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// Active mengembalikan produk Active terbaru dulu, gambar sudah dinormalkan.
func (c *Catalog) Active() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Product
	for _, p := range c.byID {
		if p.Status != StatusActive {
			continue
		}
		p.Images = NormalizedImages(p)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (c *Catalog) All() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, 0, len(c.byID))
	for _, p := range c.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
