package orders

import (
	"sort"
	"sync"
)

// Cache menyimpan seluruh koleksi order di memori (asumsi toko kecil, tanpa
// pagination), terurut createdAt desc. Dipatch optimistis dari hasil mutasi
// lalu direkonsiliasi dari row otoritatif yang dikembalikan store.
type Cache struct {
	mu   sync.RWMutex
	byID map[string]Order
}

func NewCache() *Cache {
	return &Cache{byID: make(map[string]Order)}
}

func (c *Cache) ReplaceAll(list []Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = make(map[string]Order, len(list))
	for _, o := range list {
		c.byID[o.ID] = o
	}
}

func (c *Cache) Put(o Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[o.ID] = o
}

func (c *Cache) Get(id string) (Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.byID[id]
	return o, ok
}

func (c *Cache) All() []Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Order, 0, len(c.byID))
	for _, o := range c.byID {
		out = append(out, o)
	}
	sortNewestFirst(out)
	return out
}

func (c *Cache) ForUser(userID string) []Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Order
	for _, o := range c.byID {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(list []Order) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
