package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Price menoleransi input numerik apa pun dari dokumen lama: angka, float,
// atau string numerik. Float dibulatkan ke rupiah terdekat.
type Price int64

func (p *Price) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*p = 0
			return nil
		}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*p = Price(i)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("harga bukan angka: %q", s)
	}
	*p = Price(int64(math.Round(f)))
	return nil
}

type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	Price       Price  `json:"price"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Quantity    int    `json:"quantity"`
}

var ErrEmptyID = errors.New("cart item needs a product id")

// Items di-keyed by product id; urutan insert dipertahankan.
type Items []Item

// Add me-merge: produk yang sama menaikkan quantity, bukan duplikat baris.
func (is Items) Add(it Item) (Items, error) {
	if it.ID == "" {
		return is, ErrEmptyID
	}
	if it.Quantity < 1 {
		it.Quantity = 1
	}
	for i := range is {
		if is[i].ID == it.ID {
			out := append(Items(nil), is...)
			out[i].Quantity += it.Quantity
			return out, nil
		}
	}
	return append(append(Items(nil), is...), it), nil
}

// SetQuantity: n < 1 berarti hapus item.
func (is Items) SetQuantity(id string, n int) Items {
	if n < 1 {
		return is.Remove(id)
	}
	out := append(Items(nil), is...)
	for i := range out {
		if out[i].ID == id {
			out[i].Quantity = n
		}
	}
	return out
}

func (is Items) Remove(id string) Items {
	out := make(Items, 0, len(is))
	for _, it := range is {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func (is Items) TotalAmount() int64 {
	var total int64
	for _, it := range is {
		total += int64(it.Price) * int64(it.Quantity)
	}
	return total
}

func (is Items) TotalQuantity() int {
	var n int
	for _, it := range is {
		n += it.Quantity
	}
	return n
}

// Decode membaca dokumen keranjang tersimpan. Field opsional diisi default
// kosong; quantity di bawah 1 dinormalkan ke 1. Error berarti dokumen korup
// dan pemanggil wajib membuangnya utuh (tidak ada merge parsial).
func Decode(b []byte) (Items, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var items Items
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("corrupt cart document: %w", err)
	}
	out := make(Items, 0, len(items))
	for _, it := range items {
		if it.ID == "" {
			return nil, errors.New("corrupt cart document: item without id")
		}
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		out = append(out, it)
	}
	return out, nil
}

func Encode(items Items) ([]byte, error) {
	if items == nil {
		items = Items{}
	}
	return json.Marshal(items)
}
