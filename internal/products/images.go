package products

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Placeholder saat produk belum punya gambar atau URL-nya tidak bisa dipakai.
const DefaultImage = "/static/placeholder-product.png"

var (
	driveFileRe = regexp.MustCompile(`drive\.google\.com/file/d/([a-zA-Z0-9_-]+)`)
	driveOpenRe = regexp.MustCompile(`drive\.google\.com/open\?id=([a-zA-Z0-9_-]+)`)
)

// NormalizeImageURL menyiapkan URL gambar utk katalog:
//   - link share Google Drive ditulis ulang jadi direct link uc?export=view
//   - query v={unix updatedAt} ditambahkan sebagai cache buster supaya ganti
//     gambar langsung kelihatan walau URL-nya sama
func NormalizeImageURL(raw string, updatedAt time.Time) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DefaultImage
	}
	if m := driveFileRe.FindStringSubmatch(s); m != nil {
		s = "https://drive.google.com/uc?export=view&id=" + m[1]
	} else if m := driveOpenRe.FindStringSubmatch(s); m != nil {
		s = "https://drive.google.com/uc?export=view&id=" + m[1]
	}
	u, err := url.Parse(s)
	if err != nil {
		return DefaultImage
	}
	q := u.Query()
	q.Set("v", fmt.Sprintf("%d", updatedAt.Unix()))
	u.RawQuery = q.Encode()
	return u.String()
}

// NormalizedImages mengembalikan gambar siap render; produk tanpa gambar
// dapat satu placeholder.
func NormalizedImages(p Product) []string {
	if len(p.Images) == 0 {
		return []string{DefaultImage}
	}
	out := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		out = append(out, NormalizeImageURL(img, p.UpdatedAt))
	}
	return out
}
