package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Kontrak blob store: upload(file) -> downloadURL. Batas ukuran ditentukan
// per call site (5MB gambar produk, 2MB file delivery).
type Store interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader, maxSize int64) (string, error)
}

const (
	MaxProductImageSize = 5 << 20
	MaxDeliveryFileSize = 2 << 20
)

var (
	ErrTooLarge = errors.New("file exceeds size limit")
	ErrBadType  = errors.New("file type not allowed")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

func AllowedImageType(contentType string) bool {
	return allowedImageTypes[strings.ToLower(strings.TrimSpace(contentType))]
}

// DiskStore menyimpan file di disk lokal dan menyajikannya di bawah BaseURL.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func (s *DiskStore) Upload(ctx context.Context, name, contentType string, r io.Reader, maxSize int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	// nama unik, ekstensi asli dipertahankan
	ext := filepath.Ext(name)
	stored := uuid.NewString() + ext
	path := filepath.Join(s.Dir, stored)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// +1 byte utk deteksi kelebihan tanpa baca seluruh stream
	n, err := io.Copy(f, io.LimitReader(r, maxSize+1))
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	if n > maxSize {
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: max %d bytes", ErrTooLarge, maxSize)
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + stored, nil
}
