package blob

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedImageType(t *testing.T) {
	assert.True(t, AllowedImageType("image/jpeg"))
	assert.True(t, AllowedImageType("image/jpg"))
	assert.True(t, AllowedImageType("image/png"))
	assert.True(t, AllowedImageType("image/webp"))
	assert.True(t, AllowedImageType(" IMAGE/PNG "))
	assert.False(t, AllowedImageType("image/gif"))
	assert.False(t, AllowedImageType("application/pdf"))
	assert.False(t, AllowedImageType(""))
}

func TestDiskStoreUpload(t *testing.T) {
	s := &DiskStore{Dir: t.TempDir(), BaseURL: "/uploads/"}
	url, err := s.Upload(context.Background(), "foto.png", "image/png",
		strings.NewReader("isi file"), MaxProductImageSize)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
}

func TestDiskStoreUploadTooLarge(t *testing.T) {
	s := &DiskStore{Dir: t.TempDir(), BaseURL: "/uploads"}
	big := strings.NewReader(strings.Repeat("x", 32))
	_, err := s.Upload(context.Background(), "foto.png", "image/png", big, 16)
	assert.ErrorIs(t, err, ErrTooLarge)
}
