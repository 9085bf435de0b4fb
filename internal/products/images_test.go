package products

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var ts = time.Unix(1700000000, 0)

func TestNormalizeImageURL(t *testing.T) {
	got := NormalizeImageURL("https://cdn.solvesmart.id/img/p1.png", ts)
	assert.Equal(t, "https://cdn.solvesmart.id/img/p1.png?v=1700000000", got)
}

func TestNormalizeDriveLinks(t *testing.T) {
	// link share file/d/{id}/view
	got := NormalizeImageURL("https://drive.google.com/file/d/1AbC_dEf-9/view?usp=sharing", ts)
	assert.Contains(t, got, "drive.google.com/uc")
	assert.Contains(t, got, "id=1AbC_dEf-9")
	assert.Contains(t, got, "export=view")
	assert.Contains(t, got, "v=1700000000")

	// link open?id=
	got = NormalizeImageURL("https://drive.google.com/open?id=XyZ123", ts)
	assert.Contains(t, got, "id=XyZ123")
	assert.Contains(t, got, "uc")
}

func TestNormalizeEmptyFallsBack(t *testing.T) {
	assert.Equal(t, DefaultImage, NormalizeImageURL("", ts))
	assert.Equal(t, DefaultImage, NormalizeImageURL("   ", ts))
}

func TestNormalizedImages(t *testing.T) {
	p := Product{UpdatedAt: ts}
	assert.Equal(t, []string{DefaultImage}, NormalizedImages(p))

	p.Images = []string{"https://cdn.solvesmart.id/a.png", ""}
	got := NormalizedImages(p)
	assert.Len(t, got, 2)
	assert.Contains(t, got[0], "v=1700000000")
	assert.Equal(t, DefaultImage, got[1])
}

func TestProductValidate(t *testing.T) {
	p := &Product{Title: "Template CV", Price: 100000}
	assert.NoError(t, p.Validate())
	assert.Equal(t, StatusActive, p.Status) // default

	assert.ErrorIs(t, (&Product{Price: 1000}).Validate(), ErrNoTitle)
	assert.ErrorIs(t, (&Product{Title: "x"}).Validate(), ErrBadPrice)
	assert.ErrorIs(t, (&Product{Title: "x", Price: 1,
		Images: []string{"a", "b", "c", "d"}}).Validate(), ErrTooManyImage)
}
