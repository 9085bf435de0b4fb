package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMergesQuantity(t *testing.T) {
	var is Items
	is, err := is.Add(Item{ID: "p1", Title: "Template CV", Price: 100000})
	require.NoError(t, err)
	require.Len(t, is, 1)
	assert.Equal(t, 1, is[0].Quantity) // default qty 1

	is, err = is.Add(Item{ID: "p1", Title: "Template CV", Price: 100000, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, is, 1)
	assert.Equal(t, 3, is[0].Quantity)

	is, err = is.Add(Item{ID: "p2", Title: "E-book", Price: 35000, Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, is, 2)
}

func TestAddRejectsEmptyID(t *testing.T) {
	var is Items
	_, err := is.Add(Item{Title: "tanpa id"})
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestSetQuantity(t *testing.T) {
	is := Items{{ID: "p1", Quantity: 2}, {ID: "p2", Quantity: 1}}

	is = is.SetQuantity("p1", 5)
	assert.Equal(t, 5, is[0].Quantity)

	// n < 1 menghapus item
	is = is.SetQuantity("p1", 0)
	require.Len(t, is, 1)
	assert.Equal(t, "p2", is[0].ID)

	is = is.SetQuantity("p2", -3)
	assert.Empty(t, is)
}

func TestTotals(t *testing.T) {
	is := Items{
		{ID: "p1", Price: 100000, Quantity: 2},
		{ID: "p2", Price: 35000, Quantity: 3},
	}
	assert.Equal(t, int64(305000), is.TotalAmount())
	assert.Equal(t, 5, is.TotalQuantity())

	assert.Equal(t, int64(0), Items(nil).TotalAmount())
	assert.Equal(t, 0, Items(nil).TotalQuantity())
}

func TestDecodeFillsDefaults(t *testing.T) {
	raw := []byte(`[{"id":"p1","title":"Template CV","price":100000}]`)
	is, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, is, 1)
	assert.Equal(t, "", is[0].Subtitle)
	assert.Equal(t, "", is[0].Description)
	assert.Equal(t, "", is[0].Slug)
	assert.Equal(t, 1, is[0].Quantity)
	assert.Equal(t, Price(100000), is[0].Price)
}

func TestDecodePriceCoercion(t *testing.T) {
	cases := []struct {
		raw  string
		want Price
	}{
		{`100000`, 100000},
		{`"100000"`, 100000},
		{`99999.6`, 100000},
		{`"75000.4"`, 75000},
		{`""`, 0},
	}
	for _, c := range cases {
		raw := []byte(`[{"id":"p1","price":` + c.raw + `}]`)
		is, err := Decode(raw)
		require.NoErrorf(t, err, "price=%s", c.raw)
		assert.Equalf(t, c.want, is[0].Price, "price=%s", c.raw)
	}
}

func TestDecodeCorruptDocument(t *testing.T) {
	_, err := Decode([]byte(`{"bukan":"array"}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`[{"title":"tanpa id"}]`))
	assert.Error(t, err)

	_, err = Decode([]byte(`[{"id":"p1","price":"seratus ribu"}]`))
	assert.Error(t, err)

	is, err := Decode(nil)
	require.NoError(t, err)
	assert.Nil(t, is)
}

func TestEncodeRoundTrip(t *testing.T) {
	is := Items{{ID: "p1", Title: "Template CV", Price: 100000, Quantity: 2}}
	b, err := Encode(is)
	require.NoError(t, err)
	back, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, is, back)

	// nil di-encode sebagai array kosong, bukan null
	b, err = Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}
