package orders

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore meniru semantik PGStore: update ber-versi, konflik kalau basi.
type memStore struct {
	mu       sync.Mutex
	byID     map[string]Order
	failList bool
}

func newMemStore() *memStore { return &memStore{byID: make(map[string]Order)} }

func (s *memStore) Insert(_ context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[o.ID] = *o
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (s *memStore) List(_ context.Context) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList {
		return nil, errors.New("store unavailable")
	}
	out := make([]Order, 0, len(s.byID))
	for _, o := range s.byID {
		out = append(out, o)
	}
	return out, nil
}

func (s *memStore) ListByUser(_ context.Context, uid string) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Order
	for _, o := range s.byID {
		if o.UserID == uid {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memStore) Update(_ context.Context, o *Order) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[o.ID]
	if !ok {
		return nil, ErrNotFound
	}
	if cur.Version != o.Version {
		return nil, ErrVersionConflict
	}
	saved := *o
	saved.Version++
	saved.UpdatedAt = time.Now().UTC()
	s.byID[o.ID] = saved
	return &saved, nil
}

type recorder struct {
	mu     sync.Mutex
	events []Envelope
}

func (r *recorder) Publish(_, value []byte, _ ...kafkago.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ev Envelope
	_ = json.Unmarshal(value, &ev)
	r.events = append(r.events, ev)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.EventType)
	}
	return out
}

func newTestEngine() (*Engine, *memStore, *recorder) {
	st := newMemStore()
	rec := &recorder{}
	eng := NewEngine(st, Producers{Created: rec, Status: rec, Payment: rec}, "test")
	return eng, st, rec
}

var budi = Buyer{ID: "u1", Email: "budi@mail.com", Name: "Budi"}

func items(ps ...int64) []OrderItem {
	out := make([]OrderItem, 0, len(ps))
	for i, p := range ps {
		out = append(out, OrderItem{
			ProductID: "p" + string(rune('1'+i)),
			Title:     "Produk",
			Price:     p,
			Quantity:  1,
		})
	}
	return out
}

func TestCreateOrderComputesTotal(t *testing.T) {
	eng, _, rec := newTestEngine()
	ctx := context.Background()

	o, err := eng.CreateOrder(ctx, budi, []OrderItem{
		{ProductID: "p1", Title: "Template CV", Price: 100000, Quantity: 2},
		{ProductID: "p2", Title: "E-book", Price: 35000, Quantity: 3},
	}, ShippingAddress{FullName: "Budi"})
	require.NoError(t, err)

	assert.Equal(t, int64(2*100000+3*35000), o.TotalAmount)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentUnpaid, o.PaymentStatus)
	assert.Equal(t, MethodNone, o.PaymentMethod)
	assert.NotNil(t, o.DeliveryFiles)
	assert.Empty(t, o.DeliveryFiles)
	assert.Equal(t, "budi@mail.com", o.UserEmail)
	assert.Equal(t, []string{EventOrderCreated}, rec.types())
}

func TestCreateOrderValidation(t *testing.T) {
	eng, _, rec := newTestEngine()
	ctx := context.Background()

	_, err := eng.CreateOrder(ctx, budi, nil, ShippingAddress{FullName: "Budi"})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = eng.CreateOrder(ctx, budi, items(1000), ShippingAddress{})
	assert.ErrorIs(t, err, ErrNoRecipient)

	bad := items(1000)
	bad[0].Quantity = 0
	_, err = eng.CreateOrder(ctx, budi, bad, ShippingAddress{FullName: "Budi"})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// tidak ada mutasi maupun event saat validasi gagal
	assert.Empty(t, rec.types())
	assert.Empty(t, eng.Orders())
}

func TestAcceptThenComplete(t *testing.T) {
	eng, _, _ := newTestEngine()
	ctx := context.Background()

	o, err := eng.CreateOrder(ctx, budi, items(50000), ShippingAddress{FullName: "Budi"})
	require.NoError(t, err)

	require.NoError(t, eng.AcceptOrder(ctx, o.ID, "ok, diproses"))
	got, err := eng.Order(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)
	assert.Equal(t, "ok, diproses", got.AdminNotes)

	require.NoError(t, eng.CompleteOrder(ctx, o.ID, "selesai"))
	got, err = eng.Order(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestIllegalTransitions(t *testing.T) {
	eng, _, _ := newTestEngine()
	ctx := context.Background()

	o, err := eng.CreateOrder(ctx, budi, items(50000), ShippingAddress{FullName: "Budi"})
	require.NoError(t, err)

	// complete langsung dari pending: tolak
	assert.ErrorIs(t, eng.CompleteOrder(ctx, o.ID, ""), ErrInvalidTransition)

	require.NoError(t, eng.AcceptOrder(ctx, o.ID, ""))

	// reject setelah accept: tolak (hanya transisi pertama yang berlaku)
	assert.ErrorIs(t, eng.RejectOrder(ctx, o.ID, ""), ErrInvalidTransition)
	// accept dobel: tolak
	assert.ErrorIs(t, eng.AcceptOrder(ctx, o.ID, ""), ErrInvalidTransition)

	got, err := eng.Order(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)
}

func TestRejectedIsTerminal(t *testing.T) {
	eng, _, _ := newTestEngine()
	ctx := context.Background()

	o, err := eng.CreateOrder(ctx, budi, items(50000), ShippingAddress{FullName: "Budi"})
	require.NoError(t, err)

	require.NoError(t, eng.RejectOrder(ctx, o.ID, "stok habis"))
	assert.ErrorIs(t, eng.AcceptOrder(ctx, o.ID, ""), ErrInvalidTransition)
	assert.ErrorIs(t, eng.CompleteOrder(ctx, o.ID, ""), ErrInvalidTransition)
	assert.ErrorIs(t, eng.ProcessPayment(ctx, o.ID, MethodCash), ErrOrderRejected)
}

func TestCashPaymentAutoPaid(t *testing.T) {
	eng, _, rec := newTestEngine()
	ctx := context.Background()

	o, err := eng.CreateOrder(ctx, budi, items(75000), ShippingAddress{FullName: "Budi"})
	require.NoError(t, err)

	require.NoError(t, eng.ProcessPayment(ctx, o.ID, MethodCash))
	got, err := eng.Order(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, got.PaymentStatus)
	assert.Equal(t, MethodCash, got.PaymentMethod)
	assert.Contains(t, rec.types(), EventPaymentProcessed)

	// sudah paid, bayar lagi ditolak
	assert.ErrorIs(t, eng.ProcessPayment(ctx, o.ID, MethodCash), ErrAlreadyPaid)
}

func TestQRISNeedsConfirmation(t *testing.T) {
	eng, _, _ := newTestEngine()
	ctx := context.Background()

	o, err := eng.CreateOrder(ctx, budi, items(75000), ShippingAddress{FullName: "Budi"})
	require.NoError(t, err)

	require.NoError(t, eng.ProcessPayment(ctx, o.ID, MethodQRIS))
	got, err := eng.Order(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentUnpaid, got.PaymentStatus)
	assert.Equal(t, MethodQRIS, got.PaymentMethod)

	require.NoError(t, eng.ConfirmPayment(ctx, o.ID, "bukti transfer dicek"))
	got, err = eng.Order(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, got.PaymentStatus)
	// konfirmasi tidak mengubah status fulfillment
	assert.Equal(t, StatusPending, got.Status)
}

func TestProcessPaymentInvalidMethod(t *testing.T) {
	eng, _, _ := newTestEngine()
	ctx := context.Background()

	o, err := eng.CreateOrder(ctx, budi, items(1000), ShippingAddress{FullName: "Budi"})
	require.NoError(t, err)
	assert.ErrorIs(t, eng.ProcessPayment(ctx, o.ID, "transfer"), ErrInvalidMethod)
	assert.ErrorIs(t, eng.ProcessPayment(ctx, o.ID, MethodNone), ErrInvalidMethod)
}

func TestAddDeliveryFilesKeepsStatus(t *testing.T) {
	eng, _, _ := newTestEngine()
	ctx := context.Background()

	o, err := eng.CreateOrder(ctx, budi, items(1000), ShippingAddress{FullName: "Budi"})
	require.NoError(t, err)
	require.NoError(t, eng.AcceptOrder(ctx, o.ID, ""))

	files := []DeliveryFile{{Name: "cv-final.pdf", URL: "https://files/cv-final.pdf", Type: "application/pdf"}}
	require.NoError(t, eng.AddDeliveryFiles(ctx, o.ID, files))
	got, err := eng.Order(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, files, got.DeliveryFiles)
	assert.Equal(t, StatusAccepted, got.Status)

	// pemanggilan berikutnya mengganti, bukan menambah
	repl := []DeliveryFile{{Name: "cv-rev2.pdf", URL: "https://files/cv-rev2.pdf"}}
	require.NoError(t, eng.AddDeliveryFiles(ctx, o.ID, repl))
	got, _ = eng.Order(ctx, o.ID)
	assert.Equal(t, repl, got.DeliveryFiles)
}

func TestVersionConflictReconcilesCache(t *testing.T) {
	eng, st, _ := newTestEngine()
	ctx := context.Background()

	o, err := eng.CreateOrder(ctx, budi, items(1000), ShippingAddress{FullName: "Budi"})
	require.NoError(t, err)

	// admin lain menang duluan: versi di store maju
	other, err := st.Get(ctx, o.ID)
	require.NoError(t, err)
	other.Status = StatusAccepted
	_, err = st.Update(ctx, other)
	require.NoError(t, err)

	// engine masih pegang versi lama di cache -> konflik, bukan silent overwrite
	err = eng.RejectOrder(ctx, o.ID, "telat")
	assert.ErrorIs(t, err, ErrVersionConflict)

	// cache direkonsiliasi ke state pemenang
	got, ok := eng.cache.Get(o.ID)
	require.True(t, ok)
	assert.Equal(t, StatusAccepted, got.Status)
}

func TestStats(t *testing.T) {
	eng, _, _ := newTestEngine()
	ctx := context.Background()

	mk := func(b Buyer, price int64) *Order {
		o, err := eng.CreateOrder(ctx, b, items(price), ShippingAddress{FullName: b.Name})
		require.NoError(t, err)
		return o
	}
	sari := Buyer{ID: "u2", Email: "sari@mail.com", Name: "Sari"}

	// completed+paid: masuk revenue
	o1 := mk(budi, 200000)
	require.NoError(t, eng.AcceptOrder(ctx, o1.ID, ""))
	require.NoError(t, eng.ProcessPayment(ctx, o1.ID, MethodCash))
	require.NoError(t, eng.CompleteOrder(ctx, o1.ID, ""))

	// completed tapi unpaid: tidak masuk revenue
	o2 := mk(sari, 90000)
	require.NoError(t, eng.AcceptOrder(ctx, o2.ID, ""))
	require.NoError(t, eng.CompleteOrder(ctx, o2.ID, ""))

	// pending & rejected
	mk(budi, 10000)
	o4 := mk(sari, 5000)
	require.NoError(t, eng.RejectOrder(ctx, o4.ID, ""))

	st := eng.Stats()
	assert.Equal(t, 4, st.TotalOrders)
	assert.Equal(t, 1, st.PendingOrders)
	assert.Equal(t, 0, st.AcceptedOrders)
	assert.Equal(t, 2, st.CompletedOrders)
	assert.Equal(t, 1, st.RejectedOrders)
	assert.Equal(t, int64(200000), st.TotalRevenue)
	assert.Equal(t, 2, st.UniqueCustomers)
}

func TestCheckoutScenario(t *testing.T) {
	eng, _, _ := newTestEngine()
	ctx := context.Background()

	o, err := eng.CreateOrder(ctx, budi,
		[]OrderItem{{ProductID: "p1", Title: "Jasa Desain", Price: 100000, Quantity: 2}},
		ShippingAddress{FullName: "Budi"})
	require.NoError(t, err)
	assert.Equal(t, int64(200000), o.TotalAmount)
	assert.Equal(t, StatusPending, o.Status)

	require.NoError(t, eng.AcceptOrder(ctx, o.ID, ""))
	require.NoError(t, eng.ProcessPayment(ctx, o.ID, MethodCash))
	require.NoError(t, eng.CompleteOrder(ctx, o.ID, ""))

	st := eng.Stats()
	assert.GreaterOrEqual(t, st.TotalRevenue, int64(200000))
}

func TestOrdersForUserNewestFirst(t *testing.T) {
	eng, _, _ := newTestEngine()
	ctx := context.Background()
	sari := Buyer{ID: "u2", Email: "sari@mail.com", Name: "Sari"}

	for i := 0; i < 3; i++ {
		_, err := eng.CreateOrder(ctx, budi, items(1000), ShippingAddress{FullName: "Budi"})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}
	_, err := eng.CreateOrder(ctx, sari, items(1000), ShippingAddress{FullName: "Sari"})
	require.NoError(t, err)

	mine := eng.OrdersForUser("u1")
	require.Len(t, mine, 3)
	for i := 1; i < len(mine); i++ {
		assert.False(t, mine[i].CreatedAt.After(mine[i-1].CreatedAt))
	}
	assert.Len(t, eng.Orders(), 4)
}

func TestRefreshFailureKeepsStale(t *testing.T) {
	eng, st, _ := newTestEngine()
	ctx := context.Background()

	_, err := eng.CreateOrder(ctx, budi, items(1000), ShippingAddress{FullName: "Budi"})
	require.NoError(t, err)
	require.NoError(t, eng.Refresh(ctx))
	require.Len(t, eng.Orders(), 1)

	st.failList = true
	assert.Error(t, eng.Refresh(ctx))
	// cache lama tetap tersedia
	assert.Len(t, eng.Orders(), 1)
}
