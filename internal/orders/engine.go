package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	kafkax "github.com/solvesmart/storefront/internal/kafka"
)

// Publisher dipenuhi oleh kafka.Producer; tests pakai recorder.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Satu producer per topic, mengikuti pola dua-producer di service inventory.
type Producers struct {
	Created Publisher // order.created
	Status  Publisher // order.status
	Payment Publisher // order.payment
}

// Engine adalah satu-satunya penulis status/paymentStatus/adminNotes/
// deliveryFiles. Semua mutasi: guard transisi -> update ber-versi ke store ->
// rekonsiliasi cache dari row otoritatif -> publish event.
type Engine struct {
	store   Store
	cache   *Cache
	prods   Producers
	service string
}

func NewEngine(store Store, prods Producers, service string) *Engine {
	return &Engine{
		store:   store,
		cache:   NewCache(),
		prods:   prods,
		service: service,
	}
}

// Refresh memuat ulang seluruh koleksi dari store. Kalau gagal, cache lama
// tetap dipakai (degradasi ke data basi, bukan crash).
func (e *Engine) Refresh(ctx context.Context) error {
	list, err := e.store.List(ctx)
	if err != nil {
		log.WithError(err).Warn("order refresh failed, serving stale cache")
		return err
	}
	e.cache.ReplaceAll(list)
	return nil
}

func (e *Engine) Orders() []Order                  { return e.cache.All() }
func (e *Engine) OrdersForUser(uid string) []Order { return e.cache.ForUser(uid) }

// Order mengembalikan satu order, cache dulu baru fallback store.
func (e *Engine) Order(ctx context.Context, id string) (*Order, error) {
	if o, ok := e.cache.Get(id); ok {
		return &o, nil
	}
	o, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	e.cache.Put(*o)
	return o, nil
}

func (e *Engine) CreateOrder(ctx context.Context, buyer Buyer, items []OrderItem, addr ShippingAddress) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if addr.FullName == "" {
		return nil, ErrNoRecipient
	}
	var total int64
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQuantity, it.ProductID)
		}
		total += it.Price * int64(it.Quantity)
	}

	now := time.Now().UTC()
	o := &Order{
		ID:              uuid.NewString(),
		UserID:          buyer.ID,
		UserEmail:       buyer.Email,
		UserName:        buyer.Name,
		Items:           items,
		TotalAmount:     total,
		Status:          StatusPending,
		PaymentStatus:   PaymentUnpaid,
		PaymentMethod:   MethodNone,
		ShippingAddress: addr,
		DeliveryFiles:   []DeliveryFile{},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := e.store.Insert(ctx, o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateOrder, err)
	}
	e.cache.Put(*o)

	e.publish(TopicOrderCreated, EventOrderCreated, o.ID, OrderCreatedPayload{
		OrderID:     o.ID,
		UserID:      o.UserID,
		UserEmail:   o.UserEmail,
		UserName:    o.UserName,
		Items:       o.Items,
		TotalAmount: o.TotalAmount,
	})
	return o, nil
}

func (e *Engine) AcceptOrder(ctx context.Context, id, adminNotes string) error {
	return e.transition(ctx, id, StatusAccepted, adminNotes, EventOrderAccepted)
}

func (e *Engine) RejectOrder(ctx context.Context, id, adminNotes string) error {
	return e.transition(ctx, id, StatusRejected, adminNotes, EventOrderRejected)
}

func (e *Engine) CompleteOrder(ctx context.Context, id, adminNotes string) error {
	return e.transition(ctx, id, StatusCompleted, adminNotes, EventOrderCompleted)
}

func (e *Engine) transition(ctx context.Context, id string, to Status, adminNotes, event string) error {
	o, err := e.Order(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, to) {
		return transitionErr(o.Status, to)
	}
	from := o.Status
	upd := *o
	upd.Status = to
	if adminNotes != "" {
		upd.AdminNotes = adminNotes
	}
	saved, err := e.save(ctx, &upd)
	if err != nil {
		return err
	}
	e.publish(TopicOrderStatus, event, saved.ID, StatusChangedPayload{
		OrderID:    saved.ID,
		UserID:     saved.UserID,
		UserEmail:  saved.UserEmail,
		From:       from,
		To:         saved.Status,
		AdminNotes: saved.AdminNotes,
	})
	return nil
}

// ProcessPayment dipanggil pembeli. Cash langsung paid; QRIS tetap unpaid
// sampai ConfirmPayment oleh admin.
func (e *Engine) ProcessPayment(ctx context.Context, id string, method PaymentMethod) error {
	if !method.Valid() {
		return ErrInvalidMethod
	}
	o, err := e.Order(ctx, id)
	if err != nil {
		return err
	}
	if o.Status == StatusRejected {
		return ErrOrderRejected
	}
	if o.PaymentStatus == PaymentPaid {
		return ErrAlreadyPaid
	}
	upd := *o
	upd.PaymentMethod = method
	if method.AutoPaid() {
		upd.PaymentStatus = PaymentPaid
	}
	saved, err := e.save(ctx, &upd)
	if err != nil {
		return err
	}
	e.publish(TopicOrderPayment, EventPaymentProcessed, saved.ID, PaymentPayload{
		OrderID:       saved.ID,
		UserID:        saved.UserID,
		Method:        saved.PaymentMethod,
		PaymentStatus: saved.PaymentStatus,
		AmountTotal:   saved.TotalAmount,
	})
	return nil
}

// ConfirmPayment: admin menandai paid tanpa syarat (utk QRIS, atau override
// cash). Tidak menyentuh status. Idempotent utk order yang sudah paid.
func (e *Engine) ConfirmPayment(ctx context.Context, id, adminNotes string) error {
	o, err := e.Order(ctx, id)
	if err != nil {
		return err
	}
	upd := *o
	upd.PaymentStatus = PaymentPaid
	if adminNotes != "" {
		upd.AdminNotes = adminNotes
	}
	saved, err := e.save(ctx, &upd)
	if err != nil {
		return err
	}
	e.publish(TopicOrderPayment, EventPaymentConfirmed, saved.ID, PaymentPayload{
		OrderID:       saved.ID,
		UserID:        saved.UserID,
		Method:        saved.PaymentMethod,
		PaymentStatus: saved.PaymentStatus,
		AmountTotal:   saved.TotalAmount,
	})
	return nil
}

// AddDeliveryFiles mengganti daftar file, tidak mengubah status: penyelesaian
// order tetap aksi manual terpisah supaya seller bisa lampirkan file bertahap.
func (e *Engine) AddDeliveryFiles(ctx context.Context, id string, files []DeliveryFile) error {
	o, err := e.Order(ctx, id)
	if err != nil {
		return err
	}
	upd := *o
	upd.DeliveryFiles = files
	saved, err := e.save(ctx, &upd)
	if err != nil {
		return err
	}
	e.publish(TopicOrderStatus, EventDeliveryAttached, saved.ID, DeliveryAttachedPayload{
		OrderID: saved.ID,
		UserID:  saved.UserID,
		Files:   saved.DeliveryFiles,
	})
	return nil
}

// save menulis update ber-versi. Saat konflik, cache disegarkan dari store
// supaya proyeksi optimistis yang kalah tidak tertinggal.
func (e *Engine) save(ctx context.Context, upd *Order) (*Order, error) {
	saved, err := e.store.Update(ctx, upd)
	if err != nil {
		if fresh, gerr := e.store.Get(ctx, upd.ID); gerr == nil {
			e.cache.Put(*fresh)
		}
		return nil, err
	}
	e.cache.Put(*saved)
	return saved, nil
}

// Stats adalah fold murni di atas cache. totalRevenue hanya menghitung order
// completed & paid; uniqueCustomers = email unik di semua order.
func (e *Engine) Stats() Stats {
	var st Stats
	emails := make(map[string]struct{})
	for _, o := range e.cache.All() {
		st.TotalOrders++
		switch o.Status {
		case StatusPending:
			st.PendingOrders++
		case StatusAccepted:
			st.AcceptedOrders++
		case StatusCompleted:
			st.CompletedOrders++
		case StatusRejected:
			st.RejectedOrders++
		}
		if o.Status == StatusCompleted && o.PaymentStatus == PaymentPaid {
			st.TotalRevenue += o.TotalAmount
		}
		emails[o.UserEmail] = struct{}{}
	}
	st.UniqueCustomers = len(emails)
	return st
}

func (e *Engine) publish(topic, eventType, orderID string, payload any) {
	var pub Publisher
	switch topic {
	case TopicOrderCreated:
		pub = e.prods.Created
	case TopicOrderStatus:
		pub = e.prods.Status
	case TopicOrderPayment:
		pub = e.prods.Payment
	}
	if pub == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      e.service,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	pub.Publish(PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
