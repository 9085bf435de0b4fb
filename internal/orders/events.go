package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated     = "OrderCreated"
	EventOrderAccepted    = "OrderAccepted"
	EventOrderRejected    = "OrderRejected"
	EventOrderCompleted   = "OrderCompleted"
	EventPaymentProcessed = "PaymentProcessed"
	EventPaymentConfirmed = "PaymentConfirmed"
	EventDeliveryAttached = "DeliveryAttached"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "storefront-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload tipe per event ----

type OrderCreatedPayload struct {
	OrderID     string      `json:"order_id"`
	UserID      string      `json:"user_id"`
	UserEmail   string      `json:"user_email"`
	UserName    string      `json:"user_name"`
	Items       []OrderItem `json:"items"`
	TotalAmount int64       `json:"total_amount"`
}

type StatusChangedPayload struct {
	OrderID    string `json:"order_id"`
	UserID     string `json:"user_id"`
	UserEmail  string `json:"user_email"`
	From       Status `json:"from"`
	To         Status `json:"to"`
	AdminNotes string `json:"admin_notes,omitempty"`
}

type PaymentPayload struct {
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"`
	Method        PaymentMethod `json:"method"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	AmountTotal   int64         `json:"amount_total"`
}

type DeliveryAttachedPayload struct {
	OrderID string         `json:"order_id"`
	UserID  string         `json:"user_id"`
	Files   []DeliveryFile `json:"files"`
}
