package notifier

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/solvesmart/storefront/internal/kafka"
	"github.com/solvesmart/storefront/internal/orders"
)

func envelope(t *testing.T, eventType string, payload any) orders.Envelope {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return orders.Envelope{
		EventID:       "ev-1",
		EventType:     eventType,
		EventVersion:  1,
		CorrelationID: "0f8fad5b-d9cb-469f-a165-70867728950e",
		Payload:       b,
	}
}

func TestRenderAccepted(t *testing.T) {
	s := &Service{}
	env := envelope(t, orders.EventOrderAccepted, orders.StatusChangedPayload{
		OrderID: "0f8fad5b", UserID: "u1", From: orders.StatusPending, To: orders.StatusAccepted,
	})
	text, uid := s.render(env)
	assert.Equal(t, "u1", uid)
	assert.Contains(t, text, "#0f8fad5b")
	assert.Contains(t, text, "dikonfirmasi")
}

func TestRenderRejectedIncludesNotes(t *testing.T) {
	s := &Service{}
	env := envelope(t, orders.EventOrderRejected, orders.StatusChangedPayload{
		UserID: "u1", AdminNotes: "stok habis",
	})
	text, uid := s.render(env)
	assert.Equal(t, "u1", uid)
	assert.Contains(t, text, "stok habis")
}

func TestRenderIgnoresUnknownEvents(t *testing.T) {
	s := &Service{}
	env := envelope(t, orders.EventOrderCreated, orders.OrderCreatedPayload{UserID: "u1"})
	text, uid := s.render(env)
	assert.Empty(t, text)
	assert.Empty(t, uid)
}

func TestUnwrapPayload(t *testing.T) {
	env := envelope(t, orders.EventPaymentConfirmed, orders.PaymentPayload{
		OrderID: "o1", UserID: "u1", Method: orders.MethodQRIS, PaymentStatus: orders.PaymentPaid,
	})
	p, err := kafkax.UnwrapPayload[orders.PaymentPayload](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, orders.MethodQRIS, p.Method)
}
