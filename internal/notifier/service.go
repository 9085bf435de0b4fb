package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"github.com/solvesmart/storefront/internal/chat"
	kafkax "github.com/solvesmart/storefront/internal/kafka"
	"github.com/solvesmart/storefront/internal/orders"
	"github.com/solvesmart/storefront/internal/redisx"
)

// Service mendengarkan event lifecycle order dan menulis balasan otomatis ke
// thread chat customer, supaya perubahan status langsung kelihatan tanpa
// refresh halaman order.
type Service struct {
	Chat        *chat.Store
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderEvent dipasang sebagai handler consumer utk topic order.status
// dan order.payment.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	text, uid := s.render(env)
	if text == "" || uid == "" {
		return nil // event yang tidak perlu dinotifikasi
	}

	msg := &chat.Message{
		ChatID: uid,
		UID:    s.ServiceName,
		Sender: "SolveSmart",
		Text:   text,
		Type:   chat.TypeSellerReply,
		Read:   true,
	}
	if err := s.Chat.Insert(ctx, msg); err != nil {
		return err
	}
	log.WithFields(log.Fields{"event": env.EventType, "order_id": env.CorrelationID}).
		Info("notification sent")
	return nil
}

func (s *Service) render(env orders.Envelope) (text, uid string) {
	short := shortID(env.CorrelationID)
	switch env.EventType {
	case orders.EventOrderAccepted:
		p, err := unwrapStatus(env)
		if err != nil {
			return "", ""
		}
		return fmt.Sprintf("Pesanan #%s dikonfirmasi dan sedang diproses.", short), p.UserID
	case orders.EventOrderRejected:
		p, err := unwrapStatus(env)
		if err != nil {
			return "", ""
		}
		t := fmt.Sprintf("Maaf, pesanan #%s tidak dapat kami proses.", short)
		if p.AdminNotes != "" {
			t += " Catatan: " + p.AdminNotes
		}
		return t, p.UserID
	case orders.EventOrderCompleted:
		p, err := unwrapStatus(env)
		if err != nil {
			return "", ""
		}
		return fmt.Sprintf("Pesanan #%s selesai. Terima kasih sudah berbelanja!", short), p.UserID
	case orders.EventPaymentConfirmed:
		p, err := kafkax.UnwrapPayload[orders.PaymentPayload](env.Payload)
		if err != nil {
			return "", ""
		}
		return fmt.Sprintf("Pembayaran pesanan #%s sudah kami terima.", short), p.UserID
	case orders.EventDeliveryAttached:
		p, err := kafkax.UnwrapPayload[orders.DeliveryAttachedPayload](env.Payload)
		if err != nil {
			return "", ""
		}
		return fmt.Sprintf("File pesanan #%s sudah tersedia di halaman order Anda.", short), p.UserID
	}
	return "", ""
}

func unwrapStatus(env orders.Envelope) (orders.StatusChangedPayload, error) {
	return kafkax.UnwrapPayload[orders.StatusChangedPayload](env.Payload)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
