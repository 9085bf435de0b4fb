package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

type Producer struct {
	w         *kafka.Writer
	inbox     chan kafka.Message
	closeCh   chan struct{}
	closeOnce sync.Once
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true, // fire-and-forget untuk throughput; error di-log di loop
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		defer p.w.Close()
		for {
			select {
			case <-ctx.Done():
				// flush pesan yang sudah antre, lalu keluar
				for {
					select {
					case m, ok := <-p.inbox:
						if !ok {
							return
						}
						_ = p.w.WriteMessages(context.Background(), m)
					default:
						return
					}
				}
			case m, ok := <-p.inbox:
				if !ok {
					return
				}
				if err := p.w.WriteMessages(context.Background(), m); err != nil {
					log.WithError(err).WithField("topic", p.w.Topic).Warn("publish failed")
				}
			}
		}
	}()
}

func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	p.inbox <- kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
}

// Tutup inbox supaya goroutine nge-flush sisa pesan lalu exit rapi.
// Idempotent; jangan Publish lagi setelah Close.
func (p *Producer) Close() { p.closeOnce.Do(func() { close(p.inbox) }) }

// Tunggu sampai goroutine selesai.
func (p *Producer) WaitClosed() { <-p.closeCh }
