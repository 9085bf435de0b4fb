package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/solvesmart/storefront/internal/chat"
	"github.com/solvesmart/storefront/internal/config"
	kafkax "github.com/solvesmart/storefront/internal/kafka"
	"github.com/solvesmart/storefront/internal/notifier"
	"github.com/solvesmart/storefront/internal/orders"
	"github.com/solvesmart/storefront/internal/postgres"
	"github.com/solvesmart/storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log.SetFormatter(&log.JSONFormatter{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Chat:        &chat.Store{DB: db},
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")

	// satu consumer per topic, handler sama
	var wg sync.WaitGroup
	for _, topic := range []string{orders.TopicOrderStatus, orders.TopicOrderPayment} {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers)
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			log.WithFields(log.Fields{"group": group, "topic": topic, "workers": workers}).
				Info("notifier consumer started")
			if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
				log.WithError(err).WithField("topic", topic).Error("consumer exit")
				cancel()
			}
		}(topic)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down notifier...")
	cancel()
	wg.Wait()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
