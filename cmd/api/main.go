package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/solvesmart/storefront/internal/auth"
	"github.com/solvesmart/storefront/internal/blob"
	"github.com/solvesmart/storefront/internal/cart"
	"github.com/solvesmart/storefront/internal/chat"
	"github.com/solvesmart/storefront/internal/config"
	"github.com/solvesmart/storefront/internal/httpx"
	kafkax "github.com/solvesmart/storefront/internal/kafka"
	"github.com/solvesmart/storefront/internal/orders"
	"github.com/solvesmart/storefront/internal/postgres"
	"github.com/solvesmart/storefront/internal/products"
	"github.com/solvesmart/storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	initLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers (satu per topic)
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatus, 1024)
	pStatus.Start(ctx)
	pPayment := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPayment, 1024)
	pPayment.Start(ctx)

	// Services
	sessions := auth.NewSessions(rdb, cfg.AdminEmails)
	engine := orders.NewEngine(
		&orders.PGStore{DB: db},
		orders.Producers{Created: pCreated, Status: pStatus, Payment: pPayment},
		cfg.ServiceName,
	)
	if err := engine.Refresh(ctx); err != nil {
		log.WithError(err).Warn("initial order load failed")
	}

	productStore := &products.Store{DB: db}
	productSvc := &products.Service{Store: productStore, RDB: rdb}
	catalog := products.NewCatalog(productStore, rdb)
	if err := catalog.Reload(ctx); err != nil {
		log.WithError(err).Warn("initial catalog load failed")
	}
	go catalog.Listen(ctx) // live update katalog via pub/sub

	cartStore := &cart.Store{RDB: rdb}
	chatStore := &chat.Store{DB: db}
	blobs := &blob.DiskStore{Dir: cfg.UploadDir, BaseURL: cfg.UploadBaseURL}

	// Router & handlers
	router := httpx.NewRouter()
	(&httpx.AuthHandler{Sessions: sessions, ProviderToken: cfg.ProviderToken}).Register(router)
	(&httpx.OrdersHandler{Engine: engine, Cart: cartStore, Sessions: sessions, Redis: rdb, Blobs: blobs}).Register(router)
	(&httpx.CartHandler{Cart: cartStore, Catalog: catalog, Sessions: sessions}).Register(router)
	(&httpx.ProductsHandler{Service: productSvc, Catalog: catalog, Blobs: blobs, Sessions: sessions}).Register(router)
	(&httpx.ChatHandler{Store: chatStore, Sessions: sessions}).Register(router)
	(&httpx.ReportsHandler{Engine: engine, Sessions: sessions}).Register(router)

	// file upload statis
	router.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.UploadDir))))

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Infof("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pCreated.Close() // tutup inbox -> flush & close writer
	pStatus.Close()
	pPayment.Close()
	cancel()
	pCreated.WaitClosed()
	pStatus.WaitClosed()
	pPayment.WaitClosed()
}

func initLogger(level string) {
	log.SetFormatter(&log.JSONFormatter{})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
