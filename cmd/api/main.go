package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	cartapp "github.com/dwikikusuma/shopcore/internal/cart/app"
	cartadapter "github.com/dwikikusuma/shopcore/internal/cart/infra/adapter"
	cartpg "github.com/dwikikusuma/shopcore/internal/cart/infra/postgres"
	cartrest "github.com/dwikikusuma/shopcore/internal/cart/rest"

	invapp "github.com/dwikikusuma/shopcore/internal/inventory/app"
	invpg "github.com/dwikikusuma/shopcore/internal/inventory/infra/postgres"

	orderapp "github.com/dwikikusuma/shopcore/internal/order/app"
	orderadapter "github.com/dwikikusuma/shopcore/internal/order/infra/adapter"
	orderkafka "github.com/dwikikusuma/shopcore/internal/order/infra/kafka"
	orderpg "github.com/dwikikusuma/shopcore/internal/order/infra/postgres"
	orderrest "github.com/dwikikusuma/shopcore/internal/order/rest"

	reportapp "github.com/dwikikusuma/shopcore/internal/report/app"
	reportpg "github.com/dwikikusuma/shopcore/internal/report/infra/postgres"
	reportrest "github.com/dwikikusuma/shopcore/internal/report/rest"

	"github.com/dwikikusuma/shopcore/pkg/config"
	"github.com/dwikikusuma/shopcore/pkg/logger"
	"github.com/dwikikusuma/shopcore/pkg/postgres"
	"github.com/dwikikusuma/shopcore/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "shopcore-api", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db := mustDB(log, cfg.Postgres)
	defer db.Close()

	// Inventory ledger
	itemRepo := invpg.NewItemRepo(db)
	inventorySvc := invapp.NewService(itemRepo)

	// Cart
	cartRepo := cartpg.NewCartRepo(db)
	cartSvc := cartapp.NewService(cartRepo, cartadapter.NewInventoryItemReader(inventorySvc))

	// Orders
	var publisher orderapp.Publisher = orderapp.NopPublisher{}
	if cfg.Kafka.Brokers != "" {
		kp := orderkafka.NewPublisher(strings.Split(cfg.Kafka.Brokers, ","), cfg.Kafka.OrderTopic)
		defer kp.Close()
		publisher = kp
	}
	orderRepo := orderpg.NewOrderRepo(db)
	orderSvc := orderapp.NewService(
		orderRepo,
		orderadapter.NewInventoryItemReader(inventorySvc),
		orderpg.NewReviewReader(db),
		publisher,
		log,
	)

	// Reporting
	reportSvc := reportapp.NewService(reportpg.NewReportRepo(db))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	cartrest.NewHandler(cartSvc, userFromRequest).Register(mux)
	orderrest.NewHandler(orderSvc, userFromRequest).Register(mux)
	reportrest.NewHandler(reportSvc).Register(mux)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

// userFromRequest trusts the authenticating proxy's header. Session
// handling itself lives outside this service.
func userFromRequest(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func mustDB(log *slog.Logger, cfg config.Postgres) *sql.DB {
	db, err := postgres.Open(postgres.Config{
		Host:    cfg.Host,
		Port:    cfg.Port,
		User:    cfg.User,
		Pass:    cfg.Pass,
		DB:      cfg.DB,
		SSLMode: cfg.SSLMode,
	})
	if err != nil {
		log.Error("db open failed", slog.Any("err", err))
		os.Exit(1)
	}
	return db
}
