package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"magento-quote-replica/internal/config"
	"magento-quote-replica/internal/db"
	"magento-quote-replica/internal/httpserver"
	cartrepo "magento-quote-replica/internal/repository/cart"
	customerrepo "magento-quote-replica/internal/repository/customer"
	orderrepo "magento-quote-replica/internal/repository/order"
	storerepo "magento-quote-replica/internal/repository/store"
	cartsvc "magento-quote-replica/internal/service/cart"
	checkoutsvc "magento-quote-replica/internal/service/checkout"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var carts cartrepo.Repository
	switch cfg.CartBackend {
	case config.BackendRedis:
		client, err := db.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer client.Close()
		carts = cartrepo.NewRedis(client)
	case config.BackendPostgres:
		carts = cartrepo.NewPostgres(dbpool)
	default:
		logger.Fatalf("unknown cart backend %q", cfg.CartBackend)
	}

	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	storeRepo := storerepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)

	cartService := cartsvc.New(carts, customerRepo, storeRepo)
	checkoutService := checkoutsvc.New(carts, orderRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
