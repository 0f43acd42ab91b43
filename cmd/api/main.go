package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	addressrepo "storefront/internal/repository/address"
	cartrepo "storefront/internal/repository/cart"
	couponrepo "storefront/internal/repository/coupon"
	georepo "storefront/internal/repository/geo"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	shippingrepo "storefront/internal/repository/shipping"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	usersvc "storefront/internal/service/user"
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

	users := userrepo.NewPostgres(dbpool, logger)
	tokens := tokenrepo.NewPostgres(dbpool)
	products := productrepo.NewPostgres(dbpool, logger)
	carts := cartrepo.NewPostgres(dbpool)
	addresses := addressrepo.NewPostgres(dbpool)
	geo := georepo.NewPostgres(dbpool)
	coupons := couponrepo.NewPostgres(dbpool)
	shipping := shippingrepo.NewPostgres(dbpool)
	orders := orderrepo.NewPostgres(dbpool, logger)

	userService := usersvc.New(users, tokens)
	cartService := cartsvc.New(carts, products)
	checkoutService := checkoutsvc.New(checkoutsvc.Deps{
		Carts:     carts,
		Products:  products,
		Addresses: addresses,
		Geo:       geo,
		Coupons:   coupons,
		Shipping:  shipping,
		Orders:    orders,
	}, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		UserSvc:     userService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		ProductRepo: products,
		AddressRepo: addresses,
		GeoRepo:     geo,
		OrderRepo:   orders,
	}, cfg.CORSOrigins)
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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
