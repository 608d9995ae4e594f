package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dukani-be/internal/address"
	"dukani-be/internal/api"
	"dukani-be/internal/category"
	"dukani-be/internal/checkout"
	"dukani-be/internal/config"
	"dukani-be/internal/coupon"
	"dukani-be/internal/db"
	"dukani-be/internal/events"
	"dukani-be/internal/inventory"
	"dukani-be/internal/logger"
	"dukani-be/internal/order"
	"dukani-be/internal/product"
	"dukani-be/internal/report"
	"dukani-be/internal/returns"
	"dukani-be/internal/storage"
	"dukani-be/internal/user"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer cache.Close()
	}

	store, err := storage.NewDiskStore(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		log.Fatal("failed to init file storage", zap.Error(err))
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	userSvc := user.NewService(user.NewRepository(database))
	productSvc := product.NewService(product.NewRepository(database), store)
	categorySvc := category.NewService(category.NewRepository(database), cache)
	orderSvc := order.NewService(order.NewRepository(database), publisher)
	returnsSvc := returns.NewService(returns.NewRepository(database), orderSvc)
	couponSvc := coupon.NewService(coupon.NewRepository(database))
	inventorySvc := inventory.NewService(inventory.NewRepository(database))
	addressSvc := address.NewService(address.NewRepository(database))
	checkoutSvc := checkout.NewService(checkout.NewRepository(database), addressSvc, couponSvc, publisher)
	reportSvc := report.NewService(report.NewRepository(database), cache)

	router := api.NewRouter(api.Handlers{
		Auth:      api.NewAuthHandler(userSvc),
		Products:  api.NewProductHandler(productSvc),
		Category:  api.NewCategoryHandler(categorySvc),
		Orders:    api.NewOrderHandler(orderSvc),
		Returns:   api.NewReturnsHandler(returnsSvc),
		Coupons:   api.NewCouponHandler(couponSvc),
		Inventory: api.NewInventoryHandler(inventorySvc),
		Checkout:  api.NewCheckoutHandler(checkoutSvc),
		Addresses: api.NewAddressHandler(addressSvc),
		Reports:   api.NewReportHandler(reportSvc),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("🚀 server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
