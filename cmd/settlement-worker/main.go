package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tutorlink/tutorlink-api/internal/repository"
	"github.com/tutorlink/tutorlink-api/internal/service"
	"github.com/tutorlink/tutorlink-api/pkg/config"
	"github.com/tutorlink/tutorlink-api/pkg/database"
	"github.com/tutorlink/tutorlink-api/pkg/logger"
)

// The settlement worker periodically pays out escrowed funds for confirmed
// bookings whose date has passed. It runs alongside the API server; the
// settled-flag CAS in the repository makes concurrent runs safe.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	bookingRepo := repository.NewBookingRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	walletSvc := service.NewWalletService(walletRepo, cfg.Wallet.Currency, cfg.Wallet.CommissionRate, cfg.Wallet.PlatformAccountID, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, logr)
	metricsSvc := service.NewMetricsService()

	bookingSvc := service.NewBookingService(bookingRepo, nil, userRepo, nil, walletSvc, notificationSvc, nil, metricsSvc, logr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.Booking.SettleInterval)
	defer ticker.Stop()

	logr.Sugar().Infow("settlement worker started", "interval", cfg.Booking.SettleInterval)

	runOnce := func() {
		settled, err := bookingSvc.SettlePastBookings(ctx, cfg.Booking.SettleBatch)
		if err != nil {
			logr.Sugar().Errorw("settlement run failed", "error", err)
			return
		}
		metricsSvc.ObserveSettlements(settled)
		if settled > 0 {
			logr.Sugar().Infow("settlement run finished", "settled", settled)
		}
	}

	runOnce()
	for {
		select {
		case <-ctx.Done():
			logr.Sugar().Infow("settlement worker stopping")
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
