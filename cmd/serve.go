package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"safio/internal/advisor"
	"safio/internal/config"
	httpapi "safio/internal/http"
	"safio/internal/messaging"
	"safio/internal/repository"
	"safio/internal/service"
	"safio/internal/storage"
)

// serve wires the stores and services and runs until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer kv.Close()
	log.Info("Storage ready", zap.String("driver", cfg.Storage.Driver))

	catalogStore, err := repository.NewCatalogStore(ctx, kv, log)
	if err != nil {
		return err
	}
	orderLog, err := repository.NewOrderLog(ctx, kv, log)
	if err != nil {
		return err
	}
	creds := repository.NewCredentialsStore(kv, log)

	publisher := newPublisher(cfg.Kafka, log)
	defer publisher.Close()

	responder := newResponder(ctx, cfg.Advisor, log)

	orders := service.NewOrderService(orderLog, publisher, log)
	sessions := service.NewSessionManager(cfg.Session.TTL, cfg.Checkout.PaymentDelay, orders.RecordAsync(cfg.Checkout.OrderTimeout))

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := httpapi.NewServer(httpapi.Services{
		Catalog:  service.NewCatalogService(catalogStore, cfg.Catalog.LowStockThreshold),
		Orders:   orders,
		Auth:     service.NewAuthService(creds, cfg.Auth.HashPasswords),
		Advisor:  service.NewAdvisor(responder, cfg.Advisor.Timeout, log),
		Sessions: sessions,
	}, log, httpapi.WithSessionCookie(cfg.Session.TTL, cfg.HTTP.SecureCookies))

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return sessions.Run(gctx, cfg.Session.SweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Shutdown error", zap.Error(err))
		}
		return nil
	})

	err = g.Wait()
	// in-flight payments still record their orders
	sessions.Wait()
	log.Info("Server stopped")
	return err
}

func newPublisher(cfg config.KafkaConfig, log *zap.Logger) messaging.Publisher {
	if len(cfg.Brokers) == 0 {
		log.Info("No Kafka brokers configured, order events go to the log")
		return messaging.NewLogPublisher(log)
	}
	log.Info("Publishing order events to Kafka", zap.Strings("brokers", cfg.Brokers))
	return messaging.NewKafkaPublisher(cfg.Brokers)
}

func newResponder(ctx context.Context, cfg config.AdvisorConfig, log *zap.Logger) service.Responder {
	r, err := advisor.NewGenAIResponder(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		log.Warn("Assistant runs offline, answers use the fallback advice", zap.Error(err))
		return advisor.Offline{}
	}
	return r
}
