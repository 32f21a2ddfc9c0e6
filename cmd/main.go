package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/auth"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/config"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/db"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/handlers"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/logger"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/middleware"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/notify"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/workflow"
)

// stores groups the persistence dependencies of the API
type stores struct {
	requests db.RequestCollection
	workers  db.WorkerCollection
	tx       db.Transactor
	health   handlers.Pinger
}

func main() {
	cfg := config.Load()
	logger.Setup(cfg)

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := db.ConnectMongo(connectCtx, cfg.MongoURI)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("MongoDB disconnect failed")
		}
	}()
	log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.EnsureIndexes(indexCtx, database)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("Failed to create indexes")
	}

	events, err := newPublisher(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MQTT broker")
	}
	defer events.Close()

	handler, err := newHTTPHandler(cfg, stores{
		requests: &db.MongoRequestCollection{Collection: database.Collection(db.RequestsCollection)},
		workers:  &db.MongoWorkerCollection{Collection: database.Collection(db.WorkersCollection)},
		tx:       &db.MongoTransactor{Client: client},
		health:   &db.MongoHealth{Client: client},
	}, events)
	if err != nil {
		log.WithError(err).Fatal("Failed to build HTTP handler")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"port": cfg.Port, "env": cfg.Env}).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-errCh:
		log.WithError(err).Error("HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP shutdown error")
	}
	log.Info("Server stopped")
}

// newPublisher connects to MQTT when a broker is configured
func newPublisher(cfg *config.Config) (notify.Publisher, error) {
	if cfg.MQTTBroker == "" {
		log.Info("MQTT_BROKER not set, workflow events are only logged")
		return notify.NopPublisher{}, nil
	}
	publisher, err := notify.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopicPrefix)
	if err != nil {
		return nil, err
	}
	log.WithField("broker", cfg.MQTTBroker).Info("Publishing workflow events over MQTT")
	return publisher, nil
}

// newHTTPHandler wires the workflow service into the router
func newHTTPHandler(cfg *config.Config, s stores, events notify.Publisher) (http.Handler, error) {
	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return nil, err
	}

	svc := workflow.NewService(s.requests, s.workers, s.tx, events, cfg.DefaultETA)

	var limiter *middleware.RateLimitMiddleware
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	return handlers.NewRouter(handlers.RouterDeps{
		Handler:     handlers.NewHandler(svc, cfg.IsDevelopment()),
		Auth:        middleware.NewAuthMiddleware(authService),
		RateLimit:   limiter,
		Health:      s.health,
		CORSOrigins: cfg.CORSOrigins,
	}), nil
}
