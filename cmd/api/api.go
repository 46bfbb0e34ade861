package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bozowang/fdsell/docs"
	"github.com/bozowang/fdsell/internal/metrics"
	"github.com/bozowang/fdsell/internal/queue"
	"github.com/bozowang/fdsell/internal/ratelimiter"
	"github.com/bozowang/fdsell/internal/repo"
	"github.com/bozowang/fdsell/internal/session"
	"github.com/bozowang/fdsell/internal/store/mongo"
	"github.com/bozowang/fdsell/internal/worker"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	logger        *zap.SugaredLogger
	rateLimiter   ratelimiter.Limiter
	storage       *mongo.Storage
	broker        queue.Broker
	orderRepo     repo.OrderRepository
	sessions      *session.Manager
	controller    *session.Controller
	metrics       *metrics.Metrics
	archiveWorker *worker.OrderArchiveWorker
}

type config struct {
	addr        string
	env         string
	apiURL      string
	corsOrigin  string
	rateLimiter ratelimiter.Config
	mongo       mongoConfig
	rabbitMQ    rabbitMQConfig
	redis       redisConfig
	supplier    supplierConfig
	gateway     gatewayConfig
	shippingFee float64
	sessionTTL  time.Duration
}

type mongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type rabbitMQConfig struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

type redisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Enabled  bool
}

type supplierConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type gatewayConfig struct {
	Mode          string // "webhook" or "sheets"
	ScriptURL     string
	SpreadsheetID string
	WriteRange    string
	CredsPath     string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{app.config.corsOrigin},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler)
	r.Use(app.metrics.Middleware)
	r.Use(app.RateLimiterMiddleware)

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Post("/sessions", app.createSessionHandler)
		r.Route("/sessions/{session_id}", func(r chi.Router) {
			r.Get("/", app.getSessionHandler)
			r.Post("/restaurants/{restaurant_id}/select", app.selectRestaurantHandler)
			r.Post("/navigate", app.navigateHandler)
			r.Post("/cart/items", app.addCartItemHandler)
			r.Patch("/cart/items/{item_id}", app.updateCartItemHandler)
			r.Delete("/cart/items/{item_id}", app.removeCartItemHandler)
			r.Post("/checkout", app.checkoutHandler)
			r.Post("/new-order", app.newOrderHandler)
			r.Post("/notification/dismiss", app.dismissNotificationHandler)
		})

		r.Get("/orders", app.listOrdersHandler)
		r.Get("/orders/{order_number}", app.getOrderHandler)
		r.Get("/orders/{order_number}/qr", app.getOrderQRHandler)

		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// docs
	docs.SwaggerInfo.Title = "Food Sell"
	docs.SwaggerInfo.Description = "Session-based storefront API for food ordering"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/api/v1"

	// background workers
	app.sessions.Start()
	if app.archiveWorker != nil {
		if err := app.archiveWorker.Start(); err != nil {
			return fmt.Errorf("failed to start order archive worker: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		app.sessions.Stop()
		if app.archiveWorker != nil {
			app.archiveWorker.Stop()
		}

		if app.storage != nil {
			if err := app.storage.Close(ctx); err != nil {
				app.logger.Errorw("error closing MongoDB", "error", err)
			} else {
				app.logger.Info("MongoDB connection closed gracefully")
			}
		}

		if app.broker != nil {
			if err := app.broker.Close(); err != nil {
				app.logger.Errorw("error closing RabbitMQ", "error", err)
			} else {
				app.logger.Info("RabbitMQ connection closed gracefully")
			}
		}

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server have started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
