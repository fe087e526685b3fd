package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"gofinances/internal/auth"
	"gofinances/internal/cache"
	"gofinances/internal/config"
	"gofinances/internal/core"
	"gofinances/internal/events"
	apphttp "gofinances/internal/http"
	"gofinances/internal/locale"
	applog "gofinances/internal/log"
	"gofinances/internal/services"
	"gofinances/internal/session"
	"gofinances/internal/store"
	"gofinances/internal/store/memory"
	"gofinances/internal/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	logger = applog.New(applog.Config{Level: cfg.SlogLevel(), Component: applog.ComponentApp})
	applog.SetDefault(logger)

	loc, err := locale.New(cfg.Locale, cfg.Currency)
	if err != nil {
		logger.Error("Invalid locale settings", applog.FieldError, err)
		os.Exit(1)
	}

	keys := store.Keys{Namespace: cfg.Namespace}

	var kv store.KV
	switch cfg.StoreBackend {
	case "sqlite":
		db, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite store", applog.FieldError, err)
			os.Exit(1)
		}
		defer db.Close()
		kv = db
	default:
		kv = memory.New()
	}
	logger.Info("Storage ready", applog.FieldBackend, cfg.StoreBackend)

	var providers []auth.Provider
	normalizers := auth.Normalizers{}
	if cfg.GoogleEnabled() {
		google := auth.NewGoogleProvider(auth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectPort: strconv.Itoa(cfg.GoogleRedirectPort),
		})
		providers = append(providers, google)
		normalizers[core.ProviderGoogle] = google.Normalize
		logger.Info("Google sign-in enabled")
	}

	sessions := session.NewManager(kv, keys.Session(), providers, normalizers,
		session.WithSignInTimeout(cfg.SignInTimeout))

	cacheMgr := cache.NewManager()
	dashboard := services.NewDashboardService(kv, keys, loc, cacheMgr)
	cacheMgr.StartCleanup(time.Minute)
	defer cacheMgr.Stop()

	var broker *events.Client
	if cfg.AMQPURL != "" {
		broker, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", applog.FieldError, err)
			os.Exit(1)
		}
		defer broker.Close()
		logger.Info("Event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	// Session changes invalidate the cached dashboards of both the previous
	// and the new user, then fan out to the broker. A nil broker client
	// publishes nothing.
	invalidate := dashboard.SessionSubscriber()
	unsubscribe := sessions.Subscribe(func(identity core.Identity) {
		invalidate(identity)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var event *events.SessionEvent
		if identity.IsZero() {
			event = events.NewSignedOutEvent()
		} else {
			event = events.NewSignedInEvent(identity, sessions.CurrentProvider())
		}
		if err := broker.PublishSessionEvent(ctx, event); err != nil {
			logger.ErrorContext(ctx, "Failed to publish session event", applog.FieldError, err)
		}
	})
	defer unsubscribe()

	srv := apphttp.NewServer(":"+cfg.Port, sessions, dashboard)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sessions.Restore(ctx)
	})

	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
