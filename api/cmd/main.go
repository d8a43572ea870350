package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/account"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/contact"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/event"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/note"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/application/registration"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/infrastructure/memory"
	rabbitpub "github.com/baechuer/real-time-ressys/services/community-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/infrastructure/mongo"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/infrastructure/postgres"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/infrastructure/redis"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/handlers"
	authmw "github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/router"
)

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// publisher is what every application service needs from the broker.
type publisher interface {
	PublishEvent(ctx context.Context, routingKey string, payload any) error
}

// stores groups the repositories behind the selected driver.
type stores struct {
	events interface {
		registration.EventRepo
		event.EventRepo
	}
	users interface {
		registration.UserRepo
		account.UserRepo
	}
	notes  note.NoteRepo
	outbox registration.MirrorOutbox
}

// App holds all dependencies for the service.
type App struct {
	Config *config.Config
	Server *http.Server
	Relay  *registration.Relay

	closers []func(context.Context) error
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("bootstrap failed")
	}

	go app.Relay.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		zlog.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreDriver).Msg("listening")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		zlog.Info().Msg("shutting down")
	case err := <-errCh:
		zlog.Error().Err(err).Msg("server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("shutdown incomplete")
	}
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}
	clock := sysClock{}
	health := map[string]handlers.Pinger{}

	// 1) Infrastructure
	st, err := app.openStores(ctx, cfg, health)
	if err != nil {
		app.closeAll(context.Background())
		return nil, err
	}

	var contactRepo contact.Repo = memory.NewContactRepo()
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			app.closeAll(context.Background())
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			app.closeAll(context.Background())
			return nil, err
		}
		app.closers = append(app.closers, func(context.Context) error { return db.Close() })
		health["postgres"] = dbPinger{db}
		contactRepo = postgres.NewContactRepo(db)
	} else {
		zlog.Warn().Msg("DATABASE_URL empty: contact messages kept in memory")
	}

	var (
		ott     account.OneTimeTokenStore = memory.NewOneTimeTokenStore()
		limiter authmw.WindowLimiter
	)
	if cfg.RedisAddr != "" {
		rc := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			zlog.Warn().Err(err).Msg("redis ping failed at startup")
		}
		app.closers = append(app.closers, func(context.Context) error { return rc.Close() })
		health["redis"] = rc
		ott = redis.NewOneTimeTokenStore(rc)
		limiter = redis.NewFixedWindowLimiter(rc)
	} else {
		zlog.Warn().Msg("REDIS_ADDR empty: one-time tokens in memory, sensitive routes not rate limited")
	}

	var pub publisher = registration.NoopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			app.closeAll(context.Background())
			return nil, fmt.Errorf("rabbit publisher: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error { return p.Close() })
		health["rabbitmq"] = handlers.PingFunc(func(context.Context) error {
			if !p.Healthy() {
				return errors.New("connection closed")
			}
			return nil
		})
		pub = p
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: domain events will not be published")
	}

	// 2) Application
	regSvc := registration.New(st.events, st.users, st.outbox, pub, clock, cfg.MirrorGrace)
	app.Relay = registration.NewRelay(regSvc, cfg.MirrorPollInterval, cfg.MirrorMaxAttempts)
	eventSvc := event.New(st.events, clock, pub)
	noteSvc := note.New(st.notes, clock)
	contactSvc := contact.New(contactRepo, clock)
	acctSvc := account.New(st.users, security.NewBcryptHasher(cfg.BcryptCost), ott, pub, clock, account.Config{
		VerifyTokenTTL:       cfg.VerifyTokenTTL,
		ResetTokenTTL:        cfg.ResetTokenTTL,
		VerifyEmailBaseURL:   cfg.VerifyEmailBaseURL,
		PasswordResetBaseURL: cfg.PasswordResetBaseURL,
	})

	// 3) Transport
	h := router.Handlers{
		Events:       handlers.NewEventsHandler(eventSvc, regSvc, clock),
		Registration: handlers.NewRegistrationHandler(regSvc),
		Users:        handlers.NewUsersHandler(acctSvc, regSvc),
		Notes:        handlers.NewNotesHandler(noteSvc),
		Contact:      handlers.NewContactHandler(contactSvc),
		Health:       handlers.NewHealthHandler(health),
	}
	auth := authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer)

	// 4) Router
	httpHandler := router.New(h, auth, router.Options{
		RLEnabled:       cfg.RLEnabled,
		RLLimit:         cfg.RLLimit,
		RLWindow:        cfg.RLWindow,
		Sensitive:       limiter,
		SensitiveLimit:  cfg.RLSensitiveLimit,
		SensitiveWindow: cfg.RLSensitiveWindow,
	})

	// 5) Server
	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
	return app, nil
}

func (a *App) openStores(ctx context.Context, cfg *config.Config, health map[string]handlers.Pinger) (*stores, error) {
	switch cfg.StoreDriver {
	case "memory":
		zlog.Warn().Msg("STORE_DRIVER=memory: data is lost on restart")
		return &stores{
			events: memory.NewEventRepo(),
			users:  memory.NewUserRepo(),
			notes:  memory.NewNoteRepo(),
			outbox: memory.NewMirrorOutbox(),
		}, nil
	case "mongo":
		mc, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, mc.Close)
		health["mongo"] = mc

		idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := mongo.EnsureIndexes(idxCtx, mc.DB()); err != nil {
			return nil, err
		}
		return &stores{
			events: mongo.NewEventRepo(mc.DB()),
			users:  mongo.NewUserRepo(mc.DB()),
			notes:  mongo.NewNoteRepo(mc.DB()),
			outbox: mongo.NewMirrorOutbox(mc.DB()),
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Shutdown drains HTTP first, then releases infrastructure in reverse order.
func (a *App) Shutdown(ctx context.Context) error {
	var err error
	if a.Server != nil {
		err = a.Server.Shutdown(ctx)
	}
	a.closeAll(ctx)
	return err
}

func (a *App) closeAll(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			zlog.Warn().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}

type dbPinger struct{ db *sql.DB }

func (p dbPinger) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }
