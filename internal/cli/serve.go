package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"

	"github.com/xavierca1/unic-leads/internal/config"
	"github.com/xavierca1/unic-leads/internal/infra/database"
	"github.com/xavierca1/unic-leads/internal/infra/docstore"
	"github.com/xavierca1/unic-leads/internal/infra/http/handlers"
	"github.com/xavierca1/unic-leads/internal/infra/http/middleware"
	"github.com/xavierca1/unic-leads/internal/infra/integration/relay"
	"github.com/xavierca1/unic-leads/internal/infra/integration/telegram"
	"github.com/xavierca1/unic-leads/internal/infra/queue"
	"github.com/xavierca1/unic-leads/internal/infra/session"
	"github.com/xavierca1/unic-leads/internal/logger"
	"github.com/xavierca1/unic-leads/internal/usecase"
)

const defaultSQLiteDSN = "leads.db"

func serveCmd() *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (submissions, relay endpoint, health, metrics)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			if err := cfg.ValidateServer(); err != nil {
				return err
			}

			log := logger.New(os.Stdout, logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
			slog.SetDefault(log)

			return runServer(cmd.Context(), cfg, log)
		},
	}

	c.Flags().StringVar(&addr, "addr", "", "Listen address (overrides HTTP_ADDR)")
	return c
}

func runServer(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// 1. Primary store
	store, db, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	log.Info("primary store ready", "driver", cfg.Store.Driver, "collection", cfg.Store.Collection)

	// 2. Optional back-office events
	var rabbitConn *amqp091.Connection
	formOpts := []usecase.FormOption{
		usecase.WithLogger(log),
		usecase.WithRelayTimeout(cfg.Relay.Timeout),
	}
	if cfg.Queue.Enabled() {
		rabbit, err := queue.NewRabbitMQ(cfg.Queue.AMQPURL)
		if err != nil {
			return err
		}
		defer rabbit.Close()
		rabbitConn = rabbit.Conn
		formOpts = append(formOpts, usecase.WithEventPublisher(queue.NewProducer(rabbit.Ch)))
		log.Info("submission events enabled", "exchange", queue.ExchangeName)
	}

	// 3. Relay client (outbound) and relay endpoint (inbound)
	relayClient := relay.NewClient(cfg.Relay.URL,
		relay.WithTimeout(cfg.Relay.Timeout),
		relay.WithLogger(log),
		relay.WithResultHook(middleware.RecordRelayDelivery),
	)

	forwardUC := usecase.NewForwardApplicationUseCase(nil)
	if cfg.Relay.Mode == config.RelayModeTelegram && cfg.Telegram.Configured() {
		forwardUC = usecase.NewForwardApplicationUseCase(
			telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, telegram.WithLocation(cfg.Location())),
		)
	} else {
		log.Warn("⚠️ relay endpoint has no telegram credentials", "mode", cfg.Relay.Mode)
	}

	// 4. Sessions and form instances
	sessions := session.NewStore(cfg.SessionTTL)
	sessions.StartCleanup(ctx, time.Minute)

	forms := handlers.NewFormRegistry(func(source string, storage usecase.SessionStorage) *usecase.ApplicationForm {
		return usecase.NewApplicationForm(source, store, relayClient, storage, formOpts...)
	}, cfg.SessionTTL)
	forms.StartCleanup(ctx, time.Minute)

	// 5. Handlers and router
	applications := handlers.NewApplicationHandler(forms, sessions, log)
	applications.RateLimiter().StartCleanup(ctx, 10*time.Minute)

	router := handlers.Router{
		Applications:   applications,
		ThankYou:       handlers.NewThankYouHandler(sessions),
		Income:         handlers.NewIncomeHandler(),
		Relay:          handlers.NewRelayHandler(forwardUC, log),
		CheckEnv:       handlers.NewCheckEnvHandler(cfg),
		Health:         handlers.NewHealthHandler(db, rabbitConn, cfg.Store.Driver, cfg.Relay.Mode),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AccessLog:      true,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🔥 server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore returns the configured primary store. db is nil for Firestore.
func openStore(ctx context.Context, cfg *config.Config) (usecase.SubmissionStore, *sql.DB, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreFirestore:
		client, err := docstore.NewClient(ctx, cfg.Store.FirestoreProjectID, cfg.Store.FirestoreCredentialsFile)
		if err != nil {
			return nil, nil, nil, err
		}
		return docstore.NewSubmissionStore(client, cfg.Store.Collection), nil, func() { client.Close() }, nil

	case config.StorePostgres, config.StorePgx, config.StoreSQLite:
		dsn := cfg.Store.DatabaseURL
		if dsn == "" && cfg.Store.Driver == config.StoreSQLite {
			dsn = defaultSQLiteDSN
		}
		db, err := database.NewDBConnection(cfg.Store.Driver, dsn)
		if err != nil {
			return nil, nil, nil, err
		}
		repo, err := database.NewSubmissionRepository(db, cfg.Store.Driver, cfg.Store.Collection)
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return repo, db, func() { db.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("%w: unknown STORE_DRIVER %q", config.ErrInvalidConfig, cfg.Store.Driver)
	}
}
