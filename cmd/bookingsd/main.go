// Command bookingsd serves the booking webhook endpoint: it verifies
// deliveries, normalizes payloads, and reconciles them into the SQL store.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	"github.com/goliatone/go-bookings/core"
	"github.com/goliatone/go-bookings/inbound"
	bookingmigrations "github.com/goliatone/go-bookings/migrations"
	"github.com/goliatone/go-bookings/reconcile"
	"github.com/goliatone/go-bookings/signature"
	sqlstore "github.com/goliatone/go-bookings/store/sql"
)

const shutdownGrace = 10 * time.Second

func main() {
	provider, logger := glog.Resolve("bookingsd", nil, nil)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("bookingsd"); named != nil {
			logger = glog.Ensure(named)
		}
	}
	if err := run(provider, logger); err != nil {
		logger.Error("bookingsd exited with error", "error", err)
		os.Exit(1)
	}
}

func run(provider core.LoggerProvider, logger core.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configProvider := core.NewCfgxConfigProvider(core.NewStaticRawConfigLoader(rawConfigFromEnv()))
	loaded, err := configProvider.Load(ctx, core.DefaultConfig())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg, err := core.GoOptionsResolver{}.Resolve(core.DefaultConfig(), loaded, core.Config{})
	if err != nil {
		return fmt.Errorf("resolve config: %w", err)
	}

	client, err := openPersistence(ctx, cfg.Persistence)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		return fmt.Errorf("build stores: %w", err)
	}

	engine := reconcile.NewEngine(factory.BookingStore())
	engine.Provider = cfg.Provider
	engine.ForceCreate = cfg.Webhook.ForceCreate
	engine.Logger = componentLogger(provider, "bookings.reconcile", logger)

	verifier := signature.NewVerifier(cfg.Webhook.Secret)
	if len(cfg.Webhook.SignatureHeaders) > 0 {
		verifier.Headers = cfg.Webhook.SignatureHeaders
	}

	handler := inbound.NewHandler(verifier, engine)
	handler.Logger = componentLogger(provider, "bookings.inbound", logger)

	mux := http.NewServeMux()
	mux.Handle("/webhooks/bookings", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bookingsd listening",
			"address", cfg.Server.Address,
			"provider", cfg.Provider,
			"driver", cfg.Persistence.GetDriver(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("bookingsd shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// componentLogger resolves a named logger from the provider, falling back to
// the process logger when the provider has no entry for the name.
func componentLogger(provider core.LoggerProvider, name string, fallback core.Logger) core.Logger {
	if provider != nil {
		if named := provider.GetLogger(name); named != nil {
			return glog.Ensure(named)
		}
	}
	return fallback
}

func openPersistence(ctx context.Context, cfg core.PersistenceConfig) (*persistence.Client, error) {
	driver := cfg.GetDriver()
	var dialect schema.Dialect
	switch driver {
	case "postgres":
		dialect = pgdialect.New()
	case "", "sqlite3":
		driver = "sqlite3"
		dialect = sqlitedialect.New()
	default:
		return nil, fmt.Errorf("unsupported persistence driver %q", driver)
	}

	sqlDB, err := sql.Open(driver, cfg.GetServer())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if driver == "sqlite3" {
		sqlDB.SetMaxOpenConns(1)
	}

	client, err := persistence.New(cfg, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("new persistence client: %w", err)
	}

	migrationDialect := bookingmigrations.DialectSQLite
	if driver == "postgres" {
		migrationDialect = bookingmigrations.DialectPostgres
	}
	_, err = bookingmigrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != migrationDialect {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, bookingmigrations.WithValidationTargets(migrationDialect))
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("register migrations: %w", err)
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return client, nil
}

// rawConfigFromEnv maps BOOKINGS_* environment variables onto the nested raw
// config shape consumed by cfgx.
func rawConfigFromEnv() map[string]any {
	raw := map[string]any{}
	setIfPresent(raw, "service_name", "BOOKINGS_SERVICE_NAME")
	setIfPresent(raw, "provider", "BOOKINGS_PROVIDER")

	server := map[string]any{}
	setIfPresent(server, "address", "BOOKINGS_SERVER_ADDRESS")
	if len(server) > 0 {
		raw["server"] = server
	}

	webhook := map[string]any{}
	setIfPresent(webhook, "secret", "BOOKINGS_WEBHOOK_SECRET")
	if value := strings.TrimSpace(os.Getenv("BOOKINGS_WEBHOOK_SIGNATURE_HEADERS")); value != "" {
		headers := []string{}
		for _, header := range strings.Split(value, ",") {
			if header = strings.TrimSpace(header); header != "" {
				headers = append(headers, header)
			}
		}
		if len(headers) > 0 {
			webhook["signature_headers"] = headers
		}
	}
	if value := strings.TrimSpace(os.Getenv("BOOKINGS_WEBHOOK_FORCE_CREATE")); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			webhook["force_create"] = parsed
		}
	}
	if len(webhook) > 0 {
		raw["webhook"] = webhook
	}

	persistenceRaw := map[string]any{}
	setIfPresent(persistenceRaw, "driver", "BOOKINGS_DB_DRIVER")
	setIfPresent(persistenceRaw, "server", "BOOKINGS_DB_SERVER")
	if value := strings.TrimSpace(os.Getenv("BOOKINGS_DB_DEBUG")); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			persistenceRaw["debug"] = parsed
		}
	}
	if len(persistenceRaw) > 0 {
		raw["persistence"] = persistenceRaw
	}

	return raw
}

func setIfPresent(target map[string]any, key string, envName string) {
	if value := strings.TrimSpace(os.Getenv(envName)); value != "" {
		target[key] = value
	}
}
