// cmd/web/main.go
//
// cloudself – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Console logger for early boot, then `conf/.env` into the process env.
//
//  2. Vault client when VAULT_ADDR is set, so `vault:` references in the
//     configuration resolve.
//
//  3. Configuration (YAML + CLOUDSELF_ env), then the daily file logger.
//
//  4. Record store: MySQL or PostgreSQL through sqlx (embedded migrations
//     when database.migrate is on), or the in-memory store.
//
//  5. Optional Redis event stream.
//
//  6. Services, router, and server; serve until SIGINT/SIGTERM, then shut
//     down gracefully.
//
// Large comment blocks are framed by blank "//" lines; inline comments use
// a single "//".
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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/cloudself/internal/api"
	"github.com/yanizio/cloudself/internal/config"
	"github.com/yanizio/cloudself/internal/database"
	"github.com/yanizio/cloudself/internal/events"
	"github.com/yanizio/cloudself/internal/logger"
	"github.com/yanizio/cloudself/internal/server"
	"github.com/yanizio/cloudself/internal/service"
	"github.com/yanizio/cloudself/internal/store"
	"github.com/yanizio/cloudself/internal/vault"
	"github.com/yanizio/cloudself/internal/website"
)

const (
	shutdownGrace = 10 * time.Second
	secretTTL     = 10 * time.Minute
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	boot := logger.Bootstrap()
	if err := run(); err != nil {
		zap.S().Errorw("cloudself exited", "err", err)
		_ = zap.S().Sync()
		boot.Sync()
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Env and secrets ─────────────────────────────────────────────
	//
	config.LoadDotEnv(config.RootDir())

	var secrets config.SecretResolver
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err := vault.New(ctx, secretTTL)
		if err != nil {
			return fmt.Errorf("vault: %w", err)
		}
		secrets = vc
	}

	//
	// ── 2.  Config and file logger ──────────────────────────────────────
	//
	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := logger.New(logger.Options{
		Dir:     cfg.Abs(cfg.Log.Dir, "logs"),
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console || runningInTTY(),
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	//
	// ── 3.  Record store ────────────────────────────────────────────────
	//
	st, closeStore, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeStore()

	//
	// ── 4.  Event stream (optional) ─────────────────────────────────────
	//
	var (
		pub       events.Publisher = events.Nop{}
		evHealthy api.Pinger
	)
	if ec := cfg.Events; ec.RedisAddr != "" {
		rs, err := events.Dial(ctx, ec.RedisAddr, ec.RedisPassword, ec.RedisDB, ec.Stream, ec.MaxLen)
		if err != nil {
			// Events are best effort; run without them rather than refuse to boot.
			log.Warnw("event stream unavailable, publishing disabled", "addr", ec.RedisAddr, "err", err)
		} else {
			defer rs.Close()
			pub, evHealthy = rs, rs
			log.Infow("event stream online", "addr", ec.RedisAddr, "stream", ec.Stream)
		}
	}

	//
	// ── 5.  Services and HTTP ───────────────────────────────────────────
	//
	router := api.NewRouter(api.Deps{
		Websites:    service.NewWebsites(st, pub, log),
		Provisioner: service.NewProvisioner(st, website.NewEngine(st), pub, log),
		Database:    st,
		Events:      evHealthy,
		Log:         log,
	}, api.Options{
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		CORSOrigins:  cfg.HTTP.CORSOrigins,
		ForceHTTPS:   cfg.HTTP.ForceHTTPS,
		UserHeader:   cfg.Auth.UserHeader,
		DefaultUser:  cfg.Auth.DefaultUser,
	})

	srv := server.New(cfg.HTTP.ListenAddr, router, server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down", "grace", shutdownGrace)
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// openStore returns the configured website.Store and its closer.
func openStore(ctx context.Context, dc config.Database, log *zap.SugaredLogger) (website.Store, func(), error) {
	if dc.Driver == "memory" {
		log.Warnw("using in-memory store, records are lost on exit")
		return store.NewMemory(), func() {}, nil
	}

	opts := database.DefaultOptions()
	if dc.MaxOpenConns > 0 {
		opts.MaxOpenConns = dc.MaxOpenConns
	}
	if dc.MaxIdleConns > 0 {
		opts.MaxIdleConns = dc.MaxIdleConns
	}
	if dc.ConnMaxLifetime > 0 {
		opts.ConnMaxLifetime = dc.ConnMaxLifetime
	}

	log.Infow("connecting to database", "driver", dc.Driver)
	db, err := database.OpenWithOptions(ctx, dc.Driver, dc.ConnString(), opts)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	if dc.Migrate {
		if err := database.Migrate(ctx, db, dc.Driver); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	log.Infow("database online", "driver", dc.Driver, "migrated", dc.Migrate)
	return store.NewSQL(db), func() { db.Close() }, nil
}
