// cmd/provisioner/main.go
//
// Development provisioner.
//
// Context
// -------
// Polls the API for pending websites, writes each one's HTML to
// `<site_dir>/<websiteName>/index.html`, serves that tree on
// `provisioner.serve_addr`, and reports the serve address back as the
// pod address.  Production deployments replace this binary with a
// cluster-aware provisioner that speaks the same two endpoints.
//
// Run it next to cmd/web with the same conf/ directory:
//
//	go run ./cmd/provisioner
//	curl http://127.0.0.1:8090/my-site/
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

	"github.com/yanizio/cloudself/internal/config"
	"github.com/yanizio/cloudself/internal/logger"
	"github.com/yanizio/cloudself/internal/provisioner"
	"github.com/yanizio/cloudself/internal/server"
	"github.com/yanizio/cloudself/internal/vault"
)

func main() {
	logger.Bootstrap()
	if err := run(); err != nil {
		zap.S().Errorw("provisioner exited", "err", err)
		_ = zap.S().Sync()
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.LoadDotEnv(config.RootDir())
	var secrets config.SecretResolver
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err := vault.New(ctx, 10*time.Minute)
		if err != nil {
			return fmt.Errorf("vault: %w", err)
		}
		secrets = vc
	}

	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	pc := cfg.Provisioner
	if pc.BaseURL == "" || pc.ServeAddr == "" {
		return errors.New("provisioner.base_url and provisioner.serve_addr are required")
	}

	log, err := logger.New(logger.Options{
		Dir:     cfg.Abs(cfg.Log.Dir, "logs"),
		Level:   cfg.Log.Level,
		Console: true,
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	log = log.With("component", "provisioner")
	defer log.Sync()

	siteDir := cfg.Abs(pc.SiteDir, "sites")
	if err := os.MkdirAll(siteDir, 0o755); err != nil {
		return fmt.Errorf("site dir: %w", err)
	}

	local := &provisioner.Local{Dir: siteDir, Addr: pc.ServeAddr}
	poller := &provisioner.Poller{
		Queue:     provisioner.NewClient(pc.BaseURL, pc.Timeout),
		Provision: local.Provision,
		Interval:  pc.PollInterval,
		Log:       log,
	}
	srv := server.New(pc.ServeAddr, http.FileServer(http.Dir(siteDir)), server.Timeouts{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("polling", "api", pc.BaseURL, "interval", pc.PollInterval)
		return poller.Run(gctx)
	})
	g.Go(func() error {
		log.Infow("serving sites", "addr", pc.ServeAddr, "dir", siteDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("site server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
