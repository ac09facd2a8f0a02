package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"modelbridge/internal/bridge"
	"modelbridge/internal/httpapi"
	"modelbridge/internal/manager"
	"modelbridge/internal/registry"
	"modelbridge/internal/store"
	"modelbridge/pkg/types"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		addr    string
		preload bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, c, preload)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8080 (overrides config)")
	cmd.Flags().BoolVar(&preload, "preload", false, "Load model_path before accepting requests")
	return cmd
}

// buildManager wires the session, registry and optional fingerprint store.
// The returned cleanup closes the store and releases the model.
func buildManager(c *cli) (*manager.Manager, func(), error) {
	b, err := bridge.Build(c.cfg, c.log)
	if err != nil {
		return nil, nil, err
	}
	reg, err := registry.LoadDir(c.cfg.ModelsDir)
	if err != nil {
		c.log.Warn().Err(err).Str("models_dir", c.cfg.ModelsDir).Msg("model registry unavailable; /models will be empty")
		reg = nil
	}
	ml := c.log.With().Str("component", "manager").Logger()
	mcfg := manager.ManagerConfig{
		Session:          b.Session(),
		Registry:         reg,
		DefaultModelPath: c.cfg.ModelPath,
		Logger:           &ml,
	}
	var fp *store.Store
	if c.cfg.RecordFingerprints {
		if fp, err = store.Open(c.cfg.FingerprintDB); err != nil {
			b.Close()
			return nil, nil, err
		}
		mcfg.Recorder = fp
		mcfg.Searcher = fp
	}
	mgr := manager.NewWithConfig(mcfg)
	cleanup := func() {
		_ = mgr.Close()
		if fp != nil {
			_ = fp.Close()
		}
	}
	return mgr, cleanup, nil
}

func serve(ctx context.Context, c *cli, preload bool) error {
	mgr, cleanup, err := buildManager(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if r := mgr.SanityCheck(); r.Error != "" {
		c.log.Warn().Str("engine", r.Engine).Str("default_path", r.DefaultPath).Msg(r.Error)
	}
	if preload {
		if _, err := mgr.Load(ctx, types.LoadRequest{}); err != nil {
			return err
		}
	}

	httpapi.SetLogger(c.log.With().Str("component", "http").Logger())
	httpapi.SetDefaultLogLevel(httpLogLevel(c.cfg.LogLevel))
	httpapi.SetMaxBodyBytes(c.cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(c.cfg.CORSEnabled, c.cfg.CORSOrigins, nil, nil)
	httpapi.SetBaseContext(ctx)

	srv := &http.Server{
		Addr:              c.cfg.Addr,
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		c.log.Info().Str("addr", c.cfg.Addr).Str("engine", c.cfg.Engine).Str("models_dir", c.cfg.ModelsDir).Msg("modelbridge listening")
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.log.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

// httpLogLevel maps the process log level onto the per-request levels the
// HTTP layer understands.
func httpLogLevel(level string) string {
	switch level {
	case "trace", "debug":
		return "debug"
	case "warn", "error", "fatal", "panic":
		return "error"
	case "disabled":
		return "off"
	default:
		return "info"
	}
}

