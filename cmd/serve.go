package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hanzoai/design-registry/internal/api"
	"github.com/hanzoai/design-registry/internal/log"
	"github.com/hanzoai/design-registry/internal/watcher"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registry over HTTP",
		Long: `Serve the registry index and the design system endpoints over HTTP.

Routes:
  GET  /health
  GET  /r/styles/index.json
  GET  /r/styles/{style}/index.json[?type=ui]
  GET  /r/styles/{style}/{name}.json
  GET  /r/styles/{style}/tree/{name}.json
  POST /r/design-system/validate
  POST /r/design-system/theme
  POST /r/design-system/base
  GET  /metrics

With --watch the catalog directory is watched and the index is rebuilt
after every change. A failed rebuild keeps serving the previous index.

Examples:
  # Serve the embedded catalog
  design-registry serve

  # Serve a local catalog and reload on edits
  design-registry serve --catalog ./catalog --watch --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runServe(cmd)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default: server.addr)")
	cmd.Flags().Bool("watch", false, "reload when the catalog directory changes")
	_ = c.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = c.v.BindPFlag("server.watch", cmd.Flags().Lookup("watch"))
	return cmd
}

func (c *cli) runServe(cmd *cobra.Command) error {
	sc := c.cfg.Server
	if sc.Watch && c.cfg.CatalogDir == "" {
		return errors.New("--watch requires a catalog directory (--catalog or catalog_dir)")
	}

	svc, err := c.service()
	if err != nil {
		return err
	}
	tp, err := c.tracerProvider()
	if err != nil {
		return err
	}
	server := api.NewServer(svc,
		api.WithTracer(tp.Tracer()),
		api.WithTimeouts(sc.ReadTimeout, sc.WriteTimeout),
	)

	// Handle shutdown signals
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if sc.Watch {
		w, err := watcher.New(watcher.Config{Dir: c.cfg.CatalogDir, DebounceDur: sc.WatchDebounce})
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx, svc.Reload); err != nil {
				log.ErrorErr(log.CatWatcher, "Catalog watcher stopped", err, "dir", c.cfg.CatalogDir)
			}
		}()
	}

	addr, err := server.Start(sc.Addr)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Registry serving %d styles on http://%s\n", len(svc.Index().Styles()), addr)

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(out, "Shutting down...")
	case err := <-server.Errors():
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.ErrorErr(log.CatHTTP, "Error stopping API server", err)
		return err
	}
	return nil
}
