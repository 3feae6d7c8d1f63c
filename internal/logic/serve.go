package logic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/idelchi/unveil/internal/config"
	"github.com/idelchi/unveil/internal/decryption"
	"github.com/idelchi/unveil/internal/server"
	"github.com/idelchi/unveil/pkg/keystream"
)

const shutdownTimeout = 10 * time.Second

// RunServe starts the HTTP service and blocks until it is interrupted.
func RunServe(cfg *config.Config, version string) error {
	printer := decryption.NewPrinter(cfg.Quiet, cfg.Verbose)

	maxUpload, err := cfg.MaxUploadBytes()
	if err != nil {
		return err
	}

	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	var ks keystream.Keystream

	if cfg.HasKeystream() {
		if ks, err = LoadKeystream(cfg, printer); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr: cfg.Addr,
		Handler: server.New(server.Options{
			Version:   version,
			MaxUpload: maxUpload,
			Keystream: ks,
			Quiet:     cfg.Quiet,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)

	go func() {
		printer.Infof("Listening on %s\n", cfg.Addr)

		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	printer.Infof("Shutting down\n")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}
