// Package server hosts the browser front end.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/csheth/pdfask/internal/controller"
	"github.com/csheth/pdfask/internal/server/handler"
	"github.com/csheth/pdfask/internal/server/router"
	"github.com/csheth/pdfask/internal/session"
)

const (
	sweepInterval   = 5 * time.Minute
	sessionMaxIdle  = time.Hour
	shutdownTimeout = 5 * time.Second
)

// Options configures Run.
type Options struct {
	Addr         string
	AllowOrigins []string
	Controller   controller.Controller
}

// Run serves until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	store := session.NewStore()
	h := handler.New(store, opts.Controller, nil)
	r := router.New(store, h, opts.AllowOrigins)

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go sweep(ctx, store)

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Printf("server stopped")
	return nil
}

func sweep(ctx context.Context, store *session.Store) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(sessionMaxIdle); n > 0 {
				log.Printf("swept %d idle sessions, %d active", n, store.Len())
			}
		}
	}
}
