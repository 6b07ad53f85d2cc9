// Package server runs an echo instance until the process is signalled, then
// drains it and releases the service's dependencies.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const ShutdownTimeout = 30 * time.Second

// Cleanup releases one dependency. Cleanups run in the order given, after the
// HTTP server has stopped accepting requests.
type Cleanup struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Run starts e on addr and blocks until SIGINT/SIGTERM has been handled. The
// returned value is the process exit code.
func Run(e *echo.Echo, addr string, log zerolog.Logger, cleanups ...Cleanup) int {
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	wait := gfshutdown.GracefulShutdown(context.Background(), ShutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": sequence(e.Shutdown, cleanups, log),
	})
	code := <-wait
	log.Info().Int("exit_code", code).Msg("shutdown complete")
	return code
}

// sequence stops the server first, then runs every cleanup even when an
// earlier one fails. The first error is returned.
func sequence(stop func(context.Context) error, cleanups []Cleanup, log zerolog.Logger) gfshutdown.Operation {
	return func(ctx context.Context) error {
		log.Info().Msg("graceful shutdown initiated")
		var errs []error
		if err := stop(ctx); err != nil {
			log.Error().Err(err).Msg("http server shutdown")
			errs = append(errs, err)
		}
		for _, c := range cleanups {
			if err := c.Fn(ctx); err != nil {
				log.Error().Err(err).Str("dependency", c.Name).Msg("cleanup failed")
				errs = append(errs, err)
				continue
			}
			log.Debug().Str("dependency", c.Name).Msg("closed")
		}
		if len(errs) > 0 {
			return errs[0]
		}
		return nil
	}
}

// Close adapts a plain Close method.
func Close(name string, fn func() error) Cleanup {
	return Cleanup{Name: name, Fn: func(context.Context) error { return fn() }}
}
