// Package profiling serves the net/http/pprof endpoints on a private
// listener.
package profiling

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
)

// DefaultPort is used when Config.Port is empty.
const DefaultPort = "6060"

const readHeaderTimeout = 5 * time.Second

// Config enables the pprof listener. It only ever binds to localhost.
type Config struct {
	Enabled bool   `env:"ENABLE_PROFILING" yaml:"enabled"`
	Port    string `env:"PPROF_PORT"       yaml:"port"`
}

// Handler returns a mux with the standard pprof routes under /debug/pprof/.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// Run serves pprof until ctx is cancelled. It returns immediately when
// profiling is disabled.
func Run(ctx context.Context, cfg Config, log logger.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	port := cfg.Port
	if port == "" {
		port = DefaultPort
	}

	srv := &http.Server{
		Addr:              "localhost:" + port,
		Handler:           Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	log.Info("Starting pprof server", logger.String("address", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("pprof server: %w", err)
	}
	return nil
}
