// Package main provides the entry point for the spellcheckd TCP server.
// It loads a dictionary, accepts persistent client connections, and answers
// line-delimited spell-check queries through a fixed worker pool, per
// SPEC_FULL.md.
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"spellcheckd/internal/config"
	"spellcheckd/internal/dictionary"
	"spellcheckd/internal/metrics"
	"spellcheckd/internal/spellserver"
)

const logFilePath = "log.txt"

func main() {
	log := logrus.New()

	if err := run(log); err != nil {
		log.WithError(err).Fatal("spellcheckd exiting")
	}
}

// run parses configuration, loads the dictionary, and runs the server until
// a shutdown signal or a fatal error. Separated from main for testability.
func run(log *logrus.Logger) error {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, config.Usage)
		os.Exit(1)
	}

	adminAddr := os.Getenv("SPELLCHECKD_ADMIN_ADDR")

	dict, err := dictionary.Build(cfg.DictionaryPath)
	if err != nil {
		return fmt.Errorf("load dictionary: %w", err)
	}

	m := metrics.New()
	srv := spellserver.New(cfg, dict, log, m, logFilePath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Run(ctx)
	}()

	var adminServer *http.Server
	if adminAddr != "" {
		adminServer = startAdminServer(adminAddr, m, log)
	}

	select {
	case <-stop:
		log.Info("received shutdown signal")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	srv.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if adminServer != nil {
		_ = adminServer.Shutdown(shutdownCtx)
	}

	select {
	case <-serverErr:
	case <-shutdownCtx.Done():
	}

	return nil
}

// startAdminServer starts the optional admin HTTP server, isolated from the
// spell-check TCP protocol: health checks, Prometheus metrics, and pprof
// debugging endpoints, mirroring the teacher's admin server split.
func startAdminServer(addr string, m *metrics.Metrics, log *logrus.Logger) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	adminServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		log.WithField("addr", addr).Info("starting admin HTTP server")
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Warn("admin server error")
		}
	}()

	return adminServer
}
