// Command rssched-server is the solver's HTTP binary: one root command,
// an optional positional port argument, and RAYON_NUM_THREADS read once at
// startup to size the local-search driver's TakeAny worker pool.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rolling-stock-scheduling/rssched-solver/internal/api"
	"github.com/rolling-stock-scheduling/rssched-solver/internal/localsearch"
)

const defaultPort = 3000

func main() {
	root := &cobra.Command{
		Use:          "rssched-server [port]",
		Short:        "Rolling-stock scheduling solver HTTP server",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	port := defaultPort
	if len(args) == 1 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", args[0], err)
		}
		port = p
	}

	threads := threadCount()

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	opts := localsearch.DefaultOptions()
	opts.Policy = localsearch.TakeAny
	opts.Workers = threads
	opts.TimeLimit = 30 * time.Second

	handler := api.NewHandler(opts, threads, logger)
	router := api.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.Int("port", port), zap.Int("numberOfThreads", threads))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("stopped gracefully")

	return nil
}

// threadCount reads RAYON_NUM_THREADS, defaulting to every available core
// when unset or invalid.
func threadCount() int {
	v := os.Getenv("RAYON_NUM_THREADS")
	if v == "" {
		return runtime.NumCPU()
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}

	return n
}
