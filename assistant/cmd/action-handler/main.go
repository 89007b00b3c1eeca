package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/malbeclabs/sitewise-assistant/assistant/internal/app"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/action"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/logger"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/server"
	"github.com/malbeclabs/sitewise-assistant/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	modeAuto   = "auto"
	modeLambda = "lambda"
	modeHTTP   = "http"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("failed to run: %v", err)
	}
}

func run() error {
	config.LoadDotEnv()
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	showVersionFlag := flag.Bool("version", false, "show version and exit")
	verboseFlag := flag.BoolP("verbose", "v", cfg.Verbose, "verbose mode - show debug logs")
	modeFlag := flag.String("mode", modeAuto, "how to receive events: auto, lambda or http")
	listenAddrFlag := flag.String("listen-addr", cfg.ListenAddr, "address the local invoke server listens on")
	metricsAddrFlag := flag.String("metrics-addr", cfg.MetricsAddr, "Address to listen on for prometheus metrics")
	flag.Parse()

	if *showVersionFlag {
		fmt.Printf("version: %s, commit: %s, date: %s\n", version, commit, date)
		os.Exit(0)
	}

	mode := *modeFlag
	if mode == modeAuto {
		mode = modeHTTP
		if config.InLambda() {
			mode = modeLambda
		}
	}
	if mode != modeLambda && mode != modeHTTP {
		return fmt.Errorf("invalid mode %q", mode)
	}

	cfg.Verbose = *verboseFlag
	// CloudWatch does not render ANSI colors.
	log := logger.New(os.Stdout, cfg.Verbose, mode == modeLambda)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	router, err := app.NewRouter(ctx, log, cfg)
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}

	if mode == modeLambda {
		log.Info("action handler starting", "mode", mode, "version", version)
		lambda.StartWithOptions(func(ctx context.Context, req action.Request) (*action.Response, error) {
			return router.Handle(ctx, &req), nil
		}, lambda.WithContext(ctx))
		return nil
	}

	// Set up prometheus metrics server if enabled.
	if *metricsAddrFlag != "" {
		action.BuildInfo.WithLabelValues(version, commit, date).Set(1)
		go serveMetrics(log, *metricsAddrFlag)
	}

	srv, err := server.New(log, server.Config{Invoker: router})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	listener, err := net.Listen("tcp", *listenAddrFlag)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	defer listener.Close()

	if err := srv.Serve(ctx, listener); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("context done, stopping")
	return nil
}

func serveMetrics(log *slog.Logger, addr string) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("Failed to start prometheus metrics server listener", "error", err)
		os.Exit(1)
	}
	log.Info("Prometheus metrics server listening", "address", listener.Addr().String())
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.Serve(listener, mux); err != nil {
		log.Error("Failed to start prometheus metrics server", "error", err)
		os.Exit(1)
	}
}
