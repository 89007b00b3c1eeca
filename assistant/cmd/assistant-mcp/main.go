package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/malbeclabs/sitewise-assistant/assistant/internal/app"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/action"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/logger"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/mcpserver"
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

const defaultListenAddr = ":8010"

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
	listenAddrFlag := flag.String("listen-addr", defaultListenAddr, "address the MCP server listens on")
	metricsAddrFlag := flag.String("metrics-addr", cfg.MetricsAddr, "Address to listen on for prometheus metrics")
	flag.Parse()

	if *showVersionFlag {
		fmt.Printf("version: %s, commit: %s, date: %s\n", version, commit, date)
		os.Exit(0)
	}

	log := logger.New(os.Stdout, *verboseFlag, false)

	if *metricsAddrFlag != "" {
		action.BuildInfo.WithLabelValues(version, commit, date).Set(1)
		go func() {
			listener, err := net.Listen("tcp", *metricsAddrFlag)
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
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	router, err := app.NewRouter(ctx, log, cfg)
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}

	srv, err := mcpserver.New(mcpserver.Config{
		Logger:     log,
		Invoker:    router,
		Version:    version,
		ListenAddr: *listenAddrFlag,
	})
	if err != nil {
		return fmt.Errorf("failed to create mcp server: %w", err)
	}
	return srv.Run(ctx)
}
