package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/eldadfux/isAWSback/internal/config"
	"github.com/eldadfux/isAWSback/internal/constants"
	"github.com/eldadfux/isAWSback/internal/hotreload"
	"github.com/eldadfux/isAWSback/internal/server"
)

func main() {
	configFile := pflag.String("config", "", "Path to configuration file (YAML or JSON)")
	host := pflag.String("host", "localhost", "Host to run the status server on")
	port := pflag.String("port", "8080", "Port to run the status server on")
	metricsPort := pflag.String("metrics-port", "9090", "Port to run the metrics server on")

	readTimeout := pflag.Duration("read-timeout", constants.ServerReadTimeout, "HTTP server read timeout")
	writeTimeout := pflag.Duration("write-timeout", constants.ServerWriteTimeout, "HTTP server write timeout")
	idleTimeout := pflag.Duration("idle-timeout", constants.ServerIdleTimeout, "HTTP server idle timeout")
	shutdownTimeout := pflag.Duration("shutdown-timeout", constants.ServerShutdownTimeout, "Graceful shutdown timeout")

	feedURL := pflag.String("feed-url", constants.DefaultFeedURL, "URL of the upstream incident feed")
	userAgent := pflag.String("user-agent", constants.DefaultUserAgent, "User-Agent sent to the upstream feed")
	fetchTimeout := pflag.Duration("fetch-timeout", constants.DefaultFetchTimeout, "Timeout for a single feed fetch")
	freshness := pflag.Duration("freshness", constants.DefaultFreshness, "How long a cached verdict is served without refetching")

	rateLimitEnabled := pflag.Bool("rate-limit-enabled", false, "Enable per-IP rate limiting")
	rateLimitRPS := pflag.Int("rate-limit-rps", 100, "Rate limit requests per second")

	hotReload := pflag.Bool("hot-reload", false, "Reload tunables when the configuration file changes")
	logLevel := pflag.String("log-level", "info", "Log level: debug, info, warn, error")

	pflag.Usage = printUsage
	pflag.Parse()

	cliFlags := &config.CLIFlags{
		Host:             host,
		Port:             port,
		MetricsPort:      metricsPort,
		ReadTimeout:      readTimeout,
		WriteTimeout:     writeTimeout,
		IdleTimeout:      idleTimeout,
		ShutdownTimeout:  shutdownTimeout,
		FeedURL:          feedURL,
		UserAgent:        userAgent,
		FetchTimeout:     fetchTimeout,
		Freshness:        freshness,
		RateLimitEnabled: rateLimitEnabled,
		RateLimitRPS:     rateLimitRPS,
		HotReload:        hotReload,
		LogLevel:         logLevel,
	}

	cfg, err := config.LoadConfig(*configFile, cliFlags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	statusServer, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	var reloadManager *hotreload.Manager
	if cfg.HotReload.Enabled && *configFile != "" {
		reloadManager, err = hotreload.NewManager(*configFile, cfg.HotReload.Debounce, statusServer.Logger().Logger)
		if err != nil {
			log.Fatalf("Failed to create hot reload manager: %v", err)
		}

		file := *configFile
		reloadManager.Register(hotreload.ReloadFunc(func() error {
			updated, err := config.LoadConfig(file, nil)
			if err != nil {
				return err
			}
			statusServer.Checker().Apply(
				server.BuildAcquirers(updated.Feed, statusServer.Logger(), statusServer.Metrics()),
				updated.Feed.Freshness,
			)
			return nil
		}))

		if err := reloadManager.Start(); err != nil {
			log.Fatalf("Failed to start hot reload: %v", err)
		}
	}

	if err := statusServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	if reloadManager != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := reloadManager.Shutdown(ctx); err != nil {
			log.Printf("Failed to shutdown hot reload manager: %v", err)
		}
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nServes the current health verdict of the monitored platform at %s.\n", constants.PathStatus)
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	pflag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nEnvironment variables:\n")
	fmt.Fprintf(os.Stderr, "  %s, %s, %s\n", constants.EnvHost, constants.EnvPort, constants.EnvMetricsPort)
	fmt.Fprintf(os.Stderr, "  %s, %s, %s\n", constants.EnvFeedURL, constants.EnvFetchTimeout, constants.EnvFreshness)
	fmt.Fprintf(os.Stderr, "\nExample usage:\n")
	fmt.Fprintf(os.Stderr, "  %s --port 8081 --freshness 30s\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --config ./is-aws-back.yaml --hot-reload\n", os.Args[0])
}
