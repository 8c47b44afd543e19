package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kalondepeace/Celo-Faucet/pkg/collector"
	"github.com/kalondepeace/Celo-Faucet/pkg/config"
	"github.com/kalondepeace/Celo-Faucet/pkg/currency"
	"github.com/kalondepeace/Celo-Faucet/pkg/dapp"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
	"github.com/kalondepeace/Celo-Faucet/pkg/scheduler"
	"github.com/kalondepeace/Celo-Faucet/pkg/validation"
	"github.com/kalondepeace/Celo-Faucet/pkg/version"
	"github.com/prometheus/client_golang/prometheus"

	httpfiber "github.com/kalondepeace/Celo-Faucet/pkg/server/http"
	"go.uber.org/zap/zapcore"
)

var (
	cfgPath     = flag.String("config", "config.yaml", "path to the config file")
	showVersion = flag.Bool("version", false, "print version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		versionInfo := version.GetVersion()
		versionJSON, _ := json.Marshal(versionInfo)
		fmt.Println(string(versionJSON))
		return
	}

	config, err := config.Load(*cfgPath)
	if err != nil {
		panic(fmt.Errorf("failed to read config: %v", err))
	}

	// init logger
	level, err := zapcore.ParseLevel(config.Global.LogLevel)
	if err != nil {
		panic(fmt.Errorf("failed to parse log level: %v", err))
	}
	err = logger.InitLogger(logger.WithLevel(level), logger.WithEncodeTime("timestamp", zapcore.ISO8601TimeEncoder))
	if err != nil {
		panic(fmt.Errorf("failed to init logger: %v", err))
	}

	// Validate configuration before any network operations
	configValidator := validation.NewConfigValidator()
	if err := configValidator.ValidateConfig(config); err != nil {
		logger.Fatalf("Configuration validation failed: %v", err)
	}
	logger.Infof("Configuration validated successfully")

	currencyRegistry := currency.NewDefaultRegistry()
	promRegistry := prometheus.NewRegistry()

	app := dapp.FromConfig(config, currencyRegistry, dapp.WithMetrics(dapp.NewMetrics(promRegistry)))
	err = promRegistry.Register(collector.NewBalanceCollector(app,
		config.Contracts.StableUnit, config.Contracts.NativeUnit, config.Chain.Name))
	if err != nil {
		logger.Fatalf("Failed to register balance collector: %v", err)
	}

	// A failed start-up load is not fatal: the banner carries the cause and
	// POST /api/v1/connect retries.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := app.Load(ctx); err != nil {
		logger.Warnf("Initial load failed: %v", err)
	}
	cancel()

	var refreshScheduler *scheduler.RefreshScheduler
	if config.Global.RefreshSchedule != "" {
		refreshScheduler, err = scheduler.NewRefreshScheduler(config.Global.RefreshSchedule, app)
		if err != nil {
			logger.Fatalf("Failed to create refresh scheduler: %v", err)
		}
		if err := refreshScheduler.Start(); err != nil {
			logger.Fatalf("Failed to start refresh scheduler: %v", err)
		}
	} else {
		logger.Infof("Background refresh is disabled")
	}

	serverOpts := []httpfiber.Option{
		httpfiber.WithRegistry(promRegistry),
		httpfiber.WithDApp(app),
	}
	if refreshScheduler != nil {
		serverOpts = append(serverOpts, httpfiber.WithScheduler(refreshScheduler))
	}
	server := httpfiber.NewServer(config, serverOpts...)

	signalChain := make(chan os.Signal, 1)
	signal.Notify(signalChain, os.Interrupt, syscall.SIGTERM)
	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("failed to run server: %v", err)
		}
	}()
	<-signalChain

	logger.Infof("Shutting down...")

	if refreshScheduler != nil {
		if err := refreshScheduler.Stop(); err != nil {
			logger.Errorf("Failed to stop refresh scheduler: %v", err)
		}
	}

	server.Stop()
	app.Close()
	logger.Infof("Shutdown complete")
}
