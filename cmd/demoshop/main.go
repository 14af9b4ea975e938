package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"DemoShop/internal/config"
	"DemoShop/internal/shop"
	"DemoShop/pkg/kit"
)

func main() {
	configPath := flag.String("config", "configs/demoshop.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(kit.LogConfig{
		Service: cfg.Service,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx := context.Background()
	app, err := shop.Build(ctx, cfg, log, reg)
	if err != nil {
		log.Fatal("init demoshop failed", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("shutdown cleanup failed", zap.Error(err))
		}
	}()

	log.Info("starting",
		zap.String("addr", cfg.Addr()),
		zap.String("storage", cfg.StorageDriver),
		zap.Bool("events", len(cfg.KafkaBrokers) > 0),
	)

	err = kit.RunHTTPServer(ctx, kit.ServerConfig{
		Addr:            cfg.Addr(),
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, app.Handler, log)
	if err != nil {
		log.Error("http server stopped", zap.Error(err))
	}
}
