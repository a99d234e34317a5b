package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"PriceBoard/internal/config"
	"PriceBoard/internal/generator"
	"PriceBoard/internal/logger"
	"PriceBoard/internal/monitoring"
	"PriceBoard/internal/notifier"
	"PriceBoard/internal/ranges"
	"PriceBoard/internal/recorder"
	"PriceBoard/internal/scheduler"
	"PriceBoard/internal/server"
)

const usage = `usage: priceboard [-config path] [serve | show [-range id] | ranges]`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("load .env")
	}

	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	cfgPath := flag.String("config", defaultPath, "path to the YAML config file")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}
	if err := logger.Setup(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		log.Fatalf("setup logger: %v", err)
	}

	args := flag.Args()
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		err = serve(cfg)
	case "show":
		err = show(cfg, args)
	case "ranges":
		err = listRanges(cfg)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func newController(cfg *config.Config, defaultID string) (*ranges.Controller, *generator.Generator, error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	gen := generator.New(
		generator.WithBasePrice(cfg.Generator.BasePrice),
		generator.WithNoiseAmplitude(cfg.Generator.NoiseAmplitude),
		generator.WithSeed(cfg.Generator.Seed),
	)
	ctrl, err := ranges.NewController(catalog, gen,
		ranges.WithDefaultRange(defaultID),
		ranges.WithClock(func() time.Time { return time.Now().In(loc) }),
	)
	if err != nil {
		return nil, nil, err
	}
	return ctrl, gen, nil
}

func serve(cfg *config.Config) error {
	log.Info("PriceBoard starting...")

	ctrl, gen, err := newController(cfg, cfg.DefaultRange)
	if err != nil {
		return fmt.Errorf("init controller: %w", err)
	}

	var rec recorder.Recorder
	if cfg.Journal.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Journal.SQLitePath)
		if err != nil {
			log.WithError(err).Warn("init sqlite journal failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	hub := notifier.NewHub(ctrl.Snapshot)
	metrics := monitoring.NewMetrics()
	metrics.RegisterGaugeFunc("priceboard_websocket_clients", "Connected websocket clients",
		func() float64 { return float64(hub.ClientCount()) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	selections, unsubscribe := ctrl.Subscribe(16)
	defer unsubscribe()

	// The default selection was made before the subscription existed.
	sinks := []notifier.Sink{hub, recorder.Sink{Recorder: rec}, metrics}
	initial := ctrl.Snapshot()
	for _, sink := range sinks {
		if err := sink.Publish(initial); err != nil {
			log.WithError(err).WithField("sink", sink.Name()).Warn("publish initial selection")
		}
	}
	go notifier.Dispatch(ctx, selections, sinks...)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	sched := scheduler.NewScheduler(ctrl, loc)
	sched.Failures = metrics
	if err := sched.RegisterRollover(cfg.Schedule.RolloverCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	metricsPath := ""
	if cfg.MetricsEnabled() {
		metricsPath = cfg.Metrics.Path
	}
	srv, err := server.New(ctrl, hub, metrics, server.Options{
		Addr:        cfg.Server.Addr,
		Mode:        cfg.Server.Mode,
		RateRPS:     cfg.Server.RateLimit.RPS,
		RateBurst:   cfg.Server.RateLimit.Burst,
		MetricsPath: metricsPath,
		Settings: server.Settings{
			BasePrice:      gen.BasePrice(),
			NoiseAmplitude: gen.NoiseAmplitude(),
			Timezone:       cfg.Timezone,
		},
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info("shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("server stop")
	}
	cancel()
	log.Info("PriceBoard stopped")
	return nil
}

func show(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	rangeID := fs.String("range", cfg.DefaultRange, "range id to select")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ctrl, _, err := newController(cfg, *rangeID)
	if err != nil {
		return err
	}
	return notifier.PrintHeader(os.Stdout, ctrl.Snapshot())
}

func listRanges(cfg *config.Config) error {
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}
	return notifier.PrintCatalog(os.Stdout, catalog.Specs(), cfg.DefaultRange)
}
