package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"FundSentinel/internal/config"
	"FundSentinel/internal/coordinator"
	"FundSentinel/internal/fund"
	"FundSentinel/internal/ledger"
	"FundSentinel/internal/model"
	"FundSentinel/internal/notifier"
	"FundSentinel/internal/scheduler"
	"FundSentinel/internal/signals"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	configPath := flag.String("config", cfgPath, "path to config file")
	once := flag.Bool("once", false, "run a single decision cycle and exit")
	flag.Parse()

	// .env is optional, real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation failed")
	}

	os.Exit(run(cfg, log, *once))
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.Logging.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}

func run(cfg *config.Config, log zerolog.Logger, once bool) int {
	log.Info().Str("fund_id", cfg.Fund.FundID).Msg("FundSentinel starting")

	fundClient := fund.NewManagerClient(cfg.Fund.ManagerURL, cfg.Fund.APIKey, cfg.Proxy)

	var led ledger.Ledger
	if cfg.Database.SQLitePath != "memory" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0755); err != nil {
			log.Error().Err(err).Msg("creating ledger directory failed")
			return 1
		}
		sl, err := ledger.NewSQLiteLedger(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Error().Err(err).Msg("opening signal ledger failed")
			return 1
		}
		led = sl
	} else {
		// Dry-run only: without durability a re-emitted signal can
		// double-trigger after a restart.
		log.Warn().Msg("using in-memory ledger, processed signals will not survive restarts")
		led = ledger.NewMemoryLedger()
	}
	defer led.Close()

	src, err := buildSource(cfg)
	if err != nil {
		log.Error().Err(err).Msg("building signal source failed")
		return 1
	}
	log.Info().Str("source", src.Name()).Msg("signal source selected")

	coord := coordinator.New(coordinator.Config{
		FundID:       cfg.Fund.FundID,
		AssetCount:   cfg.Fund.AssetCount,
		ThresholdBPS: cfg.Rebalance.ThresholdBPS,
		GasLimit:     cfg.Rebalance.GasLimit,
		Fallback:     cfg.FallbackWeights(),
		CallTimeout:  cfg.CallTimeout(),
	}, src, led, fundClient, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Asset-count mismatches against the deployed fund are fatal here,
	// before any cycle can act on them.
	if err := coord.VerifyFund(ctx); err != nil {
		log.Error().Err(err).Msg("fund verification failed")
		return 1
	}

	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
	}

	if once {
		return runOnce(ctx, coord, tn, cfg, log)
	}

	sched := scheduler.New(ctx, coord, tn, cfg.Fund.AssetSymbols, log)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Error().Err(err).Msg("registering cron task failed")
		return 1
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing cycle now")
		go sched.RunNow()
	}

	log.Info().Str("cron", cfg.Schedule.Cron).Msg("FundSentinel is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	return 0
}

// runOnce executes a single cycle for cron-style external scheduling. The
// exit code tells the outer scheduler whether a retry is warranted.
func runOnce(ctx context.Context, coord *coordinator.Coordinator, tn *notifier.TelegramNotifier, cfg *config.Config, log zerolog.Logger) int {
	res := coord.RunCycle(ctx)

	if tn != nil && res.Status != model.CycleSkipped {
		report := notifier.FormatCycleReport(cfg.Fund.AssetSymbols, res)
		if err := tn.SendWithRetry(ctx, report, 3); err != nil {
			log.Error().Err(err).Msg("sending cycle report failed")
		}
	}

	switch res.Status {
	case model.CycleFailed:
		log.Error().Err(res.Err).Str("signal_id", res.SignalID).Msg("cycle failed")
		return 1
	case model.CycleExecuted:
		log.Info().Str("signal_id", res.SignalID).Str("tx_ref", res.TxRef).Msg("cycle executed")
	default:
		log.Info().Str("signal_id", res.SignalID).Str("reason", string(res.SkipReason)).Msg("cycle skipped")
	}
	return 0
}

func buildSource(cfg *config.Config) (signals.Source, error) {
	switch cfg.Signal.Source {
	case "sentiment":
		return signals.NewSentimentSource(cfg.Signal.Sentiment.BaseURL, cfg.Signal.Sentiment.APIKey, cfg.Proxy), nil
	case "rotation":
		period := time.Duration(cfg.Signal.Rotation.PeriodHours) * time.Hour
		return signals.NewRotationSource(cfg.RotationProfiles(), period), nil
	case "static":
		return signals.NewStaticSource(cfg.StaticWeights(), cfg.Signal.Static.SignalID, cfg.Signal.Static.Rationale), nil
	default:
		return nil, fmt.Errorf("unknown signal source %q", cfg.Signal.Source)
	}
}
