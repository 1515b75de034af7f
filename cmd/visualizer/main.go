package main

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"StockVisualizer/internal/cache"
	"StockVisualizer/internal/collector"
	"StockVisualizer/internal/config"
	"StockVisualizer/internal/model"
	"StockVisualizer/internal/orchestrator"
	"StockVisualizer/internal/presenter"
	"StockVisualizer/internal/scheduler"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic("load config: " + err.Error())
	}

	logger, err := config.NewLogger(cfg.Log.Level)
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("config validation", zap.Error(err))
	}
	logger.Info("StockVisualizer starting", zap.String("cache", cfg.Cache.Backend), zap.Int("ttl_seconds", cfg.Cache.TTLSeconds))

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("open cache", zap.Error(err))
	}
	defer store.Close()

	var client collector.DataClient
	if cfg.DataSource.Mock {
		client = &collector.MockClient{}
	} else {
		client = collector.NewAlphaVantageClient(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.Timeout(), logger)
	}
	logger.Info("data source ready", zap.String("source", client.Name()))

	orch := orchestrator.New(store, client, orchestrator.Options{
		Symbols:       cfg.SymbolSet(),
		DefaultSymbol: cfg.Symbols.Default,
		TTL:           cfg.TTL(),
		Logger:        logger,
	})
	console := presenter.NewConsole(os.Stdout)
	orch.OnChange(console.Render)
	if cfg.Chart.OutputDir != "" {
		orch.OnChange(presenter.NewChartWriter(cfg.Chart.OutputDir, logger).Render)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, orch, logger)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		logger.Fatal("register refresh task", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	if err := orch.Start(ctx); err != nil {
		logger.Fatal("start", zap.Error(err))
	}

	go readSelections(ctx, cancel, orch, console, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		logger.Info("shutdown signal received, stopping...")
	case <-ctx.Done():
	}
	cancel()
	orch.Close()
	logger.Info("StockVisualizer stopped")
}

func openStore(cfg *config.Config, logger *zap.Logger) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			rdb.Close()
			return nil, err
		}
		return cache.NewRedisStore(rdb), nil
	case config.BackendMemory:
		return cache.NewMemoryStore(), nil
	default:
		return cache.NewSQLiteStore(cfg.Cache.SQLitePath, logger)
	}
}

// readSelections turns stdin lines into symbol selections until EOF or "quit".
// On EOF the last cycle is allowed to finish before shutdown.
func readSelections(ctx context.Context, stop context.CancelFunc, orch *orchestrator.Orchestrator, console *presenter.Console, logger *zap.Logger) {
	defer stop()
	scanner := bufio.NewScanner(os.Stdin)
	console.Prompt(orch.Symbols())
	for scanner.Scan() {
		line := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		switch line {
		case "":
		case "QUIT", "EXIT":
			return
		case "REFRESH":
			if err := orch.Refresh(ctx); err != nil {
				logger.Warn("refresh", zap.Error(err))
			}
		default:
			if err := orch.Select(ctx, line); err != nil {
				if errors.Is(err, model.ErrUnknownSymbol) {
					logger.Warn("ignoring selection", zap.Error(err))
				} else {
					logger.Error("select", zap.Error(err))
				}
			}
		}
		console.Prompt(orch.Symbols())
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("read stdin", zap.Error(err))
	}
	orch.Wait()
}
