package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/resale-inventory-bot/config"
	"github.com/yourusername/resale-inventory-bot/internal/delivery/telegram"
	"github.com/yourusername/resale-inventory-bot/internal/domain/repository"
	"github.com/yourusername/resale-inventory-bot/internal/infrastructure/gemini"
	"github.com/yourusername/resale-inventory-bot/internal/infrastructure/parser"
	"github.com/yourusername/resale-inventory-bot/internal/infrastructure/sheets"
	"github.com/yourusername/resale-inventory-bot/internal/infrastructure/storage"
	"github.com/yourusername/resale-inventory-bot/internal/scheduler"
	"github.com/yourusername/resale-inventory-bot/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("bot exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	hour, minute, err := cfg.AlertClock()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	journal, closeJournal, err := openJournal(cfg.JournalDBPath, logger)
	if err != nil {
		return err
	}
	defer closeJournal()

	cache, closeCache := openCache(ctx, cfg, logger)
	defer closeCache()

	sheetClient, err := sheets.NewClient(ctx, cfg.SheetsID, cfg.SheetName, cache, logger, sheets.CredentialOptions(cfg.CredentialsJSON)...)
	if err != nil {
		return err
	}

	ai, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		return err
	}
	defer ai.Close()

	inventory := usecase.NewInventoryUseCase(sheetClient, journal, usecase.InventoryOptions{
		ReturnWindowDays: cfg.ReturnWindowDays,
		Location:         loc,
	}, logger)
	assistant := usecase.NewAssistantUseCase(ai, inventory, logger)
	reports := usecase.NewReportUseCase(inventory, parser.NewWorkbookCodec(logger), journal)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Info("telegram connected", slog.String("bot", bot.Self.UserName))

	handler := telegram.NewBotHandler(bot, inventory, assistant, reports, telegram.Options{
		OwnerID:   cfg.OwnerID,
		AlertDays: cfg.AlertDays,
		AlertTime: cfg.AlertTime,
		Logger:    logger,
	})

	alerts, err := scheduler.NewAlertScheduler(handler, hour, minute, loc, logger)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(wrapWithRecover(logger, func() error { return handler.Start(ctx) }))
	g.Go(wrapWithRecover(logger, func() error { return alerts.Run(ctx) }))

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		logger.Info("shutdown complete")
		return nil
	}
	return err
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.DateTime,
	}))
}

// openJournal SQLite journal at path, or an in-memory one when path is empty
func openJournal(path string, logger *slog.Logger) (repository.JournalRepository, func(), error) {
	if path == "" {
		logger.Info("using in-memory journal")
		return storage.NewMemoryJournal(storage.DefaultJournalSize), func() {}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}
	journal, err := storage.NewSQLiteJournal(path, storage.DefaultJournalSize)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("journal opened", slog.String("path", path))
	return journal, func() {
		if err := journal.Close(); err != nil {
			logger.Warn("failed to close journal", slog.Any("error", err))
		}
	}, nil
}

// openCache Redis snapshot cache when REDIS_ADDR answers, otherwise in-process
func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (sheets.SnapshotCache, func()) {
	if cfg.RedisAddr == "" {
		return sheets.NewMemoryCache(cfg.CacheTTL), func() {}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-process cache", slog.String("addr", cfg.RedisAddr), slog.Any("error", err))
		_ = rdb.Close()
		return sheets.NewMemoryCache(cfg.CacheTTL), func() {}
	}

	logger.Info("redis snapshot cache enabled", slog.String("addr", cfg.RedisAddr))
	return sheets.NewRedisCache(rdb, cfg.SheetsID, cfg.CacheTTL), func() { _ = rdb.Close() }
}

// wrapWithRecover turns a panic in f into an error
func wrapWithRecover(logger *slog.Logger, f func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return f()
	}
}
