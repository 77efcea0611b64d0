package jitsubuilder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/cardjitsu"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/challenge"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/config"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/duel"
	"github.com/park285/CardJitsu-KakaoTalk-bot/internal/results"
)

type Deps struct {
	Service  *duel.Service
	Registry *cardjitsu.Registry
	Inbox    *challenge.Inbox
	Redis    *redis.Client
	Repo     results.Repository

	closers []func() error
}

// Close releases Redis and the results database.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	deps := &Deps{}
	fail := func(err error) (*Deps, error) {
		_ = deps.Close()
		return nil, err
	}

	// Redis (required for challenges)
	rdb, err := NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return fail(err)
	}
	deps.Redis = rdb
	deps.closers = append(deps.closers, rdb.Close)

	// Results: Postgres when configured, otherwise in-process
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		repo, err := results.NewPostgresRepository(cfg.DatabaseURL)
		if err != nil {
			return fail(fmt.Errorf("init results repository: %w", err))
		}
		deps.closers = append(deps.closers, repo.Close)
		sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = repo.EnsureSchema(sctx)
		cancel()
		if err != nil {
			return fail(fmt.Errorf("ensure results schema: %w", err))
		}
		deps.Repo = repo
	} else {
		logger.Warn("results_memory_repository", zap.String("reason", "DATABASE_URL is empty"))
		deps.Repo = results.NewMemoryRepository()
	}

	starter, err := loadStarter(cfg.StarterDeckFile)
	if err != nil {
		return fail(err)
	}
	reg, err := cardjitsu.NewRegistry(starter)
	if err != nil {
		return fail(fmt.Errorf("init registry: %w", err))
	}
	deps.Registry = reg
	deps.Inbox = challenge.NewInbox(rdb, cfg.ChallengeTTL)

	svc, err := duel.NewService(reg, deps.Inbox, deps.Repo, duel.Config{
		TurnTimeout:   cfg.TurnTimeout,
		SweepInterval: cfg.SweepInterval,
		HistoryLimit:  cfg.HistoryLimit,
	}, logger)
	if err != nil {
		return fail(err)
	}
	deps.Service = svc

	logger.Info("jitsu_deps_ready",
		zap.Int("starter_cards", len(starter)),
		zap.Bool("postgres", strings.TrimSpace(cfg.DatabaseURL) != ""),
		zap.Duration("challenge_ttl", cfg.ChallengeTTL),
	)
	return deps, nil
}

// NewRedis parses a redis:// or rediss:// URL and pings the server.
func NewRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("REDIS_URL is required for challenges")
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = 16
	opts.MinIdleConns = 2
	rdb := redis.NewClient(opts)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func loadStarter(path string) ([]cardjitsu.Card, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return cardjitsu.DefaultStarter(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open starter deck: %w", err)
	}
	defer f.Close()
	cards, err := cardjitsu.LoadStarter(f)
	if err != nil {
		return nil, fmt.Errorf("load starter deck %s: %w", path, err)
	}
	return cards, nil
}
