package svc

import (
	"context"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"stockdash/internal/application/port"
	"stockdash/internal/application/service"
	"stockdash/internal/infrastructure/config"
	"stockdash/internal/infrastructure/provider/yahoo"
	"stockdash/internal/infrastructure/storage/postgres"
	rediscache "stockdash/internal/infrastructure/storage/redis"
	"stockdash/internal/infrastructure/storage/sqlite"
)

// ServiceContext owns every external client and wires the application
// services. It is the single entry point for startup; resources are
// released in reverse order on Close.
type ServiceContext struct {
	Ctx    context.Context
	Config *config.Config

	repo        port.BarRepository
	cache       port.SeriesCache
	provider    port.MarketProvider
	redisClient *redisclient.Client

	Stocks    *service.StockService
	Companies *service.CompanyService

	closerChain []func() error
}

func New(ctx context.Context, cfg *config.Config) (*ServiceContext, error) {
	sc := &ServiceContext{
		Ctx:         ctx,
		Config:      cfg,
		closerChain: make([]func() error, 0),
	}

	if err := sc.initializeComponents(); err != nil {
		_ = sc.Close()
		return nil, err
	}
	return sc, nil
}

func (sc *ServiceContext) initializeComponents() error {
	if err := sc.initStore(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInitFailed, err)
	}
	if err := sc.initCache(); err != nil {
		return fmt.Errorf("redis initialization failed: %w", err)
	}
	sc.initProvider()

	sc.Stocks = service.NewStockService(sc.repo, sc.cache, sc.provider)
	sc.Companies = service.NewCompanyService(sc.repo, sc.provider, sc.Config.Seed.Symbols)

	log.Info().Msg("✓ All components initialized")
	return nil
}

func (sc *ServiceContext) initStore() error {
	switch sc.Config.Store.Driver {
	case "postgres":
		repo, err := postgres.New(sc.Config.Store.DSN)
		if err != nil {
			return err
		}
		sc.repo = repo
		log.Info().Msg("✓ Postgres store initialized")
	case "sqlite":
		repo, err := sqlite.New(sc.Config.Store.Path)
		if err != nil {
			return err
		}
		sc.repo = repo
		log.Info().Str("path", sc.Config.Store.Path).Msg("✓ SQLite store initialized")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, sc.Config.Store.Driver)
	}

	repo := sc.repo
	sc.closerChain = append(sc.closerChain, func() error {
		log.Info().Msg("closing store connection")
		return repo.Close()
	})
	return nil
}

func (sc *ServiceContext) initCache() error {
	if !sc.Config.Redis.Enabled {
		// Without redis the middle tier is a permanent miss; reads go
		// store -> provider.
		sc.cache = noopCache{}
		log.Warn().Msg("redis disabled by config, series cache is a no-op")
		return nil
	}

	rdb := redisclient.NewClient(&redisclient.Options{
		Addr:     sc.Config.Redis.Addr,
		Password: sc.Config.Redis.Password,
		DB:       sc.Config.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(sc.Ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	sc.redisClient = rdb
	ttl := time.Duration(sc.Config.Redis.TTLSeconds) * time.Second
	sc.cache = rediscache.New(rdb, sc.Config.Redis.Prefix, ttl)

	sc.closerChain = append(sc.closerChain, func() error {
		log.Info().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Info().
		Str("addr", sc.Config.Redis.Addr).
		Int("db", sc.Config.Redis.DB).
		Dur("ttl", ttl).
		Msg("✓ Redis cache initialized")
	return nil
}

func (sc *ServiceContext) initProvider() {
	sc.provider = yahoo.New(
		sc.Config.Provider.BaseURL,
		sc.Config.Provider.Range,
		time.Duration(sc.Config.Provider.TimeoutSec)*time.Second,
	)
	log.Info().Str("range", sc.Config.Provider.Range).Msg("✓ Yahoo provider initialized")
}

// Close releases all resources in reverse initialization order.
func (sc *ServiceContext) Close() error {
	for i := len(sc.closerChain) - 1; i >= 0; i-- {
		if err := sc.closerChain[i](); err != nil {
			log.Error().Err(err).Msg("error closing resource")
		}
	}
	return nil
}
