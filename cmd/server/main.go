package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	cfgpkg "github.com/0xPexy/privatepay-backend/internal/config"
	"github.com/0xPexy/privatepay-backend/internal/logging"
	"github.com/0xPexy/privatepay-backend/internal/server"
	"github.com/0xPexy/privatepay-backend/internal/store"
	"github.com/0xPexy/privatepay-backend/internal/sweep"
	"github.com/0xPexy/privatepay-backend/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := cfgpkg.Load()
	logger := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Service: cfg.Server.ServiceName,
		Version: cfg.Server.Version,
	}, os.Stdout)
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg cfgpkg.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !common.IsHexAddress(cfg.Chain.DeployerAddress) {
		return errors.New("DEPLOYER_ADDRESS is not a valid address")
	}
	factory := common.HexToAddress(cfg.Chain.DeployerAddress)

	db, err := store.Open(cfg.Database, logging.Component(logger, "store"))
	if err != nil {
		return err
	}
	defer db.Close()
	if err := store.AutoMigrate(db); err != nil {
		return err
	}
	repo := store.NewRepository(db, store.WithTimeout(cfg.Database.Timeout))

	ethClient, err := ethclient.DialContext(ctx, cfg.Chain.RPCURL)
	if err != nil {
		return err
	}
	defer ethClient.Close()
	if cfg.Chain.ChainID == 0 {
		idCtx, cancel := context.WithTimeout(ctx, cfg.Chain.RPCTimeout)
		chainID, err := ethClient.ChainID(idCtx)
		cancel()
		if err != nil {
			return err
		}
		cfg.Chain.ChainID = chainID.Uint64()
	}
	logger.Info().
		Str("rpc", cfg.Chain.RPCURL).
		Uint64("chain_id", cfg.Chain.ChainID).
		Str("factory", factory.Hex()).
		Msg("chain configured")

	var resolver wallet.AddressComputer = wallet.NewResolver(ethClient, wallet.ResolverConfig{
		Factory:     factory,
		Timeout:     cfg.Chain.RPCTimeout,
		MaxAttempts: cfg.Chain.RPCMaxAttempts,
		RetryDelay:  cfg.Chain.RPCRetryDelay,
	}, logging.Component(logger, "resolver"))
	if rdb := openRedis(ctx, cfg.Cache, logger); rdb != nil {
		defer rdb.Close()
		resolver = wallet.NewCachedResolver(resolver, rdb, cfg.Cache.AddressCacheTTL, logging.Component(logger, "address-cache"))
	}
	balances := wallet.NewBalanceReader(ethClient, cfg.Chain.RPCTimeout)

	hub := server.NewEventHub(logging.Component(logger, "events"))
	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(server.Deps{
		Config:   cfg,
		Logger:   logging.Component(logger, "http"),
		Resolver: resolver,
		Balances: balances,
		Repo:     repo,
		Hub:      hub,
	})
	srv := server.NewHTTP(cfg.Server.HTTPAddr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http server listening")
		return srv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdown)
	})
	g.Go(func() error { return hub.Run(gctx) })
	if cfg.Sweep.MonitorEnabled {
		monitor := sweep.NewMonitor(sweep.Config{
			PollInterval:    cfg.Sweep.PollInterval,
			BatchSize:       cfg.Sweep.BatchSize,
			ChecksPerSecond: cfg.Sweep.ChecksPerSecond,
			Workers:         cfg.Sweep.Workers,
			MinBalance:      cfg.Sweep.MinBalanceWei,
		}, repo, balances, hub, logging.Component(logger, "monitor"))
		g.Go(func() error { return monitor.Run(gctx) })
	}

	err = g.Wait()
	logger.Info().Msg("shutdown complete")
	return err
}

// openRedis returns nil when the cache is not configured or unreachable.
func openRedis(ctx context.Context, cfg cfgpkg.CacheConfig, logger zerolog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid REDIS_URL, address cache disabled")
		return nil
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, address cache disabled")
		_ = rdb.Close()
		return nil
	}
	logger.Info().Msg("address cache enabled")
	return rdb
}
