package main // Entry point package

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "os/signal"
    "syscall"
    "time"

    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/redis/go-redis/v9"
    "github.com/rs/zerolog"

    "github.com/iliyamo/easy-search/internal/config"
    "github.com/iliyamo/easy-search/internal/database"
    "github.com/iliyamo/easy-search/internal/handler"
    "github.com/iliyamo/easy-search/internal/log"
    "github.com/iliyamo/easy-search/internal/middleware"
    "github.com/iliyamo/easy-search/internal/queue"
    "github.com/iliyamo/easy-search/internal/repository"
    "github.com/iliyamo/easy-search/internal/router"
    "github.com/iliyamo/easy-search/internal/service"
    "github.com/iliyamo/easy-search/internal/utils"
)

// stores bundles the credential store implementation picked by STORE_DRIVER.
type stores struct {
    users  service.UserDirectory
    tokens service.TokenStore
    db     *sql.DB
}

func main() {
    cfg, err := config.Load()
    if err != nil {
        bootLogger := log.New("dev")
        bootLogger.Fatal().Err(err).Msg("invalid configuration")
    }
    logger := log.New(cfg.Env)

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    st, err := openStores(ctx, cfg, logger)
    if err != nil {
        logger.Fatal().Err(err).Msg("failed to open credential store")
    }

    access, err := utils.NewTokenSigner(cfg.AccessSecret, cfg.AccessTTL)
    if err != nil {
        logger.Fatal().Err(err).Msg("access token signer")
    }
    refresh, err := utils.NewTokenSigner(cfg.RefreshSecret, cfg.RefreshTTL)
    if err != nil {
        logger.Fatal().Err(err).Msg("refresh token signer")
    }
    if refresh.TTL() != service.RefreshSessionTTL {
        logger.Warn().Dur("refresh_ttl", refresh.TTL()).Dur("session_ttl", service.RefreshSessionTTL).
            Msg("refresh token lifetime differs from stored session lifetime")
    }
    hasher := utils.NewPasswordHasher(cfg.BcryptCost)

    var events service.EventPublisher = queue.NopPublisher{}
    if cfg.Queue.Enabled {
        events = queue.NewPublisher(cfg.Queue.URL, logger)
    }
    if cfg.Queue.ConsumerActive {
        consumer := queue.NewConsumer(cfg.Queue.URL, cfg.Queue.LogDir, logger)
        go func() {
            if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
                logger.Error().Err(err).Msg("auth event consumer stopped")
            }
        }()
    }

    authSvc := service.NewAuthService(st.users, st.tokens, access, refresh, hasher, logger, service.WithEvents(events))
    guard := service.NewGuard(access, st.users, logger)
    userSvc := service.NewUserService(st.users, hasher)

    rdb := config.NewRedisClient(ctx, cfg.Redis)
    if rdb == nil && cfg.RateLimit.Enabled {
        logger.Warn().Str("addr", cfg.Redis.Address()).Msg("redis unavailable, rate limiting disabled")
    }

    e := echo.New()
    e.HideBanner = true
    e.HTTPErrorHandler = handler.ErrorHandler(cfg.IsProduction(), logger)
    e.Use(middleware.RequestID())
    e.Use(middleware.Logger(logger))
    e.Use(echomw.Recover())
    e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
        AllowOrigins:     cfg.CORSOrigins,
        AllowCredentials: true,
    }))

    router.RegisterRoutes(e)
    router.RegisterAPI(e, router.Deps{
        Auth:      handler.NewAuthHandler(authSvc),
        Users:     handler.NewUserHandler(userSvc),
        Guard:     guard,
        RateLimit: middleware.RateLimit(cfg.RateLimit, rdb, logger),
    })

    go func() {
        addr := ":" + cfg.Port
        logger.Info().Str("addr", addr).Str("store", cfg.StoreDriver).Msg("listening")
        if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Fatal().Err(err).Msg("http server failed")
        }
    }()

    <-ctx.Done()
    logger.Info().Msg("shutdown signal received")
    shutdown(logger, e, st.db, rdb)
}

func openStores(ctx context.Context, cfg config.Config, logger zerolog.Logger) (stores, error) {
    if cfg.StoreDriver == config.StoreMemory {
        logger.Warn().Msg("using in-memory credential store; data is lost on restart")
        mem := repository.NewMemoryStore()
        return stores{users: mem, tokens: mem}, nil
    }
    db, err := database.Open(ctx, cfg.DB)
    if err != nil {
        return stores{}, err
    }
    if err := database.Migrate(ctx, db); err != nil {
        _ = db.Close()
        return stores{}, err
    }
    return stores{users: repository.NewUserRepo(db), tokens: repository.NewTokenRepo(db), db: db}, nil
}

func shutdown(logger zerolog.Logger, e *echo.Echo, db *sql.DB, rdb *redis.Client) {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := e.Shutdown(ctx); err != nil {
        logger.Error().Err(err).Msg("graceful shutdown failed")
    }
    if db != nil {
        if err := db.Close(); err != nil {
            logger.Error().Err(err).Msg("db close error")
        }
    }
    if rdb != nil {
        if err := rdb.Close(); err != nil {
            logger.Error().Err(err).Msg("redis close error")
        }
    }
    logger.Info().Msg("server exited cleanly")
}
