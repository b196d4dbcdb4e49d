package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"menuhub/internal/bootstrap/config"
	"menuhub/internal/bootstrap/database"
	"menuhub/internal/bootstrap/logging"
	"menuhub/internal/errs"
	cacheinfra "menuhub/internal/infrastructure/cache"
	sqlrepo "menuhub/internal/infrastructure/persistence/sqldb/repository"
	sqluow "menuhub/internal/infrastructure/persistence/sqldb/uow"
	"menuhub/internal/ports"
	"menuhub/internal/usecase/restaurantimport"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqlrepo.NewCatalogRepository,
			fx.As(new(ports.CatalogRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqlrepo.NewImportAuditLogRepository,
			fx.As(new(ports.ImportAuditLogRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqluow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(provideCache),
	fx.Provide(provideImportService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.Close(); err != nil {
				return errs.Wrap(err, "close sql db")
			}
			logging.Info(logCtx, "database connection closed")
			return nil
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

// provideCache selects the cache adapter from cache.driver.
func provideCache(lc fx.Lifecycle, ctx context.Context, cfg config.Config, db *gorm.DB) ports.Cache {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	switch strings.ToLower(cfg.Cache.Driver) {
	case "none":
		logging.Info(logCtx, "cache disabled")
		return cacheinfra.NoopCache{}
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return rdb.Close()
			},
		})
		logging.Info(logCtx, "using redis cache", slog.String("addr", cfg.Cache.Redis.Addr))
		return cacheinfra.NewRedisCache(rdb)
	default:
		return cacheinfra.NewDBCache(db)
	}
}

func provideImportService(
	cfg config.Config,
	catalog ports.CatalogRepository,
	audits ports.ImportAuditLogRepository,
	uow ports.UnitOfWork,
	cache ports.Cache,
) *restaurantimport.Service {
	return restaurantimport.NewService(catalog, audits, uow, cache, cfg.Import.RootDir, cfg.Cache.TTL)
}
