package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"menuhub/internal/bootstrap/config"
	"menuhub/internal/bootstrap/logging"
	"menuhub/internal/errs"
	"menuhub/internal/infrastructure/persistence/sqldb/model"
)

type App struct {
	Config config.Config
	DB     *gorm.DB
}

// InitSchema creates the catalog, audit and cache tables along with the
// case-insensitive name indexes.
func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "start schema migration")

	if err := model.Migrate(ctx, a.DB); err != nil {
		return errs.Wrap(err, "migrate schema")
	}

	logging.Info(logCtx, "schema migration completed")
	return nil
}
