package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-core/pkg/config"
	"github.com/angelmondragon/storefront-core/pkg/db"
	"github.com/angelmondragon/storefront-core/pkg/logger"
)

// MaybeRun applies migrations at startup when the sql backend is selected and
// the auto-migrate flag is enabled.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "db_driver": client.Driver()})
	logg.Info(ctx, "running goose migrations")

	if err := Up(ctx, sqlDB, client.Driver()); err != nil {
		return err
	}

	version, err := Version(ctx, sqlDB, client.Driver())
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "schema_version", version), "goose migrations completed")
	return nil
}
