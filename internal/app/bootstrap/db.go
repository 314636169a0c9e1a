// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
)

// ConnectDB opens the flat-file store. It creates the data directory
// (and its archive subdirectory) if they do not exist yet.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	store, err := jsonstore.New(appCfg.DataDir, logger)
	if err != nil {
		return DBDeps{}, fmt.Errorf("open data directory %s: %w", appCfg.DataDir, err)
	}
	logger.Info("file store opened", zap.String("dir", appCfg.DataDir))
	return DBDeps{Store: store}, nil
}

// EnsureSchema verifies the store is reachable before the app starts
// serving. Collections are created lazily on first write, so there is
// no schema to migrate.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := deps.Store.Ping(); err != nil {
		return fmt.Errorf("data directory check failed: %w", err)
	}
	return nil
}
