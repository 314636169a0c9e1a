// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown tears down backend resources. Every write in the file store
// commits before its handler returns, so there is no connection or
// buffer to drain here.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("file store closed", zap.String("dir", appCfg.DataDir))
	return nil
}
