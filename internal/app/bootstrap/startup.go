// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	credentialstore "github.com/sranand/allochub/internal/app/store/credentials"
	formcontentstore "github.com/sranand/allochub/internal/app/store/formcontent"
	settingsstore "github.com/sranand/allochub/internal/app/store/settings"
	submissionstore "github.com/sranand/allochub/internal/app/store/submissions"
	"github.com/sranand/allochub/internal/app/system/timeouts"
	"github.com/sranand/allochub/internal/domain/models"
)

// Startup runs one-time application initialization after the store is
// open, but before the HTTP handler is built. It tunes operation
// timeouts and seeds the collections an empty data directory needs:
// runtime config, form content, file submission rules, and the admin
// account. Seeding never overwrites collections that already exist.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.ReadTimeout,
		Medium: appCfg.SaveTimeout,
		Batch:  appCfg.BatchTimeout,
	})

	settings := settingsstore.New(deps.Store)
	if err := settings.EnsureDefaults(ctx); err != nil {
		return err
	}
	if err := formcontentstore.New(deps.Store).EnsureDefaults(ctx); err != nil {
		return err
	}
	if err := submissionstore.New(deps.Store).EnsureDefaults(ctx); err != nil {
		return err
	}
	if err := credentialstore.New(deps.Store).EnsureDefaults(ctx, appCfg.AdminUsername, appCfg.AdminPassword); err != nil {
		return err
	}

	// The configured base URL wins over whatever the collection holds,
	// so a redeploy under a new domain fixes short links without a
	// manual config edit.
	if appCfg.BaseURL != "" {
		if _, err := settings.Update(ctx, func(cfg *models.Config) error {
			cfg.BaseURL = appCfg.BaseURL
			return nil
		}); err != nil {
			return err
		}
	}

	logger.Info("startup complete", zap.String("data_dir", appCfg.DataDir))
	return nil
}
