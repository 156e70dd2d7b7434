// internal/app/bootstrap/ready.go
package bootstrap

import (
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// OnReady starts the orphaned asset reaper once the server is accepting
// requests.
func OnReady(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	s := current()
	if s == nil {
		logger.Warn("ready called before startup; asset reaper not started")
		return
	}
	if s.Reaper != nil {
		s.Reaper.Start()
	}
	logger.Info("collegesite ready",
		zap.String("env", coreCfg.Env),
		zap.String("site_url", appCfg.SiteURL),
		zap.String("frontend_url", appCfg.FrontendURL),
		zap.String("asset_backend", appCfg.AssetBackend))
}
