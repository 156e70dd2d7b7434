// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"sync"

	"github.com/dalemusser/collegesite/internal/app/store/audit"
	orphanstore "github.com/dalemusser/collegesite/internal/app/store/orphans"
	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/auditlog"
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/limits"
	"github.com/dalemusser/collegesite/internal/app/system/ratelimit"
	"github.com/dalemusser/collegesite/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// services are the long-lived collaborators built once in Startup and shared
// by BuildHandler and Shutdown.
type services struct {
	Delegate         assets.Delegate
	Orphans          *orphanstore.Store
	Audit            *auditlog.Logger
	Tokens           *auth.Tokens
	Uploads          limits.Uploads
	LoginLimiter     *ratelimit.Limiter
	AdmissionLimiter *ratelimit.Limiter
	Reaper           *workers.AssetReaper
}

var (
	svcMu sync.Mutex
	svc   *services
)

func current() *services {
	svcMu.Lock()
	defer svcMu.Unlock()
	return svc
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It builds
// the asset delegate, the audit logger, the rate limiters and the orphaned
// asset reaper. The reaper is started by OnReady.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	delegate, err := newDelegate(ctx, appCfg, logger)
	if err != nil {
		return err
	}

	s := &services{
		Delegate: delegate,
		Orphans:  orphanstore.New(deps.MongoDatabase),
		Audit: auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
			Auth:  appCfg.AuditLogAuth,
			Admin: appCfg.AuditLogAdmin,
		}),
		Tokens: auth.NewTokens(appCfg.JWTSecret, appCfg.JWTExpiry),
		Uploads: limits.Uploads{
			MaxBytes:  appCfg.UploadMaxBytes,
			MaxWidth:  appCfg.ImageMaxWidth,
			MaxHeight: appCfg.ImageMaxHeight,
		},
		LoginLimiter:     ratelimit.New(appCfg.LoginRateLimit, appCfg.LoginRateWindow),
		AdmissionLimiter: ratelimit.New(appCfg.AdmissionRateLimit, appCfg.AdmissionRateWindow),
	}
	s.Reaper = workers.NewAssetReaper(s.Orphans, s.Delegate, logger, appCfg.OrphanReapInterval)

	svcMu.Lock()
	svc = s
	svcMu.Unlock()

	logger.Info("startup complete",
		zap.String("asset_backend", appCfg.AssetBackend),
		zap.Duration("orphan_reap_interval", appCfg.OrphanReapInterval))
	return nil
}

// newDelegate builds the configured asset backend. The S3 bucket is created
// if it does not exist yet.
func newDelegate(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (assets.Delegate, error) {
	switch appCfg.AssetBackend {
	case "s3":
		s3, err := assets.NewS3(assets.S3Config{
			Endpoint:  appCfg.S3Endpoint,
			Bucket:    appCfg.S3Bucket,
			AccessKey: appCfg.S3AccessKey,
			SecretKey: appCfg.S3SecretKey,
			UseSSL:    appCfg.S3UseSSL,
			Prefix:    appCfg.S3Prefix,
			PublicURL: appCfg.S3PublicURL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("s3 asset backend: %w", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("s3 asset backend: %w", err)
		}
		return s3, nil
	default:
		local, err := assets.NewLocal(appCfg.AssetLocalDir, appCfg.AssetLocalURL)
		if err != nil {
			return nil, fmt.Errorf("local asset backend: %w", err)
		}
		return local, nil
	}
}
