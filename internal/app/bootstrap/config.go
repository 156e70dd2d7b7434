// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dalemusser/collegesite/internal/app/system/limits"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for the college site.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: COLLEGESITE_MONGO_URI, COLLEGESITE_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "collegesite", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "jwt_secret", Default: devJWTSecret, Desc: "HS256 token signing secret (at least 32 characters in production)"},
	{Name: "jwt_expiry", Default: "168h", Desc: "Token lifetime (e.g., 24h, 168h)"},
	{Name: "cookie_name", Default: "token", Desc: "Auth cookie name"},
	{Name: "cookie_domain", Default: "", Desc: "Auth cookie domain (blank means current host)"},

	{Name: "site_url", Default: "http://localhost:3000", Desc: "Public site base URL used in the sitemap"},
	{Name: "frontend_url", Default: "http://localhost:3000", Desc: "Allowed CORS origin"},

	// Asset storage
	{Name: "asset_backend", Default: "local", Desc: "Asset backend: 'local' or 's3'"},
	{Name: "asset_local_dir", Default: "./uploads", Desc: "Directory for locally stored uploads"},
	{Name: "asset_local_url", Default: "http://localhost:5000/uploads", Desc: "Public URL prefix for local uploads"},

	// S3-compatible storage
	{Name: "s3_endpoint", Default: "", Desc: "S3 endpoint host[:port], no scheme"},
	{Name: "s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "s3_access_key", Default: "", Desc: "S3 access key"},
	{Name: "s3_secret_key", Default: "", Desc: "S3 secret key"},
	{Name: "s3_use_ssl", Default: true, Desc: "Use TLS for the S3 endpoint"},
	{Name: "s3_prefix", Default: "collegesite", Desc: "S3 object key prefix"},
	{Name: "s3_public_url", Default: "", Desc: "Public/CDN base URL for stored objects"},

	// Uploads
	{Name: "upload_max_bytes", Default: limits.DefaultUploadBytes, Desc: "Maximum size of one uploaded file in bytes"},
	{Name: "image_max_width", Default: limits.DefaultImageWidth, Desc: "Images wider than this are scaled down"},
	{Name: "image_max_height", Default: limits.DefaultImageHeight, Desc: "Images taller than this are scaled down"},

	// Rate limits
	{Name: "login_rate_limit", Default: 10, Desc: "Login attempts allowed per client IP per window"},
	{Name: "login_rate_window", Default: "15m", Desc: "Login rate limit window"},
	{Name: "admission_rate_limit", Default: 20, Desc: "Admission submissions allowed per client IP per window"},
	{Name: "admission_rate_window", Default: "1h", Desc: "Admission rate limit window"},

	// Store call deadlines
	{Name: "timeout_ping", Default: "2s", Desc: "Deadline for database pings"},
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document store calls"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for listings and aggregations"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for requests that upload or delete assets"},

	{Name: "orphan_reap_interval", Default: "10m", Desc: "How often orphaned assets are retried"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, COLLEGESITE_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COLLEGESITE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:    appValues.String("jwt_secret"),
		JWTExpiry:    appValues.Duration("jwt_expiry", 168*time.Hour),
		CookieName:   appValues.String("cookie_name"),
		CookieDomain: appValues.String("cookie_domain"),

		SiteURL:     appValues.String("site_url"),
		FrontendURL: appValues.String("frontend_url"),

		AssetBackend:  strings.ToLower(appValues.String("asset_backend")),
		AssetLocalDir: appValues.String("asset_local_dir"),
		AssetLocalURL: appValues.String("asset_local_url"),

		S3Endpoint:  appValues.String("s3_endpoint"),
		S3Bucket:    appValues.String("s3_bucket"),
		S3AccessKey: appValues.String("s3_access_key"),
		S3SecretKey: appValues.String("s3_secret_key"),
		S3UseSSL:    appValues.Bool("s3_use_ssl"),
		S3Prefix:    appValues.String("s3_prefix"),
		S3PublicURL: appValues.String("s3_public_url"),

		UploadMaxBytes: int64(appValues.Int("upload_max_bytes")),
		ImageMaxWidth:  appValues.Int("image_max_width"),
		ImageMaxHeight: appValues.Int("image_max_height"),

		LoginRateLimit:      appValues.Int("login_rate_limit"),
		LoginRateWindow:     appValues.Duration("login_rate_window", 15*time.Minute),
		AdmissionRateLimit:  appValues.Int("admission_rate_limit"),
		AdmissionRateWindow: appValues.Duration("admission_rate_window", time.Hour),

		Timeouts: timeouts.Config{
			Ping:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
			Short:  appValues.Duration("timeout_short", timeouts.DefaultShort),
			Medium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
			Long:   appValues.Duration("timeout_long", timeouts.DefaultLong),
		},

		OrphanReapInterval: appValues.Duration("orphan_reap_interval", 10*time.Minute),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
	}
	if appCfg.CookieName == "" {
		appCfg.CookieName = "token"
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// It checks the MongoDB URI format before any connection attempt, the token
// secret, and the settings the chosen asset backend needs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database is required")
	}

	if appCfg.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if coreCfg.Env == "prod" && (appCfg.JWTSecret == devJWTSecret || len(appCfg.JWTSecret) < 32) {
		return errors.New("jwt_secret must be set to at least 32 characters in production")
	}
	if appCfg.JWTExpiry <= 0 {
		return errors.New("jwt_expiry must be positive")
	}

	switch appCfg.AssetBackend {
	case "local":
		if appCfg.AssetLocalDir == "" || appCfg.AssetLocalURL == "" {
			return errors.New("asset_backend=local requires asset_local_dir and asset_local_url")
		}
	case "s3":
		var missing []string
		for k, v := range map[string]string{
			"s3_endpoint":   appCfg.S3Endpoint,
			"s3_bucket":     appCfg.S3Bucket,
			"s3_access_key": appCfg.S3AccessKey,
			"s3_secret_key": appCfg.S3SecretKey,
		} {
			if v == "" {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			return fmt.Errorf("asset_backend=s3 requires %s", strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("asset_backend must be 'local' or 's3', got %q", appCfg.AssetBackend)
	}

	if appCfg.UploadMaxBytes <= 0 || appCfg.ImageMaxWidth <= 0 || appCfg.ImageMaxHeight <= 0 {
		return errors.New("upload_max_bytes, image_max_width and image_max_height must be positive")
	}
	if appCfg.LoginRateLimit <= 0 || appCfg.AdmissionRateLimit <= 0 {
		return errors.New("rate limits must be positive")
	}
	return nil
}
