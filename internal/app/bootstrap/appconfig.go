// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (COLLEGESITE_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers the framework-level settings: ports, TLS, log level and timeouts.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer tokens and the auth cookie
	JWTSecret    string
	JWTExpiry    time.Duration
	CookieName   string
	CookieDomain string

	SiteURL     string // public site, used for sitemap locations
	FrontendURL string // CORS origin for the dashboard and site

	// Asset storage: "local" or "s3"
	AssetBackend  string
	AssetLocalDir string
	AssetLocalURL string

	// S3-compatible storage (only used if AssetBackend is "s3")
	S3Endpoint  string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
	S3Prefix    string
	S3PublicURL string

	// Upload limits and image fitting
	UploadMaxBytes int64
	ImageMaxWidth  int
	ImageMaxHeight int

	// Per-IP rate limits
	LoginRateLimit      int
	LoginRateWindow     time.Duration
	AdmissionRateLimit  int
	AdmissionRateWindow time.Duration

	// Store call deadlines
	Timeouts timeouts.Config

	// Orphaned asset reconciliation
	OrphanReapInterval time.Duration

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string
}
