// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"
	"strings"

	accountfeature "github.com/dalemusser/collegesite/internal/app/features/account"
	admissionsfeature "github.com/dalemusser/collegesite/internal/app/features/admissions"
	auditlogfeature "github.com/dalemusser/collegesite/internal/app/features/auditlog"
	blogsfeature "github.com/dalemusser/collegesite/internal/app/features/blogs"
	dashboardfeature "github.com/dalemusser/collegesite/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/collegesite/internal/app/features/errors"
	healthfeature "github.com/dalemusser/collegesite/internal/app/features/health"
	mediafeature "github.com/dalemusser/collegesite/internal/app/features/media"
	noticesfeature "github.com/dalemusser/collegesite/internal/app/features/notices"
	pagesfeature "github.com/dalemusser/collegesite/internal/app/features/pages"
	sitemapfeature "github.com/dalemusser/collegesite/internal/app/features/sitemap"
	admissionstore "github.com/dalemusser/collegesite/internal/app/store/admissions"
	"github.com/dalemusser/collegesite/internal/app/store/audit"
	blogstore "github.com/dalemusser/collegesite/internal/app/store/blogs"
	mediastore "github.com/dalemusser/collegesite/internal/app/store/media"
	noticestore "github.com/dalemusser/collegesite/internal/app/store/notices"
	pagestore "github.com/dalemusser/collegesite/internal/app/store/pages"
	userstore "github.com/dalemusser/collegesite/internal/app/store/users"
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. Every JSON endpoint lives under /api;
// locally stored assets are served from /uploads.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	s := current()
	if s == nil {
		return nil, errors.New("bootstrap: BuildHandler called before Startup")
	}
	db := deps.MongoDatabase
	users := userstore.New(db)

	gate := auth.NewGate(s.Tokens, users, auth.CookieConfig{
		Name:   appCfg.CookieName,
		Domain: appCfg.CookieDomain,
		Secure: coreCfg.Env == "prod",
	}, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{strings.TrimRight(appCfg.FrontendURL, "/")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	errorsHandler := errorsfeature.NewHandler(logger)
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	blogs := blogstore.New(db)
	pages := pagestore.New(db)

	r.Route("/api", func(api chi.Router) {
		api.NotFound(errorsHandler.NotFound)
		api.MethodNotAllowed(errorsHandler.MethodNotAllowed)

		healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
		api.Mount("/health", healthfeature.Routes(healthHandler))

		accountHandler := accountfeature.NewHandler(users, gate, s.Audit, logger)
		api.Mount("/auth", accountfeature.Routes(accountHandler, s.LoginLimiter))

		blogsHandler := blogsfeature.NewHandler(blogs, users, s.Delegate, s.Orphans, s.Audit, s.Uploads, logger)
		api.Mount("/blogs", blogsfeature.Routes(blogsHandler, gate))

		noticesHandler := noticesfeature.NewHandler(noticestore.New(db), users, s.Delegate, s.Orphans, s.Audit, s.Uploads, logger)
		api.Mount("/notices", noticesfeature.Routes(noticesHandler, gate))

		pagesHandler := pagesfeature.NewHandler(pages, users, s.Delegate, s.Orphans, s.Audit, s.Uploads, logger)
		api.Mount("/pages", pagesfeature.Routes(pagesHandler, gate))

		mediaHandler := mediafeature.NewHandler(mediastore.New(db), users, s.Delegate, s.Orphans, s.Audit, s.Uploads, logger)
		api.Mount("/media", mediafeature.Routes(mediaHandler, gate))

		admissionsHandler := admissionsfeature.NewHandler(admissionstore.New(db), users, s.Delegate, s.Orphans, s.Audit, s.Uploads, logger)
		api.Mount("/admissions", admissionsfeature.Routes(admissionsHandler, gate, s.AdmissionLimiter))

		auditHandler := auditlogfeature.NewHandler(audit.New(db), s.Orphans, logger)
		api.Mount("/audit", auditlogfeature.Routes(auditHandler, gate))

		dashboardHandler := dashboardfeature.NewHandler(db, logger)
		api.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, gate))

		sitemapHandler := sitemapfeature.NewHandler(pages, blogs, appCfg.SiteURL, logger)
		api.Get("/sitemap.xml", sitemapHandler.Serve)
	})

	if appCfg.AssetBackend != "s3" {
		r.Handle("/uploads/*", fileserver.Handler("/uploads", appCfg.AssetLocalDir))
	}

	return r, nil
}
