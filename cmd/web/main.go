// cmd/web/main.go
//
// Loom – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Load config (conf/global.yaml + LOOM_ env overlays).
//
//  3. Start daily rotating logger (tees to console when running in a TTY).
//
//  4. Open control-plane DB and log active-tenant count.
//
//  5. Build the host resolver and its verified cache.
//
//  6. Construct components and mount them: public ones at /<name>,
//     protected ones under /admin/api/<name> behind the access guard
//     and the scope middleware.
//
//  7. Per-request flow:
//
//     • security headers + request enrichment  – middleware
//     • access guard                           – session check, PROTECTED paths only
//     • admin paths                            – scope construction, then handlers
//     • everything else                        – host resolution → public content
//
//  8. Wrap with ForceHTTPS when configured, then serve with hardened
//     timeouts and graceful shutdown on SIGINT/SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loomsites/loom/internal/component"
	"github.com/loomsites/loom/internal/config"
	"github.com/loomsites/loom/internal/database"
	"github.com/loomsites/loom/internal/guard"
	"github.com/loomsites/loom/internal/logger"
	"github.com/loomsites/loom/internal/middleware"
	"github.com/loomsites/loom/internal/requestinfo"
	"github.com/loomsites/loom/internal/resolver"
	"github.com/loomsites/loom/internal/scope"
	"github.com/loomsites/loom/internal/server"
	"github.com/loomsites/loom/internal/tenant"

	authcomp "github.com/loomsites/loom/components/auth"
	"github.com/loomsites/loom/components/content"
	"github.com/loomsites/loom/components/debug"
	"github.com/loomsites/loom/components/pages"
	"github.com/loomsites/loom/components/resolve"
	"github.com/loomsites/loom/components/websites"
)

const serverEnvPath = "/usr/local/etc/loom/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Control-plane DB connect ────────────────────────────────────
	//
	logOut.Infow("connecting to control-plane DB")
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		logOut.Fatalf("connect control-plane DB: %v", err)
	}
	defer db.Close()
	logOut.Infow("control-plane DB online")

	// Log active-tenant count as an early sanity check.
	if rows, err := tenant.AllActive(db); err != nil {
		logOut.Warnw("active-tenant check failed", "err", err)
	} else {
		logOut.Infof("%d active tenant(s) found", len(rows))
	}

	//
	// ── 2.  Host resolver + verified cache ──────────────────────────────
	//
	res := resolver.New(db, cfg.Resolver.BaseDomain)
	cache := resolver.NewCache(res,
		cfg.Resolver.CacheIdleTTL,
		cfg.Resolver.CacheVerifyTTL,
		cfg.Resolver.CacheMaxEntries)
	defer cache.Close()

	//
	// ── 3.  Optional geolocation for the access log ─────────────────────
	//
	if p := cfg.Telemetry.GeoDBPath; p != "" {
		if err := requestinfo.InitGeo(p); err != nil {
			logOut.Warnw("geolocation disabled", "path", p, "err", err)
		}
	}

	//
	// ── 4.  Components ──────────────────────────────────────────────────
	//
	secret := []byte(cfg.Session.JWTSecret)

	pagesComp, err := pages.New(db)
	if err != nil {
		logOut.Fatalf("pages component: %v", err)
	}
	component.Register(resolve.New(cache))
	component.Register(authcomp.New(db, secret))
	component.Register(websites.New(db, cache))
	component.Register(pagesComp)
	component.Register(debug.New(db))

	//
	// ── 5.  Router ──────────────────────────────────────────────────────
	//
	g := guard.New(secret)

	r := chi.NewRouter()
	r.Use(middleware.Security)
	r.Use(requestinfo.Enrich)
	r.Use(g.Enforce)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(scope.Middleware(db))
		admin.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/admin/api/websites", http.StatusSeeOther)
		})
		admin.Route("/api", func(api chi.Router) {
			for _, c := range component.All() {
				if c.Protected() {
					api.Mount("/"+c.Name(), c.Routes())
				}
			}
		})
	})

	for _, c := range component.All() {
		if !c.Protected() {
			r.Mount("/"+c.Name(), c.Routes())
		}
	}

	// Fallback: host-resolved public content.
	r.NotFound(content.Handler(cache, db))

	var handler http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(cache, handler)
	}

	//
	// ── 6.  Serve with graceful shutdown ────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, handler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logOut.Infof("listening on %s", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logOut.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logOut.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logOut.Errorw("shutdown", "err", err)
	}
}
