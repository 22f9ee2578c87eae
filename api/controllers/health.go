package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/wickhaven/storefront-backend/api/responses"
	"github.com/wickhaven/storefront-backend/pkg/config"
	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
	"github.com/wickhaven/storefront-backend/pkg/logger"
)

const envHeader = "X-WickHaven-Env"

// Pinger is anything readiness can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the catalog database and the session store. Nil pingers
// are skipped so optional backends do not fail readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true

		probe := func(name string, p Pinger) {
			if p == nil {
				checks[name] = "skipped"
				return
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "down"
				ready = false
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "dependency", name), "readiness probe failed")
				}
				return
			}
			checks[name] = "up"
		}

		probe("catalog_db", db)
		probe("session_store", store)

		if !ready {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
