package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/casatienda/storefront-backend/api/responses"
	"github.com/casatienda/storefront-backend/pkg/config"
	"github.com/casatienda/storefront-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is implemented by the infrastructure clients readiness checks probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CasaTienda-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the database and Redis and reports per-dependency status.
func HealthReady(cfg *config.Config, logg *logger.Logger, database, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		for name, dep := range map[string]Pinger{"database": database, "redis": cache} {
			if dep == nil {
				checks[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "dependency", name), "readiness probe failed: "+err.Error())
				}
				continue
			}
			checks[name] = "ok"
		}

		w.Header().Set("X-CasaTienda-Env", cfg.App.Env)
		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": map[bool]string{true: "ready", false: "degraded"}[healthy],
			"checks": checks,
		})
	}
}
