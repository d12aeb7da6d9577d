package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/solehaus/wholesale-backend/api/responses"
	"github.com/solehaus/wholesale-backend/pkg/config"
	"github.com/solehaus/wholesale-backend/pkg/db"
	pkgerrors "github.com/solehaus/wholesale-backend/pkg/errors"
	"github.com/solehaus/wholesale-backend/pkg/logger"
)

const (
	envHeader        = "X-Solehaus-Env"
	readinessTimeout = 2 * time.Second
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and reports each one. A nil pinger is
// reported as disabled and does not fail readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dependencies map[string]db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var errs error
		status := make(map[string]string, len(dependencies))
		for name, pinger := range dependencies {
			if pinger == nil {
				status[name] = "disabled"
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				status[name] = "unavailable"
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
				continue
			}
			status[name] = "ok"
		}

		if errs != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "dependencies unavailable").WithDetails(status))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "dependencies": status})
	}
}
