package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/weaveai/weaveai-backend/api/responses"
	"github.com/weaveai/weaveai-backend/pkg/config"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/logger"
)

const envHeader = "X-WeaveAI-Env"

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": "Welcome to WeaveAI Backend! API is running."})
	}
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every optional dependency that was actually wired; the
// analytics components themselves are in-process and always ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, pingers map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		for name, pinger := range pingers {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				checks[name] = err.Error()
				continue
			}
			checks[name] = "ok"
		}

		for name, status := range checks {
			if status != "ok" {
				err := pkgerrors.New(pkgerrors.CodeDependency, name+" is unreachable").
					WithDetails(map[string]any{"checks": checks})
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
