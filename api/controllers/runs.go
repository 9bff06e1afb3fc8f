package controllers

import (
	"net/http"
	"strconv"

	"github.com/weaveai/weaveai-backend/api/responses"
	"github.com/weaveai/weaveai-backend/internal/runs"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/logger"
)

// RunHistory lists recent pipeline runs when the optional history store is
// configured.
func RunHistory(svc runs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "run history is not configured"))
			return
		}

		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 200 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be an integer between 1 and 200"))
				return
			}
			limit = parsed
		}

		rows, err := svc.Recent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"runs": rows})
	}
}
