package controllers

import (
	"net/http"

	"github.com/weaveai/weaveai-backend/api/responses"
	"github.com/weaveai/weaveai-backend/api/validators"
	"github.com/weaveai/weaveai-backend/internal/narrative"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/logger"
)

// countingWriter tracks whether any report bytes already hit the wire, which
// decides whether a stream failure can still become a proper error response.
type countingWriter struct {
	http.ResponseWriter
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.ResponseWriter.Write(p)
	c.n += n
	return n, err
}

func (c *countingWriter) Flush() {
	if flusher, ok := c.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func streamReport(w http.ResponseWriter, r *http.Request, logg *logger.Logger, run func(out *countingWriter) error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	out := &countingWriter{ResponseWriter: w}
	if err := run(out); err != nil {
		if out.n == 0 {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		// Headers are gone; the best we can do is log and cut the stream.
		if logg != nil {
			logg.Error(r.Context(), "report stream aborted mid-flight", err)
		}
	}
}

func MarketInsight(svc narrative.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "report generation is not configured"))
			return
		}
		var profile narrative.MarketProfile
		if err := validators.DecodeJSONBody(r, &profile); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		streamReport(w, r, logg, func(out *countingWriter) error {
			return svc.MarketInsight(r.Context(), profile, out)
		})
	}
}

func ActionPlan(svc narrative.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "report generation is not configured"))
			return
		}
		var input narrative.ActionPlanInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		streamReport(w, r, logg, func(out *countingWriter) error {
			return svc.ActionPlan(r.Context(), input, out)
		})
	}
}

func ReviewSummary(svc narrative.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "report generation is not configured"))
			return
		}
		var input narrative.ReviewSummaryInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		streamReport(w, r, logg, func(out *countingWriter) error {
			return svc.ReviewSummary(r.Context(), input, out)
		})
	}
}
