package controllers

import (
	"net/http"

	"github.com/weaveai/weaveai-backend/api/responses"
	"github.com/weaveai/weaveai-backend/api/validators"
	"github.com/weaveai/weaveai-backend/internal/basket"
	"github.com/weaveai/weaveai-backend/internal/clustering"
	"github.com/weaveai/weaveai-backend/internal/forecast"
	"github.com/weaveai/weaveai-backend/internal/normalizer"
	"github.com/weaveai/weaveai-backend/internal/pipeline"
	"github.com/weaveai/weaveai-backend/internal/reviews"
	"github.com/weaveai/weaveai-backend/pkg/config"
	"github.com/weaveai/weaveai-backend/pkg/logger"
	"github.com/weaveai/weaveai-backend/pkg/types"
)

// decodeRecords caps the body, reads the multipart upload and normalizes it
// into canonical records. Shared by the sales-table /api/v1/data handlers.
func decodeRecords(w http.ResponseWriter, r *http.Request, upload config.UploadConfig, logg *logger.Logger) ([]types.SaleRecord, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxUploadBytes())
	table, err := validators.DecodeUpload(r, upload)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	records, err := normalizer.Normalize(table)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	return records, true
}

func ForecastSales(svc forecast.Service, upload config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, ok := decodeRecords(w, r, upload, logg)
		if !ok {
			return
		}
		out, err := svc.Forecast(r.Context(), records)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

func ProductClustering(svc clustering.Service, upload config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, ok := decodeRecords(w, r, upload, logg)
		if !ok {
			return
		}
		out, err := svc.Cluster(r.Context(), records)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

func BasketAnalysis(svc basket.Service, upload config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, ok := decodeRecords(w, r, upload, logg)
		if !ok {
			return
		}
		out, err := svc.Mine(r.Context(), records)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// SentimentAnalysis takes an arbitrary review export, not a sales table, so
// the upload skips sales normalization entirely.
func SentimentAnalysis(svc reviews.Service, upload config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, upload.MaxUploadBytes())
		table, err := validators.DecodeUpload(r, upload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := svc.Analyze(r.Context(), table)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

func FullReport(svc pipeline.Service, upload config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, upload.MaxUploadBytes())
		table, err := validators.DecodeUpload(r, upload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := svc.Run(r.Context(), table)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
