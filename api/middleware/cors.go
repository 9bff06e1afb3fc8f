package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/weaveai/weaveai-backend/pkg/config"
)

// CORS applies the configured allowed-origin policy. The analytics frontend
// is a browser SPA, so uploads and report streams both cross origins in dev.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
