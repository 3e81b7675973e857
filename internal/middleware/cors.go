package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// WrapCORS 在 gin 引擎外层处理跨域。origins 为空时原样返回 handler。
func WrapCORS(handler http.Handler, origins []string) http.Handler {
	cleaned := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) == 0 {
		return handler
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   cleaned,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	})(handler)
}
