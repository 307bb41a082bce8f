package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// contentSecurityPolicy allows the page's inline styles and its same-origin
// chart images; the scatter explorer is inline SVG and needs nothing more.
const contentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"

// SecurityHeaders sets the browser hardening headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		if r.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// CORSConfig lists the origins allowed to call the JSON API from a browser.
// An empty AllowedOrigins allows every origin.
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
	Logger         *slog.Logger
}

var (
	corsMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")
	corsHeaders = strings.Join([]string{"Accept", "Content-Type", RequestIDHeader}, ", ")
)

// CORS echoes allowed origins and answers preflight requests.
func CORS(cfg CORSConfig) func(next http.Handler) http.Handler {
	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = 300
	}
	allowAll := len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := allowAll || slices.ContainsFunc(cfg.AllowedOrigins, func(o string) bool {
				return strings.EqualFold(o, origin)
			})

			h := w.Header()
			if allowed && origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", corsMethods)
			h.Set("Access-Control-Allow-Headers", corsHeaders)
			h.Set("Access-Control-Expose-Headers", RequestIDHeader)
			h.Set("Access-Control-Max-Age", strconv.Itoa(maxAge))

			if r.Method == http.MethodOptions {
				if cfg.Logger != nil {
					cfg.Logger.DebugContext(r.Context(), "CORS preflight",
						slog.String("origin", origin),
						slog.Bool("allowed", allowed))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// compressibleTypes are the dashboard responses worth gzipping. PNG charts
// are already compressed.
var compressibleTypes = []string{"text/html", "application/json", "application/problem+json", "image/svg+xml", "text/csv"}

// Compress gzips HTML, JSON, SVG and CSV responses.
func Compress(level int) func(next http.Handler) http.Handler {
	return middleware.Compress(level, compressibleTypes...)
}
