// internal/requestinfo/middleware.go
//
// Enrich middleware: builds a RequestInfo for every request, stores it
// on the context, and emits one structured access-log line when the
// handler returns.  Runs early in the chain so every downstream log can
// correlate on the same fields.
package requestinfo

import (
	"context"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Enrich parses UA and geolocation once per request.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &RequestInfo{
			UA:        parseUA(r.UserAgent()),
			Geo:       lookupGeo(clientIP(r)),
			Host:      r.Host,
			Path:      r.URL.Path,
			Timestamp: time.Now(),
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, info)
		next.ServeHTTP(w, r.WithContext(ctx))

		zap.L().Debug("request",
			zap.String("host", info.Host),
			zap.String("method", r.Method),
			zap.String("path", info.Path),
			zap.String("browser", info.UA.Browser),
			zap.String("device", info.UA.Device),
			zap.Bool("bot", info.UA.IsBot),
			zap.String("country", info.Geo.CountryISO),
			zap.Duration("took", time.Since(info.Timestamp)))
	})
}

// clientIP grabs the remote address without port.
func clientIP(r *http.Request) net.IP {
	h, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		h = r.RemoteAddr
	}
	return net.ParseIP(h)
}
