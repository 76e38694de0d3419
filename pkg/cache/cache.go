package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cineshelf/cineshelf/pkg/logger"
)

// Config holds response cache configuration.
type Config struct {
	TTL time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{TTL: 5 * time.Minute}
}

// captureWriter buffers the response body so successful responses can be
// stored after the handler runs.
type captureWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.statusCode = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(p []byte) (int, error) {
	cw.body.Write(p)
	return cw.ResponseWriter.Write(p)
}

// Middleware caches GET responses in Redis. When the client is nil the
// middleware is a pass-through, so the service runs without Redis.
func Middleware(client *redis.Client, cfg Config, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := cacheKey(r)
		ctx := r.Context()

		cached, err := client.Get(ctx, key).Bytes()
		if err == nil && len(cached) > 0 {
			logger.Logger.Debug().Str("path", r.URL.Path).Msg("cache hit")
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(cached)
			return
		}

		cw := &captureWriter{ResponseWriter: w, statusCode: http.StatusOK}
		cw.Header().Set("X-Cache", "MISS")
		next.ServeHTTP(cw, r)

		if cw.statusCode == http.StatusOK {
			if err := client.Set(ctx, key, cw.body.Bytes(), cfg.TTL).Err(); err != nil {
				logger.Logger.Warn().Err(err).Str("path", r.URL.Path).Msg("failed to cache response")
			}
		}
	}
}

func cacheKey(r *http.Request) string {
	sum := sha256.Sum256([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return "cache:" + hex.EncodeToString(sum[:])
}
