package rest

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"
)

// responseWriter - records the status code and body size for the request log.
type responseWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (that *responseWriter) WriteHeader(status int) {
	if that.wroteHeader {
		return
	}

	that.status = status
	that.wroteHeader = true
	that.ResponseWriter.WriteHeader(status)
}

func (that *responseWriter) Write(b []byte) (int, error) {
	that.wroteHeader = true

	n, err := that.ResponseWriter.Write(b)
	that.size += n

	return n, err
}

func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.status),
				slog.Int("size", wrapped.size),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recovery - turns a panic in a handler into a 500 JSON error.
// A response that has already started is left as is.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped, ok := w.(*responseWriter)
			if !ok {
				wrapped = &responseWriter{ResponseWriter: w, status: http.StatusOK}
			}

			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)

					if !wrapped.wroteHeader {
						writeError(wrapped, http.StatusInternalServerError, errInternal)
					}
				}
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}
