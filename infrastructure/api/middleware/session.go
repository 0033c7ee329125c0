package middleware

import (
	"log/slog"
	"net/http"

	"github.com/helixml/vectable/internal/database"
)

// Session returns a middleware that gives every request its own scoped
// database session, reachable through database.FromContext. The session is
// committed just before a status below 400 is written and rolled back
// otherwise. It is released on every path, including panics.
func Session(db database.Database, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := database.OpenSession(r.Context(), db)
			if err != nil {
				WriteError(w, r, err, logger)
				return
			}
			defer func() { _ = s.Close() }()

			sw := &sessionWriter{ResponseWriter: w, session: s, request: r, logger: logger}
			next.ServeHTTP(sw, r.WithContext(database.NewContext(r.Context(), s)))

			if !sw.wroteHeader {
				sw.WriteHeader(http.StatusOK)
			}
		})
	}
}

// sessionWriter ends the session when the response status is decided, so a
// failed commit can still be reported to the client.
type sessionWriter struct {
	http.ResponseWriter
	session     *database.Session
	request     *http.Request
	logger      *slog.Logger
	wroteHeader bool
	discard     bool
}

func (w *sessionWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	if status >= http.StatusBadRequest {
		_ = w.session.Rollback()
		w.ResponseWriter.WriteHeader(status)
		return
	}
	if err := w.session.Commit(); err != nil {
		w.logger.ErrorContext(w.request.Context(), "commit failed", "error", err)
		w.ResponseWriter.Header().Del("Content-Length")
		w.discard = true
		WriteError(w.ResponseWriter, w.request, err, w.logger)
		return
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.discard {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
