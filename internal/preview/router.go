// Package preview serves a built site locally and pushes change events to
// open browsers.
package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// reloadScript reloads the page whenever the server reports a settled change.
// Include it with <script src="/_preview/reload.js"></script>.
const reloadScript = `(function () {
  var es = new EventSource("/_preview/events");
  es.addEventListener("site.reload", function () { window.location.reload(); });
})();
`

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

// NewRouter serves root as static files, with health checks and, when
// events is non-nil, the SSE stream under /_preview.
func NewRouter(root string, events http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/_preview", func(r chi.Router) {
		r.Get("/reload.js", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			_, _ = w.Write([]byte(reloadScript))
		})
		if events != nil {
			r.Get("/events", events.ServeHTTP)
		}
	})

	fileServer := http.FileServer(http.Dir(root))
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fileServer.ServeHTTP(w, req)
	})

	return r
}
