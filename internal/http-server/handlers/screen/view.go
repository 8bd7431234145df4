package screen

import (
	"log/slog"
	"net/http"
)

// Mount loads the screen: year list, default year and first page.
func Mount(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := open(w, r, log, handler)
		if !ok {
			return
		}
		v, err := req.controller.Mount(r.Context())
		req.answer(w, r, v, err, "Failed to load list")
	}
}

func Reload(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := open(w, r, log, handler)
		if !ok {
			return
		}
		v, err := req.controller.Reload(r.Context())
		req.answer(w, r, v, err, "Failed to load list")
	}
}
