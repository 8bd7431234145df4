package session

import (
	"SchoolDesk/internal/lib/api/cont"
	"SchoolDesk/internal/lib/api/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// Ticket answers a short-lived ticket for the websocket upgrade, so the
// session token never appears in a URL.
func Ticket(_ *slog.Logger, handler Ticketer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := cont.GetSession(r.Context())
		if handler == nil || session == nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Session not available"))
			return
		}
		render.JSON(w, r, response.Ok(map[string]string{"ticket": handler.Ticket(session)}))
	}
}
