package activeyear

import (
	"SchoolDesk/internal/lib/api/cont"
	"SchoolDesk/internal/lib/api/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// Get answers the current state without calling the school API. The state
// carries its own advisory error, so this never fails.
func Get(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := cont.GetSession(r.Context())
		if handler == nil || session == nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Session not available"))
			return
		}
		render.JSON(w, r, response.Ok(handler.ActiveYear(r.Context(), session)))
	}
}
