package activeyear

import (
	"SchoolDesk/internal/lib/api/cont"
	"SchoolDesk/internal/lib/api/response"
	"SchoolDesk/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func Refresh(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.activeyear")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		session := cont.GetSession(r.Context())
		if handler == nil || session == nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Session not available"))
			return
		}

		state := handler.RefreshActiveYear(r.Context(), session)
		logger.Debug("active year refreshed",
			slog.String("status", string(state.Status)),
		)

		render.JSON(w, r, response.Ok(state))
	}
}
