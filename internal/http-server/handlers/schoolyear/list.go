package schoolyear

import (
	"SchoolDesk/internal/http-server/handlers/failure"
	"SchoolDesk/internal/lib/api/cont"
	"SchoolDesk/internal/lib/api/response"
	"SchoolDesk/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.schoolyear")

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

		years, err := handler.SchoolYears(r.Context(), session)
		if err != nil {
			failure.Render(w, r, logger, err, "Failed to load school years")
			return
		}

		logger.Debug("school years listed", slog.Int("count", len(years)))
		render.JSON(w, r, response.Ok(years))
	}
}
