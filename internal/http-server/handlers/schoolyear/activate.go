package schoolyear

import (
	"SchoolDesk/internal/http-server/handlers/errors"
	"SchoolDesk/internal/http-server/handlers/failure"
	"SchoolDesk/internal/lib/access"
	"SchoolDesk/internal/lib/api/cont"
	"SchoolDesk/internal/lib/api/response"
	"SchoolDesk/internal/lib/sl"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func Activate(log *slog.Logger, handler Core) http.HandlerFunc {
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
		if !access.Can(access.ManageSchoolYears, session.User.Role) {
			errors.Forbidden(w, r)
			return
		}

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil || id <= 0 {
			errors.BadRequest(w, r, "Invalid school year id")
			return
		}

		year, err := handler.ActivateSchoolYear(r.Context(), session, id)
		if err != nil {
			failure.Render(w, r, logger, err, "Failed to activate school year")
			return
		}

		logger.Info("school year activated", slog.Int("id", id))
		render.JSON(w, r, response.OkMessage(year, "School year activated"))
	}
}
