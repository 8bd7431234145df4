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

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
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

		if err = handler.DeleteSchoolYear(r.Context(), session, id); err != nil {
			failure.Render(w, r, logger, err, "Failed to delete school year")
			return
		}

		render.JSON(w, r, response.OkMessage(nil, "School year deleted"))
	}
}
