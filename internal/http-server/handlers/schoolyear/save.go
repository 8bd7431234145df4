package schoolyear

import (
	"SchoolDesk/entity"
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
	"github.com/go-playground/validator/v10"
)

// Save creates a school year, or updates the one named by the {id} route
// parameter.
func Save(log *slog.Logger, handler Core) http.HandlerFunc {
	validate := validator.New()
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

		id := 0
		if param := chi.URLParam(r, "id"); param != "" {
			var err error
			if id, err = strconv.Atoi(param); err != nil || id <= 0 {
				errors.BadRequest(w, r, "Invalid school year id")
				return
			}
		}

		var input entity.SchoolYearInput
		if err := render.DecodeJSON(r.Body, &input); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			errors.BadRequest(w, r, "Invalid request body")
			return
		}
		if err := validate.Struct(input); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(err))
			return
		}

		var year *entity.SchoolYear
		var err error
		if id == 0 {
			year, err = handler.CreateSchoolYear(r.Context(), session, input)
		} else {
			year, err = handler.UpdateSchoolYear(r.Context(), session, id, input)
		}
		if err != nil {
			failure.Render(w, r, logger, err, "Failed to save school year")
			return
		}

		logger.Debug("school year saved", slog.Int("id", year.ID))
		if id == 0 {
			render.Status(r, http.StatusCreated)
		}
		render.JSON(w, r, response.Ok(year))
	}
}
