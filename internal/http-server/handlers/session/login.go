package session

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/http-server/handlers/failure"
	"SchoolDesk/internal/lib/api/response"
	"SchoolDesk/internal/lib/sl"
	"SchoolDesk/internal/service/school"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

func Login(log *slog.Logger, handler Core) http.HandlerFunc {
	validate := validator.New()
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.session")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("session service not available")
			render.JSON(w, r, response.Error("Session service not available"))
			return
		}

		var req entity.LoginRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		logger = logger.With(slog.String("email", req.Email))

		if err := validate.Struct(req); err != nil {
			logger.Debug("invalid login request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(err))
			return
		}

		res, err := handler.Login(r.Context(), req)
		if err != nil {
			// here a 401 means wrong credentials, not an expired session
			if school.IsUnauthorized(err) {
				logger.Debug("login rejected", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(school.Message(err, "Invalid credentials")))
				return
			}
			failure.Render(w, r, logger, err, "Login failed")
			return
		}
		logger.Debug("user logged in", slog.String("role", res.Session.User.Role))

		render.JSON(w, r, response.Ok(res))
	}
}
