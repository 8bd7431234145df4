package detail

import (
	"SchoolDesk/internal/http-server/handlers/errors"
	"SchoolDesk/internal/http-server/handlers/failure"
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

// yearParam is the optional school_year_id query value; 0 means the active
// year.
func yearParam(r *http.Request) int {
	id, _ := strconv.Atoi(r.URL.Query().Get("school_year_id"))
	return max(id, 0)
}

func ClassroomRanking(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.detail")

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

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil || id <= 0 {
			errors.BadRequest(w, r, "Invalid classroom id")
			return
		}

		ranked, err := handler.ClassroomRanking(r.Context(), session, id, yearParam(r))
		if err != nil {
			failure.Render(w, r, logger, err, "Failed to compute ranking")
			return
		}

		logger.Debug("classroom ranking", slog.Int("classroom_id", id), slog.Int("students", len(ranked)))
		render.JSON(w, r, response.Ok(ranked))
	}
}

func StudentBalance(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.detail")

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

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil || id <= 0 {
			errors.BadRequest(w, r, "Invalid student id")
			return
		}

		balance, err := handler.StudentBalance(r.Context(), session, id, yearParam(r))
		if err != nil {
			failure.Render(w, r, logger, err, "Failed to load balance")
			return
		}

		render.JSON(w, r, response.Ok(balance))
	}
}
