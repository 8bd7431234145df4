package directory

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/http-server/handlers/failure"
	"SchoolDesk/internal/lib/api/cont"
	"SchoolDesk/internal/lib/api/response"
	"SchoolDesk/internal/lib/sl"
	"SchoolDesk/internal/service/school"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type lister func(ctx context.Context, session *entity.Session, q school.ListQuery) (*entity.List, error)

// reserved query keys; any other key is passed on as a filter.
var reserved = map[string]bool{"page": true, "per_page": true, "search": true, "school_year_id": true}

// ParseQuery reads page, per_page, search, school_year_id and extra filters.
func ParseQuery(values url.Values) school.ListQuery {
	atoi := func(key string) int {
		n, _ := strconv.Atoi(values.Get(key))
		return max(n, 0)
	}
	q := school.ListQuery{
		SchoolYearID: atoi("school_year_id"),
		Page:         atoi("page"),
		PerPage:      atoi("per_page"),
		Search:       strings.TrimSpace(values.Get("search")),
	}
	for key := range values {
		if reserved[key] {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string]string)
		}
		q.Filters[key] = values.Get(key)
	}
	return q
}

func list(log *slog.Logger, name string, handler Core, pick func(Core) lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.directory")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("list", name),
		)

		session := cont.GetSession(r.Context())
		if handler == nil || session == nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Session not available"))
			return
		}

		res, err := pick(handler)(r.Context(), session, ParseQuery(r.URL.Query()))
		if err != nil {
			failure.Render(w, r, logger, err, "Failed to load "+name)
			return
		}

		render.JSON(w, r, response.Ok(res))
	}
}

func Teachers(log *slog.Logger, handler Core) http.HandlerFunc {
	return list(log, "teachers", handler, func(c Core) lister { return c.Teachers })
}

func Enrollments(log *slog.Logger, handler Core) http.HandlerFunc {
	return list(log, "enrollments", handler, func(c Core) lister { return c.Enrollments })
}

func ReportCards(log *slog.Logger, handler Core) http.HandlerFunc {
	return list(log, "report cards", handler, func(c Core) lister { return c.ReportCards })
}
