package screen

import (
	"SchoolDesk/internal/http-server/handlers/errors"
	"SchoolDesk/internal/service/listing"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// FilterRequest changes the year and/or the search term. A zero year means
// all years, on screens that allow it.
type FilterRequest struct {
	SchoolYearID *int    `json:"school_year_id"`
	Search       *string `json:"search"`
}

type PageRequest struct {
	Page int `json:"page"`
}

func Filter(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := open(w, r, log, handler)
		if !ok {
			return
		}

		var body FilterRequest
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			errors.BadRequest(w, r, "Invalid request body")
			return
		}
		if body.SchoolYearID == nil && body.Search == nil {
			errors.BadRequest(w, r, "Nothing to filter")
			return
		}

		var v listing.View
		var err error
		if body.SchoolYearID != nil {
			v, err = req.controller.SelectYear(r.Context(), *body.SchoolYearID)
		}
		if err == nil && body.Search != nil {
			v, err = req.controller.SetSearch(r.Context(), *body.Search)
		}
		req.answer(w, r, v, err, "Failed to load list")
	}
}

func Page(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := open(w, r, log, handler)
		if !ok {
			return
		}

		var body PageRequest
		if err := render.DecodeJSON(r.Body, &body); err != nil || body.Page < 1 {
			errors.BadRequest(w, r, "Invalid page")
			return
		}

		v, err := req.controller.GoToPage(r.Context(), body.Page)
		req.answer(w, r, v, err, "Failed to load list")
	}
}
