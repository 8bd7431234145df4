// Package failure turns core and remote API errors into HTTP answers.
package failure

import (
	"SchoolDesk/impl/core"
	"SchoolDesk/internal/lib/api/response"
	"SchoolDesk/internal/lib/sl"
	"SchoolDesk/internal/service/listing"
	"SchoolDesk/internal/service/school"
	"errors"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

const SignInAgain = "Session expired, please sign in again"

// Status picks the HTTP status for err. A rejected token on the remote API
// is a 401 here too, so the console sends the user back to the login page.
func Status(err error) int {
	var se *school.StatusError
	var ee *school.EnvelopeError
	switch {
	case school.IsUnauthorized(err),
		errors.Is(err, core.ErrSessionNotFound),
		errors.Is(err, core.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrUnknownScreen):
		return http.StatusNotFound
	case errors.Is(err, listing.ErrUnknownYear), errors.Is(err, listing.ErrYearRequired):
		return http.StatusBadRequest
	case errors.As(err, &ee):
		return http.StatusUnprocessableEntity
	case errors.As(err, &se):
		if se.Code >= 400 && se.Code < 500 {
			return se.Code
		}
		return http.StatusBadGateway
	}
	return http.StatusBadGateway
}

// Render logs err and answers with the server message, or fallback when the
// error carries none.
func Render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	status := Status(err)
	message := school.Message(err, fallback)
	switch {
	case status == http.StatusUnauthorized:
		message = SignInAgain
		logger.Debug("unauthorized", sl.Err(err))
	case status >= 500:
		logger.Error(fallback, sl.Err(err))
	default:
		logger.Warn(fallback, sl.Err(err))
	}
	if errors.Is(err, listing.ErrUnknownYear) || errors.Is(err, listing.ErrYearRequired) || errors.Is(err, core.ErrUnknownScreen) {
		message = err.Error()
	}

	render.Status(r, status)
	render.JSON(w, r, response.Error(message))
}
