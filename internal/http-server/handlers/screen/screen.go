package screen

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/http-server/handlers/failure"
	"SchoolDesk/internal/lib/access"
	"SchoolDesk/internal/lib/api/cont"
	"SchoolDesk/internal/lib/api/response"
	"SchoolDesk/internal/lib/sl"
	"SchoolDesk/internal/service/listing"
	"SchoolDesk/internal/service/school"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// View is a screen state plus what the caller's role may do on it.
type View struct {
	listing.View
	Can map[access.Action]bool `json:"can"`
}

func newView(v listing.View, role string) View {
	can := access.Capabilities(role)
	for _, verb := range []access.Action{access.Create, access.Update, access.Delete} {
		can[verb] = access.Can(access.WriteAction(v.Resource, verb), role)
	}
	return View{View: v, Can: can}
}

// request is the common prologue of every screen handler.
type request struct {
	logger     *slog.Logger
	session    *entity.Session
	controller listing.Controller
}

func open(w http.ResponseWriter, r *http.Request, log *slog.Logger, handler Core) (*request, bool) {
	resource := chi.URLParam(r, "resource")
	logger := log.With(
		sl.Module("http.handlers.screen"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("resource", resource),
	)

	session := cont.GetSession(r.Context())
	if handler == nil || session == nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Session not available"))
		return nil, false
	}

	controller, err := handler.Screen(r.Context(), session, resource)
	if err != nil {
		failure.Render(w, r, logger, err, "Unknown screen")
		return nil, false
	}
	return &request{logger: logger, session: session, controller: controller}, true
}

// answer renders the view even when err is set, so the console can show the
// emptied list next to the message.
func (req *request) answer(w http.ResponseWriter, r *http.Request, v listing.View, err error, fallback string) {
	if err != nil {
		status := failure.Status(err)
		if status == http.StatusUnauthorized || status == http.StatusNotFound || status == http.StatusBadRequest {
			failure.Render(w, r, req.logger, err, fallback)
			return
		}
		req.logger.Warn(fallback, sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Response{
			Success: false,
			Data:    newView(v, req.session.User.Role),
			Message: school.Message(err, fallback),
		})
		return
	}
	render.JSON(w, r, response.Ok(newView(v, req.session.User.Role)))
}
