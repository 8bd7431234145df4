package api

import (
	"SchoolDesk/internal/config"
	"SchoolDesk/internal/http-server/handlers/activeyear"
	"SchoolDesk/internal/http-server/handlers/detail"
	"SchoolDesk/internal/http-server/handlers/directory"
	"SchoolDesk/internal/http-server/handlers/errors"
	"SchoolDesk/internal/http-server/handlers/schoolyear"
	"SchoolDesk/internal/http-server/handlers/screen"
	"SchoolDesk/internal/http-server/handlers/session"
	"SchoolDesk/internal/http-server/middleware/authenticate"
	"SchoolDesk/internal/http-server/middleware/timeout"
	"SchoolDesk/internal/lib/sl"
	"SchoolDesk/internal/ws"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net"
	"net/http"
	"time"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	ws.Authenticator
	session.Core
	session.Ticketer
	activeyear.Core
	schoolyear.Core
	screen.Core
	directory.Core
	detail.Core
}

// NewRouter builds the console API. hub may be nil, then /ws is not served.
func NewRouter(log *slog.Logger, handler Handler, hub *ws.Hub, limit time.Duration) http.Handler {
	router := chi.NewRouter()
	if limit > 0 {
		router.Use(timeout.Timeout(limit))
	}
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	if hub != nil {
		router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, handler, log, w, r)
		})
	}

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(render.SetContentType(render.ContentTypeJSON))

		v1.Post("/session/login", session.Login(log, handler))

		v1.Group(func(r chi.Router) {
			r.Use(authenticate.New(log, handler))

			r.Get("/session", session.Current(log, handler))
			r.Post("/session/logout", session.Logout(log, handler))
			r.Get("/session/ticket", session.Ticket(log, handler))
			r.Route("/active-year", func(r chi.Router) {
				r.Get("/", activeyear.Get(log, handler))
				r.Post("/refresh", activeyear.Refresh(log, handler))
			})
			r.Route("/school-years", func(r chi.Router) {
				r.Get("/", schoolyear.List(log, handler))
				r.Post("/", schoolyear.Save(log, handler))
				r.Put("/{id}", schoolyear.Save(log, handler))
				r.Delete("/{id}", schoolyear.Delete(log, handler))
				r.Post("/{id}/activate", schoolyear.Activate(log, handler))
			})
			r.Route("/screens/{resource}", func(r chi.Router) {
				r.Get("/", screen.Mount(log, handler))
				r.Post("/filter", screen.Filter(log, handler))
				r.Post("/page", screen.Page(log, handler))
				r.Post("/reload", screen.Reload(log, handler))
				r.Post("/items", screen.Create(log, handler))
				r.Put("/items/{id}", screen.Update(log, handler))
				r.Delete("/items/{id}", screen.Delete(log, handler))
			})
			r.Get("/teachers", directory.Teachers(log, handler))
			r.Get("/enrollments", directory.Enrollments(log, handler))
			r.Get("/report-cards", directory.ReportCards(log, handler))
			r.Get("/classrooms/{id}/ranking", detail.ClassroomRanking(log, handler))
			r.Get("/students/{id}/balance", detail.StudentBalance(log, handler))
		})
	})

	return router
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := NewRouter(log, handler, hub, conf.Listen.Timeout)

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
