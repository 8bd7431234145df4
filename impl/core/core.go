package core

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/config"
	"SchoolDesk/internal/lib/sl"
	"SchoolDesk/internal/lib/ticket"
	"SchoolDesk/internal/service/activeyear"
	"SchoolDesk/internal/service/listing"
	"SchoolDesk/internal/service/school"
	"SchoolDesk/internal/service/yearcache"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrUnknownScreen   = errors.New("unknown screen")
	ErrInvalidTicket   = errors.New("invalid or expired ticket")
)

const (
	EventActiveYear    = "active_year"
	EventSessionClosed = "session_closed"
)

type Repository interface {
	SaveSession(ctx context.Context, session *entity.Session) error
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	TouchSession(ctx context.Context, id string, at time.Time) error
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsBefore(ctx context.Context, before time.Time) (int64, error)
}

// Notifier pushes events to the live connections of a session.
type Notifier interface {
	Publish(sessionID, eventType string, data interface{})
}

// workspace is everything one signed-in console needs: its own API client,
// year list, active-year resolver and list screens.
type workspace struct {
	session *entity.Session
	client  *school.Service
	years   *yearcache.Cache
	active  *activeyear.Service
	screens map[string]listing.Controller

	ready    sync.Once
	lastUsed atomic.Int64
}

type Core struct {
	repo      Repository
	notifier  Notifier
	baseURL   string
	timeout   time.Duration
	perPage   int
	ttl       time.Duration
	secret    string
	ticketTTL time.Duration

	mu         sync.Mutex
	workspaces map[string]*workspace

	log *slog.Logger
}

func New(conf *config.Config, log *slog.Logger) *Core {
	c := &Core{
		baseURL:    conf.SchoolApi.BaseURL,
		timeout:    conf.SchoolApi.Timeout,
		perPage:    conf.SchoolApi.PerPage,
		ttl:        conf.Session.TTL,
		secret:     conf.Session.Secret,
		ticketTTL:  conf.Session.TicketTTL,
		workspaces: make(map[string]*workspace),
		log:        log.With(sl.Module("core")),
	}
	if c.secret == "" {
		// tickets do not survive a restart then
		c.secret = uuid.NewString()
		c.log.Warn("session secret not set, using a random one")
	}
	if c.ticketTTL <= 0 {
		c.ticketTTL = time.Minute
	}
	return c
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetNotifier(notifier Notifier) {
	c.notifier = notifier
}

func (c *Core) publish(sessionID, eventType string, data interface{}) {
	if c.notifier == nil {
		return
	}
	c.notifier.Publish(sessionID, eventType, data)
}

// workspace returns the session's workspace, building it on first use.
// Callers arriving while the first resolution runs wait for it.
func (c *Core) workspace(ctx context.Context, session *entity.Session) *workspace {
	c.mu.Lock()
	w, ok := c.workspaces[session.ID]
	if !ok {
		w = c.newWorkspace(session)
		c.workspaces[session.ID] = w
	}
	w.lastUsed.Store(time.Now().UnixNano())
	c.mu.Unlock()

	w.ready.Do(func() {
		w.active.Init(ctx)
	})
	return w
}

func (c *Core) newWorkspace(session *entity.Session) *workspace {
	log := c.log.With(slog.String("session", session.ID))
	client := school.NewService(c.baseURL, session.Token, c.timeout, log)
	w := &workspace{
		session: session,
		client:  client,
		years:   yearcache.New(client, log),
		active:  activeyear.New(client, session, log),
	}
	w.screens = c.newScreens(w, log)

	w.active.Subscribe(func(st activeyear.State) {
		c.publish(session.ID, EventActiveYear, st)
		if st.Loading || st.ActiveSchoolYear == nil {
			return
		}
		go c.seedScreens(w, st.ActiveSchoolYear)
	})
	return w
}

func (c *Core) seedScreens(w *workspace, year *entity.SchoolYear) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	for name, screen := range w.screens {
		if _, err := screen.SeedYear(ctx, year); err != nil {
			c.log.With(
				slog.String("session", w.session.ID),
				slog.String("screen", name),
				sl.Err(err),
			).Warn("seed screen")
		}
	}
}

func (c *Core) dropWorkspace(sessionID string) {
	c.mu.Lock()
	w, ok := c.workspaces[sessionID]
	delete(c.workspaces, sessionID)
	c.mu.Unlock()
	if ok {
		w.active.Clear()
	}
}

// AuthenticateByToken resolves a console session id into its session.
func (c *Core) AuthenticateByToken(token string) (*entity.Session, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("session storage not available")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := c.repo.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	now := time.Now()
	if c.ttl > 0 && now.Sub(session.LastSeen) > c.ttl {
		c.dropWorkspace(session.ID)
		_ = c.repo.DeleteSession(ctx, session.ID)
		return nil, ErrSessionExpired
	}
	if err = c.repo.TouchSession(ctx, session.ID, now); err != nil {
		c.log.With(sl.Err(err)).Warn("touch session")
	}
	session.LastSeen = now
	return session, nil
}

// Ticket issues a short-lived websocket ticket for the session.
func (c *Core) Ticket(session *entity.Session) string {
	return ticket.Sign(session.ID, c.secret, c.ticketTTL)
}

// ValidateToken authenticates a websocket connection by its ticket.
func (c *Core) ValidateToken(token string) (string, error) {
	sessionID, ok := ticket.Verify(token, c.secret)
	if !ok {
		return "", ErrInvalidTicket
	}
	session, err := c.AuthenticateByToken(sessionID)
	if err != nil {
		return "", err
	}
	return session.ID, nil
}

// CleanupSessions removes sessions idle for longer than the TTL.
func (c *Core) CleanupSessions(ctx context.Context) (int64, error) {
	if c.repo == nil || c.ttl <= 0 {
		return 0, nil
	}
	before := time.Now().Add(-c.ttl)
	n, err := c.repo.DeleteSessionsBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	c.mu.Lock()
	var stale []string
	for id, w := range c.workspaces {
		if time.Unix(0, w.lastUsed.Load()).Before(before) {
			stale = append(stale, id)
		}
	}
	c.mu.Unlock()
	for _, id := range stale {
		c.dropWorkspace(id)
	}
	return n, nil
}

// RunCleanup calls CleanupSessions every interval until ctx is done.
func (c *Core) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := c.CleanupSessions(ctx)
			if err != nil {
				c.log.With(sl.Err(err)).Error("session cleanup")
				continue
			}
			if n > 0 {
				c.log.With(slog.Int64("count", n)).Info("expired sessions removed")
			}
		}
	}
}
