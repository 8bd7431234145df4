package core

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/lib/sl"
	"SchoolDesk/internal/service/activeyear"
	"SchoolDesk/internal/ws"
	"context"
	"log/slog"
)

func (c *Core) ActiveYear(ctx context.Context, session *entity.Session) activeyear.State {
	return c.workspace(ctx, session).active.Snapshot()
}

// RefreshActiveYear asks the server again. Concurrent refreshes are allowed,
// the last answer wins.
func (c *Core) RefreshActiveYear(ctx context.Context, session *entity.Session) activeyear.State {
	return c.workspace(ctx, session).active.Refresh(ctx)
}

// Greeting is the first websocket event: the current active-year state.
// The workspace is built from the stored session when no request has done it yet.
func (c *Core) Greeting(sessionID string) *ws.Event {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	session, err := c.storedSession(ctx, sessionID)
	if err != nil {
		c.log.Debug("no greeting", slog.String("session", sessionID), sl.Err(err))
		return nil
	}
	return &ws.Event{Type: EventActiveYear, Data: c.workspace(ctx, session).active.Snapshot()}
}

// HandleRefresh serves refresh requests sent over the websocket.
func (c *Core) HandleRefresh(sessionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	session, err := c.storedSession(ctx, sessionID)
	if err != nil {
		return err
	}
	c.RefreshActiveYear(ctx, session)
	return nil
}

func (c *Core) storedSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	if c.repo == nil {
		return nil, ErrSessionNotFound
	}
	session, err := c.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
