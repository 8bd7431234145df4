package core

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/lib/access"
	"SchoolDesk/internal/lib/sl"
	"SchoolDesk/internal/service/activeyear"
	"SchoolDesk/internal/service/school"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// LoginResult is returned to the console after a successful sign in.
type LoginResult struct {
	Session    *entity.Session        `json:"session"`
	Token      string                 `json:"token"`
	ActiveYear activeyear.State       `json:"active_year"`
	Can        map[access.Action]bool `json:"can"`
}

// Login signs in against the school API and opens a console session. The
// active year is resolved before returning.
func (c *Core) Login(ctx context.Context, req entity.LoginRequest) (*LoginResult, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("session storage not available")
	}

	anonymous := school.NewService(c.baseURL, "", c.timeout, c.log)
	token, user, err := anonymous.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &entity.Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      user,
		CreatedAt: now,
		LastSeen:  now,
	}
	if err = c.repo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	w := c.workspace(ctx, session)
	c.log.With(
		slog.String("session", session.ID),
		slog.String("email", user.Email),
		slog.String("role", user.Role),
	).Info("user logged in")

	return &LoginResult{
		Session:    session,
		Token:      session.ID,
		ActiveYear: w.active.Snapshot(),
		Can:        access.Capabilities(user.Role),
	}, nil
}

// Logout ends the session locally even when the remote logout fails.
func (c *Core) Logout(ctx context.Context, session *entity.Session) error {
	client := school.NewService(c.baseURL, session.Token, c.timeout, c.log)
	if err := client.Logout(ctx); err != nil {
		c.log.With(
			slog.String("session", session.ID),
			sl.Err(err),
		).Warn("remote logout")
	}

	c.dropWorkspace(session.ID)
	c.publish(session.ID, EventSessionClosed, nil)

	if c.repo == nil {
		return nil
	}
	if err := c.repo.DeleteSession(ctx, session.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SessionInfo is the console's view of the current session.
type SessionInfo struct {
	Session    *entity.Session        `json:"session"`
	ActiveYear activeyear.State       `json:"active_year"`
	Can        map[access.Action]bool `json:"can"`
}

func (c *Core) CurrentSession(ctx context.Context, session *entity.Session) SessionInfo {
	w := c.workspace(ctx, session)
	return SessionInfo{
		Session:    session,
		ActiveYear: w.active.Snapshot(),
		Can:        access.Capabilities(session.User.Role),
	}
}
