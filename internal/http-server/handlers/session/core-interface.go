package session

import (
	"SchoolDesk/entity"
	"SchoolDesk/impl/core"
	"context"
)

type Core interface {
	Login(ctx context.Context, req entity.LoginRequest) (*core.LoginResult, error)
	Logout(ctx context.Context, session *entity.Session) error
	CurrentSession(ctx context.Context, session *entity.Session) core.SessionInfo
}

// Ticketer issues websocket tickets.
type Ticketer interface {
	Ticket(session *entity.Session) string
}
