package activeyear

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/service/activeyear"
	"context"
)

type Core interface {
	ActiveYear(ctx context.Context, session *entity.Session) activeyear.State
	RefreshActiveYear(ctx context.Context, session *entity.Session) activeyear.State
}
