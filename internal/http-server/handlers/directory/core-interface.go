package directory

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/service/school"
	"context"
)

type Core interface {
	Teachers(ctx context.Context, session *entity.Session, q school.ListQuery) (*entity.List, error)
	Enrollments(ctx context.Context, session *entity.Session, q school.ListQuery) (*entity.List, error)
	ReportCards(ctx context.Context, session *entity.Session, q school.ListQuery) (*entity.List, error)
}
