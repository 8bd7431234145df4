package schoolyear

import (
	"SchoolDesk/entity"
	"context"
)

type Core interface {
	SchoolYears(ctx context.Context, session *entity.Session) ([]entity.SchoolYear, error)
	CreateSchoolYear(ctx context.Context, session *entity.Session, input entity.SchoolYearInput) (*entity.SchoolYear, error)
	UpdateSchoolYear(ctx context.Context, session *entity.Session, id int, input entity.SchoolYearInput) (*entity.SchoolYear, error)
	DeleteSchoolYear(ctx context.Context, session *entity.Session, id int) error
	ActivateSchoolYear(ctx context.Context, session *entity.Session, id int) (*entity.SchoolYear, error)
}
