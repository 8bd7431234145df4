package detail

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/service/ranking"
	"context"
)

type Core interface {
	ClassroomRanking(ctx context.Context, session *entity.Session, classroomID, yearID int) ([]ranking.Ranked[ranking.StudentAverage], error)
	StudentBalance(ctx context.Context, session *entity.Session, studentID, yearID int) (ranking.Balance, error)
}
