package core

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/service/ranking"
	"SchoolDesk/internal/service/school"
	"context"
	"fmt"
	"strconv"
)

// rankingPageSize is the page size used when every grade of a classroom
// must be fetched.
const rankingPageSize = 100

// maxRankingPages bounds the walk over grade pages.
const maxRankingPages = 50

func toList[T any](page school.Page[T], perPage int) *entity.List {
	return &entity.List{
		Items:      page.Items,
		Pagination: page.Pagination(perPage),
	}
}

// yearOrActive returns the requested year, or the active one when none was
// asked for.
func (c *Core) yearOrActive(w *workspace, yearID int) int {
	if yearID > 0 {
		return yearID
	}
	if year := w.active.Snapshot().ActiveSchoolYear; year != nil {
		return year.ID
	}
	return 0
}

func (c *Core) normalizeQuery(q school.ListQuery) school.ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = c.perPage
	}
	return q
}

func (c *Core) Teachers(ctx context.Context, session *entity.Session, q school.ListQuery) (*entity.List, error) {
	w := c.workspace(ctx, session)
	q = c.normalizeQuery(q)
	page, err := w.client.Teachers().List(ctx, q)
	if err != nil {
		return nil, err
	}
	return toList(page, q.PerPage), nil
}

// Enrollments defaults to the active year when no year is given.
func (c *Core) Enrollments(ctx context.Context, session *entity.Session, q school.ListQuery) (*entity.List, error) {
	w := c.workspace(ctx, session)
	q = c.normalizeQuery(q)
	q.SchoolYearID = c.yearOrActive(w, q.SchoolYearID)
	page, err := w.client.Enrollments().List(ctx, q)
	if err != nil {
		return nil, err
	}
	return toList(page, q.PerPage), nil
}

// ReportCards defaults to the active year when no year is given.
func (c *Core) ReportCards(ctx context.Context, session *entity.Session, q school.ListQuery) (*entity.List, error) {
	w := c.workspace(ctx, session)
	q = c.normalizeQuery(q)
	q.SchoolYearID = c.yearOrActive(w, q.SchoolYearID)
	page, err := w.client.ReportCards().List(ctx, q)
	if err != nil {
		return nil, err
	}
	return toList(page, q.PerPage), nil
}

// ClassroomRanking ranks the students of a classroom by weighted average
// over every grade of the year.
func (c *Core) ClassroomRanking(ctx context.Context, session *entity.Session, classroomID, yearID int) ([]ranking.Ranked[ranking.StudentAverage], error) {
	w := c.workspace(ctx, session)
	q := school.ListQuery{
		SchoolYearID: c.yearOrActive(w, yearID),
		PerPage:      rankingPageSize,
		Filters:      map[string]string{"classroom_id": strconv.Itoa(classroomID)},
	}

	var grades []entity.Grade
	for p := 1; p <= maxRankingPages; p++ {
		q.Page = p
		page, err := w.client.Grades().List(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("list grades page %d: %w", p, err)
		}
		grades = append(grades, page.Items...)
		if page.Meta == nil || p >= page.Meta.LastPage || len(page.Items) == 0 {
			break
		}
	}
	return ranking.ClassRanking(grades), nil
}

// StudentBalance defaults to the active year when no year is given.
func (c *Core) StudentBalance(ctx context.Context, session *entity.Session, studentID, yearID int) (ranking.Balance, error) {
	w := c.workspace(ctx, session)
	summary, err := w.client.StudentBalance(ctx, studentID, c.yearOrActive(w, yearID))
	if err != nil {
		return ranking.Balance{}, err
	}
	return ranking.NewBalance(summary), nil
}
