package core

import (
	"SchoolDesk/entity"
	"context"
	"log/slog"
)

func (c *Core) SchoolYears(ctx context.Context, session *entity.Session) ([]entity.SchoolYear, error) {
	return c.workspace(ctx, session).years.Years(ctx)
}

func (c *Core) CreateSchoolYear(ctx context.Context, session *entity.Session, input entity.SchoolYearInput) (*entity.SchoolYear, error) {
	w := c.workspace(ctx, session)
	year, err := w.client.SchoolYears().Create(ctx, input.WithDefaultLabel())
	if err != nil {
		return nil, err
	}
	c.schoolYearsChanged(ctx, w, "create", year.ID)
	return &year, nil
}

func (c *Core) UpdateSchoolYear(ctx context.Context, session *entity.Session, id int, input entity.SchoolYearInput) (*entity.SchoolYear, error) {
	w := c.workspace(ctx, session)
	year, err := w.client.SchoolYears().Update(ctx, id, input.WithDefaultLabel())
	if err != nil {
		return nil, err
	}
	c.schoolYearsChanged(ctx, w, "update", id)
	return &year, nil
}

func (c *Core) DeleteSchoolYear(ctx context.Context, session *entity.Session, id int) error {
	w := c.workspace(ctx, session)
	if err := w.client.SchoolYears().Delete(ctx, id); err != nil {
		return err
	}
	c.schoolYearsChanged(ctx, w, "delete", id)
	return nil
}

// ActivateSchoolYear makes id the active year and returns the resolved
// state as seen by the server afterwards.
func (c *Core) ActivateSchoolYear(ctx context.Context, session *entity.Session, id int) (*entity.SchoolYear, error) {
	w := c.workspace(ctx, session)
	if err := w.client.ActivateSchoolYear(ctx, id); err != nil {
		return nil, err
	}
	c.schoolYearsChanged(ctx, w, "activate", id)
	return w.active.Snapshot().ActiveSchoolYear, nil
}

// schoolYearsChanged drops the cached year list and resolves the active year
// again, since any mutation may have moved the active flag.
func (c *Core) schoolYearsChanged(ctx context.Context, w *workspace, op string, id int) {
	w.years.Invalidate()
	st := w.active.Refresh(ctx)
	c.log.With(
		slog.String("session", w.session.ID),
		slog.String("op", op),
		slog.Int("school_year_id", id),
		slog.String("status", string(st.Status)),
		slog.String("active_year_error", st.Error),
	).Info("school years changed")
}
