package core

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/service/listing"
	"context"
	"log/slog"
)

// Year-scoped list screens of the console.
const (
	ClassroomsScreen  = "classrooms"
	StudentsScreen    = "students"
	SubjectsScreen    = "subjects"
	AssignmentsScreen = "assignments"
	GradesScreen      = "grades"
	SchedulesScreen   = "schedules"
	PaymentsScreen    = "payments"
)

func (c *Core) newScreens(w *workspace, log *slog.Logger) map[string]listing.Controller {
	options := func(resource string, allowAll bool) listing.Options {
		return listing.Options{Resource: resource, PerPage: c.perPage, AllowAll: allowAll}
	}
	return map[string]listing.Controller{
		ClassroomsScreen:  listing.NewScreen[entity.Classroom](options(ClassroomsScreen, false), w.client.Classrooms(), w.years, w.active, log),
		StudentsScreen:    listing.NewScreen[entity.Student](options(StudentsScreen, true), w.client.Students(), w.years, w.active, log),
		SubjectsScreen:    listing.NewScreen[entity.Subject](options(SubjectsScreen, false), w.client.Subjects(), w.years, w.active, log),
		AssignmentsScreen: listing.NewScreen[entity.Assignment](options(AssignmentsScreen, false), w.client.Assignments(), w.years, w.active, log),
		GradesScreen:      listing.NewScreen[entity.Grade](options(GradesScreen, false), w.client.Grades(), w.years, w.active, log),
		SchedulesScreen:   listing.NewScreen[entity.Schedule](options(SchedulesScreen, false), w.client.Schedules(), w.years, w.active, log),
		PaymentsScreen:    listing.NewScreen[entity.Payment](options(PaymentsScreen, false), w.client.Payments(), w.years, w.active, log),
	}
}

// Screen returns the session's controller for a list screen.
func (c *Core) Screen(ctx context.Context, session *entity.Session, resource string) (listing.Controller, error) {
	screen, ok := c.workspace(ctx, session).screens[resource]
	if !ok {
		return nil, ErrUnknownScreen
	}
	return screen, nil
}
