package school

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/lib/envelope"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	ClassroomsPath  = "classrooms"
	StudentsPath    = "students"
	TeachersPath    = "teachers"
	SubjectsPath    = "subjects"
	GradesPath      = "grades"
	AssignmentsPath = "assignments"
	SchedulesPath   = "schedules"
	PaymentsPath    = "payments"
	SchoolYearsPath = "school-years"
	EnrollmentsPath = "enrollments"
	ReportCardsPath = "report-cards"
)

func (s *Service) Classrooms() Resource[entity.Classroom] {
	return NewResource[entity.Classroom](s, ClassroomsPath)
}

func (s *Service) Students() Resource[entity.Student] {
	return NewResource[entity.Student](s, StudentsPath)
}

func (s *Service) Teachers() Resource[entity.Teacher] {
	return NewResource[entity.Teacher](s, TeachersPath)
}

func (s *Service) Subjects() Resource[entity.Subject] {
	return NewResource[entity.Subject](s, SubjectsPath)
}

func (s *Service) Grades() Resource[entity.Grade] {
	return NewResource[entity.Grade](s, GradesPath)
}

func (s *Service) Assignments() Resource[entity.Assignment] {
	return NewResource[entity.Assignment](s, AssignmentsPath)
}

func (s *Service) Schedules() Resource[entity.Schedule] {
	return NewResource[entity.Schedule](s, SchedulesPath)
}

func (s *Service) Payments() Resource[entity.Payment] {
	return NewResource[entity.Payment](s, PaymentsPath)
}

func (s *Service) SchoolYears() Resource[entity.SchoolYear] {
	return NewResource[entity.SchoolYear](s, SchoolYearsPath)
}

func (s *Service) Enrollments() Resource[entity.Enrollment] {
	return NewResource[entity.Enrollment](s, EnrollmentsPath)
}

func (s *Service) ReportCards() Resource[entity.ReportCard] {
	return NewResource[entity.ReportCard](s, ReportCardsPath)
}

// AllSchoolYears fetches the full school-year list for filter dropdowns.
func (s *Service) AllSchoolYears(ctx context.Context) ([]entity.SchoolYear, error) {
	page, err := s.SchoolYears().List(ctx, ListQuery{})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// ActiveSchoolYear returns the raw answer of the "active school year"
// endpoint. Interpreting it is left to the resolver.
func (s *Service) ActiveSchoolYear(ctx context.Context) ([]byte, error) {
	return s.do(ctx, http.MethodGet, SchoolYearsPath+"/active", nil, nil)
}

func (s *Service) ActivateSchoolYear(ctx context.Context, id int) error {
	_, err := s.call(ctx, http.MethodPost, fmt.Sprintf("%s/%d/activate", SchoolYearsPath, id), nil, nil)
	return err
}

// StudentBalance returns the server aggregates of what a student owes.
func (s *Service) StudentBalance(ctx context.Context, studentID, schoolYearID int) (entity.PaymentSummary, error) {
	query := url.Values{}
	if schoolYearID > 0 {
		query.Set("school_year_id", strconv.Itoa(schoolYearID))
	}
	env, err := s.call(ctx, http.MethodGet, fmt.Sprintf("%s/%d/balance", StudentsPath, studentID), query, nil)
	if err != nil {
		return entity.PaymentSummary{}, err
	}
	summary, ok, err := envelope.First[entity.PaymentSummary](envelope.NormalizeData(env.Data))
	if err != nil {
		return entity.PaymentSummary{}, err
	}
	if !ok {
		return entity.PaymentSummary{}, fmt.Errorf("empty balance for student %d", studentID)
	}
	if summary.StudentID == 0 {
		summary.StudentID = studentID
	}
	return summary, nil
}
