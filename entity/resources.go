package entity

type Classroom struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Level        string `json:"level,omitempty"`
	Capacity     int    `json:"capacity,omitempty"`
	SchoolYearID int    `json:"school_year_id"`
	TeacherID    int    `json:"teacher_id,omitempty"`
}

type Student struct {
	ID           int    `json:"id"`
	Matricule    string `json:"matricule,omitempty"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	BirthDate    string `json:"birth_date,omitempty"`
	Gender       string `json:"gender,omitempty"`
	ClassroomID  int    `json:"classroom_id,omitempty"`
	SchoolYearID int    `json:"school_year_id,omitempty"`
}

func (s Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

type Teacher struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Specialty string `json:"specialty,omitempty"`
}

type Subject struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Code         string  `json:"code,omitempty"`
	Coefficient  float64 `json:"coefficient,omitempty"`
	SchoolYearID int     `json:"school_year_id,omitempty"`
}

// Assignment binds a teacher to a subject in a classroom for one year.
type Assignment struct {
	ID           int `json:"id"`
	TeacherID    int `json:"teacher_id"`
	SubjectID    int `json:"subject_id"`
	ClassroomID  int `json:"classroom_id"`
	SchoolYearID int `json:"school_year_id"`
}

type Grade struct {
	ID           int      `json:"id"`
	StudentID    int      `json:"student_id"`
	SubjectID    int      `json:"subject_id,omitempty"`
	ClassroomID  int      `json:"classroom_id,omitempty"`
	SchoolYearID int      `json:"school_year_id,omitempty"`
	Term         string   `json:"term,omitempty"`
	Score        *float64 `json:"score,omitempty"`
	Average      *float64 `json:"average,omitempty"`
	Coefficient  float64  `json:"coefficient,omitempty"`
	Student      *Student `json:"student,omitempty"`
}

// Value is the score when present, else the server-computed average.
func (g Grade) Value() float64 {
	if g.Score != nil {
		return *g.Score
	}
	if g.Average != nil {
		return *g.Average
	}
	return 0
}

type Schedule struct {
	ID           int    `json:"id"`
	ClassroomID  int    `json:"classroom_id"`
	SubjectID    int    `json:"subject_id"`
	TeacherID    int    `json:"teacher_id,omitempty"`
	DayOfWeek    string `json:"day_of_week"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Room         string `json:"room,omitempty"`
	SchoolYearID int    `json:"school_year_id"`
}

type Enrollment struct {
	ID           int    `json:"id"`
	StudentID    int    `json:"student_id"`
	ClassroomID  int    `json:"classroom_id"`
	SchoolYearID int    `json:"school_year_id"`
	Status       string `json:"status,omitempty"`
}

type Payment struct {
	ID           int     `json:"id"`
	StudentID    int     `json:"student_id"`
	SchoolYearID int     `json:"school_year_id"`
	Amount       float64 `json:"amount"`
	Method       string  `json:"method,omitempty"`
	PaidAt       string  `json:"paid_at,omitempty"`
	Reference    string  `json:"reference,omitempty"`
}

// PaymentSummary carries server-side aggregates for one student and year.
type PaymentSummary struct {
	StudentID    int     `json:"student_id"`
	SchoolYearID int     `json:"school_year_id,omitempty"`
	TotalDue     float64 `json:"total_due"`
	TotalPaid    float64 `json:"total_paid"`
}

type ReportCard struct {
	ID           int      `json:"id"`
	StudentID    int      `json:"student_id"`
	ClassroomID  int      `json:"classroom_id,omitempty"`
	SchoolYearID int      `json:"school_year_id"`
	Term         string   `json:"term,omitempty"`
	Average      *float64 `json:"average,omitempty"`
	Rank         int      `json:"rank,omitempty"`
	Appreciation string   `json:"appreciation,omitempty"`
}
