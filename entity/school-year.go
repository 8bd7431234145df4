package entity

import "fmt"

// SchoolYear is one academic year as returned by the remote API.
type SchoolYear struct {
	ID        int    `json:"id"`
	YearStart int    `json:"year_start"`
	YearEnd   int    `json:"year_end"`
	Label     string `json:"label"`
	IsActive  bool   `json:"is_active"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// SchoolYearInput is the create/update form payload.
type SchoolYearInput struct {
	YearStart int    `json:"year_start" validate:"required,gte=1900,lte=2999"`
	YearEnd   int    `json:"year_end" validate:"required,gtfield=YearStart"`
	Label     string `json:"label,omitempty" validate:"omitempty,max=32"`
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Name returns the label, or "{start}-{end}" when the server left it empty.
func (y *SchoolYear) Name() string {
	if y.Label != "" {
		return y.Label
	}
	return fmt.Sprintf("%d-%d", y.YearStart, y.YearEnd)
}

// WithDefaultLabel fills the label the way the server does when omitted.
func (in SchoolYearInput) WithDefaultLabel() SchoolYearInput {
	if in.Label == "" {
		in.Label = fmt.Sprintf("%d-%d", in.YearStart, in.YearEnd)
	}
	return in
}

// FindSchoolYear returns the year with the given id, or nil.
func FindSchoolYear(years []SchoolYear, id int) *SchoolYear {
	for i := range years {
		if years[i].ID == id {
			y := years[i]
			return &y
		}
	}
	return nil
}
