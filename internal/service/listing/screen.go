// Package listing holds the state of the year-scoped list screens:
// selected year, search term, page and the rows currently shown.
package listing

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/lib/sl"
	"SchoolDesk/internal/service/activeyear"
	"SchoolDesk/internal/service/school"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

const DefaultPerPage = 10

var (
	ErrUnknownYear  = errors.New("unknown school year")
	ErrYearRequired = errors.New("this list requires a school year")
)

type Accessor[T any] interface {
	List(ctx context.Context, q school.ListQuery) (school.Page[T], error)
	Create(ctx context.Context, payload interface{}) (T, error)
	Update(ctx context.Context, id int, payload interface{}) (T, error)
	Delete(ctx context.Context, id int) error
}

type YearSource interface {
	Years(ctx context.Context) ([]entity.SchoolYear, error)
}

type ActiveSource interface {
	Snapshot() activeyear.State
}

type Options struct {
	Resource string
	PerPage  int
	// AllowAll screens start unfiltered and accept "all years".
	AllowAll bool
	Filters  map[string]string
}

// View is what the front end renders for a screen.
type View struct {
	Resource     string              `json:"resource"`
	Items        interface{}         `json:"items"`
	Pagination   entity.Pagination   `json:"pagination"`
	SelectedYear *entity.SchoolYear  `json:"selected_year"`
	AllowAll     bool                `json:"allow_all"`
	Years        []entity.SchoolYear `json:"years"`
	Search       string              `json:"search"`
	Loading      bool                `json:"loading"`
	NoActiveYear bool                `json:"no_active_year"`
	Banner       string              `json:"banner,omitempty"`
}

// Controller is the type-erased face of Screen used by the session registry.
type Controller interface {
	Mount(ctx context.Context) (View, error)
	SelectYear(ctx context.Context, yearID int) (View, error)
	SetSearch(ctx context.Context, term string) (View, error)
	GoToPage(ctx context.Context, page int) (View, error)
	Reload(ctx context.Context) (View, error)
	SeedYear(ctx context.Context, year *entity.SchoolYear) (bool, error)
	Create(ctx context.Context, payload json.RawMessage) (View, error)
	Update(ctx context.Context, id int, payload json.RawMessage) (View, error)
	Delete(ctx context.Context, id int) (View, error)
	View() View
}

type Screen[T any] struct {
	opts     Options
	accessor Accessor[T]
	years    YearSource
	active   ActiveSource

	mu         sync.Mutex
	mounted    bool
	yearList   []entity.SchoolYear
	selected   *entity.SchoolYear
	userChose  bool
	search     string
	page       int
	items      []T
	pagination entity.Pagination
	loading    int
	generation uint64

	log *slog.Logger
}

func NewScreen[T any](opts Options, accessor Accessor[T], years YearSource, active ActiveSource, logger *slog.Logger) *Screen[T] {
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultPerPage
	}
	return &Screen[T]{
		opts:       opts,
		accessor:   accessor,
		years:      years,
		active:     active,
		page:       1,
		items:      []T{},
		pagination: entity.EmptyPagination(opts.PerPage),
		log:        logger.With(sl.Module("listing"), slog.String("resource", opts.Resource)),
	}
}

// Mount loads the year list, seeds the selection and fetches the rows.
// Mounting again keeps the user's selection.
func (s *Screen[T]) Mount(ctx context.Context) (View, error) {
	years, err := s.years.Years(ctx)
	if err != nil {
		s.log.Warn("load school years", sl.Err(err))
		years = []entity.SchoolYear{}
		if school.IsUnauthorized(err) {
			return s.View(), err
		}
	}

	s.mu.Lock()
	s.yearList = years
	s.mounted = true
	if s.selected == nil && !s.userChose && !s.opts.AllowAll {
		s.selected = s.seedFrom(years)
	}
	s.mu.Unlock()

	return s.fetch(ctx)
}

// seedFrom picks the default year: the resolved active year, else the first
// year flagged active in the list, else the first year of the list.
func (s *Screen[T]) seedFrom(years []entity.SchoolYear) *entity.SchoolYear {
	if s.active != nil {
		if st := s.active.Snapshot(); st.ActiveSchoolYear != nil {
			y := *st.ActiveSchoolYear
			return &y
		}
	}
	for i := range years {
		if years[i].IsActive {
			y := years[i]
			return &y
		}
	}
	if len(years) > 0 {
		y := years[0]
		return &y
	}
	return nil
}

// SeedYear applies a late active-year resolution. It only fills an empty
// selection the user has not touched, and refetches when it does.
func (s *Screen[T]) SeedYear(ctx context.Context, year *entity.SchoolYear) (bool, error) {
	if year == nil {
		return false, nil
	}
	s.mu.Lock()
	if s.opts.AllowAll || s.userChose || s.selected != nil {
		s.mu.Unlock()
		return false, nil
	}
	y := *year
	s.selected = &y
	s.page = 1
	mounted := s.mounted
	s.mu.Unlock()

	if !mounted {
		return true, nil
	}
	_, err := s.fetch(ctx)
	return true, err
}

// SelectYear changes the filter; 0 means all years where allowed.
func (s *Screen[T]) SelectYear(ctx context.Context, yearID int) (View, error) {
	if yearID == 0 {
		if !s.opts.AllowAll {
			return s.View(), ErrYearRequired
		}
		s.mu.Lock()
		s.selected = nil
		s.userChose = true
		s.page = 1
		s.mu.Unlock()
		return s.fetch(ctx)
	}

	s.mu.Lock()
	year := entity.FindSchoolYear(s.yearList, yearID)
	s.mu.Unlock()
	if year == nil {
		// the list may have changed since mount
		years, err := s.years.Years(ctx)
		if err == nil {
			s.mu.Lock()
			s.yearList = years
			s.mu.Unlock()
			year = entity.FindSchoolYear(years, yearID)
		}
	}
	if year == nil {
		return s.View(), fmt.Errorf("%w: %d", ErrUnknownYear, yearID)
	}

	s.mu.Lock()
	s.selected = year
	s.userChose = true
	s.page = 1
	s.mu.Unlock()
	return s.fetch(ctx)
}

func (s *Screen[T]) SetSearch(ctx context.Context, term string) (View, error) {
	s.mu.Lock()
	s.search = strings.TrimSpace(term)
	s.page = 1
	s.mu.Unlock()
	return s.fetch(ctx)
}

func (s *Screen[T]) GoToPage(ctx context.Context, page int) (View, error) {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()
	return s.fetch(ctx)
}

// Reload fetches the current page again.
func (s *Screen[T]) Reload(ctx context.Context) (View, error) {
	return s.fetch(ctx)
}

// Create sends payload, filling school_year_id from the selection when the
// form left it out, then reads the current page back.
func (s *Screen[T]) Create(ctx context.Context, payload json.RawMessage) (View, error) {
	body, err := s.withSelectedYear(payload)
	if err != nil {
		return s.View(), err
	}
	if _, err := s.accessor.Create(ctx, body); err != nil {
		s.log.Warn("create", sl.Err(err))
		return s.View(), err
	}
	return s.fetch(ctx)
}

func (s *Screen[T]) Update(ctx context.Context, id int, payload json.RawMessage) (View, error) {
	if _, err := s.accessor.Update(ctx, id, payload); err != nil {
		s.log.Warn("update", slog.Int("id", id), sl.Err(err))
		return s.View(), err
	}
	return s.fetch(ctx)
}

func (s *Screen[T]) Delete(ctx context.Context, id int) (View, error) {
	if err := s.accessor.Delete(ctx, id); err != nil {
		s.log.Warn("delete", slog.Int("id", id), sl.Err(err))
		return s.View(), err
	}
	return s.fetch(ctx)
}

func (s *Screen[T]) withSelectedYear(payload json.RawMessage) (interface{}, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	if body == nil {
		body = map[string]interface{}{}
	}
	s.mu.Lock()
	selected := s.selected
	s.mu.Unlock()
	if _, ok := body["school_year_id"]; !ok && selected != nil {
		body["school_year_id"] = selected.ID
	}
	return body, nil
}

// fetch lists the rows for the current filters. Only the latest request
// may commit; older answers are dropped.
func (s *Screen[T]) fetch(ctx context.Context) (View, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	q := school.ListQuery{
		Page:    s.page,
		PerPage: s.opts.PerPage,
		Search:  s.search,
		Filters: s.opts.Filters,
	}
	if s.selected != nil {
		q.SchoolYearID = s.selected.ID
	}
	s.loading++
	s.mu.Unlock()

	page, err := s.accessor.List(ctx, q)

	s.mu.Lock()
	s.loading--
	if gen != s.generation {
		s.mu.Unlock()
		s.log.Debug("stale list answer dropped", slog.Uint64("generation", gen))
		return s.View(), nil
	}
	if err != nil {
		s.items = []T{}
		s.pagination = entity.EmptyPagination(s.opts.PerPage)
		s.mu.Unlock()
		s.log.Warn("list", sl.Err(err))
		return s.View(), err
	}
	s.items = page.Items
	if s.items == nil {
		s.items = []T{}
	}
	s.pagination = page.Pagination(s.opts.PerPage)
	s.mu.Unlock()

	return s.View(), nil
}

func (s *Screen[T]) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Resource:   s.opts.Resource,
		Items:      append([]T{}, s.items...),
		Pagination: s.pagination,
		AllowAll:   s.opts.AllowAll,
		Years:      append([]entity.SchoolYear{}, s.yearList...),
		Search:     s.search,
		Loading:    s.loading > 0,
	}
	if s.selected != nil {
		y := *s.selected
		v.SelectedYear = &y
	}
	if s.active != nil {
		st := s.active.Snapshot()
		if !st.HasYear() && !st.Loading {
			v.NoActiveYear = true
			v.Banner = activeyear.ErrNoActiveYear
		}
	}
	return v
}

// Query returns the parameters the next fetch would use.
func (s *Screen[T]) Query() school.ListQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := school.ListQuery{Page: s.page, PerPage: s.opts.PerPage, Search: s.search, Filters: s.opts.Filters}
	if s.selected != nil {
		q.SchoolYearID = s.selected.ID
	}
	return q
}
