// Package activeyear resolves which school year screens default to for one
// session. Failures never escape: they end as a state with an advisory
// error text.
package activeyear

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/lib/envelope"
	"SchoolDesk/internal/lib/sl"
	"SchoolDesk/internal/service/school"
	"context"
	"log/slog"
	"sync"
)

type Status string

const (
	Uninitialized Status = "uninitialized"
	Loading       Status = "loading"
	Resolved      Status = "resolved"
	Unavailable   Status = "unavailable"
)

const (
	ErrNoActiveYear = "No active school year. Classrooms, enrollments and assignments cannot be created until one is activated."
	ErrUnreachable  = "Unable to load the active school year."
)

// State is what consumers read. Error is advisory text, empty when none.
type State struct {
	ActiveSchoolYear *entity.SchoolYear `json:"active_school_year"`
	Loading          bool               `json:"loading"`
	Error            string             `json:"error,omitempty"`
	Status           Status             `json:"status"`
}

// HasYear reports whether screens can default to a year.
func (s State) HasYear() bool {
	return s.ActiveSchoolYear != nil
}

// Fetcher returns the raw answer of the active school year endpoint.
type Fetcher interface {
	ActiveSchoolYear(ctx context.Context) ([]byte, error)
}

type Credentials interface {
	HasToken() bool
}

type Service struct {
	fetcher   Fetcher
	creds     Credentials
	mu        sync.RWMutex
	state     State
	inflight  int
	settled   Status
	listeners []func(State)
	log       *slog.Logger
}

func New(fetcher Fetcher, creds Credentials, logger *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		creds:   creds,
		state:   State{Status: Uninitialized},
		settled: Uninitialized,
		log:     logger.With(sl.Module("activeyear")),
	}
}

// Subscribe registers fn to be called after every state change.
func (s *Service) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyState()
}

// Init runs the first resolution. Without a token it settles on Unavailable
// and never calls the API.
func (s *Service) Init(ctx context.Context) State {
	if s.creds == nil || !s.creds.HasToken() {
		s.log.Debug("no token, skip active year resolution")
		return s.set(func(st *State) {
			st.ActiveSchoolYear = nil
			st.Loading = false
			st.Error = ""
			st.Status = Unavailable
			s.settled = Unavailable
		})
	}
	return s.Refresh(ctx)
}

// Refresh re-runs the resolution. Concurrent calls are allowed; the one that
// finishes last decides the state.
func (s *Service) Refresh(ctx context.Context) State {
	s.mu.Lock()
	s.inflight++
	s.state.Loading = true
	s.state.Status = Loading
	s.mu.Unlock()
	s.notify()

	body, err := s.fetcher.ActiveSchoolYear(ctx)

	return s.finish(func(st *State) {
		switch {
		case err != nil && school.IsUnauthorized(err):
			// the login redirect is handled elsewhere; keep what we have now
			s.log.Debug("active year unauthorized, state kept")
			if st.Status == Loading {
				st.Status = s.settled
			}
			return
		case err != nil && school.IsNotFound(err):
			s.log.Info("no active school year")
			st.ActiveSchoolYear = nil
			st.Error = school.Message(err, ErrNoActiveYear)
			st.Status = Unavailable
		case err != nil:
			s.log.Warn("active year request failed", sl.Err(err))
			st.ActiveSchoolYear = nil
			st.Error = ErrUnreachable
			st.Status = Unavailable
		default:
			s.apply(st, body)
		}
		s.settled = st.Status
	})
}

// apply interprets a 2xx answer.
func (s *Service) apply(st *State, body []byte) {
	env, err := envelope.Parse(body)
	if err != nil {
		s.log.Warn("active year answer unreadable", sl.Err(err))
		st.ActiveSchoolYear = nil
		st.Error = ErrUnreachable
		st.Status = Unavailable
		return
	}
	if !env.Success {
		st.ActiveSchoolYear = nil
		st.Error = ErrNoActiveYear
		if env.Message != "" {
			st.Error = env.Message
		}
		st.Status = Unavailable
		return
	}

	year, ok, err := envelope.First[entity.SchoolYear](envelope.NormalizeData(env.Data))
	if err != nil || !ok || year.ID == 0 {
		if err != nil {
			s.log.Warn("active year record unreadable", sl.Err(err))
		}
		st.ActiveSchoolYear = nil
		st.Error = ErrNoActiveYear
		st.Status = Unavailable
		return
	}

	s.log.Debug("active year resolved", slog.Int("id", year.ID), slog.String("label", year.Name()))
	st.ActiveSchoolYear = &year
	st.Error = ""
	st.Status = Resolved
}

// Clear drops everything, as on logout.
func (s *Service) Clear() {
	s.set(func(st *State) {
		*st = State{Status: Uninitialized}
		s.settled = Uninitialized
	})
}

func (s *Service) finish(update func(st *State)) State {
	s.mu.Lock()
	s.inflight--
	update(&s.state)
	s.state.Loading = s.inflight > 0
	if s.state.Loading {
		s.state.Status = Loading
	}
	st := s.copyState()
	s.mu.Unlock()
	s.notify()
	return st
}

func (s *Service) set(update func(st *State)) State {
	s.mu.Lock()
	update(&s.state)
	st := s.copyState()
	s.mu.Unlock()
	s.notify()
	return st
}

// copyState must be called with mu held.
func (s *Service) copyState() State {
	st := s.state
	if st.ActiveSchoolYear != nil {
		y := *st.ActiveSchoolYear
		st.ActiveSchoolYear = &y
	}
	return st
}

func (s *Service) notify() {
	s.mu.RLock()
	listeners := make([]func(State), len(s.listeners))
	copy(listeners, s.listeners)
	st := s.copyState()
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(st)
	}
}
