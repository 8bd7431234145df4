package core

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/config"
	repository "SchoolDesk/internal/database"
	"SchoolDesk/internal/service/activeyear"
	"SchoolDesk/internal/service/school"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSchoolApi serves the subset of the school API used by the console.
type fakeSchoolApi struct {
	mu          sync.Mutex
	activeID    int
	activeDelay time.Duration
	yearLists   atomic.Int32
	logouts     atomic.Int32
	lastQueries map[string]map[string]string
}

// remember keeps the query of the last request made to path.
func (f *fakeSchoolApi) remember(path string, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lastQueries == nil {
		f.lastQueries = map[string]map[string]string{}
	}
	q := map[string]string{}
	for k := range r.URL.Query() {
		q[k] = r.URL.Query().Get(k)
	}
	f.lastQueries[path] = q
}

func (f *fakeSchoolApi) query(path string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQueries[path]
}

func (f *fakeSchoolApi) years() []entity.SchoolYear {
	years := []entity.SchoolYear{
		{ID: 1, YearStart: 2023, YearEnd: 2024, Label: "2023-2024"},
		{ID: 2, YearStart: 2024, YearEnd: 2025, Label: "2024-2025"},
		{ID: 3, YearStart: 2025, YearEnd: 2026, Label: "2025-2026"},
	}
	for i := range years {
		years[i].IsActive = years[i].ID == f.activeID
	}
	return years
}

func write(w http.ResponseWriter, data interface{}) {
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func (f *fakeSchoolApi) router(t *testing.T) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/login" && r.Header.Get("Authorization") != "Bearer remote-token" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"success":false,"message":"Unauthenticated."}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req entity.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"success":false,"message":"Identifiants invalides"}`))
			return
		}
		write(w, map[string]interface{}{
			"token": "remote-token",
			"user":  entity.UserProfile{ID: 1, Name: "Fatou", Email: req.Email, Role: entity.SecretaryRole},
		})
	})
	r.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.logouts.Add(1)
		write(w, nil)
	})
	r.Get("/school-years", func(w http.ResponseWriter, r *http.Request) {
		f.yearLists.Add(1)
		f.mu.Lock()
		defer f.mu.Unlock()
		write(w, f.years())
	})
	r.Get("/school-years/active", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(f.activeDelay)
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, y := range f.years() {
			if y.IsActive {
				write(w, []entity.SchoolYear{y})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Aucune année scolaire active"}`))
	})
	r.Post("/school-years/{id}/activate", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(r, "id"))
		f.mu.Lock()
		f.activeID = id
		f.mu.Unlock()
		write(w, nil)
	})
	r.Get("/classrooms", func(w http.ResponseWriter, r *http.Request) {
		f.remember("/classrooms", r)
		write(w, map[string]interface{}{
			"data":         []entity.Classroom{{ID: 10, Name: "6e A"}},
			"current_page": 1, "last_page": 1, "total": 1, "per_page": 10,
		})
	})
	r.Get("/grades", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "4", r.URL.Query().Get("classroom_id"))
		score := func(v float64) *float64 { return &v }
		page := r.URL.Query().Get("page")
		var grades []entity.Grade
		if page == "1" {
			grades = []entity.Grade{
				{ID: 1, StudentID: 7, Score: score(12), Coefficient: 1},
				{ID: 2, StudentID: 8, Score: score(15), Coefficient: 1},
			}
		} else {
			grades = []entity.Grade{{ID: 3, StudentID: 9, Score: score(15), Coefficient: 2}}
		}
		write(w, map[string]interface{}{
			"data": grades, "current_page": page, "last_page": 2, "total": 3, "per_page": 100,
		})
	})
	r.Get("/enrollments", func(w http.ResponseWriter, r *http.Request) {
		f.remember("/enrollments", r)
		write(w, map[string]interface{}{
			"data":         []entity.Enrollment{{ID: 20, StudentID: 5, ClassroomID: 10}},
			"current_page": 1, "last_page": 1, "total": 1, "per_page": 10,
		})
	})
	r.Get("/report-cards", func(w http.ResponseWriter, r *http.Request) {
		f.remember("/report-cards", r)
		write(w, map[string]interface{}{
			"data":         []entity.ReportCard{{ID: 30, StudentID: 5}},
			"current_page": 1, "last_page": 1, "total": 1, "per_page": 10,
		})
	})
	r.Get("/students/{id}/balance", func(w http.ResponseWriter, r *http.Request) {
		f.remember("/balance", r)
		write(w, map[string]interface{}{"total_due": 100000, "total_paid": 25000})
	})
	return r
}

type recordedEvent struct {
	session string
	kind    string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *fakeNotifier) Publish(sessionID, eventType string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{sessionID, eventType})
}

func (n *fakeNotifier) count(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.kind == kind {
			c++
		}
	}
	return c
}

func newTestCore(t *testing.T, api *fakeSchoolApi) (*Core, *repository.Memory, *fakeNotifier) {
	srv := httptest.NewServer(api.router(t))
	t.Cleanup(srv.Close)

	conf := &config.Config{}
	conf.SchoolApi.BaseURL = srv.URL
	conf.SchoolApi.Timeout = 2 * time.Second
	conf.SchoolApi.PerPage = 10
	conf.Session.TTL = time.Hour
	conf.Session.Secret = "test-secret"

	c := New(conf, slog.New(slog.NewTextHandler(io.Discard, nil)))
	repo := repository.NewMemory()
	notifier := &fakeNotifier{}
	c.SetRepository(repo)
	c.SetNotifier(notifier)
	return c, repo, notifier
}

func login(t *testing.T, c *Core) *LoginResult {
	res, err := c.Login(context.Background(), entity.LoginRequest{Email: "fatou@ecole.test", Password: "secret"})
	require.NoError(t, err)
	return res
}

func TestLoginResolvesActiveYear(t *testing.T) {
	c, repo, notifier := newTestCore(t, &fakeSchoolApi{activeID: 2})

	res := login(t, c)

	assert.NotEmpty(t, res.Token)
	assert.Equal(t, res.Session.ID, res.Token)
	require.NotNil(t, res.ActiveYear.ActiveSchoolYear)
	assert.Equal(t, 2, res.ActiveYear.ActiveSchoolYear.ID)
	assert.False(t, res.Can["manage_school_years"])
	assert.True(t, res.Can["create"])

	stored, err := repo.GetSession(context.Background(), res.Token)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "remote-token", stored.Token)
	assert.GreaterOrEqual(t, notifier.count(EventActiveYear), 2)
}

func TestLoginFailureKeepsNoSession(t *testing.T) {
	c, _, _ := newTestCore(t, &fakeSchoolApi{activeID: 2})
	_, err := c.Login(context.Background(), entity.LoginRequest{Email: "x@ecole.test", Password: "wrong"})
	require.Error(t, err)
	assert.Empty(t, c.workspaces)
}

func TestScreenDefaultsToActiveYear(t *testing.T) {
	api := &fakeSchoolApi{activeID: 2}
	c, _, _ := newTestCore(t, api)
	res := login(t, c)

	screen, err := c.Screen(context.Background(), res.Session, ClassroomsScreen)
	require.NoError(t, err)
	v, err := screen.Mount(context.Background())
	require.NoError(t, err)

	require.NotNil(t, v.SelectedYear)
	assert.Equal(t, 2, v.SelectedYear.ID)
	assert.Equal(t, "2", api.query("/classrooms")["school_year_id"])
	assert.Equal(t, "1", api.query("/classrooms")["page"])

	_, err = c.Screen(context.Background(), res.Session, "canteen")
	assert.ErrorIs(t, err, ErrUnknownScreen)
}

func TestActivateInvalidatesYearsAndRefreshes(t *testing.T) {
	api := &fakeSchoolApi{}
	c, _, _ := newTestCore(t, api)
	res := login(t, c)
	ctx := context.Background()

	assert.Equal(t, activeyear.Unavailable, res.ActiveYear.Status)
	assert.Equal(t, "Aucune année scolaire active", res.ActiveYear.Error)

	_, err := c.SchoolYears(ctx, res.Session)
	require.NoError(t, err)
	_, err = c.SchoolYears(ctx, res.Session)
	require.NoError(t, err)
	assert.Equal(t, int32(1), api.yearLists.Load())

	year, err := c.ActivateSchoolYear(ctx, res.Session, 3)
	require.NoError(t, err)
	require.NotNil(t, year)
	assert.Equal(t, 3, year.ID)
	assert.Equal(t, activeyear.Resolved, c.ActiveYear(ctx, res.Session).Status)

	years, err := c.SchoolYears(ctx, res.Session)
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.yearLists.Load())
	assert.True(t, years[2].IsActive)
}

func TestLogoutClosesSession(t *testing.T) {
	api := &fakeSchoolApi{activeID: 1}
	c, repo, notifier := newTestCore(t, api)
	res := login(t, c)

	require.NoError(t, c.Logout(context.Background(), res.Session))

	assert.Equal(t, int32(1), api.logouts.Load())
	assert.Equal(t, 1, notifier.count(EventSessionClosed))
	stored, _ := repo.GetSession(context.Background(), res.Token)
	assert.Nil(t, stored)

	_, err := c.AuthenticateByToken(res.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExpiredSessionIsRejected(t *testing.T) {
	c, repo, _ := newTestCore(t, &fakeSchoolApi{activeID: 1})
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, repo.SaveSession(context.Background(), &entity.Session{ID: "old", Token: "remote-token", LastSeen: old}))

	_, err := c.AuthenticateByToken("old")
	assert.ErrorIs(t, err, ErrSessionExpired)

	stored, _ := repo.GetSession(context.Background(), "old")
	assert.Nil(t, stored)
}

func TestAuthenticateTouchesSession(t *testing.T) {
	c, _, _ := newTestCore(t, &fakeSchoolApi{activeID: 1})
	res := login(t, c)

	session, err := c.AuthenticateByToken(res.Token)
	require.NoError(t, err)
	assert.False(t, session.LastSeen.Before(res.Session.LastSeen))

	id, err := c.ValidateToken(c.Ticket(res.Session))
	require.NoError(t, err)
	assert.Equal(t, res.Token, id)

	_, err = c.ValidateToken(res.Token)
	assert.ErrorIs(t, err, ErrInvalidTicket)
}

func TestCleanupSessions(t *testing.T) {
	c, repo, _ := newTestCore(t, &fakeSchoolApi{activeID: 1})
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.SaveSession(ctx, &entity.Session{ID: fmt.Sprint(i), LastSeen: time.Now().Add(-3 * time.Hour)}))
	}
	n, err := c.CleanupSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestClassroomRankingWalksPages(t *testing.T) {
	c, _, _ := newTestCore(t, &fakeSchoolApi{activeID: 2})
	res := login(t, c)

	ranked, err := c.ClassroomRanking(context.Background(), res.Session, 4, 0)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, 8, ranked[0].Item.StudentID)
	assert.Equal(t, 9, ranked[1].Item.StudentID)
	assert.Equal(t, 7, ranked[2].Item.StudentID)
	assert.Equal(t, []int{1, 2, 3}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank})
}

func TestStudentBalance(t *testing.T) {
	c, _, _ := newTestCore(t, &fakeSchoolApi{activeID: 2})
	res := login(t, c)

	balance, err := c.StudentBalance(context.Background(), res.Session, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 75000.0, balance.Remaining)
	assert.Equal(t, 5, balance.StudentID)
}

func TestDirectoriesDefaultToActiveYear(t *testing.T) {
	api := &fakeSchoolApi{activeID: 2}
	c, _, _ := newTestCore(t, api)
	res := login(t, c)
	ctx := context.Background()

	list, err := c.Enrollments(ctx, res.Session, school.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Pagination.TotalItems)
	assert.Equal(t, "2", api.query("/enrollments")["school_year_id"])

	_, err = c.ReportCards(ctx, res.Session, school.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, "2", api.query("/report-cards")["school_year_id"])

	_, err = c.StudentBalance(ctx, res.Session, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, "2", api.query("/balance")["school_year_id"])

	_, err = c.ReportCards(ctx, res.Session, school.ListQuery{SchoolYearID: 1})
	require.NoError(t, err)
	assert.Equal(t, "1", api.query("/report-cards")["school_year_id"])
}

func TestDirectoriesWithoutActiveYearAreUnfiltered(t *testing.T) {
	api := &fakeSchoolApi{}
	c, _, _ := newTestCore(t, api)
	res := login(t, c)
	ctx := context.Background()
	require.Equal(t, activeyear.Unavailable, res.ActiveYear.Status)

	_, err := c.Enrollments(ctx, res.Session, school.ListQuery{})
	require.NoError(t, err)
	assert.NotContains(t, api.query("/enrollments"), "school_year_id")

	_, err = c.ReportCards(ctx, res.Session, school.ListQuery{})
	require.NoError(t, err)
	assert.NotContains(t, api.query("/report-cards"), "school_year_id")

	_, err = c.StudentBalance(ctx, res.Session, 5, 0)
	require.NoError(t, err)
	assert.NotContains(t, api.query("/balance"), "school_year_id")
}

func TestGreeting(t *testing.T) {
	c, _, _ := newTestCore(t, &fakeSchoolApi{activeID: 2})
	assert.Nil(t, c.Greeting("nobody"))

	res := login(t, c)
	event := c.Greeting(res.Token)
	require.NotNil(t, event)
	assert.Equal(t, EventActiveYear, event.Type)
	st := event.Data.(activeyear.State)
	assert.Equal(t, 2, st.ActiveSchoolYear.ID)

	require.NoError(t, c.HandleRefresh(res.Token))
	assert.Error(t, c.HandleRefresh("nobody"))
}

func TestConcurrentFirstUseWaitsForResolution(t *testing.T) {
	c, repo, _ := newTestCore(t, &fakeSchoolApi{activeID: 2, activeDelay: 50 * time.Millisecond})
	session := &entity.Session{ID: "restored", Token: "remote-token", LastSeen: time.Now()}
	require.NoError(t, repo.SaveSession(context.Background(), session))

	states := make([]activeyear.State, 4)
	var wg sync.WaitGroup
	for i := range states {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i] = c.ActiveYear(context.Background(), session)
		}(i)
	}
	wg.Wait()

	for _, st := range states {
		assert.Equal(t, activeyear.Resolved, st.Status)
		assert.False(t, st.Loading)
		require.NotNil(t, st.ActiveSchoolYear)
		assert.Equal(t, 2, st.ActiveSchoolYear.ID)
	}
}

func TestGreetingForStoredSession(t *testing.T) {
	c, repo, _ := newTestCore(t, &fakeSchoolApi{activeID: 3})
	require.NoError(t, repo.SaveSession(context.Background(), &entity.Session{ID: "restored", Token: "remote-token", LastSeen: time.Now()}))

	event := c.Greeting("restored")
	require.NotNil(t, event)
	assert.Equal(t, EventActiveYear, event.Type)
	st := event.Data.(activeyear.State)
	assert.Equal(t, activeyear.Resolved, st.Status)
	require.NotNil(t, st.ActiveSchoolYear)
	assert.Equal(t, 3, st.ActiveSchoolYear.ID)
}
