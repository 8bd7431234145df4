package authenticate

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/lib/api/cont"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeAuth map[string]*entity.Session

func (f fakeAuth) AuthenticateByToken(token string) (*entity.Session, error) {
	if s, ok := f[token]; ok {
		return s, nil
	}
	return nil, errors.New("session not found")
}

func TestAuthenticate(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth := fakeAuth{"abc": {ID: "abc", User: entity.UserProfile{Email: "a@ecole.test", Role: entity.AdminRole}}}

	var seen *entity.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = cont.GetSession(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := New(log, auth)(next)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"unknown session", "Bearer zzz", http.StatusUnauthorized},
		{"valid", "Bearer abc", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, "abc", seen.ID)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}
