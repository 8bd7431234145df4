package entity

import (
	"time"
)

const (
	AdminRole     = "admin"
	DirectorRole  = "directeur"
	SecretaryRole = "secretaire"
	TeacherRole   = "enseignant"
)

// UserProfile is the minimal profile kept next to the remote token.
type UserProfile struct {
	ID    int    `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Role  string `json:"role" bson:"role"`
}

// Session is one signed-in console user. ID is handed to the browser, Token
// is the bearer token of the remote API and never leaves the server.
type Session struct {
	ID        string      `json:"id" bson:"_id"`
	Token     string      `json:"-" bson:"token"`
	User      UserProfile `json:"user" bson:"user"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	LastSeen  time.Time   `json:"last_seen" bson:"last_seen"`
}

func (s *Session) IsTeacher() bool {
	return s.User.Role == TeacherRole
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

// HasToken reports whether the remote API can be called for this session.
func (s *Session) HasToken() bool {
	return s != nil && s.Token != ""
}
