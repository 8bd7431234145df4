package school

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/lib/envelope"
	"context"
	"fmt"
	"net/http"
)

type loginData struct {
	Token       string             `json:"token"`
	AccessToken string             `json:"access_token"`
	User        entity.UserProfile `json:"user"`
}

// Login exchanges credentials for a bearer token. It works on a service
// built without a token.
func (s *Service) Login(ctx context.Context, req entity.LoginRequest) (string, entity.UserProfile, error) {
	env, err := s.call(ctx, http.MethodPost, "auth/login", nil, req)
	if err != nil {
		return "", entity.UserProfile{}, err
	}

	data, ok, err := envelope.First[loginData](envelope.NormalizeData(env.Data))
	if err != nil {
		return "", entity.UserProfile{}, fmt.Errorf("decode login: %w", err)
	}
	token := data.Token
	if token == "" {
		token = data.AccessToken
	}
	if !ok || token == "" {
		return "", entity.UserProfile{}, &EnvelopeError{Message: "no token in login answer"}
	}
	return token, data.User, nil
}

func (s *Service) Logout(ctx context.Context) error {
	_, err := s.call(ctx, http.MethodPost, "auth/logout", nil, nil)
	return err
}
