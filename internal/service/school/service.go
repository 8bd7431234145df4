package school

import (
	"SchoolDesk/internal/lib/envelope"
	"SchoolDesk/internal/lib/sl"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const DefaultTimeout = 30 * time.Second

// Service talks to the remote school API on behalf of one session.
type Service struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewService builds a client for baseURL. Every request carries
// "Authorization: Bearer <token>" unless token is empty.
func NewService(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := &http.Client{Timeout: timeout}
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}))
		client.Timeout = timeout
	}

	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		log:     logger.With(sl.Module("school api")),
	}
}

func (s *Service) buildURL(path string, query url.Values) (string, error) {
	u, err := url.Parse(s.baseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// do performs the request and returns the raw body of a 2xx answer.
func (s *Service) do(ctx context.Context, method, path string, query url.Values, payload interface{}) (body []byte, err error) {
	fullURL, err := s.buildURL(path, query)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := s.log.With(
		slog.String("url", fullURL),
		slog.String("method", method),
	)
	t := time.Now()
	defer func() {
		log = log.With(slog.Duration("duration", time.Since(t)))
		if err != nil {
			log.Debug("school api request", sl.Err(err))
		} else {
			log.Debug("school api request")
		}
	}()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := http.StatusText(resp.StatusCode)
		if env, perr := envelope.Parse(body); perr == nil && env.Message != "" {
			message = env.Message
		}
		return nil, &StatusError{Code: resp.StatusCode, Message: message}
	}

	return body, nil
}

// call performs the request and checks the success flag of the envelope.
func (s *Service) call(ctx context.Context, method, path string, query url.Values, payload interface{}) (envelope.Envelope, error) {
	body, err := s.do(ctx, method, path, query, payload)
	if err != nil {
		return envelope.Envelope{}, err
	}
	env, err := envelope.Parse(body)
	if err != nil {
		return envelope.Envelope{}, err
	}
	if !env.Success {
		return env, &EnvelopeError{Message: env.Message}
	}
	return env, nil
}
