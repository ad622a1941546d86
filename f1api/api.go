package f1api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"f1dashboard/session"
	"f1dashboard/temperrors"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type F1API struct {
	url       string
	http      *http.Client
	tokens    session.TokenStore
	navigator session.Navigator
	log       *slog.Logger
}

type Option func(*F1API)

func WithHTTPClient(c *http.Client) Option {
	return func(api *F1API) { api.http = c }
}

func WithTokenStore(s session.TokenStore) Option {
	return func(api *F1API) { api.tokens = s }
}

// WithNavigator sets where a 401 redirects to the login route.
func WithNavigator(n session.Navigator) Option {
	return func(api *F1API) { api.navigator = n }
}

func WithLogger(log *slog.Logger) Option {
	return func(api *F1API) { api.log = log }
}

func NewF1API(baseURL string, opts ...Option) *F1API {
	api := &F1API{
		url:  strings.TrimRight(baseURL, "/"),
		http: http.DefaultClient,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(api)
	}
	return api
}

func (api *F1API) BaseURL() string { return api.url }

func (api *F1API) getRequest(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, api.url+path, nil)
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	if api.tokens != nil {
		token, err := api.tokens.Token()
		if err != nil {
			api.log.Warn("Error reading token", slog.Any("error", err))
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := api.http.Do(req)
	if err != nil {
		return fmt.Errorf("error in getRequest: %w", err)
	}
	defer resp.Body.Close()

	api.log.Debug("GET request",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", reqID))

	if resp.StatusCode == http.StatusUnauthorized {
		api.unauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return temperrors.NewStatusError(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error reading responce: %w", err)
	}
	return nil
}

func (api *F1API) unauthorized() {
	api.log.Info("Unauthorized, redirecting to login")
	if api.tokens != nil {
		if err := api.tokens.ClearToken(); err != nil {
			api.log.Error("Error clearing token", slog.Any("error", err))
		}
	}
	if api.navigator != nil {
		api.navigator.Navigate(session.RouteLogin)
	}
}
