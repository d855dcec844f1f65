package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

const (
	credentialsFile = "credentials.json"
	tokenKey        = "oauth_tokens"
)

// ErrNotConnected is returned when no OAuth token has been stored yet.
var ErrNotConnected = errors.New("google account not connected, run the 'auth' command first")

// TokenStore is where the OAuth token is persisted.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Auth ties an OAuth client configuration to the token kept in the
// settings store.
type Auth struct {
	config *oauth2.Config
	store  TokenStore
	logger *slog.Logger
}

// NewAuth builds the OAuth configuration. Environment credentials take
// precedence over a local credentials.json file. The redirect goes to the
// loopback listener at redirectAddr.
func NewAuth(logger *slog.Logger, store TokenStore, clientID, clientSecret, redirectAddr string) (*Auth, error) {
	config, err := oauthConfig(clientID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth config: %w", err)
	}
	config.RedirectURL = "http://" + redirectAddr
	return &Auth{config: config, store: store, logger: logger}, nil
}

func oauthConfig(clientID, clientSecret string) (*oauth2.Config, error) {
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{calendar.CalendarReadonlyScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("credentials.json not found. Please provide GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars or place credentials.json in the working directory")
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	return config, nil
}

// AuthCodeURL is the consent page the user has to visit.
func (a *Auth) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token and stores it.
func (a *Auth) Exchange(ctx context.Context, code string) error {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("unable to exchange authorization code: %w", err)
	}
	return a.saveToken(ctx, token)
}

// Connected reports whether a token is stored.
func (a *Auth) Connected(ctx context.Context) (bool, error) {
	_, ok, err := a.store.Get(ctx, tokenKey)
	return ok, err
}

// Disconnect forgets the stored token.
func (a *Auth) Disconnect(ctx context.Context) error {
	if err := a.store.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// HTTPClient returns a client that authorizes requests with the stored
// token and refreshes it when it expires.
func (a *Auth) HTTPClient(ctx context.Context) (*http.Client, error) {
	token, err := a.loadToken(ctx)
	if err != nil {
		return nil, err
	}
	src := &savingTokenSource{
		ctx:    ctx,
		base:   a.config.TokenSource(ctx, token),
		auth:   a,
		latest: token.AccessToken,
	}
	return oauth2.NewClient(ctx, src), nil
}

func (a *Auth) loadToken(ctx context.Context) (*oauth2.Token, error) {
	raw, ok, err := a.store.Get(ctx, tokenKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	if !ok {
		return nil, ErrNotConnected
	}
	token := &oauth2.Token{}
	if err := json.Unmarshal([]byte(raw), token); err != nil {
		return nil, fmt.Errorf("failed to decode stored token: %w", err)
	}
	return token, nil
}

func (a *Auth) saveToken(ctx context.Context, token *oauth2.Token) error {
	b, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := a.store.Set(ctx, tokenKey, string(b)); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// savingTokenSource writes every newly issued access token back to the
// store.
type savingTokenSource struct {
	ctx  context.Context
	base oauth2.TokenSource
	auth *Auth

	mu     sync.Mutex
	latest string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken == s.latest {
		return token, nil
	}
	if err := s.auth.saveToken(s.ctx, token); err != nil {
		return nil, err
	}
	s.latest = token.AccessToken
	s.auth.logger.Debug("Stored refreshed OAuth token", "expiry", token.Expiry)
	return token, nil
}

// WaitForCode serves a single OAuth redirect on ln and returns the
// authorization code it carries. A state mismatch or an error parameter
// fails the flow.
func WaitForCode(ctx context.Context, ln net.Listener, state string) (string, error) {
	type result struct {
		code string
		err  error
	}
	results := make(chan result, 1)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var res result
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("state") != state:
			res.err = errors.New("state mismatch in OAuth redirect")
		case q.Get("code") == "":
			res.err = errors.New("no auth code in redirect")
		default:
			res.code = q.Get("code")
		}

		w.Header().Set("Content-Type", "text/html")
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "<html><body><h1>Connection failed</h1><p>%s</p></body></html>", res.err)
		} else {
			fmt.Fprint(w, "<html><body><h1>Connected!</h1><p>You can close this tab and return to WorkPlate.</p></body></html>")
		}

		select {
		case results <- res:
		default:
		}
	})

	srv := &http.Server{Handler: handler}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case results <- result{err: fmt.Errorf("redirect listener failed: %w", err)}:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case res := <-results:
		return res.code, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("timed out waiting for OAuth redirect: %w", ctx.Err())
	}
}
