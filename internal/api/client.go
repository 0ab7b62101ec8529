package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// RequestTimeout is the per-call timeout for API requests.
const RequestTimeout = 5 * time.Second

// Client talks to the remote task API. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client for the API at baseURL (no trailing slash).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  slog.Default(),
	}
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	c := New(baseURL)
	c.http = httpClient
	return c
}

// Login submits form-encoded credentials to the token endpoint via the
// OAuth2 resource-owner password grant. A 200 yields the user's email and
// access token; any other status maps to ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseURL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := conf.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			c.logger.Debug("login rejected", "status", retrieveErr.Response.StatusCode)
			return User{}, ErrInvalidCredentials
		}
		return User{}, &NetworkError{Op: "login", Err: err}
	}

	c.logger.Debug("login ok", "email", email)
	return User{Email: email, Token: tok.AccessToken}, nil
}

// Register submits JSON credentials to the registration endpoint. The
// password-length precondition is enforced before any network call. A
// successful registration does not itself yield a session; it chains into
// Login with the same credentials.
func (c *Client) Register(ctx context.Context, email, password string) (User, error) {
	if len(password) < 6 {
		return User{}, ErrWeakPassword
	}

	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return User{}, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/register", bytes.NewReader(body))
	if err != nil {
		return User{}, err
	}
	req.Header.Set("Content-Type", "application/json;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return User{}, &NetworkError{Op: "register", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("register rejected", "status", resp.StatusCode)
		return User{}, &RegistrationRejectedError{Detail: readDetail(resp.Body)}
	}
	io.Copy(io.Discard, resp.Body)

	return c.Login(ctx, email, password)
}

// FetchProfile issues an authenticated GET for the current user. A body
// carrying both an email and a password hash is a valid profile; any other
// body is surfaced as ProfileUnavailableError with the server's detail.
func (c *Client) FetchProfile(ctx context.Context, token string) (Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	resp, err := c.get(ctx, "/users/me", token)
	if err != nil {
		return Profile{}, &NetworkError{Op: "profile", Err: err}
	}
	defer resp.Body.Close()

	var body struct {
		Email          string `json:"email"`
		HashedPassword string `json:"hashed_password"`
		Detail         string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Profile{}, &ProfileUnavailableError{}
	}
	if body.Email != "" && body.HashedPassword != "" {
		return Profile{Email: body.Email, Token: body.HashedPassword}, nil
	}
	c.logger.Debug("profile unavailable", "status", resp.StatusCode)
	return Profile{}, &ProfileUnavailableError{Detail: body.Detail}
}

// FetchTasks issues an authenticated GET /tasks. The HTTP status is always
// reported so the caller can derive its view state; err is non-nil only for
// transport failures or an unparseable 200 body.
func (c *Client) FetchTasks(ctx context.Context, token string) ([]Task, int, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	resp, err := c.get(ctx, "/tasks", token)
	if err != nil {
		return nil, 0, &NetworkError{Op: "tasks", Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("fetch tasks", "status", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}

	var tasks []Task
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return nil, resp.StatusCode, &NetworkError{Op: "tasks", Err: err}
	}
	return tasks, resp.StatusCode, nil
}

// UpdateTask sends the full task record via authenticated PUT. Any non-200
// status is reported as a StatusError; failures are never dropped.
func (c *Client) UpdateTask(ctx context.Context, token, id string, rec TaskRecord) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.taskURL(id), bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: "update task", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.logger.Debug("update task", "id", id, "status", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Op: "update task", Code: resp.StatusCode}
	}
	return nil
}

// DeleteTask issues an authenticated DELETE. Only a 200 counts as a
// confirmed delete.
func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.taskURL(id), nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: "delete task", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.logger.Debug("delete task", "id", id, "status", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Op: "delete task", Code: resp.StatusCode}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, token)
	return c.http.Do(req)
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
}

func (c *Client) taskURL(id string) string {
	return c.baseURL + "/tasks/" + url.PathEscape(id)
}

// readDetail extracts the "detail" field from an error response body.
func readDetail(r io.Reader) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	return body.Detail
}
