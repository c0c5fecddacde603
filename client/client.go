// Package client talks to the JSON API of the dashboard server the way the browser does:
// it logs in through the form, keeps the session cookie and calls /api/*.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/activity"
	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/classroom"
)

var (
	// ErrUnauthenticated is returned when the server sends the client back to the login page.
	ErrUnauthenticated = errors.New("client: not logged in")
	// ErrInvalidCredentials is returned by Login when the server rejects the username or the password.
	ErrInvalidCredentials = errors.New("client: invalid credentials")
)

// APIError is a non-2xx answer of the API.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("%d: %s", err.Status, err.Message)
}

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type (
	successResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	classCreatedResponse struct {
		successResponse
		ClassID int `json:"classId"`
	}

	studentCreatedResponse struct {
		successResponse
		Student classroom.Student `json:"student"`
	}

	errorResponse struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
)

type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New returns a client of the server at baseURL. When httpClient is nil a client with its own cookie jar is used;
// a given httpClient must carry a cookie jar. Redirects are never followed.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing base URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid base URL %q", baseURL)
	}

	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		httpClient = &http.Client{Jar: jar}
	}
	c := *httpClient
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &Client{baseURL: u, http: &c}, nil
}

func (c *Client) url(path string, q url.Values) string {
	u := *c.baseURL
	u.Path += path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusFound || resp.StatusCode == http.StatusSeeOther:
		if strings.HasPrefix(resp.Header.Get("Location"), "/login") {
			return ErrUnauthenticated
		}
		return &APIError{Status: resp.StatusCode, Message: "unexpected redirect to " + resp.Header.Get("Location")}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s %s", req.Method, req.URL.Path)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Error != "" {
		apiErr.Message = er.Error
		apiErr.Fields = er.Fields
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

func (c *Client) call(ctx context.Context, method, path string, q url.Values, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, q), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// Login submits the login form. The session cookie is kept for the following calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{"username": {username}, "password": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/login", nil), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusFound:
		if resp.Header.Get("Location") == "/dashboard" {
			return nil
		}
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	}
	return &APIError{Status: resp.StatusCode, Message: "login failed"}
}

func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/logout", nil), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "logging out")
	}
	return resp.Body.Close()
}

// classes

func (c *Client) Classes(ctx context.Context) ([]classroom.Class, error) {
	var classes []classroom.Class
	err := c.call(ctx, http.MethodGet, "/api/classes", nil, nil, &classes)
	return classes, err
}

func (c *Client) CreateClass(ctx context.Context, name string) (int, error) {
	var resp classCreatedResponse
	err := c.call(ctx, http.MethodPost, "/api/classes", nil, classroom.ClassInput{Name: name}, &resp)
	return resp.ClassID, err
}

func (c *Client) RenameClass(ctx context.Context, classID int, name string) error {
	return c.call(ctx, http.MethodPut, "/api/classes/"+strconv.Itoa(classID), nil, classroom.ClassInput{Name: name}, nil)
}

func (c *Client) DeleteClass(ctx context.Context, classID int) error {
	return c.call(ctx, http.MethodDelete, "/api/classes/"+strconv.Itoa(classID), nil, nil, nil)
}

func (c *Client) Roster(ctx context.Context, classID int) ([]classroom.Student, error) {
	var students []classroom.Student
	err := c.call(ctx, http.MethodGet, "/api/classes/"+strconv.Itoa(classID)+"/students", nil, nil, &students)
	return students, err
}

func (c *Client) AddStudent(ctx context.Context, classID, studentID int) error {
	in := classroom.MembershipInput{StudentID: classroom.ID(studentID)}
	return c.call(ctx, http.MethodPost, "/api/classes/"+strconv.Itoa(classID)+"/add-student", nil, in, nil)
}

func (c *Client) RemoveStudent(ctx context.Context, classID, studentID int) error {
	path := "/api/classes/" + strconv.Itoa(classID) + "/remove-student/" + strconv.Itoa(studentID)
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}

// students

func (c *Client) Students(ctx context.Context) ([]classroom.Student, error) {
	var students []classroom.Student
	err := c.call(ctx, http.MethodGet, "/api/students/all", nil, nil, &students)
	return students, err
}

func (c *Client) CreateStudent(ctx context.Context, in classroom.StudentInput) (classroom.Student, error) {
	var resp studentCreatedResponse
	err := c.call(ctx, http.MethodPost, "/api/students", nil, in, &resp)
	return resp.Student, err
}

func (c *Client) UpdateStudent(ctx context.Context, studentID int, in classroom.StudentInput) error {
	return c.call(ctx, http.MethodPut, "/api/students/"+strconv.Itoa(studentID), nil, in, nil)
}

// activity

func (c *Client) Logs(ctx context.Context, f activity.Filter) ([]activity.LogEntry, error) {
	var logs []activity.LogEntry
	err := c.call(ctx, http.MethodGet, "/api/logs/filtered", f.Values(), nil, &logs)
	return logs, err
}

func (c *Client) Summary(ctx context.Context, f activity.Filter) ([]activity.UserSummary, error) {
	var summaries []activity.UserSummary
	err := c.call(ctx, http.MethodGet, "/api/users/summary", f.Values(), nil, &summaries)
	return summaries, err
}

func (c *Client) Alerts(ctx context.Context, f activity.Filter) ([]activity.LogEntry, error) {
	var logs []activity.LogEntry
	err := c.call(ctx, http.MethodGet, "/api/alerts", f.Values(), nil, &logs)
	return logs, err
}

func (c *Client) StudentAlerts(ctx context.Context, alunoID string, tier activity.Tier) ([]activity.LogEntry, error) {
	var logs []activity.LogEntry
	path := "/api/alerts/" + alunoID + "/" + string(tier)
	err := c.call(ctx, http.MethodGet, path, nil, nil, &logs)
	return logs, err
}

func (c *Client) TopSites(ctx context.Context, f activity.Filter) ([]activity.SiteUsage, error) {
	var sites []activity.SiteUsage
	err := c.call(ctx, http.MethodGet, "/api/logs/top-sites", f.Values(), nil, &sites)
	return sites, err
}
