// Package client is a typed API client for the taskboard server. Session
// state is held by an explicit SessionStore with a load/save/clear
// lifecycle, never package-level globals.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/taskboard/taskboard-api/internal/dto"
)

// APIError is the error payload returned by the server.
type APIError struct {
	StatusCode int               `json:"-"`
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Client calls the taskboard REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      SessionStore
}

// New creates a client against baseURL, persisting sessions in store.
func New(baseURL string, store SessionStore) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
	}
}

// RegisterInput is the payload for Register.
type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
}

// Register creates a company and its admin, saving the returned session.
func (c *Client) Register(input RegisterInput) (*Session, error) {
	var resp dto.AuthResponse
	if err := c.do(http.MethodPost, "/register", nil, input, &resp); err != nil {
		return nil, err
	}
	return c.saveSession(resp)
}

// Login authenticates and saves the returned session.
func (c *Client) Login(email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var resp dto.AuthResponse
	if err := c.do(http.MethodPost, "/login", nil, body, &resp); err != nil {
		return nil, err
	}
	return c.saveSession(resp)
}

// Logout clears the saved session. The token itself simply expires.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// Me returns the user behind the saved session.
func (c *Client) Me() (*dto.UserDTO, error) {
	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	var user dto.UserDTO
	if err := c.doAuthed(session, http.MethodGet, "/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// TaskFilters narrows ListTasks by equality on status and priority.
type TaskFilters struct {
	Status   string
	Priority string
}

// ListTasks returns the caller's visible tasks.
func (c *Client) ListTasks(filters TaskFilters) ([]dto.TaskDTO, error) {
	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}
	if filters.Priority != "" {
		query.Set("priority", filters.Priority)
	}

	var tasks []dto.TaskDTO
	if err := c.doAuthed(session, http.MethodGet, "/tasks", query, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// TaskInput is the payload for CreateTask and UpdateTask. Nil fields are
// omitted, which makes updates partial.
type TaskInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
	HoursWorked *float64   `json:"hours_worked,omitempty"`
	AssigneeID  *uint64    `json:"assignee_id,omitempty"`
}

// CreateTask creates a task.
func (c *Client) CreateTask(input TaskInput) (*dto.TaskDTO, error) {
	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	var task dto.TaskDTO
	if err := c.doAuthed(session, http.MethodPost, "/tasks", nil, input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask fetches a single task.
func (c *Client) GetTask(id uint64) (*dto.TaskDTO, error) {
	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	var task dto.TaskDTO
	if err := c.doAuthed(session, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(id uint64, input TaskInput) (*dto.TaskDTO, error) {
	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	var task dto.TaskDTO
	if err := c.doAuthed(session, http.MethodPut, fmt.Sprintf("/tasks/%d", id), nil, input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(id uint64) error {
	session, err := c.store.Load()
	if err != nil {
		return err
	}

	return c.doAuthed(session, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil, nil)
}

// AdminDashboard fetches company-wide statistics.
func (c *Client) AdminDashboard() (*dto.DashboardDTO, error) {
	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	var stats dto.DashboardDTO
	if err := c.doAuthed(session, http.MethodGet, "/admin/dashboard", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminListTasks fetches every company task.
func (c *Client) AdminListTasks() ([]dto.TaskDTO, error) {
	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	var tasks []dto.TaskDTO
	if err := c.doAuthed(session, http.MethodGet, "/admin/tasks", nil, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// AdminListUsers fetches every company user.
func (c *Client) AdminListUsers() ([]dto.UserDTO, error) {
	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	var users []dto.UserDTO
	if err := c.doAuthed(session, http.MethodGet, "/admin/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUserInput is the payload for AdminCreateUser.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// AdminCreateUser adds a user to the admin's company.
func (c *Client) AdminCreateUser(input CreateUserInput) (*dto.UserDTO, error) {
	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	var user dto.UserDTO
	if err := c.doAuthed(session, http.MethodPost, "/admin/users", nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) saveSession(resp dto.AuthResponse) (*Session, error) {
	session := &Session{
		Token:   resp.Token,
		User:    resp.User,
		Company: resp.Company,
	}
	if err := c.store.Save(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

func (c *Client) do(method, path string, query url.Values, body, out any) error {
	return c.request(method, path, query, "", body, out)
}

func (c *Client) doAuthed(session *Session, method, path string, query url.Values, body, out any) error {
	return c.request(method, path, query, session.Token, body, out)
}

func (c *Client) request(method, path string, query url.Values, token string, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Code = "UNKNOWN"
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
