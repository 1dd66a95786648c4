package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/taskboard-api/internal/dto"
)

func authPayload() dto.AuthResponse {
	return dto.AuthResponse{
		Token: "test-token",
		User: dto.UserDTO{
			ID:    1,
			Name:  "Founder",
			Email: "founder@acme.example",
			Role:  "admin",
		},
		Company: dto.CompanyDTO{ID: 1, Name: "Acme", Slug: "acme"},
	}
}

func TestClient_RegisterSavesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/register", r.URL.Path)

		var input RegisterInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, "Acme", input.CompanyName)

		json.NewEncoder(w).Encode(authPayload())
	}))
	defer server.Close()

	store := NewMemoryStore()
	c := New(server.URL, store)

	session, err := c.Register(RegisterInput{
		Name:        "Founder",
		Email:       "founder@acme.example",
		Password:    "secret123",
		CompanyName: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "test-token", session.Token)
	assert.True(t, session.IsAdmin())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, session.Token, loaded.Token)
}

func TestClient_AuthedRequestsCarryBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]dto.TaskDTO{})
	}))
	defer server.Close()

	store := NewMemoryStore()
	require.NoError(t, store.Save(&Session{Token: "test-token"}))

	c := New(server.URL, store)
	_, err := c.ListTasks(TaskFilters{})
	assert.NoError(t, err)
}

func TestClient_ListTasksEncodesFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		assert.Equal(t, "high", r.URL.Query().Get("priority"))
		json.NewEncoder(w).Encode([]dto.TaskDTO{})
	}))
	defer server.Close()

	store := NewMemoryStore()
	require.NoError(t, store.Save(&Session{Token: "test-token"}))

	c := New(server.URL, store)
	_, err := c.ListTasks(TaskFilters{Status: "pending", Priority: "high"})
	assert.NoError(t, err)
}

func TestClient_DecodesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"code":    "VALIDATION_FAILED",
			"message": "validation failed",
			"details": map[string]string{"title": "title is required"},
		})
	}))
	defer server.Close()

	store := NewMemoryStore()
	require.NoError(t, store.Save(&Session{Token: "test-token"}))

	c := New(server.URL, store)
	_, err := c.CreateTask(TaskInput{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.Code)
	assert.Equal(t, "title is required", apiErr.Details["title"])
}

func TestClient_RequestsFailWithoutSession(t *testing.T) {
	c := New("http://unused.invalid", NewMemoryStore())

	_, err := c.Me()
	assert.True(t, errors.Is(err, ErrNoSession))
}

func TestClient_LogoutClearsSession(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(&Session{Token: "test-token"}))

	c := New("http://unused.invalid", store)
	require.NoError(t, c.Logout())

	_, err := store.Load()
	assert.True(t, errors.Is(err, ErrNoSession))
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	_, err := store.Load()
	assert.True(t, errors.Is(err, ErrNoSession))

	session := &Session{Token: "test-token"}
	session.User.Email = "founder@acme.example"
	require.NoError(t, store.Save(session))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "test-token", loaded.Token)
	assert.Equal(t, "founder@acme.example", loaded.User.Email)

	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.True(t, errors.Is(err, ErrNoSession))

	// Clearing an already-empty store is not an error
	assert.NoError(t, store.Clear())
}
