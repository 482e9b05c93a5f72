package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timada-org/catodo/internal/api"
	"github.com/timada-org/catodo/internal/core"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	facts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"fact":"A group of cats is called a clowder."}`))
	}))
	t.Cleanup(facts.Close)

	weather := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current_weather":{"temperature":12.5,"weathercode":1}}`))
	}))
	t.Cleanup(weather.Close)

	config := &core.Config{
		Addr: ":0",
		Database: core.Database{
			DSN: filepath.Join(t.TempDir(), "catodo.db"),
		},
		JWT: core.JWT{
			Issuer:   "catodo",
			Audience: "catodo-client",
			Key:      "test-signing-key",
		},
		Enrich: core.Enrich{
			CatFactURL: facts.URL,
			WeatherURL: weather.URL,
			Latitude:   52.52,
			Longitude:  13.41,
		},
	}

	app, err := api.New(config)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Handler())
	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func (ts *testServer) do(t *testing.T, method string, path string, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(res.Body).Decode(&decoded)

	return res, decoded
}

func (ts *testServer) signup(t *testing.T, username string) string {
	t.Helper()

	input := map[string]string{"username": username, "password": "s3cret"}

	res, _ := ts.do(t, http.MethodPost, "/api/auth/register", "", input)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, body := ts.do(t, http.MethodPost, "/api/auth/login", "", input)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEmpty(t, body["token"])

	return body["token"].(string)
}

func (ts *testServer) listTodos(t *testing.T, token string) []map[string]any {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/todos", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var views []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&views))

	return views
}

func TestAuthEndpoints(t *testing.T) {

	t.Run("register then login", func(t *testing.T) {
		ts := newTestServer(t)

		token := ts.signup(t, "alice")
		require.NotEmpty(t, token)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		ts := newTestServer(t)

		input := map[string]string{"username": "alice", "password": "s3cret"}

		res, _ := ts.do(t, http.MethodPost, "/api/auth/register", "", input)
		require.Equal(t, http.StatusOK, res.StatusCode)

		res, body := ts.do(t, http.MethodPost, "/api/auth/register", "", input)
		require.Equal(t, http.StatusConflict, res.StatusCode)
		require.Equal(t, "Username already exists.", body["error"])
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		ts := newTestServer(t)

		res, _ := ts.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "alice"})
		require.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("wrong password unauthorized", func(t *testing.T) {
		ts := newTestServer(t)

		ts.signup(t, "alice")

		res, _ := ts.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "nope"})
		require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}

func TestTodoEndpoints(t *testing.T) {

	t.Run("requires a token", func(t *testing.T) {
		ts := newTestServer(t)

		res, _ := ts.do(t, http.MethodGet, "/api/todos", "", nil)
		require.Equal(t, http.StatusUnauthorized, res.StatusCode)

		res, _ = ts.do(t, http.MethodPost, "/api/todos", "", map[string]string{"message": "x", "date": "2026-09-01"})
		require.Equal(t, http.StatusUnauthorized, res.StatusCode)

		res, _ = ts.do(t, http.MethodGet, "/api/events", "not-a-token", nil)
		require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("create then list", func(t *testing.T) {
		ts := newTestServer(t)

		token := ts.signup(t, "alice")

		res, created := ts.do(t, http.MethodPost, "/api/todos", token, map[string]string{
			"message": "feed the cat",
			"date":    "2026-09-01",
		})
		require.Equal(t, http.StatusCreated, res.StatusCode)
		require.Equal(t, "feed the cat", created["message"])
		require.Equal(t, "2026-09-01", created["date"])
		require.Equal(t, "A group of cats is called a clowder.", created["cat_fact"])
		require.Equal(t, "Mainly clear, Temp: 12.5°C", created["weather_description"])

		views := ts.listTodos(t, token)
		require.Len(t, views, 1)
		require.Equal(t, created["id"], views[0]["id"])
		require.Equal(t, created["cat_fact"], views[0]["cat_fact"])
		require.NotEmpty(t, views[0]["weather_description"])
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		ts := newTestServer(t)

		token := ts.signup(t, "alice")

		res, _ := ts.do(t, http.MethodPost, "/api/todos", token, map[string]string{"message": "", "date": "2026-09-01"})
		require.Equal(t, http.StatusBadRequest, res.StatusCode)

		res, _ = ts.do(t, http.MethodPost, "/api/todos", token, map[string]string{"message": "x", "date": "not a date"})
		require.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("users only see their own items", func(t *testing.T) {
		ts := newTestServer(t)

		alice := ts.signup(t, "alice")
		bob := ts.signup(t, "bob")

		for i := 0; i < 2; i++ {
			res, _ := ts.do(t, http.MethodPost, "/api/todos", alice, map[string]string{
				"message": fmt.Sprintf("alice %d", i),
				"date":    "2026-09-01",
			})
			require.Equal(t, http.StatusCreated, res.StatusCode)
		}

		res, _ := ts.do(t, http.MethodPost, "/api/todos", bob, map[string]string{
			"message": "bob 0",
			"date":    "2026-09-01",
		})
		require.Equal(t, http.StatusCreated, res.StatusCode)

		aliceViews := ts.listTodos(t, alice)
		require.Len(t, aliceViews, 2)
		require.Equal(t, "alice 0", aliceViews[0]["message"])
		require.Equal(t, "alice 1", aliceViews[1]["message"])

		bobViews := ts.listTodos(t, bob)
		require.Len(t, bobViews, 1)
		require.Equal(t, "bob 0", bobViews[0]["message"])

		fresh := ts.signup(t, "carol")
		require.Empty(t, ts.listTodos(t, fresh))
	})
}
