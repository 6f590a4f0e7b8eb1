package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"parley/internal/config"
	"parley/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer wires a server against an in-memory SQLite database with all
// routes registered. Redis is absent; rate limiting is bypassed outside
// production anyway.
func newTestServer(t *testing.T) (*fiber.App, *Server) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret: "test-secret-used-only-in-tests",
		UploadDir: t.TempDir(),
		Env:       "test",
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return app, srv
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// jsonRequest builds a request with a JSON body and optional bearer token.
func jsonRequest(t *testing.T, method, target string, body any, token string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// decodeBody unmarshals a response body into out.
func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, out))
}

// signupUser registers a user over the API and returns its id and token.
func signupUser(t *testing.T, app *fiber.App, name, mobile, email string) (uint, string) {
	t.Helper()

	req := jsonRequest(t, http.MethodPost, "/api/users/signup", map[string]string{
		"name":     name,
		"mobileNo": mobile,
		"email":    email,
		"password": "password123",
	}, "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.NotZero(t, body.User.ID)
	require.NotEmpty(t, body.Token)
	return body.User.ID, body.Token
}
