package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"uphera/internal/app"
	"uphera/internal/config"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	User struct {
		ID uuid.UUID `json:"id"`
	} `json:"user"`
	AccessToken string `json:"access_token"`
}

type jobData struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type recommendationItem struct {
	Job struct {
		ID    uuid.UUID `json:"id"`
		Title string    `json:"title"`
	} `json:"job"`
	MatchScore float64 `json:"match_score"`
}

func TestIntegration_Register_Publish_Recommend_Apply(t *testing.T) {
	cfg := testConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	logger := log.New(io.Discard, "", 0)
	c, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	defer func() { _ = c.Close() }()

	fiberApp := app.New(c).Fiber

	email := "it-" + uuid.NewString()[:8] + "@example.com"
	var auth authData
	call(t, fiberApp, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": email, "password": "supersecret", "full_name": "Integration User",
	}, http.StatusCreated, &auth)
	if auth.AccessToken == "" {
		t.Fatalf("register: empty access_token")
	}
	defer cleanup(t, c, auth.User.ID)

	call(t, fiberApp, http.MethodPut, "/api/v1/me/profile", auth.AccessToken, map[string]any{
		"skills":           []string{"Python", "SQL", "Pandas"},
		"experience_level": "junior",
		"location":         "Istanbul",
		"program":          "Data Science",
	}, http.StatusOK, nil)

	var fit, miss jobData
	call(t, fiberApp, http.MethodPost, "/api/v1/jobs", auth.AccessToken, map[string]any{
		"title":            "Junior Data Analyst",
		"company":          "Acme",
		"description":      "Analyse data with Python and SQL, build dashboards and statistics reports",
		"location":         "Istanbul",
		"experience_level": "junior",
		"required_skills":  []string{"Python", "SQL", "Pandas"},
	}, http.StatusCreated, &fit)
	call(t, fiberApp, http.MethodPost, "/api/v1/jobs", auth.AccessToken, map[string]any{
		"title":            "Lead iOS Engineer",
		"company":          "Initech",
		"description":      "Ship native mobile apps",
		"location":         "Ankara",
		"experience_level": "lead",
		"required_skills":  []string{"Swift", "Objective-C"},
	}, http.StatusCreated, &miss)

	var recs []recommendationItem
	call(t, fiberApp, http.MethodGet, "/api/v1/jobs/recommendations?limit=50", auth.AccessToken, nil, http.StatusOK, &recs)
	pos := map[uuid.UUID]int{}
	for i, r := range recs {
		if _, dup := pos[r.Job.ID]; dup {
			t.Fatalf("duplicate job in recommendations: %s", r.Job.ID)
		}
		pos[r.Job.ID] = i
		if i > 0 && recs[i-1].MatchScore < r.MatchScore {
			t.Fatalf("recommendations not sorted at %d", i)
		}
	}
	fitPos, ok := pos[fit.ID]
	if !ok {
		t.Fatalf("expected %q among recommendations", fit.Title)
	}
	if missPos, ok := pos[miss.ID]; ok && missPos < fitPos {
		t.Fatalf("expected %q above %q", fit.Title, miss.Title)
	}

	call(t, fiberApp, http.MethodPost, "/api/v1/jobs/"+fit.ID.String()+"/apply", auth.AccessToken, map[string]any{
		"cover_letter": "Hello",
	}, http.StatusCreated, nil)
	call(t, fiberApp, http.MethodPost, "/api/v1/jobs/"+fit.ID.String()+"/apply", auth.AccessToken, map[string]any{}, http.StatusConflict, nil)

	var unread struct {
		UnreadCount int `json:"unread_count"`
	}
	call(t, fiberApp, http.MethodGet, "/api/v1/me/notifications/unread-count", auth.AccessToken, nil, http.StatusOK, &unread)
	if unread.UnreadCount < 1 {
		t.Fatalf("expected an application notification, got %d", unread.UnreadCount)
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	host := os.Getenv("UPHERA_TEST_DB_HOST")
	port := os.Getenv("UPHERA_TEST_DB_PORT")
	name := os.Getenv("UPHERA_TEST_DB_NAME")
	user := os.Getenv("UPHERA_TEST_DB_USER")
	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set UPHERA_TEST_DB_HOST/PORT/NAME/USER (and PASSWORD)")
	}

	return config.Config{
		App: config.AppConfig{AppName: "uphera-it", Environment: "test", HTTPPort: "0"},
		Database: config.DatabaseConfig{
			DBHost:         host,
			DBPort:         port,
			DBName:         name,
			DBUser:         user,
			DBPassword:     os.Getenv("UPHERA_TEST_DB_PASSWORD"),
			DBSSLMode:      stringsOrDefault(os.Getenv("UPHERA_TEST_DB_SSL_MODE"), "disable"),
			ConnectTimeout: 5 * time.Second,
			PoolMaxConns:   4,
			MigrateOnStart: true,
		},
		JWT: config.JWTConfig{
			AccessSecret:     "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessExpiresIn:  15 * time.Minute,
			RefreshExpiresIn: time.Hour,
		},
		// Nothing listens on port 1, so the cache runs in bypass mode.
		Redis: config.RedisConfig{
			Host: stringsOrDefault(os.Getenv("UPHERA_TEST_REDIS_HOST"), "127.0.0.1"),
			Port: stringsOrDefault(os.Getenv("UPHERA_TEST_REDIS_PORT"), "1"),
		},
	}
}

func call(t *testing.T, a *fiber.App, method, path, token string, body any, wantStatus int, out any) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status %d, want %d, body=%s", method, path, resp.StatusCode, wantStatus, raw)
	}
	if out == nil {
		return
	}
	var env semanticResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("%s %s: decode data: %v", method, path, err)
	}
}

func cleanup(t *testing.T, c *app.Container, userID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	stmts := []string{
		`DELETE FROM notifications WHERE user_id = $1`,
		`DELETE FROM applications WHERE user_id = $1`,
		`DELETE FROM bookmarks WHERE user_id = $1`,
		`DELETE FROM jobs WHERE posted_by = $1`,
		`DELETE FROM users WHERE id = $1`,
	}
	for _, s := range stmts {
		if _, err := c.DB.Exec(ctx, s, userID); err != nil {
			t.Logf("cleanup %q: %v", s, err)
		}
	}
}

func stringsOrDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
