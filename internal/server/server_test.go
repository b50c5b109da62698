package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/database"
	"github.com/vidtube/backend/internal/events"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/middleware"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

type harness struct {
	app     *fiber.App
	store   *media.MemoryStore
	events  *events.Recorder
	metrics *middleware.Metrics
}

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:  "access-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenSecret: "refresh-secret",
		RefreshTokenExpiry: time.Hour,
		CORSOrigins:        "http://localhost:3000",
		BodyLimitMB:        8,
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:   media.NewMemoryStore(),
		events:  &events.Recorder{},
		metrics: middleware.NewMetrics(),
	}
	h.app = New(testConfig(), Deps{
		DB:      database.OpenTest(t),
		Media:   h.store,
		Events:  h.events,
		Metrics: h.metrics,
	})
	return h
}

func (h *harness) do(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func (h *harness) json(t *testing.T, method, path, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return h.do(t, req)
}

func multipartRequest(t *testing.T, method, path, token string, fields, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, name := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("bytes of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

type session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	Cookies      []*http.Cookie
}

func (h *harness) signUp(t *testing.T, username string) session {
	t.Helper()
	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"fullName": "User " + username,
		"password": "pw-" + username,
	}, map[string]string{"avatar": "avatar.png"})
	resp, env := h.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	resp, env = h.json(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"username": username, "password": "pw-" + username,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	var body struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	return session{
		UserID:       body.User.ID,
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		Cookies:      resp.Cookies(),
	}
}

func TestRegisterAndLoginEnvelope(t *testing.T) {
	h := newHarness(t)
	s := h.signUp(t, "alice")

	assert.NotEmpty(t, s.AccessToken)
	names := map[string]*http.Cookie{}
	for _, c := range s.Cookies {
		names[c.Name] = c
	}
	require.Contains(t, names, middleware.AccessTokenCookie)
	require.Contains(t, names, middleware.RefreshTokenCookie)
	assert.True(t, names[middleware.AccessTokenCookie].HttpOnly)

	req := multipartRequest(t, http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"username": "ALICE", "email": "new@example.com", "fullName": "A", "password": "pw",
	}, map[string]string{"avatar": "a.png"})
	resp, env := h.do(t, req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, http.StatusConflict, env.StatusCode)
	assert.False(t, env.Success)

	req = multipartRequest(t, http.MethodPost, "/api/v1/users/register", "", map[string]string{
		"username": "bob", "email": "bob@example.com", "fullName": "B", "password": "pw",
	}, nil)
	resp, env = h.do(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "avatar file is required", env.Message)

	resp, _ = h.json(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = h.json(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{"username": "ghost", "password": "nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuthGate(t *testing.T) {
	h := newHarness(t)
	s := h.signUp(t, "carol")

	resp, env := h.json(t, http.MethodGet, "/api/v1/users/current-user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)

	resp, _ = h.json(t, http.MethodGet, "/api/v1/users/current-user", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env = h.json(t, http.MethodGet, "/api/v1/users/current-user", s.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"username":"carol"`)
	assert.NotContains(t, string(env.Data), "password")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	for _, c := range s.Cookies {
		req.AddCookie(c)
	}
	resp, _ = h.do(t, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.json(t, http.MethodDelete, "/api/v1/users/delete-account", s.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.json(t, http.MethodGet, "/api/v1/users/current-user", s.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshRotationAndLogout(t *testing.T) {
	h := newHarness(t)
	s := h.signUp(t, "dave")

	resp, env := h.json(t, http.MethodPost, "/api/v1/users/refresh-token", s.AccessToken, map[string]string{
		"refreshToken": s.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var pair struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pair))
	assert.NotEqual(t, s.RefreshToken, pair.RefreshToken)

	resp, _ = h.json(t, http.MethodPost, "/api/v1/users/refresh-token", s.AccessToken, map[string]string{
		"refreshToken": s.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = h.json(t, http.MethodPost, "/api/v1/users/refresh-token", s.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = h.json(t, http.MethodPost, "/api/v1/users/logout", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.json(t, http.MethodPost, "/api/v1/users/refresh-token", pair.AccessToken, map[string]string{
		"refreshToken": pair.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestVideoFlow(t *testing.T) {
	h := newHarness(t)
	owner := h.signUp(t, "erin")
	fan := h.signUp(t, "frank")

	req := multipartRequest(t, http.MethodPost, "/api/v1/videos/add-video", owner.AccessToken, map[string]string{
		"title": "Go in practice", "description": "idioms", "duration": "61.5",
	}, map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"})
	resp, env := h.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var video struct {
		ID       string  `json:"id"`
		Duration float64 `json:"duration"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &video))
	assert.Equal(t, 61.5, video.Duration)
	assert.Contains(t, h.events.Types(), events.VideoPublished)

	resp, env = h.json(t, http.MethodGet, "/api/v1/videos/search?query=PRACTICE&page=1&limit=5", fan.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Docs      []json.RawMessage `json:"docs"`
		TotalDocs int64             `json:"totalDocs"`
		Limit     int               `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.TotalDocs)
	assert.Equal(t, 5, page.Limit)

	resp, _ = h.json(t, http.MethodGet, "/api/v1/videos/v/not-a-uuid", fan.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env = h.json(t, http.MethodPost, "/api/v1/likes/video/"+video.ID, fan.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"isLiked":true}`, string(env.Data))

	resp, _ = h.json(t, http.MethodPost, "/api/v1/comments/"+video.ID, fan.AccessToken, map[string]string{"content": "great"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = h.json(t, http.MethodDelete, "/api/v1/videos/v/"+video.ID, fan.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = h.json(t, http.MethodDelete, "/api/v1/videos/v/"+video.ID, owner.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.json(t, http.MethodGet, "/api/v1/videos/v/"+video.ID, owner.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 2, h.store.Len(), "only the two avatars remain")
}

func TestSubscriptionsAndDashboard(t *testing.T) {
	h := newHarness(t)
	channel := h.signUp(t, "gina")
	fan := h.signUp(t, "hank")

	resp, _ := h.json(t, http.MethodPost, "/api/v1/subscriptions/c/"+fan.UserID, fan.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env := h.json(t, http.MethodPost, "/api/v1/subscriptions/c/"+channel.UserID, fan.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"subscribed":true}`, string(env.Data))

	resp, env = h.json(t, http.MethodGet, "/api/v1/users/c/gina", fan.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile struct {
		SubscribersCount int64 `json:"subscribersCount"`
		IsSubscribed     bool  `json:"isSubscribed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, int64(1), profile.SubscribersCount)
	assert.True(t, profile.IsSubscribed)

	resp, env = h.json(t, http.MethodGet, "/api/v1/dashboard/stats", channel.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"totalSubscribers":1,"totalVideos":0,"totalViews":0,"totalLikes":0}`, string(env.Data))

	resp, env = h.json(t, http.MethodGet, "/api/v1/likes/videos", fan.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"docs":[]`)
}

func TestPlaylistRoutes(t *testing.T) {
	h := newHarness(t)
	s := h.signUp(t, "iris")

	resp, env := h.json(t, http.MethodPost, "/api/v1/playlists", s.AccessToken, map[string]string{"name": "Later"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var playlist struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &playlist))

	resp, _ = h.json(t, http.MethodPost, "/api/v1/playlists", s.AccessToken, map[string]string{"name": "later"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = h.json(t, http.MethodGet, "/api/v1/playlists/"+playlist.ID, s.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.json(t, http.MethodDelete, "/api/v1/playlists/"+playlist.ID, s.AccessToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.json(t, http.MethodGet, "/api/v1/playlists/"+playlist.ID, s.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	resp, env := h.json(t, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, _ = h.json(t, http.MethodGet, "/api/v1/users/current-user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err := h.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `http_requests_total{method="GET",route="/api/v1/health",status="200"} 1`)
}

func TestLoginRateLimit(t *testing.T) {
	h := newHarness(t)
	var last *http.Response
	for i := 0; i < 11; i++ {
		last, _ = h.json(t, http.MethodPost, "/api/v1/users/login", "", map[string]string{"username": "x", "password": "y"})
	}
	assert.Equal(t, http.StatusTooManyRequests, last.StatusCode)
}
