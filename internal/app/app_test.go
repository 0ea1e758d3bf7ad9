package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
	"github.com/BloomIdeas/BloomIdeas/internal/config"
	"github.com/BloomIdeas/BloomIdeas/internal/features/admin"
	"github.com/BloomIdeas/BloomIdeas/internal/httpapi"
	"github.com/BloomIdeas/BloomIdeas/internal/notify"
	"github.com/BloomIdeas/BloomIdeas/internal/store/memory"
)

const (
	alice = "0x00000000000000000000000000000000000a11ce"
	bob   = "0x0000000000000000000000000000000000000b0b"
)

func testConfig() *config.Config {
	return &config.Config{
		CORSAllowedOrigins:    []string{"*"},
		DBDriver:              config.DriverMemory,
		GateCostSchedule:      []int64{5, 4, 3},
		GateAtomic:            true,
		ReputationTiers:       "Seed:0,Sprout:50,Bloom:150,Grove-Keeper:300,Garden Master:500",
		RewardPlanted:         5,
		RewardNurtured:        1,
		RewardCommentReceived: 2,
		RewardJoined:          3,
		RewardWelcome:         10,
		LedgerHistoryLimit:    50,
		CommentMaxLength:      2000,
		RateLimitRequests:     1000,
		RateLimitIPRequests:   1000,
		RateLimitWindow:       time.Minute,
		AdminMaxAttempts:      3,
		ReconcileSchedule:     "*/15 * * * *",
		ReconcileGrace:        5 * time.Minute,
	}
}

type client struct {
	t *testing.T
	h http.Handler
}

func newClient(t *testing.T, cfg *config.Config) *client {
	t.Helper()
	services, err := NewServices(cfg, memory.New(), notify.LogNotifier{})
	require.NoError(t, err)
	return &client{t: t, h: httpapi.NewRouter(cfg, nil, Handlers(services)...)}
}

func (c *client) do(method, path, identity, body string) (int, map[string]any) {
	c.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if identity != "" {
		req.Header.Set(httpapi.IdentityHeader, identity)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func TestFlow_PlantCareComment(t *testing.T) {
	c := newClient(t, testConfig())

	code, body := c.do(http.MethodPost, "/api/session", bob, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(10), body["balance"])
	assert.Equal(t, "+10 points earned", body["message"])

	code, body = c.do(http.MethodPost, "/api/ideas", alice, `{"title":"Seed library","tags":["DAO"]}`)
	require.Equal(t, http.StatusCreated, code)
	ideaID := body["idea"].(map[string]any)["id"].(string)
	assert.Equal(t, "+5 points earned", body["message"])

	code, body = c.do(http.MethodPost, "/api/ideas/"+ideaID+"/care", bob, `{"kind":"nurture"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "created", body["action"])

	code, body = c.do(http.MethodGet, "/api/ideas/"+ideaID+"/care", bob, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "nurture", body["mine"])

	// bob: 10 + 1 = 11, первый комментарий стоит 5
	code, body = c.do(http.MethodPost, "/api/ideas/"+ideaID+"/comments", bob, `{"body":"Great idea"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "5 points spent", body["message"])

	// второй стоит 4, остаётся 2
	code, _ = c.do(http.MethodPost, "/api/ideas/"+ideaID+"/comments", bob, `{"body":"Still great"}`)
	require.Equal(t, http.StatusCreated, code)

	code, body = c.do(http.MethodPost, "/api/ideas/"+ideaID+"/comments", bob, `{"body":"Third"}`)
	require.Equal(t, http.StatusPaymentRequired, code)
	assert.Equal(t, "Not enough points — need 3, have 2", body["error"])

	code, body = c.do(http.MethodGet, "/api/ideas/"+ideaID+"/comments", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["comments"], 2)

	// alice: 5 за посадку + 2 + 2 за комментарии
	code, body = c.do(http.MethodGet, "/api/identities/"+alice+"/reputation", "", "")
	require.Equal(t, http.StatusOK, code)
	rep := body["reputation"].(map[string]any)
	assert.Equal(t, float64(9), rep["balance"])

	code, body = c.do(http.MethodGet, "/api/me/history?limit=2", bob, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["balance"])
	assert.Len(t, body["events"], 2)

	code, body = c.do(http.MethodGet, "/api/me/comment-quote", bob, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["allowed"])
}

func TestFlow_Errors(t *testing.T) {
	c := newClient(t, testConfig())

	code, _ := c.do(http.MethodPost, "/api/ideas", "", `{"title":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = c.do(http.MethodPost, "/api/ideas", alice, `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = c.do(http.MethodPost, "/api/ideas/missing/care", alice, `{"kind":"nurture"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = c.do(http.MethodGet, "/api/ideas/missing", "", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = c.do(http.MethodGet, "/api/me/history?limit=abc", alice, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = c.do(http.MethodPost, "/api/admin/grants", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestFlow_AdminGrant(t *testing.T) {
	cfg := testConfig()
	hash, err := admin.HashPassword("s3cret")
	require.NoError(t, err)
	cfg.AdminPasswordHash = hash
	c := newClient(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/grants",
		strings.NewReader(`{"identity":"`+alice+`","category":"built","amount":300,"subject":"idea-1"}`))
	req.SetBasicAuth("admin", "s3cret")
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	code, body := c.do(http.MethodGet, "/api/me/reputation", alice, "")
	require.Equal(t, http.StatusOK, code)
	rep := body["reputation"].(map[string]any)
	assert.Equal(t, "Grove-Keeper", rep["tier"].(map[string]any)["name"])
}

func TestFlow_BuilderInterest(t *testing.T) {
	cfg := testConfig()
	hash, err := admin.HashPassword("s3cret")
	require.NoError(t, err)
	cfg.AdminPasswordHash = hash
	c := newClient(t, cfg)

	code, body := c.do(http.MethodPost, "/api/ideas", alice, `{"title":"Seed library"}`)
	require.Equal(t, http.StatusCreated, code)
	ideaID := body["idea"].(map[string]any)["id"].(string)

	code, body = c.do(http.MethodPost, "/api/ideas/"+ideaID+"/builders", bob, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["interested"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "+3 points earned", body["message"])

	code, body = c.do(http.MethodGet, "/api/ideas/"+ideaID, "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["interested"])

	code, body = c.do(http.MethodGet, "/api/ideas/"+ideaID+"/builders", bob, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["mine"])

	code, _ = c.do(http.MethodPost, "/api/ideas/missing/builders", bob, "")
	assert.Equal(t, http.StatusNotFound, code)

	asAdmin := func(method, path, body string) (int, map[string]any) {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		req.SetBasicAuth("admin", "s3cret")
		w := httptest.NewRecorder()
		c.h.ServeHTTP(w, req)
		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
		return w.Code, out
	}

	code, body = asAdmin(http.MethodGet, "/api/admin/builder-requests?status=pending", "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["requests"], 1)

	code, body = asAdmin(http.MethodPost, "/api/admin/builder-requests/approve", `{"identity":"`+bob+`","idea":"`+ideaID+`"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "approved", body["status"])

	code, _ = asAdmin(http.MethodGet, "/api/admin/builder-requests?status=rejected", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestNewServices_BadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ReputationTiers = "Seed:10"
	_, err := NewServices(cfg, memory.New(), nil)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.GateCostSchedule = []int64{3, 4}
	_, err = NewServices(cfg, memory.New(), nil)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.AdminPasswordHash = "plaintext"
	_, err = NewServices(cfg, memory.New(), nil)
	assert.ErrorIs(t, err, common.ErrBadPasswordHash)
}
