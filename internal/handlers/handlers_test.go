package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/catalog-service/internal/trigger"
)

type fakeRunner struct {
	got  trigger.Request
	resp trigger.Response
	err  error
}

func (f *fakeRunner) Run(ctx context.Context, req trigger.Request) (trigger.Response, error) {
	f.got = req
	return f.resp, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func newRouter(runner trigger.Runner, db Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", HealthCheck(db))
	router.POST("/run", NewRunHandler(runner, zerolog.Nop()).Run)
	return router
}

func TestRunHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		runner     *fakeRunner
		wantStatus int
		wantCode   int
	}{
		{
			name:       "success",
			body:       `{"feedUrl":"https://x/feed.xml","sourceFeedId":"feed-1"}`,
			runner:     &fakeRunner{resp: trigger.Response{Code: 0, Stdout: "ok"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "failed run is still 200",
			body:       `{"script":"update_vpg.ts","feedUrl":"https://x/feed.xml","sourceFeedId":"feed-1"}`,
			runner:     &fakeRunner{resp: trigger.Response{Code: 1, Stderr: "boom"}},
			wantStatus: http.StatusOK,
			wantCode:   1,
		},
		{
			name:       "malformed json",
			body:       `{"feedUrl":`,
			runner:     &fakeRunner{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "start failure",
			body:       `{"feedUrl":"u","sourceFeedId":"f"}`,
			runner:     &fakeRunner{err: errors.New("exec: not found")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(tt.runner, nil)
			req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp trigger.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, "feed-1", tt.runner.got.SourceFeedID)
			assert.Equal(t, "https://x/feed.xml", tt.runner.got.FeedURL)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
		wantDB     string
	}{
		{"no database", nil, http.StatusOK, "not configured"},
		{"connected", fakePinger{}, http.StatusOK, "connected"},
		{"down", fakePinger{err: errors.New("refused")}, http.StatusServiceUnavailable, "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&fakeRunner{}, tt.db)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantDB, resp.Database)
		})
	}
}
