package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drainwatch/internal/agent"
	"drainwatch/internal/classifier"
	"drainwatch/internal/composer"
	"drainwatch/internal/logging"
	"drainwatch/internal/models"
	"drainwatch/internal/router"
	"drainwatch/internal/views"
)

type fakeSurface struct {
	mu    sync.Mutex
	shown []models.Descriptor
}

func (f *fakeSurface) Show(ctx context.Context, d models.Descriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = append(f.shown, d)
	return nil
}

func newTestServer(t *testing.T, activated bool) (*gin.Engine, *fakeSurface) {
	t.Helper()
	log := logging.Discard()
	hub := views.NewHub(log)
	surf := &fakeSurface{}
	ag := agent.New(classifier.New(log), composer.New("/"), surf, hub, log)
	if activated {
		require.NoError(t, ag.Install(context.Background()))
		require.NoError(t, ag.Activate(context.Background()))
	}
	rt := router.New(hub, hub, log)
	h := NewHandler(ag, rt, hub, log)
	return NewRouter(h, log), surf
}

func TestHealthReflectsLifecycle(t *testing.T) {
	engine, _ := newTestServer(t, false)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	engine, _ = newTestServer(t, true)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "active")
}

func TestPushEndpointRendersAlert(t *testing.T) {
	engine, surf := newTestServer(t, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v0/push", strings.NewReader(`{"level":"danger","riskScore":92.5}`))
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, surf.shown, 1)
	assert.Equal(t, "danger", surf.shown[0].Payload.Level)
}

func TestPushEndpointBeforeActivation(t *testing.T) {
	engine, surf := newTestServer(t, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v0/push", strings.NewReader(`{}`))
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, surf.shown)
}

func TestInteractionEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, true)

	w := httptest.NewRecorder()
	body := `{"tag":"t1","action":"close","payload":{"url":"/","level":"caution"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v0/interactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInteractionEndpointRequiresTag(t *testing.T) {
	engine, _ := newTestServer(t, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v0/interactions", strings.NewReader(`{"action":"view"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDismissalEndpoint(t *testing.T) {
	engine, _ := newTestServer(t, true)

	w := httptest.NewRecorder()
	body := `{"tag":"t2","payload":{"url":"/","level":"info"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v0/dismissals", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
