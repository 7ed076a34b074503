package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	storemocks "github.com/spacebridge/connsync-server/internal/store/mocks"
	syncmocks "github.com/spacebridge/connsync-server/internal/sync/mocks"
)

func newTestServer(t *testing.T, opts ...ServerOption) http.Handler {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockManager := syncmocks.NewMockManager(ctrl)
	mockStore := storemocks.NewMockConnectionStore(ctrl)
	mockStore.EXPECT().ListAll(gomock.Any()).Return(nil, nil).AnyTimes()
	ready := func(context.Context) error { return nil }
	return NewServer(mockManager, mockStore, ready, opts...)
}

func TestServerMountsRoutes(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "health at root", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "readiness at root", method: http.MethodGet, path: "/readiness", wantStatus: http.StatusOK},
		{name: "version at root", method: http.MethodGet, path: "/version", wantStatus: http.StatusOK},
		{name: "live connections", method: http.MethodGet, path: "/api/v0/liveConnections", wantStatus: http.StatusOK},
		{name: "unknown path", method: http.MethodGet, path: "/api/v0/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestServerAppliesMiddleware(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, WithMiddlewares(middleware.RequestID, LoggingMiddleware))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
