// Package v0 provides the REST API handlers for connection synchronization.
package v0

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spacebridge/connsync-server/internal/store"
	"github.com/spacebridge/connsync-server/internal/sync"
	"github.com/spacebridge/connsync-server/internal/versions"
)

// ConnectionRequest is the request body for attach operations. The space to
// attach is passed as the space_id query parameter.
type ConnectionRequest struct {
	Connection ConnectionPayload `json:"connection"`
}

// ConnectionPayload carries the connection identity and, for creation, its
// credentials.
type ConnectionPayload struct {
	Broker   string `json:"broker"`
	Username string `json:"username"`
	ClientID string `json:"client_id,omitempty"`
	Password string `json:"password,omitempty"`
}

// OutcomeResponse reports what a sync operation did.
type OutcomeResponse struct {
	Outcome string `json:"outcome"`
}

// LiveConnectionResponse is one row of the bootstrap snapshot. The JSON
// shape, including the spaces_ids key, is consumed verbatim by downstream
// services and must not change.
type LiveConnectionResponse struct {
	Broker   string   `json:"broker"`
	ClientID string   `json:"client_id"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	SpaceIDs []string `json:"spaces_ids"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Routes defines the routes for the connection sync API with dependency
// injection
type Routes struct {
	manager sync.Manager
	store   store.ConnectionStore
}

// NewRoutes creates a new Routes instance with the provided manager and store
func NewRoutes(mgr sync.Manager, connStore store.ConnectionStore) *Routes {
	return &Routes{
		manager: mgr,
		store:   connStore,
	}
}

// Router creates a new router for the connection sync API
func Router(mgr sync.Manager, connStore store.ConnectionStore) http.Handler {
	routes := NewRoutes(mgr, connStore)

	r := chi.NewRouter()

	r.Get("/liveConnections", routes.listLiveConnections)
	r.Post("/connection", routes.attachSpace)
	r.Delete("/connection", routes.detachSpace)

	return r
}

// listLiveConnections handles GET /api/v0/liveConnections
func (rr *Routes) listLiveConnections(w http.ResponseWriter, r *http.Request) {
	conns, err := rr.store.ListAll(r.Context())
	if err != nil {
		slog.Error("failed to list connections", "error", err)
		rr.writeErrorResponse(w, "Failed to list connections", http.StatusInternalServerError)
		return
	}

	response := make([]LiveConnectionResponse, 0, len(conns))
	for _, conn := range conns {
		spaceIDs := conn.SpaceIDs
		if spaceIDs == nil {
			spaceIDs = []string{}
		}
		response = append(response, LiveConnectionResponse{
			Broker:   conn.Broker,
			ClientID: conn.ClientID,
			Username: conn.Username,
			Password: conn.Password,
			SpaceIDs: spaceIDs,
		})
	}

	rr.writeJSONResponse(w, http.StatusOK, response)
}

// attachSpace handles POST /api/v0/connection
func (rr *Routes) attachSpace(w http.ResponseWriter, r *http.Request) {
	var body ConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rr.writeErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := rr.manager.AttachSpace(r.Context(), sync.AttachRequest{
		Broker:   body.Connection.Broker,
		Username: body.Connection.Username,
		ClientID: body.Connection.ClientID,
		Password: body.Connection.Password,
		SpaceID:  r.URL.Query().Get("space_id"),
	})
	if err != nil {
		rr.writeSyncError(w, err)
		return
	}

	status := http.StatusOK
	if outcome == sync.OutcomeAttached {
		status = http.StatusCreated
	}
	rr.writeJSONResponse(w, status, OutcomeResponse{Outcome: string(outcome)})
}

// detachSpace handles DELETE /api/v0/connection
func (rr *Routes) detachSpace(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	outcome, err := rr.manager.DetachSpace(r.Context(),
		query.Get("broker"),
		query.Get("username"),
		query.Get("space_id"),
	)
	if err != nil {
		rr.writeSyncError(w, err)
		return
	}

	rr.writeJSONResponse(w, http.StatusOK, OutcomeResponse{Outcome: string(outcome)})
}

// writeSyncError maps manager errors onto HTTP statuses.
func (rr *Routes) writeSyncError(w http.ResponseWriter, err error) {
	var validationErr *sync.ValidationError
	var notFoundErr *sync.NotFoundError
	var remoteErr *sync.RemoteSyncError
	var storeErr *sync.StoreError

	switch {
	case errors.As(err, &validationErr):
		rr.writeErrorResponse(w, validationErr.Error(), http.StatusBadRequest)
	case errors.As(err, &notFoundErr):
		rr.writeErrorResponse(w, notFoundErr.Error(), http.StatusNotFound)
	case errors.As(err, &remoteErr):
		slog.Error("orchestrator rejected sync operation", "error", err)
		rr.writeErrorResponse(w, remoteErr.Error(), http.StatusBadGateway)
	case errors.As(err, &storeErr):
		slog.Error("sync operation drifted", "error", err)
		rr.writeErrorResponse(w, storeErr.Error(), http.StatusInternalServerError)
	default:
		slog.Error("sync operation failed", "error", err)
		rr.writeErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}

// HealthRouter creates a router for health check endpoints
func HealthRouter(ready func(context.Context) error) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(ready))
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessHandler handles readiness check requests
func readinessHandler(ready func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ready(r.Context()); err != nil {
			errorResp := ErrorResponse{
				Error: "Server not ready: " + err.Error(),
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			if encodeErr := json.NewEncoder(w).Encode(errorResp); encodeErr != nil {
				slog.Error("failed to encode readiness error response", "error", encodeErr)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}

// versionHandler handles version information requests
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	info := versions.GetVersionInfo()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(info); err != nil {
		slog.Error("failed to encode version info", "error", err)
	}
}

// writeJSONResponse writes a JSON response with the given data
func (*Routes) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// writeErrorResponse writes a standardized error response
func (*Routes) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	errorResp := ErrorResponse{
		Error: message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
