// Package orchestrator provides a typed HTTP client for the remote
// connection-orchestration service that owns the live broker sessions.
package orchestrator

import (
	"fmt"
)

// ConnectionSpec carries the credentials needed to open a live broker session.
type ConnectionSpec struct {
	Broker   string
	Username string
	ClientID string
	Password string
}

// LiveConnection is the orchestrator's view of one live session. The JSON
// shape is the bootstrap contract consumed verbatim by downstream services;
// the spaces_ids key is part of it.
type LiveConnection struct {
	Broker   string   `json:"broker"`
	ClientID string   `json:"client_id"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	SpaceIDs []string `json:"spaces_ids"`
}

// RemoteError is returned when an orchestrator call fails, either with a
// non-success HTTP status or a transport failure (Status 0).
type RemoteError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("orchestrator request failed: %s", e.Message)
	}
	return fmt.Sprintf("orchestrator returned HTTP %d: %s", e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// connectionEnvelope is the request body wrapper used by the orchestrator API.
type connectionEnvelope struct {
	Connection connectionBody `json:"connection"`
}

type connectionBody struct {
	Broker   string `json:"broker"`
	Username string `json:"username"`
	ClientID string `json:"client_id,omitempty"`
	Password string `json:"password,omitempty"`
}
