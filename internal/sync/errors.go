package sync

import "fmt"

// Resource identifies which entity a NotFoundError refers to.
type Resource string

const (
	// ResourceConnection means no local record exists for the identity.
	ResourceConnection Resource = "connection"
	// ResourceAssociation means the record exists but the space is not a member.
	ResourceAssociation Resource = "association"
)

// ValidationError reports a malformed or missing request field. The request
// was never sent to the orchestrator.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// NotFoundError reports that the entity a detach targets does not exist.
type NotFoundError struct {
	Resource Resource
	Broker   string
	Username string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found for %s@%s", e.Resource, e.Username, e.Broker)
}

// RemoteSyncError wraps an orchestrator failure. No local state was changed.
type RemoteSyncError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteSyncError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("remote sync failed: %s", e.Message)
	}
	return fmt.Sprintf("remote sync failed with HTTP %d: %s", e.Status, e.Message)
}

func (e *RemoteSyncError) Unwrap() error {
	return e.Err
}

// StoreError reports a local commit failure after the orchestrator call
// succeeded. Local and remote state have diverged until the next
// reconciliation pass repairs the record.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("local %s failed after remote sync: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
