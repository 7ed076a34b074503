package sync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation",
			err:  &ValidationError{Field: "broker", Reason: "is required"},
			want: "invalid request: broker is required",
		},
		{
			name: "connection not found",
			err:  &NotFoundError{Resource: ResourceConnection, Broker: "broker-1", Username: "alice"},
			want: "connection not found for alice@broker-1",
		},
		{
			name: "association not found",
			err:  &NotFoundError{Resource: ResourceAssociation, Broker: "broker-1", Username: "alice"},
			want: "association not found for alice@broker-1",
		},
		{
			name: "remote sync with status",
			err:  &RemoteSyncError{Status: 502, Message: "bad gateway"},
			want: "remote sync failed with HTTP 502: bad gateway",
		},
		{
			name: "remote sync transport",
			err:  &RemoteSyncError{Message: "connection refused"},
			want: "remote sync failed: connection refused",
		},
		{
			name: "store drift",
			err:  &StoreError{Op: "upsert", Err: cause},
			want: "local upsert failed after remote sync: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorUnwrapping(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	assert.ErrorIs(t, &RemoteSyncError{Message: "x", Err: cause}, cause)
	assert.ErrorIs(t, &StoreError{Op: "remove", Err: cause}, cause)
}
