package sync

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spacebridge/connsync-server/internal/orchestrator"
	orchmocks "github.com/spacebridge/connsync-server/internal/orchestrator/mocks"
	"github.com/spacebridge/connsync-server/internal/store"
	storemocks "github.com/spacebridge/connsync-server/internal/store/mocks"
)

func validAttachRequest() AttachRequest {
	return AttachRequest{
		Broker:   "broker-1.example.com",
		Username: "alice",
		ClientID: "client-abc",
		Password: "s3cret",
		SpaceID:  "space-1",
	}
}

func newTestManager(t *testing.T) (Manager, *storemocks.MockConnectionStore, *orchmocks.MockClient) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockStore := storemocks.NewMockConnectionStore(ctrl)
	mockOrch := orchmocks.NewMockClient(ctrl)
	mgr := NewManager(mockStore, mockOrch, NewKeyedLock())
	return mgr, mockStore, mockOrch
}

func TestAttachSpaceValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*AttachRequest)
		wantField string
	}{
		{
			name:      "missing broker",
			mutate:    func(r *AttachRequest) { r.Broker = "" },
			wantField: "broker",
		},
		{
			name:      "missing username",
			mutate:    func(r *AttachRequest) { r.Username = "" },
			wantField: "username",
		},
		{
			name:      "missing client id",
			mutate:    func(r *AttachRequest) { r.ClientID = "" },
			wantField: "client_id",
		},
		{
			name:      "missing password",
			mutate:    func(r *AttachRequest) { r.Password = "" },
			wantField: "password",
		},
		{
			name:      "missing space id",
			mutate:    func(r *AttachRequest) { r.SpaceID = "" },
			wantField: "space_id",
		},
		{
			name:      "space id with whitespace",
			mutate:    func(r *AttachRequest) { r.SpaceID = "space 1" },
			wantField: "space_id",
		},
		{
			name:      "space id with control character",
			mutate:    func(r *AttachRequest) { r.SpaceID = "space-1\n" },
			wantField: "space_id",
		},
		{
			name:      "space id too long",
			mutate:    func(r *AttachRequest) { r.SpaceID = strings.Repeat("a", 129) },
			wantField: "space_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// No store or orchestrator calls are expected for invalid input.
			mgr, _, _ := newTestManager(t)

			req := validAttachRequest()
			tt.mutate(&req)

			_, err := mgr.AttachSpace(context.Background(), req)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestAttachSpaceCreatesAbsentConnection(t *testing.T) {
	t.Parallel()

	mgr, mockStore, mockOrch := newTestManager(t)
	req := validAttachRequest()

	gomock.InOrder(
		mockStore.EXPECT().
			Get(gomock.Any(), req.Broker, req.Username).
			Return(nil, store.ErrNotFound),
		mockOrch.EXPECT().
			Create(gomock.Any(), orchestrator.ConnectionSpec{
				Broker:   req.Broker,
				Username: req.Username,
				ClientID: req.ClientID,
				Password: req.Password,
			}, req.SpaceID).
			Return(nil),
		mockStore.EXPECT().
			UpsertWithSpace(gomock.Any(), req.Broker, req.Username, req.ClientID, req.Password, req.SpaceID).
			Return(&store.Connection{}, nil),
	)

	outcome, err := mgr.AttachSpace(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAttached, outcome)
}

func TestAttachSpaceAlreadyMemberIsNoOp(t *testing.T) {
	t.Parallel()

	mgr, mockStore, _ := newTestManager(t)
	req := validAttachRequest()

	// No orchestrator call and no write may happen for an existing member.
	mockStore.EXPECT().
		Get(gomock.Any(), req.Broker, req.Username).
		Return(&store.Connection{
			Broker:   req.Broker,
			Username: req.Username,
			SpaceIDs: []string{"space-0", req.SpaceID},
		}, nil)

	outcome, err := mgr.AttachSpace(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoOp, outcome)
}

func TestAttachSpaceAssociatesExistingConnection(t *testing.T) {
	t.Parallel()

	mgr, mockStore, mockOrch := newTestManager(t)
	req := validAttachRequest()

	gomock.InOrder(
		mockStore.EXPECT().
			Get(gomock.Any(), req.Broker, req.Username).
			Return(&store.Connection{
				Broker:   req.Broker,
				Username: req.Username,
				SpaceIDs: []string{"space-0"},
			}, nil),
		mockOrch.EXPECT().
			Associate(gomock.Any(), req.Broker, req.Username, req.SpaceID).
			Return(nil),
		mockStore.EXPECT().
			UpsertWithSpace(gomock.Any(), req.Broker, req.Username, req.ClientID, req.Password, req.SpaceID).
			Return(&store.Connection{}, nil),
	)

	outcome, err := mgr.AttachSpace(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAssociated, outcome)
}

func TestAttachSpaceRemoteFailureLeavesLocalUntouched(t *testing.T) {
	t.Parallel()

	mgr, mockStore, mockOrch := newTestManager(t)
	req := validAttachRequest()

	mockStore.EXPECT().
		Get(gomock.Any(), req.Broker, req.Username).
		Return(nil, store.ErrNotFound)
	mockOrch.EXPECT().
		Create(gomock.Any(), gomock.Any(), req.SpaceID).
		Return(&orchestrator.RemoteError{Status: 503, Message: "broker unavailable"})

	_, err := mgr.AttachSpace(context.Background(), req)

	var remoteErr *RemoteSyncError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, 503, remoteErr.Status)
	assert.Equal(t, "broker unavailable", remoteErr.Message)
}

func TestAttachSpaceDriftOnCommitFailure(t *testing.T) {
	t.Parallel()

	mgr, mockStore, mockOrch := newTestManager(t)
	req := validAttachRequest()

	commitErr := errors.New("connection reset")
	mockStore.EXPECT().
		Get(gomock.Any(), req.Broker, req.Username).
		Return(nil, store.ErrNotFound)
	mockOrch.EXPECT().
		Create(gomock.Any(), gomock.Any(), req.SpaceID).
		Return(nil)
	mockStore.EXPECT().
		UpsertWithSpace(gomock.Any(), req.Broker, req.Username, req.ClientID, req.Password, req.SpaceID).
		Return(nil, commitErr)

	_, err := mgr.AttachSpace(context.Background(), req)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "upsert", storeErr.Op)
	assert.ErrorIs(t, err, commitErr)
}

func TestAttachSpaceSkipsCommitOnExpiredContext(t *testing.T) {
	t.Parallel()

	mgr, mockStore, mockOrch := newTestManager(t)
	req := validAttachRequest()

	ctx, cancel := context.WithCancel(context.Background())

	mockStore.EXPECT().
		Get(gomock.Any(), req.Broker, req.Username).
		Return(nil, store.ErrNotFound)
	// Cancel after the remote call succeeds: the local commit must be
	// skipped and reported as drift rather than run on a dead context.
	mockOrch.EXPECT().
		Create(gomock.Any(), gomock.Any(), req.SpaceID).
		DoAndReturn(func(context.Context, orchestrator.ConnectionSpec, string) error {
			cancel()
			return nil
		})

	_, err := mgr.AttachSpace(ctx, req)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetachSpaceValidation(t *testing.T) {
	t.Parallel()

	mgr, _, _ := newTestManager(t)

	tests := []struct {
		name      string
		broker    string
		username  string
		spaceID   string
		wantField string
	}{
		{name: "missing broker", username: "alice", spaceID: "space-1", wantField: "broker"},
		{name: "missing username", broker: "b", spaceID: "space-1", wantField: "username"},
		{name: "missing space id", broker: "b", username: "alice", wantField: "space_id"},
		{name: "space id with whitespace", broker: "b", username: "alice", spaceID: "space 1", wantField: "space_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mgr.DetachSpace(context.Background(), tt.broker, tt.username, tt.spaceID)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestDetachSpaceUnknownConnection(t *testing.T) {
	t.Parallel()

	mgr, mockStore, _ := newTestManager(t)

	mockStore.EXPECT().
		Get(gomock.Any(), "broker-1.example.com", "alice").
		Return(nil, store.ErrNotFound)

	_, err := mgr.DetachSpace(context.Background(), "broker-1.example.com", "alice", "space-1")

	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, ResourceConnection, notFoundErr.Resource)
}

func TestDetachSpaceUnknownAssociation(t *testing.T) {
	t.Parallel()

	mgr, mockStore, _ := newTestManager(t)

	mockStore.EXPECT().
		Get(gomock.Any(), "broker-1.example.com", "alice").
		Return(&store.Connection{
			Broker:   "broker-1.example.com",
			Username: "alice",
			SpaceIDs: []string{"space-0"},
		}, nil)

	_, err := mgr.DetachSpace(context.Background(), "broker-1.example.com", "alice", "space-1")

	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, ResourceAssociation, notFoundErr.Resource)
}

func TestDetachSpaceOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		pruned      bool
		wantOutcome Outcome
	}{
		{name: "other spaces remain", pruned: false, wantOutcome: OutcomeDetached},
		{name: "last space prunes record", pruned: true, wantOutcome: OutcomePruned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mgr, mockStore, mockOrch := newTestManager(t)

			gomock.InOrder(
				mockStore.EXPECT().
					Get(gomock.Any(), "broker-1.example.com", "alice").
					Return(&store.Connection{
						Broker:   "broker-1.example.com",
						Username: "alice",
						SpaceIDs: []string{"space-1"},
					}, nil),
				mockOrch.EXPECT().
					Disassociate(gomock.Any(), "broker-1.example.com", "alice", "space-1").
					Return(nil),
				mockStore.EXPECT().
					RemoveSpaceAndPrune(gomock.Any(), "broker-1.example.com", "alice", "space-1").
					Return(tt.pruned, nil),
			)

			outcome, err := mgr.DetachSpace(context.Background(), "broker-1.example.com", "alice", "space-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, outcome)
		})
	}
}

func TestDetachSpaceRemoteFailureLeavesLocalUntouched(t *testing.T) {
	t.Parallel()

	mgr, mockStore, mockOrch := newTestManager(t)

	mockStore.EXPECT().
		Get(gomock.Any(), "broker-1.example.com", "alice").
		Return(&store.Connection{
			Broker:   "broker-1.example.com",
			Username: "alice",
			SpaceIDs: []string{"space-1"},
		}, nil)
	mockOrch.EXPECT().
		Disassociate(gomock.Any(), "broker-1.example.com", "alice", "space-1").
		Return(&orchestrator.RemoteError{Status: 500, Message: "internal error"})

	_, err := mgr.DetachSpace(context.Background(), "broker-1.example.com", "alice", "space-1")

	var remoteErr *RemoteSyncError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, 500, remoteErr.Status)
}

func TestDetachSpaceDriftOnCommitFailure(t *testing.T) {
	t.Parallel()

	mgr, mockStore, mockOrch := newTestManager(t)

	commitErr := errors.New("deadlock detected")
	mockStore.EXPECT().
		Get(gomock.Any(), "broker-1.example.com", "alice").
		Return(&store.Connection{
			Broker:   "broker-1.example.com",
			Username: "alice",
			SpaceIDs: []string{"space-1", "space-2"},
		}, nil)
	mockOrch.EXPECT().
		Disassociate(gomock.Any(), "broker-1.example.com", "alice", "space-1").
		Return(nil)
	mockStore.EXPECT().
		RemoveSpaceAndPrune(gomock.Any(), "broker-1.example.com", "alice", "space-1").
		Return(false, commitErr)

	_, err := mgr.DetachSpace(context.Background(), "broker-1.example.com", "alice", "space-1")

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "remove", storeErr.Op)
}
