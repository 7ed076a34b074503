package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "connsync-api/1.0"

	// maxErrorBodySize bounds how much of an error response is read into
	// the RemoteError message.
	maxErrorBodySize = 4 * 1024
)

// Client is the typed interface to the orchestrator API. Calls are
// synchronous and never retried internally; callers own retry policy.
//
//go:generate mockgen -destination=mocks/mock_client.go -package=mocks github.com/spacebridge/connsync-server/internal/orchestrator Client
type Client interface {
	// Create instructs the orchestrator to open a live broker session and
	// tag it with spaceID.
	Create(ctx context.Context, spec ConnectionSpec, spaceID string) error

	// Associate tags an already-live session with an additional space.
	// Credentials are not resent.
	Associate(ctx context.Context, broker, username, spaceID string) error

	// Disassociate untags a space. The orchestrator decides independently
	// whether to tear down the underlying broker session.
	Disassociate(ctx context.Context, broker, username, spaceID string) error

	// ListLive returns every live connection the orchestrator manages.
	ListLive(ctx context.Context) ([]LiveConnection, error)
}

// httpClient is the default HTTP implementation of Client.
type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewClient creates an orchestrator client for the given base endpoint.
// A zero timeout uses the default of 10s.
func NewClient(endpoint string, timeout time.Duration) (Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("orchestrator endpoint is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid orchestrator endpoint: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &httpClient{
		baseURL: strings.TrimRight(endpoint, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *httpClient) Create(ctx context.Context, spec ConnectionSpec, spaceID string) error {
	body := connectionEnvelope{
		Connection: connectionBody{
			Broker:   spec.Broker,
			Username: spec.Username,
			ClientID: spec.ClientID,
			Password: spec.Password,
		},
	}

	query := url.Values{"space_id": {spaceID}}
	return c.send(ctx, http.MethodPost, "/connection", query, &body)
}

func (c *httpClient) Associate(ctx context.Context, broker, username, spaceID string) error {
	body := connectionEnvelope{
		Connection: connectionBody{
			Broker:   broker,
			Username: username,
		},
	}

	query := url.Values{"space_id": {spaceID}}
	return c.send(ctx, http.MethodPut, "/connection", query, &body)
}

func (c *httpClient) Disassociate(ctx context.Context, broker, username, spaceID string) error {
	query := url.Values{
		"space_id": {spaceID},
		"username": {username},
		"broker":   {broker},
	}
	return c.send(ctx, http.MethodDelete, "/connection", query, nil)
}

func (c *httpClient) ListLive(ctx context.Context) ([]LiveConnection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/liveConnections", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &RemoteError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remoteErrorFromResponse(resp)
	}

	var live []LiveConnection
	if err := json.NewDecoder(resp.Body).Decode(&live); err != nil {
		return nil, fmt.Errorf("failed to decode live connections: %w", err)
	}

	return live, nil
}

// send issues a mutation request and maps any non-2xx response or transport
// failure to a RemoteError.
func (c *httpClient) send(ctx context.Context, method, path string, query url.Values, body any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &RemoteError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return remoteErrorFromResponse(resp)
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func remoteErrorFromResponse(resp *http.Response) *RemoteError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	message := strings.TrimSpace(string(data))
	if message == "" {
		message = resp.Status
	}
	return &RemoteError{
		Status:  resp.StatusCode,
		Message: message,
	}
}
