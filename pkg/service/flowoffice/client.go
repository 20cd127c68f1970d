package flowoffice

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
)

// endpoint is one logical API endpoint: a method and a path under the
// versioned prefix. Path templates hold one %s slot at most.
type endpoint struct {
	method string
	path   string
}

var (
	epListBoards     = endpoint{http.MethodGet, "/api/v1/board/list-boards"}
	epCreateProjects = endpoint{http.MethodPost, "/api/v1/project/create-projects"}
	epGetProjects    = endpoint{http.MethodPost, "/api/v1/project/get-projects"}

	epUpsertSubscription = endpoint{http.MethodPut, "/api/v1/webhooks/subscriptions/project-status-changed/"}
	epGetSubscription    = endpoint{http.MethodGet, "/api/v1/webhooks/subscriptions/project-status-changed/"}
	epDeleteSubscription = endpoint{http.MethodDelete, "/api/v1/webhooks/subscriptions/project-status-changed/"}
)

func (e endpoint) withID(id types.ClientSubscriptionID) endpoint {
	return endpoint{e.method, e.path + url.PathEscape(id.String())}
}

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the client
type Option func(*client)

// WithHTTPClient replaces the underlying HTTP client. Timeouts, retries and
// backoff are the caller's concern; the client itself issues exactly one
// call per logical endpoint.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a new FlowOffice service with the given base URL and API key
func New(baseURL, apiKey string, opts ...Option) (Service, error) {
	if baseURL == "" {
		return nil, goerr.New("base URL is required")
	}
	if apiKey == "" {
		return nil, goerr.New("API key is required")
	}

	c := &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// do issues one authenticated HTTP call and returns the response body.
// Network failures and non-2xx statuses are transport errors; the HTTP
// status is attached for callers that branch on it.
func (c *client) do(ctx context.Context, ep endpoint, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, goerr.Wrap(err, "failed to encode request body", goerr.V("path", ep.path))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, ep.method, c.baseURL+ep.path, reader)
	if err != nil {
		return 0, nil, goerr.Wrap(err, "failed to build request", goerr.V("path", ep.path))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, goerr.Wrap(err, "request failed",
			goerr.V("method", ep.method), goerr.V("path", ep.path), goerr.T(model.ErrTagTransport))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, goerr.Wrap(err, "failed to read response body",
			goerr.V("path", ep.path), goerr.T(model.ErrTagTransport))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, raw, goerr.New("unexpected response status",
			goerr.V("method", ep.method), goerr.V("path", ep.path),
			goerr.V("status", resp.StatusCode), goerr.T(model.ErrTagTransport))
	}

	return resp.StatusCode, raw, nil
}

type validator interface {
	Validate() error
}

// invoke executes one endpoint and decodes the response against its output
// contract. A response that fails decoding or validation is a contract
// violation, not a transport error.
func invoke[T any](ctx context.Context, c *client, ep endpoint, body any) (*T, error) {
	_, raw, err := c.do(ctx, ep, body)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, goerr.Wrap(err, "response does not match endpoint contract",
			goerr.V("path", ep.path), goerr.T(model.ErrTagContract))
	}

	if v, ok := any(&out).(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, goerr.Wrap(err, "response failed contract validation",
				goerr.V("path", ep.path), goerr.T(model.ErrTagContract))
		}
	}

	return &out, nil
}

func (c *client) ListBoards(ctx context.Context) (*model.BoardTree, error) {
	return invoke[model.BoardTree](ctx, c, epListBoards, nil)
}

func (c *client) ListBoardsRaw(ctx context.Context) (json.RawMessage, error) {
	_, raw, err := c.do(ctx, epListBoards, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c *client) CreateProjects(ctx context.Context, req *CreateProjectsRequest) (*CreateProjectsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid create-projects request")
	}
	return invoke[CreateProjectsResponse](ctx, c, epCreateProjects, req)
}

func (c *client) GetProjects(ctx context.Context, req *GetProjectsRequest) (*GetProjectsResponse, error) {
	return invoke[GetProjectsResponse](ctx, c, epGetProjects, req)
}

func (c *client) UpsertSubscription(ctx context.Context, id types.ClientSubscriptionID, req *UpsertSubscriptionRequest) (*SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid subscription upsert request")
	}
	return invoke[SubscriptionResponse](ctx, c, epUpsertSubscription.withID(id), req)
}

func (c *client) GetSubscription(ctx context.Context, id types.ClientSubscriptionID) (*SubscriptionResponse, error) {
	return invoke[SubscriptionResponse](ctx, c, epGetSubscription.withID(id), nil)
}

func (c *client) DeleteSubscription(ctx context.Context, id types.ClientSubscriptionID) error {
	status, _, err := c.do(ctx, epDeleteSubscription.withID(id), nil)
	if err != nil {
		if status == http.StatusNotFound {
			// Already gone remotely. Delete is idempotent.
			return nil
		}
		return err
	}
	return nil
}
