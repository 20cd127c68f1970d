package flowoffice

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
)

// Service provides access to the FlowOffice API
type Service interface {
	// ListBoards fetches the full board-group tree of the tenant
	ListBoards(ctx context.Context) (*model.BoardTree, error)

	// ListBoardsRaw fetches the board tree without contract validation.
	// Diagnostic call sites use it so they never block on schema drift.
	ListBoardsRaw(ctx context.Context) (json.RawMessage, error)

	// CreateProjects creates up to one batch of projects on a board
	CreateProjects(ctx context.Context, req *CreateProjectsRequest) (*CreateProjectsResponse, error)

	// GetProjects queries projects with optional filters and pagination
	GetProjects(ctx context.Context, req *GetProjectsRequest) (*GetProjectsResponse, error)

	// UpsertSubscription creates or updates the status-change subscription
	// identified by the client subscription ID
	UpsertSubscription(ctx context.Context, id types.ClientSubscriptionID, req *UpsertSubscriptionRequest) (*SubscriptionResponse, error)

	// GetSubscription fetches the subscription by client subscription ID
	GetSubscription(ctx context.Context, id types.ClientSubscriptionID) (*SubscriptionResponse, error)

	// DeleteSubscription removes the subscription. A missing remote
	// subscription is success: delete is idempotent.
	DeleteSubscription(ctx context.Context, id types.ClientSubscriptionID) error
}

// CreateProjectsRequest is one batch of projects to create. Each project is
// a columnKey to value map.
type CreateProjectsRequest struct {
	Projects   []map[string]any `json:"projects"`
	BoardID    int64            `json:"boardId"`
	SubBoardID *int64           `json:"subBoardId,omitempty"`
}

// Validate checks if the request is valid
func (r *CreateProjectsRequest) Validate() error {
	if r.BoardID == 0 {
		return goerr.New("board ID is required")
	}
	if len(r.Projects) == 0 {
		return goerr.New("at least one project is required")
	}
	return nil
}

// ProjectRecord is one project as returned by the API. Cells are keyed by
// columnKey; their value shape depends on the column type.
type ProjectRecord struct {
	ProjectID   int64          `json:"projectId"`
	ProjectUUID string         `json:"projectUuid,omitempty"`
	BoardID     int64          `json:"boardId,omitempty"`
	SubBoardID  *int64         `json:"subBoardId,omitempty"`
	Cells       map[string]any `json:"cells,omitempty"`
}

// CreateProjectsResponse pairs created records with the request's projects
// by index
type CreateProjectsResponse struct {
	Created []ProjectRecord `json:"created"`
}

// StatusQuery filters projects by the labels of one status column. Labels
// may be given by stable key or display name.
type StatusQuery struct {
	StatusColumnKey        string   `json:"statusColumnKey"`
	FilterLabelKeysOrNames []string `json:"filterLabelKeysOrNames"`
}

// GetProjectsRequest carries the optional project query filters
type GetProjectsRequest struct {
	BoardID      *int64       `json:"boardId,omitempty"`
	SubBoardID   *int64       `json:"subBoardId,omitempty"`
	Name         string       `json:"name,omitempty"`
	ProjectIDs   []int64      `json:"projectIds,omitempty"`
	ProjectUUIDs []string     `json:"projectUuids,omitempty"`
	Status       *StatusQuery `json:"status,omitempty"`
	Skip         int          `json:"skip,omitempty"`
}

// NextPage carries the pagination cursor of a project query
type NextPage struct {
	Skip int `json:"skip"`
}

// GetProjectsResponse is one page of a project query. HitLimit signals that
// more pages exist; NextPage.Skip fetches the next one.
type GetProjectsResponse struct {
	Projects []ProjectRecord `json:"projects"`
	NextPage *NextPage       `json:"nextPage,omitempty"`
	HitLimit bool            `json:"hitLimit"`
}

// UpsertSubscriptionRequest is the filter set and signing material of a
// status-change subscription
type UpsertSubscriptionRequest struct {
	CallbackURL         string   `json:"callbackUrl"`
	BoardID             int64    `json:"boardId"`
	StatusColumnKey     string   `json:"statusColumnKey"`
	SubBoardID          *int64   `json:"subBoardId,omitempty"`
	FromStatusLabelKeys []string `json:"fromStatusLabelKeys"`
	ToStatusLabelKeys   []string `json:"toStatusLabelKeys"`
	SigningSecret       string   `json:"signingSecret" masq:"secret"`
	ConfigHash          string   `json:"configHash"`
}

// Validate checks if the request is valid
func (r *UpsertSubscriptionRequest) Validate() error {
	if r.CallbackURL == "" {
		return goerr.New("callback URL is required")
	}
	if r.BoardID == 0 {
		return goerr.New("board ID is required")
	}
	if r.StatusColumnKey == "" {
		return goerr.New("status column key is required")
	}
	if r.SigningSecret == "" {
		return goerr.New("signing secret is required")
	}
	if r.ConfigHash == "" {
		return goerr.New("config hash is required")
	}
	return nil
}

// SubscriptionResponse is the server's view of one subscription
type SubscriptionResponse struct {
	ID         string    `json:"id"`
	Active     bool      `json:"active"`
	ConfigHash string    `json:"configHash"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Validate checks if the response satisfies the endpoint contract
func (r *SubscriptionResponse) Validate() error {
	if r.ID == "" {
		return goerr.New("subscription ID is missing")
	}
	return nil
}
