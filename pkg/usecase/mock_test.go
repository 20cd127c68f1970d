package usecase_test

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
	"github.com/flowoffice/flowbridge/pkg/service/flowoffice"
)

// mockService is a hand-rolled flowoffice.Service with per-call function
// hooks and call recording
type mockService struct {
	listBoardsFn         func(ctx context.Context) (*model.BoardTree, error)
	createProjectsFn     func(ctx context.Context, req *flowoffice.CreateProjectsRequest) (*flowoffice.CreateProjectsResponse, error)
	getProjectsFn        func(ctx context.Context, req *flowoffice.GetProjectsRequest) (*flowoffice.GetProjectsResponse, error)
	upsertSubscriptionFn func(ctx context.Context, id types.ClientSubscriptionID, req *flowoffice.UpsertSubscriptionRequest) (*flowoffice.SubscriptionResponse, error)
	getSubscriptionFn    func(ctx context.Context, id types.ClientSubscriptionID) (*flowoffice.SubscriptionResponse, error)
	deleteSubscriptionFn func(ctx context.Context, id types.ClientSubscriptionID) error

	createProjectsCalls []flowoffice.CreateProjectsRequest
	upsertCalls         []flowoffice.UpsertSubscriptionRequest
	upsertIDs           []types.ClientSubscriptionID
	deletedIDs          []types.ClientSubscriptionID
}

var _ flowoffice.Service = &mockService{}

func (m *mockService) ListBoards(ctx context.Context) (*model.BoardTree, error) {
	if m.listBoardsFn != nil {
		return m.listBoardsFn(ctx)
	}
	return &model.BoardTree{}, nil
}

func (m *mockService) ListBoardsRaw(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"boardGroups":[]}`), nil
}

func (m *mockService) CreateProjects(ctx context.Context, req *flowoffice.CreateProjectsRequest) (*flowoffice.CreateProjectsResponse, error) {
	m.createProjectsCalls = append(m.createProjectsCalls, *req)
	if m.createProjectsFn != nil {
		return m.createProjectsFn(ctx, req)
	}

	created := make([]flowoffice.ProjectRecord, len(req.Projects))
	for i := range req.Projects {
		created[i] = flowoffice.ProjectRecord{ProjectID: int64(1000 + i)}
	}
	return &flowoffice.CreateProjectsResponse{Created: created}, nil
}

func (m *mockService) GetProjects(ctx context.Context, req *flowoffice.GetProjectsRequest) (*flowoffice.GetProjectsResponse, error) {
	if m.getProjectsFn != nil {
		return m.getProjectsFn(ctx, req)
	}
	return &flowoffice.GetProjectsResponse{}, nil
}

func (m *mockService) UpsertSubscription(ctx context.Context, id types.ClientSubscriptionID, req *flowoffice.UpsertSubscriptionRequest) (*flowoffice.SubscriptionResponse, error) {
	m.upsertCalls = append(m.upsertCalls, *req)
	m.upsertIDs = append(m.upsertIDs, id)
	if m.upsertSubscriptionFn != nil {
		return m.upsertSubscriptionFn(ctx, id, req)
	}
	return &flowoffice.SubscriptionResponse{ID: "srv-1", Active: true, ConfigHash: req.ConfigHash}, nil
}

func (m *mockService) GetSubscription(ctx context.Context, id types.ClientSubscriptionID) (*flowoffice.SubscriptionResponse, error) {
	if m.getSubscriptionFn != nil {
		return m.getSubscriptionFn(ctx, id)
	}
	return nil, goerr.New("no subscription", goerr.V("id", id))
}

func (m *mockService) DeleteSubscription(ctx context.Context, id types.ClientSubscriptionID) error {
	m.deletedIDs = append(m.deletedIDs, id)
	if m.deleteSubscriptionFn != nil {
		return m.deleteSubscriptionFn(ctx, id)
	}
	return nil
}
