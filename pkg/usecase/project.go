package usecase

import (
	"context"
	"slices"

	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/service/flowoffice"
	"github.com/flowoffice/flowbridge/pkg/utils/logging"
)

// createBatchSize bounds the payload of one create-projects request.
const createBatchSize = 30

// ProjectUseCase executes the project actions
type ProjectUseCase struct {
	svc flowoffice.Service
}

// NewProjectUseCase creates a new project use case
func NewProjectUseCase(svc flowoffice.Service) *ProjectUseCase {
	return &ProjectUseCase{svc: svc}
}

// ProjectInput is one project to create, paired with the caller's input
// index so output records stay attributable to their source item.
type ProjectInput struct {
	Index  int
	Values map[string]any
}

// CreatedItem is the per-item outcome of a bulk create. Created is nil and
// Err is set when the item's batch failed and the run continued.
type CreatedItem struct {
	InputIndex int
	Values     map[string]any
	Created    *flowoffice.ProjectRecord
	Err        error
}

// CreateProjects creates the given projects on a board in batches. Batches
// are issued sequentially, never concurrently: this bounds per-request
// payload size and keeps per-item results ordered by input index.
//
// When continueOnFail is set, a failed batch yields one errored output item
// per input instead of aborting the run.
func (u *ProjectUseCase) CreateProjects(ctx context.Context, boardID int64, subBoardID *int64, inputs []ProjectInput, continueOnFail bool) ([]CreatedItem, error) {
	if boardID == 0 {
		return nil, goerr.New("board ID is required")
	}

	logger := logging.From(ctx)
	var items []CreatedItem

	for batch := range slices.Chunk(inputs, createBatchSize) {
		projects := make([]map[string]any, len(batch))
		for i, in := range batch {
			projects[i] = in.Values
		}

		resp, err := u.svc.CreateProjects(ctx, &flowoffice.CreateProjectsRequest{
			Projects:   projects,
			BoardID:    boardID,
			SubBoardID: subBoardID,
		})

		if err != nil {
			if !continueOnFail {
				return nil, goerr.Wrap(err, "failed to create projects",
					goerr.V("boardId", boardID), goerr.V("batchSize", len(batch)))
			}

			logger.Warn("project batch failed, continuing",
				"boardId", boardID, "batchSize", len(batch), "error", err)
			for _, in := range batch {
				items = append(items, CreatedItem{
					InputIndex: in.Index,
					Values:     in.Values,
					Err:        err,
				})
			}
			continue
		}

		for i, in := range batch {
			item := CreatedItem{
				InputIndex: in.Index,
				Values:     in.Values,
			}
			if i < len(resp.Created) {
				item.Created = &resp.Created[i]
			}
			items = append(items, item)
		}
	}

	return items, nil
}

// GetProjects queries one page of projects with the given filters
func (u *ProjectUseCase) GetProjects(ctx context.Context, req *flowoffice.GetProjectsRequest) (*flowoffice.GetProjectsResponse, error) {
	resp, err := u.svc.GetProjects(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query projects")
	}
	return resp, nil
}
