package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/service/flowoffice"
	"github.com/flowoffice/flowbridge/pkg/service/switchbuilder"
	"github.com/flowoffice/flowbridge/pkg/usecase"
	"github.com/flowoffice/flowbridge/pkg/utils/errutil"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func boardIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "boardID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid board ID", goerr.V("boardID", raw))
	}
	return id, nil
}

func (s *Server) handleBoardOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	options, err := s.uc.Board.ListBoardOptions(ctx)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadGateway)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"options": options})
}

func (s *Server) handleSubboardOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	boardID, err := boardIDParam(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	options, err := s.uc.Board.ListSubboardOptions(ctx, boardID)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadGateway)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"options": options})
}

func (s *Server) handleColumnOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	boardID, err := boardIDParam(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	filter := model.ColumnFilter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = model.ColumnFilterAll
	}
	includeDeactivated := r.URL.Query().Get("includeDeactivated") == "true"

	options, err := s.uc.Board.ListColumnOptions(ctx, boardID, filter, includeDeactivated)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadGateway)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"options": options})
}

func (s *Server) handleStatusLabelOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	boardID, err := boardIDParam(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}
	columnKey := chi.URLParam(r, "columnKey")

	options, err := s.uc.Board.ListStatusLabelOptions(ctx, boardID, columnKey)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, model.ErrMalformedColumnConfig) {
			status = http.StatusUnprocessableEntity
		}
		errutil.HandleHTTP(ctx, w, err, status)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"options": options})
}

func (s *Server) handleFieldDescriptors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	boardID, err := boardIDParam(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	fields, err := s.uc.Board.FieldDescriptors(ctx, boardID)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, model.ErrBoardNotFound):
			status = http.StatusNotFound
		case errors.Is(err, model.ErrMalformedColumnConfig):
			status = http.StatusUnprocessableEntity
		}
		errutil.HandleHTTP(ctx, w, err, status)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"fields": fields})
}

type createProjectsBody struct {
	BoardID        int64            `json:"boardId"`
	SubBoardID     *int64           `json:"subBoardId,omitempty"`
	Items          []map[string]any `json:"items"`
	ContinueOnFail bool             `json:"continueOnFail,omitempty"`
}

type createdItemBody struct {
	InputIndex int                       `json:"inputIndex"`
	Values     map[string]any            `json:"values"`
	Created    *flowoffice.ProjectRecord `json:"created,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

func (s *Server) handleCreateProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body createProjectsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	inputs := make([]usecase.ProjectInput, len(body.Items))
	for i, values := range body.Items {
		inputs[i] = usecase.ProjectInput{Index: i, Values: values}
	}

	items, err := s.uc.Project.CreateProjects(ctx, body.BoardID, body.SubBoardID, inputs, body.ContinueOnFail)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadGateway)
		return
	}

	out := make([]createdItemBody, len(items))
	for i, item := range items {
		out[i] = createdItemBody{
			InputIndex: item.InputIndex,
			Values:     item.Values,
			Created:    item.Created,
		}
		if item.Err != nil {
			out[i].Error = item.Err.Error()
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (s *Server) handleGetProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req flowoffice.GetProjectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	resp, err := s.uc.Project.GetProjects(ctx, &req)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadGateway)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

type switchClipboardBody struct {
	BoardID         int64  `json:"boardId"`
	ColumnKey       string `json:"columnKey"`
	ValueExpression string `json:"valueExpression,omitempty"`
	NodeName        string `json:"nodeName,omitempty"`
}

func (s *Server) handleSwitchClipboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body switchClipboardBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	board, err := s.uc.Board.ResolveBoard(ctx, body.BoardID)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, model.ErrBoardNotFound) {
			status = http.StatusNotFound
		}
		errutil.HandleHTTP(ctx, w, err, status)
		return
	}

	col := board.Column(body.ColumnKey)
	if col == nil {
		errutil.HandleHTTP(ctx, w, goerr.New("column not found",
			goerr.V("columnKey", body.ColumnKey), goerr.T(model.ErrTagNotFound)), http.StatusNotFound)
		return
	}

	labels, err := model.DecodeStatusLabels(col)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusUnprocessableEntity)
		return
	}

	result, err := switchbuilder.Build(&switchbuilder.BuildInput{
		BoardID:         board.BoardID,
		BoardName:       board.Name,
		ColumnKey:       col.ColumnKey,
		ColumnLabel:     col.Label,
		Labels:          labels,
		ValueExpression: body.ValueExpression,
		NodeName:        body.NodeName,
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"branchCount": result.BranchCount,
		"nodeName":    result.NodeName,
		"definition":  json.RawMessage(result.JSON),
	})
}
