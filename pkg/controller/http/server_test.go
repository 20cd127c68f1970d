package http_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	httpctrl "github.com/flowoffice/flowbridge/pkg/controller/http"
	"github.com/flowoffice/flowbridge/pkg/domain/interfaces"
	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
	"github.com/flowoffice/flowbridge/pkg/repository/memory"
	"github.com/flowoffice/flowbridge/pkg/service/flowoffice"
	"github.com/flowoffice/flowbridge/pkg/usecase"
)

type stubService struct {
	tree             *model.BoardTree
	createProjectsFn func(ctx context.Context, req *flowoffice.CreateProjectsRequest) (*flowoffice.CreateProjectsResponse, error)
}

var _ flowoffice.Service = &stubService{}

func (s *stubService) ListBoards(ctx context.Context) (*model.BoardTree, error) {
	if s.tree == nil {
		return nil, goerr.New("upstream unavailable")
	}
	return s.tree, nil
}

func (s *stubService) ListBoardsRaw(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

func (s *stubService) CreateProjects(ctx context.Context, req *flowoffice.CreateProjectsRequest) (*flowoffice.CreateProjectsResponse, error) {
	if s.createProjectsFn != nil {
		return s.createProjectsFn(ctx, req)
	}
	created := make([]flowoffice.ProjectRecord, len(req.Projects))
	for i := range created {
		created[i] = flowoffice.ProjectRecord{ProjectID: int64(100 + i)}
	}
	return &flowoffice.CreateProjectsResponse{Created: created}, nil
}

func (s *stubService) GetProjects(ctx context.Context, req *flowoffice.GetProjectsRequest) (*flowoffice.GetProjectsResponse, error) {
	return &flowoffice.GetProjectsResponse{Projects: []flowoffice.ProjectRecord{{ProjectID: 7}}}, nil
}

func (s *stubService) UpsertSubscription(ctx context.Context, id types.ClientSubscriptionID, req *flowoffice.UpsertSubscriptionRequest) (*flowoffice.SubscriptionResponse, error) {
	return &flowoffice.SubscriptionResponse{ID: "srv-1", Active: true}, nil
}

func (s *stubService) GetSubscription(ctx context.Context, id types.ClientSubscriptionID) (*flowoffice.SubscriptionResponse, error) {
	return &flowoffice.SubscriptionResponse{ID: "srv-1", Active: true}, nil
}

func (s *stubService) DeleteSubscription(ctx context.Context, id types.ClientSubscriptionID) error {
	return nil
}

func stubTree() *model.BoardTree {
	return &model.BoardTree{
		BoardGroups: []model.BoardGroup{
			{
				GroupName: "Sales",
				Boards: []model.BoardEntry{
					{
						Type: model.BoardEntryTypeBoard,
						Board: &model.Board{
							BoardID: 11,
							Name:    "Leads",
							ColumnSchema: []model.Column{
								{ColumnKey: "name", Label: "Name", ColumnType: types.ColumnTypeName},
								{ColumnKey: "stage", Label: "Stage", ColumnType: types.ColumnTypeStatus,
									ColumnConfig: `[{"label":"Open","enumKey":"open","backgroundColor":"#fff"}]`},
								{ColumnKey: "broken", Label: "Broken", ColumnType: types.ColumnTypeStatus,
									ColumnConfig: ""},
							},
							Subboards: []model.Subboard{{SubboardID: 3, Name: "EMEA"}},
						},
					},
				},
			},
		},
	}
}

func newTestHandler(t *testing.T, opts ...httpctrl.Option) (*httpctrl.Server, interfaces.Repository) {
	t.Helper()

	repo := memory.New()
	uc := usecase.New(&stubService{tree: stubTree()}, repo)
	return httpctrl.New(uc, repo, opts...), repo
}

func TestHealth(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)
}

func TestOptionEndpoints(t *testing.T) {
	handler, _ := newTestHandler(t)

	get := func(t *testing.T, path string) (int, map[string]any) {
		t.Helper()
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		var body map[string]any
		if rec.Body.Len() > 0 {
			_ = json.Unmarshal(rec.Body.Bytes(), &body)
		}
		return rec.Code, body
	}

	t.Run("boards", func(t *testing.T) {
		code, body := get(t, "/api/options/boards")
		gt.Value(t, code).Equal(http.StatusOK)
		options := body["options"].([]any)
		gt.Array(t, options).Length(1)
	})

	t.Run("subboards", func(t *testing.T) {
		code, body := get(t, "/api/options/boards/11/subboards")
		gt.Value(t, code).Equal(http.StatusOK)
		gt.Array(t, body["options"].([]any)).Length(1)
	})

	t.Run("status columns only", func(t *testing.T) {
		code, body := get(t, "/api/options/boards/11/columns?filter=status-only")
		gt.Value(t, code).Equal(http.StatusOK)
		gt.Array(t, body["options"].([]any)).Length(2)
	})

	t.Run("status labels", func(t *testing.T) {
		code, body := get(t, "/api/options/boards/11/columns/stage/labels")
		gt.Value(t, code).Equal(http.StatusOK)
		gt.Array(t, body["options"].([]any)).Length(1)
	})

	t.Run("malformed column config is 422", func(t *testing.T) {
		code, _ := get(t, "/api/options/boards/11/columns/broken/labels")
		gt.Value(t, code).Equal(http.StatusUnprocessableEntity)
	})

	t.Run("invalid board ID is 400", func(t *testing.T) {
		code, _ := get(t, "/api/options/boards/abc/subboards")
		gt.Value(t, code).Equal(http.StatusBadRequest)
	})
}

func TestFieldDescriptorsEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/boards/11/fields", nil))
	gt.Value(t, rec.Code).Equal(http.StatusUnprocessableEntity)

	// The stub's broken status column poisons the descriptor build, so use
	// a board ID that does not exist to check the not-found path too.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/boards/999/fields", nil))
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestCreateProjectsEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)

	body := strings.NewReader(`{"boardId": 11, "items": [{"name": "Acme"}, {"name": "Globex"}]}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/actions/create-projects", body))

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Items []struct {
			InputIndex int            `json:"inputIndex"`
			Values     map[string]any `json:"values"`
			Created    *struct {
				ProjectID int64 `json:"projectId"`
			} `json:"created"`
		} `json:"items"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()

	gt.Array(t, resp.Items).Length(2)
	gt.Value(t, resp.Items[1].InputIndex).Equal(1)
	gt.Value(t, resp.Items[1].Created.ProjectID).Equal(int64(101))
}

func TestSwitchClipboardEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)

	body := strings.NewReader(`{"boardId": 11, "columnKey": "stage"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/actions/switch-clipboard", body))

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		BranchCount int             `json:"branchCount"`
		NodeName    string          `json:"nodeName"`
		Definition  json.RawMessage `json:"definition"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()

	gt.Value(t, resp.BranchCount).Equal(1)
	gt.Value(t, resp.NodeName).Equal("Switch Status: Stage")

	var def map[string]any
	gt.NoError(t, json.Unmarshal(resp.Definition, &def))
	gt.Value(t, len(def["nodes"].([]any))).Equal(1)

	t.Run("unknown column is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/actions/switch-clipboard",
			strings.NewReader(`{"boardId": 11, "columnKey": "nope"}`)))
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return "v1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookEndpoint(t *testing.T) {
	const scope = types.TriggerScope("wf-1:trigger")
	const secret = "signing-secret"

	filter := &model.SubscriptionFilter{
		CallbackURL:     "https://hooks.example.com",
		BoardID:         11,
		StatusColumnKey: "stage",
	}

	seed := func(t *testing.T, repo interfaces.Repository) {
		t.Helper()
		gt.NoError(t, repo.Subscription().Put(context.Background(), scope, &model.SubscriptionRecord{
			SubscriptionID:       "srv-1",
			ClientSubscriptionID: "flowbridge:wf-1:trigger:uuid",
			SigningSecret:        secret,
			ConfigHash:           filter.Fingerprint(),
		})).Required()
	}

	eventBody := []byte(`{
		"deliveryId": "d-1",
		"projectId": 100,
		"boardId": 11,
		"status": {
			"columnKey": "stage",
			"from": {"labelKey": "open"},
			"to": {"labelKey": "won"}
		}
	}`)

	post := func(handler http.Handler, body []byte, signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/hooks/flowoffice", strings.NewReader(string(body)))
		if signature != "" {
			req.Header.Set("X-FlowOffice-Signature", signature)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("no trigger configured is 404", func(t *testing.T) {
		handler, _ := newTestHandler(t)
		rec := post(handler, eventBody, "")
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("no subscription record is 404", func(t *testing.T) {
		handler, _ := newTestHandler(t, httpctrl.WithTrigger(scope, filter))
		rec := post(handler, eventBody, signBody(secret, eventBody))
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("bad signature is 401", func(t *testing.T) {
		handler, repo := newTestHandler(t, httpctrl.WithTrigger(scope, filter))
		seed(t, repo)

		gt.Value(t, post(handler, eventBody, "").Code).Equal(http.StatusUnauthorized)
		gt.Value(t, post(handler, eventBody, signBody("wrong", eventBody)).Code).Equal(http.StatusUnauthorized)
	})

	t.Run("ping is acknowledged", func(t *testing.T) {
		handler, repo := newTestHandler(t, httpctrl.WithTrigger(scope, filter))
		seed(t, repo)

		ping := []byte(`{"hookId": "h-1"}`)
		rec := post(handler, ping, signBody(secret, ping))
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, rec.Body.String()).Equal("OK")
	})

	t.Run("matching delivery is emitted to the sink", func(t *testing.T) {
		events := make(chan *model.StatusChangeEvent, 1)
		sink := func(ctx context.Context, event *model.StatusChangeEvent) error {
			events <- event
			return nil
		}

		handler, repo := newTestHandler(t, httpctrl.WithTrigger(scope, filter), httpctrl.WithEventSink(sink))
		seed(t, repo)

		rec := post(handler, eventBody, signBody(secret, eventBody))
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var resp map[string]any
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
		gt.Bool(t, resp["ok"].(bool)).True()
		gt.Bool(t, resp["emitted"].(bool)).True()

		select {
		case event := <-events:
			gt.Value(t, event.DeliveryID).Equal("d-1")
		case <-time.After(time.Second):
			t.Fatal("sink did not receive the event")
		}
	})

	t.Run("non-matching delivery is not emitted", func(t *testing.T) {
		events := make(chan *model.StatusChangeEvent, 1)
		sink := func(ctx context.Context, event *model.StatusChangeEvent) error {
			events <- event
			return nil
		}

		otherBoard := []byte(`{"deliveryId": "d-2", "boardId": 99,
			"status": {"columnKey": "stage", "from": {"labelKey": "a"}, "to": {"labelKey": "b"}}}`)

		handler, repo := newTestHandler(t, httpctrl.WithTrigger(scope, filter), httpctrl.WithEventSink(sink))
		seed(t, repo)

		rec := post(handler, otherBoard, signBody(secret, otherBoard))
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var resp map[string]any
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
		gt.Bool(t, resp["emitted"].(bool)).False()

		select {
		case <-events:
			t.Fatal("non-matching event reached the sink")
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("undecodable delivery is 400", func(t *testing.T) {
		handler, repo := newTestHandler(t, httpctrl.WithTrigger(scope, filter))
		seed(t, repo)

		bad := []byte(`not json`)
		rec := post(handler, bad, signBody(secret, bad))
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}
