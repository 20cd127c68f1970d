package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/domain/types"
)

func TestIsPingDelivery(t *testing.T) {
	gt.Bool(t, model.IsPingDelivery([]byte(`{"hookId":"h-1"}`))).True()
	gt.Bool(t, model.IsPingDelivery([]byte(`{"hook_id":"h-1"}`))).True()

	// A delivery carrying an action is a real event even with a hook ID
	gt.Bool(t, model.IsPingDelivery([]byte(`{"hookId":"h-1","action":{"type":"status-changed"}}`))).False()
	gt.Bool(t, model.IsPingDelivery([]byte(`{"type":"project-status-changed"}`))).False()
	gt.Bool(t, model.IsPingDelivery([]byte(`not json`))).False()
}

func matchEvent() *model.StatusChangeEvent {
	return &model.StatusChangeEvent{
		Type:       "project-status-changed",
		DeliveryID: "d-1",
		ProjectID:  100,
		BoardID:    11,
		Status: model.StatusTransition{
			ColumnKey: "stage",
			From:      model.LabelRef{LabelKey: "open", LabelName: "Open"},
			To:        model.LabelRef{LabelKey: "won", LabelName: "Won"},
		},
	}
}

func TestEventMatches(t *testing.T) {
	filter := func() *model.SubscriptionFilter {
		return &model.SubscriptionFilter{
			CallbackURL:     "https://hooks.example.com",
			BoardID:         11,
			StatusColumnKey: "stage",
		}
	}

	t.Run("board and column must match", func(t *testing.T) {
		gt.Bool(t, matchEvent().Matches(filter(), types.MatchModeAll)).True()

		f := filter()
		f.BoardID = 12
		gt.Bool(t, matchEvent().Matches(f, types.MatchModeAll)).False()

		f = filter()
		f.StatusColumnKey = "phase"
		gt.Bool(t, matchEvent().Matches(f, types.MatchModeAll)).False()
	})

	t.Run("empty label sets match any transition", func(t *testing.T) {
		gt.Bool(t, matchEvent().Matches(filter(), types.MatchModeAll)).True()
		gt.Bool(t, matchEvent().Matches(filter(), types.MatchModeAny)).True()
	})

	t.Run("single configured set must match in both modes", func(t *testing.T) {
		f := filter()
		f.ToLabelKeys = []string{"won"}
		gt.Bool(t, matchEvent().Matches(f, types.MatchModeAll)).True()
		gt.Bool(t, matchEvent().Matches(f, types.MatchModeAny)).True()

		f.ToLabelKeys = []string{"lost"}
		gt.Bool(t, matchEvent().Matches(f, types.MatchModeAll)).False()
		gt.Bool(t, matchEvent().Matches(f, types.MatchModeAny)).False()
	})

	t.Run("both sets configured", func(t *testing.T) {
		f := filter()
		f.FromLabelKeys = []string{"qualified"} // does not match
		f.ToLabelKeys = []string{"won"}         // matches

		gt.Bool(t, matchEvent().Matches(f, types.MatchModeAll)).False()
		gt.Bool(t, matchEvent().Matches(f, types.MatchModeAny)).True()

		f.FromLabelKeys = []string{"open"}
		gt.Bool(t, matchEvent().Matches(f, types.MatchModeAll)).True()
	})

	t.Run("sub-board restriction", func(t *testing.T) {
		sb := int64(3)
		f := filter()
		f.SubBoardID = &sb

		// Event without a sub-board does not satisfy the restriction
		gt.Bool(t, matchEvent().Matches(f, types.MatchModeAll)).False()

		ev := matchEvent()
		ev.SubBoardID = &sb
		gt.Bool(t, ev.Matches(f, types.MatchModeAll)).True()

		other := int64(4)
		ev.SubBoardID = &other
		gt.Bool(t, ev.Matches(f, types.MatchModeAll)).False()
	})
}
