package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/flowoffice/flowbridge/pkg/domain/model"
)

func baseFilter() model.SubscriptionFilter {
	return model.SubscriptionFilter{
		CallbackURL:     "https://hooks.example.com/flowoffice",
		BoardID:         11,
		StatusColumnKey: "stage",
		FromLabelKeys:   []string{"open", "qualified"},
		ToLabelKeys:     []string{"won"},
	}
}

func TestSubscriptionFilterValidate(t *testing.T) {
	f := baseFilter()
	gt.NoError(t, f.Validate())

	missing := baseFilter()
	missing.CallbackURL = ""
	gt.Error(t, missing.Validate())

	missing = baseFilter()
	missing.BoardID = 0
	gt.Error(t, missing.Validate())

	missing = baseFilter()
	missing.StatusColumnKey = ""
	gt.Error(t, missing.Validate())
}

func TestFingerprintStability(t *testing.T) {
	f := baseFilter()

	t.Run("deterministic", func(t *testing.T) {
		other := baseFilter()
		gt.Value(t, f.Fingerprint()).Equal(other.Fingerprint())
	})

	t.Run("label key order does not matter", func(t *testing.T) {
		reordered := baseFilter()
		reordered.FromLabelKeys = []string{"qualified", "open"}
		gt.Value(t, reordered.Fingerprint()).Equal(f.Fingerprint())
	})

	t.Run("nil and empty key sets are equivalent", func(t *testing.T) {
		a := baseFilter()
		a.ToLabelKeys = nil
		b := baseFilter()
		b.ToLabelKeys = []string{}
		gt.Value(t, a.Fingerprint()).Equal(b.Fingerprint())
	})

	t.Run("any parameter change changes the hash", func(t *testing.T) {
		edits := []func(*model.SubscriptionFilter){
			func(f *model.SubscriptionFilter) { f.CallbackURL = "https://other.example.com" },
			func(f *model.SubscriptionFilter) { f.BoardID = 12 },
			func(f *model.SubscriptionFilter) { f.StatusColumnKey = "phase" },
			func(f *model.SubscriptionFilter) { sb := int64(3); f.SubBoardID = &sb },
			func(f *model.SubscriptionFilter) { f.FromLabelKeys = append(f.FromLabelKeys, "lost") },
			func(f *model.SubscriptionFilter) { f.ToLabelKeys = nil },
		}

		for _, edit := range edits {
			edited := baseFilter()
			edit(&edited)
			gt.Value(t, edited.Fingerprint()).NotEqual(f.Fingerprint())
		}
	})

	t.Run("does not mutate the filter", func(t *testing.T) {
		mutated := baseFilter()
		_ = mutated.Fingerprint()
		gt.Value(t, mutated.FromLabelKeys).Equal([]string{"open", "qualified"})
	})
}

func TestSubscriptionRecordValidate(t *testing.T) {
	rec := model.SubscriptionRecord{
		SubscriptionID:       "srv-1",
		ClientSubscriptionID: "flowbridge:scope:abc",
		SigningSecret:        "secret",
		ConfigHash:           "hash",
	}
	gt.NoError(t, rec.Validate())

	broken := rec
	broken.SigningSecret = ""
	gt.Error(t, broken.Validate())

	broken = rec
	broken.ClientSubscriptionID = ""
	gt.Error(t, broken.Validate())

	broken = rec
	broken.ConfigHash = ""
	gt.Error(t, broken.Validate())

	// Server-side ID may legitimately be absent
	noServer := rec
	noServer.SubscriptionID = ""
	gt.NoError(t, noServer.Validate())
}
