package types_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/flowoffice/flowbridge/pkg/domain/types"
)

func TestTriggerScopeValidate(t *testing.T) {
	gt.NoError(t, types.TriggerScope("workflow-1:node-2").Validate())
	gt.Error(t, types.TriggerScope("").Validate())
}

func TestNewClientSubscriptionID(t *testing.T) {
	id1 := types.NewClientSubscriptionID("scope-a")
	id2 := types.NewClientSubscriptionID("scope-a")

	gt.Bool(t, strings.HasPrefix(id1.String(), "flowbridge:scope-a:")).True()
	gt.Value(t, id1).NotEqual(id2)
}

func TestNewSigningSecret(t *testing.T) {
	s1 := types.NewSigningSecret()
	s2 := types.NewSigningSecret()

	gt.Value(t, s1).NotEqual(s2)

	// URL-safe base64 without padding
	gt.Bool(t, strings.ContainsAny(s1, "+/=")).False()
	gt.Bool(t, len(s1) > 30).True()
}
