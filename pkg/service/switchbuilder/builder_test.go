package switchbuilder_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/flowoffice/flowbridge/pkg/domain/model"
	"github.com/flowoffice/flowbridge/pkg/service/switchbuilder"
)

func buildInput() *switchbuilder.BuildInput {
	return &switchbuilder.BuildInput{
		BoardID:     11,
		BoardName:   "Leads",
		ColumnKey:   "stage",
		ColumnLabel: "Stage",
		Labels: []model.StatusLabel{
			{Label: "Open", EnumKey: "open", BackgroundColor: "#00ff00"},
			{Label: "Won", EnumKey: "won", BackgroundColor: "#0000ff"},
		},
	}
}

func TestBuild(t *testing.T) {
	result, err := switchbuilder.Build(buildInput())
	gt.NoError(t, err).Required()

	gt.Value(t, result.BranchCount).Equal(2)
	gt.Value(t, result.NodeName).Equal("Switch Status: Stage")

	def := result.Definition
	gt.Array(t, def.Nodes).Length(1)

	node := def.Nodes[0]
	gt.Value(t, node.Type).Equal("n8n-nodes-base.switch")
	gt.Value(t, node.TypeVersion).Equal(3.3)
	gt.Value(t, node.Name).Equal("Switch Status: Stage")
	gt.Value(t, node.ID).NotEqual("")

	rules := node.Parameters.Rules.Values
	gt.Array(t, rules).Length(2)

	gt.Value(t, rules[0].OutputKey).Equal("Open")
	gt.Bool(t, rules[0].RenameOutput).True()

	cond := rules[0].Conditions.Conditions[0]
	gt.Value(t, cond.LeftValue).Equal(switchbuilder.DefaultValueExpression)
	gt.Value(t, cond.RightValue).Equal(`={{ "open" }}`)
	gt.Value(t, cond.Operator.Type).Equal("string")
	gt.Value(t, cond.Operator.Operation).Equal("equals")
	gt.Value(t, rules[0].Conditions.Combinator).Equal("and")
	gt.Bool(t, rules[0].Conditions.Options.CaseSensitive).True()
	gt.Value(t, rules[0].Conditions.Options.TypeValidation).Equal("strict")

	gt.Value(t, rules[1].Conditions.Conditions[0].RightValue).Equal(`={{ "won" }}`)

	// Each condition gets its own identifier
	gt.Value(t, rules[0].Conditions.Conditions[0].ID).NotEqual(rules[1].Conditions.Conditions[0].ID)

	// One empty connection placeholder per branch, keyed by node name
	conn, ok := def.Connections["Switch Status: Stage"]
	gt.Bool(t, ok).True()
	gt.Array(t, conn.Main).Length(2)
	gt.Array(t, conn.Main[0]).Length(0)
}

func TestBuildJSONShape(t *testing.T) {
	result, err := switchbuilder.Build(buildInput())
	gt.NoError(t, err).Required()

	var decoded map[string]any
	gt.NoError(t, json.Unmarshal([]byte(result.JSON), &decoded)).Required()

	// Top-level keys of a paste-ready definition
	for _, key := range []string{"nodes", "connections", "pinData", "meta"} {
		_, ok := decoded[key]
		gt.Bool(t, ok).True()
	}

	meta := decoded["meta"].(map[string]any)
	gt.Bool(t, meta["templateCredsSetupCompleted"].(bool)).True()
	gt.Value(t, len(meta["instanceId"].(string))).Equal(32)
}

func TestBuildOverrides(t *testing.T) {
	input := buildInput()
	input.ValueExpression = "={{ $json.custom }}"
	input.NodeName = "Route Leads"

	result, err := switchbuilder.Build(input)
	gt.NoError(t, err).Required()

	gt.Value(t, result.NodeName).Equal("Route Leads")
	gt.Value(t, result.Definition.Nodes[0].Parameters.Rules.Values[0].Conditions.Conditions[0].LeftValue).
		Equal("={{ $json.custom }}")

	_, ok := result.Definition.Connections["Route Leads"]
	gt.Bool(t, ok).True()
}

func TestBuildSkipsLabelsWithoutKey(t *testing.T) {
	input := buildInput()
	input.Labels = append(input.Labels, model.StatusLabel{Label: "Draft", EnumKey: ""})

	result, err := switchbuilder.Build(input)
	gt.NoError(t, err).Required()
	gt.Value(t, result.BranchCount).Equal(2)
}

func TestBuildNoLabels(t *testing.T) {
	input := buildInput()
	input.Labels = nil

	result, err := switchbuilder.Build(input)
	gt.NoError(t, err).Required()

	gt.Value(t, result.BranchCount).Equal(0)

	// The format still requires one connection placeholder
	conn := result.Definition.Connections[result.NodeName]
	gt.Array(t, conn.Main).Length(1)
}

func TestBuildRequiresColumnKey(t *testing.T) {
	input := buildInput()
	input.ColumnKey = ""

	_, err := switchbuilder.Build(input)
	gt.Error(t, err)
}
