package switchbuilder

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/flowoffice/flowbridge/pkg/domain/model"
)

// DefaultValueExpression reads the new status label key from a
// status-change event delivered by the trigger.
const DefaultValueExpression = "={{ $json.status.to.labelKey }}"

// BuildInput describes the status column to branch on
type BuildInput struct {
	BoardID     int64
	BoardName   string
	ColumnKey   string
	ColumnLabel string
	Labels      []model.StatusLabel

	// ValueExpression is the left-hand side of every branch predicate.
	// Empty selects DefaultValueExpression.
	ValueExpression string

	// NodeName overrides the generated node name
	NodeName string
}

// Result is a ready-to-paste branching-node definition
type Result struct {
	BranchCount int
	NodeName    string
	Definition  Workflow
	JSON        string
}

// Workflow is a self-contained, directly-importable node definition: it
// embeds freshly generated identifiers and one empty outgoing-connection
// placeholder per branch, so nothing dangles after import.
type Workflow struct {
	Nodes       []Node                `json:"nodes"`
	Connections map[string]Connection `json:"connections"`
	PinData     map[string]any        `json:"pinData"`
	Meta        Meta                  `json:"meta"`
}

// Node is the branching node itself
type Node struct {
	Parameters  NodeParameters `json:"parameters"`
	Type        string         `json:"type"`
	TypeVersion float64        `json:"typeVersion"`
	Position    [2]int         `json:"position"`
	ID          string         `json:"id"`
	Name        string         `json:"name"`
}

// NodeParameters holds the branch rules
type NodeParameters struct {
	Rules   Rules          `json:"rules"`
	Options map[string]any `json:"options"`
}

// Rules wraps the branch list
type Rules struct {
	Values []Rule `json:"values"`
}

// Rule is one output branch: a single strict string-equality condition on
// the configured expression, renamed to the label's display name.
type Rule struct {
	Conditions   Conditions `json:"conditions"`
	RenameOutput bool       `json:"renameOutput"`
	OutputKey    string     `json:"outputKey"`
}

// Conditions is the predicate group of one branch
type Conditions struct {
	Options    ConditionOptions `json:"options"`
	Conditions []Condition      `json:"conditions"`
	Combinator string           `json:"combinator"`
}

// ConditionOptions pins strict, case-sensitive comparison
type ConditionOptions struct {
	CaseSensitive  bool   `json:"caseSensitive"`
	LeftValue      string `json:"leftValue"`
	TypeValidation string `json:"typeValidation"`
	Version        int    `json:"version"`
}

// Condition compares the value expression against one label key
type Condition struct {
	ID         string            `json:"id"`
	LeftValue  string            `json:"leftValue"`
	RightValue string            `json:"rightValue"`
	Operator   ConditionOperator `json:"operator"`
}

// ConditionOperator is the comparison operator of a condition
type ConditionOperator struct {
	Type      string `json:"type"`
	Operation string `json:"operation"`
}

// Connection holds the outgoing connection placeholders of a node
type Connection struct {
	Main [][]any `json:"main"`
}

// Meta is the importable definition's metadata
type Meta struct {
	TemplateCredsSetupCompleted bool   `json:"templateCredsSetupCompleted"`
	InstanceID                  string `json:"instanceId"`
}

// Build generates one branch per status label. The output is structurally
// deterministic; only the embedded identifiers vary per call.
func Build(input *BuildInput) (*Result, error) {
	if input.ColumnKey == "" {
		return nil, goerr.New("column key is required")
	}

	expr := input.ValueExpression
	if expr == "" {
		expr = DefaultValueExpression
	}

	nodeName := input.NodeName
	if nodeName == "" {
		nodeName = fmt.Sprintf("Switch Status: %s", input.ColumnLabel)
	}

	var rules []Rule
	for _, label := range input.Labels {
		if label.EnumKey == "" {
			continue
		}
		rules = append(rules, Rule{
			Conditions: Conditions{
				Options: ConditionOptions{
					CaseSensitive:  true,
					TypeValidation: "strict",
					Version:        2,
				},
				Conditions: []Condition{
					{
						ID:         uuid.NewString(),
						LeftValue:  expr,
						RightValue: fmt.Sprintf("={{ %q }}", label.EnumKey),
						Operator: ConditionOperator{
							Type:      "string",
							Operation: "equals",
						},
					},
				},
				Combinator: "and",
			},
			RenameOutput: true,
			OutputKey:    label.Label,
		})
	}

	// The branching-node format requires at least one output.
	outputCount := len(rules)
	if outputCount < 1 {
		outputCount = 1
	}

	workflow := Workflow{
		Nodes: []Node{
			{
				Parameters: NodeParameters{
					Rules:   Rules{Values: rules},
					Options: map[string]any{},
				},
				Type:        "n8n-nodes-base.switch",
				TypeVersion: 3.3,
				ID:          uuid.NewString(),
				Name:        nodeName,
			},
		},
		Connections: map[string]Connection{
			nodeName: {Main: make([][]any, outputCount)},
		},
		PinData: map[string]any{},
		Meta: Meta{
			TemplateCredsSetupCompleted: true,
			InstanceID:                  strings.ReplaceAll(uuid.NewString(), "-", ""),
		},
	}
	for i := range workflow.Connections[nodeName].Main {
		workflow.Connections[nodeName].Main[i] = []any{}
	}

	data, err := json.MarshalIndent(workflow, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode switch definition")
	}

	return &Result{
		BranchCount: len(rules),
		NodeName:    nodeName,
		Definition:  workflow,
		JSON:        string(data),
	}, nil
}
