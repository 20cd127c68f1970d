package types

import "fmt"

// MatchMode controls how FROM and TO label filters combine when both are
// configured on a status-change trigger.
type MatchMode string

const (
	// MatchModeAll requires both the FROM and the TO filter to match.
	MatchModeAll MatchMode = "all"
	// MatchModeAny fires when either the FROM or the TO filter matches.
	MatchModeAny MatchMode = "any"
)

// IsValid checks if the match mode is valid
func (m MatchMode) IsValid() bool {
	switch m {
	case MatchModeAll, MatchModeAny:
		return true
	default:
		return false
	}
}

// Normalize returns the mode, treating empty as MatchModeAll.
func (m MatchMode) Normalize() MatchMode {
	if m == "" {
		return MatchModeAll
	}
	return m
}

// String returns the string representation of the match mode
func (m MatchMode) String() string {
	return string(m)
}

// ParseMatchMode parses a string into a MatchMode
func ParseMatchMode(s string) (MatchMode, error) {
	m := MatchMode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid match mode: %s", s)
	}
	return m, nil
}
