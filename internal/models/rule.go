package models

import "fmt"

// MatchType is the comparison a rule applies to a transaction description.
type MatchType string

const (
	MatchContains   MatchType = "contains"
	MatchStartsWith MatchType = "starts_with"
	MatchEndsWith   MatchType = "ends_with"
	MatchExact      MatchType = "exact"
)

// Valid reports whether m is one of the supported match types.
func (m MatchType) Valid() bool {
	switch m {
	case MatchContains, MatchStartsWith, MatchEndsWith, MatchExact:
		return true
	}
	return false
}

// Rule assigns CategoryID to transactions whose description matches Pattern.
// A user's rules are evaluated in stored order and the first match wins.
type Rule struct {
	ID         string    `json:"id,omitempty" yaml:"id,omitempty"`
	OwnerID    string    `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Name       string    `json:"name" yaml:"name"`
	Pattern    string    `json:"pattern" yaml:"pattern"`
	MatchType  MatchType `json:"match_type" yaml:"match_type"`
	CategoryID string    `json:"category_id" yaml:"category_id"`
	IsActive   bool      `json:"is_active" yaml:"is_active"`
	Exceptions []string  `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`
	ValidFrom  *Date     `json:"valid_from,omitempty" yaml:"valid_from,omitempty"`
	ValidTo    *Date     `json:"valid_to,omitempty" yaml:"valid_to,omitempty"`
}

// Validate checks the fields a rule needs to be evaluated.
func (r Rule) Validate() error {
	if r.Pattern == "" {
		return fmt.Errorf("rule %q: pattern is required", r.Name)
	}
	if !r.MatchType.Valid() {
		return fmt.Errorf("rule %q: unsupported match type %q", r.Name, r.MatchType)
	}
	if r.CategoryID == "" {
		return fmt.Errorf("rule %q: category_id is required", r.Name)
	}
	if r.ValidFrom != nil && r.ValidTo != nil && r.ValidTo.Before(*r.ValidFrom) {
		return fmt.Errorf("rule %q: valid_to %s is before valid_from %s", r.Name, r.ValidTo, r.ValidFrom)
	}
	return nil
}

// Label names the rule for logs, falling back to its pattern.
func (r Rule) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Pattern
}
