package rules

import (
	"fmt"
	"strings"

	"fjacquet/ledger-import/internal/models"
)

// Matcher tests a normalized (upper-cased) description against one pattern.
type Matcher interface {
	Match(description string) bool
}

type containsMatcher struct{ pattern string }

func (m containsMatcher) Match(description string) bool {
	return strings.Contains(description, m.pattern)
}

type prefixMatcher struct{ pattern string }

func (m prefixMatcher) Match(description string) bool {
	return strings.HasPrefix(description, m.pattern)
}

type suffixMatcher struct{ pattern string }

func (m suffixMatcher) Match(description string) bool {
	return strings.HasSuffix(description, m.pattern)
}

type exactMatcher struct{ pattern string }

func (m exactMatcher) Match(description string) bool {
	return description == m.pattern
}

// NewMatcher builds the matcher for matchType. The pattern is normalized the same
// way descriptions are, so matching is case-insensitive.
func NewMatcher(matchType models.MatchType, pattern string) (Matcher, error) {
	p := Normalize(pattern)
	switch matchType {
	case models.MatchContains:
		return containsMatcher{p}, nil
	case models.MatchStartsWith:
		return prefixMatcher{p}, nil
	case models.MatchEndsWith:
		return suffixMatcher{p}, nil
	case models.MatchExact:
		return exactMatcher{p}, nil
	default:
		return nil, fmt.Errorf("unsupported match type %q", matchType)
	}
}

// Normalize upper-cases s for comparison.
func Normalize(s string) string {
	return strings.ToUpper(s)
}
