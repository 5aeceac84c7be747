// Package rules assigns categories to transactions from user-defined matching rules.
package rules

import (
	"strings"
	"time"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
)

type compiledRule struct {
	rule       models.Rule
	matcher    Matcher
	exceptions []string
}

// Engine evaluates an ordered rule set. It is immutable once built and safe for
// concurrent use.
type Engine struct {
	rules []compiledRule
}

// NewEngine compiles the active rules in the given order. Rules that cannot be
// evaluated are skipped with a warning instead of failing the whole set.
func NewEngine(rules []models.Rule, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Nop()
	}

	e := &Engine{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		if err := r.Validate(); err != nil {
			logger.WithError(err).WithField(logging.FieldRule, r.Label()).Warn("Skipping invalid rule")
			continue
		}
		m, err := NewMatcher(r.MatchType, r.Pattern)
		if err != nil {
			logger.WithError(err).WithField(logging.FieldRule, r.Label()).Warn("Skipping invalid rule")
			continue
		}
		e.rules = append(e.rules, compiledRule{rule: r, matcher: m, exceptions: exceptions(r.Exceptions)})
	}
	return e
}

// Len returns the number of rules the engine evaluates.
func (e *Engine) Len() int {
	return len(e.rules)
}

// Categorize returns the category of the first rule matching description on date.
func (e *Engine) Categorize(description string, date time.Time) (string, bool) {
	r, ok := e.Explain(description, date)
	if !ok {
		return "", false
	}
	return r.CategoryID, true
}

// Explain returns the first rule matching description on date.
func (e *Engine) Explain(description string, date time.Time) (models.Rule, bool) {
	desc := Normalize(description)
	day := models.DateOf(date)

	for _, c := range e.rules {
		if c.rule.ValidFrom != nil && day.Before(*c.rule.ValidFrom) {
			continue
		}
		if c.rule.ValidTo != nil && day.After(*c.rule.ValidTo) {
			continue
		}
		if !c.matcher.Match(desc) {
			continue
		}
		if excluded(desc, c.exceptions) {
			continue
		}
		return c.rule, true
	}
	return models.Rule{}, false
}

func excluded(desc string, exceptions []string) bool {
	for _, ex := range exceptions {
		if strings.Contains(desc, ex) {
			return true
		}
	}
	return false
}

// exceptions normalizes exception substrings, dropping blank ones that would
// otherwise exclude every description.
func exceptions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, ex := range in {
		if strings.TrimSpace(ex) == "" {
			continue
		}
		out = append(out, Normalize(ex))
	}
	return out
}
