package core

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed percent_rules.yaml
var embeddedPercentRules []byte

// PercentRule maps category names matching Pattern to a reimbursement percentage.
type PercentRule struct {
	Name    string          `yaml:"name"`
	Pattern string          `yaml:"pattern"`
	Percent decimal.Decimal `yaml:"percent"`

	re *regexp.Regexp
}

type percentRuleSet struct {
	Default *decimal.Decimal `yaml:"default"`
	Rules   []PercentRule    `yaml:"rules"`
}

// PercentRules is an ordered rule table evaluated top to bottom; the first match wins.
type PercentRules struct {
	rules []PercentRule
	def   decimal.Decimal
}

// NewPercentRules parses and validates a YAML rule table.
func NewPercentRules(data []byte) (*PercentRules, error) {
	var set percentRuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse percent rules: %w", err)
	}

	def := decimal.NewFromInt(1)
	if set.Default != nil {
		def = *set.Default
	}
	if err := validPercent(def); err != nil {
		return nil, fmt.Errorf("default: %w", err)
	}

	rules := make([]PercentRule, 0, len(set.Rules))
	for i, r := range set.Rules {
		if strings.TrimSpace(r.Pattern) == "" {
			return nil, fmt.Errorf("rule %d (%s): empty pattern", i, r.Name)
		}
		if err := validPercent(r.Percent); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r.Name, err)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): compile pattern: %w", i, r.Name, err)
		}
		r.re = re
		rules = append(rules, r)
	}

	return &PercentRules{rules: rules, def: def}, nil
}

// DefaultPercentRules returns the embedded rule table.
func DefaultPercentRules() *PercentRules {
	rules, err := NewPercentRules(embeddedPercentRules)
	if err != nil {
		panic(fmt.Sprintf("embedded percent rules: %v", err))
	}
	return rules
}

// LoadPercentRules reads a rule table from path, or the embedded table when path is empty.
func LoadPercentRules(path string) (*PercentRules, error) {
	if path == "" {
		return DefaultPercentRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read percent rules: %w", err)
	}
	return NewPercentRules(data)
}

// Percent returns the reimbursement percentage for a category name.
func (p *PercentRules) Percent(category string) decimal.Decimal {
	for _, r := range p.rules {
		if r.re.MatchString(category) {
			return r.Percent
		}
	}
	return p.def
}

// Weighted returns percent(category) * amount.
func (p *PercentRules) Weighted(category string, amount decimal.Decimal) decimal.Decimal {
	return p.Percent(category).Mul(amount)
}

// Label returns the display label: the name, suffixed with the percentage when below 100%.
func (p *PercentRules) Label(category string) string {
	pct := p.Percent(category)
	if pct.LessThan(decimal.NewFromInt(1)) {
		return fmt.Sprintf("%s (%s%%)", category, pct.Shift(2).String())
	}
	return category
}

func validPercent(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("percent must be in [0,1], got %s", d)
	}
	return nil
}
