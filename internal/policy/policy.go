// Package policy evaluates generated reports against CI gating rules
// loaded from a .nesshub-policy.yaml file.
package policy

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/nesshub/internal/models"
	"gopkg.in/yaml.v3"
)

// Policy defines enforcement rules for a generated report.
type Policy struct {
	Version string `yaml:"version"`
	Rules   Rules  `yaml:"rules"`
}

// Rules contains all configurable policy rules.
type Rules struct {
	MaxTotal       *int     `yaml:"max_total,omitempty"`
	MaxCritical    *int     `yaml:"max_critical,omitempty"`
	MaxHigh        *int     `yaml:"max_high,omitempty"`
	MaxMedium      *int     `yaml:"max_medium,omitempty"`
	MaxLow         *int     `yaml:"max_low,omitempty"`
	ForbidFamilies []string `yaml:"forbid_families,omitempty"`
	MaxAverageCVSS *float64 `yaml:"max_average_cvss,omitempty"`
}

// Violation is a single policy failure.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result holds the outcome of a policy check.
type Result struct {
	Pass       bool        `json:"pass"`
	Violations []Violation `json:"violations"`
}

// LoadFromFile reads a policy file. A missing file yields a nil policy,
// which always passes.
func LoadFromFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read policy: %w", err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	return &p, nil
}

// FindPolicyFile searches for a policy file in the current directory
// and parent directories up to the filesystem root.
func FindPolicyFile() string {
	names := []string{".nesshub-policy.yaml", ".nesshub-policy.yml"}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range names {
			path := dir + "/" + name
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		parent := dir[:strings.LastIndex(dir, "/")]
		if parent == dir || parent == "" {
			break
		}
		dir = parent
	}

	return ""
}

// FailOn builds a gate that forbids any finding at or above the given
// severity label. Shorthand for the corresponding max_* rules set to 0.
func FailOn(label string) (*Policy, error) {
	zero := 0
	rules := Rules{}

	switch strings.ToLower(strings.TrimSpace(label)) {
	case "low":
		rules.MaxLow = &zero
		fallthrough
	case "medium":
		rules.MaxMedium = &zero
		fallthrough
	case "high":
		rules.MaxHigh = &zero
		fallthrough
	case "critical":
		rules.MaxCritical = &zero
	default:
		return nil, fmt.Errorf("unknown severity %q (use critical, high, medium, or low)", label)
	}

	return &Policy{Rules: rules}, nil
}

// Evaluate checks a generated report against the policy rules.
func (p *Policy) Evaluate(details *models.ReportDetails) *Result {
	if p == nil {
		return &Result{Pass: true}
	}

	var violations []Violation

	// max_total
	if p.Rules.MaxTotal != nil {
		if details.Aggregates.TotalFindings > *p.Rules.MaxTotal {
			violations = append(violations, Violation{
				Rule:    "max_total",
				Message: fmt.Sprintf("total findings %d exceeds limit %d", details.Aggregates.TotalFindings, *p.Rules.MaxTotal),
			})
		}
	}

	// per-severity ceilings
	severityRules := []struct {
		rule  string
		label string
		limit *int
	}{
		{"max_critical", models.SeverityCritical, p.Rules.MaxCritical},
		{"max_high", models.SeverityHigh, p.Rules.MaxHigh},
		{"max_medium", models.SeverityMedium, p.Rules.MaxMedium},
		{"max_low", models.SeverityLow, p.Rules.MaxLow},
	}
	for _, sr := range severityRules {
		if sr.limit == nil {
			continue
		}
		count := severityCount(details.Aggregates, sr.label)
		if count > *sr.limit {
			violations = append(violations, Violation{
				Rule:    sr.rule,
				Message: fmt.Sprintf("%s findings %d exceeds limit %d", strings.ToLower(sr.label), count, *sr.limit),
			})
		}
	}

	// forbid_families
	if len(p.Rules.ForbidFamilies) > 0 {
		forbidden := make(map[string]bool, len(p.Rules.ForbidFamilies))
		for _, f := range p.Rules.ForbidFamilies {
			forbidden[f] = true
		}
		familyCounts := map[string]int{}
		var familyOrder []string
		for i := range details.Findings {
			family := details.Findings[i].PluginFamily
			if !forbidden[family] {
				continue
			}
			if familyCounts[family] == 0 {
				familyOrder = append(familyOrder, family)
			}
			familyCounts[family]++
		}
		for _, family := range familyOrder {
			violations = append(violations, Violation{
				Rule:    "forbid_families",
				Message: fmt.Sprintf("forbidden plugin family %q has %d findings", family, familyCounts[family]),
			})
		}
	}

	// max_average_cvss
	if p.Rules.MaxAverageCVSS != nil && details.Aggregates.AverageCVSS != nil {
		if *details.Aggregates.AverageCVSS > *p.Rules.MaxAverageCVSS {
			violations = append(violations, Violation{
				Rule:    "max_average_cvss",
				Message: fmt.Sprintf("average CVSS %.2f exceeds limit %.2f", *details.Aggregates.AverageCVSS, *p.Rules.MaxAverageCVSS),
			})
		}
	}

	return &Result{
		Pass:       len(violations) == 0,
		Violations: violations,
	}
}

func severityCount(aggregates models.AggregatedMetrics, label string) int {
	for _, lc := range aggregates.SeverityCounts {
		if lc.Label == label {
			return lc.Count
		}
	}
	return 0
}
