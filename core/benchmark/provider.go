// Package benchmark provides the context enrichment provider: an immutable,
// domain-keyed dataset of historical brand shock cases and the adjustment
// factors derived from them.
package benchmark

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/brandsignal/foresight/core/logger"
)

// Severity grades a shock case.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Adjustment is one benchmark case. Immutable once loaded.
type Adjustment struct {
	Domain          string
	ShockType       string
	Severity        Severity
	TransitionDate  time.Time
	Industry        string
	BaselineScore   float64
	BehaviorPattern string
}

// record mirrors the on-disk JSON shape of one case.
type record struct {
	ShockType       string  `json:"shock_type"`
	Severity        string  `json:"severity"`
	TransitionDate  string  `json:"transition_date"`
	Industry        string  `json:"industry"`
	BaselineScore   float64 `json:"baseline_score"`
	BehaviorPattern string  `json:"behavior_pattern"`
}

// Provider exposes O(1) lookups over the loaded dataset.
type Provider struct {
	cases map[string]Adjustment
	log   logger.Logger
}

// NewProvider loads the dataset at path. Any load or parse failure falls back
// to the built-in dataset; construction never fails. An empty path selects
// the built-in dataset directly.
func NewProvider(path string, log logger.Logger) *Provider {
	if log == nil {
		log = logger.Nop{}
	}
	p := &Provider{log: log}
	if path == "" {
		p.cases = builtinCases()
		return p
	}
	cases, err := loadCases(path)
	if err != nil {
		log.Warnf("benchmark dataset %s unusable, using built-in cases: %v", path, err)
		p.cases = builtinCases()
		return p
	}
	log.Infof("loaded %d benchmark cases from %s", len(cases), path)
	p.cases = cases
	return p
}

// loadCases reads a domain-keyed JSON object of case records. The koanf
// delimiter must not be "." since domain keys contain dots.
func loadCases(path string) (map[string]Adjustment, error) {
	k := koanf.New("::")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, err
	}
	var raw map[string]record
	if err := k.UnmarshalWithConf("", &raw, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	cases := make(map[string]Adjustment, len(raw))
	for domain, r := range raw {
		adj, err := r.toAdjustment(domain)
		if err != nil {
			return nil, err
		}
		cases[domain] = adj
	}
	return cases, nil
}

func (r record) toAdjustment(domain string) (Adjustment, error) {
	sev := Severity(r.Severity)
	switch sev {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
	default:
		return Adjustment{}, fmt.Errorf("case %s: unknown severity %q", domain, r.Severity)
	}
	ts, err := time.Parse("2006-01-02", r.TransitionDate)
	if err != nil {
		return Adjustment{}, fmt.Errorf("case %s: transition_date: %w", domain, err)
	}
	return Adjustment{
		Domain:          domain,
		ShockType:       r.ShockType,
		Severity:        sev,
		TransitionDate:  ts,
		Industry:        r.Industry,
		BaselineScore:   r.BaselineScore,
		BehaviorPattern: r.BehaviorPattern,
	}, nil
}

// Lookup returns the case for the exact domain key. Absence is a valid
// outcome, not an error: the domain is simply not a benchmark case.
func (p *Provider) Lookup(domain string) (Adjustment, bool) {
	adj, ok := p.cases[domain]
	return adj, ok
}

// Len reports the number of loaded cases.
func (p *Provider) Len() int { return len(p.cases) }
