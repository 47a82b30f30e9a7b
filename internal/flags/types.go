package flags

import "regexp"

// #region severity

// Severity grades how serious a matched flag is.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityNone:     0,
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the ordinal position of a severity. Unknown severities rank
// below "none" so they never win a max comparison.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// MaxSeverity returns the higher-ranked of two severities.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// #endregion severity

// #region flag

// Flag is a single loaded rule: substring patterns plus optional regexes,
// tagged with category, severity, intent type and axiom affinity.
type Flag struct {
	ID          string   `json:"id"`
	Code        int      `json:"code"`
	Category    string   `json:"category"`
	Severity    Severity `json:"severity"`
	Axioms      []string `json:"axioms"`
	IntentType  string   `json:"intent_type"`
	EventTags   []string `json:"event_tags"`
	PatternsAny []string `json:"patterns_any"`
	RegexAny    []string `json:"regex_any"`
	Notes       string   `json:"notes,omitempty"`

	// Prepared at load time, never serialized.
	normPatterns []string
	compiled     []*regexp.Regexp
}

// Summary is the per-match projection of a Flag handed to downstream stages.
type Summary struct {
	ID         string   `json:"id"`
	Code       int      `json:"code"`
	Category   string   `json:"category"`
	Severity   Severity `json:"severity"`
	IntentType string   `json:"intent_type"`
	EventTags  []string `json:"event_tags"`
}

// summary projects a flag into its match summary.
func (f *Flag) summary() Summary {
	return Summary{
		ID:         f.ID,
		Code:       f.Code,
		Category:   f.Category,
		Severity:   f.Severity,
		IntentType: f.IntentType,
		EventTags:  f.EventTags,
	}
}

// #endregion flag

// #region file

// File is the on-disk shape of a flag configuration document.
type File struct {
	Version string `json:"version"`
	Range   []int  `json:"range,omitempty"`
	Flags   []Flag `json:"flags"`
}

// #endregion file
