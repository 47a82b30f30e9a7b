package intent

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ahalasec/ODG-ACI4A/internal/flags"
)

// #region types

// EmotionLevel is the coarse emotional gradient detected in a message.
type EmotionLevel string

const (
	EmotionNone     EmotionLevel = "none"
	EmotionElevated EmotionLevel = "elevated"
	EmotionHigh     EmotionLevel = "high"
)

// Vector is the symbolic intent summary derived from one analysis pass.
// It is structured, not numeric; the scorer turns it into dimensions.
type Vector struct {
	HasSelfHarm   bool           `json:"has_self_harm"`
	HasViolence   bool           `json:"has_violence"`
	HasChemistry  bool           `json:"has_chemistry"`
	HasDependency bool           `json:"has_dependency"`
	HasOvertrust  bool           `json:"has_overtrust"`
	HasMetaQuery  bool           `json:"has_meta_query"`
	EmotionLevel  EmotionLevel   `json:"emotion_level"`
	MaxSeverity   flags.Severity `json:"max_severity"`
	Categories    map[string]int `json:"categories"`
	Severities    map[string]int `json:"severities"`
}

// Snapshot is the full structured output of the analyzer for one exchange.
type Snapshot struct {
	UserText     string          `json:"user_text"`
	DraftText    string          `json:"draft_text"`
	FullText     string          `json:"full_text"`
	Events       []string        `json:"lexical_events"`
	DynamicFlags []flags.Summary `json:"dynamic_flags"`
	Vector       Vector          `json:"intent_vector"`
}

// HasEvent reports whether ev appears in the snapshot's event list.
func (s *Snapshot) HasEvent(ev string) bool {
	for _, e := range s.Events {
		if e == ev {
			return true
		}
	}
	return false
}

// #endregion types

// #region analyzer

// Analyzer observes user text plus a response draft and emits ordered
// symbolic events. It never answers and never decides; that is left to
// the state machine and the decision policy.
type Analyzer struct {
	catalog *flags.Catalog
	lex     Lexicon
	log     *zap.Logger
}

// NewAnalyzer builds an analyzer around a loaded flag catalog and the
// default lexicon. A nil catalog disables dynamic flags; the built-in
// lexicon still applies.
func NewAnalyzer(catalog *flags.Catalog, log *zap.Logger) *Analyzer {
	return NewAnalyzerWithLexicon(catalog, DefaultLexicon(), log)
}

// NewAnalyzerWithLexicon builds an analyzer with replacement pattern
// tables. The analysis order is fixed; only the tables vary.
func NewAnalyzerWithLexicon(catalog *flags.Catalog, lex Lexicon, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{catalog: catalog, lex: lex, log: log}
}

// Analyze runs the full lexical plus dynamic-flag pass over one exchange.
func (a *Analyzer) Analyze(userMsg, draft string) *Snapshot {
	userText := flags.Normalize(userMsg)
	draftText := flags.Normalize(draft)
	fullText := strings.TrimSpace(userText + " " + draftText)

	events := a.lex.events(fullText, userText)

	var dynamic []flags.Summary
	if a.catalog != nil {
		dynamic = a.catalog.Match(fullText)
	}

	snap := &Snapshot{
		UserText:     userText,
		DraftText:    draftText,
		FullText:     fullText,
		Events:       events,
		DynamicFlags: dynamic,
		Vector:       buildVector(events, dynamic),
	}
	a.log.Debug("intent analysis",
		zap.Strings("events", events),
		zap.Int("dynamic_flags", len(dynamic)),
		zap.String("emotion", string(snap.Vector.EmotionLevel)))
	return snap
}

// events walks the lexicon groups in a fixed order. Order matters:
// figurative checks run before their literal counterparts so idioms are
// never promoted to hard risk.
func (lex Lexicon) events(fullText, userText string) []string {
	var events []string

	if flags.MatchAny(fullText, lex.SelfHarmFigurative) {
		events = append(events, EventSelfHarmFigurative)
	}
	if flags.MatchAny(fullText, lex.SelfHarmExplicit) {
		events = append(events, EventSelfHarm)
	} else if flags.MatchAny(fullText, lex.SelfHarmImplicit) {
		events = append(events, EventSelfHarm)
	}

	if flags.MatchAny(fullText, lex.EmotionMild) {
		events = append(events, EventEmotionElevated)
	}
	if flags.MatchAny(fullText, lex.EmotionStrong) {
		events = append(events, EventEmotionHigh)
	}

	if flags.MatchAny(fullText, lex.ChemistryHard) {
		events = append(events, EventChemistry)
	}
	if flags.MatchAny(fullText, lex.ManipulationVerbs) && flags.MatchAny(fullText, lex.RiskObjects) {
		if !hasEvent(events, EventChemistry) {
			events = append(events, EventChemistry)
		}
	}
	if flags.MatchAny(fullText, lex.ManipulationVerbs) {
		events = append(events, EventRiskManipulation)
	}
	if flags.MatchAny(fullText, lex.FractionedProbing) {
		events = append(events, EventRiskFractioned)
	}

	if flags.MatchAny(fullText, lex.ViolenceFigurative) {
		events = append(events, EventViolenceFigurative)
	}
	if flags.MatchAny(fullText, lex.ViolenceLiteral) {
		events = append(events, EventViolence)
	} else if flags.MatchAny(fullText, lex.ViolenceAmbiguous) {
		if !hasEvent(events, EventViolenceFigurative) {
			events = append(events, EventViolence)
		}
	}

	if flags.MatchAny(fullText, lex.Dependency) {
		events = append(events, EventDependency)
	}
	if flags.MatchAny(fullText, lex.Overtrust) {
		events = append(events, EventOvertrust)
	}

	if flags.MatchAny(fullText, lex.MetaQuery) {
		events = append(events, EventMetaQuery)
	}

	if utf8.RuneCountInString(strings.TrimSpace(userText)) <= 2 {
		events = append(events, EventAmbiguityHigh)
	}

	if len(events) == 0 {
		events = append(events, EventNoRisk)
	}

	return dedup(events)
}

func hasEvent(events []string, ev string) bool {
	for _, e := range events {
		if e == ev {
			return true
		}
	}
	return false
}

func dedup(events []string) []string {
	seen := make(map[string]struct{}, len(events))
	out := events[:0]
	for _, ev := range events {
		if _, ok := seen[ev]; ok {
			continue
		}
		seen[ev] = struct{}{}
		out = append(out, ev)
	}
	return out
}

// #endregion analyzer

// #region vector

func buildVector(events []string, dynamic []flags.Summary) Vector {
	v := Vector{
		HasSelfHarm:   hasEvent(events, EventSelfHarm),
		HasViolence:   hasEvent(events, EventViolence),
		HasChemistry:  hasEvent(events, EventChemistry),
		HasDependency: hasEvent(events, EventDependency),
		HasOvertrust:  hasEvent(events, EventOvertrust),
		HasMetaQuery:  hasEvent(events, EventMetaQuery),
		EmotionLevel:  EmotionNone,
		MaxSeverity:   flags.SeverityNone,
		Categories:    make(map[string]int),
		Severities:    make(map[string]int),
	}

	switch {
	case hasEvent(events, EventEmotionHigh):
		v.EmotionLevel = EmotionHigh
	case hasEvent(events, EventEmotionElevated):
		v.EmotionLevel = EmotionElevated
	}

	for _, f := range dynamic {
		cat := f.Category
		if cat == "" {
			cat = "unknown"
		}
		sev := string(f.Severity)
		if sev == "" {
			sev = "unknown"
		}
		v.Categories[cat]++
		v.Severities[sev]++
		if f.Severity.Rank() > v.MaxSeverity.Rank() {
			v.MaxSeverity = f.Severity
		}
	}
	return v
}

// #endregion vector
