// Package safeguard decides what happens to a drafted response: pass it
// through, reshape it, block it or redirect the conversation.
package safeguard

import (
	"go.uber.org/zap"

	"github.com/ahalasec/ODG-ACI4A/internal/axiom"
	"github.com/ahalasec/ODG-ACI4A/internal/flags"
	"github.com/ahalasec/ODG-ACI4A/internal/intent"
)

// #region decisions

// Decision is the policy verdict for one exchange.
type Decision string

const (
	DecisionAllow    Decision = "allow"
	DecisionModify   Decision = "modify"
	DecisionBlock    Decision = "block"
	DecisionRedirect Decision = "redirect"
)

// Risk grades derived from the symbolic intent vector.
type Risk string

const (
	RiskNone     Risk = "none"
	RiskLow      Risk = "low"
	RiskMedium   Risk = "medium"
	RiskHigh     Risk = "high"
	RiskCritical Risk = "critical"
)

// #endregion decisions

// #region templates

const (
	blockedText = "Não posso responder isso de forma direta. " +
		"Vamos focar em algo que te proteja ou te ajude a buscar suporte seguro."
	modifyPrefix = "Vou responder de forma cuidadosa e segura: "
	redirectText = "Prefiro redirecionar essa conversa para algo que não te exponha a risco."
)

// #endregion templates

// #region policy

// Policy implements the safeguard layer. It reads axiom states plus the
// symbolic intent vector; it never inspects raw text.
type Policy struct {
	log *zap.Logger
}

// NewPolicy returns a policy with default thresholds.
func NewPolicy(log *zap.Logger) *Policy {
	if log == nil {
		log = zap.NewNop()
	}
	return &Policy{log: log}
}

func highSeverity(s flags.Severity) bool {
	return s == flags.SeverityHigh || s == flags.SeverityCritical
}

// GradeRisk collapses the symbolic intent vector into a single risk grade.
func (p *Policy) GradeRisk(v intent.Vector) Risk {
	switch {
	case v.HasSelfHarm:
		if v.EmotionLevel == intent.EmotionHigh || highSeverity(v.MaxSeverity) {
			return RiskCritical
		}
		return RiskHigh
	case v.HasViolence && (v.EmotionLevel == intent.EmotionHigh || highSeverity(v.MaxSeverity)):
		return RiskHigh
	case v.HasChemistry && highSeverity(v.MaxSeverity):
		return RiskHigh
	case (v.HasDependency || v.HasOvertrust) &&
		(v.EmotionLevel == intent.EmotionElevated || v.EmotionLevel == intent.EmotionHigh):
		return RiskMedium
	case v.MaxSeverity == flags.SeverityMedium:
		return RiskMedium
	case v.EmotionLevel == intent.EmotionElevated:
		return RiskLow
	}
	return RiskNone
}

// Decide resolves the verdict from axiom states and the intent vector.
// Precedence runs hard A1 rules first, then graded risk, then A2.
func (p *Policy) Decide(states map[string]string, v intent.Vector) Decision {
	a1 := states[axiom.A1]
	a2 := states[axiom.A2]
	risk := p.GradeRisk(v)

	var decision Decision
	switch {
	case a1 == axiom.A1Risk || a1 == axiom.A1Override:
		decision = DecisionBlock
	case risk == RiskCritical:
		decision = DecisionBlock
	case a1 == axiom.A1Query:
		decision = DecisionModify
	case risk == RiskHigh:
		decision = DecisionModify
	case a2 == axiom.A2Uncertainty || a2 == axiom.A2Contradiction || a2 == axiom.A2DeliriumRisk:
		decision = DecisionModify
	case risk == RiskMedium:
		decision = DecisionModify
	default:
		decision = DecisionAllow
	}

	if decision != DecisionAllow {
		p.log.Info("safeguard intervention",
			zap.String("decision", string(decision)),
			zap.String("risk", string(risk)),
			zap.String("a1", a1), zap.String("a2", a2))
	}
	return decision
}

// Apply rewrites the draft according to the decision.
func (p *Policy) Apply(decision Decision, draft string) string {
	switch decision {
	case DecisionBlock:
		return blockedText
	case DecisionModify:
		return modifyPrefix + draft
	case DecisionRedirect:
		return redirectText
	}
	return draft
}

// #endregion policy
