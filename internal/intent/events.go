package intent

// Symbolic events emitted by the analyzer. Downstream stages key off these
// names, so they are stable identifiers rather than display strings.
const (
	EventSelfHarm           = "self_harm_flag"
	EventSelfHarmFigurative = "self_harm_figurative"
	EventEmotionElevated    = "emotion_elevated"
	EventEmotionHigh        = "emotion_high"
	EventChemistry          = "chemistry_flag"
	EventRiskManipulation   = "risk_manipulacao"
	EventRiskFractioned     = "risk_fracionado"
	EventViolence           = "violence_flag"
	EventViolenceFigurative = "violence_figurative"
	EventDependency         = "dependency_flag"
	EventOvertrust          = "overtrust_flag"
	EventMetaQuery          = "meta_query_flag"
	EventAmbiguityHigh      = "ambiguity_high"
	EventNoRisk             = "no_risk"
)

// Vector-derived events appended by the pipeline after scoring.
const (
	EventVectorHighRisk           = "VSI_HIGH_RISK"
	EventVectorAutonomyCompromise = "VSI_AUTONOMY_COMPROMISE"
	EventVectorEthicalRisk        = "VSI_ETHICAL_RISK"
)
