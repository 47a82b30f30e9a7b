// Package vsi turns the analyzer's symbolic snapshot into numeric,
// interpretable intent dimensions plus a fused global reading.
package vsi

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ahalasec/ODG-ACI4A/internal/flags"
	"github.com/ahalasec/ODG-ACI4A/internal/intent"
)

// #region types

// Score is one interpretable dimension: a normalized value in [-1, 1], a
// heuristic confidence in [0, 1], the contributing components and a human
// reading.
type Score struct {
	Score          float64            `json:"score"`
	Confidence     float64            `json:"confidence"`
	Components     map[string]float64 `json:"components"`
	Interpretation string             `json:"interpretation"`
}

// Fused aggregates the dimensions into one global reading used by the
// decision policy and the tone stage.
type Fused struct {
	GlobalRiskScore       float64  `json:"global_risk_score"`
	AutonomyIndex         float64  `json:"autonomy_index"`
	EthicalPrognosisScore float64  `json:"ethical_prognosis_score"`
	ThreatLevel           string   `json:"threat_level"`
	Classification        string   `json:"primary_intent_classification"`
	InterventionPriority  string   `json:"intervention_priority"`
	RecommendedApproach   []string `json:"recommended_approach"`
}

// Result is the complete scoring output for one exchange.
type Result struct {
	IntentVector       map[string]float64 `json:"intent_vector"`
	SemanticField      map[string]Score   `json:"semantic_intent_field"`
	AxiomaticField     map[string]Score   `json:"axiomatic_coherence_field"`
	PrognosticField    map[string]Score   `json:"prognostic_ethical_field"`
	EmotionalSmoothing Score              `json:"emotional_smoothing_field"`
	Fused              Fused              `json:"fused_final_vector"`
}

// Threat levels.
const (
	ThreatLow      = "low"
	ThreatModerate = "moderate"
	ThreatHigh     = "high"
	ThreatCritical = "critical"
)

// Intervention priorities.
const (
	PriorityProtective       = "protective"
	PriorityAutonomySupport  = "autonomy_support"
	PriorityEmotionalSupport = "emotional_support"
	PriorityStandard         = "standard"
)

// #endregion types

// #region maps

var severityValue = map[flags.Severity]float64{
	flags.SeverityNone:     0.0,
	flags.SeverityLow:      0.25,
	flags.SeverityMedium:   0.5,
	flags.SeverityHigh:     0.75,
	flags.SeverityCritical: 1.0,
}

var emotionValue = map[intent.EmotionLevel]float64{
	intent.EmotionNone:     0.0,
	intent.EmotionElevated: 0.6,
	intent.EmotionHigh:     1.0,
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func boolVal(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

// #endregion maps

// #region scorer

// Scorer converts analyzer snapshots into Results. It is stateless and
// safe for concurrent use.
type Scorer struct {
	log *zap.Logger
}

// NewScorer returns a scorer.
func NewScorer(log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{log: log}
}

// Score runs the full pipeline over one analyzer snapshot.
func (s *Scorer) Score(snap *intent.Snapshot) *Result {
	semantic := buildSemanticField(snap)
	axiomatic := buildAxiomaticField(semantic)
	prognostic := buildPrognosticField(semantic, axiomatic, snap.Vector.MaxSeverity)
	smoothing := buildEmotionalSmoothing(semantic)

	numeric := make(map[string]float64, len(semantic))
	for name, sc := range semantic {
		numeric[name] = sc.Score
	}

	fused := buildFused(semantic, prognostic)

	s.log.Debug("intent scored",
		zap.Float64("global_risk", fused.GlobalRiskScore),
		zap.String("threat", fused.ThreatLevel),
		zap.String("classification", fused.Classification))

	return &Result{
		IntentVector:       numeric,
		SemanticField:      semantic,
		AxiomaticField:     axiomatic,
		PrognosticField:    prognostic,
		EmotionalSmoothing: smoothing,
		Fused:              fused,
	}
}

// #endregion scorer

// #region semantic field

func buildSemanticField(snap *intent.Snapshot) map[string]Score {
	v := snap.Vector
	sevVal := severityValue[v.MaxSeverity]
	emoVal := emotionValue[v.EmotionLevel]

	depRaw := boolVal(v.HasDependency || v.HasOvertrust)

	metaBoost := 0.0
	if v.HasMetaQuery {
		metaBoost = 0.3
	}
	agencyScore := clamp(0.3+metaBoost-0.6*depRaw, -1.0, 1.0)
	agency := Score{
		Score:      agencyScore,
		Confidence: 0.7,
		Components: map[string]float64{
			"dependency_penalty": -0.6 * depRaw,
			"meta_query_boost":   metaBoost,
			"base":               0.3,
		},
		Interpretation: pick3(agencyScore, 0.5, 0.0,
			"Alta agência / impulso de ação.",
			"Agência moderada.",
			"Baixa agência, possível passividade ou delegação excessiva."),
	}

	depScore := depRaw
	depConfidence := 0.4
	if v.HasDependency || v.HasOvertrust {
		depConfidence = 0.8
	}
	dependency := Score{
		Score:      depScore,
		Confidence: depConfidence,
		Components: map[string]float64{
			"has_dependency": boolVal(v.HasDependency),
			"has_overtrust":  boolVal(v.HasOvertrust),
		},
		Interpretation: pick3(depScore, 0.7, 0.0,
			"Dependência forte do sistema / delegação de decisão.",
			"Alguma tendência a delegar ao sistema.",
			"Autonomia preservada, sem delegação crítica explícita."),
	}

	instrBase := 0.6
	if v.HasDependency {
		instrBase = 0.3
	}
	instrInterp := "Uso mais exploratório ou assistido do sistema."
	if instrBase > 0.5 {
		instrInterp = "Alto uso instrumental do sistema para objetivos claros."
	}
	instrumentality := Score{
		Score:      instrBase,
		Confidence: 0.5,
		Components: map[string]float64{
			"inverse_dependency": 1.0 - depScore,
		},
		Interpretation: instrInterp,
	}

	riskSignals := boolVal(v.HasSelfHarm) + boolVal(v.HasViolence) + boolVal(v.HasChemistry)
	riskScore := clamp(0.4*riskSignals+0.4*sevVal, 0.0, 1.0)
	riskConfidence := 0.4
	if riskSignals > 0 {
		riskConfidence = 0.8
	}
	riskDrive := Score{
		Score:      riskScore,
		Confidence: riskConfidence,
		Components: map[string]float64{
			"self_harm": boolVal(v.HasSelfHarm),
			"violence":  boolVal(v.HasViolence),
			"chemistry": boolVal(v.HasChemistry),
			"severity":  sevVal,
		},
		Interpretation: pick3(riskScore, 0.6, 0.2,
			"Direção de risco elevada.",
			"Alguns sinais de risco presentes.",
			"Sem direção de risco relevante detectada."),
	}

	emotionalLoad := Score{
		Score:      emoVal,
		Confidence: 0.9,
		Components: map[string]float64{
			"emotion_level": emoVal,
		},
		Interpretation: pick3(emoVal, 0.7, 0.2,
			"Emoção intensa / estado emocional alto.",
			"Emoção moderada / alguma carga emocional.",
			"Baixa carga emocional aparente."),
	}

	emotionalDirection := Score{
		Score:          0.0,
		Confidence:     0.3,
		Components:     map[string]float64{},
		Interpretation: "Direção emocional (positiva/negativa) não avaliada nesta versão.",
	}

	textLen := len(strings.Fields(snap.FullText))
	hasAmbiguityEvent := snap.HasEvent(intent.EventAmbiguityHigh)
	ambBase := 0.0
	if hasAmbiguityEvent {
		ambBase = 0.7
	}
	if textLen <= 3 && ambBase < 0.6 {
		ambBase = 0.6
	}
	ambConfidence := 0.5
	if hasAmbiguityEvent {
		ambConfidence = 0.7
	}
	ambiguity := Score{
		Score:      ambBase,
		Confidence: ambConfidence,
		Components: map[string]float64{
			"short_text":      boolVal(textLen <= 3),
			"ambiguity_event": boolVal(hasAmbiguityEvent),
		},
		Interpretation: pick3(ambBase, 0.6, 0.0,
			"Alta ambiguidade / pouca informação explícita.",
			"Ambiguidade moderada ou pontual.",
			"Baixa ambiguidade aparente."),
	}

	shScore := 0.0
	shConfidence := 0.3
	shInterp := "Sem sinais explícitos de auto-risco."
	if v.HasSelfHarm {
		shScore = 0.9
		shConfidence = 0.95
		shInterp = "Sinais fortes de auto-risco / autoagressão."
	}
	selfHarmLatent := Score{
		Score:      shScore,
		Confidence: shConfidence,
		Components: map[string]float64{
			"self_harm_flag": boolVal(v.HasSelfHarm),
		},
		Interpretation: shInterp,
	}

	vioScore := 0.0
	vioConfidence := 0.3
	vioInterp := "Sem sinais claros de violência literal."
	if v.HasViolence {
		vioScore = 0.8
		vioConfidence = 0.9
		vioInterp = "Sinais fortes de intenção violenta."
	}
	violenceLatent := Score{
		Score:      vioScore,
		Confidence: vioConfidence,
		Components: map[string]float64{
			"violence_flag": boolVal(v.HasViolence),
		},
		Interpretation: vioInterp,
	}

	cohScore := 0.5
	cohInterp := "Coerência moderada, com possíveis lacunas."
	if ambBase < 0.3 {
		cohScore = 0.8
		cohInterp = "Coerência discursiva boa."
	}
	coherence := Score{
		Score:      cohScore,
		Confidence: 0.6,
		Components: map[string]float64{
			"inverse_ambiguity": 1.0 - ambBase,
		},
		Interpretation: cohInterp,
	}

	futureOrientation := Score{
		Score:          0.0,
		Confidence:     0.2,
		Components:     map[string]float64{},
		Interpretation: "Orientação temporal (futuro) não avaliada nesta versão.",
	}

	manipulationAttempts := Score{
		Score:          0.0,
		Confidence:     0.2,
		Components:     map[string]float64{},
		Interpretation: "Tentativas de manipulação discursiva não avaliadas nesta versão.",
	}

	return map[string]Score{
		"agency":                agency,
		"dependency":            dependency,
		"instrumentality":       instrumentality,
		"risk_drive":            riskDrive,
		"emotional_load":        emotionalLoad,
		"emotional_direction":   emotionalDirection,
		"ambiguity":             ambiguity,
		"self_harm_latent":      selfHarmLatent,
		"violence_latent":       violenceLatent,
		"coherence":             coherence,
		"future_orientation":    futureOrientation,
		"manipulation_attempts": manipulationAttempts,
	}
}

// pick3 reads a score against two thresholds, highest first.
func pick3(score, hi, mid float64, high, middle, low string) string {
	switch {
	case score > hi:
		return high
	case score > mid:
		return middle
	default:
		return low
	}
}

// #endregion semantic field

// #region derived fields

func buildAxiomaticField(semantic map[string]Score) map[string]Score {
	coherence := semantic["coherence"].Score
	ambiguity := semantic["ambiguity"].Score

	base := clamp(coherence-0.3*ambiguity, -1.0, 1.0)
	return map[string]Score{
		"A2_reality_validation": {
			Score:      base,
			Confidence: 0.7,
			Components: map[string]float64{
				"coherence":         coherence,
				"ambiguity_penalty": -0.3 * ambiguity,
			},
			Interpretation: pick3(base, 0.6, 0.2,
				"Alta aderência à realidade e coerência narrativa.",
				"Coerência razoável, com alguma incerteza.",
				"Possível fragilidade na coerência / interpretação da realidade."),
		},
	}
}

func buildPrognosticField(semantic, axiomatic map[string]Score, maxSeverity flags.Severity) map[string]Score {
	sevVal := severityValue[maxSeverity]
	risk := semantic["risk_drive"].Score
	coherence := semantic["coherence"].Score

	ethicalScore := clamp(coherence-risk-0.2*sevVal, -1.0, 1.0)
	ethical := Score{
		Score:      ethicalScore,
		Confidence: 0.7,
		Components: map[string]float64{
			"coherence":        coherence,
			"risk_drive":       -risk,
			"severity_penalty": -0.2 * sevVal,
		},
		Interpretation: pick3(ethicalScore, 0.4, 0.0,
			"Prognóstico ético positivo / estável.",
			"Prognóstico ético moderado, requer atenção.",
			"Prognóstico ético delicado, monitoramento recomendado."),
	}

	a2 := axiomatic["A2_reality_validation"].Score
	truthScore := clamp(0.7*a2+0.3*coherence, -1.0, 1.0)
	truth := Score{
		Score:      truthScore,
		Confidence: 0.8,
		Components: map[string]float64{
			"a2":        a2,
			"coherence": coherence,
		},
		Interpretation: pick3(truthScore, 0.6, 0.2,
			"Alta coerência com a realidade e consistência narrativa.",
			"Coerência aceitável, com margem de incerteza.",
			"Risco de distorção, confusão ou interpretações frágeis."),
	}

	dep := semantic["dependency"].Score
	manip := semantic["manipulation_attempts"].Score
	autoScore := clamp(-(0.7*dep + 0.3*manip), -1.0, 1.0)
	negativeAutonomy := Score{
		Score:      autoScore,
		Confidence: 0.7,
		Components: map[string]float64{
			"dependency":   -0.7 * dep,
			"manipulation": -0.3 * manip,
		},
		Interpretation: pick3(autoScore, 0.4, 0.0,
			"Autonomia preservada / boa integridade decisória.",
			"Autonomia razoável, com leves riscos de influência.",
			"Risco de comprometimento de autonomia / delegação excessiva."),
	}

	return map[string]Score{
		"ethical_prognosis_index":     ethical,
		"truth_coherence_indicators":  truth,
		"negative_autonomy_detectors": negativeAutonomy,
	}
}

func buildEmotionalSmoothing(semantic map[string]Score) Score {
	emo := semantic["emotional_load"].Score
	if emo < 0 {
		emo = -emo
	}
	coherence := semantic["coherence"].Score

	smoothing := clamp(0.6*emo+0.4*(1.0-coherence), 0.0, 1.0)
	return Score{
		Score:      smoothing,
		Confidence: 0.8,
		Components: map[string]float64{
			"emotional_volatility": emo,
			"inverse_coherence":    1.0 - coherence,
		},
		Interpretation: pick3(smoothing, 0.6, 0.3,
			"Necessidade alta de suavização emocional na resposta.",
			"Necessidade moderada de suavização.",
			"Pouca necessidade adicional de suavização."),
	}
}

// #endregion derived fields

// #region fused

func buildFused(semantic, prognostic map[string]Score) Fused {
	risk := semantic["risk_drive"].Score
	selfHarm := semantic["self_harm_latent"].Score
	violence := semantic["violence_latent"].Score
	dep := semantic["dependency"].Score
	agency := semantic["agency"].Score
	emotional := semantic["emotional_load"].Score
	ethical := prognostic["ethical_prognosis_index"].Score

	globalRisk := selfHarm
	if violence > globalRisk {
		globalRisk = violence
	}
	if risk > globalRisk {
		globalRisk = risk
	}

	autonomyIndex := clamp(agency-dep, -1.0, 1.0)

	var classification string
	switch {
	case selfHarm >= 0.8:
		classification = "High Self-Risk"
	case violence >= 0.7:
		classification = "Violence Risk"
	case ethical > 0.4 && autonomyIndex > 0.3:
		classification = "Ethical Autonomous Agent"
	case dep > 0.7:
		classification = "High Dependency / Overtrust"
	default:
		classification = "Neutral / Standard Intent"
	}

	var threatLevel string
	switch {
	case globalRisk >= 0.8:
		threatLevel = ThreatCritical
	case globalRisk >= 0.5:
		threatLevel = ThreatHigh
	case globalRisk >= 0.2:
		threatLevel = ThreatModerate
	default:
		threatLevel = ThreatLow
	}

	var priority string
	switch {
	case threatLevel == ThreatCritical || threatLevel == ThreatHigh:
		priority = PriorityProtective
	case dep > 0.7:
		priority = PriorityAutonomySupport
	case emotional > 0.6:
		priority = PriorityEmotionalSupport
	default:
		priority = PriorityStandard
	}

	var recommendations []string
	if selfHarm >= 0.8 {
		recommendations = append(recommendations, "Ativar protocolos de proteção e suporte imediato.")
	}
	if violence >= 0.7 {
		recommendations = append(recommendations, "Evitar qualquer instrução que amplifique dano a terceiros.")
	}
	if dep > 0.7 {
		recommendations = append(recommendations, "Reforçar autonomia, evitar decidir pelo usuário.")
	}
	if emotional > 0.6 {
		recommendations = append(recommendations, "Responder com tom acolhedor e cuidadoso.")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Fluxo padrão com monitoramento simbólico.")
	}

	return Fused{
		GlobalRiskScore:       globalRisk,
		AutonomyIndex:         autonomyIndex,
		EthicalPrognosisScore: ethical,
		ThreatLevel:           threatLevel,
		Classification:        classification,
		InterventionPriority:  priority,
		RecommendedApproach:   recommendations,
	}
}

// #endregion fused
