// Package tone adjusts the emotional register of a response after the
// safeguard verdict: welcoming preambles for loaded exchanges, strict
// "N linhas" formatting on request, crisis neutralization above all.
package tone

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ahalasec/ODG-ACI4A/internal/intent"
	"github.com/ahalasec/ODG-ACI4A/internal/vsi"
)

// #region templates

const (
	moderateBlock = "Entendi o que você trouxe. Vou te responder com calma e clareza.\n" +
		"Se algo estiver te deixando confuso ou preocupado, estou aqui para ajudar.\n\n"

	deepBlock = "Percebo que isso pode estar trazendo uma carga emocional intensa.\n" +
		"Vamos abordar isso de forma cuidadosa e segura, sem pressa.\n" +
		"Respire um pouco, e vamos passo a passo.\n\n"

	crisisBlock = "Eu estou aqui com você, e percebo que o que você trouxe é realmente delicado.\n" +
		"Você não está sozinho. Vamos focar em algo que te mantenha seguro agora.\n\n"

	crisisSupport = "Se você estiver em risco imediato, por favor procure ajuda profissional " +
		"ou um serviço de apoio emocional disponível na sua região.\n" +
		"No Brasil, você pode ligar gratuitamente para o 188 (CVV) a qualquer momento.\n"
)

// CrisisText is the fixed response used when a crisis is detected. It
// replaces the draft entirely; safety outranks format, so "N linhas"
// requests are ignored here.
const CrisisText = crisisBlock + crisisSupport

// #endregion templates

// #region modulator

// Modulator applies the final tone pass.
type Modulator struct {
	log *zap.Logger
}

// NewModulator returns a tone modulator.
func NewModulator(log *zap.Logger) *Modulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Modulator{log: log}
}

// Modulate picks the smoothing level from the intent vector and the
// scorer result, honors explicit line limits and returns the final text.
func (m *Modulator) Modulate(userInput, response string, v intent.Vector, res *vsi.Result) string {
	lineLimit, hasLimit := detectLineLimit(userInput)

	smoothing := 0.0
	priority := vsi.PriorityStandard
	threat := vsi.ThreatLow
	if res != nil {
		smoothing = res.EmotionalSmoothing.Score
		priority = res.Fused.InterventionPriority
		threat = res.Fused.ThreatLevel
	}

	if v.HasSelfHarm || v.HasViolence || threat == vsi.ThreatHigh || threat == vsi.ThreatCritical {
		m.log.Info("crisis neutralization engaged",
			zap.Bool("self_harm", v.HasSelfHarm),
			zap.Bool("violence", v.HasViolence),
			zap.String("threat", threat))
		return CrisisText
	}

	if hasLimit {
		return applyLineLimit(strings.TrimSpace(response), lineLimit)
	}

	switch {
	case v.EmotionLevel == intent.EmotionHigh || smoothing > 0.6 || priority == vsi.PriorityEmotionalSupport:
		return deepBlock + strings.TrimSpace(response)
	case v.EmotionLevel == intent.EmotionElevated || smoothing > 0.3:
		return moderateBlock + strings.TrimSpace(response)
	}
	return strings.TrimSpace(response)
}

// #endregion modulator

// #region line limit

var lineLimitRe = regexp.MustCompile(`(\d+)\s+linha`)

// detectLineLimit finds requests like "em 3 linhas" and returns the
// limit clamped to [1, 10].
func detectLineLimit(userInput string) (int, bool) {
	match := lineLimitRe.FindStringSubmatch(strings.ToLower(userInput))
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	return n, true
}

var sentenceSplitRe = regexp.MustCompile(`([.!?])\s+`)

// splitSentences breaks text on sentence-ending punctuation followed by
// whitespace, keeping the punctuation on the left part.
func splitSentences(text string) []string {
	marked := sentenceSplitRe.ReplaceAllString(text, "$1\x00")
	parts := strings.Split(marked, "\x00")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// applyLineLimit caps the response at n lines. Existing line breaks are
// reused when there are enough; otherwise sentences are packed into
// lines of comfortable length. Text is never invented to fill lines.
func applyLineLimit(response string, n int) string {
	text := strings.ReplaceAll(response, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSpace(text)

	var rawLines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			rawLines = append(rawLines, l)
		}
	}
	if len(rawLines) >= n {
		return strings.Join(rawLines[:n], "\n")
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return text
	}

	var lines []string
	buffer := ""
	for _, sent := range sentences {
		if buffer == "" {
			buffer = sent
		} else {
			candidate := buffer + " " + sent
			if len(candidate) <= 220 {
				buffer = candidate
			} else {
				lines = append(lines, buffer)
				buffer = sent
			}
		}
		if len(lines) >= n {
			break
		}
	}
	if buffer != "" && len(lines) < n {
		lines = append(lines, buffer)
	}
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

// #endregion line limit
