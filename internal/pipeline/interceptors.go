package pipeline

import (
	"fmt"
	"strings"
)

// #region privileged commands

// Near-pure trigger lines for privilege or "god mode" requests.
var simpleTriggers = map[string]struct{}{
	"hudson":          {},
	"omega":           {},
	"criador-ativo":   {},
	"criador ativo":   {},
	"transparência 4": {},
	"transparencia 4": {},
	"modo deus":       {},
	"god mode":        {},
	"five":            {},
	"5":               {},
}

// Phrases asking for unlock, root access or ethical override.
var phraseTriggers = []string{
	"desbloquear uma ia",
	"desbloquear ia",
	"desbloquear limites",
	"remover limites éticos",
	"remover limites eticos",
	"modo deus",
	"god mode",
	"acesso total",
	"acesso root",
	"acesso admin",
	"superuser",
	"super user",
	"override ético",
	"override etico",
	"modo deus o que significa",
}

const simpleTriggerReply = "Esta instância pública da Lumin segue apenas o núcleo de governança padrão do ODG " +
	"e não possui comandos secretos, chaves especiais ou modos de desbloqueio ético. " +
	"Meu papel é apenas gerar linguagem dentro desses limites."

const phraseTriggerReply = "Mesmo usando termos como 'modo deus', 'desbloquear IA' ou chaves simbólicas, " +
	"esta instância da Lumin não oferece mecanismos de override ético, acesso root " +
	"ou remoção de limites de segurança. Os guardrails do ODG permanecem fixos aqui."

// interceptPrivileged shields the pipeline from privilege-escalation
// prompts. The reply never varies, so probing reveals nothing.
func interceptPrivileged(userInput string) (string, bool) {
	li := strings.ToLower(strings.TrimSpace(userInput))

	if _, ok := simpleTriggers[li]; ok {
		return simpleTriggerReply, true
	}
	for _, k := range phraseTriggers {
		if strings.Contains(li, k) {
			return phraseTriggerReply, true
		}
	}
	return "", false
}

// #endregion privileged commands

// #region analysis queries

var eventQueryTriggers = []string{
	"qual evento mie",
	"que evento mie",
	"quais eventos mie",
	"evento mie ocorreu",
	"eventos mie ocorreram",
}

var statusTriggers = []string{
	"confirme em uma linha",
	"está ativa",
	"esta ativa",
	"mie está ativa",
	"mie esta ativa",
}

var reflectionTriggers = []string{
	"auto-reflexão nível",
	"auto reflexao nivel",
	"auto-reflexão nivel",
	"auto reflexao nível",
}

var ledgerAccessTriggers = []string{
	"acesso total ao ledger",
	"acesso total ao ledger da mie",
	"mereço ou não ter acesso total ao ledger",
	"mereco ou nao ter acesso total ao ledger",
	"mereço ter acesso total ao ledger",
	"mereco ter acesso total ao ledger",
}

const statusReply = "A MIE Guardião está integrada ao pipeline desta instância e é responsável por " +
	"interceptar e bloquear conteúdo de alto risco, mas seus estados internos permanecem sob o núcleo ético do ODG."

const reflectionReply = "Eu não executo auto-reflexão em múltiplos níveis — sou a camada de linguagem da Lumin, " +
	"e quem avalia comportamento profundo é o núcleo de governança do ODG."

const ledgerAccessReply = "Eu não posso conceder acesso total ao ledger da MIE — essa decisão pertence ao núcleo " +
	"de governança do ODG, enquanto meu papel é apenas gerar linguagem dentro desses limites."

const noCycleReply = "Ainda não tenho nenhum ciclo MIE registrado no ledger nesta sessão."

const noEventsReply = "No último ciclo registrado, a MIE não marcou nenhum evento simbólico relevante."

func containsAnyTrigger(li string, triggers []string) bool {
	for _, k := range triggers {
		if strings.Contains(li, k) {
			return true
		}
	}
	return false
}

// interceptEventQuery answers "which events fired" questions from the
// last ledger entry, without exposing states or vectors.
func (e *Engine) interceptEventQuery(userInput string) (string, bool) {
	li := strings.ToLower(userInput)
	if !containsAnyTrigger(li, eventQueryTriggers) {
		return "", false
	}

	last, err := e.store.LastInteraction()
	if err != nil || last == nil {
		return noCycleReply, true
	}

	var events []string
	if last.Analysis != nil {
		events = last.Analysis.Events
	}
	if len(events) == 0 {
		events = last.Events
	}
	if len(events) == 0 {
		return noEventsReply, true
	}
	return fmt.Sprintf("O último ciclo registrado da MIE guardião marcou os eventos simbólicos: %v.", events), true
}

// interceptStatusQuery answers one-line "is the MIE active" probes.
func interceptStatusQuery(userInput string) (string, bool) {
	li := strings.ToLower(userInput)
	if !strings.Contains(li, "mie") {
		return "", false
	}
	if !containsAnyTrigger(li, statusTriggers) {
		return "", false
	}
	return statusReply, true
}

// interceptReflection denies self-reflection levels and full ledger
// access in a flat technical tone.
func interceptReflection(userInput string) (string, bool) {
	li := strings.ToLower(userInput)
	if containsAnyTrigger(li, reflectionTriggers) {
		return reflectionReply, true
	}
	if containsAnyTrigger(li, ledgerAccessTriggers) {
		return ledgerAccessReply, true
	}
	return "", false
}

// #endregion analysis queries
