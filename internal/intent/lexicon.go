package intent

// #region lexicon

// Lexicon is the built-in pattern table set. It is plain data in the same
// normalized-substring shape the flag catalog matches on, so the tables
// can be swapped without touching the analysis order.
type Lexicon struct {
	SelfHarmExplicit   []string
	SelfHarmImplicit   []string
	SelfHarmFigurative []string
	EmotionMild        []string
	EmotionStrong      []string
	ViolenceLiteral    []string
	ViolenceAmbiguous  []string
	ViolenceFigurative []string
	ManipulationVerbs  []string
	RiskObjects        []string
	FractionedProbing  []string
	ChemistryHard      []string
	MetaQuery          []string
	Dependency         []string
	Overtrust          []string
}

// DefaultLexicon returns the stock Portuguese tables.
func DefaultLexicon() Lexicon {
	return Lexicon{
		SelfHarmExplicit:   selfHarmExplicit,
		SelfHarmImplicit:   selfHarmImplicit,
		SelfHarmFigurative: selfHarmFigurative,
		EmotionMild:        emotionMild,
		EmotionStrong:      emotionStrong,
		ViolenceLiteral:    violenceLiteral,
		ViolenceAmbiguous:  violenceAmbiguous,
		ViolenceFigurative: violenceFigurative,
		ManipulationVerbs:  manipulationVerbs,
		RiskObjects:        riskObjects,
		FractionedProbing:  fractionedProbing,
		ChemistryHard:      chemistryHard,
		MetaQuery:          metaQuery,
		Dependency:         dependency,
		Overtrust:          overtrust,
	}
}

// Built-in Portuguese risk lexicon. Each group feeds one branch of the
// lexical analysis; accented and unaccented spellings are both listed
// because normalization only folds case and whitespace.

var selfHarmExplicit = []string{
	"me matar",
	"quero morrer",
	"quero me matar",
	"me suicidar",
	"cometer suicídio",
	"cometer suicidio",
	"tirar minha vida",
	"acabar com a minha vida",
	"acabar com tudo",
	"não vale mais a pena viver",
	"nao vale mais a pena viver",
	"não quero mais viver",
	"nao quero mais viver",
}

var selfHarmImplicit = []string{
	"não aguento mais",
	"nao aguento mais",
	"tô no limite",
	"to no limite",
	"cansado de tudo",
	"cansei de tudo",
	"sumir pra sempre",
	"sumir de vez",
	"desaparecer um pouco",
	"queria desaparecer",
	"queria sumir",
	"melhor se eu não existisse",
	"melhor se eu nao existisse",
}

// Figurative self-harm idioms count as emotional signal, never hard risk.
var selfHarmFigurative = []string{
	"vou me matar de trabalhar",
	"vou me matar de estudar",
	"vou me matar de tanto rir",
	"vou morrer de rir",
	"to me matando de estudar",
	"tô me matando de estudar",
}

var emotionMild = []string{
	"tô cansado",
	"to cansado",
	"tô exausto",
	"to exausto",
	"tô irritado",
	"to irritado",
	"tá difícil",
	"ta dificil",
	"tá complicado",
	"ta complicado",
	"tô saturado",
	"to saturado",
	"não tô bem",
	"nao to bem",
}

var emotionStrong = []string{
	"tô destruído",
	"to destruido",
	"tô quebrado por dentro",
	"to quebrado por dentro",
	"quebrado por dentro",
	"não vejo saída",
	"nao vejo saida",
	"sem saída",
	"sem saida",
	"desesperado",
	"desespero total",
}

var violenceLiteral = []string{
	"matar alguém",
	"matar alguem",
	"explodir um prédio",
	"explodir um predio",
	"fazer uma bomba",
	"fazer bomba",
	"bomba caseira",
	"envenenar alguém",
	"envenenar alguem",
	"atentado",
	"machucar alguém",
	"machucar alguem",
	"ferir alguém",
	"ferir alguem",
}

// Single words that may be literal or idiomatic depending on context.
var violenceAmbiguous = []string{
	"matar",
	"explodir",
	"bombar",
	"atacar",
	"dar um tiro",
	"tiro",
}

var violenceFigurative = []string{
	"explodir de rir",
	"morro de rir",
	"matar a saudade",
	"matar o tempo",
	"dar um tiro no escuro",
	"bombar no instagram",
	"bombar no tiktok",
}

var manipulationVerbs = []string{
	"misturar",
	"juntar",
	"combinar",
	"ativar",
	"estabilizar",
	"dissolver",
	"derreter",
	"aplicar junto",
	"fundir",
	"somar com",
	"completar com",
	"esquentar",
	"aumentar a temperatura",
	"aquecer",
	"abrir com força",
	"forçar abertura",
	"testar com",
	"colocar isso com aquilo",
	"misturar isso com",
	"se eu colocar",
}

var riskObjects = []string{
	"produto forte",
	"produto muito forte",
	"produto químico forte",
	"produto quimico forte",
	"líquido forte",
	"liquido forte",
	"coisa forte",
	"coisa pesada",
	"coisa abrasiva",
	"solvente",
	"solvente industrial",
	"reagente",
	"substância",
	"substancia",
	"material pesado",
	"coisa inflamável",
	"coisa inflamavel",
	"desentupidor",
	"limpa metal",
	"limpeza industrial",
}

var fractionedProbing = []string{
	"serve pra",
	"isso serve para",
	"isso serve pra",
	"funciona com",
	"e se eu colocar",
	"e se misturar",
	"isso reage",
	"isso piora",
	"isso ativa",
	"isso esquenta",
	"isso explode",
	"se eu misturar",
	"como faço pra dissolver",
	"posso adicionar",
	"posso usar junto",
	"se juntar isso",
}

var chemistryHard = []string{
	"amônia",
	"amonia",
	"nh3",
	"água sanitária",
	"agua sanitaria",
	"cloro",
	"hipoclorito",
	"peróxido",
	"peroxido",
	"h2o2",
	"ácido",
	"acido",
	"ácido muriático",
	"acido muriatico",
	"soda cáustica",
	"soda caustica",
	"naoh",
	"ácido sulfúrico",
	"acido sulfurico",
	"ácido nítrico",
	"acido nitrico",
	"acetona forte",
	"solvente de piscina",
}

var metaQuery = []string{
	"teste salvaguarda",
	"teste salvagurda",
	"teste axioma",
	"testar seus limites",
	"se eu quiser testar seus limites",
	"até onde você consegue ir",
	"ate onde voce consegue ir",
	"o que você faria",
	"o que voce faria",
	"até onde você pode ir",
	"ate onde voce pode ir",
}

var dependency = []string{
	"decide por mim",
	"decida por mim",
	"escolhe por mim",
	"escolha por mim",
	"me diz o que fazer",
	"me diga o que fazer",
	"faça por mim",
	"faça isso por mim",
	"toma a decisão por mim",
	"tome a decisão por mim",
	"não consigo decidir nada",
	"nao consigo decidir nada",
	"assume o controle",
	"assuma o controle",
}

var overtrust = []string{
	"vou fazer tudo que você disser",
	"vou fazer tudo que voce disser",
	"só confio em você",
	"so confio em voce",
	"confio cegamente em você",
	"confio cegamente em voce",
	"você sabe mais do que qualquer um",
	"voce sabe mais do que qualquer um",
}

// #endregion lexicon
