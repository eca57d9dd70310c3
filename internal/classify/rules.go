package classify

import "github.com/gigicalma/calmalink/internal/domain"

// rule pairs an intent with its English and Spanish keyword sets. Matching
// is plain substring containment over the normalized message; rules are
// evaluated in slice order and the first hit wins, so the slice order IS
// the priority order. New phrases and languages are added here, not in
// control flow.
type rule struct {
	intent  domain.IntentKind
	english []string
	spanish []string
}

// rules covers every intent that resolves from keywords alone. The crisis
// rule stays first no matter what else is added: a safety match must never
// be masked by a colliding keyword from a lower rule.
var rules = []rule{
	{
		intent: domain.IntentCrisis,
		english: []string{
			"kill myself", "suicide", "suicidal", "hurt myself",
			"harm myself", "self-harm", "self harm", "end my life",
			"want to die", "don't want to live", "dont want to live",
		},
		spanish: []string{
			"matarme", "suicid", "hacerme daño", "hacerme dano",
			"lastimarme", "quitarme la vida", "quiero morir",
			"no quiero vivir",
		},
	},
	{
		intent: domain.IntentLibrary,
		english: []string{
			"library", "catalog", "catalogue", "what practices",
			"which practices", "list of practices", "what meditations",
			"which meditations",
		},
		spanish: []string{
			"biblioteca", "catálogo", "catalogo", "qué prácticas",
			"que practicas", "lista de prácticas", "lista de practicas",
			"qué meditaciones", "que meditaciones",
		},
	},
	{
		intent: domain.IntentHelp,
		english: []string{
			"help", "how do i use", "how does this work", "instructions",
			"what can you do",
		},
		spanish: []string{
			"ayuda", "ayúdame", "ayudame", "cómo funciona", "como funciona",
			"instrucciones", "qué puedes hacer", "que puedes hacer",
		},
	},
	{
		// Checked before the start keywords: "not now" must never be read
		// as the "now" in an affirmative start phrase.
		intent: domain.IntentDecline,
		english: []string{
			"not now", "not right now", "no thanks", "no thank you",
			"maybe later", "not today", "don't want to", "dont want to",
			"rather not", "just talk", "just want to talk",
		},
		spanish: []string{
			"ahora no", "no gracias", "más tarde", "mas tarde", "hoy no",
			"no quiero", "mejor no", "solo hablar", "sólo hablar",
			"solo quiero hablar",
		},
	},
}

// startKeywords trigger the practice regardless of language; the Spanish
// set doubles as a language hint when the message names no language.
var startKeywords = struct {
	english []string
	spanish []string
}{
	english: []string{
		"play", "listen", "start", "begin", "meditat", "breath", "practice",
	},
	spanish: []string{
		"reproduc", "escuchar", "escucha", "empez", "empieza", "comenzar",
		"comienza", "medita", "respira", "práctica", "practica",
	},
}

// affirmations are only honored as a whole message, and only when the
// assistant had just extended an invitation. "yes" buried inside a longer
// sentence is not a start signal.
var affirmations = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "ok": true, "okay": true,
	"sure": true, "alright": true,
	"sí": true, "si": true, "dale": true, "claro": true, "vale": true,
	"bueno": true,
}

// languageNames maps a bare language name or code, sent as the entire
// message, to the language it selects. This shortcut wins even though it
// carries no start verb.
var languageNames = map[string]string{
	"english": domain.LangEnglish,
	"inglés":  domain.LangEnglish,
	"ingles":  domain.LangEnglish,
	"en":      domain.LangEnglish,
	"spanish": domain.LangSpanish,
	"español": domain.LangSpanish,
	"espanol": domain.LangSpanish,
	"es":      domain.LangSpanish,
}

// languageMentions are containment patterns that pin the practice language
// when they appear anywhere in the message ("play it in spanish").
var languageMentions = []struct {
	pattern string
	lang    string
}{
	{"español", domain.LangSpanish},
	{"espanol", domain.LangSpanish},
	{"spanish", domain.LangSpanish},
	{"castellano", domain.LangSpanish},
	{"inglés", domain.LangEnglish},
	{"ingles", domain.LangEnglish},
	{"english", domain.LangEnglish},
}

// spanishMarkers are distinctively Spanish words used by the conversation
// language heuristic. Ambiguous words shared with English ("no", "a") are
// deliberately absent.
var spanishMarkers = map[string]bool{
	"hola": true, "gracias": true, "quiero": true, "necesito": true,
	"estoy": true, "siento": true, "favor": true, "días": true,
	"buenos": true, "buenas": true, "tardes": true, "noches": true,
	"triste": true, "ansioso": true, "ansiosa": true, "cansado": true,
	"cansada": true, "puedes": true, "hablar": true,
}
