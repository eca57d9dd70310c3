package compose

import "github.com/gigicalma/calmalink/internal/domain"

// replyText holds every canned sentence for one language. All user-facing
// text lives here; handlers and the classifier never hardcode prose.
type replyText struct {
	crisis        string
	helpText      string
	libraryIntro  string
	decline       string
	startIntro    string // fmt verb: practice display name
	supportive    string
	invitation    string
	invalidBody   string
	internalError string
}

var texts = map[string]replyText{
	domain.LangEnglish: {
		crisis: "If you are thinking about hurting yourself, please reach out right now: " +
			"call or text 988 to talk with the Suicide & Crisis Lifeline, free and available 24/7. " +
			"You are not alone, and you deserve support.",
		helpText: `I can guide you through a short breathing practice. Say "start" to begin, ` +
			`"library" to see the available practices, or just tell me how you are feeling. ` +
			`You can switch languages anytime by saying "english" or "español".`,
		libraryIntro:  "Here is our practice library:",
		decline:       "That is completely okay. I am here whenever you need me.",
		startIntro:    "Here is your %s practice.",
		supportive:    "Thank you for sharing that with me. I am here with you.",
		invitation:    "Would you like to try a short breathing practice together?",
		invalidBody:   "Invalid request body. / Cuerpo de solicitud no válido.",
		internalError: "Something went wrong. / Algo salió mal.",
	},
	domain.LangSpanish: {
		crisis: "Si estás pensando en hacerte daño, por favor busca ayuda ahora mismo: " +
			"llama o envía un mensaje al 988 para hablar con la Línea de Prevención del Suicidio y Crisis, " +
			"gratuita y disponible 24/7. No estás solo y mereces apoyo.",
		helpText: `Puedo guiarte en una breve práctica de respiración. Di "empezar" para comenzar, ` +
			`"biblioteca" para ver las prácticas disponibles, o simplemente cuéntame cómo te sientes. ` +
			`Puedes cambiar de idioma en cualquier momento diciendo "english" o "español".`,
		libraryIntro:  "Esta es nuestra biblioteca de prácticas:",
		decline:       "Está perfectamente bien. Aquí estaré cuando me necesites.",
		startIntro:    "Aquí tienes tu práctica de %s.",
		supportive:    "Gracias por compartirlo conmigo. Estoy aquí contigo.",
		invitation:    "¿Te gustaría probar una breve práctica de respiración juntos?",
		invalidBody:   "Cuerpo de solicitud no válido. / Invalid request body.",
		internalError: "Algo salió mal. / Something went wrong.",
	},
}

// textsFor returns the text table for lang, degrading to English.
func textsFor(lang string) replyText {
	if t, ok := texts[lang]; ok {
		return t
	}
	return texts[domain.LangEnglish]
}

// Invitations returns the canonical invitation sentences in every language.
// The classifier matches these against the previous assistant turn instead
// of re-parsing arbitrary reply wording.
func Invitations() []string {
	return []string{
		texts[domain.LangEnglish].invitation,
		texts[domain.LangSpanish].invitation,
	}
}

// InvalidBodyMessage is the short bilingual text for malformed requests.
func InvalidBodyMessage() string {
	return texts[domain.LangEnglish].invalidBody
}

// InternalErrorMessage is the short bilingual text for server-side failures.
func InternalErrorMessage() string {
	return texts[domain.LangEnglish].internalError
}
