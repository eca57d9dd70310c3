package domain

// IntentKind enumerates the mutually exclusive outcomes of classification.
type IntentKind string

const (
	// IntentCrisis is self-harm vocabulary; always wins over every other match.
	IntentCrisis IntentKind = "crisis"
	// IntentLibrary is an explicit ask for the practice catalog.
	IntentLibrary IntentKind = "library"
	// IntentHelp is an explicit ask for usage instructions.
	IntentHelp IntentKind = "help"
	// IntentDecline signals the user does not want a practice right now.
	IntentDecline IntentKind = "decline"
	// IntentStartPractice starts the guided breathing practice.
	IntentStartPractice IntentKind = "start_practice"
	// IntentUnclassified is the fall-through supportive-reply case.
	IntentUnclassified IntentKind = "unclassified"
)

// Language codes supported by the catalog and the canned texts.
const (
	LangEnglish = "en"
	LangSpanish = "es"
)

// Decision is the classifier's output: one intent plus the language the
// reply should be rendered in.
type Decision struct {
	Intent   IntentKind
	Language string
}
