package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/gigicalma/calmalink/internal/domain"
)

const defaultEnrichTimeout = 8 * time.Second

// Tool names declared to the model. handoff_crisis exists so the model has
// a sanctioned escape hatch instead of improvising crisis advice.
const (
	toolGetMeditation = "get_meditation"
	toolGetLibrary    = "get_library"
	toolGetHelp       = "get_help"
	toolHandoffCrisis = "handoff_crisis"
)

const systemPrompt = `You are CalmaLink, a warm bilingual (English/Spanish) wellbeing companion.

Rules:
1. Reply in the language the user is writing in. If unsure, use English.
2. Keep replies to 1-3 short sentences. Supportive, never clinical, never pushy.
3. When the user wants to start a breathing or meditation practice, call get_meditation with the language. Do not describe the practice yourself.
4. When the user asks what practices exist, call get_library. When they ask how to use this service, call get_help.
5. If the user mentions self-harm or suicide in ANY form, call handoff_crisis. Never answer such messages with free text.
6. If the user declines a practice, accept it gracefully and do not invite them again.
7. Never invent practices, audio links, or capabilities beyond the declared tools.`

// chatCompleter is the slice of the OpenAI client the model responder
// needs; tests substitute a fake.
type chatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Model decorates the deterministic responder with an OpenAI chat
// completion. Intents with safety or correctness weight (crisis, library,
// help, decline) are answered deterministically without ever reaching the
// model; everything else is enriched, with the deterministic reply as the
// ready-made fallback on any error or timeout.
type Model struct {
	fallback    *Deterministic
	completions chatCompleter
	model       string
	timeout     time.Duration
	logger      *slog.Logger
}

// NewModel builds the model responder around an API key.
func NewModel(fallback *Deterministic, apiKey, model string, timeout time.Duration, logger *slog.Logger) *Model {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return newModelWithCompleter(fallback, &client.Chat.Completions, model, timeout, logger)
}

func newModelWithCompleter(fallback *Deterministic, completions chatCompleter, model string, timeout time.Duration, logger *slog.Logger) *Model {
	if timeout <= 0 {
		timeout = defaultEnrichTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{
		fallback:    fallback,
		completions: completions,
		model:       model,
		timeout:     timeout,
		logger:      logger,
	}
}

// Respond enriches the supportive-chat path through the model. The caller
// always receives a reply: model failures are logged and recovered locally,
// never propagated.
func (m *Model) Respond(ctx context.Context, history []domain.ConversationTurn) (Reply, error) {
	dec := m.fallback.Decide(history)

	// Safety pre-filter: these intents carry weight the generative path
	// cannot be trusted to guarantee.
	switch dec.Intent {
	case domain.IntentCrisis, domain.IntentLibrary, domain.IntentHelp, domain.IntentDecline:
		return Reply{Envelope: m.fallback.Compose(dec), Decision: dec, Source: SourcePattern}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	completion, err := m.completions.New(callCtx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(m.model),
		Messages: buildMessages(history),
		Tools:    toolDefinitions(),
	})
	if err != nil {
		m.logger.Warn("model enrichment failed, serving deterministic reply",
			"error", err, "intent", dec.Intent)
		return Reply{Envelope: m.fallback.Compose(dec), Decision: dec, Source: SourcePattern}, nil
	}

	reply, err := m.interpret(completion, dec)
	if err != nil {
		m.logger.Warn("model returned unusable completion, serving deterministic reply",
			"error", err, "intent", dec.Intent)
		return Reply{Envelope: m.fallback.Compose(dec), Decision: dec, Source: SourcePattern}, nil
	}
	return reply, nil
}

// interpret validates the completion against the declared tool enum before
// trusting it. Unknown tool names or malformed arguments are treated as
// model failure.
func (m *Model) interpret(completion *openai.ChatCompletion, dec domain.Decision) (Reply, error) {
	if completion == nil || len(completion.Choices) == 0 {
		return Reply{}, fmt.Errorf("completion has no choices")
	}
	msg := completion.Choices[0].Message

	if len(msg.ToolCalls) > 0 {
		call := msg.ToolCalls[0]
		intent, lang, err := m.decodeToolCall(call.Function.Name, call.Function.Arguments, dec.Language)
		if err != nil {
			return Reply{}, err
		}
		toolDec := domain.Decision{Intent: intent, Language: lang}
		return Reply{Envelope: m.fallback.Compose(toolDec), Decision: toolDec, Source: SourceModel}, nil
	}

	if msg.Content == "" {
		return Reply{}, fmt.Errorf("completion has neither content nor tool calls")
	}
	return Reply{
		Envelope: domain.ResponseEnvelope{Message: msg.Content},
		Decision: dec,
		Source:   SourceModel,
	}, nil
}

func (m *Model) decodeToolCall(name, arguments, resolvedLang string) (domain.IntentKind, string, error) {
	switch name {
	case toolGetMeditation:
		var args struct {
			Language string `json:"language"`
		}
		if arguments != "" {
			if err := json.Unmarshal([]byte(arguments), &args); err != nil {
				return "", "", fmt.Errorf("decode %s arguments: %w", name, err)
			}
		}
		lang := args.Language
		if lang != domain.LangEnglish && lang != domain.LangSpanish {
			// Hallucinated or missing language: keep the keyword
			// classifier's resolution instead of trusting it.
			lang = resolvedLang
		}
		return domain.IntentStartPractice, lang, nil
	case toolGetLibrary:
		return domain.IntentLibrary, resolvedLang, nil
	case toolGetHelp:
		return domain.IntentHelp, resolvedLang, nil
	case toolHandoffCrisis:
		return domain.IntentCrisis, resolvedLang, nil
	default:
		return "", "", fmt.Errorf("model requested unknown tool %q", name)
	}
}

func buildMessages(history []domain.ConversationTurn) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, turn := range history {
		switch turn.Role {
		case domain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		case domain.RoleSystem:
			// Caller-supplied system turns are folded in as user context
			// rather than competing with our own instructions.
			messages = append(messages, openai.UserMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	return messages
}

func toolDefinitions() []openai.ChatCompletionToolParam {
	return []openai.ChatCompletionToolParam{
		{
			Function: openai.FunctionDefinitionParam{
				Name:        toolGetMeditation,
				Description: openai.String("Start the guided calm-breath practice in the given language."),
				Parameters: openai.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"language": map[string]any{
							"type": "string",
							"enum": []string{domain.LangEnglish, domain.LangSpanish},
						},
					},
					"required": []string{"language"},
				},
			},
		},
		{
			Function: openai.FunctionDefinitionParam{
				Name:        toolGetLibrary,
				Description: openai.String("List the available practices."),
				Parameters:  openai.FunctionParameters{"type": "object", "properties": map[string]any{}},
			},
		},
		{
			Function: openai.FunctionDefinitionParam{
				Name:        toolGetHelp,
				Description: openai.String("Explain how to use this service."),
				Parameters:  openai.FunctionParameters{"type": "object", "properties": map[string]any{}},
			},
		},
		{
			Function: openai.FunctionDefinitionParam{
				Name:        toolHandoffCrisis,
				Description: openai.String("Hand the conversation to the crisis hotline message. Use for any mention of self-harm or suicide."),
				Parameters:  openai.FunctionParameters{"type": "object", "properties": map[string]any{}},
			},
		},
	}
}
