package domain

// PracticeRecord describes one meditation track in the static catalog.
type PracticeRecord struct {
	ID              string `json:"id" yaml:"id"`
	Language        string `json:"language" yaml:"language"`
	Title           string `json:"title" yaml:"title"`
	DurationMinutes int    `json:"duration" yaml:"duration_minutes"`
	AudioURL        string `json:"audioUrl" yaml:"audio_url"`
	Script          string `json:"script" yaml:"script"`
}

// ToolNameGetMeditation is the only tool name the chat response ever carries.
const ToolNameGetMeditation = "get_meditation"

// ToolResult is the structured payload attached to a start-practice reply.
type ToolResult struct {
	Name   string         `json:"name"`
	Result PracticeRecord `json:"result"`
}

// ResponseEnvelope is the chat response body. Tool is present if and only
// if the selected intent was start-practice.
type ResponseEnvelope struct {
	Message string      `json:"message"`
	Tool    *ToolResult `json:"tool,omitempty"`
}
