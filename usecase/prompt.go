package usecase

import (
	"strings"

	"github.com/satriahrh/widget-gateway/domain"
)

// Intent selects how a request is turned into provider messages.
type Intent string

const (
	IntentChat             Intent = "chat"
	IntentSummarize        Intent = "summarize"
	IntentDetailedAnalysis Intent = "detailed_analysis"
	IntentPreSpeechSummary Intent = "pre_speech_summarize"
)

// Tuning holds the fixed generation parameters of an intent.
type Tuning struct {
	MaxOutputTokens int
	Temperature     float64
}

var tunings = map[Intent]Tuning{
	IntentChat:             {MaxOutputTokens: 1000, Temperature: 0.7},
	IntentSummarize:        {MaxOutputTokens: 500, Temperature: 0.3},
	IntentDetailedAnalysis: {MaxOutputTokens: 1500, Temperature: 0.4},
	IntentPreSpeechSummary: {MaxOutputTokens: 500, Temperature: 0.3},
}

func TuningFor(intent Intent) Tuning {
	return tunings[intent]
}

const (
	summarySystemPrompt  = "You are a helpful assistant that provides clear, concise summaries in exactly 3 bullet points. Focus on the most important information."
	analysisSystemPrompt = "You are an expert analyst who provides thorough, insightful analyses of texts. Focus on being comprehensive yet clear and well-organized."
)

// analysisSections are the headings requested from the detailed analysis.
var analysisSections = []struct{ icon, title, ask string }{
	{"📋", "Overview", "Brief summary of what this content is about."},
	{"🎯", "Key Themes & Concepts", "Identify and explain the main themes and important concepts."},
	{"💡", "Main Arguments", "List the primary arguments or points being made."},
	{"📊", "Supporting Evidence", "Note any data, examples, or evidence used to support the arguments."},
	{"✍️", "Style & Tone", "Describe the writing style, tone, and approach."},
	{"👥", "Target Audience", "Who is this content intended for?"},
	{"🔍", "Critical Analysis", "Provide insights about strengths, weaknesses, or notable aspects."},
	{"🎓", "Implications & Takeaways", "What are the key takeaways or implications of this content?"},
}

// BuildMessages returns the ordered messages for an intent. chatContext is only
// used by the chat intent.
func BuildMessages(intent Intent, message, chatContext string) []domain.ChatMessage {
	switch intent {
	case IntentChat:
		var messages []domain.ChatMessage
		if chatContext != "" {
			messages = append(messages, domain.ChatMessage{Role: domain.SystemRole, Content: "Context: " + chatContext})
		}
		return append(messages, domain.ChatMessage{Role: domain.UserRole, Content: message})
	case IntentSummarize, IntentPreSpeechSummary:
		return []domain.ChatMessage{
			{Role: domain.SystemRole, Content: summarySystemPrompt},
			{Role: domain.UserRole, Content: summaryPrompt(message)},
		}
	case IntentDetailedAnalysis:
		return []domain.ChatMessage{
			{Role: domain.SystemRole, Content: analysisSystemPrompt},
			{Role: domain.UserRole, Content: analysisPrompt(message)},
		}
	default:
		return nil
	}
}

func summaryPrompt(text string) string {
	return strings.Join([]string{
		"Please summarize the following text in exactly 3 bullet points. Each bullet point should be concise and capture a key aspect of the content. Format your response as:",
		"• First key point",
		"• Second key point",
		"• Third key point",
		"",
		"Text to summarize:",
		text,
	}, "\n")
}

func analysisPrompt(text string) string {
	lines := []string{
		"Please provide a comprehensive analysis of the following text. Structure your analysis with these sections:",
		"",
	}
	for _, s := range analysisSections {
		lines = append(lines, s.icon+" **"+s.title+"**", s.ask, "")
	}
	lines = append(lines, "Text to analyze:", text)
	return strings.Join(lines, "\n")
}

// CountBullets returns the number of "•" markers in a summary.
func CountBullets(summary string) int {
	return strings.Count(summary, "•")
}

// CountSections returns the number of bold headings in an analysis, counting
// a pair of "**" markers as one heading.
func CountSections(analysis string) int {
	return strings.Count(analysis, "**") / 2
}

// ExpectedSections is the number of headings the analysis prompt asks for.
func ExpectedSections() int {
	return len(analysisSections)
}
