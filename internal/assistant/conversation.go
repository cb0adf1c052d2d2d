package assistant

// Chat roles used in conversation segments.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged conversation segment.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered request submitted to the completion service:
// exactly one system segment first, optional prior turns, then the current
// user segment. Built fresh per request and never retained.
type Conversation struct {
	Messages []Message
}

// NewConversation assembles a conversation for the given detected language.
// History is truncated to the most recent maxHistory segments; zero disables
// prior-turn injection entirely.
func NewConversation(languageCode, userText string, history []Message, maxHistory int) Conversation {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{
		Role:    RoleSystem,
		Content: SystemPrompt(languageCode),
	})

	if maxHistory > 0 && len(history) > 0 {
		if len(history) > maxHistory {
			history = history[len(history)-maxHistory:]
		}
		for _, msg := range history {
			if msg.Role == RoleUser || msg.Role == RoleAssistant {
				messages = append(messages, msg)
			}
		}
	}

	messages = append(messages, Message{Role: RoleUser, Content: userText})
	return Conversation{Messages: messages}
}
