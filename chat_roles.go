package kimicheck

import "github.com/openai/openai-go"

// ChatRole is a role that can be used in a chat message, either “system”, “user”, or “assistant”.
type ChatRole string

const (
	// ChatRoleUser is a user role.
	ChatRoleUser ChatRole = "user"

	// ChatRoleSystem is a system role.
	ChatRoleSystem ChatRole = "system"

	// ChatRoleAssistant is an assistant role.
	ChatRoleAssistant ChatRole = "assistant"
)

// Message is a single turn of a fixed conversation sent by a check.
type Message struct {
	Role    ChatRole
	Content string
}

// newMessageUnion converts messages into the request params expected
// by the chat completions endpoint.
func newMessageUnion(messages []Message) []openai.ChatCompletionMessageParamUnion {
	msgUnion := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, m := range messages {
		switch m.Role {
		case ChatRoleSystem:
			msgUnion[i] = openai.SystemMessage(m.Content)
		case ChatRoleAssistant:
			msgUnion[i] = openai.AssistantMessage(m.Content)
		default:
			msgUnion[i] = openai.UserMessage(m.Content)
		}
	}
	return msgUnion
}
