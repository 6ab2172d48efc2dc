package llm

// Conversation is the ordered message history of one chat session.
// Insertion order is the chronological turn order sent to the model.
//
// Alternation between user and assistant messages is not enforced: a turn
// whose request fails leaves its user message in place, and the next user
// message is appended directly after it.
type Conversation struct {
	messages []Message
}

// NewConversation returns an empty Conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// Append adds msg to the end of the conversation.
func (c *Conversation) Append(msg Message) {
	c.messages = append(c.messages, msg)
}

// Messages returns a copy of the conversation in insertion order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages in the conversation.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Last returns the most recent message, if any.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// LastOfRole returns the most recent message authored by role.
func (c *Conversation) LastOfRole(role Role) (Message, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == role {
			return c.messages[i], true
		}
	}
	return Message{}, false
}

// Reset drops every message.
func (c *Conversation) Reset() {
	c.messages = nil
}
