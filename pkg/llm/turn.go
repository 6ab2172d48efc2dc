package llm

// Turn records one user input and what came back for it.
// Reply is nil when the request did not succeed.
type Turn struct {
	User  Message       `json:"user"`
	Reply *ChatResponse `json:"reply,omitempty"`
}

// Answered reports whether the turn produced an assistant reply.
func (t Turn) Answered() bool {
	return t.Reply != nil
}
