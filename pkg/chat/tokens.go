package chat

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"

	"github.com/papercomputeco/termchat/pkg/llm"
)

const tokenEncoding = tokenizer.Cl100kBase

// tokenCounter lazily loads the cl100k_base codec on first use. Counts are
// an estimate: the endpoint's model may tokenize differently.
type tokenCounter struct {
	codec tokenizer.Codec
}

func (t *tokenCounter) countMessages(messages []llm.Message) (int, error) {
	if t.codec == nil {
		codec, err := tokenizer.Get(tokenEncoding)
		if err != nil {
			return 0, fmt.Errorf("loading %s encoding: %w", tokenEncoding, err)
		}
		t.codec = codec
	}

	total := 0
	for _, msg := range messages {
		ids, _, err := t.codec.Encode(msg.Content)
		if err != nil {
			return 0, fmt.Errorf("encoding %s message: %w", msg.Role, err)
		}
		total += len(ids)
	}

	return total, nil
}
