package translation

import "horse.fit/fukidashi/internal/chatapi"

// conversation is a fixed-capacity sliding window of chat messages. When an
// append pushes the window past its capacity, the oldest messages are
// dropped; the most recent maxLen entries survive in order.
type conversation struct {
	messages []chatapi.Message
	maxLen   int
}

func newConversation(maxLen int, seed ...chatapi.Message) *conversation {
	if maxLen < 1 {
		maxLen = 1
	}
	c := &conversation{
		messages: make([]chatapi.Message, 0, maxLen),
		maxLen:   maxLen,
	}
	for _, msg := range seed {
		c.append(msg.Role, msg.Content)
	}
	return c
}

func (c *conversation) append(role, content string) {
	c.messages = append(c.messages, chatapi.Message{Role: role, Content: content})
	if len(c.messages) > c.maxLen {
		c.messages = c.messages[len(c.messages)-c.maxLen:]
	}
}

// dropLastIf removes the newest message when it matches the given role and
// content. Used to discard the pending user turn when context retention is
// disabled.
func (c *conversation) dropLastIf(role, content string) bool {
	if len(c.messages) == 0 {
		return false
	}
	last := c.messages[len(c.messages)-1]
	if last.Role != role || last.Content != content {
		return false
	}
	c.messages = c.messages[:len(c.messages)-1]
	return true
}

func (c *conversation) len() int {
	return len(c.messages)
}

// snapshot returns a copy of the window with the given message prepended.
func (c *conversation) snapshot(prepend chatapi.Message) []chatapi.Message {
	out := make([]chatapi.Message, 0, len(c.messages)+1)
	out = append(out, prepend)
	out = append(out, c.messages...)
	return out
}
