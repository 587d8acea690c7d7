package entity

// MessageRef is an opaque handle to a chat message, in the format
// "channel:timestamp". It is sufficient to identify a message in logs; the
// bridge never edits or deletes existing messages.
type MessageRef string

// PostedMessage is a historical chat message that carries an extracted
// calendar event URL. Messages without a recognizable URL never become
// PostedMessages; the history scanner drops them.
type PostedMessage struct {
	Ref      MessageRef
	EventURL string
}

// MessageIndex maps a calendar event URL to the chat message already posted
// for it. It is rebuilt from channel history on every run and is never
// persisted.
type MessageIndex map[string]MessageRef

// Lookup returns the message reference for the given event URL.
func (idx MessageIndex) Lookup(eventURL string) (MessageRef, bool) {
	ref, ok := idx[eventURL]
	return ref, ok
}
