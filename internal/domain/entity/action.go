package entity

// ActionKind discriminates the two reconciliation outcomes.
type ActionKind int

const (
	// ActionSkip means a message for the event already exists.
	ActionSkip ActionKind = iota
	// ActionCreate means no message exists and one must be posted.
	ActionCreate
)

// String returns the string representation of the action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionSkip:
		return "skip"
	case ActionCreate:
		return "create"
	default:
		return "unknown"
	}
}

// Action is the reconciler's per-event decision: a tagged variant carrying
// the event and, for skips, the existing message reference.
type Action struct {
	Kind     ActionKind
	Event    Event
	Existing MessageRef // set only when Kind == ActionSkip
}

// NewCreateAction builds a create decision for an event with no existing
// message.
func NewCreateAction(event Event) Action {
	return Action{Kind: ActionCreate, Event: event}
}

// NewSkipAction builds a skip decision pointing at the message already
// posted for the event.
func NewSkipAction(event Event, existing MessageRef) Action {
	return Action{Kind: ActionSkip, Event: event, Existing: existing}
}
