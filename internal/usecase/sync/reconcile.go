package sync

import (
	"github.com/qj0r9j0vc2/calendar-bridge/internal/domain/entity"
)

// BuildIndex builds the event URL -> message reference index from scanned
// history messages, which must be ordered newest first. The first occurrence
// of a URL wins, so the most recent message stays authoritative for its
// event; later occurrences are returned as duplicates for the caller to log.
// The index is rebuilt from scratch on every run and holds no state between
// runs.
func BuildIndex(messages []entity.PostedMessage) (entity.MessageIndex, []entity.PostedMessage) {
	index := make(entity.MessageIndex, len(messages))
	var duplicates []entity.PostedMessage

	for _, msg := range messages {
		if msg.EventURL == "" {
			continue
		}
		if _, seen := index[msg.EventURL]; seen {
			duplicates = append(duplicates, msg)
			continue
		}
		index[msg.EventURL] = msg.Ref
	}

	return index, duplicates
}

// Reconcile decides, for each event in order, whether a message must be
// created or the event can be skipped because a message already exists.
// Matching is exact string equality on the event URL: no case folding,
// trailing-slash trimming or query-parameter reordering is applied, so the
// same event spelled with a different URL form will not match. The output
// preserves the input event order and each decision depends only on the
// immutable index, never on earlier decisions.
func Reconcile(index entity.MessageIndex, events []entity.Event) []entity.Action {
	actions := make([]entity.Action, 0, len(events))

	for _, event := range events {
		if ref, ok := index.Lookup(event.URL); ok {
			actions = append(actions, entity.NewSkipAction(event, ref))
			continue
		}
		actions = append(actions, entity.NewCreateAction(event))
	}

	return actions
}
