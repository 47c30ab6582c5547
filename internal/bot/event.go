package bot

import "github.com/gget5897-gif/brainrot-bot/internal/domain"

// EventKind is the kind of inbound chat event.
type EventKind string

const (
	EventCommand  EventKind = "command"
	EventText     EventKind = "text"
	EventCallback EventKind = "callback"
)

// Event is one inbound action from a user, already decoded from the
// transport's update format.
type Event struct {
	Kind   EventKind
	From   domain.Profile
	ChatID int64

	// Command is set for EventCommand, without the leading slash.
	Command string
	Args    string

	// Text is the raw message text for EventText.
	Text string

	// CallbackID and Data are set for EventCallback.
	CallbackID string
	Data       string
}

// UserID is the sender's identity; events are sharded by it.
func (e Event) UserID() int64 { return e.From.ID }

// chat is where replies go. Private chats share the user's id.
func (e Event) chat() int64 {
	if e.ChatID != 0 {
		return e.ChatID
	}
	return e.From.ID
}
