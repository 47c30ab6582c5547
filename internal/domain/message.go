package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Button is an inline button. Data is the opaque callback payload.
type Button struct {
	Text string
	Data string
}

// Markup is the optional button layout attached to an outbound message.
// At most one of Inline, Reply and RemoveReply is used.
type Markup struct {
	Inline      [][]Button
	Reply       [][]string
	RemoveReply bool
}

// Message is an outbound text message.
type Message struct {
	ChatID int64
	Text   string
	Markup *Markup
}

// Sender delivers messages through the chat transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// CallbackAction names what a button press asks for.
type CallbackAction string

const (
	CbRenew        CallbackAction = "renew"
	CbStillSelling CallbackAction = "keep"
	CbSold         CallbackAction = "sold"
	CbEdit         CallbackAction = "edit"
	CbDelete       CallbackAction = "del"
	CbReview       CallbackAction = "review"
	CbModShow      CallbackAction = "mod"
	CbApprove      CallbackAction = "approve"
	CbReject       CallbackAction = "reject"
	CbEvidence     CallbackAction = "evidence"
	CbModClose     CallbackAction = "modclose"
	CbBackToSeller CallbackAction = "back"
)

// Callback is a decoded button payload of the form "action:id[:arg]".
type Callback struct {
	Action CallbackAction
	ID     int64
	Arg    int64
}

func (c Callback) String() string {
	if c.Arg != 0 {
		return fmt.Sprintf("%s:%d:%d", c.Action, c.ID, c.Arg)
	}
	return fmt.Sprintf("%s:%d", c.Action, c.ID)
}

// ParseCallback decodes a payload produced by Callback.String.
func ParseCallback(data string) (Callback, error) {
	parts := strings.Split(data, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
		return Callback{}, fmt.Errorf("%w: malformed callback %q", ErrValidation, data)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Callback{}, fmt.Errorf("%w: malformed callback id %q", ErrValidation, data)
	}
	cb := Callback{Action: CallbackAction(parts[0]), ID: id}
	if len(parts) == 3 {
		if cb.Arg, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
			return Callback{}, fmt.Errorf("%w: malformed callback arg %q", ErrValidation, data)
		}
	}
	return cb, nil
}

// InlineButton is shorthand for a button carrying an encoded callback.
func InlineButton(text string, action CallbackAction, id int64) Button {
	return Button{Text: text, Data: Callback{Action: action, ID: id}.String()}
}
