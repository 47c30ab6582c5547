package domain

import "context"

// FormKind is the step a user is at in a multi-step form. The zero value
// means no form is in progress.
type FormKind string

const (
	FormNone           FormKind = ""
	FormAddTitle       FormKind = "add_title"
	FormAddDescription FormKind = "add_description"
	FormAddPrice       FormKind = "add_price"
	FormAddContact     FormKind = "add_contact"
	FormEditField      FormKind = "edit_field"
	FormEditValue      FormKind = "edit_value"
	FormReviewRating   FormKind = "review_rating"
	FormReviewComment  FormKind = "review_comment"
	FormBanTarget      FormKind = "ban_target"
	FormBanReason      FormKind = "ban_reason"
	FormEvidence       FormKind = "evidence"
)

// FormState is the per-user form cursor. Only the fields relevant to
// Kind are populated; it is JSON-encoded by the redis session store.
type FormState struct {
	Kind        FormKind     `json:"kind"`
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Price       string       `json:"price,omitempty"`
	ListingID   int64        `json:"listing_id,omitempty"`
	Field       ListingField `json:"field,omitempty"`
	SellerID    int64        `json:"seller_id,omitempty"`
	Rating      int          `json:"rating,omitempty"`
	TargetID    int64        `json:"target_id,omitempty"`
	ReviewID    int64        `json:"review_id,omitempty"`
}

// ModerationCursor is an admin's snapshot of pending review ids plus the
// position currently shown.
type ModerationCursor struct {
	IDs   []int64 `json:"ids"`
	Index int     `json:"index"`
}

// Len returns the number of reviews left in the snapshot.
func (c *ModerationCursor) Len() int { return len(c.IDs) }

// Current returns the id under the cursor, clamping a stale index first.
func (c *ModerationCursor) Current() (int64, bool) {
	c.clamp()
	if len(c.IDs) == 0 {
		return 0, false
	}
	return c.IDs[c.Index], true
}

// Seek moves the cursor to id. It reports false, leaving the cursor
// untouched, if id is not in the snapshot.
func (c *ModerationCursor) Seek(id int64) bool {
	for i, v := range c.IDs {
		if v == id {
			c.Index = i
			return true
		}
	}
	return false
}

// Remove drops id from the snapshot and clamps the index to the new bounds.
func (c *ModerationCursor) Remove(id int64) bool {
	for i, v := range c.IDs {
		if v != id {
			continue
		}
		c.IDs = append(c.IDs[:i], c.IDs[i+1:]...)
		if i < c.Index {
			c.Index--
		}
		c.clamp()
		return true
	}
	return false
}

// Prev returns the id before the current one, if any.
func (c *ModerationCursor) Prev() (int64, bool) {
	c.clamp()
	if c.Index <= 0 || len(c.IDs) == 0 {
		return 0, false
	}
	return c.IDs[c.Index-1], true
}

// Next returns the id after the current one, if any.
func (c *ModerationCursor) Next() (int64, bool) {
	c.clamp()
	if c.Index+1 >= len(c.IDs) {
		return 0, false
	}
	return c.IDs[c.Index+1], true
}

func (c *ModerationCursor) clamp() {
	if c.Index >= len(c.IDs) {
		c.Index = len(c.IDs) - 1
	}
	if c.Index < 0 {
		c.Index = 0
	}
}

// SessionStore keeps transient per-user presentation state: browse
// cursors, in-progress forms and admin moderation cursors.
type SessionStore interface {
	BrowsePosition(ctx context.Context, userID int64) (int, error)
	SetBrowsePosition(ctx context.Context, userID int64, pos int) error

	// Form returns nil when the user has no form in progress.
	Form(ctx context.Context, userID int64) (*FormState, error)
	SetForm(ctx context.Context, userID int64, form FormState) error
	ClearForm(ctx context.Context, userID int64) error

	// Moderation returns nil when the admin has not opened the queue.
	Moderation(ctx context.Context, adminID int64) (*ModerationCursor, error)
	SetModeration(ctx context.Context, adminID int64, cursor *ModerationCursor) error
}
