package domain

import (
	"strconv"
	"time"
)

// ActionType is the kind of mutating admin operation recorded in the audit log.
type ActionType string

const (
	ActionBan           ActionType = "ban"
	ActionUnban         ActionType = "unban"
	ActionWhitelistAdd  ActionType = "whitelist_add"
	ActionWhitelistDrop ActionType = "whitelist_remove"
	ActionSetLimit      ActionType = "set_limit"
	ActionDeleteListing ActionType = "delete_listing"
	ActionApproveReview ActionType = "approve_review"
	ActionRejectReview  ActionType = "reject_review"
)

// TargetType names what an AdminAction refers to.
type TargetType string

const (
	TargetUser    TargetType = "user"
	TargetListing TargetType = "listing"
	TargetReview  TargetType = "review"
)

// AdminAction is an immutable audit log entry.
type AdminAction struct {
	ID         int64
	AdminID    int64
	ActionType ActionType
	TargetID   *int64
	TargetType TargetType
	Reason     string
	Details    string
	CreatedAt  time.Time
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
