// ABOUTME: Push notification models

package model

import "time"

// Notification targets
const (
	TargetAll     = "all"
	TargetUser    = "user"
	TargetContent = "content"
)

// Notification is an announcement pushed to players.
type Notification struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Target      string     `json:"target"`
	TargetID    string     `json:"target_id,omitempty"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NotificationInput drafts a notification. TargetID names the user or
// content unless the target is everyone.
type NotificationInput struct {
	Title       string     `json:"title" validate:"required,max=80"`
	Body        string     `json:"body" validate:"required,max=500"`
	Target      string     `json:"target" validate:"required,oneof=all user content"`
	TargetID    string     `json:"target_id,omitempty" validate:"required_unless=Target all"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}
