// ABOUTME: Content (story) models: a content groups an ordered list of stages
// ABOUTME: ContentInput is the register/edit form payload

package model

import "time"

// Content publication statuses
const (
	ContentDraft     = "draft"
	ContentPublished = "published"
	ContentArchived  = "archived"
)

// Content is a scavenger-hunt story.
type Content struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	Status       string     `json:"status"`
	IsSequential bool       `json:"is_sequential"`
	StageCount   int        `json:"stage_count"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ContentInput creates or replaces a content.
type ContentInput struct {
	Title        string     `json:"title" validate:"required,max=100"`
	Description  string     `json:"description,omitempty" validate:"max=2000"`
	Status       string     `json:"status" validate:"required,oneof=draft published archived"`
	IsSequential bool       `json:"is_sequential"`
	StartsAt     *time.Time `json:"starts_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
}

// Thumbnail is the result of a thumbnail upload.
type Thumbnail struct {
	URL string `json:"url"`
}
