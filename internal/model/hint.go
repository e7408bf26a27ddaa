// ABOUTME: Hint models; a hint is a text, image or location clue attached to a stage

package model

import "time"

// Hint belongs to a stage and costs points to reveal.
type Hint struct {
	ID            string    `json:"id"`
	StageID       string    `json:"stage_id"`
	Order         int       `json:"order"`
	Preset        string    `json:"preset"`
	Text          string    `json:"text,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	PenaltyPoints int       `json:"penalty_points"`
	CreatedAt     time.Time `json:"created_at"`
}

// HintInput creates or replaces a hint.
type HintInput struct {
	Order         int      `json:"order" validate:"gte=1"`
	Preset        string   `json:"preset" validate:"required,oneof=text image location"`
	Text          string   `json:"text,omitempty" validate:"required_if=Preset text,max=500"`
	ImageURL      string   `json:"image_url,omitempty" validate:"required_if=Preset image,omitempty,url"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"required_if=Preset location,omitempty,latitude"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"required_if=Preset location,omitempty,longitude"`
	PenaltyPoints int      `json:"penalty_points" validate:"gte=0"`
}
