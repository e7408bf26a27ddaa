// ABOUTME: NFC tag registration models

package model

import "time"

// NFCTag is a physical tag a player scans on site.
type NFCTag struct {
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	StageID   string    `json:"stage_id,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// NFCTagInput registers or edits a tag. UID is the tag's hex serial.
type NFCTagInput struct {
	UID       string   `json:"uid" validate:"required,hexadecimal,min=8,max=32"`
	Name      string   `json:"name" validate:"required,max=100"`
	StageID   string   `json:"stage_id,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Active    bool     `json:"active"`
}
