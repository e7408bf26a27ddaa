// ABOUTME: Partner store and reward models; rewards are redeemed with points at a store

package model

import "time"

// Store is a partner location where rewards are redeemed.
type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// StoreInput registers or edits a store.
type StoreInput struct {
	Name      string   `json:"name" validate:"required,max=100"`
	Address   string   `json:"address" validate:"required,max=200"`
	Phone     string   `json:"phone,omitempty" validate:"max=20"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Active    bool     `json:"active"`
}

// Reward is an item a player buys with points.
type Reward struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"store_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PointCost   int       `json:"point_cost"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// RewardInput registers or edits a reward.
type RewardInput struct {
	StoreID     string `json:"store_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	PointCost   int    `json:"point_cost" validate:"gt=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Active      bool   `json:"active"`
}
