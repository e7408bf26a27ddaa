// ABOUTME: Player management payloads: account status changes and point adjustments

package model

// UserStatusInput is the body of PATCH /users/{id}/status.
type UserStatusInput struct {
	Status string `json:"status" validate:"required,oneof=active suspended withdrawn"`
}

// PointAdjustment grants (positive) or deducts (negative) points.
type PointAdjustment struct {
	Delta  int    `json:"delta" validate:"ne=0"`
	Reason string `json:"reason" validate:"required,max=200"`
}

// PointBalance is the backend's answer to a point adjustment.
type PointBalance struct {
	UserID  string `json:"user_id"`
	Points  int    `json:"points"`
	Applied int    `json:"applied"`
}
