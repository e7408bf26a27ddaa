// ABOUTME: Dashboard metrics models

package model

import "time"

// DashboardSummary is the response of GET /dashboard/summary.
type DashboardSummary struct {
	TotalUsers        int       `json:"total_users"`
	ActiveUsers       int       `json:"active_users"`
	NewUsersToday     int       `json:"new_users_today"`
	TotalContents     int       `json:"total_contents"`
	PublishedContents int       `json:"published_contents"`
	TotalStages       int       `json:"total_stages"`
	NFCTags           int       `json:"nfc_tags"`
	StageClears       int       `json:"stage_clears"`
	RewardsRedeemed   int       `json:"rewards_redeemed"`
	PointsIssued      int       `json:"points_issued"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// Overview combines the summary with the latest activity.
type Overview struct {
	Summary             DashboardSummary `json:"summary"`
	RecentNotifications []Notification   `json:"recent_notifications"`
	TopUsers            []User           `json:"top_users"`
}
