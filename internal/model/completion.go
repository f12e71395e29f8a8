package model

import "time"

type ChoreCompletion struct {
	ID               int64     `json:"id"`
	ChartID          string    `json:"chartId"`
	ChoreID          string    `json:"choreId"`
	ChildID          string    `json:"childId"`
	CompletedAt      time.Time `json:"completedAt"`
	VerifiedByParent bool      `json:"verifiedByParent"`
	Notes            string    `json:"notes,omitempty"`
}

type LeaderboardEntry struct {
	ChildID     string `json:"childId"`
	ChildName   string `json:"childName"`
	Completions int    `json:"completions"`
	Verified    int    `json:"verified"`
}
