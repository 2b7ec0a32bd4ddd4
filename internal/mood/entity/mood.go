package entity

import "time"

// Mood is a single mood entry owned by exactly one user.
type Mood struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Label     string    `db:"mood_label" json:"mood_label"`
	Intensity float64   `db:"mood_intensity" json:"mood_intensity"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HomeStats is the aggregate view backing the app's home screen. Field
// names follow the mobile client's MoodModel.
type HomeStats struct {
	UserID       int64   `json:"user_id"`
	Label        string  `json:"label"`
	Intensity    float64 `json:"intensity"`
	TotalEntries int64   `json:"totalEntries"`
	Streak       int64   `json:"streak"`
}
