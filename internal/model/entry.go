package model

import "time"

// Entry は1件の作業記録を表す。
// SpendTimeは分単位で保持し、表示時に時間へ換算する。
type Entry struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SpendTime   int       `json:"spend_time"`
	LogDate     time.Time `json:"logdate"`
	EntryType   string    `json:"entry_type"`
}
