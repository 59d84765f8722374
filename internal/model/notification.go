package model

import "time"

// Notification records a task newly seen during a dashboard refresh so
// the header can show an unread badge until the user looks at it.
type Notification struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
