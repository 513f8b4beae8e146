package domain

import "time"

type Notification struct {
	ID     int64
	UserID int64

	Title string
	Body  string
	Read  bool

	CreatedAt time.Time
}
