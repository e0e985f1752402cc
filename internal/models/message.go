package models

import (
	"time"
)

// Message is one free-text chat entry. Messages are append-only and render
// oldest first.
type Message struct {
	ID        int64     `json:"id" bson:"_id"`
	Text      string    `json:"text" bson:"text" validate:"required"`
	Username  string    `json:"username" bson:"username"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
