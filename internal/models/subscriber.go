package models

import "time"

// Subscriber — получатель сигналов в Telegram.
type Subscriber struct {
	ChatID    int64     `json:"chat_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
