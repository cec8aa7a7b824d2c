package database

import "time"

// Message represents one message exchanged with the bot in a chat. The chat
// handler stores both user prompts and bot replies so AI responses can be
// generated with recent conversation context.
type Message struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	ChatID    int64     `db:"chat_id"`
	UserID    int64     `db:"user_id"`
	Content   string    `db:"content"`
	Timestamp time.Time `db:"timestamp"`
}
