package models

import "time"

// Broadcast group tags resolved to concrete recipient ids at send time.
const (
	GroupStudents = "students"
	GroupTeachers = "teachers"
	GroupQAOs     = "qaos"
	GroupAll      = "all"
)

// Message is one delivered message row. Broadcasts fan out to one row per
// recipient when created, so inbox reads are plain selects.
type Message struct {
	ID            string    `db:"id" json:"id"`
	SenderID      string    `db:"sender_id" json:"sender_id"`
	SenderRole    Role      `db:"sender_role" json:"sender_role"`
	RecipientID   string    `db:"recipient_id" json:"recipient_id"`
	RecipientRole Role      `db:"recipient_role" json:"recipient_role"`
	Subject       string    `db:"subject" json:"subject"`
	Body          string    `db:"body" json:"body"`
	ReplyTo       *string   `db:"reply_to" json:"reply_to,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Recipient pairs an account id with its role for fan-out.
type Recipient struct {
	ID   string `db:"id"`
	Role Role   `db:"-"`
}
