package models

import (
	"time"

	"github.com/lib/pq"
)

// PaymentStatus is the manual review state of a submitted payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusRejected  PaymentStatus = "rejected"
)

// ValidDecision reports whether the status is an acceptable review outcome.
// Pending is the only non-terminal state; confirmed and rejected are final.
func (s PaymentStatus) ValidDecision() bool {
	return s == PaymentStatusConfirmed || s == PaymentStatusRejected
}

// Payment represents a manually reviewed payment submission with uploaded
// proof. The screenshot path is never serialized; staff fetch the blob
// through short-lived signed URLs.
type Payment struct {
	ID             string         `db:"id" json:"id"`
	StudentID      string         `db:"student_id" json:"student_id"`
	Curriculum     Curriculum     `db:"curriculum" json:"curriculum"`
	Package        string         `db:"package" json:"package"`
	Grade          string         `db:"grade" json:"grade"`
	Subjects       pq.StringArray `db:"subjects" json:"subjects"`
	Amount         float64        `db:"amount" json:"amount"`
	ReferenceName  string         `db:"reference_name" json:"reference_name"`
	ScreenshotPath string         `db:"screenshot_path" json:"-"`
	Status         PaymentStatus  `db:"status" json:"status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// PaymentDetail joins the submitting student's name for staff queues.
type PaymentDetail struct {
	Payment
	StudentName  *string `db:"student_name" json:"student_name,omitempty"`
	StudentEmail *string `db:"student_email" json:"student_email,omitempty"`
}

// PaymentFilter captures supported filters for listing payments.
type PaymentFilter struct {
	StudentID string
	Status    string
	Page      int
	PageSize  int
}
