package models

import (
	"time"

	"github.com/lib/pq"
)

// AssignmentStatus is the lifecycle state of an assignment. Overdue is never
// stored; it is derived at read time from the due date.
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusSubmitted AssignmentStatus = "submitted"
	AssignmentStatusOverdue   AssignmentStatus = "overdue"
)

// Assignment represents work a teacher issued to a single student.
type Assignment struct {
	ID          string           `db:"id" json:"id"`
	Title       string           `db:"title" json:"title"`
	Description string           `db:"description" json:"description"`
	SubjectTags pq.StringArray   `db:"subject_tags" json:"subject_tags"`
	TeacherID   string           `db:"teacher_id" json:"teacher_id"`
	StudentID   string           `db:"student_id" json:"student_id"`
	Submission  string           `db:"submission" json:"submission,omitempty"`
	Status      AssignmentStatus `db:"status" json:"status"`
	DueAt       time.Time        `db:"due_at" json:"due_at"`
	SubmittedAt *time.Time       `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// EffectiveStatus derives the externally visible status at the given instant.
// A pending assignment whose due date has passed reads as overdue.
func (a Assignment) EffectiveStatus(now time.Time) AssignmentStatus {
	if a.Status == AssignmentStatusPending && now.After(a.DueAt) {
		return AssignmentStatusOverdue
	}
	return a.Status
}

// AssignmentFilter captures supported filters for listing assignments.
type AssignmentFilter struct {
	TeacherID string
	StudentID string
	Status    string
	Page      int
	PageSize  int
}
