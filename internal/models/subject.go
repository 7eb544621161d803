package models

import "time"

// Subject represents a catalog subject offered under a curriculum. Exam-prep
// subjects form a separate, unpriced catalog.
type Subject struct {
	ID         string     `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Curriculum Curriculum `db:"curriculum" json:"curriculum"`
	TeacherID  *string    `db:"teacher_id" json:"teacher_id,omitempty"`
	ClassTime  string     `db:"class_time" json:"class_time"`
	Progress   string     `db:"progress" json:"progress"`
	ExamPrep   bool       `db:"exam_prep" json:"exam_prep"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// SubjectDetail contains subject information joined with its teacher and the
// number of enrolled students.
type SubjectDetail struct {
	Subject
	TeacherName   *string `db:"teacher_name" json:"teacher_name,omitempty"`
	EnrolledCount int     `db:"enrolled_count" json:"enrolled_count"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Curriculum string
	TeacherID  string
	ExamPrep   *bool
	Search     string
	Page       int
	PageSize   int
}

// Enrollment is the membership link between a subject and a student. Both the
// student-side and subject-side views read this relation, so the link cannot
// go one-sided.
type Enrollment struct {
	SubjectID  string    `db:"subject_id" json:"subject_id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// SubjectMember is a student row as seen from a subject's roster.
type SubjectMember struct {
	StudentID  string    `db:"student_id" json:"student_id"`
	FullName   string    `db:"full_name" json:"full_name"`
	Email      string    `db:"email" json:"email"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}
