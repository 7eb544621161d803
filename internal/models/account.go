package models

import "time"

// Role represents the available account roles for the RBAC system.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
	RoleQAO     Role = "QAO"
)

// Student represents a learner account stored in the students table.
type Student struct {
	ID           string     `db:"id" json:"id"`
	FullName     string     `db:"full_name" json:"full_name"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Curriculum   Curriculum `db:"curriculum" json:"curriculum"`
	Package      string     `db:"package" json:"package"`
	Grade        string     `db:"grade" json:"grade"`
	Amount       float64    `db:"amount" json:"amount"`
	Active       bool       `db:"active" json:"active"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Teacher represents a tutor account. Teachers start inactive and become
// active only after a staff member completes the interview workflow.
type Teacher struct {
	ID           string     `db:"id" json:"id"`
	FullName     string     `db:"full_name" json:"full_name"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Curriculum   Curriculum `db:"curriculum" json:"curriculum"`
	Experience   string     `db:"experience" json:"experience"`
	CVPath       string     `db:"cv_path" json:"-"`
	Active       bool       `db:"active" json:"active"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Staff represents an internal operator account (admin or QAO).
type Staff struct {
	ID           string    `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter captures supported filters for listing students.
type StudentFilter struct {
	Curriculum string
	Search     string
	Page       int
	PageSize   int
}

// TeacherFilter captures supported filters for listing teachers.
type TeacherFilter struct {
	Curriculum string
	Active     *bool
	Search     string
	Page       int
	PageSize   int
}

// AccountInfo describes the authenticated account in responses.
type AccountInfo struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
