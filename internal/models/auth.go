package models

import "time"

// LoginRequest holds credentials for authenticating an account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and account info.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	Account     AccountInfo `json:"account"`
	IssuedAt    time.Time   `json:"issued_at"`
}

// RegisterStudentRequest is the student sign-up payload. Amount is computed
// server-side from the price table; any client-supplied amount is ignored.
type RegisterStudentRequest struct {
	FullName   string   `json:"full_name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone" validate:"required"`
	Password   string   `json:"password" validate:"required,min=6"`
	Curriculum string   `json:"curriculum" validate:"required"`
	Package    string   `json:"package" validate:"required"`
	Grade      string   `json:"grade" validate:"required"`
	Subjects   []string `json:"subjects"`
}

// RegisterStudentResponse returns the created student, the enrolled subjects
// and a session token so sign-up doubles as login.
type RegisterStudentResponse struct {
	Student     Student   `json:"student"`
	Subjects    []Subject `json:"subjects"`
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
}

// RegisterTeacherRequest is the tutor application payload. The CV arrives as
// a multipart file and is referenced here by its stored path.
type RegisterTeacherRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Password   string `json:"password" validate:"required,min=6"`
	Curriculum string `json:"curriculum" validate:"required"`
	Experience string `json:"experience"`
	CVPath     string `json:"-"`
}

// RegisterTeacherResponse returns the created, not-yet-active teacher.
type RegisterTeacherResponse struct {
	Teacher     Teacher `json:"teacher"`
	AccessToken string  `json:"access_token"`
	ExpiresIn   int64   `json:"expires_in"`
}
