// Package model holds the backend data transfer objects shared by the client
// and its callers.
package model

import "time"

// Role is a user's authorization role.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User is an authenticated identity as returned by /api/v1/auth/me.
type User struct {
	ID        string    `json:"id" yaml:"id"`
	Email     string    `json:"email" yaml:"email"`
	Role      Role      `json:"role" yaml:"role"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// AuthResponse is returned by login and register: the user plus a token pair.
type AuthResponse struct {
	User         User   `json:"user" yaml:"user"`
	AccessToken  string `json:"access_token" yaml:"-"`
	RefreshToken string `json:"refresh_token" yaml:"-"`
}

// TokenResponse is returned by the refresh endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest carries registration credentials.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Semester groups subjects in time.
type Semester struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	StartDate   string    `json:"start_date" yaml:"start_date"`
	EndDate     string    `json:"end_date" yaml:"end_date"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Subject is a course documents and questions belong to.
type Subject struct {
	ID          string    `json:"id" yaml:"id"`
	SemesterID  string    `json:"semester_id" yaml:"semester_id"`
	Name        string    `json:"name" yaml:"name"`
	Code        string    `json:"code" yaml:"code"`
	Description string    `json:"description" yaml:"description"`
	Credits     int       `json:"credits" yaml:"credits"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
	Semester    *Semester `json:"semester,omitempty" yaml:"semester,omitempty"`
}

// Document is an uploaded file attached to a subject.
type Document struct {
	ID          string    `json:"id" yaml:"id"`
	SubjectID   string    `json:"subject_id" yaml:"subject_id"`
	UserID      string    `json:"user_id" yaml:"user_id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	FilePath    string    `json:"file_path" yaml:"file_path"`
	FileSize    int64     `json:"file_size" yaml:"file_size"`
	MimeType    string    `json:"mime_type" yaml:"mime_type"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
	Subject     *Subject  `json:"subject,omitempty" yaml:"subject,omitempty"`
	User        *User     `json:"user,omitempty" yaml:"user,omitempty"`
}

// Comment is a free-form remark on a subject.
type Comment struct {
	ID        string    `json:"id" yaml:"id"`
	SubjectID string    `json:"subject_id" yaml:"subject_id"`
	UserID    string    `json:"user_id" yaml:"user_id"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	User      *User     `json:"user,omitempty" yaml:"user,omitempty"`
}

// Question is a Q&A thread root on a subject.
type Question struct {
	ID        string    `json:"id" yaml:"id"`
	SubjectID string    `json:"subject_id" yaml:"subject_id"`
	UserID    string    `json:"user_id" yaml:"user_id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	User      *User     `json:"user,omitempty" yaml:"user,omitempty"`
	Answers   []Answer  `json:"answers,omitempty" yaml:"answers,omitempty"`
}

// Answer replies to a Question.
type Answer struct {
	ID         string    `json:"id" yaml:"id"`
	QuestionID string    `json:"question_id" yaml:"question_id"`
	UserID     string    `json:"user_id" yaml:"user_id"`
	Content    string    `json:"content" yaml:"content"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
	User       *User     `json:"user,omitempty" yaml:"user,omitempty"`
}

// Flashcard is a question/answer study card on a subject.
type Flashcard struct {
	ID        string    `json:"id" yaml:"id"`
	SubjectID string    `json:"subject_id" yaml:"subject_id"`
	UserID    string    `json:"user_id" yaml:"user_id"`
	Front     string    `json:"front" yaml:"front"`
	Back      string    `json:"back" yaml:"back"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Envelope is the {success, data} wrapper some endpoints use. The client
// never unwraps it; callers decode into Envelope[T] where it applies.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}
