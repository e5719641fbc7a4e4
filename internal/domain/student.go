package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Student-specific validation errors, all wrapping ErrValidation.
var (
	// ErrStudentIDEmpty is returned when a student ID is empty or nil.
	ErrStudentIDEmpty = fmt.Errorf("%w: student ID cannot be empty", ErrValidation)

	// ErrStudentNameEmpty is returned when a student's full name is empty.
	ErrStudentNameEmpty = fmt.Errorf("%w: student full name cannot be empty", ErrValidation)

	// ErrStudentGroupInvalid is returned when a student's group reference is not positive.
	ErrStudentGroupInvalid = fmt.Errorf("%w: student group ID must be positive", ErrValidation)
)

// Student is a member of a group whose memorization is tracked by the ledger.
type Student struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	GroupID   int       `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStudent creates a new Student with a generated ID and timestamps.
// Returns an error if validation fails.
func NewStudent(fullName string, groupID int) (*Student, error) {
	now := time.Now().UTC()
	student := &Student{
		ID:        uuid.New(),
		FullName:  strings.TrimSpace(fullName),
		GroupID:   groupID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := student.Validate(); err != nil {
		return nil, err
	}

	return student, nil
}

// Validate checks if the Student has valid data.
func (s *Student) Validate() error {
	if s.ID == uuid.Nil {
		return ErrStudentIDEmpty
	}
	if strings.TrimSpace(s.FullName) == "" {
		return ErrStudentNameEmpty
	}
	if s.GroupID <= 0 {
		return ErrStudentGroupInvalid
	}
	return nil
}
