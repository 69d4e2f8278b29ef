package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Subject and UserSubject.
var (
	ErrEmptySubjectID   = errors.New("subject ID cannot be empty")
	ErrEmptySubjectName = errors.New("subject name cannot be empty")
	ErrInvalidWeight    = errors.New("subject weight must be greater than 0")
)

// Subject is a category of vocabulary a user can study.
type Subject struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSubject links a user to a subject they study, with a weight used for
// weighted random selection when new content must be generated.
type UserSubject struct {
	UserID    uuid.UUID `json:"user_id"`
	SubjectID uuid.UUID `json:"subject_id"`
	Weight    int       `json:"weight"`
}

// NewSubject creates a new Subject with the given name.
// Returns an error if validation fails.
func NewSubject(name string) (*Subject, error) {
	subject := &Subject{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := subject.Validate(); err != nil {
		return nil, err
	}

	return subject, nil
}

// Validate checks if the Subject has valid data.
func (s *Subject) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySubjectID
	}

	if s.Name == "" {
		return ErrEmptySubjectName
	}

	return nil
}

// Validate checks if the UserSubject has valid data.
func (us *UserSubject) Validate() error {
	if us.UserID == uuid.Nil {
		return ErrEmptyItemUserID
	}

	if us.SubjectID == uuid.Nil {
		return ErrEmptySubjectID
	}

	if us.Weight <= 0 {
		return ErrInvalidWeight
	}

	return nil
}
