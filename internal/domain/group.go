package domain

import "fmt"

// Group-specific validation errors, all wrapping ErrValidation.
var (
	// ErrGroupNameEmpty is returned when a group's name is empty.
	ErrGroupNameEmpty = fmt.Errorf("%w: group name cannot be empty", ErrValidation)

	// ErrGroupTargetInvalid is returned when a group's verse target is negative.
	ErrGroupTargetInvalid = fmt.Errorf("%w: group target verses cannot be negative", ErrValidation)
)

// Group is a cohort of students sharing a per-student memorization goal.
// TargetVerses is the completion goal used for percentage computation; it is
// not necessarily the sum of all section verse counts. A zero target is
// legal and yields zero percentages.
type Group struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	TargetVerses int    `json:"target_verses"`
}

// Validate checks if the Group has valid data.
func (g Group) Validate() error {
	if g.Name == "" {
		return ErrGroupNameEmpty
	}
	if g.TargetVerses < 0 {
		return ErrGroupTargetInvalid
	}
	return nil
}
