// Package api contains the HTTP handlers, request/response models, and
// error mapping for the ledger service.
package api

import (
	"time"

	"github.com/maktab/hifdh-api/internal/service"
)

// CreateEntryRequest is the payload for recording a newly memorized range.
type CreateEntryRequest struct {
	SectionID  int        `json:"section_id"  validate:"required,min=1"`
	StartVerse int        `json:"start_verse" validate:"required,min=1"`
	EndVerse   int        `json:"end_verse"   validate:"required,min=1"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// BulkSectionsRequest is the payload for marking whole sections memorized
// or for deleting every entry of the named sections.
type BulkSectionsRequest struct {
	SectionIDs []int      `json:"section_ids" validate:"required,min=1,dive,min=1"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// UpdateEntryRequest is the payload for changing an entry's verse range.
type UpdateEntryRequest struct {
	StartVerse int        `json:"start_verse" validate:"required,min=1"`
	EndVerse   int        `json:"end_verse"   validate:"required,min=1"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// CreateStudentRequest is the payload for enrolling a student.
type CreateStudentRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=200"`
	GroupID  int    `json:"group_id"  validate:"required,min=1"`
}

// UpdateStudentRequest is the payload for renaming or moving a student.
type UpdateStudentRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=200"`
	GroupID  int    `json:"group_id"  validate:"required,min=1"`
}

// SkippedSectionResponse reports one section a bulk add did not insert.
type SkippedSectionResponse struct {
	SectionID int    `json:"section_id"`
	Reason    string `json:"reason"`
}

// BulkAddResponse is the per-item outcome of a bulk section add.
type BulkAddResponse struct {
	Inserted []*service.PortionResult `json:"inserted"`
	Skipped  []SkippedSectionResponse `json:"skipped"`
}

// NewBulkAddResponse converts a service bulk result to its API shape,
// flattening skip reasons to safe strings.
func NewBulkAddResponse(result *service.BulkAddResult) BulkAddResponse {
	resp := BulkAddResponse{
		Inserted: result.Inserted,
		Skipped:  make([]SkippedSectionResponse, 0, len(result.Skipped)),
	}
	for _, skipped := range result.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedSectionResponse{
			SectionID: skipped.SectionID,
			Reason:    GetSafeErrorMessage(skipped.Reason),
		})
	}
	return resp
}
