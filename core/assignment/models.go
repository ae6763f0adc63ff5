package assignment

import (
	"time"

	"github.com/trezcool/kazi/core"
)

// Visibility types
const (
	VisibilityClass    = "class"
	VisibilityAll      = "all"
	VisibilitySpecific = "specific"
)

// Visibility determines which students can see an assignment.
type Visibility struct {
	Type  string `json:"type"` // class | all | specific
	Value string `json:"value"`
}

type Assignment struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Course      string     `json:"course"`
	DueDate     time.Time  `json:"dueDate"` // UTC
	DriveLink   string     `json:"driveLink"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"` // UTC
	Attachments []string   `json:"attachments"`
	Visibility  Visibility `json:"visibility"`
}

// NewAssignment contains information needed to publish a new Assignment.
// Visibility is derived from the course: every student of the course's
// class sees it.
type NewAssignment struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Course      string    `json:"course" validate:"required"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
	DriveLink   string    `json:"driveLink" validate:"required,startswith=http"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Course = core.CleanString(na.Course)
	na.DriveLink = core.CleanString(na.DriveLink)
	return core.Validate.Struct(na)
}

// UpdateAssignment defines what information may be provided to modify an
// existing Assignment. Empty fields keep their current value.
type UpdateAssignment struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Course      string    `json:"course"`
	DueDate     time.Time `json:"dueDate"`
	DriveLink   string    `json:"driveLink" validate:"omitempty,startswith=http"`
}

func (ua *UpdateAssignment) Validate(orig Assignment) error {
	if title := core.CleanString(ua.Title); title != "" {
		ua.Title = title
	} else {
		ua.Title = orig.Title
	}

	if desc := core.CleanString(ua.Description); desc != "" {
		ua.Description = desc
	} else {
		ua.Description = orig.Description
	}

	if course := core.CleanString(ua.Course); course != "" {
		ua.Course = course
	} else {
		ua.Course = orig.Course
	}

	if ua.DueDate.IsZero() {
		ua.DueDate = orig.DueDate
	}

	if link := core.CleanString(ua.DriveLink); link != "" {
		ua.DriveLink = link
	} else {
		ua.DriveLink = orig.DriveLink
	}

	return core.Validate.Struct(ua)
}
