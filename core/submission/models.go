package submission

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kazi/core"
)

// Status is a submission's position in its lifecycle:
// not_submitted -> submitted -> confirmed. Confirmed is terminal.
type Status string

const (
	StatusNotSubmitted Status = "not_submitted"
	StatusSubmitted    Status = "submitted"
	StatusConfirmed    Status = "confirmed"
)

// step names recorded in the confirmation log
const (
	StepDeclaredSubmitted = "declared_submitted"
	StepFinalConfirm      = "final_confirm"
)

func (s Status) CanDeclare() bool { return s == StatusNotSubmitted }
func (s Status) CanConfirm() bool { return s == StatusSubmitted }

// Terminal reports whether no transition leaves this status.
func (s Status) Terminal() bool { return s == StatusConfirmed }

// ConfirmationStep is one entry of the append-only step log.
type ConfirmationStep struct {
	Step string    `json:"step"`
	At   time.Time `json:"at"` // UTC
}

type Submission struct {
	ID                 string             `json:"id"`
	AssignmentID       string             `json:"assignmentId"`
	StudentID          string             `json:"studentId"`
	Status             Status             `json:"status"`
	DriveLinkSubmitted null.String        `json:"driveLinkSubmitted"`
	Notes              null.String        `json:"notes"`
	ConfirmationSteps  []ConfirmationStep `json:"confirmationSteps"`
	ConfirmedAt        null.Time          `json:"confirmedAt"`
	LastUpdatedAt      time.Time          `json:"lastUpdatedAt"` // UTC
}

// DeclareSubmission carries a student's declaration that their work has been
// placed in the deposit location. Acknowledged is the "I uploaded my work"
// gate; a declaration without it is silently refused. DriveLink and Notes
// are collected but not enforced.
type DeclareSubmission struct {
	Acknowledged bool   `json:"acknowledged"`
	DriveLink    string `json:"driveLink" validate:"omitempty,startswith=http"`
	Notes        string `json:"notes"`
}

func (ds *DeclareSubmission) Validate() error {
	ds.DriveLink = core.CleanString(ds.DriveLink)
	ds.Notes = core.CleanString(ds.Notes)
	return core.Validate.Struct(ds)
}
