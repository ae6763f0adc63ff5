package submission

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/user"
)

var (
	// errors
	ErrNotFound          = errors.New("submission not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidTransition = errors.New("invalid submission transition")

	nowFunc = time.Now // mockable
)

type (
	// Repository persists submissions. GetSubmission is the unique
	// (assignmentID, studentID) pair lookup and returns ErrNotFound when
	// the pair has never been materialized.
	Repository interface {
		QueryAllSubmissions() ([]Submission, error)
		FilterSubmissionsByStudent(studentID string) ([]Submission, error)
		FilterSubmissionsByAssignment(assignmentID string) ([]Submission, error)
		GetSubmission(assignmentID, studentID string) (Submission, error)
		CreateSubmission(sub Submission) (Submission, error)
		UpdateSubmission(sub Submission) (Submission, error)
		DeleteSubmissionsByAssignmentID(assignmentIDs ...string) error
	}

	Service interface {
		// Ensure materializes the (assignment, student) pair on first
		// interaction; it is idempotent and never advances the lifecycle.
		Ensure(actor user.User, assignmentID string) (Submission, error)
		Declare(actor user.User, assignmentID string, ds DeclareSubmission) (Submission, error)
		Confirm(actor user.User, assignmentID string) (Submission, error)
		Get(assignmentID, studentID string) (Submission, error)
		ByStudent(studentID string) ([]Submission, error)
		ByAssignment(assignmentID string) ([]Submission, error)
		Stats(asg assignment.Assignment) (Stats, error)
	}

	service struct {
		repo    Repository
		asgRepo assignment.Repository
		usrRepo user.Repository
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, asgRepo assignment.Repository, usrRepo user.Repository, mailSvc core.EmailService) Service {
	return &service{
		repo:    repo,
		asgRepo: asgRepo,
		usrRepo: usrRepo,
		mailSvc: mailSvc,
	}
}

func (svc *service) Ensure(actor user.User, assignmentID string) (Submission, error) {
	if !actor.IsStudent() {
		return Submission{}, ErrPermissionDenied
	}
	if _, err := svc.asgRepo.GetAssignmentByID(assignmentID); err != nil {
		return Submission{}, err
	}

	sub, err := svc.repo.GetSubmission(assignmentID, actor.ID)
	if err == nil {
		return sub, nil
	}
	if err != ErrNotFound {
		return Submission{}, errors.Wrap(err, "finding submission")
	}

	sub = Submission{
		ID:                uuid.New().String(),
		AssignmentID:      assignmentID,
		StudentID:         actor.ID,
		Status:            StatusNotSubmitted,
		ConfirmationSteps: []ConfirmationStep{},
		LastUpdatedAt:     nowFunc().UTC(),
	}
	return svc.repo.CreateSubmission(sub)
}

func (svc *service) Declare(actor user.User, assignmentID string, ds DeclareSubmission) (Submission, error) {
	sub, err := svc.Ensure(actor, assignmentID)
	if err != nil {
		return Submission{}, err
	}
	if !ds.Acknowledged {
		// a UI precondition, not a system fault: refuse without error
		return sub, nil
	}
	if !sub.Status.CanDeclare() {
		return Submission{}, ErrInvalidTransition
	}

	now := nowFunc().UTC()
	if ds.DriveLink != "" {
		sub.DriveLinkSubmitted = null.StringFrom(ds.DriveLink)
	}
	if ds.Notes != "" {
		sub.Notes = null.StringFrom(ds.Notes)
	}
	sub.Status = StatusSubmitted
	sub.ConfirmationSteps = append(sub.ConfirmationSteps, ConfirmationStep{Step: StepDeclaredSubmitted, At: now})
	sub.LastUpdatedAt = now
	return svc.repo.UpdateSubmission(sub)
}

func (svc *service) Confirm(actor user.User, assignmentID string) (Submission, error) {
	sub, err := svc.Ensure(actor, assignmentID)
	if err != nil {
		return Submission{}, err
	}
	if !sub.Status.CanConfirm() {
		return Submission{}, ErrInvalidTransition
	}

	now := nowFunc().UTC()
	sub.Status = StatusConfirmed
	sub.ConfirmationSteps = append(sub.ConfirmationSteps, ConfirmationStep{Step: StepFinalConfirm, At: now})
	sub.ConfirmedAt = null.TimeFrom(now)
	sub.LastUpdatedAt = now

	sub, err = svc.repo.UpdateSubmission(sub)
	if err != nil {
		return Submission{}, err
	}
	svc.sendReceiptMail(actor, sub)
	return sub, nil
}

func (svc *service) Get(assignmentID, studentID string) (Submission, error) {
	return svc.repo.GetSubmission(assignmentID, studentID)
}

func (svc *service) ByStudent(studentID string) ([]Submission, error) {
	return svc.repo.FilterSubmissionsByStudent(studentID)
}

func (svc *service) ByAssignment(assignmentID string) ([]Submission, error) {
	return svc.repo.FilterSubmissionsByAssignment(assignmentID)
}

// Stats computes completion statistics for an assignment over its eligible
// students (students whose class matches the assignment's course).
func (svc *service) Stats(asg assignment.Assignment) (Stats, error) {
	eligible, err := svc.usrRepo.FilterStudentsByClass(asg.Course)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying eligible students")
	}
	subs, err := svc.repo.FilterSubmissionsByAssignment(asg.ID)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying submissions")
	}
	return ComputeStats(eligible, subs), nil
}

func (svc *service) sendReceiptMail(actor user.User, sub Submission) {
	if svc.mailSvc == nil {
		return
	}
	asg, err := svc.asgRepo.GetAssignmentByID(sub.AssignmentID)
	if err != nil {
		return
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nYour submission for %q (%s) has been confirmed on %s.\nThis confirmation is final.",
		actor.Name, asg.Title, asg.Course, sub.ConfirmedAt.Time.Format(time.RFC1123),
	)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: actor.Name, Address: actor.Email}},
		Subject: "Submission confirmed: " + asg.Title,
		BodyStr: body,
	})
}
