package submission_test

import (
	"testing"

	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/submission"
	"github.com/trezcool/kazi/core/user"
	"github.com/trezcool/kazi/services/email"
	"github.com/trezcool/kazi/storage/repos"
	"github.com/trezcool/kazi/storage/store/memstore"
	"github.com/trezcool/kazi/tests"
)

type fixture struct {
	usrRepo user.Repository
	asgRepo assignment.Repository
	subRepo submission.Repository
	svc     submission.Service

	admin   user.User
	student user.User
	asg     assignment.Assignment
}

func setup(t *testing.T) *fixture {
	st := memstore.Open()
	f := &fixture{
		usrRepo: storerepos.NewUserRepository(st),
		asgRepo: storerepos.NewAssignmentRepository(st),
		subRepo: storerepos.NewSubmissionRepository(st),
	}
	f.svc = submission.NewService(f.subRepo, f.asgRepo, f.usrRepo, emailsvc.NewConsoleServiceMock())

	f.admin = testutil.CreateAdmin(t, f.usrRepo, "Prof", "prof@test.cd")
	f.student = testutil.CreateStudent(t, f.usrRepo, "Hero", "hero@test.cd", "CS-3A")
	f.asg = testutil.CreateAssignment(t, f.asgRepo, "Graphs", "CS-3A", f.admin.ID)
	return f
}

func TestService_Ensure(t *testing.T) {
	f := setup(t)

	sub, err := f.svc.Ensure(f.student, f.asg.ID)
	if err != nil {
		t.Fatalf("Ensure() failed: %v", err)
	}
	if sub.Status != submission.StatusNotSubmitted {
		t.Errorf("Status = %s; want %s", sub.Status, submission.StatusNotSubmitted)
	}
	if len(sub.ConfirmationSteps) != 0 {
		t.Errorf("ConfirmationSteps = %v; want empty", sub.ConfirmationSteps)
	}

	// idempotent: same record on every later call
	again, err := f.svc.Ensure(f.student, f.asg.ID)
	if err != nil {
		t.Fatalf("Ensure() failed: %v", err)
	}
	if again.ID != sub.ID {
		t.Errorf("Ensure() materialized a second record: %s != %s", again.ID, sub.ID)
	}

	// one record per (assignment, student) pair
	subs, err := f.subRepo.QueryAllSubmissions()
	if err != nil {
		t.Fatalf("QueryAllSubmissions() failed: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("len(subs) = %d; want 1", len(subs))
	}
}

func TestService_Ensure_unknownAssignment(t *testing.T) {
	f := setup(t)

	if _, err := f.svc.Ensure(f.student, "nope"); err != assignment.ErrNotFound {
		t.Errorf("Ensure() error = %v; want %v", err, assignment.ErrNotFound)
	}
}

func TestService_Ensure_studentOnly(t *testing.T) {
	f := setup(t)

	if _, err := f.svc.Ensure(f.admin, f.asg.ID); err != submission.ErrPermissionDenied {
		t.Errorf("Ensure() error = %v; want %v", err, submission.ErrPermissionDenied)
	}
}

func TestService_Declare(t *testing.T) {
	f := setup(t)

	// without acknowledgment: refused without error, nothing recorded
	sub, err := f.svc.Declare(f.student, f.asg.ID, submission.DeclareSubmission{
		DriveLink: "https://drive.example.com/work",
	})
	if err != nil {
		t.Fatalf("Declare() failed: %v", err)
	}
	if sub.Status != submission.StatusNotSubmitted {
		t.Errorf("Status = %s; want %s", sub.Status, submission.StatusNotSubmitted)
	}
	if len(sub.ConfirmationSteps) != 0 {
		t.Errorf("ConfirmationSteps = %v; want empty", sub.ConfirmationSteps)
	}

	// acknowledged: records the declaration
	sub, err = f.svc.Declare(f.student, f.asg.ID, submission.DeclareSubmission{
		Acknowledged: true,
		DriveLink:    "https://drive.example.com/work",
		Notes:        "chapter 3",
	})
	if err != nil {
		t.Fatalf("Declare() failed: %v", err)
	}
	if sub.Status != submission.StatusSubmitted {
		t.Errorf("Status = %s; want %s", sub.Status, submission.StatusSubmitted)
	}
	if sub.DriveLinkSubmitted.String != "https://drive.example.com/work" {
		t.Errorf("DriveLinkSubmitted = %s; want the declared link", sub.DriveLinkSubmitted.String)
	}
	if sub.Notes.String != "chapter 3" {
		t.Errorf("Notes = %s; want 'chapter 3'", sub.Notes.String)
	}
	if len(sub.ConfirmationSteps) != 1 || sub.ConfirmationSteps[0].Step != submission.StepDeclaredSubmitted {
		t.Errorf("ConfirmationSteps = %v; want one %s step", sub.ConfirmationSteps, submission.StepDeclaredSubmitted)
	}

	// a second declaration is an invalid transition
	if _, err = f.svc.Declare(f.student, f.asg.ID, submission.DeclareSubmission{Acknowledged: true}); err != submission.ErrInvalidTransition {
		t.Errorf("Declare() error = %v; want %v", err, submission.ErrInvalidTransition)
	}
}

func TestService_Confirm(t *testing.T) {
	f := setup(t)

	// confirming before declaring is an invalid transition
	if _, err := f.svc.Confirm(f.student, f.asg.ID); err != submission.ErrInvalidTransition {
		t.Errorf("Confirm() error = %v; want %v", err, submission.ErrInvalidTransition)
	}

	if _, err := f.svc.Declare(f.student, f.asg.ID, submission.DeclareSubmission{Acknowledged: true}); err != nil {
		t.Fatalf("Declare() failed: %v", err)
	}
	sub, err := f.svc.Confirm(f.student, f.asg.ID)
	if err != nil {
		t.Fatalf("Confirm() failed: %v", err)
	}
	if sub.Status != submission.StatusConfirmed {
		t.Errorf("Status = %s; want %s", sub.Status, submission.StatusConfirmed)
	}
	if !sub.ConfirmedAt.Valid {
		t.Error("ConfirmedAt not set")
	}
	if len(sub.ConfirmationSteps) != 2 {
		t.Fatalf("len(ConfirmationSteps) = %d; want 2", len(sub.ConfirmationSteps))
	}
	if sub.ConfirmationSteps[0].Step != submission.StepDeclaredSubmitted || sub.ConfirmationSteps[1].Step != submission.StepFinalConfirm {
		t.Errorf("ConfirmationSteps = %v; want [%s %s]", sub.ConfirmationSteps, submission.StepDeclaredSubmitted, submission.StepFinalConfirm)
	}
	if sub.ConfirmationSteps[0].At.After(sub.ConfirmationSteps[1].At) {
		t.Error("step log out of order")
	}

	// confirmed is terminal
	if _, err = f.svc.Confirm(f.student, f.asg.ID); err != submission.ErrInvalidTransition {
		t.Errorf("Confirm() error = %v; want %v", err, submission.ErrInvalidTransition)
	}
	if _, err = f.svc.Declare(f.student, f.asg.ID, submission.DeclareSubmission{Acknowledged: true}); err != submission.ErrInvalidTransition {
		t.Errorf("Declare() error = %v; want %v", err, submission.ErrInvalidTransition)
	}
}

func TestService_Confirm_sendsReceipt(t *testing.T) {
	f := setup(t)
	emailsvc.SentMessages = nil

	if _, err := f.svc.Declare(f.student, f.asg.ID, submission.DeclareSubmission{Acknowledged: true}); err != nil {
		t.Fatalf("Declare() failed: %v", err)
	}
	if _, err := f.svc.Confirm(f.student, f.asg.ID); err != nil {
		t.Fatalf("Confirm() failed: %v", err)
	}

	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
	}
	msg := emailsvc.SentMessages[0]
	if len(msg.To) != 1 || msg.To[0].Address != f.student.Email {
		t.Errorf("To = %v; want %s", msg.To, f.student.Email)
	}
}

func TestService_ByStudent(t *testing.T) {
	f := setup(t)

	other := testutil.CreateStudent(t, f.usrRepo, "King", "king@test.cd", "CS-3A")
	if _, err := f.svc.Ensure(f.student, f.asg.ID); err != nil {
		t.Fatalf("Ensure() failed: %v", err)
	}
	if _, err := f.svc.Ensure(other, f.asg.ID); err != nil {
		t.Fatalf("Ensure() failed: %v", err)
	}

	subs, err := f.svc.ByStudent(f.student.ID)
	if err != nil {
		t.Fatalf("ByStudent() failed: %v", err)
	}
	if len(subs) != 1 || subs[0].StudentID != f.student.ID {
		t.Errorf("ByStudent() = %v; want the student's single submission", subs)
	}
}
