package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/submission"
	"github.com/trezcool/kazi/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	meta user.Meta,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Role:      role,
		Meta:      meta,
		CreatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.UpdateOrCreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, repo user.Repository, name, email, class string) user.User {
	return CreateUser(t, repo, name, email, "password", user.RoleStudent, user.Meta{Class: class, Roll: "1"})
}

func CreateAdmin(t *testing.T, repo user.Repository, name, email string) user.User {
	return CreateUser(t, repo, name, email, "password", user.RoleAdmin, user.Meta{Department: "CS"})
}

func CreateAssignment(
	t *testing.T,
	repo assignment.Repository,
	title, course, creatorID string,
	dueDate ...time.Time,
) assignment.Assignment {
	due := time.Now().UTC().Add(7 * 24 * time.Hour)
	if len(dueDate) > 0 {
		due = dueDate[0].UTC()
	}
	asg, err := repo.CreateAssignment(assignment.Assignment{
		ID:          uuid.New().String(),
		Title:       title,
		Course:      course,
		DueDate:     due,
		DriveLink:   "https://drive.example.com/" + title,
		CreatedBy:   creatorID,
		CreatedAt:   time.Now().UTC(),
		Attachments: []string{},
		Visibility:  assignment.Visibility{Type: assignment.VisibilityClass, Value: course},
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}

func CreateSubmission(
	t *testing.T,
	repo submission.Repository,
	assignmentID, studentID string,
	status submission.Status,
	steps ...submission.ConfirmationStep,
) submission.Submission {
	if steps == nil {
		steps = []submission.ConfirmationStep{}
	}
	sub, err := repo.CreateSubmission(submission.Submission{
		ID:                uuid.New().String(),
		AssignmentID:      assignmentID,
		StudentID:         studentID,
		Status:            status,
		ConfirmationSteps: steps,
		LastUpdatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	return sub
}
