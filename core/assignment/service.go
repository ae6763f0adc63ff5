package assignment

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/user"
)

var (
	// errors
	ErrNotFound         = errors.New("assignment not found")
	ErrPermissionDenied = errors.New("permission denied")
)

type (
	// Repository persists assignments. Lookups return ErrNotFound when no
	// assignment matches; filters return collections in store insertion
	// order.
	Repository interface {
		QueryAllAssignments() ([]Assignment, error)
		GetAssignmentByID(id string) (Assignment, error)
		// FilterAssignmentsByClass returns assignments with class
		// visibility targeting the given class.
		FilterAssignmentsByClass(class string) ([]Assignment, error)
		FilterAssignmentsByCreator(creatorID string) ([]Assignment, error)
		CreateAssignment(asg Assignment) (Assignment, error)
		UpdateAssignment(asg Assignment) (Assignment, error)
		DeleteAssignmentsByID(ids ...string) error
	}

	// SubmissionDeleter cascades an assignment deletion to the submissions
	// referencing it.
	SubmissionDeleter interface {
		DeleteSubmissionsByAssignmentID(assignmentIDs ...string) error
	}

	Service interface {
		Create(actor user.User, na NewAssignment) (Assignment, error)
		Update(actor user.User, id string, ua UpdateAssignment) (Assignment, error)
		Delete(actor user.User, ids ...string) error
		GetByID(id string) (Assignment, error)
		VisibleToClass(class string) ([]Assignment, error)
		QueryByCreator(creatorID string) ([]Assignment, error)
	}

	service struct {
		repo   Repository
		subDel SubmissionDeleter
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, subDel SubmissionDeleter) Service {
	return &service{repo: repo, subDel: subDel}
}

func (svc *service) Create(actor user.User, na NewAssignment) (Assignment, error) {
	if !actor.IsAdmin() {
		return Assignment{}, ErrPermissionDenied
	}

	asg := Assignment{
		ID:          uuid.New().String(),
		Title:       na.Title,
		Description: na.Description,
		Course:      na.Course,
		DueDate:     na.DueDate.UTC(),
		DriveLink:   na.DriveLink,
		CreatedBy:   actor.ID,
		CreatedAt:   time.Now().UTC(),
		Attachments: []string{},
		Visibility:  Visibility{Type: VisibilityClass, Value: na.Course},
	}
	return svc.repo.CreateAssignment(asg)
}

func (svc *service) Update(actor user.User, id string, ua UpdateAssignment) (Assignment, error) {
	asg, err := svc.repo.GetAssignmentByID(id)
	if err != nil {
		return Assignment{}, err
	}
	// mutable by its creator only
	if asg.CreatedBy != actor.ID {
		return Assignment{}, ErrPermissionDenied
	}

	asg.Title = ua.Title
	asg.Description = ua.Description
	asg.Course = ua.Course
	asg.DueDate = ua.DueDate.UTC()
	asg.DriveLink = ua.DriveLink
	asg.Visibility = Visibility{Type: VisibilityClass, Value: ua.Course}
	return svc.repo.UpdateAssignment(asg)
}

// Delete removes assignments owned by the actor along with all submissions
// referencing them. Unknown IDs are skipped.
func (svc *service) Delete(actor user.User, ids ...string) error {
	toDelete := make([]string, 0, len(ids))
	for _, id := range ids {
		asg, err := svc.repo.GetAssignmentByID(id)
		if err == ErrNotFound {
			continue
		} else if err != nil {
			return errors.Wrap(err, "finding assignment")
		}
		if asg.CreatedBy != actor.ID {
			return ErrPermissionDenied
		}
		toDelete = append(toDelete, id)
	}
	if len(toDelete) == 0 {
		return nil
	}

	// cascade first so no submission is left dangling
	if err := svc.subDel.DeleteSubmissionsByAssignmentID(toDelete...); err != nil {
		return errors.Wrap(err, "cascading assignment deletion")
	}
	return svc.repo.DeleteAssignmentsByID(toDelete...)
}

func (svc *service) GetByID(id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(id)
}

func (svc *service) VisibleToClass(class string) ([]Assignment, error) {
	return svc.repo.FilterAssignmentsByClass(class)
}

func (svc *service) QueryByCreator(creatorID string) ([]Assignment, error) {
	return svc.repo.FilterAssignmentsByCreator(creatorID)
}
