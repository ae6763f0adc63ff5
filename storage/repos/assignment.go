package storerepos

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/storage/store"
)

type assignmentRepository struct {
	st store.Store
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(st store.Store) *assignmentRepository {
	return &assignmentRepository{st: st}
}

func (repo assignmentRepository) query() []assignment.Assignment {
	raw, err := repo.st.Get(store.Assignments)
	if err != nil || len(raw) == 0 {
		return []assignment.Assignment{}
	}
	var asgs []assignment.Assignment
	if err = json.Unmarshal(raw, &asgs); err != nil {
		return []assignment.Assignment{}
	}
	return asgs
}

func (repo assignmentRepository) save(asgs []assignment.Assignment) error {
	raw, err := json.Marshal(asgs)
	if err != nil {
		return errors.Wrap(err, "encoding assignments")
	}
	return repo.st.Put(store.Assignments, raw)
}

func (repo assignmentRepository) QueryAllAssignments() ([]assignment.Assignment, error) {
	return repo.query(), nil
}

func (repo assignmentRepository) GetAssignmentByID(id string) (assignment.Assignment, error) {
	for _, asg := range repo.query() {
		if asg.ID == id {
			return asg, nil
		}
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo assignmentRepository) FilterAssignmentsByClass(class string) ([]assignment.Assignment, error) {
	asgs := make([]assignment.Assignment, 0)
	for _, asg := range repo.query() {
		if asg.Visibility.Type == assignment.VisibilityClass && asg.Visibility.Value == class {
			asgs = append(asgs, asg)
		}
	}
	return asgs, nil
}

func (repo assignmentRepository) FilterAssignmentsByCreator(creatorID string) ([]assignment.Assignment, error) {
	asgs := make([]assignment.Assignment, 0)
	for _, asg := range repo.query() {
		if asg.CreatedBy == creatorID {
			asgs = append(asgs, asg)
		}
	}
	return asgs, nil
}

func (repo assignmentRepository) CreateAssignment(asg assignment.Assignment) (assignment.Assignment, error) {
	asgs := append(repo.query(), asg)
	return asg, repo.save(asgs)
}

func (repo assignmentRepository) UpdateAssignment(asg assignment.Assignment) (assignment.Assignment, error) {
	asgs := repo.query()
	for i := range asgs {
		if asgs[i].ID == asg.ID {
			asgs[i] = asg
			return asg, repo.save(asgs)
		}
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo assignmentRepository) DeleteAssignmentsByID(ids ...string) error {
	toDelete := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		toDelete[id] = struct{}{}
	}

	kept := make([]assignment.Assignment, 0)
	for _, asg := range repo.query() {
		if _, ok := toDelete[asg.ID]; !ok {
			kept = append(kept, asg)
		}
	}
	return repo.save(kept)
}
