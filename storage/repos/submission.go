package storerepos

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/submission"
	"github.com/trezcool/kazi/storage/store"
)

type submissionRepository struct {
	st store.Store
}

var _ submission.Repository = (*submissionRepository)(nil)

func NewSubmissionRepository(st store.Store) *submissionRepository {
	return &submissionRepository{st: st}
}

func (repo submissionRepository) query() []submission.Submission {
	raw, err := repo.st.Get(store.Submissions)
	if err != nil || len(raw) == 0 {
		return []submission.Submission{}
	}
	var subs []submission.Submission
	if err = json.Unmarshal(raw, &subs); err != nil {
		return []submission.Submission{}
	}
	return subs
}

func (repo submissionRepository) save(subs []submission.Submission) error {
	raw, err := json.Marshal(subs)
	if err != nil {
		return errors.Wrap(err, "encoding submissions")
	}
	return repo.st.Put(store.Submissions, raw)
}

func (repo submissionRepository) QueryAllSubmissions() ([]submission.Submission, error) {
	return repo.query(), nil
}

func (repo submissionRepository) FilterSubmissionsByStudent(studentID string) ([]submission.Submission, error) {
	subs := make([]submission.Submission, 0)
	for _, sub := range repo.query() {
		if sub.StudentID == studentID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (repo submissionRepository) FilterSubmissionsByAssignment(assignmentID string) ([]submission.Submission, error) {
	subs := make([]submission.Submission, 0)
	for _, sub := range repo.query() {
		if sub.AssignmentID == assignmentID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (repo submissionRepository) GetSubmission(assignmentID, studentID string) (submission.Submission, error) {
	for _, sub := range repo.query() {
		if sub.AssignmentID == assignmentID && sub.StudentID == studentID {
			return sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo submissionRepository) CreateSubmission(sub submission.Submission) (submission.Submission, error) {
	subs := append(repo.query(), sub)
	return sub, repo.save(subs)
}

func (repo submissionRepository) UpdateSubmission(sub submission.Submission) (submission.Submission, error) {
	subs := repo.query()
	for i := range subs {
		if subs[i].ID == sub.ID {
			subs[i] = sub
			return sub, repo.save(subs)
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo submissionRepository) DeleteSubmissionsByAssignmentID(assignmentIDs ...string) error {
	toDelete := make(map[string]struct{}, len(assignmentIDs))
	for _, id := range assignmentIDs {
		toDelete[id] = struct{}{}
	}

	kept := make([]submission.Submission, 0)
	for _, sub := range repo.query() {
		if _, ok := toDelete[sub.AssignmentID]; !ok {
			kept = append(kept, sub)
		}
	}
	return repo.save(kept)
}
