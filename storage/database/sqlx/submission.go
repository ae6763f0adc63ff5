package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kazi/core/submission"
)

type submissionRow struct {
	ID                 string      `db:"id"`
	AssignmentID       string      `db:"assignment_id"`
	StudentID          string      `db:"student_id"`
	Status             string      `db:"status"`
	DriveLinkSubmitted null.String `db:"drive_link_submitted"`
	Notes              null.String `db:"notes"`
	ConfirmationSteps  stepsJSON   `db:"confirmation_steps"`
	ConfirmedAt        null.Time   `db:"confirmed_at"`
	LastUpdatedAt      time.Time   `db:"last_updated_at"`
}

func (r submissionRow) toSubmission() submission.Submission {
	steps := []submission.ConfirmationStep(r.ConfirmationSteps)
	if steps == nil {
		steps = []submission.ConfirmationStep{}
	}
	return submission.Submission{
		ID:                 r.ID,
		AssignmentID:       r.AssignmentID,
		StudentID:          r.StudentID,
		Status:             submission.Status(r.Status),
		DriveLinkSubmitted: r.DriveLinkSubmitted,
		Notes:              r.Notes,
		ConfirmationSteps:  steps,
		ConfirmedAt:        r.ConfirmedAt,
		LastUpdatedAt:      r.LastUpdatedAt,
	}
}

func toSubmissionRow(sub submission.Submission) submissionRow {
	return submissionRow{
		ID:                 sub.ID,
		AssignmentID:       sub.AssignmentID,
		StudentID:          sub.StudentID,
		Status:             string(sub.Status),
		DriveLinkSubmitted: sub.DriveLinkSubmitted,
		Notes:              sub.Notes,
		ConfirmationSteps:  stepsJSON(sub.ConfirmationSteps),
		ConfirmedAt:        sub.ConfirmedAt,
		LastUpdatedAt:      sub.LastUpdatedAt.UTC(),
	}
}

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil)

func NewSubmissionRepository(db *sqlx.DB) *submissionRepository {
	return &submissionRepository{db: db}
}

func (repo submissionRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return submission.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo submissionRepository) selectSubmissions(query string, args ...interface{}) ([]submission.Submission, error) {
	var rows []submissionRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	subs := make([]submission.Submission, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, r.toSubmission())
	}
	return subs, nil
}

func (repo submissionRepository) QueryAllSubmissions() ([]submission.Submission, error) {
	return repo.selectSubmissions(`SELECT id, assignment_id, student_id, status, drive_link_submitted, notes, confirmation_steps, confirmed_at, last_updated_at FROM submissions ORDER BY seq`)
}

func (repo submissionRepository) FilterSubmissionsByStudent(studentID string) ([]submission.Submission, error) {
	return repo.selectSubmissions(
		`SELECT id, assignment_id, student_id, status, drive_link_submitted, notes, confirmation_steps, confirmed_at, last_updated_at
		 FROM submissions WHERE student_id = $1 ORDER BY seq`,
		studentID,
	)
}

func (repo submissionRepository) FilterSubmissionsByAssignment(assignmentID string) ([]submission.Submission, error) {
	return repo.selectSubmissions(
		`SELECT id, assignment_id, student_id, status, drive_link_submitted, notes, confirmation_steps, confirmed_at, last_updated_at
		 FROM submissions WHERE assignment_id = $1 ORDER BY seq`,
		assignmentID,
	)
}

func (repo submissionRepository) GetSubmission(assignmentID, studentID string) (submission.Submission, error) {
	var r submissionRow
	err := repo.db.Get(&r,
		`SELECT id, assignment_id, student_id, status, drive_link_submitted, notes, confirmation_steps, confirmed_at, last_updated_at
		 FROM submissions WHERE assignment_id = $1 AND student_id = $2`,
		assignmentID, studentID,
	)
	if err != nil {
		return submission.Submission{}, repo.trapNoRowsErr(err, "finding submission")
	}
	return r.toSubmission(), nil
}

func (repo submissionRepository) CreateSubmission(sub submission.Submission) (submission.Submission, error) {
	r := toSubmissionRow(sub)
	_, err := repo.db.NamedExec(`
		INSERT INTO submissions (id, assignment_id, student_id, status, drive_link_submitted, notes, confirmation_steps, confirmed_at, last_updated_at)
		VALUES (:id, :assignment_id, :student_id, :status, :drive_link_submitted, :notes, :confirmation_steps, :confirmed_at, :last_updated_at)`, r)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "creating submission")
	}
	return sub, nil
}

func (repo submissionRepository) UpdateSubmission(sub submission.Submission) (submission.Submission, error) {
	r := toSubmissionRow(sub)
	res, err := repo.db.NamedExec(`
		UPDATE submissions SET
			status = :status,
			drive_link_submitted = :drive_link_submitted,
			notes = :notes,
			confirmation_steps = :confirmation_steps,
			confirmed_at = :confirmed_at,
			last_updated_at = :last_updated_at
		WHERE id = :id`, r)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return submission.Submission{}, submission.ErrNotFound
	}
	return sub, nil
}

func (repo submissionRepository) DeleteSubmissionsByAssignmentID(assignmentIDs ...string) error {
	query, args, err := sqlx.In(`DELETE FROM submissions WHERE assignment_id IN (?)`, assignmentIDs)
	if err != nil {
		return errors.Wrap(err, "building submission delete query")
	}
	_, err = repo.db.Exec(repo.db.Rebind(query), args...)
	return errors.Wrap(err, "deleting submissions")
}
