package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/assignment"
)

type assignmentRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Course      string         `db:"course"`
	DueDate     time.Time      `db:"due_date"`
	DriveLink   string         `db:"drive_link"`
	CreatedBy   string         `db:"created_by"`
	CreatedAt   time.Time      `db:"created_at"`
	Attachments stringsJSON    `db:"attachments"`
	Visibility  visibilityJSON `db:"visibility"`
}

func (r assignmentRow) toAssignment() assignment.Assignment {
	attachments := []string(r.Attachments)
	if attachments == nil {
		attachments = []string{}
	}
	return assignment.Assignment{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Course:      r.Course,
		DueDate:     r.DueDate,
		DriveLink:   r.DriveLink,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		Attachments: attachments,
		Visibility:  r.Visibility.Visibility,
	}
}

func toAssignmentRow(asg assignment.Assignment) assignmentRow {
	return assignmentRow{
		ID:          asg.ID,
		Title:       asg.Title,
		Description: asg.Description,
		Course:      asg.Course,
		DueDate:     asg.DueDate.UTC(),
		DriveLink:   asg.DriveLink,
		CreatedBy:   asg.CreatedBy,
		CreatedAt:   asg.CreatedAt.UTC(),
		Attachments: stringsJSON(asg.Attachments),
		Visibility:  visibilityJSON{asg.Visibility},
	}
}

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo assignmentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return assignment.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo assignmentRepository) selectAssignments(query string, args ...interface{}) ([]assignment.Assignment, error) {
	var rows []assignmentRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	asgs := make([]assignment.Assignment, 0, len(rows))
	for _, r := range rows {
		asgs = append(asgs, r.toAssignment())
	}
	return asgs, nil
}

func (repo assignmentRepository) QueryAllAssignments() ([]assignment.Assignment, error) {
	return repo.selectAssignments(`SELECT id, title, description, course, due_date, drive_link, created_by, created_at, attachments, visibility FROM assignments ORDER BY seq`)
}

func (repo assignmentRepository) GetAssignmentByID(id string) (assignment.Assignment, error) {
	var r assignmentRow
	err := repo.db.Get(&r, `SELECT id, title, description, course, due_date, drive_link, created_by, created_at, attachments, visibility FROM assignments WHERE id = $1`, id)
	if err != nil {
		return assignment.Assignment{}, repo.trapNoRowsErr(err, "finding assignment by ID")
	}
	return r.toAssignment(), nil
}

func (repo assignmentRepository) FilterAssignmentsByClass(class string) ([]assignment.Assignment, error) {
	return repo.selectAssignments(
		`SELECT id, title, description, course, due_date, drive_link, created_by, created_at, attachments, visibility
		 FROM assignments WHERE visibility->>'type' = $1 AND visibility->>'value' = $2 ORDER BY seq`,
		assignment.VisibilityClass, class,
	)
}

func (repo assignmentRepository) FilterAssignmentsByCreator(creatorID string) ([]assignment.Assignment, error) {
	return repo.selectAssignments(
		`SELECT id, title, description, course, due_date, drive_link, created_by, created_at, attachments, visibility
		 FROM assignments WHERE created_by = $1 ORDER BY seq`,
		creatorID,
	)
}

func (repo assignmentRepository) CreateAssignment(asg assignment.Assignment) (assignment.Assignment, error) {
	r := toAssignmentRow(asg)
	_, err := repo.db.NamedExec(`
		INSERT INTO assignments (id, title, description, course, due_date, drive_link, created_by, created_at, attachments, visibility)
		VALUES (:id, :title, :description, :course, :due_date, :drive_link, :created_by, :created_at, :attachments, :visibility)`, r)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return asg, nil
}

func (repo assignmentRepository) UpdateAssignment(asg assignment.Assignment) (assignment.Assignment, error) {
	r := toAssignmentRow(asg)
	res, err := repo.db.NamedExec(`
		UPDATE assignments SET
			title = :title,
			description = :description,
			course = :course,
			due_date = :due_date,
			drive_link = :drive_link,
			attachments = :attachments,
			visibility = :visibility
		WHERE id = :id`, r)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return asg, nil
}

func (repo assignmentRepository) DeleteAssignmentsByID(ids ...string) error {
	query, args, err := sqlx.In(`DELETE FROM assignments WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building assignment delete query")
	}
	_, err = repo.db.Exec(repo.db.Rebind(query), args...)
	return errors.Wrap(err, "deleting assignments")
}
