package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kazi/core/user"
)

type userRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	Meta         metaJSON  `db:"meta"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	LastLogin    null.Time `db:"last_login"`
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		Meta:         user.Meta(r.Meta),
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

func toUserRow(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Email:        usr.Email,
		Role:         usr.Role,
		Meta:         metaJSON(usr.Meta),
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt.UTC(),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) selectUsers(query string, args ...interface{}) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toUser())
	}
	return users, nil
}

func (repo userRepository) QueryAllUsers() ([]user.User, error) {
	return repo.selectUsers(`SELECT id, name, email, role, meta, password_hash, created_at, last_login FROM users ORDER BY seq`)
}

func (repo userRepository) GetUserByID(id string) (user.User, error) {
	var r userRow
	err := repo.db.Get(&r, `SELECT id, name, email, role, meta, password_hash, created_at, last_login FROM users WHERE id = $1`, id)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by ID")
	}
	return r.toUser(), nil
}

func (repo userRepository) GetUserByEmail(email string) (user.User, error) {
	var r userRow
	err := repo.db.Get(&r, `SELECT id, name, email, role, meta, password_hash, created_at, last_login FROM users WHERE email = $1`, email)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by email")
	}
	return r.toUser(), nil
}

func (repo userRepository) FilterUsersByRole(role string) ([]user.User, error) {
	return repo.selectUsers(`SELECT id, name, email, role, meta, password_hash, created_at, last_login FROM users WHERE role = $1 ORDER BY seq`, role)
}

func (repo userRepository) FilterStudentsByClass(class string) ([]user.User, error) {
	return repo.selectUsers(
		`SELECT id, name, email, role, meta, password_hash, created_at, last_login FROM users WHERE role = $1 AND meta->>'class' = $2 ORDER BY seq`,
		user.RoleStudent, class,
	)
}

func (repo userRepository) UpdateOrCreateUser(usr user.User) (user.User, error) {
	r := toUserRow(usr)
	_, err := repo.db.NamedExec(`
		INSERT INTO users (id, name, email, role, meta, password_hash, created_at, last_login)
		VALUES (:id, :name, :email, :role, :meta, :password_hash, :created_at, :last_login)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			meta = EXCLUDED.meta,
			password_hash = EXCLUDED.password_hash,
			last_login = EXCLUDED.last_login`, r)
	if err != nil {
		return user.User{}, errors.Wrap(err, "upserting user")
	}
	return usr, nil
}
