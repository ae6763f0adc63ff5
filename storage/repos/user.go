// Package storerepos implements the domain repositories over a store.Store.
// Every read decodes the whole collection document and every write encodes
// it back, preserving insertion order. A corrupt or absent document degrades
// to an empty collection; only write failures propagate.
package storerepos

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/user"
	"github.com/trezcool/kazi/storage/store"
)

type userRepository struct {
	st store.Store
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(st store.Store) *userRepository {
	return &userRepository{st: st}
}

func (repo userRepository) query() []user.User {
	raw, err := repo.st.Get(store.Users)
	if err != nil || len(raw) == 0 {
		return []user.User{}
	}
	var users []user.User
	if err = json.Unmarshal(raw, &users); err != nil {
		return []user.User{}
	}
	return users
}

func (repo userRepository) save(users []user.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return errors.Wrap(err, "encoding users")
	}
	return repo.st.Put(store.Users, raw)
}

func (repo userRepository) QueryAllUsers() ([]user.User, error) {
	return repo.query(), nil
}

func (repo userRepository) GetUserByID(id string) (user.User, error) {
	for _, usr := range repo.query() {
		if usr.ID == id {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo userRepository) GetUserByEmail(email string) (user.User, error) {
	for _, usr := range repo.query() {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo userRepository) FilterUsersByRole(role string) ([]user.User, error) {
	users := make([]user.User, 0)
	for _, usr := range repo.query() {
		if usr.Role == role {
			users = append(users, usr)
		}
	}
	return users, nil
}

func (repo userRepository) FilterStudentsByClass(class string) ([]user.User, error) {
	users := make([]user.User, 0)
	for _, usr := range repo.query() {
		if usr.Role == user.RoleStudent && usr.Meta.Class == class {
			users = append(users, usr)
		}
	}
	return users, nil
}

func (repo userRepository) UpdateOrCreateUser(usr user.User) (user.User, error) {
	users := repo.query()
	replaced := false
	for i := range users {
		if users[i].ID == usr.ID {
			users[i] = usr
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, usr)
	}
	return usr, repo.save(users)
}
