package main

import (
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, email, pwd string, isAdmin bool, class, roll string) error {
	var usr user.User
	var err error
	email = core.CleanString(email, true /* lower */)

	if usr, err = cli.usrRepo.GetUserByEmail(email); err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			ID:        uuid.New().String(),
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	}
	usr.Name = core.CleanString(name)
	if isAdmin {
		usr.Role = user.RoleAdmin
	} else {
		usr.Role = user.RoleStudent
		usr.Meta.Class = class
		usr.Meta.Roll = roll
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(usr); err != nil {
		return err
	}
	return nil
}
