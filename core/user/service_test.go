package user_test

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/user"
	"github.com/trezcool/kazi/storage/repos"
	"github.com/trezcool/kazi/storage/store/memstore"
	"github.com/trezcool/kazi/tests"
)

func setup() (user.Repository, user.Service) {
	repo := storerepos.NewUserRepository(memstore.Open())
	return repo, user.NewService(repo)
}

func TestService_Create(t *testing.T) {
	_, svc := setup()

	usr, err := svc.Create(user.NewUser{
		Name:     "Hero",
		Email:    "hero@test.cd",
		Role:     user.RoleStudent,
		Password: "s3cr3t",
		Meta:     user.Meta{Class: "CS-3A", Roll: "7"},
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if usr.ID == "" {
		t.Error("ID not assigned")
	}
	if err = usr.CheckPassword("s3cr3t"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
	if err = usr.CheckPassword("wrong"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}

	// email must be unique
	_, err = svc.Create(user.NewUser{
		Name:     "Impostor",
		Email:    "hero@test.cd",
		Role:     user.RoleStudent,
		Password: "s3cr3t",
	})
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Create() error = %v; want a validation error", err)
	}
}

func TestService_GetByEmail(t *testing.T) {
	repo, svc := setup()

	usr := testutil.CreateStudent(t, repo, "Hero", "hero@test.cd", "CS-3A")

	got, err := svc.GetByEmail("  Hero@Test.CD ")
	if err != nil {
		t.Fatalf("GetByEmail() failed: %v", err)
	}
	if got.ID != usr.ID {
		t.Errorf("GetByEmail() = %s; want %s", got.ID, usr.ID)
	}

	if _, err = svc.GetByEmail("nope@test.cd"); errors.Cause(err) != user.ErrNotFound {
		t.Errorf("GetByEmail() error = %v; want %v", err, user.ErrNotFound)
	}
}

func TestService_QueryStudentsByClass(t *testing.T) {
	repo, svc := setup()

	s1 := testutil.CreateStudent(t, repo, "Hero", "hero@test.cd", "CS-3A")
	s2 := testutil.CreateStudent(t, repo, "King", "king@test.cd", "CS-3A")
	testutil.CreateStudent(t, repo, "Other", "other@test.cd", "CS-3B")
	testutil.CreateAdmin(t, repo, "Prof", "prof@test.cd")

	students, err := svc.QueryStudentsByClass("CS-3A")
	if err != nil {
		t.Fatalf("QueryStudentsByClass() failed: %v", err)
	}
	if len(students) != 2 || students[0].ID != s1.ID || students[1].ID != s2.ID {
		t.Errorf("QueryStudentsByClass() = %v; want [%s %s]", students, s1.ID, s2.ID)
	}
}
