package storerepos

import (
	"testing"

	"github.com/trezcool/kazi/core/submission"
	"github.com/trezcool/kazi/core/user"
	"github.com/trezcool/kazi/storage/store"
	"github.com/trezcool/kazi/storage/store/memstore"
	"github.com/trezcool/kazi/tests"
)

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(memstore.Open())

	u1 := testutil.CreateStudent(t, repo, "Hero", "hero@test.cd", "CS-3A")
	u2 := testutil.CreateAdmin(t, repo, "Prof", "prof@test.cd")

	// insertion order is preserved
	all, err := repo.QueryAllUsers()
	if err != nil {
		t.Fatalf("QueryAllUsers() failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != u1.ID || all[1].ID != u2.ID {
		t.Errorf("QueryAllUsers() = %v; want [%s %s]", all, u1.ID, u2.ID)
	}

	got, err := repo.GetUserByEmail("hero@test.cd")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed: %v", err)
	}
	if got.ID != u1.ID {
		t.Errorf("GetUserByEmail() = %s; want %s", got.ID, u1.ID)
	}
	if _, err = repo.GetUserByID("nope"); err != user.ErrNotFound {
		t.Errorf("GetUserByID() error = %v; want %v", err, user.ErrNotFound)
	}

	// update in place keeps position
	u1.Name = "Hero II"
	if _, err = repo.UpdateOrCreateUser(u1); err != nil {
		t.Fatalf("UpdateOrCreateUser() failed: %v", err)
	}
	all, _ = repo.QueryAllUsers()
	if len(all) != 2 || all[0].Name != "Hero II" {
		t.Errorf("QueryAllUsers() = %v; want updated user first", all)
	}
}

func TestSubmissionRepository_pairLookup(t *testing.T) {
	st := memstore.Open()
	repo := NewSubmissionRepository(st)

	s1 := testutil.CreateSubmission(t, repo, "a1", "u1", submission.StatusSubmitted)
	testutil.CreateSubmission(t, repo, "a1", "u2", submission.StatusConfirmed)
	testutil.CreateSubmission(t, repo, "a2", "u1", submission.StatusNotSubmitted)

	got, err := repo.GetSubmission("a1", "u1")
	if err != nil {
		t.Fatalf("GetSubmission() failed: %v", err)
	}
	if got.ID != s1.ID {
		t.Errorf("GetSubmission() = %s; want %s", got.ID, s1.ID)
	}
	if _, err = repo.GetSubmission("a1", "u3"); err != submission.ErrNotFound {
		t.Errorf("GetSubmission() error = %v; want %v", err, submission.ErrNotFound)
	}

	byAsg, err := repo.FilterSubmissionsByAssignment("a1")
	if err != nil {
		t.Fatalf("FilterSubmissionsByAssignment() failed: %v", err)
	}
	if len(byAsg) != 2 {
		t.Errorf("len(byAsg) = %d; want 2", len(byAsg))
	}

	if err = repo.DeleteSubmissionsByAssignmentID("a1"); err != nil {
		t.Fatalf("DeleteSubmissionsByAssignmentID() failed: %v", err)
	}
	byAsg, _ = repo.FilterSubmissionsByAssignment("a1")
	if len(byAsg) != 0 {
		t.Errorf("len(byAsg) = %d; want 0", len(byAsg))
	}
	if _, err = repo.GetSubmission("a2", "u1"); err != nil {
		t.Errorf("GetSubmission() failed: %v", err)
	}
}

func TestRepository_corruptCollectionReadsEmpty(t *testing.T) {
	st := memstore.Open()
	if err := st.Put(store.Users, []byte("{not json")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	repo := NewUserRepository(st)

	all, err := repo.QueryAllUsers()
	if err != nil {
		t.Fatalf("QueryAllUsers() failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("QueryAllUsers() = %v; want empty", all)
	}

	// the first write repairs the collection
	testutil.CreateStudent(t, repo, "Hero", "hero@test.cd", "CS-3A")
	all, _ = repo.QueryAllUsers()
	if len(all) != 1 {
		t.Errorf("len(all) = %d; want 1", len(all))
	}
}
