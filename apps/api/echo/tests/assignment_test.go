package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/submission"
	"github.com/trezcool/kazi/tests"
)

func Test_assignmentApi_query(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateAdmin(t, ta.usrRepo, "Prof", "prof@test.cd")
	other := testutil.CreateAdmin(t, ta.usrRepo, "Other", "other@test.cd")
	student := testutil.CreateStudent(t, ta.usrRepo, "Hero", "hero@test.cd", "CS-3A")
	outsider := testutil.CreateStudent(t, ta.usrRepo, "King", "king@test.cd", "CS-3B")

	a1 := testutil.CreateAssignment(t, ta.asgRepo, "Graphs", "CS-3A", admin.ID)
	a2 := testutil.CreateAssignment(t, ta.asgRepo, "Trees", "CS-3A", admin.ID)
	b1 := testutil.CreateAssignment(t, ta.asgRepo, "Calculus", "CS-3B", other.ID)

	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "student sees own class", token: getToken(t, student), wantCode: http.StatusOK,
			wantData: marchallList(t, a1, a2),
		},
		{
			name: "student of another class", token: getToken(t, outsider), wantCode: http.StatusOK,
			wantData: marchallList(t, b1),
		},
		{
			name: "admin sees own assignments", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallList(t, a1, a2),
		},
		{
			name: "admin with none", token: getToken(t, testutil.CreateAdmin(t, ta.usrRepo, "New", "new@test.cd")),
			wantCode: http.StatusOK, wantData: empty,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/assignments", tt.token)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_assignmentApi_create(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateAdmin(t, ta.usrRepo, "Prof", "prof@test.cd")
	student := testutil.CreateStudent(t, ta.usrRepo, "Hero", "hero@test.cd", "CS-3A")

	due := time.Now().UTC().Add(7 * 24 * time.Hour).Format(time.RFC3339)
	body := []byte(fmt.Sprintf(
		`{"title":"Graphs","course":"CS-3A","dueDate":%q,"driveLink":"https://drive.example.com/graphs"}`, due,
	))

	tests := []httpTest{
		{name: "Auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", body: body, token: getToken(t, student), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "missing fields", body: []byte(`{"title":"Graphs"}`), token: getToken(t, admin), wantCode: http.StatusBadRequest},
		{
			name: "bad drive link", token: getToken(t, admin), wantCode: http.StatusBadRequest,
			body: []byte(fmt.Sprintf(`{"title":"Graphs","course":"CS-3A","dueDate":%q,"driveLink":"nope"}`, due)),
		},
		{name: "success", body: body, token: getToken(t, admin), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/assignments", tt.token, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var asg assignment.Assignment
				if err := json.Unmarshal(rec.Body.Bytes(), &asg); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if asg.CreatedBy != admin.ID {
					t.Errorf("CreatedBy = %s; want %s", asg.CreatedBy, admin.ID)
				}
				want := assignment.Visibility{Type: assignment.VisibilityClass, Value: "CS-3A"}
				if asg.Visibility != want {
					t.Errorf("Visibility = %+v; want %+v", asg.Visibility, want)
				}
			}
		})
	}
}

func Test_assignmentApi_update(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateAdmin(t, ta.usrRepo, "Prof", "prof@test.cd")
	other := testutil.CreateAdmin(t, ta.usrRepo, "Other", "other@test.cd")
	asg := testutil.CreateAssignment(t, ta.asgRepo, "Graphs", "CS-3A", admin.ID)

	body := []byte(`{"title":"Graphs II"}`)

	tests := []httpTest{
		{
			name: "unknown assignment", path: "/v1/assignments/nope", body: body, token: getToken(t, admin),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "assignment not found"}),
		},
		{
			name: "creator only", path: "/v1/assignments/" + asg.ID, body: body, token: getToken(t, other),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "success", path: "/v1/assignments/" + asg.ID, body: body, token: getToken(t, admin), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var got assignment.Assignment
				if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				// unspecified fields keep their current value
				if got.Title != "Graphs II" || got.Course != asg.Course || got.DriveLink != asg.DriveLink {
					t.Errorf("got %+v; want only the title changed", got)
				}
			}
		})
	}
}

func Test_assignmentApi_destroy(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateAdmin(t, ta.usrRepo, "Prof", "prof@test.cd")
	student := testutil.CreateStudent(t, ta.usrRepo, "Hero", "hero@test.cd", "CS-3A")
	asg := testutil.CreateAssignment(t, ta.asgRepo, "Graphs", "CS-3A", admin.ID)
	testutil.CreateSubmission(t, ta.subRepo, asg.ID, student.ID, submission.StatusSubmitted)

	req, rec := newAuthRequest(http.MethodDelete, "/v1/assignments/"+asg.ID, getToken(t, admin))
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %d; want %d", rec.Code, http.StatusNoContent)
	}

	if _, err := ta.asgRepo.GetAssignmentByID(asg.ID); err != assignment.ErrNotFound {
		t.Errorf("GetAssignmentByID() error = %v; want %v", err, assignment.ErrNotFound)
	}
	subs, err := ta.subRepo.FilterSubmissionsByAssignment(asg.ID)
	if err != nil {
		t.Fatalf("FilterSubmissionsByAssignment() failed: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("len(subs) = %d; want 0 after cascade", len(subs))
	}
}

func Test_assignmentApi_stats(t *testing.T) {
	ta := setup(t)

	admin := testutil.CreateAdmin(t, ta.usrRepo, "Prof", "prof@test.cd")
	s1 := testutil.CreateStudent(t, ta.usrRepo, "Hero", "hero@test.cd", "CS-3A")
	s2 := testutil.CreateStudent(t, ta.usrRepo, "King", "king@test.cd", "CS-3A")
	testutil.CreateStudent(t, ta.usrRepo, "Late", "late@test.cd", "CS-3A")
	outsider := testutil.CreateStudent(t, ta.usrRepo, "Out", "out@test.cd", "CS-3B")

	asg := testutil.CreateAssignment(t, ta.asgRepo, "Graphs", "CS-3A", admin.ID)
	testutil.CreateSubmission(t, ta.subRepo, asg.ID, s1.ID, submission.StatusConfirmed)
	testutil.CreateSubmission(t, ta.subRepo, asg.ID, s2.ID, submission.StatusSubmitted)
	// outsider submissions must not count
	testutil.CreateSubmission(t, ta.subRepo, asg.ID, outsider.ID, submission.StatusConfirmed)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, s1), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "stats", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallObj(t, submission.Stats{Confirmed: 1, Pending: 1, NotSubmitted: 1, Total: 3, Percentage: 33}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/assignments/"+asg.ID+"/stats", tt.token)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
