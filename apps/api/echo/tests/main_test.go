package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/kazi/apps/api/echo"
	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/submission"
	"github.com/trezcool/kazi/core/user"
	"github.com/trezcool/kazi/services/email"
	"github.com/trezcool/kazi/services/logger"
	"github.com/trezcool/kazi/storage/repos"
	"github.com/trezcool/kazi/storage/store/memstore"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	app Server

	usrRepo user.Repository
	asgRepo assignment.Repository
	subRepo submission.Repository
}

// setup builds a fresh in-memory application for each test.
func setup(t *testing.T) *testApp {
	t.Helper()

	st := memstore.Open()
	ta := &testApp{
		usrRepo: storerepos.NewUserRepository(st),
		asgRepo: storerepos.NewAssignmentRepository(st),
		subRepo: storerepos.NewSubmissionRepository(st),
	}

	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewService(ta.usrRepo)
	subSvc := submission.NewService(ta.subRepo, ta.asgRepo, ta.usrRepo, mailSvc)
	asgSvc := assignment.NewService(ta.asgRepo, ta.subRepo)

	ta.app = NewServer(&Options{
		DisableReqLogs: true,
		Logger:         logsvc.NewStdLogger(log.New(io.Discard, "", 0)),
		UserSvc:        usrSvc,
		AssignmentSvc:  asgSvc,
		SubmissionSvc:  subSvc,
	})
	return ta
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
