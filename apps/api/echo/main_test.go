package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	. "github.com/coursehub/backend/apps/api/echo"
	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/analytics"
	"github.com/coursehub/backend/core/assignment"
	"github.com/coursehub/backend/core/course"
	"github.com/coursehub/backend/core/enrollment"
	"github.com/coursehub/backend/core/grading"
	"github.com/coursehub/backend/core/notification"
	"github.com/coursehub/backend/core/submission"
	"github.com/coursehub/backend/core/user"
	logsvc "github.com/coursehub/backend/services/logger"
	inmemdb "github.com/coursehub/backend/storage/database/inmem"
	"github.com/coursehub/backend/tests"
)

var secretKey = []byte("secret")

func setup(t *testing.T) (Server, testutil.Repos) {
	t.Helper()

	// set up DB & repos
	db := inmemdb.Open()
	repos := testutil.NewRepos(db)

	// set up services
	logger := logsvc.NewNopLogger()
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	notifier := notification.NewSyncNotifier(repos.Notifications, logger)
	enrollmentSvc := enrollment.NewService(repos.Enrollments, repos.Courses, notifier)

	// set up server
	app := NewServer(
		&Options{
			TestMode:       true,
			DisableReqLogs: true,
			SecretKey:      secretKey,
			AppName:        "CourseHub",
		},
		nil, /* shutdown */
		&Deps{
			Logger:          logger,
			Validate:        validate,
			Translator:      translator,
			DB:              db,
			UserSvc:         user.NewService(repos.Users),
			CourseSvc:       course.NewService(repos.Courses, notifier),
			EnrollmentSvc:   enrollmentSvc,
			AssignmentSvc:   assignment.NewService(repos.Assignments, repos.Courses, enrollmentSvc, notifier, logger),
			SubmissionSvc:   submission.NewService(repos.Submissions, repos.Assignments, repos.Courses, notifier),
			GradingSvc:      grading.NewService(repos.Submissions, notifier),
			AnalyticsSvc: analytics.NewService(analytics.Deps{
				Repo:        repos.Analytics,
				Courses:     repos.Courses,
				Enrollments: repos.Enrollments,
				Assignments: repos.Assignments,
				Submissions: repos.Submissions,
			}),
			NotificationSvc: notification.NewService(repos.Notifications),
		},
	)
	return app, repos
}

type httpErr struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type httpTest struct {
	name     string
	action   string
	data     interface{}
	token    string
	wantCode int
	wantData []byte
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

// call posts {action, data} to a function.
func call(t *testing.T, app Server, service, token, action string, data interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body := marchallObj(t, echo.Map{"action": action, "data": data})
	req, rec := newAuthRequest(http.MethodPost, "/functions/v1/"+service, token, body)
	app.ServeHTTP(rec, req)
	return rec
}

func runTests(t *testing.T, app Server, service string, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, app, service, tt.token, tt.action, tt.data)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func getToken(t *testing.T, usr user.User) string {
	token, err := user.IssueToken(usr, "CourseHub", secretKey, time.Hour)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

// success marshals a success envelope.
func success(t *testing.T, kv ...interface{}) []byte {
	res := echo.Map{"success": true}
	for i := 0; i+1 < len(kv); i += 2 {
		res[kv[i].(string)] = kv[i+1]
	}
	return marchallObj(t, res)
}

// decodeInto reads the key entry of a success envelope into v.
func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, key string, v interface{}) {
	t.Helper()
	var res map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decodeInto() failed: %v; body %s", err, rec.Body.String())
	}
	if err := json.Unmarshal(res[key], v); err != nil {
		t.Fatalf("decodeInto(%q) failed: %v; body %s", key, err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
