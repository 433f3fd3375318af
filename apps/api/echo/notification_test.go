package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/notification"
	"github.com/coursehub/backend/tests"
)

func Test_notificationFunctions(t *testing.T) {
	app, repos := setup(t)

	ada := testutil.CreateUser(t, repos.Users, "Ada", "ada@test.cd", core.RoleStudent)
	adaToken := getToken(t, ada)

	var sent []notification.Notification
	for _, msg := range []string{"first", "second"} {
		rec := call(t, app, "notification-service", "", "send_notification", map[string]string{
			"user_id": ada.ID,
			"type":    "system",
			"title":   "Hello",
			"message": msg,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var n notification.Notification
		decodeInto(t, rec, "notification", &n)
		assert.False(t, n.Read)
		sent = append(sent, n)
	}

	runTests(t, app, "notification-service", []httpTest{
		{
			name: "send needs a message", action: "send_notification",
			data:     map[string]string{"user_id": ada.ID, "type": "system", "title": "Hello"},
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid data", Fields: map[string]string{"message": "this field is required"}}),
		},
		{
			name: "get_notifications needs a user", action: "get_notifications",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid data", Fields: map[string]string{"user_id": "this field is required"}}),
		},
	})

	rec := call(t, app, "notification-service", adaToken, "get_notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var listed []notification.Notification
	decodeInto(t, rec, "notifications", &listed)
	require.Len(t, listed, 2)

	rec = call(t, app, "notification-service", adaToken, "mark_as_read", map[string]string{"notification_id": sent[0].ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var read notification.Notification
	decodeInto(t, rec, "notification", &read)
	assert.True(t, read.Read)

	rec = call(t, app, "notification-service", adaToken, "get_notifications", map[string]interface{}{"unread_only": true})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, "notifications", &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, sent[1].ID, listed[0].ID)

	runTests(t, app, "notification-service", []httpTest{
		{
			name: "mark_all_as_read", action: "mark_all_as_read", token: adaToken,
			wantCode: http.StatusOK, wantData: success(t, "count", 1),
		},
		{
			name: "delete_notification", action: "delete_notification", data: map[string]string{"notification_id": sent[0].ID},
			wantCode: http.StatusOK, wantData: success(t),
		},
		{
			name: "delete_notification again", action: "delete_notification", data: map[string]string{"notification_id": sent[0].ID},
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "notification not found"}),
		},
	})
}
