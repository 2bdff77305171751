package deletereminder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sliderapp/internal/core/domain/reminder"
	service "sliderapp/internal/core/services/delete_reminder"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.input = &input
	return result, s.err
}

func TestDeleteReminderHandler(t *testing.T) {
	cases := []struct {
		id             string
		err            error
		expectedStatus int
	}{
		{id: "deleted", expectedStatus: http.StatusNoContent},
		{id: "missing", err: reminder.ErrReminderDoesNotExist, expectedStatus: http.StatusNotFound},
		{id: "held by scheduler", err: reminder.ErrReminderLocked, expectedStatus: http.StatusConflict},
		{id: "unexpected", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			// Setup ---
			stub := &stubService{err: testcase.err}
			router := chi.NewRouter()
			router.Method(http.MethodDelete, "/reminders/{reminderID}", New(stub))
			rw := httptest.NewRecorder()

			// Exercise ---
			router.ServeHTTP(rw, httptest.NewRequest(http.MethodDelete, "/reminders/rem-7", nil))

			// Verify ---
			require.Equal(t, testcase.expectedStatus, rw.Code)
			require.Equal(t, &service.Input{ReminderID: "rem-7"}, stub.input)
		})
	}
}
