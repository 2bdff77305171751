package unsubscribe

import (
	"context"
	"errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/subscription"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnsubscribe(t *testing.T) {
	cases := []struct {
		id       string
		endpoint subscription.Endpoint
		repoErr  error
		err      error
		left     int
	}{
		{id: "existing", endpoint: "https://push/1", left: 0},
		{id: "missing", endpoint: "https://push/2", err: subscription.ErrSubscriptionDoesNotExist, left: 1},
		{id: "store error", endpoint: "https://push/1", repoErr: errors.New("boom"), left: 1},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			// Setup ---
			repository := subscription.NewFakeRepository(subscription.Subscription{
				Endpoint: "https://push/1",
				Settings: subscription.NewWebPushSettings("k", "a"),
			})
			repository.DeleteError = testcase.repoErr
			service := New(logging.NewFakeLogger(), repository)

			// Exercise ---
			_, err := service.Run(context.Background(), Input{Endpoint: testcase.endpoint})

			// Verify ---
			expectedErr := testcase.err
			if testcase.repoErr != nil {
				expectedErr = testcase.repoErr
			}
			if expectedErr == nil {
				require.Nil(t, err)
			} else {
				require.ErrorIs(t, err, expectedErr)
			}
			left, listErr := repository.List(context.Background())
			require.Nil(t, listErr)
			require.Len(t, left, testcase.left)
		})
	}
}
