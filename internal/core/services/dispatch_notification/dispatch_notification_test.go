package dispatchnotification

import (
	"context"
	"errors"
	"fmt"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/notification"
	"sliderapp/internal/core/domain/subscription"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func newSubscription(endpoint string) subscription.Subscription {
	return subscription.Subscription{
		Endpoint: subscription.Endpoint(endpoint),
		Settings: subscription.NewWebPushSettings("key", "auth"),
	}
}

type testSuite struct {
	suite.Suite
	sender        *notification.FakeSender
	subscriptions *subscription.FakeRepository
}

func (s *testSuite) SetupTest() {
	s.sender = notification.NewFakeSender()
	s.subscriptions = subscription.NewFakeRepository(
		newSubscription("https://push/1"),
		newSubscription("https://push/2"),
		newSubscription("https://push/3"),
	)
}

func (s *testSuite) newService(timeout time.Duration) *service {
	return New(logging.NewFakeLogger(), s.sender, s.subscriptions, 2, timeout).(*service)
}

func (s *testSuite) listSubscriptions() []subscription.Subscription {
	subscriptions, err := s.subscriptions.List(context.Background())
	s.Require().Nil(err)
	return subscriptions
}

func TestDispatchNotificationService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestAllDelivered() {
	// Setup ---
	service := s.newService(time.Second)
	payload := notification.Payload{Title: "T", Body: "B", ReminderID: "r1"}

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Payload: payload, Subscriptions: s.listSubscriptions()})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(Result{Total: 3, Delivered: 3, Pruned: []subscription.Endpoint{}}, result)
	assert.ElementsMatch(
		[]subscription.Endpoint{"https://push/1", "https://push/2", "https://push/3"},
		s.sender.SentTo(),
	)
	for _, record := range s.sender.Sent {
		assert.Equal(payload, record.Payload)
	}
}

func (s *testSuite) TestTerminalFailureIsPruned() {
	// Setup ---
	s.sender.Errors["https://push/2"] = notification.NewEndpointGoneError("410 Gone")
	service := s.newService(time.Second)

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Subscriptions: s.listSubscriptions()})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(3, result.Total)
	assert.Equal(2, result.Delivered)
	assert.Equal(0, result.Failed)
	assert.Equal([]subscription.Endpoint{"https://push/2"}, result.Pruned)
	assert.Equal(
		[]subscription.Endpoint{"https://push/1", "https://push/3"},
		subscription.Endpoints(s.listSubscriptions()),
	)
}

func (s *testSuite) TestTransientFailureKeepsSubscription() {
	// Setup ---
	s.sender.Errors["https://push/1"] = errors.New("connection reset")
	s.sender.Errors["https://push/3"] = fmt.Errorf("got status 429")
	service := s.newService(time.Second)

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Subscriptions: s.listSubscriptions()})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(1, result.Delivered)
	assert.Equal(2, result.Failed)
	assert.Empty(result.Pruned)
	assert.Len(s.listSubscriptions(), 3)
	assert.Empty(s.subscriptions.DeleteWith)
}

func (s *testSuite) TestAllFailed() {
	// Setup ---
	for _, endpoint := range []subscription.Endpoint{"https://push/1", "https://push/2", "https://push/3"} {
		s.sender.Errors[endpoint] = errors.New("unavailable")
	}
	service := s.newService(time.Second)

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Subscriptions: s.listSubscriptions()})

	// Verify ---
	s.Nil(err)
	s.Equal(3, result.Failed)
	s.Equal(0, result.Delivered)
}

func (s *testSuite) TestNoSubscriptions() {
	// Exercise ---
	result, err := s.newService(time.Second).Run(context.Background(), Input{})

	// Verify ---
	s.Nil(err)
	s.Equal(0, result.Total)
	s.Empty(s.sender.Sent)
}

func (s *testSuite) TestPruneErrorCountsAsFailure() {
	// Setup ---
	s.sender.Errors["https://push/1"] = notification.ErrEndpointGone
	s.subscriptions.DeleteErrors["https://push/1"] = errors.New("db is down")
	service := s.newService(time.Second)

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Subscriptions: s.listSubscriptions()})

	// Verify ---
	s.Nil(err)
	s.Equal(2, result.Delivered)
	s.Equal(1, result.Failed)
	s.Empty(result.Pruned)
}

func (s *testSuite) TestAlreadyDeletedSubscriptionCountsAsPruned() {
	// Setup ---
	gone := newSubscription("https://push/unknown")
	s.sender.Errors[gone.Endpoint] = notification.ErrEndpointGone
	service := s.newService(time.Second)

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Subscriptions: []subscription.Subscription{gone}})

	// Verify ---
	s.Nil(err)
	s.Equal([]subscription.Endpoint{gone.Endpoint}, result.Pruned)
}

func (s *testSuite) TestHungEndpointTimesOut() {
	// Setup ---
	s.sender.Delays["https://push/2"] = time.Hour
	service := s.newService(50 * time.Millisecond)

	// Exercise ---
	started := time.Now()
	result, err := service.Run(context.Background(), Input{Subscriptions: s.listSubscriptions()})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Less(time.Since(started), 5*time.Second)
	assert.Equal(2, result.Delivered)
	assert.Equal(1, result.Failed)
	assert.Len(s.listSubscriptions(), 3)
}

type concurrencyTrackingSender struct {
	inFlight    int32
	maxInFlight int32
	lock        sync.Mutex
}

func (c *concurrencyTrackingSender) Send(
	ctx context.Context,
	sub subscription.Subscription,
	payload notification.Payload,
) error {
	current := atomic.AddInt32(&c.inFlight, 1)
	c.lock.Lock()
	if current > c.maxInFlight {
		c.maxInFlight = current
	}
	c.lock.Unlock()
	time.Sleep(10 * time.Millisecond)
	atomic.AddInt32(&c.inFlight, -1)
	return nil
}

func (s *testSuite) TestFanOutIsBounded() {
	// Setup ---
	sender := &concurrencyTrackingSender{}
	service := New(logging.NewFakeLogger(), sender, s.subscriptions, 3, time.Second)
	subscriptions := make([]subscription.Subscription, 0, 20)
	for ix := 0; ix < 20; ix++ {
		subscriptions = append(subscriptions, newSubscription(fmt.Sprintf("https://push/n%d", ix)))
	}

	// Exercise ---
	result, err := service.Run(context.Background(), Input{Subscriptions: subscriptions})

	// Verify ---
	s.Nil(err)
	s.Equal(20, result.Delivered)
	s.LessOrEqual(sender.maxInFlight, int32(3))
	s.GreaterOrEqual(sender.maxInFlight, int32(1))
}

func TestNewPanicsOnNilArguments(t *testing.T) {
	log := logging.NewFakeLogger()
	sender := notification.NewFakeSender()
	repo := subscription.NewFakeRepository()

	require.Panics(t, func() { New(nil, sender, repo, 1, time.Second) })
	require.Panics(t, func() { New(log, nil, repo, 1, time.Second) })
	require.Panics(t, func() { New(log, sender, nil, 1, time.Second) })
	require.NotPanics(t, func() { New(log, sender, repo, 0, 0) })
}
