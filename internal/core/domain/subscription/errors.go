package subscription

import "errors"

var (
	ErrSubscriptionDoesNotExist    = errors.New("subscription does not exist")
	ErrSubscriptionInvalidSettings = errors.New("subscription settings are not valid")
	ErrNoSubscriptions             = errors.New("there are no subscriptions")
)
