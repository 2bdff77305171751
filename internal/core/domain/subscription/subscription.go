package subscription

import (
	e "sliderapp/internal/core/domain/errors"
	"time"
)

// Endpoint identifies a delivery target and is the unique key of a subscription.
type Endpoint string

type Subscription struct {
	Endpoint  Endpoint
	Settings  Settings
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Subscription) Type() Type {
	return TypeOf(s.Settings)
}

func (s *Subscription) Validate() error {
	if s.Endpoint == "" {
		return e.NewInvalidStateError("subscription endpoint must not be empty")
	}
	if s.Settings == nil {
		return e.NewInvalidStateError("subscription settings must be set")
	}
	return s.Settings.Validate()
}

func Endpoints(subscriptions []Subscription) []Endpoint {
	endpoints := make([]Endpoint, 0, len(subscriptions))
	for _, s := range subscriptions {
		endpoints = append(endpoints, s.Endpoint)
	}
	return endpoints
}
