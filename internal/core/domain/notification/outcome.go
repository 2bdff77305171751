package notification

import (
	"errors"
	"fmt"
)

// ErrEndpointGone marks a delivery error after which the endpoint can never
// be delivered to again. Senders wrap it, e.g. via NewEndpointGoneError.
var ErrEndpointGone = errors.New("delivery endpoint is gone")

type Outcome int

const (
	Delivered Outcome = iota
	TerminalFailure
	TransientFailure
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case TerminalFailure:
		return "terminal"
	default:
		return "transient"
	}
}

func Classify(err error) Outcome {
	switch {
	case err == nil:
		return Delivered
	case errors.Is(err, ErrEndpointGone):
		return TerminalFailure
	default:
		return TransientFailure
	}
}

func NewEndpointGoneError(reason string) error {
	return fmt.Errorf("%w: %s", ErrEndpointGone, reason)
}
