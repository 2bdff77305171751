package common

import (
	"fmt"
	"strings"
)

type Optional[T any] struct {
	Value     T
	IsPresent bool
}

func (p *Optional[T]) String() string {
	if !p.IsPresent {
		return "[-]"
	}
	return fmt.Sprintf("[%v]", p.Value)
}

func NewOptional[T any](value T, isPresent bool) Optional[T] {
	return Optional[T]{Value: value, IsPresent: isPresent}
}

// Some is a shortcut for NewOptional(value, true).
func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, IsPresent: true}
}

// ValueOr returns the wrapped value or the fallback when the value is absent.
func (p Optional[T]) ValueOr(fallback T) T {
	if p.IsPresent {
		return p.Value
	}
	return fallback
}

type Email string

func NewEmail(rawEmail string) Email {
	return Email(strings.ToLower(strings.TrimSpace(rawEmail)))
}
