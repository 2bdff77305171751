package idgenerator

import (
	"sliderapp/internal/core/domain/reminder"

	"github.com/google/uuid"
)

type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (g *UUID) NewReminderID() reminder.ID {
	return reminder.ID(uuid.NewString())
}
