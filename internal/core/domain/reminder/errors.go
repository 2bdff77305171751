package reminder

import "errors"

var (
	ErrReminderDoesNotExist    = errors.New("reminder does not exist")
	ErrReminderVersionConflict = errors.New("reminder has been modified concurrently")
	ErrReminderLocked          = errors.New("reminder is held by a concurrent operation")
	ErrReminderMessageEmpty    = errors.New("reminder message must not be empty")
	ErrReminderMessageTooLong  = errors.New("reminder message is too long")
	ErrReminderIntervalInvalid = errors.New("reminder repeat interval is out of range")
	ErrReminderTimeIsNotUTC    = errors.New("reminder time must be in UTC")
)
