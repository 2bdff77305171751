package reminder

import (
	"context"
	"time"
)

type CreateInput struct {
	ID             ID
	Message        string
	ScheduledAt    time.Time
	IsActive       bool
	Sent           bool
	RepeatInterval Interval
	CreatedAt      time.Time
}

type ReadOptions struct {
	OrderBy OrderBy
}

// UpdateInput describes a partial update. The update is applied only if the
// stored version equals ExpectedVersion, the stored version is incremented.
type UpdateInput struct {
	ID                  ID
	ExpectedVersion     int64
	UpdatedAt           time.Time
	DoScheduledAtUpdate bool
	ScheduledAt         time.Time
	DoIsActiveUpdate    bool
	IsActive            bool
	DoSentUpdate        bool
	Sent                bool
}

// Apply returns a copy of r with the update applied.
func (u UpdateInput) Apply(r Reminder) Reminder {
	if u.DoScheduledAtUpdate {
		r.ScheduledAt = u.ScheduledAt
	}
	if u.DoIsActiveUpdate {
		r.IsActive = u.IsActive
	}
	if u.DoSentUpdate {
		r.Sent = u.Sent
	}
	r.UpdatedAt = u.UpdatedAt
	r.Version = u.ExpectedVersion + 1
	return r
}

type Repository interface {
	Create(ctx context.Context, input CreateInput) (Reminder, error)
	// Lock holds the reminder until the surrounding unit of work ends.
	Lock(ctx context.Context, id ID) error
	GetByID(ctx context.Context, id ID) (Reminder, error)
	Read(ctx context.Context, options ReadOptions) ([]Reminder, error)
	Update(ctx context.Context, input UpdateInput) (Reminder, error)
	Delete(ctx context.Context, id ID) error
}
