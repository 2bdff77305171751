package reminder

import (
	"context"
	"sort"
	"sync"
)

type FakeRepository struct {
	CreateError  error
	LockError    error
	LockErrors   map[ID]error
	GetByIDError error
	ReadError    error
	UpdateError  error
	UpdateErrors map[ID]error
	DeleteError  error

	// OnLock is called with the locked ID before Lock returns.
	OnLock func(id ID)

	CreateWith []CreateInput
	ReadWith   []ReadOptions
	UpdateWith []UpdateInput
	LockedIDs  []ID
	DeletedIDs []ID

	reminders map[ID]Reminder
	writes    map[ID]int
	lock      sync.Mutex
}

func NewFakeRepository(reminders ...Reminder) *FakeRepository {
	r := &FakeRepository{
		UpdateErrors: make(map[ID]error),
		LockErrors:   make(map[ID]error),
		reminders:    make(map[ID]Reminder),
		writes:       make(map[ID]int),
	}
	for _, rem := range reminders {
		r.reminders[rem.ID] = rem
	}
	return r
}

// Writes returns the number of successful writes for the reminder.
func (r *FakeRepository) Writes(id ID) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.writes[id]
}

// Get returns the stored reminder bypassing configured errors.
func (r *FakeRepository) Get(id ID) (Reminder, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	rem, ok := r.reminders[id]
	return rem, ok
}

// Put stores the reminder bypassing write accounting.
func (r *FakeRepository) Put(rem Reminder) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.reminders[rem.ID] = rem
}

func (r *FakeRepository) Create(ctx context.Context, input CreateInput) (rem Reminder, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.CreateWith = append(r.CreateWith, input)
	if r.CreateError != nil {
		return rem, r.CreateError
	}
	rem = Reminder{
		ID:             input.ID,
		Message:        input.Message,
		ScheduledAt:    input.ScheduledAt,
		IsActive:       input.IsActive,
		Sent:           input.Sent,
		RepeatInterval: input.RepeatInterval,
		CreatedAt:      input.CreatedAt,
		UpdatedAt:      input.CreatedAt,
		Version:        1,
	}
	r.reminders[rem.ID] = rem
	r.writes[rem.ID]++
	return rem, nil
}

func (r *FakeRepository) Lock(ctx context.Context, id ID) error {
	r.lock.Lock()
	r.LockedIDs = append(r.LockedIDs, id)
	onLock := r.OnLock
	err := r.LockError
	if err == nil {
		err = r.LockErrors[id]
	}
	r.lock.Unlock()

	if err != nil {
		return err
	}
	if onLock != nil {
		onLock(id)
	}
	return nil
}

func (r *FakeRepository) GetByID(ctx context.Context, id ID) (rem Reminder, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.GetByIDError != nil {
		return rem, r.GetByIDError
	}
	rem, ok := r.reminders[id]
	if !ok {
		return rem, ErrReminderDoesNotExist
	}
	return rem, nil
}

func (r *FakeRepository) Read(ctx context.Context, options ReadOptions) ([]Reminder, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.ReadWith = append(r.ReadWith, options)
	if r.ReadError != nil {
		return nil, r.ReadError
	}
	reminders := make([]Reminder, 0, len(r.reminders))
	for _, rem := range r.reminders {
		reminders = append(reminders, rem)
	}
	sort.Slice(reminders, func(i, j int) bool {
		if reminders[i].ScheduledAt.Equal(reminders[j].ScheduledAt) {
			return reminders[i].ID < reminders[j].ID
		}
		return reminders[i].ScheduledAt.Before(reminders[j].ScheduledAt)
	})
	return reminders, nil
}

func (r *FakeRepository) Update(ctx context.Context, input UpdateInput) (rem Reminder, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.UpdateWith = append(r.UpdateWith, input)
	if r.UpdateError != nil {
		return rem, r.UpdateError
	}
	if err := r.UpdateErrors[input.ID]; err != nil {
		return rem, err
	}
	stored, ok := r.reminders[input.ID]
	if !ok {
		return rem, ErrReminderDoesNotExist
	}
	if stored.Version != input.ExpectedVersion {
		return rem, ErrReminderVersionConflict
	}
	rem = input.Apply(stored)
	r.reminders[rem.ID] = rem
	r.writes[rem.ID]++
	return rem, nil
}

func (r *FakeRepository) Delete(ctx context.Context, id ID) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.DeleteError != nil {
		return r.DeleteError
	}
	if _, ok := r.reminders[id]; !ok {
		return ErrReminderDoesNotExist
	}
	delete(r.reminders, id)
	r.DeletedIDs = append(r.DeletedIDs, id)
	r.writes[id]++
	return nil
}

type FakeIDGenerator struct {
	IDs  []ID
	next int
	lock sync.Mutex
}

func NewFakeIDGenerator(ids ...ID) *FakeIDGenerator {
	return &FakeIDGenerator{IDs: ids}
}

func (g *FakeIDGenerator) NewReminderID() ID {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.next >= len(g.IDs) {
		panic("fake ID generator is exhausted")
	}
	id := g.IDs[g.next]
	g.next++
	return id
}
