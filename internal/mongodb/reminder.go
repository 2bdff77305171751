package mongodb

import (
	"context"
	"errors"
	"fmt"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/reminder"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reminderDocument struct {
	ID             string    `bson:"_id"`
	Message        string    `bson:"message"`
	ScheduledAt    time.Time `bson:"scheduled_at"`
	IsActive       bool      `bson:"is_active"`
	Sent           bool      `bson:"sent"`
	RepeatInterval int       `bson:"repeat_interval"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
	Version        int64     `bson:"version"`
}

func (d reminderDocument) decode() (rem reminder.Reminder, err error) {
	rem = reminder.Reminder{
		ID:             reminder.ID(d.ID),
		Message:        d.Message,
		ScheduledAt:    d.ScheduledAt.UTC(),
		IsActive:       d.IsActive,
		Sent:           d.Sent,
		RepeatInterval: reminder.Interval(d.RepeatInterval),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
		Version:        d.Version,
	}
	return rem, rem.Validate()
}

var sorting = map[reminder.OrderBy]bson.D{
	reminder.OrderByScheduledAtAsc: {{Key: "scheduled_at", Value: 1}, {Key: "_id", Value: 1}},
}

// REMINDER_CLAIM_TTL bounds how long a claim outlives a unit of work that
// never released it.
const REMINDER_CLAIM_TTL = 10 * time.Minute

type ReminderRepository struct {
	collection *mongo.Collection
	log        logging.Logger
	claimTTL   time.Duration
}

func NewReminderRepository(collection *mongo.Collection, log logging.Logger) *ReminderRepository {
	if collection == nil {
		panic(e.NewNilArgumentError("collection"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &ReminderRepository{collection: collection, log: log, claimTTL: REMINDER_CLAIM_TTL}
}

func (r *ReminderRepository) Create(ctx context.Context, input reminder.CreateInput) (reminder.Reminder, error) {
	doc := reminderDocument{
		ID:             string(input.ID),
		Message:        input.Message,
		ScheduledAt:    input.ScheduledAt,
		IsActive:       input.IsActive,
		Sent:           input.Sent,
		RepeatInterval: int(input.RepeatInterval),
		CreatedAt:      input.CreatedAt,
		UpdatedAt:      input.CreatedAt,
		Version:        1,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return reminder.Reminder{}, fmt.Errorf("failed to create reminder: %w", err)
	}
	return doc.decode()
}

// Lock is only meaningful inside a unit of work, which owns the claim.
func (r *ReminderRepository) Lock(ctx context.Context, id reminder.ID) error {
	return e.NewInvalidStateError("reminder lock requires a unit of work")
}

// claim marks the reminder as held by token. A claim held by another token
// is respected until it expires, expiry is measured on the server clock.
func (r *ReminderRepository) claim(ctx context.Context, id reminder.ID, token string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{
			"_id": string(id),
			"$or": bson.A{
				bson.M{"claim_token": token},
				bson.M{"$expr": bson.M{"$lt": bson.A{"$claim_expires_at", "$$NOW"}}},
			},
		},
		mongo.Pipeline{{{Key: "$set", Value: bson.D{
			{Key: "claim_token", Value: token},
			{Key: "claim_expires_at", Value: bson.M{"$add": bson.A{"$$NOW", r.claimTTL.Milliseconds()}}},
		}}}},
	)
	if err != nil {
		return fmt.Errorf("failed to lock reminder: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return fmt.Errorf("failed to check reminder: %w", err)
	}
	if count > 0 {
		return reminder.ErrReminderLocked
	}
	return reminder.ErrReminderDoesNotExist
}

func (r *ReminderRepository) release(ctx context.Context, token string) error {
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"claim_token": token},
		bson.M{"$unset": bson.M{"claim_token": "", "claim_expires_at": ""}},
	)
	if err != nil {
		return fmt.Errorf("failed to unlock reminders: %w", err)
	}
	return nil
}

// claimingReminderRepository is the reminder repository of one unit of work.
type claimingReminderRepository struct {
	*ReminderRepository
	token string
}

func (r *claimingReminderRepository) Lock(ctx context.Context, id reminder.ID) error {
	return r.claim(ctx, id, r.token)
}

func (r *ReminderRepository) GetByID(ctx context.Context, id reminder.ID) (rem reminder.Reminder, err error) {
	var doc reminderDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rem, reminder.ErrReminderDoesNotExist
	}
	if err != nil {
		return rem, fmt.Errorf("failed to get reminder: %w", err)
	}
	rem, err = doc.decode()
	if err != nil {
		r.log.Warning(
			ctx,
			"Malformed reminder record is ignored.",
			logging.Entry("reminderID", id),
			logging.Entry("err", err),
		)
		return reminder.Reminder{}, reminder.ErrReminderDoesNotExist
	}
	return rem, nil
}

func (r *ReminderRepository) Read(ctx context.Context, readOptions reminder.ReadOptions) ([]reminder.Reminder, error) {
	sort, ok := sorting[readOptions.OrderBy]
	if !ok {
		return nil, e.NewInvalidStateError(fmt.Sprintf("unknown reminder ordering %d", readOptions.OrderBy))
	}
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer cursor.Close(ctx)

	reminders := make([]reminder.Reminder, 0)
	for cursor.Next(ctx) {
		var doc reminderDocument
		err := cursor.Decode(&doc)
		if err == nil {
			var rem reminder.Reminder
			if rem, err = doc.decode(); err == nil {
				reminders = append(reminders, rem)
				continue
			}
		}
		r.log.Warning(
			ctx,
			"Malformed reminder record is ignored.",
			logging.Entry("reminderID", cursor.Current.Lookup("_id").String()),
			logging.Entry("err", err),
		)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return reminders, nil
}

func (r *ReminderRepository) Update(ctx context.Context, input reminder.UpdateInput) (rem reminder.Reminder, err error) {
	set := bson.M{"updated_at": input.UpdatedAt}
	if input.DoScheduledAtUpdate {
		set["scheduled_at"] = input.ScheduledAt
	}
	if input.DoIsActiveUpdate {
		set["is_active"] = input.IsActive
	}
	if input.DoSentUpdate {
		set["sent"] = input.Sent
	}

	var doc reminderDocument
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": string(input.ID), "version": input.ExpectedVersion},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.decode()
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return rem, fmt.Errorf("failed to update reminder: %w", err)
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": string(input.ID)})
	if err != nil {
		return rem, fmt.Errorf("failed to check reminder: %w", err)
	}
	if count > 0 {
		return rem, reminder.ErrReminderVersionConflict
	}
	return rem, reminder.ErrReminderDoesNotExist
}

func (r *ReminderRepository) Delete(ctx context.Context, id reminder.ID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if result.DeletedCount == 0 {
		return reminder.ErrReminderDoesNotExist
	}
	return nil
}
