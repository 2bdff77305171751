package mongodb

import (
	"context"
	"errors"
	"fmt"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/subscription"
	dbsubscription "sliderapp/internal/db/subscription"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type subscriptionDocument struct {
	Endpoint  string                 `bson:"_id"`
	Settings  map[string]interface{} `bson:"settings"`
	CreatedAt time.Time              `bson:"created_at"`
	UpdatedAt time.Time              `bson:"updated_at"`
}

func (d subscriptionDocument) decode() (s subscription.Subscription, err error) {
	settings, err := dbsubscription.DecodeSettings(d.Settings)
	if err != nil {
		return s, err
	}
	return subscription.Subscription{
		Endpoint:  subscription.Endpoint(d.Endpoint),
		Settings:  settings,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

type SubscriptionRepository struct {
	collection *mongo.Collection
	log        logging.Logger
}

func NewSubscriptionRepository(collection *mongo.Collection, log logging.Logger) *SubscriptionRepository {
	if collection == nil {
		panic(e.NewNilArgumentError("collection"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &SubscriptionRepository{collection: collection, log: log}
}

func (r *SubscriptionRepository) Upsert(
	ctx context.Context,
	input subscription.UpsertInput,
) (s subscription.Subscription, err error) {
	settings, err := dbsubscription.EncodeSettings(input.Settings)
	if err != nil {
		return s, err
	}

	var doc subscriptionDocument
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": string(input.Endpoint)},
		bson.M{
			"$set":         bson.M{"settings": settings, "updated_at": input.Now},
			"$setOnInsert": bson.M{"created_at": input.Now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return s, fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return doc.decode()
}

func (r *SubscriptionRepository) GetByEndpoint(
	ctx context.Context,
	endpoint subscription.Endpoint,
) (s subscription.Subscription, err error) {
	var doc subscriptionDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": string(endpoint)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return s, subscription.ErrSubscriptionDoesNotExist
	}
	if err != nil {
		return s, fmt.Errorf("failed to get subscription: %w", err)
	}
	return doc.decode()
}

func (r *SubscriptionRepository) List(ctx context.Context) ([]subscription.Subscription, error) {
	cursor, err := r.collection.Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	subscriptions := make([]subscription.Subscription, 0)
	for cursor.Next(ctx) {
		var doc subscriptionDocument
		err := cursor.Decode(&doc)
		if err == nil {
			var s subscription.Subscription
			if s, err = doc.decode(); err == nil {
				subscriptions = append(subscriptions, s)
				continue
			}
		}
		r.log.Warning(
			ctx,
			"Malformed subscription record is ignored.",
			logging.Entry("endpoint", cursor.Current.Lookup("_id").String()),
			logging.Entry("err", err),
		)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return subscriptions, nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, endpoint subscription.Endpoint) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": string(endpoint)})
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if result.DeletedCount == 0 {
		return subscription.ErrSubscriptionDoesNotExist
	}
	return nil
}
