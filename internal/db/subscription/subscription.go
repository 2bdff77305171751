package subscription

import (
	"context"
	"errors"
	"fmt"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/subscription"
	"sliderapp/internal/db"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const COLUMNS = "endpoint, settings, created_at, updated_at"

type PgxSubscriptionRepository struct {
	db  db.DBTX
	log logging.Logger
}

func NewPgxSubscriptionRepository(dbtx db.DBTX, log logging.Logger) *PgxSubscriptionRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &PgxSubscriptionRepository{db: dbtx, log: log}
}

func (r *PgxSubscriptionRepository) Upsert(
	ctx context.Context,
	input subscription.UpsertInput,
) (s subscription.Subscription, err error) {
	settings, err := encodeSettings(input.Settings)
	if err != nil {
		return s, err
	}
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO subscription (`+COLUMNS+`)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (endpoint) DO UPDATE
		SET settings = EXCLUDED.settings, updated_at = EXCLUDED.updated_at
		RETURNING `+COLUMNS,
		string(input.Endpoint),
		settings,
		input.Now,
	)
	return decodeSubscription(row)
}

func (r *PgxSubscriptionRepository) GetByEndpoint(
	ctx context.Context,
	endpoint subscription.Endpoint,
) (s subscription.Subscription, err error) {
	row := r.db.QueryRow(ctx, "SELECT "+COLUMNS+" FROM subscription WHERE endpoint = $1", string(endpoint))
	return decodeSubscription(row)
}

func (r *PgxSubscriptionRepository) List(ctx context.Context) (subscriptions []subscription.Subscription, err error) {
	rows, err := r.db.Query(ctx, "SELECT "+COLUMNS+" FROM subscription ORDER BY created_at ASC, endpoint ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscriptions = make([]subscription.Subscription, 0)
	for rows.Next() {
		s, err := decodeSubscription(rows)
		if err != nil {
			var invalid *e.MalformedRecordError
			if !errors.As(err, &invalid) {
				return nil, err
			}
			r.log.Warning(
				ctx,
				"Malformed subscription record is ignored.",
				logging.Entry("endpoint", s.Endpoint),
				logging.Entry("err", err),
			)
			continue
		}
		subscriptions = append(subscriptions, s)
	}
	return subscriptions, rows.Err()
}

func (r *PgxSubscriptionRepository) Delete(ctx context.Context, endpoint subscription.Endpoint) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM subscription WHERE endpoint = $1", string(endpoint))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return subscription.ErrSubscriptionDoesNotExist
	}
	return nil
}

func encodeSettings(settings subscription.Settings) (encoded pgtype.JSONB, err error) {
	m, err := EncodeSettings(settings)
	if err != nil {
		return encoded, err
	}
	if err := encoded.Set(m); err != nil {
		return encoded, err
	}
	return encoded, nil
}

func decodeSettings(encoded pgtype.JSONB) (subscription.Settings, error) {
	m, ok := encoded.Get().(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("could not cast JSONB encoded value: %v", encoded)
	}
	return DecodeSettings(m)
}

func decodeSubscription(row pgx.Row) (s subscription.Subscription, err error) {
	var (
		endpoint  string
		settings  pgtype.JSONB
		createdAt time.Time
		updatedAt time.Time
	)
	err = row.Scan(&endpoint, &settings, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, subscription.ErrSubscriptionDoesNotExist
	}
	if err != nil {
		return s, err
	}
	s.Endpoint = subscription.Endpoint(endpoint)
	s.CreatedAt = createdAt.UTC()
	s.UpdatedAt = updatedAt.UTC()
	s.Settings, err = decodeSettings(settings)
	if err != nil {
		return s, e.NewMalformedRecordError(endpoint, err)
	}
	return s, nil
}
