package reminder

import (
	"context"
	"errors"
	"fmt"
	e "sliderapp/internal/core/domain/errors"
	"sliderapp/internal/core/domain/logging"
	"sliderapp/internal/core/domain/reminder"
	"sliderapp/internal/db"
	"time"

	"github.com/jackc/pgx/v4"
)

const COLUMNS = "id, message, scheduled_at, is_active, sent, repeat_interval, created_at, updated_at, version"

var orderClauses = map[reminder.OrderBy]string{
	reminder.OrderByScheduledAtAsc: "scheduled_at ASC, id ASC",
}

type PgxReminderRepository struct {
	db  db.DBTX
	log logging.Logger
}

func NewPgxReminderRepository(dbtx db.DBTX, log logging.Logger) *PgxReminderRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &PgxReminderRepository{db: dbtx, log: log}
}

func (r *PgxReminderRepository) Create(
	ctx context.Context,
	input reminder.CreateInput,
) (rem reminder.Reminder, err error) {
	if !input.RepeatInterval.IsValid() {
		return rem, reminder.ErrReminderIntervalInvalid
	}
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO reminder (`+COLUMNS+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, 1)
		RETURNING `+COLUMNS,
		string(input.ID),
		input.Message,
		input.ScheduledAt,
		input.IsActive,
		input.Sent,
		int32(input.RepeatInterval),
		input.CreatedAt,
	)
	return decodeReminder(row)
}

func (r *PgxReminderRepository) Lock(ctx context.Context, id reminder.ID) error {
	var locked string
	err := r.db.QueryRow(ctx, "SELECT id FROM reminder WHERE id = $1 FOR UPDATE", string(id)).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

func (r *PgxReminderRepository) GetByID(ctx context.Context, id reminder.ID) (rem reminder.Reminder, err error) {
	row := r.db.QueryRow(ctx, "SELECT "+COLUMNS+" FROM reminder WHERE id = $1", string(id))
	rem, err = decodeReminder(row)
	if err == nil || errors.Is(err, reminder.ErrReminderDoesNotExist) {
		return rem, err
	}
	var invalid *e.MalformedRecordError
	if errors.As(err, &invalid) {
		r.log.Warning(
			ctx,
			"Malformed reminder record is ignored.",
			logging.Entry("reminderID", id),
			logging.Entry("err", err),
		)
		return rem, reminder.ErrReminderDoesNotExist
	}
	return rem, err
}

func (r *PgxReminderRepository) Read(
	ctx context.Context,
	options reminder.ReadOptions,
) (reminders []reminder.Reminder, err error) {
	order, ok := orderClauses[options.OrderBy]
	if !ok {
		return nil, e.NewInvalidStateError(fmt.Sprintf("unknown reminder ordering %d", options.OrderBy))
	}
	rows, err := r.db.Query(
		ctx,
		`SELECT `+COLUMNS+` FROM reminder ORDER BY `+order,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders = make([]reminder.Reminder, 0)
	for rows.Next() {
		rem, err := decodeReminder(rows)
		if err != nil {
			var invalid *e.MalformedRecordError
			if !errors.As(err, &invalid) {
				return nil, err
			}
			r.log.Warning(
				ctx,
				"Malformed reminder record is ignored.",
				logging.Entry("reminderID", rem.ID),
				logging.Entry("err", err),
			)
			continue
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func (r *PgxReminderRepository) Update(
	ctx context.Context,
	input reminder.UpdateInput,
) (rem reminder.Reminder, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE reminder SET
			scheduled_at = CASE WHEN $3::boolean THEN $4::timestamptz ELSE scheduled_at END,
			is_active = CASE WHEN $5::boolean THEN $6::boolean ELSE is_active END,
			sent = CASE WHEN $7::boolean THEN $8::boolean ELSE sent END,
			updated_at = $9,
			version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING `+COLUMNS,
		string(input.ID),
		input.ExpectedVersion,
		input.DoScheduledAtUpdate,
		input.ScheduledAt,
		input.DoIsActiveUpdate,
		input.IsActive,
		input.DoSentUpdate,
		input.Sent,
		input.UpdatedAt,
	)
	rem, err = decodeReminder(row)
	if !errors.Is(err, reminder.ErrReminderDoesNotExist) {
		return rem, err
	}

	var exists bool
	err = r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM reminder WHERE id = $1)", string(input.ID)).Scan(&exists)
	if err != nil {
		return rem, err
	}
	if exists {
		return rem, reminder.ErrReminderVersionConflict
	}
	return rem, reminder.ErrReminderDoesNotExist
}

func (r *PgxReminderRepository) Delete(ctx context.Context, id reminder.ID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM reminder WHERE id = $1", string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return reminder.ErrReminderDoesNotExist
	}
	return nil
}

func decodeReminder(row pgx.Row) (rem reminder.Reminder, err error) {
	var (
		id          string
		interval    int32
		scheduledAt time.Time
		createdAt   time.Time
		updatedAt   time.Time
	)
	err = row.Scan(
		&id,
		&rem.Message,
		&scheduledAt,
		&rem.IsActive,
		&rem.Sent,
		&interval,
		&createdAt,
		&updatedAt,
		&rem.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return rem, reminder.ErrReminderDoesNotExist
	}
	if err != nil {
		return rem, err
	}
	rem.ID = reminder.ID(id)
	rem.RepeatInterval = reminder.Interval(interval)
	rem.ScheduledAt = scheduledAt.UTC()
	rem.CreatedAt = createdAt.UTC()
	rem.UpdatedAt = updatedAt.UTC()
	if err := rem.Validate(); err != nil {
		return rem, e.NewMalformedRecordError(string(rem.ID), err)
	}
	return rem, nil
}
