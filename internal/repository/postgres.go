package repository

import (
	"context"
	"errors"
	"time"

	"bandroom/internal/database"
	"bandroom/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresRepository persists all collections in Postgres. Every mutating
// write fires pg_notify on the collection's channel so the store projection
// sees the change without polling.
type PostgresRepository struct {
	db *database.Database
}

func NewPostgresRepository(db *database.Database) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) notify(ctx context.Context, channel string) {
	// Notification failures are not fatal: subscribers fall one snapshot
	// behind until the next write, the data itself is already committed.
	_, _ = r.db.Pool.Exec(ctx, `SELECT pg_notify($1, '')`, channel)
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user model.User) error {
	_, err := r.db.Pool.Exec(ctx, `INSERT INTO tbl_user (id, name, email, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user model.User
	err := r.db.Pool.QueryRow(ctx, `SELECT id, name, email, password_hash, created_at, updated_at FROM tbl_user WHERE id = $1`, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, ErrUserNotFound
		}
		return user, err
	}
	return user, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := r.db.Pool.QueryRow(ctx, `SELECT id, name, email, password_hash, created_at, updated_at FROM tbl_user WHERE email = $1`, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, ErrUserNotFound
		}
		return user, err
	}
	return user, nil
}

func (r *PostgresRepository) CreateMember(ctx context.Context, member model.Member) error {
	_, err := r.db.Pool.Exec(ctx, `INSERT INTO tbl_member (id, name, email, instrument, color, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		member.ID, member.Name, member.Email, member.Instrument, member.Color, member.CreatedAt, member.UpdatedAt)
	if err != nil {
		return err
	}
	r.notify(ctx, database.ChannelMembers)
	return nil
}

func (r *PostgresRepository) GetMemberByID(ctx context.Context, id uuid.UUID) (model.Member, error) {
	var member model.Member
	err := r.db.Pool.QueryRow(ctx, `SELECT id, name, email, instrument, color, created_at, updated_at FROM tbl_member WHERE id = $1`, id).Scan(
		&member.ID, &member.Name, &member.Email, &member.Instrument, &member.Color, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return member, ErrMemberNotFound
		}
		return member, err
	}
	return member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context) ([]model.Member, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name, email, instrument, color, created_at, updated_at FROM tbl_member ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var member model.Member
		if err := rows.Scan(&member.ID, &member.Name, &member.Email, &member.Instrument, &member.Color, &member.CreatedAt, &member.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, member model.Member) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE tbl_member SET name = $1, email = $2, instrument = $3, color = $4, updated_at = $5 WHERE id = $6`,
		member.Name, member.Email, member.Instrument, member.Color, time.Now().UTC(), member.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	r.notify(ctx, database.ChannelMembers)
	return nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tbl_member WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	r.notify(ctx, database.ChannelMembers)
	return nil
}

func (r *PostgresRepository) GetAvailability(ctx context.Context, memberID uuid.UUID, day string) (model.Availability, error) {
	var availability model.Availability
	err := r.db.Pool.QueryRow(ctx, `SELECT id, member_id, day, status, notes, created_at, updated_at FROM tbl_availability WHERE member_id = $1 AND day = $2`, memberID, day).Scan(
		&availability.ID, &availability.MemberID, &availability.Day, &availability.Status, &availability.Notes, &availability.CreatedAt, &availability.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return availability, ErrAvailabilityNotFound
		}
		return availability, err
	}
	return availability, nil
}

func (r *PostgresRepository) ListAvailability(ctx context.Context) ([]model.Availability, error) {
	return r.queryAvailability(ctx, `SELECT id, member_id, day, status, notes, created_at, updated_at FROM tbl_availability ORDER BY day`)
}

func (r *PostgresRepository) ListAvailabilityByMember(ctx context.Context, memberID uuid.UUID) ([]model.Availability, error) {
	return r.queryAvailability(ctx, `SELECT id, member_id, day, status, notes, created_at, updated_at FROM tbl_availability WHERE member_id = $1 ORDER BY day`, memberID)
}

func (r *PostgresRepository) queryAvailability(ctx context.Context, query string, args ...any) ([]model.Availability, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Availability
	for rows.Next() {
		var availability model.Availability
		if err := rows.Scan(&availability.ID, &availability.MemberID, &availability.Day, &availability.Status, &availability.Notes, &availability.CreatedAt, &availability.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, availability)
	}
	return records, rows.Err()
}

func (r *PostgresRepository) CreateAvailability(ctx context.Context, availability model.Availability) error {
	_, err := r.db.Pool.Exec(ctx, `INSERT INTO tbl_availability (id, member_id, day, status, notes, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		availability.ID, availability.MemberID, availability.Day, availability.Status, availability.Notes, availability.CreatedAt, availability.UpdatedAt)
	if err != nil {
		return err
	}
	r.notify(ctx, database.ChannelAvailability)
	return nil
}

func (r *PostgresRepository) UpdateAvailability(ctx context.Context, availability model.Availability) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE tbl_availability SET status = $1, notes = $2, updated_at = $3 WHERE id = $4`,
		availability.Status, availability.Notes, time.Now().UTC(), availability.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAvailabilityNotFound
	}
	r.notify(ctx, database.ChannelAvailability)
	return nil
}

func (r *PostgresRepository) DeleteAvailability(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tbl_availability WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAvailabilityNotFound
	}
	r.notify(ctx, database.ChannelAvailability)
	return nil
}

func (r *PostgresRepository) DeleteAvailabilityByMember(ctx context.Context, memberID uuid.UUID) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM tbl_availability WHERE member_id = $1`, memberID)
	if err != nil {
		return err
	}
	r.notify(ctx, database.ChannelAvailability)
	return nil
}

func (r *PostgresRepository) CreateRehearsal(ctx context.Context, rehearsal model.Rehearsal) error {
	_, err := r.db.Pool.Exec(ctx, `INSERT INTO tbl_rehearsal (id, day, time, duration, location, description, participants, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rehearsal.ID, rehearsal.Day, rehearsal.Time, rehearsal.Duration, rehearsal.Location, rehearsal.Description, rehearsal.Participants, rehearsal.CreatedAt)
	if err != nil {
		return err
	}
	r.notify(ctx, database.ChannelRehearsals)
	return nil
}

func (r *PostgresRepository) ListRehearsals(ctx context.Context) ([]model.Rehearsal, error) {
	return r.queryRehearsals(ctx, `SELECT id, day, time, duration, location, description, participants, created_at FROM tbl_rehearsal ORDER BY day, time`)
}

func (r *PostgresRepository) ListRehearsalsOnDay(ctx context.Context, day string) ([]model.Rehearsal, error) {
	return r.queryRehearsals(ctx, `SELECT id, day, time, duration, location, description, participants, created_at FROM tbl_rehearsal WHERE day = $1 ORDER BY time`, day)
}

func (r *PostgresRepository) queryRehearsals(ctx context.Context, query string, args ...any) ([]model.Rehearsal, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rehearsals []model.Rehearsal
	for rows.Next() {
		var rehearsal model.Rehearsal
		if err := rows.Scan(&rehearsal.ID, &rehearsal.Day, &rehearsal.Time, &rehearsal.Duration, &rehearsal.Location, &rehearsal.Description, &rehearsal.Participants, &rehearsal.CreatedAt); err != nil {
			return nil, err
		}
		rehearsals = append(rehearsals, rehearsal)
	}
	return rehearsals, rows.Err()
}

func (r *PostgresRepository) RemoveParticipantFromRehearsals(ctx context.Context, memberID uuid.UUID) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE tbl_rehearsal SET participants = array_remove(participants, $1) WHERE $1 = ANY(participants)`, memberID)
	if err != nil {
		return err
	}
	r.notify(ctx, database.ChannelRehearsals)
	return nil
}
