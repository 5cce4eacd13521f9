package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Notification channels. Every mutating write to a collection fires pg_notify
// on its channel; the store listener fans the change out to subscribers.
const (
	ChannelMembers      = "bandroom_members"
	ChannelAvailability = "bandroom_availability"
	ChannelRehearsals   = "bandroom_rehearsals"
)

// Database owns the connection pool. It is constructed once at startup,
// connected before any manager runs and closed on shutdown; nothing else in
// the program holds a process-wide database handle.
type Database struct {
	Pool *pgxpool.Pool

	url string
}

func NewDatabase() Database {
	return Database{}
}

func (db *Database) Connect(ctx context.Context, url string) error {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("unable to parse database configuration: %w", err)
	}

	db.Pool, err = pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("unable to create database pool: %w", err)
	}

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}

	db.url = url
	return nil
}

func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Migrate applies all pending schema migrations.
func (db *Database) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	// golang-migrate selects its driver by URL scheme.
	url := strings.Replace(db.url, "postgres://", "pgx5://", 1)

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Listen acquires a dedicated connection subscribed to the given notification
// channels. The caller owns the connection and must Release it; notifications
// arrive through WaitForNotification on the same connection.
func (db *Database) Listen(ctx context.Context, channels ...string) (*pgxpool.Conn, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listener connection: %w", err)
	}

	for _, channel := range channels {
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
			conn.Release()
			return nil, fmt.Errorf("listen on %s: %w", channel, err)
		}
	}

	return conn, nil
}

// WaitForNotification blocks until a notification arrives on conn or ctx is
// cancelled, returning the channel the notification was sent on.
func WaitForNotification(ctx context.Context, conn *pgxpool.Conn) (string, error) {
	n, err := conn.Conn().WaitForNotification(ctx)
	if err != nil {
		return "", err
	}
	return n.Channel, nil
}
