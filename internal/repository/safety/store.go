package safety

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Registers the "sqlite" driver.

	domain "github.com/oshokin/sos-button/internal/domain/safety"
)

// Repository defines the persistence operations the safety service depends on.
type Repository interface {
	InsertAlert(ctx context.Context, alert *domain.Alert) (*domain.Alert, error)
	GetAlert(ctx context.Context, userID, id string) (*domain.Alert, error)
	ResolveAlert(ctx context.Context, userID, id string, at time.Time) (*domain.Alert, error)
	ListAlerts(ctx context.Context, userID string) ([]*domain.Alert, error)

	InsertContact(ctx context.Context, contact *domain.Contact, limit int) (*domain.Contact, error)
	ListContacts(ctx context.Context, userID string, limit int) ([]*domain.Contact, error)
	CountContacts(ctx context.Context, userID string) (int, error)
	DeleteContact(ctx context.Context, userID, id string) error

	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpsertProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
}

var (
	// ErrNotFound is returned when the requested record does not exist for the user.
	ErrNotFound = errors.New("record not found")
	// ErrContactLimit is returned when inserting would exceed the contact limit.
	ErrContactLimit = errors.New("contact limit reached")
	// errPathRequired is returned by Open for an empty path.
	errPathRequired = errors.New("database path is required")
)

// Store is the SQLite-backed Repository.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errPathRequired
	}

	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// SQLite serialises writers; one connection avoids SQLITE_BUSY between our own statements.
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err = migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// InsertAlert stores a new alert, assigning an ID when missing.
func (s *Store) InsertAlert(ctx context.Context, alert *domain.Alert) (*domain.Alert, error) {
	stored := alert.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	if _, err := s.db.ExecContext(ctx, `
INSERT INTO sos_alerts (id, user_id, location_lat, location_lng, status, created_at, resolved_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stored.ID,
		stored.UserID,
		stored.Location.Latitude,
		stored.Location.Longitude,
		string(stored.Status),
		toMillis(stored.CreatedAt),
		nullMillis(stored.ResolvedAt),
	); err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}

	return stored, nil
}

// GetAlert returns one alert of the user.
func (s *Store) GetAlert(ctx context.Context, userID, id string) (*domain.Alert, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, location_lat, location_lng, status, created_at, resolved_at
FROM sos_alerts WHERE user_id = ? AND id = ?`, userID, id)

	alert, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}

	return alert, nil
}

// ResolveAlert marks an active alert resolved at the given time.
// An already resolved alert is returned unchanged.
func (s *Store) ResolveAlert(ctx context.Context, userID, id string, at time.Time) (*domain.Alert, error) {
	if _, err := s.db.ExecContext(ctx, `
UPDATE sos_alerts SET status = ?, resolved_at = ?
WHERE user_id = ? AND id = ? AND status = ?`,
		string(domain.AlertResolved), toMillis(at), userID, id, string(domain.AlertActive),
	); err != nil {
		return nil, fmt.Errorf("resolve alert: %w", err)
	}

	return s.GetAlert(ctx, userID, id)
}

// ListAlerts returns the user's alerts, newest first.
func (s *Store) ListAlerts(ctx context.Context, userID string) ([]*domain.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, location_lat, location_lng, status, created_at, resolved_at
FROM sos_alerts WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*domain.Alert

	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}

		alerts = append(alerts, alert)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}

	return alerts, nil
}

// InsertContact stores a contact. A positive limit caps the user's contacts
// atomically and yields ErrContactLimit when reached.
func (s *Store) InsertContact(ctx context.Context, contact *domain.Contact, limit int) (*domain.Contact, error) {
	stored := contact.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert contact: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if limit > 0 {
		var count int
		if err = tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM emergency_contacts WHERE user_id = ?`, stored.UserID,
		).Scan(&count); err != nil {
			return nil, fmt.Errorf("count contacts: %w", err)
		}

		if count >= limit {
			return nil, ErrContactLimit
		}
	}

	if _, err = tx.ExecContext(ctx, `
INSERT INTO emergency_contacts (id, user_id, name, phone_number, relationship, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		stored.ID,
		stored.UserID,
		stored.Name,
		stored.PhoneNumber,
		stored.Relationship,
		toMillis(stored.CreatedAt),
	); err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit contact: %w", err)
	}

	return stored, nil
}

// ListContacts returns the user's contacts in creation order. A positive limit caps the result.
func (s *Store) ListContacts(ctx context.Context, userID string, limit int) ([]*domain.Contact, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, name, phone_number, relationship, created_at
FROM emergency_contacts WHERE user_id = ?
ORDER BY created_at ASC, rowid ASC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*domain.Contact

	for rows.Next() {
		var (
			contact   domain.Contact
			createdAt int64
		)

		if err = rows.Scan(
			&contact.ID,
			&contact.UserID,
			&contact.Name,
			&contact.PhoneNumber,
			&contact.Relationship,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}

		contact.CreatedAt = fromMillis(createdAt)
		contacts = append(contacts, &contact)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}

	return contacts, nil
}

// CountContacts returns how many contacts the user keeps.
func (s *Store) CountContacts(ctx context.Context, userID string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM emergency_contacts WHERE user_id = ?`, userID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}

	return count, nil
}

// DeleteContact removes one contact of the user.
func (s *Store) DeleteContact(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM emergency_contacts WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetProfile returns the user's profile.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var (
		profile   domain.Profile
		updatedAt int64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, phone_number, updated_at FROM profiles WHERE id = ?`, userID,
	).Scan(&profile.ID, &profile.FullName, &profile.PhoneNumber, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	profile.UpdatedAt = fromMillis(updatedAt)

	return &profile, nil
}

// UpsertProfile creates or replaces the user's profile.
func (s *Store) UpsertProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if _, err := s.db.ExecContext(ctx, `
INSERT INTO profiles (id, full_name, phone_number, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    full_name = excluded.full_name,
    phone_number = excluded.phone_number,
    updated_at = excluded.updated_at`,
		profile.ID, profile.FullName, profile.PhoneNumber, toMillis(profile.UpdatedAt),
	); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	return profile.Clone(), nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (*domain.Alert, error) {
	var (
		alert      domain.Alert
		status     string
		createdAt  int64
		resolvedAt sql.NullInt64
	)

	if err := row.Scan(
		&alert.ID,
		&alert.UserID,
		&alert.Location.Latitude,
		&alert.Location.Longitude,
		&status,
		&createdAt,
		&resolvedAt,
	); err != nil {
		return nil, err
	}

	alert.Status = domain.AlertStatus(status)
	alert.CreatedAt = fromMillis(createdAt)

	if resolvedAt.Valid {
		alert.ResolvedAt = fromMillis(resolvedAt.Int64)
	}

	return &alert, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: toMillis(t), Valid: true}
}
