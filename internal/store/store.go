// Package store keeps profiles, their overrides and the last projection of
// each profile in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nuhgnoej/rofle/internal/domain"
	"github.com/nuhgnoej/rofle/pkg/dateutil"

	_ "modernc.org/sqlite" // register sqlite driver
)

var (
	// ErrProfileNotFound is returned when no profile has the requested ID.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProjectionNotFound is returned when a profile has never been projected.
	ErrProjectionNotFound = errors.New("projection not found")
)

// nowFunc stamps rows (override in tests).
var nowFunc = time.Now

// Store provides SQLite-backed profile persistence.
type Store struct {
	db *sql.DB
}

// ProfileInfo is one line of the profile listing.
type ProfileInfo struct {
	ID            string
	Name          string
	UpdatedAt     time.Time
	HasProjection bool
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func timestamp() string {
	return nowFunc().UTC().Format(time.RFC3339)
}

// SaveProfile inserts or replaces a profile together with its overrides and
// returns its ID. A profile without an ID gets a new UUID; the caller's
// profile is updated with it.
func (s *Store) SaveProfile(ctx context.Context, p *domain.Profile) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	body := *p
	body.Overrides = nil
	data, err := json.Marshal(&body)
	if err != nil {
		return "", fmt.Errorf("encoding profile: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	now := timestamp()
	_, err = tx.ExecContext(ctx, `INSERT INTO profiles (id, name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, data = excluded.data, updated_at = excluded.updated_at`,
		p.ID, p.Name, string(data), now, now)
	if err != nil {
		return "", fmt.Errorf("saving profile %s: %w", p.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM overrides WHERE profile_id = ?", p.ID); err != nil {
		return "", err
	}
	for _, o := range p.Overrides {
		if o.IsEmpty() {
			continue
		}
		if err := insertOverride(ctx, tx, p.ID, o); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return p.ID, nil
}

func insertOverride(ctx context.Context, tx *sql.Tx, profileID string, o domain.Override) error {
	_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO overrides (profile_id, year, month, income, monthly_consumption)
		VALUES (?, ?, ?, ?, ?)`,
		profileID, o.Year, o.Month, nullDecimal(o.Income), nullDecimal(o.MonthlyConsumption))
	if err != nil {
		return fmt.Errorf("saving override %04d-%02d: %w", o.Year, o.Month, err)
	}
	return nil
}

// LoadProfile reads a profile and its overrides.
func (s *Store) LoadProfile(ctx context.Context, id string) (*domain.Profile, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM profiles WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var p domain.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", id, err)
	}
	p.ID = id

	overrides, err := s.loadOverrides(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Overrides = overrides
	return &p, nil
}

func (s *Store) loadOverrides(ctx context.Context, id string) ([]domain.Override, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year, month, income, monthly_consumption
		FROM overrides WHERE profile_id = ? ORDER BY year, month`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var overrides []domain.Override
	for rows.Next() {
		var o domain.Override
		var income, consumption sql.NullString
		if err := rows.Scan(&o.Year, &o.Month, &income, &consumption); err != nil {
			return nil, err
		}
		if o.Income, err = parseNullDecimal(income); err != nil {
			return nil, err
		}
		if o.MonthlyConsumption, err = parseNullDecimal(consumption); err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

// ListProfiles returns every stored profile, most recently updated first.
func (s *Store) ListProfiles(ctx context.Context) ([]ProfileInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT p.id, p.name, p.updated_at, pr.profile_id IS NOT NULL
		FROM profiles p LEFT JOIN projections pr ON pr.profile_id = p.id
		ORDER BY p.updated_at DESC, p.id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ProfileInfo
	for rows.Next() {
		var info ProfileInfo
		var updated string
		var projected int
		if err := rows.Scan(&info.ID, &info.Name, &updated, &projected); err != nil {
			return nil, err
		}
		info.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		info.HasProjection = projected != 0
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteProfile removes a profile with its overrides and projection.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return nil
}

// SetOverride edits one field of the override for (year, month). A nil value
// clears the field; an override with nothing left is removed.
func (s *Store) SetOverride(ctx context.Context, id string, year, month int, field string, value *decimal.Decimal) error {
	if !dateutil.IsValidMonth(month) {
		return fmt.Errorf("invalid month %d", month)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}

	o := domain.Override{Year: year, Month: month}
	var income, consumption sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT income, monthly_consumption FROM overrides
		WHERE profile_id = ? AND year = ? AND month = ?`, id, year, month).Scan(&income, &consumption)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	default:
		if o.Income, err = parseNullDecimal(income); err != nil {
			return err
		}
		if o.MonthlyConsumption, err = parseNullDecimal(consumption); err != nil {
			return err
		}
	}

	if err := o.SetField(field, value); err != nil {
		return err
	}

	if o.IsEmpty() {
		_, err = tx.ExecContext(ctx, "DELETE FROM overrides WHERE profile_id = ? AND year = ? AND month = ?", id, year, month)
		if err != nil {
			return err
		}
	} else if err := insertOverride(ctx, tx, id, o); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "UPDATE profiles SET updated_at = ? WHERE id = ?", timestamp(), id); err != nil {
		return err
	}
	return tx.Commit()
}

// ClearOverrides removes every override of a profile.
func (s *Store) ClearOverrides(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM overrides WHERE profile_id = ?", id)
	return err
}

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDecimal(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, fmt.Errorf("decoding stored amount %q: %w", ns.String, err)
	}
	return &d, nil
}
