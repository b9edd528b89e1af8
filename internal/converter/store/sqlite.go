package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"map-extractor/internal/converter/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no conversion has the requested id.
var ErrNotFound = errors.New("not found")

// ============================================================
// SQLite Repository
// ============================================================

// Record describes one stored conversion.
type Record struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Provinces     int     `json:"provinces"`
	SupplyCenters int     `json:"supplyCenters"`
	CreatedAt     string  `json:"created_at"`
}

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init applies the schema migration.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// Save stores m under a fresh id and returns its record.
func (r *Repository) Save(ctx context.Context, name string, m *models.Map) (*Record, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode map: %w", err)
	}

	summary := m.Summary()
	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO maps (id, name, width, height, provinces, supply_centers, body)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, id, name, m.Width, m.Height, summary.Provinces, summary.SupplyCenters, string(body))
	if err != nil {
		return nil, fmt.Errorf("insert map: %w", err)
	}

	rec, _, err := r.Get(ctx, id)
	return rec, err
}

// Get returns the record and the decoded map stored under id.
func (r *Repository) Get(ctx context.Context, id string) (*Record, *models.Map, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, width, height, provinces, supply_centers, created_at, body
        FROM maps
        WHERE id = ?
    `, id)

	var (
		rec  Record
		body string
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Width, &rec.Height, &rec.Provinces, &rec.SupplyCenters, &rec.CreatedAt, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	var m models.Map
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return nil, nil, fmt.Errorf("decode map %s: %w", id, err)
	}
	return &rec, &m, nil
}

// List returns stored conversions, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, width, height, provinces, supply_centers, created_at
        FROM maps
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Width, &rec.Height, &rec.Provinces, &rec.SupplyCenters, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes the conversion stored under id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM maps WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// OpenSQLite opens the sqlite database at dbPath.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
