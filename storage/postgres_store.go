package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"rental-listings-importer/models"
)

const (
	upsertColumns = 9
	// maxRowsPerStatement keeps a statement under PostgreSQL's 65535 bind parameters.
	maxRowsPerStatement = 5000
)

// PostgresStore persists listings to PostgreSQL through database/sql, using
// either lib/pq ("postgres") or pgx ("pgx") as the driver.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(ctx context.Context, driver, dsn string) (*PostgresStore, error) {
	if driver != "postgres" && driver != "pgx" {
		return nil, fmt.Errorf("postgres: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS rental_listings (
			id               BIGINT       PRIMARY KEY,
			name             TEXT         NOT NULL,
			address          TEXT,
			apartment_number TEXT,
			rent             BIGINT,
			floor_area       NUMERIC,
			building_type    SMALLINT,
			created_at       TIMESTAMPTZ  NOT NULL,
			updated_at       TIMESTAMPTZ  NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_rental_listings_building_type ON rental_listings(building_type);
		CREATE INDEX IF NOT EXISTS idx_rental_listings_rent          ON rental_listings(rent);
	`)
	return err
}

// Upsert writes the chunk in one transaction. Rows sharing an ID collapse to
// the last one before the statement is built.
func (ps *PostgresStore) Upsert(ctx context.Context, listings []models.ListingRecord) error {
	if len(listings) == 0 {
		return nil
	}
	listings = collapseByID(listings)

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := 0; i < len(listings); i += maxRowsPerStatement {
		end := i + maxRowsPerStatement
		if end > len(listings) {
			end = len(listings)
		}
		batch := listings[i:end]
		if _, err := tx.ExecContext(ctx, buildUpsertQuery(len(batch)), upsertArgs(batch)...); err != nil {
			return fmt.Errorf("postgres: upsert %d rows: %s: %w", len(batch), describe(err), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func buildUpsertQuery(rows int) string {
	valueStrings := make([]string, 0, rows)
	for idx := 0; idx < rows; idx++ {
		base := idx * upsertColumns
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
	}

	return fmt.Sprintf(`
		INSERT INTO rental_listings
			(id, name, address, apartment_number, rent, floor_area, building_type, created_at, updated_at)
		VALUES %s
		ON CONFLICT (id) DO UPDATE SET
			name             = EXCLUDED.name,
			address          = EXCLUDED.address,
			apartment_number = EXCLUDED.apartment_number,
			rent             = EXCLUDED.rent,
			floor_area       = EXCLUDED.floor_area,
			building_type    = EXCLUDED.building_type,
			updated_at       = EXCLUDED.updated_at
	`, strings.Join(valueStrings, ","))
}

func upsertArgs(batch []models.ListingRecord) []interface{} {
	args := make([]interface{}, 0, len(batch)*upsertColumns)
	for _, l := range batch {
		args = append(args,
			l.ID, l.Name, nullString(l.Address), nullString(l.ApartmentNumber),
			l.Rent, l.FloorArea, l.BuildingType.Code(), l.CreatedAt, l.UpdatedAt)
	}
	return args
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// describe extracts the SQLSTATE from either driver's error type.
func describe(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Sprintf("sqlstate %s (%s)", pqErr.Code, pqErr.Code.Name())
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return "sqlstate " + pgErr.Code
	}
	return "exec failed"
}

// FetchAll retrieves all stored listings, used by the insight service.
func (ps *PostgresStore) FetchAll(ctx context.Context) ([]*models.ListingRecord, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, name, address, apartment_number, rent, floor_area, building_type, created_at, updated_at
		FROM rental_listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []*models.ListingRecord
	for rows.Next() {
		var (
			l               models.ListingRecord
			address, unit   sql.NullString
			rent            sql.NullInt64
			area            sql.NullFloat64
			buildingTypeRaw sql.NullInt64
		)
		if err := rows.Scan(
			&l.ID, &l.Name, &address, &unit, &rent, &area, &buildingTypeRaw, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		l.Address = address.String
		l.ApartmentNumber = unit.String
		l.Rent = rent.Int64
		l.FloorArea = area.Float64
		l.BuildingType = models.BuildingTypeFromCode(int(buildingTypeRaw.Int64))
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}

func (ps *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := ps.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rental_listings").Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return n, nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
