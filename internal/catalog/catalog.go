// Package catalog persists material tables in a SQLite database so a curated
// dataset can be imported once and shared by every analysis command and the
// HTTP API.
//
// The schema is managed by embedded goose migrations. Import replaces the
// whole catalog in one transaction; Load reads it back in import order and
// re-validates every row through material.NewTable.
package catalog

import (
	"context"
	"crypto/rand"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/rshade/lcacost/internal/logging"
	"github.com/rshade/lcacost/internal/material"
)

const (
	driverName    = "sqlite"
	gooseDialect  = "sqlite3"
	migrationsDir = "migrations"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex //nolint:gochecknoglobals // Serializes goose configuration

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrEmptyCatalog indicates Load found no materials.
const ErrEmptyCatalog = constError("catalog has no materials; run 'lcacost catalog import' first")

// ImportInfo describes one catalog import.
type ImportInfo struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	RecordCount int       `json:"record_count"`
	ImportedAt  time.Time `json:"imported_at"`
}

// Store is a SQLite-backed material catalog.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the database at path, sets pragmas and checks connectivity.
// Call Migrate before first use of a new file.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Pragmas apply per connection.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, `
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("component", "catalog").
		Str("operation", "open").
		Str("path", path).
		Msg("catalog opened")

	return &Store{db: db, path: path}, nil
}

// OpenAndMigrate opens the database and applies pending migrations.
func OpenAndMigrate(ctx context.Context, path string) (*Store, error) {
	s, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err = s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate applies all pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, migrationsDir); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}
	return nil
}

// Import replaces the catalog contents with t and records the import.
// Either every record is written or none is.
func (s *Store) Import(ctx context.Context, t *material.Table, source string) (ImportInfo, error) {
	info := ImportInfo{
		ID:          ulid.MustNew(ulid.Now(), rand.Reader).String(),
		Source:      source,
		RecordCount: t.Len(),
		ImportedAt:  time.Now().UTC().Truncate(time.Second),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportInfo{}, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM materials`); err != nil {
		return ImportInfo{}, fmt.Errorf("clearing materials: %w", err)
	}

	for pos, r := range t.Records() {
		if err = insertRecord(ctx, tx, pos, r); err != nil {
			return ImportInfo{}, err
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO imports (id, source, record_count, imported_at) VALUES (?, ?, ?, ?)`,
		info.ID, info.Source, info.RecordCount, info.ImportedAt.Format(time.RFC3339),
	); err != nil {
		return ImportInfo{}, fmt.Errorf("recording import: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return ImportInfo{}, fmt.Errorf("commit import: %w", err)
	}

	logging.FromContext(ctx).Info().Ctx(ctx).
		Str("component", "catalog").
		Str("operation", "import").
		Str("import_id", info.ID).
		Int("records", info.RecordCount).
		Str("source", source).
		Msg("catalog imported")

	return info, nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, pos int, r *material.Record) error {
	var lis, ris, cpi sql.NullFloat64
	var tier sql.NullString
	if r.Scores != nil {
		lis = sql.NullFloat64{Float64: r.Scores.LIS, Valid: true}
		ris = sql.NullFloat64{Float64: r.Scores.RIS, Valid: true}
		cpi = sql.NullFloat64{Float64: r.Scores.CPI, Valid: true}
		tier = sql.NullString{String: string(r.Scores.Tier), Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO materials (
			position, name, cost_per_area, capital_cost, annual_maintenance_cost,
			annual_energy_cost, salvage_value, service_life_years,
			score_lis, score_ris, score_tier, score_cpi
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pos, r.Name, r.CostPerArea, r.CapitalCost, r.AnnualMaintenanceCost,
		r.AnnualEnergyCost, r.SalvageValue, r.ServiceLifeYears,
		lis, ris, tier, cpi,
	)
	if err != nil {
		return fmt.Errorf("inserting material %q: %w", r.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading id of material %q: %w", r.Name, err)
	}

	for category, values := range r.PhaseImpacts {
		for phase, v := range values {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO phase_impacts (material_id, category, phase, value) VALUES (?, ?, ?, ?)`,
				id, string(category), phase, v,
			); err != nil {
				return fmt.Errorf("inserting %s impacts of %q: %w", category, r.Name, err)
			}
		}
	}
	return nil
}

// Load reads every material in import order and validates the result.
// Rows that no longer satisfy record invariants fail with
// material.ErrDataIntegrity.
func (s *Store) Load(ctx context.Context) (*material.Table, error) {
	records, byID, err := s.loadMaterials(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}

	if err = s.loadImpacts(ctx, records, byID); err != nil {
		return nil, err
	}

	t, err := material.NewTable(records)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", s.path, err)
	}
	return t, nil
}

// loadMaterials reads the material rows. The result set is closed before
// returning since the store holds a single connection.
func (s *Store) loadMaterials(ctx context.Context) ([]material.Record, map[int64]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, cost_per_area, capital_cost, annual_maintenance_cost,
		       annual_energy_cost, salvage_value, service_life_years,
		       score_lis, score_ris, score_tier, score_cpi
		FROM materials ORDER BY position`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying materials: %w", err)
	}
	defer rows.Close()

	var records []material.Record
	byID := make(map[int64]int)
	for rows.Next() {
		var (
			id            int64
			r             material.Record
			lis, ris, cpi sql.NullFloat64
			tier          sql.NullString
		)
		if err = rows.Scan(&id, &r.Name, &r.CostPerArea, &r.CapitalCost, &r.AnnualMaintenanceCost,
			&r.AnnualEnergyCost, &r.SalvageValue, &r.ServiceLifeYears,
			&lis, &ris, &tier, &cpi); err != nil {
			return nil, nil, fmt.Errorf("scanning material: %w", err)
		}
		if tier.Valid {
			r.Scores = &material.Scores{
				LIS:  lis.Float64,
				RIS:  ris.Float64,
				Tier: material.ScoreTier(tier.String),
				CPI:  cpi.Float64,
			}
		}
		r.PhaseImpacts = make(map[material.ImpactCategory]material.PhaseValues)
		byID[id] = len(records)
		records = append(records, r)
	}
	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating materials: %w", err)
	}
	return records, byID, nil
}

// loadImpacts fills PhaseImpacts. A category with a missing phase row is
// dropped so validation reports it as absent.
func (s *Store) loadImpacts(ctx context.Context, records []material.Record, byID map[int64]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT material_id, category, phase, value FROM phase_impacts ORDER BY material_id, category, phase`)
	if err != nil {
		return fmt.Errorf("querying phase impacts: %w", err)
	}
	defer rows.Close()

	type key struct {
		idx      int
		category material.ImpactCategory
	}
	seen := make(map[key]int)

	for rows.Next() {
		var (
			id       int64
			category string
			phase    int
			value    float64
		)
		if err = rows.Scan(&id, &category, &phase, &value); err != nil {
			return fmt.Errorf("scanning phase impact: %w", err)
		}
		idx, ok := byID[id]
		if !ok {
			continue
		}
		c := material.ImpactCategory(category)
		values := records[idx].PhaseImpacts[c]
		values[phase] = value
		records[idx].PhaseImpacts[c] = values
		seen[key{idx, c}]++
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterating phase impacts: %w", err)
	}

	for k, n := range seen {
		if n != material.PhaseCount {
			delete(records[k.idx].PhaseImpacts, k.category)
		}
	}
	return nil
}

// LastImport returns the most recent import. ok is false for a catalog that
// was never imported into.
func (s *Store) LastImport(ctx context.Context) (ImportInfo, bool, error) {
	var (
		info       ImportInfo
		importedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, record_count, imported_at FROM imports ORDER BY rowid DESC LIMIT 1`,
	).Scan(&info.ID, &info.Source, &info.RecordCount, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ImportInfo{}, false, nil
	}
	if err != nil {
		return ImportInfo{}, false, fmt.Errorf("querying imports: %w", err)
	}
	if info.ImportedAt, err = time.Parse(time.RFC3339, importedAt); err != nil {
		return ImportInfo{}, false, fmt.Errorf("parsing import time %q: %w", importedAt, err)
	}
	return info, true, nil
}
