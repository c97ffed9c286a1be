package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rgehrsitz/njtax/internal/calculation"
	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultOverviewTable is used when no table name is configured.
const DefaultOverviewTable = "town_overviews"

// OverviewRow is one town overview flattened for the overview table
type OverviewRow struct {
	State         string
	CountySlug    string
	TownSlug      string
	TownName      string
	Tier          int
	AsOfYear      int
	AvgTaxBill    *decimal.Decimal
	EffectiveRate *decimal.Decimal
	BillScope     string
	RateScope     string
	VsCounty      string
	VsState       string
	Payload       []byte
}

// PostgresWriter upserts town overviews into PostgreSQL
type PostgresWriter struct {
	db     *sql.DB
	table  string
	logger calculation.Logger
}

// NewPostgresWriter opens the database and pings it
func NewPostgresWriter(connStr, table string, logger calculation.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	w := NewPostgresWriterFromDB(db, table, logger)
	w.logger.Infof("connected to PostgreSQL")
	return w, nil
}

// NewPostgresWriterFromDB wraps an existing handle
func NewPostgresWriterFromDB(db *sql.DB, table string, logger calculation.Logger) *PostgresWriter {
	if table == "" {
		table = DefaultOverviewTable
	}
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &PostgresWriter{db: db, table: table, logger: logger}
}

// CreateTable creates the overview table if it doesn't exist
func (w *PostgresWriter) CreateTable(ctx context.Context) error {
	if _, err := w.db.ExecContext(ctx, createTableSQL(w.table)); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	w.logger.Infof("table %s is ready", w.table)
	return nil
}

func createTableSQL(table string) string {
	t := pq.QuoteIdentifier(table)
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		state          VARCHAR(8)    NOT NULL,
		county_slug    TEXT          NOT NULL,
		town_slug      TEXT          NOT NULL,
		town_name      TEXT          NOT NULL,
		tier           INTEGER,
		as_of_year     INTEGER       NOT NULL,
		avg_tax_bill   NUMERIC(12,2),
		effective_rate NUMERIC(8,4),
		bill_scope     VARCHAR(8),
		rate_scope     VARCHAR(8),
		vs_county      VARCHAR(16),
		vs_state       VARCHAR(16),
		payload        JSONB         NOT NULL,
		updated_at     TIMESTAMP     NOT NULL DEFAULT NOW(),
		PRIMARY KEY (state, county_slug, town_slug)
	);

	CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (state, county_slug);
	`, t, pq.QuoteIdentifier("idx_"+table+"_county"))
}

func upsertSQL(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (state, county_slug, town_slug, town_name, tier, as_of_year,
			avg_tax_bill, effective_rate, bill_scope, rate_scope, vs_county, vs_state, payload, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (state, county_slug, town_slug) DO UPDATE SET
			town_name = EXCLUDED.town_name,
			tier = EXCLUDED.tier,
			as_of_year = EXCLUDED.as_of_year,
			avg_tax_bill = EXCLUDED.avg_tax_bill,
			effective_rate = EXCLUDED.effective_rate,
			bill_scope = EXCLUDED.bill_scope,
			rate_scope = EXCLUDED.rate_scope,
			vs_county = EXCLUDED.vs_county,
			vs_state = EXCLUDED.vs_state,
			payload = EXCLUDED.payload,
			updated_at = NOW()
	`, pq.QuoteIdentifier(table))
}

// WriteOverviews upserts every town overview in a single transaction.
// Any failed row aborts the whole publish.
func (w *PostgresWriter) WriteOverviews(ctx context.Context, state *domain.StateData) (err error) {
	rows, err := BuildOverviewRows(state)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertSQL(w.table))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.ExecContext(ctx,
			r.State,
			r.CountySlug,
			r.TownSlug,
			r.TownName,
			nullInt(r.Tier),
			r.AsOfYear,
			nullDecimal(r.AvgTaxBill),
			nullDecimal(r.EffectiveRate),
			nullString(r.BillScope),
			nullString(r.RateScope),
			nullString(r.VsCounty),
			nullString(r.VsState),
			string(r.Payload),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert %s/%s: %w", r.CountySlug, r.TownSlug, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Infof("upserted %d town overviews into %s", len(rows), w.table)
	return nil
}

// BuildOverviewRows flattens every town with an overview. Towns without one are skipped.
func BuildOverviewRows(state *domain.StateData) ([]OverviewRow, error) {
	var rows []OverviewRow
	for _, county := range state.Counties {
		for _, town := range county.Towns {
			o := town.Overview
			if o == nil {
				continue
			}
			payload, err := json.Marshal(o)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal overview for %s: %w", town.Name, err)
			}
			row := OverviewRow{
				State:         state.Abbreviation,
				CountySlug:    county.Slug,
				TownSlug:      town.Slug,
				TownName:      town.Name,
				Tier:          town.Tier,
				AsOfYear:      o.AsOfYear,
				AvgTaxBill:    o.AvgResidentialTaxBill,
				EffectiveRate: o.EffectiveTaxRatePct,
				BillScope:     string(o.BillScope),
				RateScope:     string(o.RateScope),
				Payload:       payload,
			}
			if o.Comparisons != nil {
				row.VsCounty = string(o.Comparisons.VsCounty)
				row.VsState = string(o.Comparisons.VsState)
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Close closes the database connection
func (w *PostgresWriter) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
