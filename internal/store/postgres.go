package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres mirrors the sheet contract onto a Postgres table, so the pipeline
// can run against a local mirror without spreadsheet credentials. Rows keep
// an explicit position column that follows the same numbering as the sheet
// (header is row 1, data starts at row 2); cells are stored as a JSONB map
// keyed by column name.
type Postgres struct {
	pool   *pgxpool.Pool
	table  string
	header []string
}

// NewPostgres connects to the database and ensures the mirror table exists.
// The header fixes the column set and order reported by ReadAll.
func NewPostgres(ctx context.Context, databaseURL, table string, header []string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Postgres{pool: pool, table: table, header: append([]string(nil), header...)}

	_, err = pool.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			pos   INTEGER NOT NULL,
			cells JSONB   NOT NULL
		)`, pgx.Identifier{table}.Sanitize()))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create mirror table: %w", err)
	}
	return p, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// ReadAll returns the configured header and all rows ordered by position.
func (p *Postgres) ReadAll(ctx context.Context) ([]string, [][]string, error) {
	query := fmt.Sprintf(`SELECT cells FROM %s ORDER BY pos`, pgx.Identifier{p.table}.Sanitize())
	dbRows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read mirror table: %w", err)
	}
	defer dbRows.Close()

	var rows [][]string
	for dbRows.Next() {
		var raw []byte
		if err := dbRows.Scan(&raw); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}
		var cells map[string]string
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, nil, fmt.Errorf("failed to decode row cells: %w", err)
		}
		rows = append(rows, buildRow(p.header, cells))
	}
	if err := dbRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read mirror table: %w", err)
	}

	return append([]string(nil), p.header...), rows, nil
}

// AppendRows shifts every existing row down and inserts the batch at
// positions 2..len(rows)+1, all in one transaction.
func (p *Postgres) AppendRows(ctx context.Context, rows []map[string]string) error {
	if len(rows) == 0 {
		return nil
	}

	cols := columnMap(p.header)
	for _, cells := range rows {
		for name := range cells {
			if _, ok := cols[name]; !ok {
				return &UnknownColumnError{Column: name}
			}
		}
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	table := pgx.Identifier{p.table}.Sanitize()
	if _, err := tx.Exec(ctx, fmt.Sprintf(`UPDATE %s SET pos = pos + $1`, table), len(rows)); err != nil {
		return fmt.Errorf("failed to shift rows: %w", err)
	}

	for i, cells := range rows {
		raw, err := json.Marshal(cells)
		if err != nil {
			return fmt.Errorf("failed to encode row cells: %w", err)
		}
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (pos, cells) VALUES ($1, $2)`, table),
			2+i, raw,
		); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit insert: %w", err)
	}
	return nil
}

// PatchCells applies all updates in one transaction.
func (p *Postgres) PatchCells(ctx context.Context, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	cols := columnMap(p.header)
	for _, u := range updates {
		if _, ok := cols[u.Column]; !ok {
			return &UnknownColumnError{Column: u.Column}
		}
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	table := pgx.Identifier{p.table}.Sanitize()
	for _, u := range updates {
		tag, err := tx.Exec(ctx,
			fmt.Sprintf(`UPDATE %s SET cells = jsonb_set(cells, ARRAY[$1], to_jsonb($2::text)) WHERE pos = $3`, table),
			u.Column, u.Value, u.Row,
		)
		if err != nil {
			return fmt.Errorf("failed to patch cell: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return &RowRangeError{Row: u.Row}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit patches: %w", err)
	}
	return nil
}
