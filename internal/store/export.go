// Package store writes derived window tables to a SQLite file for use in
// spreadsheets and ad-hoc queries. It never backs the session cache.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/linkstat/internal/model"
	"github.com/theirongolddev/linkstat/internal/pipeline"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Export is a SQLite file holding one or more exported windows.
type Export struct {
	db *sql.DB
}

// Open opens or creates the export database at the given path.
func Open(dbPath string) (*Export, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening export db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Export{db: db}, nil
}

// Close closes the export database.
func (e *Export) Close() error {
	return e.db.Close()
}

// Snapshot is one window's derived data: the link table and each link's
// dense series keyed by link ID.
type Snapshot struct {
	Table  pipeline.LinkTable
	Series map[string]model.DailySeries
}

// BuildSnapshot derives everything an export needs from the cache.
func BuildSnapshot(c *pipeline.SessionCache, w model.Window) Snapshot {
	table := pipeline.BuildLinkTable(c, w)
	series := make(map[string]model.DailySeries, len(table.Rows))
	for _, row := range table.Rows {
		series[row.ID] = pipeline.Reproject(c.History(row.ID), w)
	}
	return Snapshot{Table: table, Series: series}
}

// SaveSnapshot stores the snapshot in one transaction and returns its export ID.
func (e *Export) SaveSnapshot(ctx context.Context, s Snapshot) (int64, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	w := s.Table.Window
	res, err := tx.ExecContext(ctx, `INSERT INTO exports
		(window_start, window_end, window_clicks, lifetime_clicks, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		model.DayKey(w.Start), model.DayKey(w.End),
		s.Table.Total.WindowClicks, s.Table.Total.LifetimeClicks,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting export: %w", err)
	}
	exportID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	linkStmt, err := tx.PrepareContext(ctx, `INSERT INTO links
		(export_id, link_id, position, name, url, window_clicks, prev_window_clicks, lifetime_clicks, history_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = linkStmt.Close() }()

	dayStmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_clicks
		(export_id, link_id, day, clicks) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = dayStmt.Close() }()

	for i, row := range s.Table.Rows {
		var histErr sql.NullString
		if row.HistoryErr != nil {
			histErr = sql.NullString{String: row.HistoryErr.Error(), Valid: true}
		}
		if _, err := linkStmt.ExecContext(ctx, exportID, row.ID, i, row.Name, row.URL,
			row.WindowClicks, row.PrevClicks, row.LifetimeClicks, histErr); err != nil {
			return 0, fmt.Errorf("inserting link %q: %w", row.Name, err)
		}

		for _, p := range s.Series[row.ID].Points {
			if _, err := dayStmt.ExecContext(ctx, exportID, row.ID, model.DayKey(p.Date), p.Count); err != nil {
				return 0, fmt.Errorf("inserting clicks for %q: %w", row.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing export: %w", err)
	}
	return exportID, nil
}

// ExportInfo describes one stored export.
type ExportInfo struct {
	ID             int64
	Window         model.Window
	WindowClicks   int64
	LifetimeClicks int64
	CreatedAt      time.Time
}

// Exports lists stored exports, newest first.
func (e *Export) Exports(ctx context.Context) ([]ExportInfo, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT export_id, window_start, window_end,
		window_clicks, lifetime_clicks, created_at FROM exports ORDER BY export_id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ExportInfo
	for rows.Next() {
		var info ExportInfo
		var start, end, created string
		if err := rows.Scan(&info.ID, &start, &end, &info.WindowClicks, &info.LifetimeClicks, &created); err != nil {
			return nil, err
		}
		if info.Window, err = parseWindow(start, end); err != nil {
			return nil, err
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, info)
	}
	return out, rows.Err()
}

// LinkRows returns an export's link rows in their original order.
func (e *Export) LinkRows(ctx context.Context, exportID int64) ([]pipeline.LinkRow, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT link_id, name, url, window_clicks,
		prev_window_clicks, lifetime_clicks, history_error
		FROM links WHERE export_id = ? ORDER BY position`, exportID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []pipeline.LinkRow
	for rows.Next() {
		var r pipeline.LinkRow
		var url, histErr sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &url, &r.WindowClicks, &r.PrevClicks, &r.LifetimeClicks, &histErr); err != nil {
			return nil, err
		}
		r.URL = url.String
		if histErr.Valid {
			r.HistoryErr = storedError(histErr.String)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DailyClicks returns one link's stored dense series for an export.
func (e *Export) DailyClicks(ctx context.Context, exportID int64, linkID string) ([]model.DailyPoint, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT day, clicks FROM daily_clicks
		WHERE export_id = ? AND link_id = ? ORDER BY day`, exportID, linkID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.DailyPoint
	for rows.Next() {
		var day string
		var p model.DailyPoint
		if err := rows.Scan(&day, &p.Count); err != nil {
			return nil, err
		}
		if p.Date, err = model.ParseDay(day); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func parseWindow(start, end string) (model.Window, error) {
	s, err := model.ParseDay(start)
	if err != nil {
		return model.Window{}, err
	}
	t, err := model.ParseDay(end)
	if err != nil {
		return model.Window{}, err
	}
	return model.NewWindow(s, t)
}

// storedError is a history error read back from an export.
type storedError string

func (e storedError) Error() string { return string(e) }
