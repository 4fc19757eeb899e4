package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS exports (
    export_id            INTEGER PRIMARY KEY AUTOINCREMENT,
    window_start         TEXT NOT NULL,
    window_end           TEXT NOT NULL,
    window_clicks        INTEGER NOT NULL,
    lifetime_clicks      INTEGER NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS links (
    export_id            INTEGER NOT NULL REFERENCES exports(export_id) ON DELETE CASCADE,
    link_id              TEXT NOT NULL,
    position             INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    url                  TEXT,
    window_clicks        INTEGER NOT NULL,
    prev_window_clicks   INTEGER NOT NULL,
    lifetime_clicks      INTEGER NOT NULL,
    history_error        TEXT,
    PRIMARY KEY (export_id, link_id)
);

CREATE TABLE IF NOT EXISTS daily_clicks (
    export_id            INTEGER NOT NULL REFERENCES exports(export_id) ON DELETE CASCADE,
    link_id              TEXT NOT NULL,
    day                  TEXT NOT NULL,
    clicks               INTEGER NOT NULL,
    PRIMARY KEY (export_id, link_id, day)
);

CREATE INDEX IF NOT EXISTS idx_daily_clicks_day ON daily_clicks(day);
`
