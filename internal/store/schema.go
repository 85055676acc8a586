package store

// Schema is the complete pricewatch schema. Targets are keyed by
// normalized URL; price_history is append-only and deliberately has no
// foreign key to targets, so deleting a target keeps its audit trail.
const Schema = `
CREATE TABLE IF NOT EXISTS targets (
    url      TEXT PRIMARY KEY,
    added_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS price_history (
    id           TEXT PRIMARY KEY,
    product_name TEXT NOT NULL DEFAULT 'unknown',
    price        INTEGER NOT NULL CHECK (price >= 0),
    currency     TEXT NOT NULL,
    source_url   TEXT NOT NULL,
    captured_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_source ON price_history(source_url, captured_at DESC);
CREATE INDEX IF NOT EXISTS idx_history_time ON price_history(captured_at DESC);
`
