package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    mode TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT,
    base_folder TEXT NOT NULL,
    output_path TEXT,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    stages INTEGER NOT NULL DEFAULT 0,
    samples INTEGER NOT NULL DEFAULT 0,
    cnv_files INTEGER NOT NULL DEFAULT 0,
    mutation_files INTEGER NOT NULL DEFAULT 0,
    ignored_files INTEGER NOT NULL DEFAULT 0,
    failed_files INTEGER NOT NULL DEFAULT 0,
    segment_values INTEGER NOT NULL DEFAULT 0,
    mutation_rows INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_failures (
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    path TEXT NOT NULL,
    reason TEXT NOT NULL,
    PRIMARY KEY (run_id, position),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS summary_tables (
    run_id TEXT NOT NULL,
    stage_position INTEGER NOT NULL,
    stage TEXT NOT NULL,
    table_position INTEGER NOT NULL,
    name TEXT NOT NULL,
    index_label TEXT NOT NULL,
    value_column TEXT NOT NULL,
    PRIMARY KEY (run_id, stage_position, table_position),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS summary_rows (
    run_id TEXT NOT NULL,
    stage_position INTEGER NOT NULL,
    table_position INTEGER NOT NULL,
    row_position INTEGER NOT NULL,
    label TEXT NOT NULL,
    value REAL,
    PRIMARY KEY (run_id, stage_position, table_position, row_position),
    FOREIGN KEY (run_id, stage_position, table_position)
        REFERENCES summary_tables(run_id, stage_position, table_position) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`
