package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS benchmark_runs (
    run_id               TEXT PRIMARY KEY,
    started_at           TEXT NOT NULL,
    model                TEXT NOT NULL,
    total_queries        INTEGER NOT NULL,
    input_tokens         INTEGER NOT NULL,
    output_tokens        INTEGER NOT NULL,
    total_cost           REAL NOT NULL,
    avg_cost_per_query   REAL NOT NULL,
    avg_tokens_per_query REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS benchmark_results (
    run_id               TEXT NOT NULL REFERENCES benchmark_runs(run_id) ON DELETE CASCADE,
    question_number      INTEGER NOT NULL,
    question             TEXT NOT NULL,
    response_time_ms     INTEGER NOT NULL,
    input_tokens         INTEGER NOT NULL,
    output_tokens        INTEGER NOT NULL,
    total_cost           REAL NOT NULL,
    error                TEXT,
    PRIMARY KEY (run_id, question_number)
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON benchmark_runs(started_at);
`
