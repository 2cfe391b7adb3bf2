package postgres

const schemaDDL = `
CREATE TABLE IF NOT EXISTS municipalities (
    municipality_id TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    features        BIGINT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS suburbs (
    suburb_id       TEXT PRIMARY KEY,
    municipality_id TEXT NOT NULL,
    name            TEXT NOT NULL,
    features        BIGINT[] NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_suburbs_municipality ON suburbs (municipality_id);
CREATE INDEX IF NOT EXISTS idx_suburbs_features ON suburbs USING GIN (features);

CREATE TABLE IF NOT EXISTS groups (
    group_id   TEXT PRIMARY KEY,
    number     INT NOT NULL,
    suburb_ids TEXT[] NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_groups_suburbs ON groups USING GIN (suburb_ids);

CREATE TABLE IF NOT EXISTS time_schedules (
    schedule_id     TEXT PRIMARY KEY,
    municipality_id TEXT NOT NULL,
    start_hour      INT NOT NULL,
    start_minute    INT NOT NULL,
    stop_hour       INT NOT NULL,
    stop_minute     INT NOT NULL,
    stages          JSONB NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_time_schedules_municipality ON time_schedules (municipality_id);

CREATE TABLE IF NOT EXISTS stage_log (
    entry_id   TEXT PRIMARY KEY,
    start_time BIGINT NOT NULL,
    end_time   BIGINT NOT NULL,
    stage      INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stage_log_start ON stage_log (start_time);
`
