package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS profiles (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL DEFAULT '',
    data                 TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS overrides (
    profile_id           TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    year                 INTEGER NOT NULL,
    month                INTEGER NOT NULL,
    income               TEXT,
    monthly_consumption  TEXT,
    PRIMARY KEY (profile_id, year, month)
);

CREATE TABLE IF NOT EXISTS projections (
    profile_id           TEXT PRIMARY KEY REFERENCES profiles(id) ON DELETE CASCADE,
    computed_at          TEXT NOT NULL,
    summary              TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS projection_months (
    profile_id           TEXT NOT NULL REFERENCES projections(profile_id) ON DELETE CASCADE,
    year                 INTEGER NOT NULL,
    month                INTEGER NOT NULL,
    record               TEXT NOT NULL,
    PRIMARY KEY (profile_id, year, month)
);

CREATE TABLE IF NOT EXISTS projection_loan_states (
    profile_id           TEXT NOT NULL REFERENCES projections(profile_id) ON DELETE CASCADE,
    year                 INTEGER NOT NULL,
    month                INTEGER NOT NULL,
    loan_id              TEXT NOT NULL,
    principal_paid       TEXT NOT NULL,
    interest_paid        TEXT NOT NULL,
    remaining_principal  TEXT NOT NULL,
    PRIMARY KEY (profile_id, year, month, loan_id)
);
`
