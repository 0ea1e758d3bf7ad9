package postgres

// Migrations — схема хранилища по версиям. Новые версии только дописываются.
var Migrations = []Migration{
	{Version: 1, SQL: `
		CREATE TABLE IF NOT EXISTS point_events (
			seq        BIGSERIAL PRIMARY KEY,
			id         TEXT NOT NULL UNIQUE,
			identity   TEXT NOT NULL,
			category   TEXT NOT NULL,
			amount     BIGINT NOT NULL CHECK (amount <> 0),
			subject    TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK ((category = 'spend') = (amount < 0))
		);
		CREATE INDEX IF NOT EXISTS idx_point_events_identity_seq ON point_events (identity, seq DESC);
		CREATE INDEX IF NOT EXISTS idx_point_events_reward ON point_events (identity, category, subject);
	`},
	{Version: 2, SQL: `
		CREATE TABLE IF NOT EXISTS care_actions (
			identity   TEXT NOT NULL,
			subject    TEXT NOT NULL,
			kind       TEXT NOT NULL CHECK (kind IN ('nurture', 'neglect')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (identity, subject)
		);
		CREATE INDEX IF NOT EXISTS idx_care_actions_subject ON care_actions (subject);
	`},
	{Version: 3, SQL: `
		CREATE TABLE IF NOT EXISTS ideas (
			id          TEXT PRIMARY KEY,
			author      TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			tags        TEXT[] NOT NULL DEFAULT '{}',
			status      TEXT NOT NULL DEFAULT 'planted',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_ideas_created ON ideas (created_at DESC);
	`},
	{Version: 4, SQL: `
		CREATE TABLE IF NOT EXISTS comments (
			id             TEXT PRIMARY KEY,
			identity       TEXT NOT NULL,
			subject        TEXT NOT NULL,
			body           TEXT NOT NULL,
			cost           BIGINT NOT NULL,
			debit_event_id TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_comments_subject ON comments (subject, created_at);
		CREATE INDEX IF NOT EXISTS idx_comments_identity ON comments (identity);
	`},
	{Version: 5, SQL: `
		CREATE TABLE IF NOT EXISTS wallets (
			identity        TEXT PRIMARY KEY,
			signature_count BIGINT NOT NULL DEFAULT 0,
			first_seen_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_seen_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`},
	{Version: 6, SQL: `
		CREATE TABLE IF NOT EXISTS builder_interest (
			identity   TEXT NOT NULL,
			subject    TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (identity, subject)
		);
		CREATE INDEX IF NOT EXISTS idx_builder_interest_subject ON builder_interest (subject);
		CREATE INDEX IF NOT EXISTS idx_builder_interest_created ON builder_interest (created_at DESC);
	`},
}
