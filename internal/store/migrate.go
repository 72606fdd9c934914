package store

import (
	"context"
	"fmt"
)

// Migrate creates the schema when it does not exist yet. Idempotent; runs
// at startup.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	username      TEXT NOT NULL,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT 'CANDIDATE',
	enabled       BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT users_username_key UNIQUE (username),
	CONSTRAINT users_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS applications (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	owner_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	company_name TEXT NOT NULL,
	job_title    TEXT NOT NULL,
	date_applied DATE NOT NULL,
	status       TEXT NOT NULL DEFAULT 'APPLIED',
	job_url      TEXT,
	notes        TEXT,
	remind_at    TIMESTAMPTZ,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_applications_owner ON applications (owner_id);
CREATE INDEX IF NOT EXISTS idx_applications_status ON applications (status);
CREATE INDEX IF NOT EXISTS idx_applications_company ON applications (company_name);
CREATE INDEX IF NOT EXISTS idx_applications_date ON applications (date_applied);
CREATE INDEX IF NOT EXISTS idx_applications_remind ON applications (remind_at) WHERE remind_at IS NOT NULL;

CREATE TABLE IF NOT EXISTS application_status_history (
	id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	application_id UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
	old_status     TEXT NOT NULL,
	new_status     TEXT NOT NULL,
	actor_id       UUID NOT NULL,
	reason         TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_history_application ON application_status_history (application_id);
CREATE INDEX IF NOT EXISTS idx_history_created ON application_status_history (created_at);

CREATE TABLE IF NOT EXISTS application_notes (
	id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	application_id UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
	author_id      UUID NOT NULL,
	content        TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_notes_application ON application_notes (application_id);
`)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
