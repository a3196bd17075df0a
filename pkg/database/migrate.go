package database

import (
	"database/sql"
	"fmt"
)

// schema is applied on every start; CREATE IF NOT EXISTS keeps it
// idempotent so the app can create its own database on first run.
const schema = `
CREATE TABLE IF NOT EXISTS media_items (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	type            TEXT NOT NULL,
	status          TEXT NOT NULL DEFAULT 'Planning',
	rating          INTEGER NOT NULL DEFAULT 0,
	progress        TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	review          TEXT NOT NULL DEFAULT '',
	notes           TEXT NOT NULL DEFAULT '',
	universe        TEXT NOT NULL DEFAULT '',
	series          TEXT NOT NULL DEFAULT '',
	series_number   TEXT NOT NULL DEFAULT '',
	cover_url       TEXT NOT NULL DEFAULT '',
	cover_image     BLOB,
	cover_mime      TEXT NOT NULL DEFAULT '',
	is_hidden       INTEGER NOT NULL DEFAULT 0,
	authors         TEXT NOT NULL DEFAULT '[]',
	alternate_titles TEXT NOT NULL DEFAULT '[]',
	abbreviations   TEXT NOT NULL DEFAULT '[]',
	no_abbreviations INTEGER NOT NULL DEFAULT 0,
	tags            TEXT NOT NULL DEFAULT '[]',
	external_links  TEXT NOT NULL DEFAULT '[]',
	children        TEXT NOT NULL DEFAULT '[]',
	totals          TEXT NOT NULL DEFAULT '{}',
	override_totals INTEGER NOT NULL DEFAULT 0,
	created_at      TIMESTAMP NOT NULL,
	updated_at      TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_media_items_updated_at
	ON media_items (updated_at DESC);

CREATE TABLE IF NOT EXISTS tags (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	color       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL
);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
