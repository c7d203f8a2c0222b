package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id    BIGINT PRIMARY KEY,
		first_name VARCHAR(256) NOT NULL,
		last_name  VARCHAR(256) NOT NULL DEFAULT '',
		username   VARCHAR(256) NOT NULL DEFAULT '',
		is_bot     BOOLEAN NOT NULL DEFAULT FALSE,
		is_admin   BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		id       UUID PRIMARY KEY,
		seq      BIGSERIAL NOT NULL,
		user_id  BIGINT NOT NULL REFERENCES users (user_id),
		pic_date DATE NOT NULL,
		added_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, pic_date)
	)`,
	`CREATE INDEX IF NOT EXISTS favorites_user_added_idx ON favorites (user_id, added_at DESC, seq DESC)`,
}

// Migrate creates the tables the bot needs if they do not exist yet
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
