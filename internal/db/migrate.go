package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillCreatedHistory(db); err != nil {
		return fmt.Errorf("backfilling created history: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		version          TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		hierarchy        TEXT NOT NULL DEFAULT 'release'
		                 CHECK(hierarchy IN ('release','workflow')),
		category         TEXT NOT NULL DEFAULT '',
		tags             TEXT NOT NULL DEFAULT '[]',
		target_date      TEXT,
		status           TEXT NOT NULL DEFAULT 'active'
		                 CHECK(status IN ('active','closed')),
		node_count       INTEGER NOT NULL DEFAULT 0,
		completion       INTEGER NOT NULL DEFAULT 0
		                 CHECK(completion BETWEEN 0 AND 100),
		preview_central  TEXT NOT NULL DEFAULT '',
		preview_branches TEXT NOT NULL DEFAULT '[]',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plans_status ON plans(status)`,

	`CREATE TABLE IF NOT EXISTS plan_status_history (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		plan_id         TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		seq             INTEGER NOT NULL,
		action          TEXT NOT NULL
		                CHECK(action IN ('created','closed','reopened')),
		reason          TEXT NOT NULL DEFAULT '',
		user            TEXT NOT NULL DEFAULT '',
		previous_status TEXT NOT NULL DEFAULT '',
		new_status      TEXT NOT NULL DEFAULT '',
		timestamp       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_history_plan ON plan_status_history(plan_id, seq)`,

	`CREATE TABLE IF NOT EXISTS plan_nodes (
		plan_id     TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		id          TEXT NOT NULL,
		parent_id   TEXT,
		title       TEXT NOT NULL,
		kind        TEXT NOT NULL
		            CHECK(kind IN ('release','feature','task','central','branch','leaf')),
		color       TEXT NOT NULL DEFAULT '',
		icon        TEXT NOT NULL DEFAULT '',
		expanded    INTEGER NOT NULL DEFAULT 0,
		order_index INTEGER NOT NULL DEFAULT 0,
		properties  TEXT NOT NULL DEFAULT '{}',
		PRIMARY KEY (plan_id, id),
		FOREIGN KEY (plan_id, parent_id) REFERENCES plan_nodes(plan_id, id) ON DELETE CASCADE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_nodes_parent ON plan_nodes(plan_id, parent_id, order_index)`,

	// v2: environment moved from per-node only to the plan as well
	`ALTER TABLE plans ADD COLUMN environment TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillCreatedHistory gives plans written before history tracking
// a "created" entry stamped with their created_at. Idempotent: plans that
// already have any history are skipped.
func migrateBackfillCreatedHistory(db *sql.DB) error {
	ctx := context.Background()

	query := `INSERT INTO plan_status_history (plan_id, seq, action, new_status, timestamp)
		SELECT p.id, 0, 'created', 'active', p.created_at
		FROM plans p
		WHERE NOT EXISTS (SELECT 1 FROM plan_status_history h WHERE h.plan_id = p.id)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("inserting created history rows: %w", err)
	}
	return nil
}
