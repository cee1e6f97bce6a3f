package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email             TEXT        NOT NULL UNIQUE,
  name              TEXT        NOT NULL,
  password_hash     TEXT        NOT NULL DEFAULT '',
  image             TEXT        NOT NULL DEFAULT '',
  role              TEXT        NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
  email_verified_at TIMESTAMPTZ,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_accounts",
		SQL: `CREATE TABLE IF NOT EXISTS accounts (
  id                  UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id             UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  provider            TEXT        NOT NULL,
  provider_account_id TEXT        NOT NULL,
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (provider, provider_account_id)
);`,
	},
	{
		Name: "create_index_accounts_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts (user_id);`,
	},
	{
		Name: "create_table_verification_tokens",
		SQL: `CREATE TABLE IF NOT EXISTS verification_tokens (
  token      TEXT        PRIMARY KEY,
  user_id    UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  expires_at TIMESTAMPTZ NOT NULL
);`,
	},
	{
		Name: "create_table_communities",
		SQL: `CREATE TABLE IF NOT EXISTS communities (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name        TEXT        NOT NULL,
  slug        TEXT        NOT NULL UNIQUE,
  description TEXT        NOT NULL DEFAULT '',
  parent_id   UUID        REFERENCES communities (id),
  cover_path  TEXT        NOT NULL DEFAULT '',
  created_by  UUID        NOT NULL REFERENCES users (id),
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_communities_parent_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_communities_parent_id ON communities (parent_id);`,
	},
	{
		Name: "create_table_community_admins",
		SQL: `CREATE TABLE IF NOT EXISTS community_admins (
  community_id UUID        NOT NULL REFERENCES communities (id) ON DELETE CASCADE,
  user_id      UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  role         TEXT        NOT NULL CHECK (role IN ('organizer', 'moderator')),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (community_id, user_id)
);`,
	},
	{
		Name: "create_table_community_members",
		SQL: `CREATE TABLE IF NOT EXISTS community_members (
  community_id UUID        NOT NULL REFERENCES communities (id) ON DELETE CASCADE,
  user_id      UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  joined_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (community_id, user_id)
);`,
	},
	{
		Name: "create_table_events",
		SQL: `CREATE TABLE IF NOT EXISTS events (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  community_id UUID        NOT NULL REFERENCES communities (id) ON DELETE CASCADE,
  title        TEXT        NOT NULL,
  description  TEXT        NOT NULL DEFAULT '',
  event_type   TEXT        NOT NULL CHECK (event_type IN ('in_person', 'online', 'hybrid')),
  metadata     JSONB       NOT NULL DEFAULT '{}',
  starts_at    TIMESTAMPTZ NOT NULL,
  ends_at      TIMESTAMPTZ NOT NULL,
  cover_path   TEXT        NOT NULL DEFAULT '',
  created_by   UUID        NOT NULL REFERENCES users (id),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_events_community_starts",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_events_community_starts ON events (community_id, starts_at);`,
	},
	{
		Name: "create_table_subscriptions",
		SQL: `CREATE TABLE IF NOT EXISTS subscriptions (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id    UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  kind       TEXT        NOT NULL CHECK (kind IN ('paid', 'complimentary')),
  status     TEXT        NOT NULL CHECK (status IN ('active', 'canceled', 'expired')),
  starts_at  TIMESTAMPTZ NOT NULL,
  expires_at TIMESTAMPTZ NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_subscriptions_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id ON subscriptions (user_id);`,
	},
	{
		Name: "create_table_subscription_requests",
		SQL: `CREATE TABLE IF NOT EXISTS subscription_requests (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id     UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  status      TEXT        NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
  reason      TEXT        NOT NULL DEFAULT '',
  reviewed_by UUID        REFERENCES users (id),
  reviewed_at TIMESTAMPTZ,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_subscription_requests_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_subscription_requests_status ON subscription_requests (status);`,
	},
	{
		Name: "create_table_payment_transactions",
		SQL: `CREATE TABLE IF NOT EXISTS payment_transactions (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id         UUID        NOT NULL REFERENCES users (id),
  subscription_id UUID        REFERENCES subscriptions (id),
  amount_cents    BIGINT      NOT NULL CHECK (amount_cents >= 0),
  currency        TEXT        NOT NULL,
  status          TEXT        NOT NULL CHECK (status IN ('completed', 'failed')),
  reference       TEXT        NOT NULL DEFAULT '',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated checks if the 'users' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.users') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
