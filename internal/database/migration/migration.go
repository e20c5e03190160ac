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
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id           UUID        PRIMARY KEY,
  title        VARCHAR(255) NOT NULL,
  description  VARCHAR(2000),
  filename     TEXT        NOT NULL,
  content_type TEXT        NOT NULL,
  size         BIGINT      NOT NULL CHECK (size > 0),
  storage_path TEXT        NOT NULL UNIQUE,
  owner_email  VARCHAR(255) NOT NULL,
  access_type  VARCHAR(16) NOT NULL DEFAULT 'Private',
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_owner_email",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_owner_email ON documents (owner_email);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
	},
	{
		Name: "create_table_tags",
		SQL: `CREATE TABLE IF NOT EXISTS tags (
  id         UUID        PRIMARY KEY,
  name       VARCHAR(50) NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		// No two tags may differ only in case.
		Name: "create_unique_index_tags_name_lower",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS uq_tags_name_lower ON tags (lower(name));`,
	},
	{
		Name: "create_table_document_tags",
		SQL: `CREATE TABLE IF NOT EXISTS document_tags (
  document_id UUID        NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  tag_id      UUID        NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (document_id, tag_id)
);`,
	},
	{
		Name: "create_table_document_shares",
		SQL: `CREATE TABLE IF NOT EXISTS document_shares (
  id               UUID         PRIMARY KEY,
  document_id      UUID         NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
  grantee_email    VARCHAR(255) NOT NULL,
  permission_level VARCHAR(8)   NOT NULL,
  granted_by       VARCHAR(255) NOT NULL,
  created_at       TIMESTAMPTZ  NOT NULL DEFAULT now(),
  revoked_at       TIMESTAMPTZ
);`,
	},
	{
		// At most one active share per (document, grantee). Revoked rows
		// fall out of the index so a grantee can be re-shared later.
		Name: "create_unique_index_document_shares_active",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS uq_document_shares_active
  ON document_shares (document_id, grantee_email) WHERE revoked_at IS NULL;`,
	},
	{
		Name: "create_index_document_shares_grantee",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_document_shares_grantee ON document_shares (grantee_email);`,
	},
	{
		Name: "create_table_audit_logs",
		SQL: `CREATE TABLE IF NOT EXISTS audit_logs (
  id          UUID         PRIMARY KEY,
  actor_email VARCHAR(255) NOT NULL,
  action      VARCHAR(64)  NOT NULL,
  entity_type VARCHAR(64)  NOT NULL,
  entity_id   TEXT,
  ip_address  TEXT,
  details     TEXT,
  document_id UUID         REFERENCES documents (id) ON DELETE SET NULL,
  created_at  TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_audit_logs_document_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_logs_document_id ON audit_logs (document_id);`,
	},
	{
		Name: "create_index_audit_logs_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs (created_at);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
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
