package integration_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"

	"energy-audit/internal/audit"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestAuditLog_Postgres(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if !tableExists(db, "analysis_audit_logs") {
		t.Skip("analysis_audit_logs missing; run migrations")
	}

	ctx := context.Background()
	actor := "auditor-it"

	_, _ = db.ExecContext(ctx, "DELETE FROM analysis_audit_logs WHERE actor = $1", actor)

	repo := audit.NewRepository(db)
	meta, _ := json.Marshal(map[string]any{"variant": "simple", "features": []string{"temperature"}})

	entry := audit.Entry{
		Actor:       actor,
		Role:        "auditor",
		Action:      audit.ActionModelFitted,
		DatasetRows: 3,
		Metadata:    meta,
	}
	if err := repo.Log(ctx, entry); err != nil {
		t.Fatalf("log entry: %v", err)
	}

	var (
		action string
		rows   int
		digest string
	)
	err = db.QueryRowContext(ctx, `
SELECT action, dataset_rows, payload_digest
FROM analysis_audit_logs
WHERE actor = $1`, actor).Scan(&action, &rows, &digest)
	if err != nil {
		t.Fatalf("read back entry: %v", err)
	}
	if action != audit.ActionModelFitted {
		t.Fatalf("action mismatch: got=%q want=%q", action, audit.ActionModelFitted)
	}
	if rows != 3 {
		t.Fatalf("dataset_rows mismatch: got=%d want=3", rows)
	}
	if digest != audit.DigestJSON(meta) {
		t.Fatalf("payload digest mismatch: got=%q", digest)
	}
}

func tableExists(db *sql.DB, table string) bool {
	var exists bool
	err := db.QueryRow(`
SELECT EXISTS (
	SELECT 1
	FROM information_schema.tables
	WHERE table_schema = 'public' AND table_name = $1
)`, table).Scan(&exists)
	if err != nil {
		return false
	}
	return exists
}
