package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateVideoTables, downCreateVideoTables)
}

func upCreateVideoTables(tx *sql.Tx) error {
	createVideoAssets := `
	CREATE TABLE video_assets (
		id UUID PRIMARY KEY,
		owner_id VARCHAR(255) NOT NULL,
		title VARCHAR(255),
		description TEXT,
		language VARCHAR(10),
		original_name VARCHAR(255),
		source_path VARCHAR(500),
		external_url VARCHAR(500),
		checksum VARCHAR(64),
		manifest_path VARCHAR(500),
		thumbnail_path VARCHAR(500),
		duration_seconds DOUBLE PRECISION,
		trim_start DOUBLE PRECISION,
		trim_end DOUBLE PRECISION,
		status VARCHAR(20) NOT NULL,
		error_message TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`
	if _, err := tx.Exec(createVideoAssets); err != nil {
		return fmt.Errorf("could not create video_assets table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX idx_video_assets_owner_id ON video_assets (owner_id);`,
		`CREATE INDEX idx_video_assets_status ON video_assets (status);`,
	}
	for _, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("could not create index: %w", err)
		}
	}

	createAuditEntries := `
	CREATE TABLE admin_audit_entries (
		id UUID PRIMARY KEY,
		actor VARCHAR(255) NOT NULL,
		action VARCHAR(100) NOT NULL,
		affected INTEGER NOT NULL DEFAULT 0,
		detail TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`
	if _, err := tx.Exec(createAuditEntries); err != nil {
		return fmt.Errorf("could not create admin_audit_entries table: %w", err)
	}

	return nil
}

func downCreateVideoTables(tx *sql.Tx) error {
	for _, table := range []string{"admin_audit_entries", "video_assets"} {
		if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s;", table)); err != nil {
			return fmt.Errorf("could not drop table %s: %w", table, err)
		}
	}
	return nil
}
