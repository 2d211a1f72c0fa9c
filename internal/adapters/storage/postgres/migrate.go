package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"paw-connect/internal/domain/specializations"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate aplica el esquema (idempotente, CREATE ... IF NOT EXISTS) y siembra el
// vocabulario de especializaciones sin pisar ediciones previas.
func Migrate(ctx context.Context, db *sql.DB) error {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := migrationFiles.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}

	for _, s := range specializations.Seed() {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO specializations (id, title, short_description)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING
		`, s.ID, s.Title, s.ShortDescription); err != nil {
			return fmt.Errorf("seed specialization %s: %w", s.ID, err)
		}
	}
	return nil
}
