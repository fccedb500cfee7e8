// internal/database/migrate.go
//
// Embedded schema migrations.
//
// Context
// -------
// SQL files live under migrations/<driver>/NNN_name.sql and are compiled
// into the binary.  Migrate applies, in lexical order, every file whose
// name is not yet recorded in `schema_migrations`.  Each file is split on
// `;` after full-line `--` comments are stripped, and the statements run
// one at a time because MySQL rejects multi-statement Exec by default.
//
// Notes
// -----
//   - DDL is not transactional on MySQL, so a failed file is not recorded
//     and is retried on the next start.  Files must be idempotent
//     (IF NOT EXISTS).
//   - Oxford commas, two spaces after periods.
package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationFS embed.FS

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(255) NOT NULL PRIMARY KEY,
    applied_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Migrate applies the embedded migrations for driver.
func Migrate(ctx context.Context, db *sqlx.DB, driver string) error {
	sub, err := fs.Sub(migrationFS, path.Join("migrations", driver))
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", driver, err)
	}
	return migrate(ctx, db, sub)
}

func migrate(ctx context.Context, db *sqlx.DB, fsys fs.FS) error {
	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)
	if len(files) == 0 {
		zap.S().Infow("no migration files found")
		return nil
	}

	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, `SELECT version FROM schema_migrations`); err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	done := make(map[string]struct{}, len(applied))
	for _, v := range applied {
		done[v] = struct{}{}
	}

	for _, name := range files {
		if _, ok := done[name]; ok {
			continue
		}
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}

		zap.S().Infow("running migration", "file", name)
		for _, stmt := range splitStatements(string(raw)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration %s: %w", name, err)
			}
		}
		if _, err := db.ExecContext(ctx,
			db.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		zap.S().Infow("migration completed", "file", name)
	}
	return nil
}

// splitStatements drops full-line comments and splits on semicolons.
func splitStatements(sql string) []string {
	var b strings.Builder
	for _, line := range strings.Split(sql, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var out []string
	for _, s := range strings.Split(b.String(), ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
