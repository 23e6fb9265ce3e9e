package migrations

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"library-service/pkg/database"
)

//go:embed *.sql
var files embed.FS

// Apply executes all embedded migration files in lexical order.
// Statements are idempotent, so re-running on an existing schema is safe.
func Apply(ctx context.Context, db database.PgxIface) error {
	entries, err := files.ReadDir(".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := db.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	return nil
}
