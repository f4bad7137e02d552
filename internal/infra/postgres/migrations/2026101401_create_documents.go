package migrations

import (
	"context"
	_ "embed"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_documents.up.sql
var createDocumentsSQL string

//go:embed 0001_create_documents.down.sql
var dropDocumentsSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return execAll(ctx, db, createDocumentsSQL)
		},
		func(ctx context.Context, db *bun.DB) error {
			return execAll(ctx, db, dropDocumentsSQL)
		},
	)
}

// execAll runs each ';'-terminated statement of script in order.
func execAll(ctx context.Context, db *bun.DB, script string) error {
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
