package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pribylovaa/valet/internal/storage/postgres/migrations"
	"github.com/pressly/goose/v3"
)

// gooseUp — шов для тестов.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Migrate применяет встроенные миграции поверх пула соединений.
func (s *ProfilesStorage) Migrate(ctx context.Context) error {
	const op = "storage/postgres/Migrate"

	db := stdlib.OpenDBFromPool(s.db)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
