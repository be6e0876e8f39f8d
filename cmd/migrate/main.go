package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Накатывает sql-файлы из migrations/ по порядку имён.
// Применённые помнит в schema_migrations.

func main() {
	viper.SetConfigName(".migrate")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetDefault("source", "migrations/*.sql")
	_ = viper.ReadInConfig() // файл опционален, хватает и env

	viper.AutomaticEnv()
	_ = viper.BindEnv("dsn", "DATABASE_DSN")

	dsn := viper.GetString("dsn")
	if dsn == "" {
		panic("DATABASE_DSN is empty")
	}

	files, err := filepath.Glob(viper.GetString("source"))
	if err != nil {
		panic(fmt.Errorf("get file glob: %w", err))
	}
	if len(files) == 0 {
		panic("no migration files found")
	}
	sort.Strings(files)

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		panic(errors.Wrap(err, "connect"))
	}
	defer func() { _ = conn.Close(ctx) }()

	if err := ensureTable(ctx, conn); err != nil {
		panic(err)
	}

	for _, file := range files {
		applied, err := apply(ctx, conn, file)
		if err != nil {
			panic(errors.Wrapf(err, "apply %s", file))
		}
		if applied {
			fmt.Printf("%s file complete\n", file)
		} else {
			fmt.Printf("%s skipped\n", file)
		}
	}
	fmt.Println("done")
}

func ensureTable(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return errors.Wrap(err, "ensure schema_migrations")
}

func apply(ctx context.Context, conn *pgx.Conn, file string) (bool, error) {
	name := filepath.Base(file)

	var exists bool
	err := conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "check applied")
	}
	if exists {
		return false, nil
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return false, errors.Wrap(err, "read file")
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return false, errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, string(raw)); err != nil {
		return false, errors.Wrap(err, "exec")
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (name) VALUES ($1)`, name,
	); err != nil {
		return false, errors.Wrap(err, "mark applied")
	}

	return true, errors.Wrap(tx.Commit(ctx), "commit")
}
