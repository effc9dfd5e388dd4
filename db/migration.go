package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed schema/*.sql
var embedMigrations embed.FS

// Migrate はデータベースに対してマイグレーションを実行し、適用後のスキーマバージョンを返します。
func Migrate(ctx context.Context, conn *sql.DB) (int64, error) {
	// 外部キー制約を有効化
	if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		return 0, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema, err := fs.Sub(embedMigrations, "schema")
	if err != nil {
		return 0, fmt.Errorf("failed to open embedded schema: %w", err)
	}

	// グローバル状態を持たない Provider を使用
	provider, err := goose.NewProvider(goose.DialectSQLite3, conn, schema)
	if err != nil {
		return 0, fmt.Errorf("failed to create goose provider: %w", err)
	}

	// マイグレーションを実行
	if _, err := provider.Up(ctx); err != nil {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
