// Package main はアプリケーションのエントリーポイントを提供します。
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/stsysd/lifemap/api"
	"github.com/stsysd/lifemap/config"
	"github.com/stsysd/lifemap/db"
	"github.com/stsysd/lifemap/store"
)

func main() {
	// 設定の読み込み
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	style, err := config.LoadStyle(cfg.StylePath)
	if err != nil {
		logger.Fatal("Failed to load style", zap.String("path", cfg.StylePath), zap.Error(err))
	}

	// マイグレーション後のスキーマバージョンを記録する
	migrate := func(ctx context.Context, conn *sql.DB) error {
		version, err := db.Migrate(ctx, conn)
		if err != nil {
			return err
		}
		logger.Info("Database migrated", zap.Int64("version", version))
		return nil
	}

	// SQLiteストアの初期化（マイグレーション関数を渡す）
	sqliteStore, err := store.NewSQLiteStore(context.Background(), cfg.DataDir, migrate)
	if err != nil {
		logger.Fatal("Failed to initialize SQLite store", zap.Error(err))
	}
	defer sqliteStore.Close()

	// サーバーインスタンスの作成
	server := api.NewServer(sqliteStore, cfg, logger, style)

	// サーバーの起動
	if err := server.Run(":" + cfg.Port); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
