// Package config はアプリケーション設定を管理します。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/stsysd/lifemap/timeline"
)

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	// データディレクトリのパス
	DataDir string

	// HTTPサーバーのポート
	Port string

	// API認証キー
	APIKey string

	// 描画スタイルのYAMLファイル（空の場合は既定のスタイル）
	StylePath string

	// ログレベル（debug, info, warn, error）
	LogLevel string

	// 実行環境（development の場合は開発用ロガー）
	Env string
}

// NewConfig は環境変数から設定を読み込み、Configインスタンスを生成します。
func NewConfig() (*Config, error) {
	// データディレクトリの設定
	dataDir := os.Getenv("LIFEMAP_DATA_DIR")
	if dataDir == "" {
		dataDir = filepath.Join(".", "data")
	}

	// ポートの設定
	port := os.Getenv("LIFEMAP_SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	// API認証キーの設定
	apiKey := os.Getenv("LIFEMAP_API_KEY")
	if apiKey == "" {
		// デフォルトキーは設定しない
		return nil, errors.New("LIFEMAP_API_KEY is not set")
	}

	logLevel := os.Getenv("LIFEMAP_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	if _, err := zapcore.ParseLevel(logLevel); err != nil {
		return nil, fmt.Errorf("invalid LIFEMAP_LOG_LEVEL: %w", err)
	}

	env := os.Getenv("LIFEMAP_ENV")
	if env == "" {
		env = "development"
	}

	return &Config{
		DataDir:   dataDir,
		Port:      port,
		APIKey:    apiKey,
		StylePath: os.Getenv("LIFEMAP_STYLE"),
		LogLevel:  logLevel,
		Env:       env,
	}, nil
}

// NewLogger は設定に応じたzapロガーを生成します。
// outputs を指定した場合は標準エラーではなくそのパス（ファイルなど）に出力します。
func NewLogger(level, env string, outputs ...string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if len(outputs) > 0 {
		cfg.OutputPaths = outputs
		cfg.ErrorOutputPaths = outputs
	}
	return cfg.Build()
}

// LoadStyle はYAMLファイルから描画スタイルを読み込みます。
// ファイルに書かれていない項目は既定のスタイルの値になります。
func LoadStyle(path string) (*timeline.Style, error) {
	style := timeline.DefaultStyle()
	if path == "" {
		return style, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read style file: %w", err)
	}
	if err := yaml.Unmarshal(data, style); err != nil {
		return nil, fmt.Errorf("failed to parse style file: %w", err)
	}
	if style.BandOpacity < 0 || style.BandOpacity > 1 {
		return nil, fmt.Errorf("band_opacity must be between 0 and 1")
	}
	return style, nil
}
