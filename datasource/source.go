// Package datasource はlifemapのSQLiteデータベースを探索し、読み取り専用で開きます。
package datasource

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stsysd/lifemap/store"
)

// EnvDB はデータベースファイルを直接指定する環境変数です。
const EnvDB = "LIFEMAP_DB"

// defaultDB はカレントディレクトリから見た既定のデータベースパスです。
var defaultDB = filepath.Join("data", store.DBFileName)

// Discover はデータベースのパスを探索します。
// 優先順位: explicit（--db フラグ）> LIFEMAP_DB > ./data/lifemap.db > 親ディレクトリを遡って探索
func Discover(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("--db %q: %w", explicit, os.ErrNotExist)
		}
		return explicit, nil
	}

	if env := os.Getenv(EnvDB); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env, nil
		}
		return "", fmt.Errorf("%s=%q: %w", EnvDB, env, os.ErrNotExist)
	}

	// カレントディレクトリを先に確認
	if _, err := os.Stat(defaultDB); err == nil {
		abs, err := filepath.Abs(defaultDB)
		if err != nil {
			return "", fmt.Errorf("resolve absolute path for %s: %w", defaultDB, err)
		}
		return abs, nil
	}

	// 親ディレクトリを遡る
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, defaultDB)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no lifemap database found (looked for %s)", defaultDB)
}

// Open はデータベースを探索し、読み取り専用のストアとして開きます。
func Open(explicit string) (*store.SQLiteStore, string, error) {
	path, err := Discover(explicit)
	if err != nil {
		return nil, "", err
	}
	s, err := store.OpenReadOnly(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	return s, path, nil
}
