// Package store は、データの永続化機能を提供します。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stsysd/lifemap/db"
	"github.com/stsysd/lifemap/model"
)

// DBFileName はデータディレクトリ内のデータベースファイル名です。
const DBFileName = "lifemap.db"

// LifeMapStore はライフマップの保存と取得を行うインターフェースです。
// ライフマップはカテゴリとアイテムを含む集約として一括で保存されます。
type LifeMapStore interface {
	// CreateLifeMap は新しいライフマップを作成します。
	CreateLifeMap(ctx context.Context, m *model.LifeMap) error
	// GetLifeMap は指定されたIDのライフマップをカテゴリとアイテムを含めて取得します。
	GetLifeMap(ctx context.Context, id uuid.UUID) (*model.LifeMap, error)
	// SaveLifeMap は既存のライフマップの設定・カテゴリ・アイテムを置き換えます。
	SaveLifeMap(ctx context.Context, m *model.LifeMap) error
	// DeleteLifeMap は指定されたIDのライフマップを削除します。
	DeleteLifeMap(ctx context.Context, id uuid.UUID) error
	// ListLifeMaps はライフマップの一覧を更新日時の降順で取得します（カテゴリとアイテムは含みません）。
	ListLifeMaps(ctx context.Context, pagination *model.Pagination) ([]*model.LifeMap, error)
	// Close はストアの接続を閉じます。
	Close() error
}

// SQLiteStore はSQLiteを使用したLifeMapStoreの実装です。
type SQLiteStore struct {
	conn    *sql.DB
	queries *db.Queries
}

// MigrateFunc はデータベース接続にスキーマを適用する関数です。
type MigrateFunc func(ctx context.Context, conn *sql.DB) error

// DefaultMigrate は埋め込みのgooseマイグレーションを適用します。
func DefaultMigrate(ctx context.Context, conn *sql.DB) error {
	_, err := db.Migrate(ctx, conn)
	return err
}

// NewSQLiteStore はデータディレクトリ内にSQLiteStoreを作成し、migrate でスキーマを適用します。
func NewSQLiteStore(ctx context.Context, dataDir string, migrate MigrateFunc) (*SQLiteStore, error) {
	// データディレクトリの作成（存在しない場合）
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// SQLiteデータベースへの接続
	conn, err := sql.Open("sqlite3", dsn(filepath.Join(dataDir, DBFileName), false))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	// テーブルの初期化
	if err := migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}

	return &SQLiteStore{
		conn:    conn,
		queries: db.New(conn),
	}, nil
}

// OpenReadOnly は既存のデータベースファイルを読み取り専用で開きます。マイグレーションは行いません。
func OpenReadOnly(dbPath string) (*SQLiteStore, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("database not found: %w", err)
	}
	conn, err := sql.Open("sqlite3", dsn(dbPath, true))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}
	return &SQLiteStore{
		conn:    conn,
		queries: db.New(conn),
	}, nil
}

// 外部キー制約は接続ごとに有効化する必要があるためDSNで指定する
func dsn(path string, readOnly bool) string {
	s := "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
	if readOnly {
		s += "&mode=ro"
	}
	return s
}

// CreateLifeMap は新しいライフマップをデータベースに保存します。
func (s *SQLiteStore) CreateLifeMap(ctx context.Context, m *model.LifeMap) error {
	// バリデーション
	if err := m.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(q *db.Queries) error {
		err := q.CreateLifeMap(ctx, db.CreateLifeMapParams{
			ID:          m.ID.String(),
			Title:       m.Title,
			DateOfBirth: m.DateOfBirth,
			AgeRange:    int64(m.AgeRange),
			Zoom:        m.Zoom,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
			UpdatedAt:   m.UpdatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return fmt.Errorf("failed to create life map: %w", err)
		}
		return insertChildren(ctx, q, m)
	})
}

// SaveLifeMap は既存のライフマップを置き換えます。
func (s *SQLiteStore) SaveLifeMap(ctx context.Context, m *model.LifeMap) error {
	// バリデーション
	if err := m.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(q *db.Queries) error {
		result, err := q.UpdateLifeMap(ctx, db.UpdateLifeMapParams{
			Title:       m.Title,
			DateOfBirth: m.DateOfBirth,
			AgeRange:    int64(m.AgeRange),
			Zoom:        m.Zoom,
			UpdatedAt:   m.UpdatedAt.Format(time.RFC3339),
			ID:          m.ID.String(),
		})
		if err != nil {
			return fmt.Errorf("failed to update life map: %w", err)
		}

		// 更新された行数を確認
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return model.ErrLifeMapNotFound
		}

		// 子要素は削除して入れ直す（アイテムはカテゴリを参照するため先に削除）
		if err := q.DeleteItems(ctx, m.ID.String()); err != nil {
			return fmt.Errorf("failed to delete items: %w", err)
		}
		if err := q.DeleteCategories(ctx, m.ID.String()); err != nil {
			return fmt.Errorf("failed to delete categories: %w", err)
		}
		return insertChildren(ctx, q, m)
	})
}

func insertChildren(ctx context.Context, q *db.Queries, m *model.LifeMap) error {
	mapID := m.ID.String()
	for _, c := range m.Categories {
		err := q.CreateCategory(ctx, db.CreateCategoryParams{
			MapID:        mapID,
			ID:           c.ID,
			Name:         c.Name,
			Label:        c.Label,
			Section:      string(c.Section),
			DisplayOrder: int64(c.DisplayOrder),
			Color:        string(c.Color),
		})
		if err != nil {
			return fmt.Errorf("failed to create category %d: %w", c.ID, err)
		}
	}
	for _, it := range m.Items {
		var useMaxAge int64
		if it.UseMaxAge {
			useMaxAge = 1
		}
		err := q.CreateItem(ctx, db.CreateItemParams{
			MapID:       mapID,
			ID:          it.ID,
			CategoryID:  it.CategoryID,
			Title:       it.Title,
			Description: it.Description,
			Color:       string(it.Color),
			InputMode:   string(it.Mode()),
			StartAge:    nullFloat(it.StartAge),
			EndAge:      nullFloat(it.EndAge),
			StartDate:   it.StartDate,
			EndDate:     it.EndDate,
			UseMaxAge:   useMaxAge,
		})
		if err != nil {
			return fmt.Errorf("failed to create item %d: %w", it.ID, err)
		}
	}
	return nil
}

// GetLifeMap は指定されたIDのライフマップを取得します。
func (s *SQLiteStore) GetLifeMap(ctx context.Context, id uuid.UUID) (*model.LifeMap, error) {
	// sqlcで生成されたクエリを使用
	row, err := s.queries.GetLifeMap(ctx, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrLifeMapNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get life map: %w", err)
	}

	m, err := loadLifeMap(row)
	if err != nil {
		return nil, err
	}

	categories, err := s.queries.ListCategories(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	for _, c := range categories {
		category, err := model.LoadCategory(c.ID, c.Name, c.Label, model.Section(c.Section), int(c.DisplayOrder), model.Color(c.Color))
		if err != nil {
			return nil, fmt.Errorf("failed to load category %d: %w", c.ID, err)
		}
		m.Categories = append(m.Categories, category)
	}

	items, err := s.queries.ListItems(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	for _, i := range items {
		item, err := model.LoadTimelineItem(model.TimelineItem{
			ID:          i.ID,
			CategoryID:  i.CategoryID,
			Title:       i.Title,
			Description: i.Description,
			Color:       model.Color(i.Color),
			InputMode:   model.InputMode(i.InputMode),
			StartAge:    floatPtr(i.StartAge),
			EndAge:      floatPtr(i.EndAge),
			StartDate:   i.StartDate,
			EndDate:     i.EndDate,
			UseMaxAge:   i.UseMaxAge != 0,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load item %d: %w", i.ID, err)
		}
		m.Items = append(m.Items, item)
	}

	return m, nil
}

// ListLifeMaps はライフマップの一覧を取得します。
func (s *SQLiteStore) ListLifeMaps(ctx context.Context, pagination *model.Pagination) ([]*model.LifeMap, error) {
	// sqlcで生成されたクエリを使用
	rows, err := s.queries.ListLifeMaps(ctx, db.ListLifeMapsParams{
		Limit:  int64(pagination.Limit()),
		Offset: int64(pagination.Offset()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list life maps: %w", err)
	}

	// 結果の変換
	maps := []*model.LifeMap{}
	for _, row := range rows {
		m, err := loadLifeMap(row)
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, nil
}

// DeleteLifeMap は指定されたIDのライフマップを削除します。カテゴリとアイテムは連鎖削除されます。
func (s *SQLiteStore) DeleteLifeMap(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(q *db.Queries) error {
		if err := q.DeleteItems(ctx, id.String()); err != nil {
			return fmt.Errorf("failed to delete items: %w", err)
		}
		if err := q.DeleteCategories(ctx, id.String()); err != nil {
			return fmt.Errorf("failed to delete categories: %w", err)
		}
		result, err := q.DeleteLifeMap(ctx, id.String())
		if err != nil {
			return fmt.Errorf("failed to delete life map: %w", err)
		}

		// 削除された行数を確認
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return model.ErrLifeMapNotFound
		}
		return nil
	})
}

// Close はデータベース接続を閉じます。
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// withTx はトランザクション内で fn を実行し、エラーがなければコミットします。
func (s *SQLiteStore) withTx(ctx context.Context, fn func(q *db.Queries) error) error {
	// トランザクションの開始
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// トランザクションをロールバックするための遅延関数
	defer func() {
		if tx != nil {
			tx.Rollback() // 成功した場合は既にnilになっているためエラーは無視
		}
	}()

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}

	// トランザクションのコミット
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil // コミットが成功したのでnilにして遅延関数でのロールバックを防ぐ

	return nil
}

func loadLifeMap(row db.LifeMap) (*model.LifeMap, error) {
	// UUIDの解析
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID in database: %w", err)
	}

	// 文字列から時間に変換
	createdAt, err := time.Parse(time.RFC3339, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	m, err := model.LoadLifeMap(id, row.Title, row.DateOfBirth, int(row.AgeRange), row.Zoom, createdAt, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load life map: %w", err)
	}
	return m, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
