// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"errors"
	"strings"
	"unicode"
)

// Category はタイムラインのカテゴリ（年齢バーの上下に並ぶ行）を表すモデルです。
type Category struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`          // 内部名（小文字とアンダースコア）
	Label        string  `json:"label"`         // 表示名
	Section      Section `json:"section"`       // top または bottom
	DisplayOrder int     `json:"display_order"` // セクション内の表示順（0から連続）
	Color        Color   `json:"color"`         // デフォルトの色
}

// LoadCategory は既存のCategoryインスタンスを作成します。
func LoadCategory(id int64, name, label string, section Section, order int, color Color) (*Category, error) {
	c := &Category{
		ID:           id,
		Name:         name,
		Label:        label,
		Section:      section,
		DisplayOrder: order,
		Color:        color,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate はカテゴリのデータバリデーションを行います。
func (c *Category) Validate() error {
	if c.ID <= 0 {
		return errors.New("category id is required")
	}
	if c.Name == "" {
		return errors.New("category name is required")
	}
	if !isNameToken(c.Name) {
		return errors.New("category name must be a lowercase/underscore token")
	}
	if strings.TrimSpace(c.Label) == "" {
		return errors.New("category label is required")
	}
	if _, err := ParseSection(string(c.Section)); err != nil {
		return err
	}
	if c.DisplayOrder < 0 {
		return errors.New("display_order must be non-negative")
	}
	if _, err := ParseColor(string(c.Color)); err != nil {
		return err
	}
	return nil
}

// Slugify はラベルから内部名のトークンを生成します。
func Slugify(label string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	name := strings.TrimSuffix(b.String(), "_")
	if name == "" {
		// ASCII以外のみのラベル（日本語など）
		name = "category"
	}
	return name
}

func isNameToken(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '_' {
			return false
		}
	}
	return s != ""
}
