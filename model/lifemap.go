// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LifeMap はカテゴリとアイテムを所有する集約ルートです。
type LifeMap struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	DateOfBirth string          `json:"date_of_birth,omitempty"` // 未設定の場合は空文字
	AgeRange    int             `json:"age_range"`
	Zoom        float64         `json:"zoom"`
	Categories  []*Category     `json:"categories"`
	Items       []*TimelineItem `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewLifeMap は新しいLifeMapインスタンスを作成します。
func NewLifeMap(title string) (*LifeMap, error) {
	now := time.Now()
	m := &LifeMap{
		ID:         uuid.New(),
		Title:      title,
		AgeRange:   DefaultAgeRange,
		Zoom:       DefaultZoom,
		Categories: []*Category{},
		Items:      []*TimelineItem{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadLifeMap は既存のLifeMapインスタンスを作成します。
func LoadLifeMap(id uuid.UUID, title, dob string, ageRange int, zoom float64, createdAt, updatedAt time.Time) (*LifeMap, error) {
	m := &LifeMap{
		ID:          id,
		Title:       title,
		DateOfBirth: dob,
		AgeRange:    ageRange,
		Zoom:        zoom,
		Categories:  []*Category{},
		Items:       []*TimelineItem{},
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate はライフマップのデータバリデーションを行います。
func (m *LifeMap) Validate() error {
	if m.ID == uuid.Nil {
		return errors.New("id is required")
	}
	if strings.TrimSpace(m.Title) == "" {
		return errors.New("title is required")
	}
	if m.DateOfBirth != "" {
		if _, err := ParseDate(m.DateOfBirth); err != nil {
			return fmt.Errorf("invalid date_of_birth: %w", err)
		}
	}
	if m.AgeRange < MinAgeRange || m.AgeRange > MaxAgeRange {
		return fmt.Errorf("age_range must be between %d and %d", MinAgeRange, MaxAgeRange)
	}
	if m.Zoom < MinZoom || m.Zoom > MaxZoom {
		return fmt.Errorf("zoom must be between %.1f and %.1f", MinZoom, MaxZoom)
	}
	if m.CreatedAt.IsZero() {
		return errors.New("created_at is required")
	}
	if m.UpdatedAt.IsZero() {
		return errors.New("updated_at is required")
	}
	return nil
}

// SetDateOfBirth は生年月日を設定します。空文字で未設定に戻します。
func (m *LifeMap) SetDateOfBirth(dob string) error {
	if dob != "" {
		d, err := NewDate(dob)
		if err != nil {
			return NewValidationError(err.Error())
		}
		dob = d.String()
	}
	m.DateOfBirth = dob
	m.touch()
	return nil
}

// SetAgeRange は表示する総年数を設定します。
func (m *LifeMap) SetAgeRange(v int) error {
	ar, err := NewAgeRange(&v)
	if err != nil {
		return NewValidationError(err.Error())
	}
	m.AgeRange = ar.Int()
	m.touch()
	return nil
}

// SetZoom はズーム倍率を設定します。
func (m *LifeMap) SetZoom(v float64) error {
	z, err := NewZoom(&v)
	if err != nil {
		return NewValidationError(err.Error())
	}
	m.Zoom = z.Float()
	m.touch()
	return nil
}

// Category は指定IDのカテゴリを返します。
func (m *LifeMap) Category(id int64) (*Category, error) {
	for _, c := range m.Categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrCategoryNotFound
}

// CategoriesInSection はセクション内のカテゴリを表示順に返します。
func (m *LifeMap) CategoriesInSection(section Section) []*Category {
	return SectionCategories(m.Categories, section)
}

// SectionCategories はカテゴリ一覧から指定セクションのものを表示順（同順はID順）で返します。
func SectionCategories(categories []*Category, section Section) []*Category {
	var out []*Category
	for _, c := range categories {
		if c.Section == section {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b *Category) int {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder - b.DisplayOrder
		}
		return int(a.ID - b.ID)
	})
	return out
}

// AddCategory はセクションの末尾に新しいカテゴリを追加します。
func (m *LifeMap) AddCategory(label string, section Section, color Color) (*Category, error) {
	if strings.TrimSpace(label) == "" {
		return nil, NewValidationError("label is required")
	}
	if _, err := ParseSection(string(section)); err != nil {
		return nil, NewValidationError(err.Error())
	}
	if _, err := ParseColor(string(color)); err != nil {
		return nil, NewValidationError(err.Error())
	}

	c := &Category{
		ID:           m.nextCategoryID(),
		Name:         m.uniqueName(Slugify(label), 0),
		Label:        strings.TrimSpace(label),
		Section:      section,
		DisplayOrder: len(m.CategoriesInSection(section)),
		Color:        color,
	}
	m.Categories = append(m.Categories, c)
	m.densify(section)
	m.touch()
	return c, nil
}

// UpdateCategory はカテゴリのラベル・セクション・色を更新します。
// セクションが変わった場合は移動先の末尾に置き、両セクションの表示順を詰め直します。
func (m *LifeMap) UpdateCategory(id int64, label string, section Section, color Color) (*Category, error) {
	c, err := m.Category(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(label) == "" {
		return nil, NewValidationError("label is required")
	}
	if _, err := ParseSection(string(section)); err != nil {
		return nil, NewValidationError(err.Error())
	}
	if _, err := ParseColor(string(color)); err != nil {
		return nil, NewValidationError(err.Error())
	}

	if strings.TrimSpace(label) != c.Label {
		c.Label = strings.TrimSpace(label)
		c.Name = m.uniqueName(Slugify(label), c.ID)
	}
	c.Color = color
	if section != c.Section {
		old := c.Section
		c.Section = section
		c.DisplayOrder = len(m.CategoriesInSection(section)) // 自身を含むため末尾になる
		m.densify(old)
	}
	m.densify(section)
	m.touch()
	return c, nil
}

// DeleteCategory はカテゴリとそのアイテムを削除し、表示順を詰め直します。
func (m *LifeMap) DeleteCategory(id int64) error {
	c, err := m.Category(id)
	if err != nil {
		return err
	}
	m.Categories = slices.DeleteFunc(m.Categories, func(x *Category) bool { return x.ID == id })
	m.Items = slices.DeleteFunc(m.Items, func(it *TimelineItem) bool { return it.CategoryID == id })
	m.densify(c.Section)
	m.touch()
	return nil
}

// MoveCategory はセクション内でカテゴリを指定の表示順に移動します。範囲外は端に丸めます。
func (m *LifeMap) MoveCategory(id int64, order int) (*Category, error) {
	c, err := m.Category(id)
	if err != nil {
		return nil, err
	}
	members := m.CategoriesInSection(c.Section)
	order = max(0, min(order, len(members)-1))

	members = slices.DeleteFunc(members, func(x *Category) bool { return x.ID == id })
	members = slices.Insert(members, order, c)
	for i, x := range members {
		x.DisplayOrder = i
	}
	m.touch()
	return c, nil
}

// densify はセクション内の表示順を 0..N-1 に振り直します。
func (m *LifeMap) densify(section Section) {
	for i, c := range m.CategoriesInSection(section) {
		c.DisplayOrder = i
	}
}

func (m *LifeMap) nextCategoryID() int64 {
	var maxID int64
	for _, c := range m.Categories {
		maxID = max(maxID, c.ID)
	}
	return maxID + 1
}

// uniqueName は他のカテゴリと重複しない内部名を返します。
func (m *LifeMap) uniqueName(base string, selfID int64) string {
	taken := make(map[string]bool, len(m.Categories))
	for _, c := range m.Categories {
		if c.ID != selfID {
			taken[c.Name] = true
		}
	}
	name := base
	for n := 2; taken[name]; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	return name
}

// Item は指定IDのアイテムを返します。
func (m *LifeMap) Item(id int64) (*TimelineItem, error) {
	for _, it := range m.Items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, ErrItemNotFound
}

// AddItem はアイテムに次のIDを採番して追加します。
func (m *LifeMap) AddItem(item *TimelineItem) (*TimelineItem, error) {
	item.Canonicalize()
	if err := item.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}
	if _, err := m.Category(item.CategoryID); err != nil {
		return nil, NewValidationError(fmt.Sprintf("category %d does not exist", item.CategoryID))
	}

	var maxID int64
	for _, it := range m.Items {
		maxID = max(maxID, it.ID)
	}
	item.ID = maxID + 1
	m.Items = append(m.Items, item)
	m.touch()
	return item, nil
}

// UpdateItem は同じIDのアイテムを置き換えます。IDは変更できません。
func (m *LifeMap) UpdateItem(item *TimelineItem) (*TimelineItem, error) {
	idx := slices.IndexFunc(m.Items, func(it *TimelineItem) bool { return it.ID == item.ID })
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	item.Canonicalize()
	if err := item.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}
	if _, err := m.Category(item.CategoryID); err != nil {
		return nil, NewValidationError(fmt.Sprintf("category %d does not exist", item.CategoryID))
	}
	m.Items[idx] = item
	m.touch()
	return item, nil
}

// DeleteItem は指定IDのアイテムを削除します。
func (m *LifeMap) DeleteItem(id int64) error {
	if _, err := m.Item(id); err != nil {
		return err
	}
	m.Items = slices.DeleteFunc(m.Items, func(it *TimelineItem) bool { return it.ID == id })
	m.touch()
	return nil
}

func (m *LifeMap) touch() {
	m.UpdatedAt = time.Now()
}
