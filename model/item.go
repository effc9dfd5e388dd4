// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"errors"
	"strings"
)

// TimelineItem はタイムライン上の出来事（期間またはマイルストーン）を表すモデルです。
// InputMode によって年齢表現か日付表現のどちらか一方だけが設定されます。
type TimelineItem struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"category_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Color       Color     `json:"color"`
	InputMode   InputMode `json:"input_mode"`

	// 年齢モード
	StartAge *float64 `json:"start_age,omitempty"`
	EndAge   *float64 `json:"end_age,omitempty"`

	// 日付モード（YYYY-MM-DD）。読み込んだ値が壊れていても描画は継続するため文字列で保持する
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	// 終了を設定済みの最大年齢まで延ばす
	UseMaxAge bool `json:"use_max_age,omitempty"`
}

// NewTimelineItem は新しいTimelineItemを作成します。IDは LifeMap.AddItem で採番されます。
func NewTimelineItem(categoryID int64, title string, color Color) *TimelineItem {
	return &TimelineItem{
		CategoryID: categoryID,
		Title:      title,
		Color:      color,
		InputMode:  InputModeAge,
	}
}

// LoadTimelineItem は保存済みのTimelineItemを正規化して返します。
// 時間表現が壊れていても読み込みは失敗させず、レイアウト時に不明値として扱います。
func LoadTimelineItem(item TimelineItem) (*TimelineItem, error) {
	it := item
	it.Canonicalize()
	if it.ID <= 0 {
		return nil, errors.New("id is required for loaded item")
	}
	if it.CategoryID <= 0 {
		return nil, errors.New("category_id is required")
	}
	if strings.TrimSpace(it.Title) == "" {
		return nil, errors.New("title is required")
	}
	return &it, nil
}

// Mode は有効な入力モードを返します。未設定の場合は後方互換のため年齢モードです。
func (it *TimelineItem) Mode() InputMode {
	if it.InputMode == InputModeDate {
		return InputModeDate
	}
	return InputModeAge
}

// Canonicalize は入力モードの既定値を補い、使われない側の時間表現を消去します。
func (it *TimelineItem) Canonicalize() {
	it.InputMode = it.Mode()
	switch it.InputMode {
	case InputModeAge:
		it.StartDate = ""
		it.EndDate = ""
		if it.UseMaxAge {
			it.EndAge = nil
		}
	case InputModeDate:
		it.StartAge = nil
		it.EndAge = nil
		if it.UseMaxAge {
			it.EndDate = ""
		}
	}
}

// IsMilestone は終了がなく最大年齢も使わないアイテムかどうかを返します。
func (it *TimelineItem) IsMilestone() bool {
	if it.UseMaxAge {
		return false
	}
	if it.Mode() == InputModeDate {
		return it.EndDate == ""
	}
	return it.EndAge == nil
}

// Validate はアイテムのデータバリデーションを行います。
func (it *TimelineItem) Validate() error {
	if it.CategoryID <= 0 {
		return errors.New("category_id is required")
	}
	if strings.TrimSpace(it.Title) == "" {
		return errors.New("title is required")
	}
	if _, err := ParseColor(string(it.Color)); err != nil {
		return err
	}

	switch it.Mode() {
	case InputModeAge:
		if it.StartAge == nil {
			return errors.New("start_age is required in age mode")
		}
		if *it.StartAge < 0 {
			return errors.New("start_age must be non-negative")
		}
		if it.EndAge != nil && *it.EndAge < *it.StartAge {
			return errors.New("end_age must not be before start_age")
		}
	case InputModeDate:
		start, err := ParseDate(it.StartDate)
		if err != nil {
			return err
		}
		if it.EndDate != "" {
			if it.UseMaxAge {
				return errors.New("end_date must be empty when use_max_age is set")
			}
			end, err := ParseDate(it.EndDate)
			if err != nil {
				return err
			}
			if end.Before(start) {
				return errors.New("end_date must not be before start_date")
			}
		}
	}
	return nil
}
