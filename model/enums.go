// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import "fmt"

// Section はカテゴリが年齢バーの上下どちらに並ぶかを表します。
type Section string

const (
	SectionTop    Section = "top"
	SectionBottom Section = "bottom"
)

// Sections は描画順のセクション一覧です。
var Sections = []Section{SectionTop, SectionBottom}

// ParseSection は文字列をSectionに変換します。
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionTop, SectionBottom:
		return Section(s), nil
	}
	return "", fmt.Errorf("invalid section %q (valid: top, bottom)", s)
}

// Color はカテゴリとアイテムの表示色です。
type Color string

const (
	ColorBlue Color = "blue"
	ColorRed  Color = "red"
)

// 色名から16進カラーコードへの固定マッピング
var colorHex = map[Color]string{
	ColorBlue: "#3b82f6",
	ColorRed:  "#ef4444",
}

// 帯の背景用の薄い色
var colorTint = map[Color]string{
	ColorBlue: "#eff6ff",
	ColorRed:  "#fef2f2",
}

// ParseColor は文字列をColorに変換します。
func ParseColor(s string) (Color, error) {
	if _, ok := colorHex[Color(s)]; ok {
		return Color(s), nil
	}
	return "", fmt.Errorf("invalid color %q (valid: blue, red)", s)
}

// Hex はColorの16進カラーコードを返します。未知の色は青として扱います。
func (c Color) Hex() string {
	if h, ok := colorHex[c]; ok {
		return h
	}
	return colorHex[ColorBlue]
}

// Tint はカテゴリ帯の背景に使う薄い色を返します。
func (c Color) Tint() string {
	if h, ok := colorTint[c]; ok {
		return h
	}
	return colorTint[ColorBlue]
}

// InputMode はアイテムの時間表現の種類です。
type InputMode string

const (
	InputModeAge  InputMode = "age"
	InputModeDate InputMode = "date"
)

// ParseInputMode は文字列をInputModeに変換します。空文字は年齢モードとして扱います。
func ParseInputMode(s string) (InputMode, error) {
	switch InputMode(s) {
	case "", InputModeAge:
		return InputModeAge, nil
	case InputModeDate:
		return InputModeDate, nil
	}
	return "", fmt.Errorf("invalid input mode %q (valid: age, date)", s)
}

// ViewMode はタイムラインの表示フィルタです。
type ViewMode string

const (
	ViewAll    ViewMode = "all"
	ViewPast   ViewMode = "past"
	ViewFuture ViewMode = "future"
)

// ParseViewMode は文字列をViewModeに変換します。空文字はallです。
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case "", ViewAll:
		return ViewAll, nil
	case ViewPast, ViewFuture:
		return ViewMode(s), nil
	}
	return "", fmt.Errorf("invalid view mode %q (valid: all, past, future)", s)
}

// Next は表示モードを all → past → future の順に巡回します。
func (v ViewMode) Next() ViewMode {
	switch v {
	case ViewAll:
		return ViewPast
	case ViewPast:
		return ViewFuture
	default:
		return ViewAll
	}
}
