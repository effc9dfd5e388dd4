package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stsysd/lifemap/model"
)

// validate はリクエストパラメータの構造体タグを検証します。
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// エラーメッセージにはJSONのフィールド名を使う
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateParams は構造体を検証し、失敗した場合はValidationErrorを返します。
func validateParams(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed on %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed on %s", fe.Field(), fe.Tag()))
		}
	}
	return model.NewValidationError(strings.Join(msgs, "; "))
}

// decodeBody はリクエストボディをJSONとして読み込み、検証します。
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewValidationError(fmt.Sprintf("invalid request body: %v", err))
	}
	return validateParams(v)
}

// parseMapID はパスパラメータ map_id を解析します。
func parseMapID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("map_id"))
	if err != nil {
		return uuid.Nil, model.NewValidationError("invalid map_id")
	}
	return id, nil
}

// parsePathInt64 は正の整数のパスパラメータを解析します。
func parsePathInt64(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// LifeMapParams はライフマップ作成・更新のパラメータです。
// 省略されたフィールドは既定値（作成時）または現在の値（更新時）になります。
type LifeMapParams struct {
	Title       string   `json:"title" validate:"required,max=200"`
	DateOfBirth *string  `json:"date_of_birth"`
	AgeRange    *int     `json:"age_range" validate:"omitempty,min=10,max=200"`
	Zoom        *float64 `json:"zoom" validate:"omitempty,min=0.8,max=1.4"`
}

// NewLifeMapParams はHTTPリクエストからライフマップのパラメータを生成します。
func NewLifeMapParams(r *http.Request) (*LifeMapParams, error) {
	var p LifeMapParams
	if err := decodeBody(r, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, model.NewValidationError("title is required")
	}
	return &p, nil
}

// apply はパラメータをライフマップに反映します。
func (p *LifeMapParams) apply(m *model.LifeMap) error {
	m.Title = strings.TrimSpace(p.Title)
	if p.DateOfBirth != nil {
		if err := m.SetDateOfBirth(*p.DateOfBirth); err != nil {
			return err
		}
	}
	if p.AgeRange != nil {
		if err := m.SetAgeRange(*p.AgeRange); err != nil {
			return err
		}
	}
	if p.Zoom != nil {
		if err := m.SetZoom(*p.Zoom); err != nil {
			return err
		}
	}
	return nil
}

// CategoryParams はカテゴリ作成・更新のパラメータです。
type CategoryParams struct {
	Label   string `json:"label" validate:"required,max=100"`
	Section string `json:"section" validate:"required,oneof=top bottom"`
	Color   string `json:"color" validate:"required,oneof=blue red"`
}

// NewCategoryParams はHTTPリクエストからカテゴリのパラメータを生成します。
func NewCategoryParams(r *http.Request) (*CategoryParams, error) {
	var p CategoryParams
	if err := decodeBody(r, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// MoveCategoryParams はカテゴリ並び替えのパラメータです。
type MoveCategoryParams struct {
	Order *int `json:"order" validate:"required,min=0"`
}

// NewMoveCategoryParams はHTTPリクエストから並び替えのパラメータを生成します。
func NewMoveCategoryParams(r *http.Request) (*MoveCategoryParams, error) {
	var p MoveCategoryParams
	if err := decodeBody(r, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ItemParams はアイテム作成・更新のパラメータです。
type ItemParams struct {
	CategoryID  int64    `json:"category_id" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Color       string   `json:"color" validate:"required,oneof=blue red"`
	InputMode   string   `json:"input_mode" validate:"omitempty,oneof=age date"`
	StartAge    *float64 `json:"start_age" validate:"omitempty,min=0"`
	EndAge      *float64 `json:"end_age" validate:"omitempty,min=0"`
	StartDate   string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	UseMaxAge   bool     `json:"use_max_age"`
}

// NewItemParams はHTTPリクエストからアイテムのパラメータを生成します。
func NewItemParams(r *http.Request) (*ItemParams, error) {
	var p ItemParams
	if err := decodeBody(r, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// item はパラメータからTimelineItemを組み立てます。
func (p *ItemParams) item(id int64) *model.TimelineItem {
	it := model.NewTimelineItem(p.CategoryID, strings.TrimSpace(p.Title), model.Color(p.Color))
	it.ID = id
	it.Description = p.Description
	it.InputMode = model.InputMode(p.InputMode)
	it.StartAge = p.StartAge
	it.EndAge = p.EndAge
	it.StartDate = p.StartDate
	it.EndDate = p.EndDate
	it.UseMaxAge = p.UseMaxAge
	return it
}

// RenderParams は描画系エンドポイントのクエリパラメータです。
type RenderParams struct {
	MapID     uuid.UUID      `json:"-"`
	View      model.ViewMode `json:"view" validate:"omitempty,oneof=all past future"`
	AutoScale bool           `json:"autoscale"`
	Width     int            `json:"width" validate:"min=100,max=10000"`
	Zoom      *float64       `json:"zoom" validate:"omitempty,min=0.8,max=1.4"`
	Today     time.Time      `json:"-"`
}

// DefaultRenderWidth は width が省略された場合の描画幅（ピクセル）です。
const DefaultRenderWidth = 1200

// NewRenderParams はHTTPリクエストから描画パラメータを生成します。
func NewRenderParams(r *http.Request, now time.Time) (*RenderParams, error) {
	mapID, err := parseMapID(r)
	if err != nil {
		return nil, err
	}

	query := r.URL.Query()
	p := &RenderParams{
		MapID: mapID,
		View:  model.ViewMode(query.Get("view")),
		Width: DefaultRenderWidth,
		Today: now,
	}
	if p.View == "" {
		p.View = model.ViewAll
	}

	if v := query.Get("autoscale"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, model.NewValidationError("invalid autoscale parameter: must be a boolean")
		}
		p.AutoScale = b
	}
	if v := query.Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, model.NewValidationError("invalid width parameter: must be an integer")
		}
		p.Width = n
	}
	if v := query.Get("zoom"); v != "" {
		z, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, model.NewValidationError("invalid zoom parameter: must be a number")
		}
		p.Zoom = &z
	}
	if v := query.Get("today"); v != "" {
		d, err := model.NewDate(v)
		if err != nil {
			return nil, model.NewValidationError(err.Error())
		}
		p.Today = d.Time()
	}

	if err := validateParams(p); err != nil {
		return nil, err
	}
	return p, nil
}

// HitParams はヒットテストのパラメータです。
type HitParams struct {
	*RenderParams
	X float64
	Y float64
}

// NewHitParams はHTTPリクエストからヒットテストのパラメータを生成します。
func NewHitParams(r *http.Request, now time.Time) (*HitParams, error) {
	rp, err := NewRenderParams(r, now)
	if err != nil {
		return nil, err
	}
	query := r.URL.Query()
	x, err := strconv.ParseFloat(query.Get("x"), 64)
	if err != nil {
		return nil, model.NewValidationError("x is required and must be a number")
	}
	y, err := strconv.ParseFloat(query.Get("y"), 64)
	if err != nil {
		return nil, model.NewValidationError("y is required and must be a number")
	}
	return &HitParams{RenderParams: rp, X: x, Y: y}, nil
}
