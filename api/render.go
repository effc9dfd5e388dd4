package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/stsysd/lifemap/timeline"
)

// now は描画時の基準日です。テストで差し替えます。
var now = time.Now

// computeLayout はライフマップを読み込み、描画パラメータに従ってレイアウトを計算します。
func (s *Server) computeLayout(r *http.Request, params *RenderParams) (*timeline.Layout, error) {
	m, err := s.store.GetLifeMap(r.Context(), params.MapID)
	if err != nil {
		return nil, err
	}

	in := timeline.NewInput(m, params.Today)
	in.View = params.View
	in.AutoScale = params.AutoScale
	in.Width = params.Width
	if params.Zoom != nil {
		in.Zoom = *params.Zoom
	}

	start := time.Now()
	layout := timeline.ComputeLayout(in)
	s.metrics.layoutDuration.Observe(time.Since(start).Seconds())
	s.metrics.layoutItems.Observe(float64(len(layout.Items)))

	if len(layout.Skipped) > 0 {
		s.metrics.skippedItems.Add(float64(len(layout.Skipped)))
		s.logger.Warn("Items skipped because their category does not exist",
			zap.String("mapID", m.ID.String()),
			zap.Int64s("itemIDs", layout.Skipped),
		)
	}
	return layout, nil
}

// handleGetTimeline は指定ライフマップのタイムラインをSVGで返却するハンドラーです。
func (s *Server) handleGetTimeline(w http.ResponseWriter, r *http.Request) {
	params, err := NewRenderParams(r, now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	layout, err := s.computeLayout(r, params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	svg := timeline.RenderSVG(layout, s.style)

	// レスポンスの返却
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := w.Write([]byte(svg)); err != nil {
		s.logger.Error("Error writing svg", zap.Error(err))
	}
}

// handleGetLayout は計算済みレイアウトをJSONで返却するハンドラーです。
func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	params, err := NewRenderParams(r, now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	layout, err := s.computeLayout(r, params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, layout)
}

// HitResponse はヒットテストのレスポンスです。
type HitResponse struct {
	Hit    bool   `json:"hit"`
	ItemID *int64 `json:"item_id,omitempty"`
}

// handleHitTest は座標の位置にある最前面のアイテムを返すハンドラーです。
// 編集画面を開く対象の特定に使います。
func (s *Server) handleHitTest(w http.ResponseWriter, r *http.Request) {
	params, err := NewHitParams(r, now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	layout, err := s.computeLayout(r, params.RenderParams)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := HitResponse{}
	if id, ok := timeline.HitTest(layout, params.X, params.Y); ok {
		resp.Hit = true
		resp.ItemID = &id
	}
	s.writeJSON(w, http.StatusOK, resp)
}
