package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/stsysd/lifemap/model"
)

// mutate はライフマップを読み込み、fn で変更して保存し、fn の戻り値を返却します。
// 変更は集約単位で保存されるため、途中で失敗した場合は何も保存されません。
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, status int, fn func(m *model.LifeMap) (any, error)) {
	mapID, err := parseMapID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	m, err := s.store.GetLifeMap(r.Context(), mapID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := fn(m)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.SaveLifeMap(r.Context(), m); err != nil {
		s.writeError(w, r, err)
		return
	}

	if resp == nil {
		w.WriteHeader(status)
		return
	}
	s.writeJSON(w, status, resp)
}

// handleListLifeMaps はライフマップ一覧のハンドラーです。
func (s *Server) handleListLifeMaps(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pagination, err := model.NewPagination(query.Get("limit"), query.Get("offset"))
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	maps, err := s.store.ListLifeMaps(r.Context(), pagination)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if maps == nil {
		maps = []*model.LifeMap{}
	}
	s.writeJSON(w, http.StatusOK, maps)
}

// handleCreateLifeMap はライフマップ作成のハンドラーです。
func (s *Server) handleCreateLifeMap(w http.ResponseWriter, r *http.Request) {
	params, err := NewLifeMapParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	m, err := model.NewLifeMap(params.Title)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := params.apply(m); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.CreateLifeMap(r.Context(), m); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Life map created", zap.String("mapID", m.ID.String()))
	s.writeJSON(w, http.StatusCreated, m)
}

// handleGetLifeMap はライフマップ取得のハンドラーです。カテゴリとアイテムを含みます。
func (s *Server) handleGetLifeMap(w http.ResponseWriter, r *http.Request) {
	mapID, err := parseMapID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	m, err := s.store.GetLifeMap(r.Context(), mapID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

// handleUpdateLifeMap はライフマップ設定（タイトル・生年月日・表示年数・ズーム）更新のハンドラーです。
func (s *Server) handleUpdateLifeMap(w http.ResponseWriter, r *http.Request) {
	params, err := NewLifeMapParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(m *model.LifeMap) (any, error) {
		if err := params.apply(m); err != nil {
			return nil, err
		}
		return m, nil
	})
}

// handleDeleteLifeMap はライフマップ削除のハンドラーです。
func (s *Server) handleDeleteLifeMap(w http.ResponseWriter, r *http.Request) {
	mapID, err := parseMapID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.DeleteLifeMap(r.Context(), mapID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Life map deleted", zap.String("mapID", mapID.String()))
	w.WriteHeader(http.StatusNoContent)
}
