package api

import (
	"net/http"

	"github.com/stsysd/lifemap/model"
)

// handleCreateCategory はカテゴリ作成のハンドラーです。セクションの末尾に追加されます。
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	params, err := NewCategoryParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusCreated, func(m *model.LifeMap) (any, error) {
		return m.AddCategory(params.Label, model.Section(params.Section), model.Color(params.Color))
	})
}

// handleUpdateCategory はカテゴリ更新のハンドラーです。
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parsePathInt64(r, "category_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	params, err := NewCategoryParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(m *model.LifeMap) (any, error) {
		return m.UpdateCategory(categoryID, params.Label, model.Section(params.Section), model.Color(params.Color))
	})
}

// handleDeleteCategory はカテゴリ削除のハンドラーです。カテゴリのアイテムも削除されます。
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parsePathInt64(r, "category_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusNoContent, func(m *model.LifeMap) (any, error) {
		return nil, m.DeleteCategory(categoryID)
	})
}

// handleMoveCategory はセクション内でカテゴリの表示順を変更するハンドラーです。
func (s *Server) handleMoveCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parsePathInt64(r, "category_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	params, err := NewMoveCategoryParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(m *model.LifeMap) (any, error) {
		c, err := m.MoveCategory(categoryID, *params.Order)
		if err != nil {
			return nil, err
		}
		// 並び替え後のセクション全体を返す
		return m.CategoriesInSection(c.Section), nil
	})
}
