package api

import (
	"net/http"

	"github.com/stsysd/lifemap/model"
)

// handleCreateItem はアイテム作成のハンドラーです。
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	params, err := NewItemParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusCreated, func(m *model.LifeMap) (any, error) {
		return m.AddItem(params.item(0))
	})
}

// handleUpdateItem はアイテム更新のハンドラーです。アイテム全体を置き換えます。
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := parsePathInt64(r, "item_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	params, err := NewItemParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(m *model.LifeMap) (any, error) {
		return m.UpdateItem(params.item(itemID))
	})
}

// handleDeleteItem はアイテム削除のハンドラーです。
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := parsePathInt64(r, "item_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, http.StatusNoContent, func(m *model.LifeMap) (any, error) {
		return nil, m.DeleteItem(itemID)
	})
}
