// Package api はlifemapのAPIサーバー実装を提供します。
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/stsysd/lifemap/config"
	"github.com/stsysd/lifemap/model"
	"github.com/stsysd/lifemap/store"
	"github.com/stsysd/lifemap/timeline"
)

// Server はAPIサーバーの構造体です。
type Server struct {
	router  *http.ServeMux
	handler http.Handler
	store   store.LifeMapStore
	config  *config.Config
	logger  *zap.Logger
	style   *timeline.Style
	metrics *metrics

	// 読み込み→変更→保存を直列化する
	writeMu sync.Mutex
}

// ErrorResponse はエラーレスポンスの構造体です。
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// writeJSONError はJSON形式でエラーレスポンスを返却します。
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := ErrorResponse{
		Error: message,
		Code:  statusCode,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON は値をJSONで返却します。
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Error encoding response", zap.Error(err))
	}
}

// writeError はエラーの種類に応じたステータスコードでエラーを返却します。
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSONError(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, model.ErrLifeMapNotFound),
		errors.Is(err, model.ErrCategoryNotFound),
		errors.Is(err, model.ErrItemNotFound):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	default:
		s.logger.Error("Internal error",
			zap.String("path", r.URL.Path),
			zap.String("requestID", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// NewServer は新しいAPIサーバーインスタンスを生成します。
// logger と style が nil の場合は、それぞれ何も出力しないロガーと既定のスタイルを使います。
func NewServer(store store.LifeMapStore, config *config.Config, logger *zap.Logger, style *timeline.Style) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if style == nil {
		style = timeline.DefaultStyle()
	}
	s := &Server{
		router:  http.NewServeMux(),
		store:   store,
		config:  config,
		logger:  logger,
		style:   style,
		metrics: newMetrics(),
	}
	s.routes()
	s.handler = middleware.RequestID(s.requestLogger(s.router))
	return s
}

// routes はAPIエンドポイントのルーティングを設定します。
func (s *Server) routes() {
	// ヘルスチェックとメトリクスは認証不要
	s.router.HandleFunc("GET /healthz", s.handleHealthCheck)
	s.router.Handle("GET /metrics", s.metrics.handler())

	// すべての保護されたエンドポイントをまずセキュアなルータに登録
	securedHandler := http.NewServeMux()

	// Life map endpoints
	securedHandler.HandleFunc("GET /api/v0/m", s.handleListLifeMaps)
	securedHandler.HandleFunc("POST /api/v0/m", s.handleCreateLifeMap)
	securedHandler.HandleFunc("GET /api/v0/m/{map_id}", s.handleGetLifeMap)
	securedHandler.HandleFunc("PUT /api/v0/m/{map_id}", s.handleUpdateLifeMap)
	securedHandler.HandleFunc("DELETE /api/v0/m/{map_id}", s.handleDeleteLifeMap)

	// Category endpoints
	securedHandler.HandleFunc("POST /api/v0/m/{map_id}/c", s.handleCreateCategory)
	securedHandler.HandleFunc("PUT /api/v0/m/{map_id}/c/{category_id}", s.handleUpdateCategory)
	securedHandler.HandleFunc("DELETE /api/v0/m/{map_id}/c/{category_id}", s.handleDeleteCategory)
	securedHandler.HandleFunc("POST /api/v0/m/{map_id}/c/{category_id}/move", s.handleMoveCategory)

	// Item endpoints
	securedHandler.HandleFunc("POST /api/v0/m/{map_id}/i", s.handleCreateItem)
	securedHandler.HandleFunc("PUT /api/v0/m/{map_id}/i/{item_id}", s.handleUpdateItem)
	securedHandler.HandleFunc("DELETE /api/v0/m/{map_id}/i/{item_id}", s.handleDeleteItem)

	// 認証ミドルウェアを適用し、メインルータにマウント
	s.router.Handle("/api/", s.authMiddleware(securedHandler))

	// Render endpoints - support both with and without .svg extension
	s.router.HandleFunc("GET /m/{map_id}/timeline.svg", s.handleGetTimeline)
	s.router.HandleFunc("GET /m/{map_id}/timeline", s.handleGetTimeline)
	s.router.HandleFunc("GET /m/{map_id}/layout", s.handleGetLayout)
	s.router.HandleFunc("GET /m/{map_id}/hit", s.handleHitTest)
}

// ServeHTTP はServer構造体をhttp.Handlerとして実装します。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// handleHealthCheck はヘルスチェックエンドポイントのハンドラーです。
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run はサーバーを指定されたアドレスで起動します。
func (s *Server) Run(addr string) error {
	s.logger.Info("Server starting", zap.String("addr", addr))
	return http.ListenAndServe(addr, s)
}
