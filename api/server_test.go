package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stsysd/lifemap/config"
	"github.com/stsysd/lifemap/model"
	"github.com/stsysd/lifemap/timeline"
)

// テスト用の定数
const testAPIKey = "test-api-key"

// テスト用の設定を生成するヘルパー関数
func newTestConfig() *config.Config {
	return &config.Config{
		DataDir:  "./testdata",
		Port:     "8080",
		APIKey:   testAPIKey,
		LogLevel: "info",
		Env:      "production",
	}
}

// モックストア: テスト用のLifeMapStoreの実装
// SQLiteStoreと同様に、保存した値と取得した値は別のインスタンスになります。
type MockLifeMapStore struct {
	mu   sync.Mutex
	maps map[uuid.UUID][]byte
}

func NewMockLifeMapStore() *MockLifeMapStore {
	return &MockLifeMapStore{
		maps: make(map[uuid.UUID][]byte),
	}
}

func (s *MockLifeMapStore) put(m *model.LifeMap) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	s.maps[m.ID] = data
	return nil
}

func (s *MockLifeMapStore) CreateLifeMap(ctx context.Context, m *model.LifeMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := m.Validate(); err != nil {
		return err
	}
	return s.put(m)
}

func (s *MockLifeMapStore) GetLifeMap(ctx context.Context, id uuid.UUID) (*model.LifeMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, exists := s.maps[id]
	if !exists {
		return nil, model.ErrLifeMapNotFound
	}
	var m model.LifeMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MockLifeMapStore) SaveLifeMap(ctx context.Context, m *model.LifeMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.maps[m.ID]; !exists {
		return model.ErrLifeMapNotFound
	}
	return s.put(m)
}

func (s *MockLifeMapStore) DeleteLifeMap(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.maps[id]; !exists {
		return model.ErrLifeMapNotFound
	}
	delete(s.maps, id)
	return nil
}

func (s *MockLifeMapStore) ListLifeMaps(ctx context.Context, pagination *model.Pagination) ([]*model.LifeMap, error) {
	s.mu.Lock()
	var maps []*model.LifeMap
	for _, data := range s.maps {
		var m model.LifeMap
		if err := json.Unmarshal(data, &m); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		m.Categories, m.Items = nil, nil
		maps = append(maps, &m)
	}
	s.mu.Unlock()

	// 更新日時の降順にソート（SQLiteの実装と同様に）
	sort.Slice(maps, func(i, j int) bool {
		return maps[i].UpdatedAt.After(maps[j].UpdatedAt)
	})
	start := min(pagination.Offset(), len(maps))
	end := min(start+pagination.Limit(), len(maps))
	return maps[start:end], nil
}

func (s *MockLifeMapStore) Close() error {
	return nil
}

// newTestServer はモックストアを使ったテスト用サーバーを作成します。
func newTestServer(t *testing.T) (*Server, *MockLifeMapStore) {
	t.Helper()
	store := NewMockLifeMapStore()
	server := NewServer(store, newTestConfig(), nil, nil)

	// 描画の基準日を固定
	orig := now
	now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	return server, store
}

// doRequest はリクエストを送信してレスポンスを返します。body が nil でなければJSONで送ります。
func doRequest(t *testing.T, server http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

// seedLifeMap はカテゴリとアイテムを持つライフマップをストアに直接登録します。
func seedLifeMap(t *testing.T, store *MockLifeMapStore) *model.LifeMap {
	t.Helper()
	m, err := model.NewLifeMap("My life")
	if err != nil {
		t.Fatalf("Failed to create life map: %v", err)
	}
	if err := m.SetDateOfBirth("1990-04-01"); err != nil {
		t.Fatal(err)
	}
	work, _ := m.AddCategory("Work", model.SectionTop, model.ColorBlue)
	life, _ := m.AddCategory("Life", model.SectionBottom, model.ColorRed)

	start, end := 22.0, 30.0
	job := model.NewTimelineItem(work.ID, "First job", model.ColorBlue)
	job.StartAge, job.EndAge = &start, &end
	if _, err := m.AddItem(job); err != nil {
		t.Fatal(err)
	}
	wedding := model.NewTimelineItem(life.ID, "Wedding", model.ColorRed)
	wedding.InputMode = model.InputModeDate
	wedding.StartDate = "2018-10-10"
	if _, err := m.AddItem(wedding); err != nil {
		t.Fatal(err)
	}

	if err := store.CreateLifeMap(context.Background(), m); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestHealthCheck(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		apiKey      string
		serverKey   string
		wantStatus  int
		description string
	}{
		{
			name:        "valid key",
			apiKey:      testAPIKey,
			serverKey:   testAPIKey,
			wantStatus:  http.StatusOK,
			description: "正しいAPIキーでアクセスできること",
		},
		{
			name:        "missing key",
			serverKey:   testAPIKey,
			wantStatus:  http.StatusUnauthorized,
			description: "APIキーがない場合は401になること",
		},
		{
			name:        "wrong key",
			apiKey:      "nope",
			serverKey:   testAPIKey,
			wantStatus:  http.StatusUnauthorized,
			description: "APIキーが違う場合は401になること",
		},
		{
			name:        "server not configured",
			apiKey:      testAPIKey,
			wantStatus:  http.StatusInternalServerError,
			description: "サーバー側にAPIキーがない場合は500になること",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			cfg.APIKey = tt.serverKey
			server := NewServer(NewMockLifeMapStore(), cfg, nil, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v0/m", nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("%s: expected status %d, got %d", tt.description, tt.wantStatus, rec.Code)
			}
			if rec.Code != http.StatusOK {
				resp := decode[ErrorResponse](t, rec)
				if resp.Code != tt.wantStatus {
					t.Errorf("%s: expected code %d in body, got %d", tt.description, tt.wantStatus, resp.Code)
				}
			}
		})
	}
}

func TestCreateLifeMapEndpoint(t *testing.T) {
	server, store := newTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/api/v0/m", map[string]any{
		"title":         "  Life  ",
		"date_of_birth": "1990-04-01",
		"age_range":     90,
		"zoom":          1.2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	created := decode[model.LifeMap](t, rec)
	if created.Title != "Life" || created.DateOfBirth != "1990-04-01" || created.AgeRange != 90 || created.Zoom != 1.2 {
		t.Errorf("Unexpected life map: %+v", created)
	}
	if _, err := store.GetLifeMap(context.Background(), created.ID); err != nil {
		t.Errorf("Expected life map to be stored: %v", err)
	}

	// 省略した設定は既定値になる
	rec = doRequest(t, server, http.MethodPost, "/api/v0/m", map[string]any{"title": "Defaults"})
	defaults := decode[model.LifeMap](t, rec)
	if defaults.AgeRange != model.DefaultAgeRange || defaults.Zoom != model.DefaultZoom {
		t.Errorf("Expected defaults, got age_range=%d zoom=%v", defaults.AgeRange, defaults.Zoom)
	}
}

func TestCreateLifeMapValidation(t *testing.T) {
	tests := []struct {
		name        string
		body        any
		description string
	}{
		{
			name:        "missing title",
			body:        map[string]any{"age_range": 80},
			description: "タイトルがない場合は400になること",
		},
		{
			name:        "blank title",
			body:        map[string]any{"title": "   "},
			description: "空白だけのタイトルは400になること",
		},
		{
			name:        "age range too small",
			body:        map[string]any{"title": "x", "age_range": 5},
			description: "表示年数が下限未満の場合は400になること",
		},
		{
			name:        "zoom out of range",
			body:        map[string]any{"title": "x", "zoom": 2.0},
			description: "ズームが範囲外の場合は400になること",
		},
		{
			name:        "bad date of birth",
			body:        map[string]any{"title": "x", "date_of_birth": "April 1st"},
			description: "生年月日の形式が不正な場合は400になること",
		},
		{
			name:        "not json",
			body:        "just a string",
			description: "JSONオブジェクトでない場合は400になること",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t)
			rec := doRequest(t, server, http.MethodPost, "/api/v0/m", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected status 400, got %d: %s", tt.description, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetLifeMapEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	m := seedLifeMap(t, store)

	rec := doRequest(t, server, http.MethodGet, "/api/v0/m/"+m.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	got := decode[model.LifeMap](t, rec)
	if len(got.Categories) != 2 || len(got.Items) != 2 {
		t.Errorf("Expected 2 categories and 2 items, got %d and %d", len(got.Categories), len(got.Items))
	}

	// 存在しないライフマップ
	rec = doRequest(t, server, http.MethodGet, "/api/v0/m/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}

	// 不正なID
	rec = doRequest(t, server, http.MethodGet, "/api/v0/m/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestListLifeMapsEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	for range 3 {
		seedLifeMap(t, store)
	}

	rec := doRequest(t, server, http.MethodGet, "/api/v0/m", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if maps := decode[[]model.LifeMap](t, rec); len(maps) != 3 {
		t.Errorf("Expected 3 life maps, got %d", len(maps))
	}

	rec = doRequest(t, server, http.MethodGet, "/api/v0/m?limit=2&offset=2", nil)
	if maps := decode[[]model.LifeMap](t, rec); len(maps) != 1 {
		t.Errorf("Expected 1 life map on second page, got %d", len(maps))
	}

	rec = doRequest(t, server, http.MethodGet, "/api/v0/m?limit=zero", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid limit, got %d", rec.Code)
	}
}

func TestUpdateLifeMapEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	m := seedLifeMap(t, store)
	path := "/api/v0/m/" + m.ID.String()

	rec := doRequest(t, server, http.MethodPut, path, map[string]any{"title": "Renamed", "age_range": 100})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got, _ := store.GetLifeMap(context.Background(), m.ID)
	if got.Title != "Renamed" || got.AgeRange != 100 {
		t.Errorf("Expected updated settings, got title=%q age_range=%d", got.Title, got.AgeRange)
	}
	if got.DateOfBirth != "1990-04-01" {
		t.Errorf("Expected date of birth to be kept, got %q", got.DateOfBirth)
	}

	// 空文字で生年月日を未設定に戻せる
	rec = doRequest(t, server, http.MethodPut, path, map[string]any{"title": "Renamed", "date_of_birth": ""})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	got, _ = store.GetLifeMap(context.Background(), m.ID)
	if got.DateOfBirth != "" {
		t.Errorf("Expected date of birth to be cleared, got %q", got.DateOfBirth)
	}

	// 不正な値の場合は何も保存されない
	rec = doRequest(t, server, http.MethodPut, path, map[string]any{"title": "Broken", "date_of_birth": "1990-13-01"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	got, _ = store.GetLifeMap(context.Background(), m.ID)
	if got.Title != "Renamed" {
		t.Errorf("Expected failed update to leave title unchanged, got %q", got.Title)
	}

	rec = doRequest(t, server, http.MethodPut, "/api/v0/m/"+uuid.NewString(), map[string]any{"title": "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteLifeMapEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	m := seedLifeMap(t, store)
	path := "/api/v0/m/" + m.ID.String()

	rec := doRequest(t, server, http.MethodDelete, path, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rec.Code)
	}
	rec = doRequest(t, server, http.MethodDelete, path, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got %d", rec.Code)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	server, store := newTestServer(t)
	m := seedLifeMap(t, store)
	base := "/api/v0/m/" + m.ID.String() + "/c"

	// 作成: セクションの末尾に追加される
	rec := doRequest(t, server, http.MethodPost, base, map[string]any{"label": "Study", "section": "top", "color": "red"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	study := decode[model.Category](t, rec)
	if study.ID != 3 || study.DisplayOrder != 1 || study.Name != "study" {
		t.Errorf("Unexpected category: %+v", study)
	}

	// 並び替え: 先頭に移動
	rec = doRequest(t, server, http.MethodPost, fmt.Sprintf("%s/%d/move", base, study.ID), map[string]any{"order": 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	section := decode[[]model.Category](t, rec)
	if len(section) != 2 || section[0].ID != study.ID || section[0].DisplayOrder != 0 || section[1].DisplayOrder != 1 {
		t.Errorf("Unexpected order after move: %+v", section)
	}

	// 更新: 下のセクションへ移動すると末尾に置かれる
	rec = doRequest(t, server, http.MethodPut, fmt.Sprintf("%s/%d", base, study.ID), map[string]any{"label": "School", "section": "bottom", "color": "red"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[model.Category](t, rec)
	if updated.Section != model.SectionBottom || updated.DisplayOrder != 1 || updated.Name != "school" {
		t.Errorf("Unexpected updated category: %+v", updated)
	}

	// 削除: カテゴリのアイテムも消える
	rec = doRequest(t, server, http.MethodDelete, base+"/1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rec.Code)
	}
	got, _ := store.GetLifeMap(context.Background(), m.ID)
	for _, it := range got.Items {
		if it.CategoryID == 1 {
			t.Errorf("Expected items of deleted category to be removed, found %+v", it)
		}
	}

	// 存在しないカテゴリ
	rec = doRequest(t, server, http.MethodDelete, base+"/99", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
	rec = doRequest(t, server, http.MethodDelete, base+"/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCategoryValidation(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		body        any
		description string
	}{
		{
			name:        "unknown section",
			path:        "",
			body:        map[string]any{"label": "x", "section": "middle", "color": "blue"},
			description: "未知のセクションは400になること",
		},
		{
			name:        "unknown color",
			path:        "",
			body:        map[string]any{"label": "x", "section": "top", "color": "green"},
			description: "未知の色は400になること",
		},
		{
			name:        "missing label",
			path:        "",
			body:        map[string]any{"section": "top", "color": "blue"},
			description: "ラベルがない場合は400になること",
		},
		{
			name:        "move without order",
			path:        "/1/move",
			body:        map[string]any{},
			description: "並び順がない場合は400になること",
		},
		{
			name:        "move with negative order",
			path:        "/1/move",
			body:        map[string]any{"order": -1},
			description: "負の並び順は400になること",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, store := newTestServer(t)
			m := seedLifeMap(t, store)
			rec := doRequest(t, server, http.MethodPost, "/api/v0/m/"+m.ID.String()+"/c"+tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected status 400, got %d: %s", tt.description, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestItemEndpoints(t *testing.T) {
	server, store := newTestServer(t)
	m := seedLifeMap(t, store)
	base := "/api/v0/m/" + m.ID.String() + "/i"

	// 作成: 日付モード、最大年齢まで
	rec := doRequest(t, server, http.MethodPost, base, map[string]any{
		"category_id": 2,
		"title":       "Live in Osaka",
		"color":       "red",
		"input_mode":  "date",
		"start_date":  "2020-04-01",
		"use_max_age": true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[model.TimelineItem](t, rec)
	if created.ID != 3 || created.InputMode != model.InputModeDate || !created.UseMaxAge {
		t.Errorf("Unexpected item: %+v", created)
	}

	// 更新: 年齢モードへ切り替えると日付は消える
	rec = doRequest(t, server, http.MethodPut, fmt.Sprintf("%s/%d", base, created.ID), map[string]any{
		"category_id": 2,
		"title":       "Live in Osaka",
		"color":       "red",
		"input_mode":  "age",
		"start_age":   30,
		"end_age":     35,
		"start_date":  "2020-04-01",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[model.TimelineItem](t, rec)
	if updated.StartDate != "" || updated.StartAge == nil || *updated.StartAge != 30 {
		t.Errorf("Unexpected updated item: %+v", updated)
	}

	// 削除
	rec = doRequest(t, server, http.MethodDelete, fmt.Sprintf("%s/%d", base, created.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rec.Code)
	}
	got, _ := store.GetLifeMap(context.Background(), m.ID)
	if len(got.Items) != 2 {
		t.Errorf("Expected 2 items after delete, got %d", len(got.Items))
	}

	rec = doRequest(t, server, http.MethodDelete, fmt.Sprintf("%s/%d", base, created.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestItemValidation(t *testing.T) {
	tests := []struct {
		name        string
		body        map[string]any
		description string
	}{
		{
			name:        "end before start",
			body:        map[string]any{"category_id": 1, "title": "x", "color": "blue", "start_age": 10, "end_age": 5},
			description: "終了年齢が開始年齢より前の場合は400になること",
		},
		{
			name:        "unknown category",
			body:        map[string]any{"category_id": 42, "title": "x", "color": "blue", "start_age": 10},
			description: "存在しないカテゴリは400になること",
		},
		{
			name:        "missing title",
			body:        map[string]any{"category_id": 1, "color": "blue", "start_age": 10},
			description: "タイトルがない場合は400になること",
		},
		{
			name:        "bad date",
			body:        map[string]any{"category_id": 1, "title": "x", "color": "blue", "input_mode": "date", "start_date": "2020/01/01"},
			description: "日付の形式が不正な場合は400になること",
		},
		{
			name:        "negative age",
			body:        map[string]any{"category_id": 1, "title": "x", "color": "blue", "start_age": -1},
			description: "負の年齢は400になること",
		},
		{
			name:        "unknown input mode",
			body:        map[string]any{"category_id": 1, "title": "x", "color": "blue", "input_mode": "era"},
			description: "未知の入力モードは400になること",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, store := newTestServer(t)
			m := seedLifeMap(t, store)
			rec := doRequest(t, server, http.MethodPost, "/api/v0/m/"+m.ID.String()+"/i", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected status 400, got %d: %s", tt.description, rec.Code, rec.Body.String())
			}
			got, _ := store.GetLifeMap(context.Background(), m.ID)
			if len(got.Items) != 2 {
				t.Errorf("%s: expected no item to be added, got %d items", tt.description, len(got.Items))
			}
		})
	}
}

func TestGetTimelineEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	m := seedLifeMap(t, store)

	// 描画エンドポイントは認証不要
	for _, path := range []string{"/m/" + m.ID.String() + "/timeline.svg", "/m/" + m.ID.String() + "/timeline"} {
		req := httptest.NewRequest(http.MethodGet, path+"?width=800", nil)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
			t.Errorf("Expected image/svg+xml, got %q", ct)
		}
		body := rec.Body.String()
		if !strings.HasPrefix(body, "<svg") {
			t.Errorf("Expected svg document, got %q", body[:min(40, len(body))])
		}
		for _, want := range []string{`width="800"`, `data-item-id="1"`, `data-item-id="2"`, "First job", "Wedding"} {
			if !strings.Contains(body, want) {
				t.Errorf("Expected svg to contain %q", want)
			}
		}
	}
}

func TestGetTimelineEndpointErrors(t *testing.T) {
	server, store := newTestServer(t)
	m := seedLifeMap(t, store)

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		description string
	}{
		{"bad view", "/m/" + m.ID.String() + "/timeline.svg?view=someday", http.StatusBadRequest, "未知の表示モードは400になること"},
		{"narrow width", "/m/" + m.ID.String() + "/timeline.svg?width=10", http.StatusBadRequest, "狭すぎる幅は400になること"},
		{"bad autoscale", "/m/" + m.ID.String() + "/timeline.svg?autoscale=maybe", http.StatusBadRequest, "真偽値でない autoscale は400になること"},
		{"bad zoom", "/m/" + m.ID.String() + "/timeline.svg?zoom=3", http.StatusBadRequest, "範囲外のズームは400になること"},
		{"bad today", "/m/" + m.ID.String() + "/timeline.svg?today=tomorrow", http.StatusBadRequest, "不正な基準日は400になること"},
		{"unknown map", "/m/" + uuid.NewString() + "/timeline.svg", http.StatusNotFound, "存在しないライフマップは404になること"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("%s: expected status %d, got %d", tt.description, tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestGetLayoutEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	m := seedLifeMap(t, store)

	req := httptest.NewRequest(http.MethodGet, "/m/"+m.ID.String()+"/layout?width=1000&view=past&today=2025-06-01", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	layout := decode[timeline.Layout](t, rec)
	if layout.Width != 1000 {
		t.Errorf("Expected width 1000, got %v", layout.Width)
	}
	if layout.View != model.ViewPast {
		t.Errorf("Expected view past, got %q", layout.View)
	}
	if layout.CurrentAge != 35 {
		t.Errorf("Expected current age 35, got %d", layout.CurrentAge)
	}
	if len(layout.Items) != 2 || len(layout.Bands) != 2 {
		t.Errorf("Expected 2 items and 2 bands, got %d and %d", len(layout.Items), len(layout.Bands))
	}

	// 未来表示では過去のアイテムは描画されない
	req = httptest.NewRequest(http.MethodGet, "/m/"+m.ID.String()+"/layout?view=future", nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if future := decode[timeline.Layout](t, rec); len(future.Items) != 0 {
		t.Errorf("Expected no items in future view, got %d", len(future.Items))
	}
}

func TestHitTestEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	m := seedLifeMap(t, store)
	base := "/m/" + m.ID.String()

	req := httptest.NewRequest(http.MethodGet, base+"/layout?width=1000", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	layout := decode[timeline.Layout](t, rec)
	var job timeline.ItemGeometry
	for _, g := range layout.Items {
		if g.ID == 1 {
			job = g
		}
	}

	// アイテムの中心をクリック
	path := fmt.Sprintf("%s/hit?width=1000&x=%f&y=%f", base, job.X+job.Width/2, job.Y+job.Height/2)
	req = httptest.NewRequest(http.MethodGet, path, nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	hit := decode[HitResponse](t, rec)
	if !hit.Hit || hit.ItemID == nil || *hit.ItemID != 1 {
		t.Errorf("Expected hit on item 1, got %+v", hit)
	}

	// 何もない場所
	req = httptest.NewRequest(http.MethodGet, base+"/hit?width=1000&x=-10&y=-10", nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if miss := decode[HitResponse](t, rec); miss.Hit || miss.ItemID != nil {
		t.Errorf("Expected miss, got %+v", miss)
	}

	// 座標がない場合
	req = httptest.NewRequest(http.MethodGet, base+"/hit?x=1", nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	m := seedLifeMap(t, store)

	req := httptest.NewRequest(http.MethodGet, "/m/"+m.ID.String()+"/timeline.svg", nil)
	server.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"lifemap_layout_duration_seconds_count 1",
		"lifemap_layout_items_count 1",
		`lifemap_http_requests_total{method="GET",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected metrics to contain %q", want)
		}
	}
}

func TestSkippedItemsAreCounted(t *testing.T) {
	server, store := newTestServer(t)
	m := seedLifeMap(t, store)

	// カテゴリのないアイテムをストアに直接書き込む
	stored, _ := store.GetLifeMap(context.Background(), m.ID)
	start := 5.0
	stored.Items = append(stored.Items, &model.TimelineItem{ID: 9, CategoryID: 77, Title: "orphan", Color: model.ColorBlue, InputMode: model.InputModeAge, StartAge: &start})
	if err := store.SaveLifeMap(context.Background(), stored); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/m/"+m.ID.String()+"/layout", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	layout := decode[timeline.Layout](t, rec)
	if len(layout.Skipped) != 1 || layout.Skipped[0] != 9 {
		t.Errorf("Expected item 9 to be skipped, got %v", layout.Skipped)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "lifemap_layout_skipped_items_total 1") {
		t.Error("Expected skipped items metric to be 1")
	}
}
