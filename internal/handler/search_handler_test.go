package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/adscope/internal/ads"
	"github.com/hitoshi/adscope/internal/model"
)

// --- テストヘルパー ---

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseAPIErrorResponse はレスポンスボディからAPIErrorレスポンスをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

// --- モック定義 ---

// mockSearchService はSearchServiceInterfaceのモック実装。
type mockSearchService struct {
	searchFn func(ctx context.Context, req ads.SearchRequest) (*ads.SearchResult, error)
}

func (m *mockSearchService) Search(ctx context.Context, req ads.SearchRequest) (*ads.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return &ads.SearchResult{Ads: []ads.DisplayAd{}}, nil
}

// --- Search ---

// 検索成功時に結果がJSONで返ることを検証
func TestSearchHandler_Search_Success(t *testing.T) {
	service := &mockSearchService{
		searchFn: func(_ context.Context, req ads.SearchRequest) (*ads.SearchResult, error) {
			if req.Keyword != "running shoes" {
				t.Errorf("req.Keyword = %q, want %q", req.Keyword, "running shoes")
			}
			return &ads.SearchResult{
				LibraryURL: "https://www.facebook.com/ads/library/?q=running+shoes",
				Count:      1,
				Ads: []ads.DisplayAd{
					{CuratedAd: model.CuratedAd{AdArchiveID: "555"}, Status: "Active"},
				},
			}, nil
		},
	}
	handler := NewSearchHandler(service)

	body := bytes.NewBufferString(`{"mode":"keyword","keyword":"running shoes"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/search", body)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var result ads.SearchResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Count != 1 || len(result.Ads) != 1 {
		t.Errorf("result = %+v", result)
	}
	if result.Ads[0].AdArchiveID != "555" {
		t.Errorf("AdArchiveID = %q, want %q", result.Ads[0].AdArchiveID, "555")
	}
}

// 不正なJSONボディが400になることを検証
func TestSearchHandler_Search_InvalidBody(t *testing.T) {
	handler := NewSearchHandler(&mockSearchService{})

	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(`{broken`))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	resp := parseAPIErrorResponse(t, w)
	if resp["code"] != "INVALID_REQUEST" {
		t.Errorf("code = %q, want INVALID_REQUEST", resp["code"])
	}
}

// バリデーションエラーが400になることを検証
func TestSearchHandler_Search_ValidationError(t *testing.T) {
	service := &mockSearchService{
		searchFn: func(_ context.Context, _ ads.SearchRequest) (*ads.SearchResult, error) {
			return nil, model.NewInvalidRequestError("keywordを指定してください。")
		},
	}
	handler := NewSearchHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(`{"mode":"keyword"}`))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// プロバイダーエラーが502になることを検証
func TestSearchHandler_Search_ProviderError(t *testing.T) {
	service := &mockSearchService{
		searchFn: func(_ context.Context, _ ads.SearchRequest) (*ads.SearchResult, error) {
			return nil, model.NewProviderError(errors.New("actor run failed"))
		},
	}
	handler := NewSearchHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(`{"mode":"keyword","keyword":"x"}`))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}
	resp := parseAPIErrorResponse(t, w)
	if resp["code"] != model.ErrCodeProviderFailed {
		t.Errorf("code = %q, want %q", resp["code"], model.ErrCodeProviderFailed)
	}
}

// APIError以外のエラーが500になることを検証
func TestSearchHandler_Search_InternalError(t *testing.T) {
	service := &mockSearchService{
		searchFn: func(_ context.Context, _ ads.SearchRequest) (*ads.SearchResult, error) {
			return nil, errors.New("unexpected failure")
		},
	}
	handler := NewSearchHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(`{"mode":"keyword","keyword":"x"}`))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	resp := parseAPIErrorResponse(t, w)
	if resp["code"] != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want INTERNAL_ERROR", resp["code"])
	}
}
