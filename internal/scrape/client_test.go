package scrape

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestSearch_SendsActorInput はアクターへのリクエストボディとトークンが正しいことを検証する。
func TestSearch_SendsActorInput(t *testing.T) {
	var gotBody map[string]any
	var gotToken string
	var gotMethod string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotToken = r.URL.Query().Get("token")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client := NewApifyClient(ts.Client(), newTestLogger(), "test-token", rate.Inf)
	client.endpoint = ts.URL

	_, err := client.Search(context.Background(), "https://www.facebook.com/ads/library/?q=shoes", 25, "active")
	if err != nil {
		t.Fatalf("Search() returned error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want %q", gotMethod, http.MethodPost)
	}
	if gotToken != "test-token" {
		t.Errorf("token = %q, want %q", gotToken, "test-token")
	}
	if gotBody["count"] != float64(25) {
		t.Errorf("count = %v, want 25", gotBody["count"])
	}
	if gotBody["scrapeAdDetails"] != true {
		t.Errorf("scrapeAdDetails = %v, want true", gotBody["scrapeAdDetails"])
	}
	if gotBody["scrapePageAds.activeStatus"] != "active" {
		t.Errorf("scrapePageAds.activeStatus = %v, want %q", gotBody["scrapePageAds.activeStatus"], "active")
	}
	if gotBody["period"] != "" {
		t.Errorf("period = %v, want empty string", gotBody["period"])
	}

	urls, ok := gotBody["urls"].([]any)
	if !ok || len(urls) != 1 {
		t.Fatalf("urls = %v, want single entry", gotBody["urls"])
	}
	entry := urls[0].(map[string]any)
	if entry["url"] != "https://www.facebook.com/ads/library/?q=shoes" {
		t.Errorf("urls[0].url = %v", entry["url"])
	}
	if entry["method"] != "GET" {
		t.Errorf("urls[0].method = %v, want GET", entry["method"])
	}
}

// TestSearch_DecodesItems はデータセットのアイテム列がデコードされることを検証する。
func TestSearch_DecodesItems(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"ad_archive_id":"123","page_name":"Acme"},{"adArchiveID":"456"}]`))
	}))
	defer ts.Close()

	client := NewApifyClient(ts.Client(), newTestLogger(), "test-token", rate.Inf)
	client.endpoint = ts.URL

	items, err := client.Search(context.Background(), "https://example.com", 10, "all")
	if err != nil {
		t.Fatalf("Search() returned error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0]["ad_archive_id"] != "123" {
		t.Errorf("items[0].ad_archive_id = %v, want %q", items[0]["ad_archive_id"], "123")
	}
	if items[1]["adArchiveID"] != "456" {
		t.Errorf("items[1].adArchiveID = %v, want %q", items[1]["adArchiveID"], "456")
	}
}

// TestSearch_EmptyDataset は0件の結果が成功として扱われることを検証する。
func TestSearch_EmptyDataset(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client := NewApifyClient(ts.Client(), newTestLogger(), "test-token", rate.Inf)
	client.endpoint = ts.URL

	items, err := client.Search(context.Background(), "https://example.com", 10, "all")
	if err != nil {
		t.Fatalf("Search() returned error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
}

// TestSearch_MissingToken はトークン未設定でエラーになることを検証する。
func TestSearch_MissingToken(t *testing.T) {
	client := NewApifyClient(http.DefaultClient, newTestLogger(), "", rate.Inf)

	_, err := client.Search(context.Background(), "https://example.com", 10, "all")
	if err == nil {
		t.Fatal("expected error for missing token, got nil")
	}
}

// TestSearch_HTTPErrorStatus は2xx以外のステータスがエラーになることを検証する。
func TestSearch_HTTPErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewApifyClient(ts.Client(), newTestLogger(), "test-token", rate.Inf)
	client.endpoint = ts.URL

	_, err := client.Search(context.Background(), "https://example.com", 10, "all")
	if err == nil {
		t.Fatal("expected error for 502 response, got nil")
	}
}

// TestSearch_InvalidJSON はデコード失敗がエラーになることを検証する。
func TestSearch_InvalidJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer ts.Close()

	client := NewApifyClient(ts.Client(), newTestLogger(), "test-token", rate.Inf)
	client.endpoint = ts.URL

	_, err := client.Search(context.Background(), "https://example.com", 10, "all")
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

// TestSearch_ContextCancelled はキャンセル済みコンテキストでエラーになることを検証する。
func TestSearch_ContextCancelled(t *testing.T) {
	client := NewApifyClient(http.DefaultClient, newTestLogger(), "test-token", rate.Inf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "https://example.com", 10, "all")
	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}
