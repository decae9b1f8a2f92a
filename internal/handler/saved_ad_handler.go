package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/adscope/internal/ads"
	"github.com/hitoshi/adscope/internal/curate"
	"github.com/hitoshi/adscope/internal/metrics"
	"github.com/hitoshi/adscope/internal/model"
)

// SavedAdServiceInterface は保存済み広告ハンドラーが必要とするサービスインターフェース。
type SavedAdServiceInterface interface {
	// Save は広告レコードをチームに保存する。
	Save(ctx context.Context, teamName string, raw model.RawAd) (model.CuratedAd, error)
	// FetchAll はチームの保存済み広告を全件返す。
	FetchAll(ctx context.Context, teamName string) ([]*model.SavedAd, error)
	// DeleteAd はアーカイブIDで保存済み広告を削除する。
	DeleteAd(ctx context.Context, teamName, archiveID string) (bool, error)
}

// AdCurator は保存済み広告を検索結果と同じ表示用レコードに再正規化する。
type AdCurator interface {
	Curate(items []model.RawAd) []ads.DisplayAd
}

// SavedAdHandler は保存済み広告のHTTPハンドラー。
type SavedAdHandler struct {
	service   SavedAdServiceInterface
	curator   AdCurator
	collector metrics.MetricsCollector
}

// NewSavedAdHandler はSavedAdHandlerを生成する。
func NewSavedAdHandler(service SavedAdServiceInterface, curator AdCurator, collector metrics.MetricsCollector) *SavedAdHandler {
	return &SavedAdHandler{
		service:   service,
		curator:   curator,
		collector: collector,
	}
}

// savedAdResponse は保存済み広告1件のレスポンス。
// 表示用レコードに保存メタデータを付加する。
type savedAdResponse struct {
	ads.DisplayAd
	SavedID int64     `json:"saved_id"`
	SavedAt time.Time `json:"saved_at"`
}

// SaveAd は広告レコードをチームに保存する。
// POST /api/teams/{name}/ads
func (h *SavedAdHandler) SaveAd(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var raw model.RawAd
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	curated, err := h.service.Save(r.Context(), name, raw)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordAdSaved(name)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(curated)
}

// ListSavedAds はチームの保存済み広告一覧を取得する。
// レスポンスは検索結果と同じ形状に再正規化される。
// GET /api/teams/{name}/ads
func (h *SavedAdHandler) ListSavedAds(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	rows, err := h.service.FetchAll(r.Context(), name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]savedAdResponse, 0, len(rows))
	for _, row := range rows {
		raw := curate.RawFromSavedRow(*row)
		display := h.curator.Curate([]model.RawAd{raw})
		resp = append(resp, savedAdResponse{
			DisplayAd: display[0],
			SavedID:   row.ID,
			SavedAt:   row.SavedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// DeleteSavedAd はアーカイブIDで保存済み広告を削除する。
// DELETE /api/teams/{name}/ads/{archiveID}
func (h *SavedAdHandler) DeleteSavedAd(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	archiveID := chi.URLParam(r, "archiveID")

	matched, err := h.service.DeleteAd(r.Context(), name, archiveID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if !matched {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewAdNotFoundError(archiveID))
		return
	}

	if h.collector != nil {
		h.collector.RecordAdDeleted(name)
	}

	w.WriteHeader(http.StatusNoContent)
}
