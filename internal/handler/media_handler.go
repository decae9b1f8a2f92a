package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/hitoshi/adscope/internal/model"
	"github.com/hitoshi/adscope/internal/security"
)

// MediaHandler はメディア取得のHTTPハンドラー。
// 広告カードのダウンロードボタンのため、スクレイプ由来のメディアURLを
// サーバー側で取得してストリーミングする。URLは信頼できないため、
// SSRFガード付きクライアントで取得する。
type MediaHandler struct {
	guard   security.SSRFGuardService
	client  *http.Client
	maxSize int64
}

// NewMediaHandler はMediaHandlerを生成する。
func NewMediaHandler(guard security.SSRFGuardService, timeout time.Duration, maxSize int64) *MediaHandler {
	return &MediaHandler{
		guard:   guard,
		client:  guard.NewSafeClient(timeout, maxSize),
		maxSize: maxSize,
	}
}

// FetchMedia はメディアアセットを取得してストリーミングする。
// GET /api/media/fetch?url=...
func (h *MediaHandler) FetchMedia(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("urlパラメータを指定してください。"))
		return
	}

	if err := h.guard.ValidateURL(rawURL); err != nil {
		writeAPIErrorResponse(w, http.StatusForbidden, &model.APIError{
			Code:     "SSRF_BLOCKED",
			Message:  "指定されたURLへのアクセスは許可されていません。",
			Category: "validation",
			Action:   "公開されているメディアURLを指定してください。",
		})
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, rawURL, nil)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("URLの形式が不正です。"))
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		slog.Warn("メディア取得エラー", "url", rawURL, "error", err)
		writeAPIErrorResponse(w, http.StatusBadGateway, &model.APIError{
			Code:     "MEDIA_FETCH_FAILED",
			Message:  "メディアの取得に失敗しました。",
			Category: "provider",
			Action:   "しばらく待ってから再度お試しください。",
		})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("メディア取得の応答が異常", "url", rawURL, "status", resp.StatusCode)
		writeAPIErrorResponse(w, http.StatusBadGateway, &model.APIError{
			Code:     "MEDIA_FETCH_FAILED",
			Message:  "メディアの取得に失敗しました。",
			Category: "provider",
			Action:   "しばらく待ってから再度お試しください。",
		})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+mediaFilename(rawURL)+"\"")

	if _, err := io.Copy(w, io.LimitReader(resp.Body, h.maxSize)); err != nil {
		slog.Warn("メディアストリーミング中断", "url", rawURL, "error", err)
	}
}

// mediaFilename はメディアURLからダウンロード用のファイル名を導出する。
// パスから拡張子付きのベース名が取れない場合はデフォルト名を使う。
func mediaFilename(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "facebook_ad_media"
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "/" || name == "." || !strings.Contains(name, ".") {
		return "facebook_ad_media"
	}
	return name
}
