// Package scrape はスクレイププロバイダ（Apifyアクター）との連携を提供する。
// プロバイダは検索URLと件数を受け取り、スキーマ保証のない生の広告レコード列を返す。
package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/hitoshi/adscope/internal/model"
)

const (
	// defaultEndpoint は広告ライブラリスクレイパーアクターの同期実行エンドポイント。
	defaultEndpoint = "https://api.apify.com/v2/acts/curious_coder~facebook-ads-library-scraper/run-sync-get-dataset-items"
	// maxResponseSize はレスポンスボディの読み取り上限（64MB）。
	maxResponseSize = 64 << 20
)

// Provider はスクレイププロバイダのインターフェース。
// 失敗は単一のエラーとして呼び出し元に伝播し、0件の結果は成功として扱う。
type Provider interface {
	// Search は検索URLに対してスクレイプを実行し、生の広告レコード列を返す。
	Search(ctx context.Context, libraryURL string, count int, activeStatus string) ([]model.RawAd, error)
}

// ApifyClient はApify REST API経由で広告ライブラリスクレイパーを呼び出すクライアント。
type ApifyClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	token      string
	endpoint   string // テスト用にエンドポイントを差し替え可能
	limiter    *rate.Limiter
}

// NewApifyClient はApifyClientの新しいインスタンスを生成する。
// limitはアクター呼び出しの送信ペース（req/sec）を指定する。
func NewApifyClient(httpClient *http.Client, logger *slog.Logger, token string, limit rate.Limit) *ApifyClient {
	return &ApifyClient{
		httpClient: httpClient,
		logger:     logger,
		token:      token,
		endpoint:   defaultEndpoint,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// runInput はアクターへのリクエストボディ。
// キー構成はスクレイパーアクターの入力スキーマに従う。
type runInput struct {
	URLs             []runInputURL `json:"urls"`
	Count            int           `json:"count"`
	ScrapeAdDetails  bool          `json:"scrapeAdDetails"`
	PageActiveStatus string        `json:"scrapePageAds.activeStatus"`
	Period           string        `json:"period"`
}

type runInputURL struct {
	URL    string `json:"url"`
	Method string `json:"method"`
}

// Search は広告ライブラリスクレイパーを同期実行し、データセットの全アイテムを返す。
// countは取得する広告レコード数の上限、activeStatusは配信状態フィルタ。
// トークン未設定・HTTPエラー・デコード失敗はすべてエラーとして返す。
func (c *ApifyClient) Search(ctx context.Context, libraryURL string, count int, activeStatus string) ([]model.RawAd, error) {
	if c.token == "" {
		return nil, fmt.Errorf("Apify APIトークンが設定されていません")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("送信ペース制御の待機に失敗しました: %w", err)
	}

	input := runInput{
		URLs:             []runInputURL{{URL: libraryURL, Method: http.MethodGet}},
		Count:            count,
		ScrapeAdDetails:  true,
		PageActiveStatus: activeStatus,
		Period:           "",
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("リクエストボディの構築に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?token="+c.token, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("スクレイパーアクターの呼び出しに失敗しました",
			slog.String("error", err.Error()),
			slog.String("library_url", libraryURL),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("スクレイパーアクターがステータス %d を返しました", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	var items []model.RawAd
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("データセットのデコードに失敗しました: %w", err)
	}

	c.logger.Info("scrape completed",
		slog.Int("item_count", len(items)),
		slog.Int("requested_count", count),
	)

	return items, nil
}

// compile-time interface check
var _ Provider = (*ApifyClient)(nil)
