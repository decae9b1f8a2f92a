// Package ads は広告ライブラリ検索のドメインロジックを提供する。
package ads

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hitoshi/adscope/internal/adlib"
	"github.com/hitoshi/adscope/internal/curate"
	"github.com/hitoshi/adscope/internal/metrics"
	"github.com/hitoshi/adscope/internal/model"
	"github.com/hitoshi/adscope/internal/scrape"
	"github.com/hitoshi/adscope/internal/security"
)

// defaultSearchCount は件数未指定時の取得件数。
const defaultSearchCount = 20

// SearchRequest は広告検索のリクエスト。
type SearchRequest struct {
	Mode          string `json:"mode"`
	Country       string `json:"country"`
	Keyword       string `json:"keyword"`
	PageID        string `json:"page_id"`
	LandingDomain string `json:"landing_domain"`
	Count         int    `json:"count"`
	AdCategory    string `json:"ad_category"`
	ActiveStatus  string `json:"active_status"`
	SearchMode    string `json:"search_mode"`
}

// DisplayAd は検索結果1件の表示用レコード。
// 正規化済みフィールドに表示用メディアと配信状態を付加する。
type DisplayAd struct {
	model.CuratedAd
	AdText      string `json:"ad_text"`
	MediaKind   string `json:"media_kind"`
	MediaURL    string `json:"media_url"`
	RunningDays *int   `json:"running_days"`
	Status      string `json:"status"`
}

// SearchResult は広告検索のレスポンス。
type SearchResult struct {
	LibraryURL string      `json:"library_url"`
	Count      int         `json:"count"`
	Ads        []DisplayAd `json:"ads"`
}

// SearchService は広告検索のサービス層。
// URL構築 → プロバイダー呼び出し → 正規化 → 表示用加工のフローを統括する。
type SearchService struct {
	provider  scrape.Provider
	sanitizer security.ContentSanitizerService
	collector metrics.MetricsCollector
	maxCount  int
}

// NewSearchService はSearchServiceの新しいインスタンスを生成する。
// maxCountはプロバイダーに要求する取得件数の上限。
func NewSearchService(
	provider scrape.Provider,
	sanitizer security.ContentSanitizerService,
	collector metrics.MetricsCollector,
	maxCount int,
) *SearchService {
	return &SearchService{
		provider:  provider,
		sanitizer: sanitizer,
		collector: collector,
		maxCount:  maxCount,
	}
}

// Search は広告ライブラリを検索し、正規化済みの表示用レコードを返す。
// プロバイダーが0件を返した場合も成功として空スライスを返す。
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	params, activeStatus, err := s.buildParams(req)
	if err != nil {
		return nil, err
	}

	count := req.Count
	if count <= 0 {
		count = defaultSearchCount
	}
	if count > s.maxCount {
		count = s.maxCount
	}

	libraryURL := adlib.BuildLibraryURL(params)

	start := time.Now()
	items, err := s.provider.Search(ctx, libraryURL, count, activeStatus)
	if s.collector != nil {
		s.collector.RecordScrapeLatency(time.Since(start))
	}
	if err != nil {
		if s.collector != nil {
			s.collector.RecordSearchFailure(req.Mode, "provider")
		}
		slog.Warn("広告検索プロバイダーエラー", "mode", req.Mode, "url", libraryURL, "error", err)
		return nil, model.NewProviderError(err)
	}

	ads := make([]DisplayAd, 0, len(items))
	for _, item := range items {
		ads = append(ads, s.toDisplayAd(item))
	}

	if s.collector != nil {
		s.collector.RecordSearchSuccess(req.Mode)
		s.collector.RecordAdsCurated(len(ads))
	}
	slog.Info("広告検索完了", "mode", req.Mode, "requested", count, "returned", len(ads))

	return &SearchResult{
		LibraryURL: libraryURL,
		Count:      len(ads),
		Ads:        ads,
	}, nil
}

// Curate は生の広告レコード群を表示用レコードに変換する。
// 保存済み広告の再正規化でも使用し、検索結果とレスポンス形状を揃える。
func (s *SearchService) Curate(items []model.RawAd) []DisplayAd {
	ads := make([]DisplayAd, 0, len(items))
	for _, item := range items {
		ads = append(ads, s.toDisplayAd(item))
	}
	return ads
}

// toDisplayAd は生レコード1件を表示用レコードに変換する。
func (s *SearchService) toDisplayAd(item model.RawAd) DisplayAd {
	curated := curate.Extract(item)
	media := curate.ResolveMedia(item)

	ad := DisplayAd{
		CuratedAd: curated,
		AdText:    s.sanitizeText(adText(item)),
		MediaKind: string(media.Kind),
		MediaURL:  media.URL,
		Status:    curate.DetectStatus(item),
	}

	if days, ok := curate.RunningDays(item); ok {
		ad.RunningDays = &days
	}

	return ad
}

// sanitizeText は広告本文をサニタイズする。
func (s *SearchService) sanitizeText(text string) string {
	if s.sanitizer == nil {
		return text
	}
	return s.sanitizer.Sanitize(text)
}

// buildParams はリクエストを検証してURL構築の入力に変換する。
// 2番目の戻り値はプロバイダーに渡すactive_statusパラメータ。
func (s *SearchService) buildParams(req SearchRequest) (adlib.SearchParams, string, error) {
	country := strings.TrimSpace(req.Country)
	if country == "" {
		country = "US"
	}

	activeStatus, ok := adlib.ActiveStatusLabelToParam[req.ActiveStatus]
	if !ok {
		activeStatus = "active"
	}
	adType, ok := adlib.CategoryLabelToAdType[req.AdCategory]
	if !ok {
		adType = "all"
	}

	params := adlib.SearchParams{
		Country:      country,
		AdType:       adType,
		ActiveStatus: activeStatus,
	}

	switch req.Mode {
	case adlib.ModeKeyword, "":
		keyword := strings.TrimSpace(req.Keyword)
		if keyword == "" {
			return adlib.SearchParams{}, "", model.NewInvalidRequestError("keywordを指定してください。")
		}
		searchMode, ok := adlib.SearchModeLabelToParam[req.SearchMode]
		if !ok {
			searchMode = "keyword_unordered"
		}
		params.Keyword = keyword
		params.SearchMode = searchMode
	case adlib.ModePageID:
		pageID := strings.TrimSpace(req.PageID)
		if pageID == "" {
			return adlib.SearchParams{}, "", model.NewInvalidRequestError("page_idを指定してください。")
		}
		params.PageID = pageID
		params.SearchMode = adlib.ModePageID
	case adlib.ModeLandingDomain:
		domain := strings.TrimSpace(req.LandingDomain)
		if domain == "" {
			return adlib.SearchParams{}, "", model.NewInvalidRequestError("landing_domainを指定してください。")
		}
		params.LandingDomain = domain
		params.SearchMode = adlib.ModeLandingDomain
		// landing_domainモードは配信中の広告に固定される
		activeStatus = "active"
	default:
		return adlib.SearchParams{}, "", model.NewInvalidRequestError("modeはkeyword、page_id、landing_domainのいずれかを指定してください。")
	}

	return params, activeStatus, nil
}

// adText は広告本文をエイリアスキーの優先順で取り出す。
func adText(item model.RawAd) string {
	for _, key := range []string{"adText", "ad_text", "text"} {
		if v, ok := item[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
