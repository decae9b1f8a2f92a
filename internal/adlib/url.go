// Package adlib はFacebook広告ライブラリの検索URL構築を提供する。
// 生成するクエリ文字列は外部スクレイパーのコントラクトであり、
// パラメータの並びと値はモードごとに固定されている。
package adlib

import (
	"net/url"
	"strings"
)

// 検索モード識別子。
const (
	ModeKeyword       = "keyword"
	ModePageID        = "page_id"
	ModeLandingDomain = "landing_domain"
)

// CategoryLabelToAdType は広告カテゴリの表示ラベルからad_typeパラメータへの対応。
var CategoryLabelToAdType = map[string]string{
	"All ads":                         "all",
	"Issues, elections or politics":   "issues_elections_politics",
	"Properties":                      "housing",
	"Employment":                      "employment",
	"Financial products and services": "credit",
}

// ActiveStatusLabelToParam は配信状態の表示ラベルからactive_statusパラメータへの対応。
var ActiveStatusLabelToParam = map[string]string{
	"Active ads":   "active",
	"Inactive ads": "inactive",
	"All ads":      "all",
}

// SearchModeLabelToParam はキーワード検索方式の表示ラベルからsearch_typeパラメータへの対応。
var SearchModeLabelToParam = map[string]string{
	"Broad (any words)": "keyword_unordered",
	"Exact phrase":      "keyword_exact",
}

// Country は国の表示名とISOコードの組。
type Country struct {
	Name string
	Code string
}

// CommonCountries は検索フォームに提示する国の一覧。
var CommonCountries = []Country{
	{"United States", "US"},
	{"India", "IN"},
	{"United Kingdom", "GB"},
	{"Canada", "CA"},
	{"Australia", "AU"},
	{"Germany", "DE"},
	{"France", "FR"},
	{"Brazil", "BR"},
	{"Singapore", "SG"},
}

// SearchParams は検索URL構築の入力。
type SearchParams struct {
	Country       string
	Keyword       string
	AdType        string
	ActiveStatus  string
	SearchMode    string // keyword_unordered / keyword_exact / page_id / landing_domain
	PageID        string
	LandingDomain string
}

const libraryBase = "https://www.facebook.com/ads/library/?"

// BuildLibraryURL は検索種別に応じた広告ライブラリURLを構築する。
// page_idモードは国・状態を固定したページ透明性ウィジェット形式、
// landing_domainモードはドメインをキーワードとして扱う固定形式、
// それ以外はキーワード検索形式になる。
func BuildLibraryURL(p SearchParams) string {
	country := strings.ToUpper(strings.TrimSpace(p.Country))

	switch {
	case p.SearchMode == ModePageID && p.PageID != "":
		return libraryBase +
			"active_status=all&" +
			"ad_type=all&" +
			"country=ALL&" +
			"is_targeted_country=false&" +
			"media_type=all&" +
			"search_type=page&" +
			"source=page-transparency-widget&" +
			"view_all_page_id=" + strings.TrimSpace(p.PageID)
	case p.SearchMode == ModeLandingDomain && p.LandingDomain != "":
		return libraryBase +
			"active_status=active&" +
			"ad_type=all&" +
			"country=" + country + "&" +
			"is_targeted_country=false&" +
			"media_type=all&" +
			"q=" + url.QueryEscape(strings.TrimSpace(p.LandingDomain)) + "&" +
			"search_type=keyword_unordered"
	default:
		return libraryBase +
			"active_status=" + p.ActiveStatus + "&" +
			"ad_type=" + p.AdType + "&" +
			"country=" + country + "&" +
			"is_targeted_country=false&" +
			"media_type=all&" +
			"q=" + url.QueryEscape(strings.TrimSpace(p.Keyword)) + "&" +
			"search_type=" + p.SearchMode
	}
}
