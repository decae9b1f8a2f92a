// Package model はドメインモデルを定義する。
package model

import "time"

// RawAd はスクレイププロバイダから取得した生の広告レコードを表す。
// スキーマは保証されない: キーの命名規則（snake_case/camelCase）が混在し、
// 値はスカラー・リスト・ネストしたマップのいずれもありうる。
// snapshotサブ構造はJSON文字列として格納されている場合もある。
type RawAd map[string]any

// CuratedAd は正規化済みの広告レコードを表す。
// すべての表示・保存・エクスポート面で共通に使用される正準形。
// 文字列フィールドの空値は""、is_activeとtotal_active_timeの欠損はnilで表す。
// 日付はYYYY-MM-DD形式（UTC）または""。
type CuratedAd struct {
	AdArchiveID           string `json:"ad_archive_id"`
	Categories            string `json:"categories"` // リストは", "結合済みの表示文字列
	CollationCount        string `json:"collation_count"`
	CollationID           string `json:"collation_id"`
	StartDate             string `json:"start_date"`
	EndDate               string `json:"end_date"`
	EntityType            string `json:"entity_type"`
	IsActive              *bool  `json:"is_active"`
	PageID                string `json:"page_id"`
	PageName              string `json:"page_name"`
	CTAText               string `json:"cta_text"`
	CTAType               string `json:"cta_type"`
	LinkURL               string `json:"link_url"`
	PageEntityType        string `json:"page_entity_type"`
	PageProfilePictureURL string `json:"page_profile_picture_url"`
	PageProfileURI        string `json:"page_profile_uri"`
	StateMediaRunLabel    string `json:"state_media_run_label"`
	TotalActiveTime       *int64 `json:"total_active_time"`
	OriginalImageURL      string `json:"original_image_url"`
}

// MediaKind はメディア資産の種別を表す。
type MediaKind string

const (
	// MediaKindImage は画像メディアを示す。
	MediaKindImage MediaKind = "image"
	// MediaKindVideo は動画メディアを示す。
	MediaKindVideo MediaKind = "video"
)

// MediaRef は広告を代表するメディア資産への参照を表す。
// ゼロ値は「メディアなし」を意味する。
type MediaRef struct {
	Kind MediaKind `json:"kind"`
	URL  string    `json:"url"`
}

// IsZero はメディアが解決されなかったことを判定する。
func (m MediaRef) IsZero() bool {
	return m.URL == ""
}

// SavedAd はチームに保存された広告の1行を表す。
// 正規化済みフィールドに加えて元の生レコード（JSON）と保存時刻を持つ。
// 保存後の更新は存在しない（削除のみ）。
type SavedAd struct {
	ID       int64
	TeamSlug string
	CuratedAd
	RawJSON string
	SavedAt time.Time
}
