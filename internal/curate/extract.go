package curate

import (
	"encoding/json"
	"strings"

	"github.com/hitoshi/adscope/internal/model"
)

// Extract は生の広告レコードから正規化済みフィールドを抽出する。
// 入力の形がどうであれ常にCuratedAdを返す全域関数であり、
// 型不一致や欠損はすべて空値に縮退する。
func Extract(item model.RawAd) model.CuratedAd {
	snap := SnapshotOf(item)

	card := firstMap(snap["cards"])
	pgcat := firstMap(snap["page_categories"])

	linkURL := stringOf(snap["link_url"])
	if linkURL == "" && card != nil {
		linkURL = stringOf(card["link_url"])
	}

	ctaText := ""
	ctaType := ""
	if card != nil {
		ctaText = stringOf(card["cta_text"])
		ctaType = stringOf(card["cta_type"])
	}
	if ctaText == "" {
		ctaText = stringOf(snap["cta_text"])
	}
	if ctaType == "" {
		ctaType = stringOf(snap["cta_type"])
	}

	pageEntityType := ""
	if pgcat != nil {
		pageEntityType = stringOf(pgcat["page_entity_type"])
	}
	if pageEntityType == "" {
		pageEntityType = stringOf(item["page_entity_type"])
	}

	return model.CuratedAd{
		AdArchiveID:           firstString(item, "ad_archive_id", "adId"),
		Categories:            categoriesDisplay(item["categories"]),
		CollationCount:        stringOf(item["collation_count"]),
		CollationID:           stringOf(item["collation_id"]),
		StartDate:             CoerceDate(firstPresent(item, "start_date", "startDate")),
		EndDate:               CoerceDate(firstPresent(item, "end_date", "endDate")),
		EntityType:            stringOf(item["entity_type"]),
		IsActive:              boolValue(item["is_active"]),
		PageID:                firstString(item, "page_id", "pageId"),
		PageName:              firstString(item, "page_name", "pageName"),
		CTAText:               ctaText,
		CTAType:               ctaType,
		LinkURL:               linkURL,
		PageEntityType:        pageEntityType,
		PageProfilePictureURL: coalesce(stringOf(item["page_profile_picture_url"]), stringOf(snap["page_profile_picture_url"])),
		PageProfileURI:        coalesce(stringOf(item["page_profile_uri"]), stringOf(snap["page_profile_uri"])),
		StateMediaRunLabel:    stringOf(item["state_media_run_label"]),
		TotalActiveTime:       intValue(item["total_active_time"]),
		OriginalImageURL:      OriginalImageURL(item),
	}
}

// FromSavedRow は保存済み行を正規化済みフィールドに再抽出する。
// raw_jsonが残っていればそれを生レコードとして使い、なければ平坦な
// カラム群から等価なネスト形を再構成してExtractに委譲する。
// これにより表示側はレコードがライブ取得かDB読み戻しかを区別しない。
func FromSavedRow(row model.SavedAd) model.CuratedAd {
	return Extract(RawFromSavedRow(row))
}

// RawFromSavedRow は保存済み行からitem相当のRawAdを復元する。
func RawFromSavedRow(row model.SavedAd) model.RawAd {
	if row.RawJSON != "" {
		var raw model.RawAd
		if err := json.Unmarshal([]byte(row.RawJSON), &raw); err == nil && raw != nil {
			return raw
		}
	}

	snap := map[string]any{
		"link_url": row.LinkURL,
		"cards": map[string]any{
			"cta_text": row.CTAText,
			"cta_type": row.CTAType,
			"link_url": row.LinkURL,
		},
		"page_categories": map[string]any{
			"page_entity_type": row.PageEntityType,
		},
		"images": map[string]any{
			"original_image_url": row.OriginalImageURL,
		},
		"page_profile_picture_url": row.PageProfilePictureURL,
		"page_profile_uri":         row.PageProfileURI,
	}

	item := model.RawAd{
		"ad_archive_id":         row.AdArchiveID,
		"categories":            row.Categories,
		"collation_count":       row.CollationCount,
		"collation_id":          row.CollationID,
		"start_date":            row.StartDate,
		"end_date":              row.EndDate,
		"entity_type":           row.EntityType,
		"page_id":               row.PageID,
		"page_name":             row.PageName,
		"state_media_run_label": row.StateMediaRunLabel,
		"snapshot":              snap,
	}
	if row.IsActive != nil {
		item["is_active"] = *row.IsActive
	}
	if row.TotalActiveTime != nil {
		item["total_active_time"] = float64(*row.TotalActiveTime)
	}
	return item
}

// categoriesDisplay はcategoriesの生値を表示文字列に変換する。
// リストは", "で結合し、それ以外はそのまま文字列化する。
func categoriesDisplay(v any) string {
	if list, ok := v.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, e := range list {
			parts = append(parts, stringOf(e))
		}
		return strings.Join(parts, ", ")
	}
	return stringOf(v)
}

// boolValue は生のアクティブフラグを*boolとして解釈する。欠損はnil。
func boolValue(v any) *bool {
	switch t := v.(type) {
	case bool:
		return &t
	case float64:
		b := t != 0
		return &b
	case int:
		b := t != 0
		return &b
	default:
		return nil
	}
}

// intValue は数値または数値文字列を*int64として解釈する。欠損・非数値はnil。
func intValue(v any) *int64 {
	if f, ok := numericValue(v); ok {
		n := int64(f)
		return &n
	}
	return nil
}

// coalesce は最初の非空文字列を返す。
func coalesce(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
