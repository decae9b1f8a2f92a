package curate

import "github.com/hitoshi/adscope/internal/model"

// PlaceholderImageURL はメディアが解決できなかった広告のカード表示に使う
// 代替画像のURL。
const PlaceholderImageURL = "https://via.placeholder.com/400x250/6366f1/ffffff?text=Ad+Preview"

// imageAliasKeys はトップレベルの画像URLキーの別名（優先順）。
var imageAliasKeys = []string{"imageUrl", "image_url", "thumbnailUrl", "thumbnail_url", "image"}

// videoAliasKeys はトップレベルの動画URLキーの別名（優先順）。
var videoAliasKeys = []string{"videoUrl", "video_url", "video"}

// originalImageKeys はimagesリスト内の要素から画像URLを探すキー（優先順）。
var originalImageKeys = []string{"original_image_url", "original_picture_url", "original_picture", "url", "src"}

func imageRef(u string) model.MediaRef {
	return model.MediaRef{Kind: model.MediaKindImage, URL: u}
}

func videoRef(u string) model.MediaRef {
	return model.MediaRef{Kind: model.MediaKindVideo, URL: u}
}

// OriginalImageURL は画像系フィールドのみを対象にオリジナル画像URLを解決する。
// snapshot直下のoriginal_image_url/original_picture_urlを優先し、
// 次にimagesサブ構造（リストまたは単一マップ）を走査する。
// 解決できない場合は""を返し、代替画像への置換は行わない
// （この値は表示ではなく判定に使われるため、未解決は未解決のまま保つ）。
func OriginalImageURL(item model.RawAd) string {
	snap := SnapshotOf(item)
	if u := stringOf(snap["original_image_url"]); u != "" {
		return u
	}
	if u := stringOf(snap["original_picture_url"]); u != "" {
		return u
	}
	for _, im := range mapList(snap["images"]) {
		for _, k := range originalImageKeys {
			if u := stringOf(im[k]); u != "" {
				return u
			}
		}
	}
	return ""
}

// PrimaryMedia はトップレベルの別名キーと汎用サブ構造から代表メディアを
// 抽出する。オリジナル画像を最優先し、次にトップレベルの画像・動画キー、
// creatives/mediaサブ構造、mediaUrlsリストの順に走査する。
// 見つからない場合はゼロ値を返す（代替画像への置換は行わない）。
func PrimaryMedia(item model.RawAd) model.MediaRef {
	if u := OriginalImageURL(item); u != "" {
		return imageRef(u)
	}
	for _, k := range imageAliasKeys {
		if u := stringOf(item[k]); u != "" {
			return imageRef(u)
		}
	}
	for _, k := range videoAliasKeys {
		if u := stringOf(item[k]); u != "" {
			return videoRef(u)
		}
	}
	creatives := item["creatives"]
	if !truthy(creatives) {
		creatives = item["media"]
	}
	for _, c := range mapList(creatives) {
		for _, k := range imageAliasKeys {
			if u := stringOf(c[k]); u != "" {
				return imageRef(u)
			}
		}
		for _, k := range videoAliasKeys {
			if u := stringOf(c[k]); u != "" {
				return videoRef(u)
			}
		}
	}
	mediaURLs := item["mediaUrls"]
	if !truthy(mediaURLs) {
		mediaURLs = item["media_urls"]
	}
	if list, ok := mediaURLs.([]any); ok && len(list) > 0 {
		if u := stringOf(list[0]); u != "" {
			return imageRef(u)
		}
	}
	return model.MediaRef{}
}

// ResolveMedia はカード表示用に広告を代表するメディアを解決する。
// 固定の優先順位チェーンで最初にURLが得られた規則で確定し、以降は走査しない。
// 観測されたペイロードの世代差を吸収するため、信頼度の高いフィールドを
// 汎用フォールバックより前に置いている。どの規則にも該当しない場合は
// 代替画像を返し、ゼロ値は返さない。
func ResolveMedia(item model.RawAd) model.MediaRef {
	snap := SnapshotOf(item)

	// 1. snapshot直下のオリジナル画像
	if u := stringOf(snap["original_image_url"]); u != "" {
		return imageRef(u)
	}
	// 2. snapshot直下のHD動画
	if u := stringOf(snap["video_hd_url"]); u != "" {
		return videoRef(u)
	}
	// 3. snapshot直下の別名オリジナル画像
	if u := stringOf(snap["original_picture_url"]); u != "" {
		return imageRef(u)
	}
	// 4. 抽出パス経由のオリジナル画像（形のバリアントを吸収する）
	if u := Extract(item).OriginalImageURL; u != "" {
		return imageRef(u)
	}
	// 5. videosリスト内のHD動画
	for _, v := range listMaps(snap["videos"]) {
		if u := stringOf(v["video_hd_url"]); u != "" {
			return videoRef(u)
		}
	}
	// 6-7. imagesリスト内のオリジナル画像（別名キーを先に全件走査する）
	images := listMaps(snap["images"])
	for _, im := range images {
		if u := stringOf(im["original_picture_url"]); u != "" {
			return imageRef(u)
		}
	}
	for _, im := range images {
		if u := stringOf(im["original_image_url"]); u != "" {
			return imageRef(u)
		}
	}
	// 8. snapshot直下の汎用動画URL
	if u := stringOf(snap["video_url"]); u != "" {
		return videoRef(u)
	}
	// 9. imagesリスト内の汎用URLキー
	for _, im := range images {
		for _, k := range []string{"url", "src"} {
			if u := stringOf(im[k]); u != "" {
				return imageRef(u)
			}
		}
	}
	// 10. 汎用の代表メディア抽出
	if ref := PrimaryMedia(item); !ref.IsZero() {
		return ref
	}
	// 11. 代替画像
	return imageRef(PlaceholderImageURL)
}
