// Package curate は生の広告レコードを正準形に正規化する純粋関数群を提供する。
//
// スクレイププロバイダの広告レコードはスキーマが一定しない:
// 同じ概念にsnake_caseとcamelCaseのキーが混在し、snapshotサブ構造は
// JSON文字列・マップ・欠損のいずれもありうる。本パッケージの各関数は
// 入力の形がどうであれpanicやエラーを発生させず、解釈できない値は
// 空値に縮退させる。
package curate

import (
	"encoding/json"
	"strconv"

	"github.com/hitoshi/adscope/internal/model"
)

// asMap はvがマップの場合にそれを返す。
func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// mapList はマップのリストとして解釈する。単一マップは1要素のリストに包む。
// リストでもマップでもない場合はnilを返す。
func mapList(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		var out []map[string]any
		for _, e := range t {
			if m, ok := asMap(e); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		return []map[string]any{t}
	default:
		return nil
	}
}

// listMaps はリストの場合のみマップ要素を返す。単一マップは包まない。
func listMaps(v any) []map[string]any {
	t, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, e := range t {
		if m, ok := asMap(e); ok {
			out = append(out, m)
		}
	}
	return out
}

// firstMap はリストの先頭マップまたは単一マップを返す。該当なしはnil。
func firstMap(v any) map[string]any {
	switch t := v.(type) {
	case []any:
		if len(t) > 0 {
			if m, ok := asMap(t[0]); ok {
				return m
			}
		}
		return nil
	case map[string]any:
		return t
	default:
		return nil
	}
}

// stringOf はスカラー値を表示用文字列に変換する。nil・マップ・リストは""。
// JSONデコード由来のfloat64は整数なら小数点なしで整形する。
func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// truthy は値が「存在する」とみなせるかを判定する。
// nil、空文字列、数値ゼロ、false、空リスト・空マップは偽。
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// firstPresent はキー群を順に調べ、最初の非空値を返す。すべて空ならnil。
func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && truthy(v) {
			return v
		}
	}
	return nil
}

// firstString はキー群を順に調べ、最初の非空文字列表現を返す。
func firstString(m map[string]any, keys ...string) string {
	return stringOf(firstPresent(m, keys...))
}

// numericValue は数値または数値文字列をfloat64として解釈する。
func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		if t == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// SnapshotOf はレコードのsnapshotサブ構造をマップとして取り出す。
// JSON文字列の場合はデコードし、失敗または非マップの場合は空マップを返す。
func SnapshotOf(item model.RawAd) map[string]any {
	switch t := item["snapshot"].(type) {
	case map[string]any:
		return t
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(t), &m); err == nil && m != nil {
			return m
		}
		return map[string]any{}
	default:
		return map[string]any{}
	}
}
