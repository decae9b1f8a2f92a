package curate

import (
	"math"
	"strings"
	"time"

	"github.com/hitoshi/adscope/internal/model"
)

// epochMilliThreshold を超えるepoch値はミリ秒とみなして1000で割る。
// 単位フィールドを持たないデータに対する大きさによる推定であり、
// 互換性のため元データの観測に合わせてこの閾値を維持する。
const epochMilliThreshold = 1e12

// dateLayouts は既知の日時表現フォーマット（優先順）。
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// epochToTime はepoch値をUTC時刻に変換する。ミリ秒は秒に正規化する。
func epochToTime(f float64) time.Time {
	if math.Abs(f) > epochMilliThreshold {
		f = f / 1000
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
}

// parseDateMaybe は既知フォーマットまたはepochとして日時の解釈を試みる。
func parseDateMaybe(v any) (time.Time, bool) {
	s := strings.TrimSpace(stringOf(v))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if f, ok := numericValue(s); ok {
		return epochToTime(f), true
	}
	return time.Time{}, false
}

// CoerceDate は異種の日付表現をYYYY-MM-DD（UTC）に正規化する。
// 入力がnil・空・ゼロ、または解釈不能な場合は""を返す。エラーは発生させない。
func CoerceDate(v any) string {
	if !truthy(v) || stringOf(v) == "0" {
		return ""
	}
	if f, ok := numericValue(v); ok {
		return epochToTime(f).Format("2006-01-02")
	}
	if t, ok := parseDateMaybe(v); ok {
		return t.UTC().Format("2006-01-02")
	}
	return ""
}

// nowFunc はテストで現在時刻を差し替えるためのフック。
var nowFunc = time.Now

// RunningDays は広告の開始日から現在までの経過日数を返す。
// 開始日が欠損または解釈不能な場合はok=falseを返す。
// 未来の開始日は負にならず0に丸める。
func RunningDays(item model.RawAd) (int, bool) {
	start := firstPresent(item, "startDate", "start_date")
	t, ok := parseDateMaybe(start)
	if !ok {
		return 0, false
	}
	days := int(nowFunc().UTC().Sub(t).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, true
}

// DaysBetween は2つの日付の間の日数（非負の絶対値）を返す。
// どちらかが欠損・ゼロ・解釈不能な場合は0を返す。
// epochミリ秒はどちら側でも秒に正規化してから差分を取る。
func DaysBetween(start, end any) int {
	st, ok := dateValue(start)
	if !ok {
		return 0
	}
	et, ok := dateValue(end)
	if !ok {
		return 0
	}
	days := int(math.Abs(et.Sub(st).Hours() / 24))
	return days
}

// dateValue はDaysBetweenの端点をUTC時刻として解釈する。
// 文字列はYYYY-MM-DDのみ受け付け、数値はepochとして扱う。
func dateValue(v any) (time.Time, bool) {
	if !truthy(v) {
		return time.Time{}, false
	}
	if s, ok := v.(string); ok {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if f, ok := numericValue(v); ok {
		return epochToTime(f), true
	}
	return time.Time{}, false
}

// DetectStatus は広告のアクティブ状態の表示ラベルを返す。
// 既知のステータスキーを優先し、is_active=falseまたは終了日が過去の場合は
// Inactive、それ以外はActiveと判定する。
func DetectStatus(item model.RawAd) string {
	for _, k := range []string{"activeStatus", "status", "adStatus", "active_status"} {
		if v, ok := item[k]; ok && v != nil {
			return capitalize(stringOf(v))
		}
	}
	if v, ok := item["is_active"].(bool); ok && !v {
		return "Inactive"
	}
	end := firstPresent(item, "endDate", "end_date")
	if t, ok := parseDateMaybe(end); ok && t.Before(nowFunc().UTC()) {
		return "Inactive"
	}
	return "Active"
}

// capitalize は先頭文字のみ大文字、残りを小文字にする。
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
